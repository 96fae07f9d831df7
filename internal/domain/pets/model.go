package pets

import "time"

// Species define las especies soportadas.
// @Enum dragon, cat, dog, rat, elf, robot, wolf, deer, duck, bear
type Species string

const (
	SpeciesDragon Species = "dragon"
	SpeciesCat    Species = "cat"
	SpeciesDog    Species = "dog"
	SpeciesRat    Species = "rat"
	SpeciesElf    Species = "elf"
	SpeciesRobot  Species = "robot"
	SpeciesWolf   Species = "wolf"
	SpeciesDeer   Species = "deer"
	SpeciesDuck   Species = "duck"
	SpeciesBear   Species = "bear"
)

// AllowedSpecies mantiene el orden en que se listan en los mensajes de error.
var AllowedSpecies = []Species{
	SpeciesDragon, SpeciesCat, SpeciesDog, SpeciesRat, SpeciesElf,
	SpeciesRobot, SpeciesWolf, SpeciesDeer, SpeciesDuck, SpeciesBear,
}

func (s Species) Valid() bool {
	for _, a := range AllowedSpecies {
		if s == a {
			return true
		}
	}
	return false
}

const (
	DefaultRarity    = "Common"
	DefaultStatValue = 50

	StatMin = 0
	StatMax = 100

	CreatedByAPI = "api"
)

// Stats son los contadores de bienestar, siempre en [0,100].
type Stats struct {
	Hunger    int `json:"hunger"`
	Happiness int `json:"happiness"`
	Energy    int `json:"energy"`
}

func DefaultStats() Stats {
	return Stats{Hunger: DefaultStatValue, Happiness: DefaultStatValue, Energy: DefaultStatValue}
}

// Pet representa una mascota virtual. OwnerUserID vacío = mascota pública.
type Pet struct {
	ID          string
	OwnerUserID string

	Name    string
	Species Species
	Rarity  string
	Traits  []string
	Stats   Stats
	Image   string

	CreatedBy string // "api" o vacío (web)

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Pet) IsPublic() bool {
	return p.OwnerUserID == ""
}

func (p Pet) HasTrait(trait string) bool {
	for _, t := range p.Traits {
		if t == trait {
			return true
		}
	}
	return false
}

// DefaultImage es la imagen por especie cuando no se indica otra.
func DefaultImage(species Species) string {
	return string(species) + ".png"
}

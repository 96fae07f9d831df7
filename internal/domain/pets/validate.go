package pets

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("pet not found")
)

// ValidationError lleva el mensaje que se muestra al usuario.
// errors.Is(err, ErrInvalidInput) es true.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }

func invalid(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

var validate = validator.New()

// StatsInput: nil = no enviado.
type StatsInput struct {
	Hunger    *int
	Happiness *int
	Energy    *int
}

type CreateInput struct {
	Name    string `validate:"required"`
	Species string `validate:"required"`
	Rarity  string
	Traits  []string
	Stats   StatsInput
	Image   string

	OwnerUserID string
	CreatedBy   string
}

type UpdateInput struct {
	// Punteros para update parcial: nil = no tocar.
	Name    *string
	Species *string
	Rarity  *string
	Traits  *[]string
	Stats   StatsInput
	Image   *string
}

func speciesList() string {
	names := make([]string, 0, len(AllowedSpecies))
	for _, s := range AllowedSpecies {
		names = append(names, string(s))
	}
	return strings.Join(names, ", ")
}

func validateSpecies(raw string) (Species, error) {
	s := Species(strings.TrimSpace(raw))
	if !s.Valid() {
		return "", invalid("Invalid species. Must be one of: %s", speciesList())
	}
	return s, nil
}

// newPet aplica validación y defaults comunes a todos los caminos de creación
// (API, API por username y formulario web). No asigna ID ni timestamps.
func newPet(in CreateInput) (Pet, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Species = strings.TrimSpace(in.Species)

	if err := validate.Struct(in); err != nil {
		return Pet{}, invalid("Pet name and species are required fields")
	}

	species, err := validateSpecies(in.Species)
	if err != nil {
		return Pet{}, err
	}

	stats, err := mergeStats(DefaultStats(), in.Stats)
	if err != nil {
		return Pet{}, err
	}

	rarity := strings.TrimSpace(in.Rarity)
	if rarity == "" {
		rarity = DefaultRarity
	}

	image := strings.TrimSpace(in.Image)
	if image == "" {
		image = DefaultImage(species)
	}

	return Pet{
		OwnerUserID: strings.TrimSpace(in.OwnerUserID),
		Name:        in.Name,
		Species:     species,
		Rarity:      rarity,
		Traits:      NormalizeTraits(in.Traits),
		Stats:       stats,
		Image:       image,
		CreatedBy:   in.CreatedBy,
	}, nil
}

// applyUpdate aplica un update parcial revalidando los campos con restricciones.
// Strings vacíos en name/species/rarity se ignoran.
func applyUpdate(p Pet, in UpdateInput) (Pet, error) {
	if in.Name != nil {
		if v := strings.TrimSpace(*in.Name); v != "" {
			p.Name = v
		}
	}
	if in.Species != nil && strings.TrimSpace(*in.Species) != "" {
		s, err := validateSpecies(*in.Species)
		if err != nil {
			return Pet{}, err
		}
		p.Species = s
	}
	if in.Rarity != nil {
		if v := strings.TrimSpace(*in.Rarity); v != "" {
			p.Rarity = v
		}
	}
	if in.Traits != nil {
		p.Traits = NormalizeTraits(*in.Traits)
	}

	stats, err := mergeStats(p.Stats, in.Stats)
	if err != nil {
		return Pet{}, err
	}
	p.Stats = stats

	if in.Image != nil {
		p.Image = strings.TrimSpace(*in.Image)
	}
	return p, nil
}

func mergeStats(base Stats, in StatsInput) (Stats, error) {
	out := base
	if in.Hunger != nil {
		out.Hunger = *in.Hunger
	}
	if in.Happiness != nil {
		out.Happiness = *in.Happiness
	}
	if in.Energy != nil {
		out.Energy = *in.Energy
	}
	if !out.InRange() {
		return Stats{}, invalid("Stats must be between %d and %d", StatMin, StatMax)
	}
	return out, nil
}

// NormalizeTraits recorta, descarta vacíos y deduplica manteniendo el primer orden visto.
func NormalizeTraits(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, raw := range in {
		t := strings.TrimSpace(raw)
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}

package pets

// Field identifica un campo filtrable de Pet.
type Field string

const (
	FieldSpecies   Field = "species"
	FieldRarity    Field = "rarity"
	FieldTraits    Field = "traits"
	FieldHunger    Field = "hunger"
	FieldHappiness Field = "happiness"
	FieldEnergy    Field = "energy"
)

// Filter es un predicado tipado sobre Pet. Las variantes son:
// Eq (igualdad), Has (pertenencia a conjunto), Between (rango inclusivo),
// OwnedBy y Unowned. Los adapters de storage traducen cada variante a su query.
type Filter interface {
	Match(p Pet) bool
}

// Eq: igualdad exacta sobre species o rarity.
type Eq struct {
	Field Field
	Value string
}

// Has: el conjunto (traits) contiene Value.
type Has struct {
	Field Field
	Value string
}

// Between: rango inclusivo sobre una stat. Min/Max nil = sin límite.
type Between struct {
	Field Field
	Min   *int
	Max   *int
}

type OwnedBy struct {
	UserID string
}

// Unowned: mascotas públicas (sin owner).
type Unowned struct{}

func (f Eq) Match(p Pet) bool {
	v, ok := stringField(p, f.Field)
	return ok && v == f.Value
}

func (f Has) Match(p Pet) bool {
	if f.Field != FieldTraits {
		return false
	}
	return p.HasTrait(f.Value)
}

func (f Between) Match(p Pet) bool {
	v, ok := statField(p.Stats, f.Field)
	if !ok {
		return false
	}
	if f.Min != nil && v < *f.Min {
		return false
	}
	if f.Max != nil && v > *f.Max {
		return false
	}
	return true
}

func (f OwnedBy) Match(p Pet) bool { return p.OwnerUserID == f.UserID }

func (Unowned) Match(p Pet) bool { return p.IsPublic() }

// Query es la conjunción (AND) de filtros. Una Query vacía matchea todo.
type Query struct {
	Filters []Filter
}

func NewQuery(filters ...Filter) Query {
	return Query{Filters: filters}
}

func (q Query) Where(f Filter) Query {
	out := make([]Filter, 0, len(q.Filters)+1)
	out = append(out, q.Filters...)
	out = append(out, f)
	return Query{Filters: out}
}

func (q Query) Match(p Pet) bool {
	for _, f := range q.Filters {
		if !f.Match(p) {
			return false
		}
	}
	return true
}

func stringField(p Pet, f Field) (string, bool) {
	switch f {
	case FieldSpecies:
		return string(p.Species), true
	case FieldRarity:
		return p.Rarity, true
	default:
		return "", false
	}
}

// StatColumn devuelve la clave de la stat dentro del documento stats.
func StatColumn(f Field) (string, bool) {
	switch f {
	case FieldHunger, FieldHappiness, FieldEnergy:
		return string(f), true
	default:
		return "", false
	}
}

func statField(s Stats, f Field) (int, bool) {
	switch f {
	case FieldHunger:
		return s.Hunger, true
	case FieldHappiness:
		return s.Happiness, true
	case FieldEnergy:
		return s.Energy, true
	default:
		return 0, false
	}
}

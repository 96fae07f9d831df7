package pets

// Action es una acción de cuidado sobre la mascota.
type Action string

const (
	ActionFeed Action = "feed"
	ActionPlay Action = "play"
	ActionRest Action = "rest"
)

// ApplyCare devuelve las stats resultantes de aplicar la acción.
// Acciones desconocidas no hacen nada (no es un error).
func ApplyCare(s Stats, a Action) Stats {
	switch a {
	case ActionFeed:
		s.Hunger += 30
		s.Energy += 10
	case ActionPlay:
		s.Happiness += 30
		s.Energy -= 20
	case ActionRest:
		s.Hunger -= 10
		s.Energy += 40
	}
	return s.Clamped()
}

// Clamped fuerza cada stat a [StatMin, StatMax].
func (s Stats) Clamped() Stats {
	return Stats{
		Hunger:    clampStat(s.Hunger),
		Happiness: clampStat(s.Happiness),
		Energy:    clampStat(s.Energy),
	}
}

func (s Stats) InRange() bool {
	return inRange(s.Hunger) && inRange(s.Happiness) && inRange(s.Energy)
}

func clampStat(v int) int {
	if v < StatMin {
		return StatMin
	}
	if v > StatMax {
		return StatMax
	}
	return v
}

func inRange(v int) bool {
	return v >= StatMin && v <= StatMax
}

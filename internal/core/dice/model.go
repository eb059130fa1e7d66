package dice

// Range is an inclusive span of die faces. Low <= High always holds for
// ranges built with NewRange.
type Range struct {
	Low  int
	High int
}

// NewRange builds a range, swapping the bounds when given in reverse.
func NewRange(a, b int) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Low: a, High: b}
}

// PercentRange is the 1..100 range written as d%.
func PercentRange() Range {
	return Range{Low: 1, High: 100}
}

// SimpleRange is the 1..n range written as dN.
func SimpleRange(n int) Range {
	return NewRange(1, n)
}

// Direction selects which end of the sorted results a Keep retains.
type Direction int

const (
	Higher Direction = iota + 1
	Lower
)

func (d Direction) String() string {
	switch d {
	case Higher:
		return "higher"
	case Lower:
		return "lower"
	default:
		return "unknown"
	}
}

// Keep retains the Quantity highest or lowest results.
type Keep struct {
	Direction Direction
	Quantity  int
}

// ExplosionStyle records how an explosion was written. Both styles
// evaluate the same way.
type ExplosionStyle int

const (
	Infinite ExplosionStyle = iota + 1
	Reductive
)

// Limit bounds repeated attempts of an explosion or reroll.
//
// Explicit records whether the notation wrote the limit. Checked is set once
// a tier policy accepted Value; the roller refuses unchecked limits.
type Limit struct {
	Value    int
	Explicit bool
	Checked  bool
}

// Explosion redraws and adds to a die while the latest draw matches.
type Explosion struct {
	Style      ExplosionStyle
	Conditions []Condition
	Limit      Limit
}

// Triggers returns the explosion conditions, defaulting to the range maximum.
func (e Explosion) Triggers() []Condition {
	if len(e.Conditions) == 0 {
		return []Condition{Maximum()}
	}
	return e.Conditions
}

// Reroll redraws matching dice, up to Limit rounds.
type Reroll struct {
	Conditions []Condition
	Limit      Limit
}

// Drop removes dice matching any of its conditions.
type Drop struct {
	Conditions []Condition
}

// TargetedOperation is one arithmetic step of a targeted bonus.
type TargetedOperation struct {
	Operator Operator
	Value    float64
}

// TargetedBonus applies operations to 1-based result positions. Wildcard
// targets every result that exists when the bonus is applied.
type TargetedBonus struct {
	Targets    []int
	Wildcard   bool
	Operations []TargetedOperation
}

// Modifiers aggregates every modifier attached to a dice group.
type Modifiers struct {
	KeepHigher *Keep
	KeepLower  *Keep
	Explosion  *Explosion
	Rerolls    []Reroll
	Drops      []Drop
	Bonuses    []TargetedBonus
}

// Spec is one parsed dice group, NdM plus modifiers.
type Spec struct {
	Quantity  int
	Range     Range
	Modifiers Modifiers
}

// Clone returns a deep copy so validation passes never share slices with
// the tree they were given.
func (s Spec) Clone() Spec {
	out := Spec{Quantity: s.Quantity, Range: s.Range}
	m := s.Modifiers
	if m.KeepHigher != nil {
		k := *m.KeepHigher
		out.Modifiers.KeepHigher = &k
	}
	if m.KeepLower != nil {
		k := *m.KeepLower
		out.Modifiers.KeepLower = &k
	}
	if m.Explosion != nil {
		e := *m.Explosion
		e.Conditions = append([]Condition(nil), m.Explosion.Conditions...)
		out.Modifiers.Explosion = &e
	}
	for _, r := range m.Rerolls {
		r.Conditions = append([]Condition(nil), r.Conditions...)
		out.Modifiers.Rerolls = append(out.Modifiers.Rerolls, r)
	}
	for _, d := range m.Drops {
		d.Conditions = append([]Condition(nil), d.Conditions...)
		out.Modifiers.Drops = append(out.Modifiers.Drops, d)
	}
	for _, b := range m.Bonuses {
		b.Targets = append([]int(nil), b.Targets...)
		b.Operations = append([]TargetedOperation(nil), b.Operations...)
		out.Modifiers.Bonuses = append(out.Modifiers.Bonuses, b)
	}
	return out
}

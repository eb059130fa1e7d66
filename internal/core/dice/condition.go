package dice

import (
	"math"
	"strconv"

	apperrors "github.com/louisbranch/rollplayer/internal/errors"
)

// ConditionKind tags the comparison a Condition performs.
type ConditionKind int

const (
	GreaterThan ConditionKind = iota + 1
	GreaterOrEqual
	LessThan
	LessOrEqual
	Equal
	NotEqual
	Between
	// MaximumValue has no threshold; it matches the active range's high bound.
	MaximumValue
)

// Condition tests a die value. Between uses Threshold and Threshold2 as
// inclusive bounds in either order.
type Condition struct {
	Kind       ConditionKind
	Threshold  float64
	Threshold2 float64
}

// Compare builds a single-threshold condition.
func Compare(kind ConditionKind, threshold float64) Condition {
	return Condition{Kind: kind, Threshold: threshold}
}

// Span builds an inclusive between condition.
func Span(a, b float64) Condition {
	return Condition{Kind: Between, Threshold: a, Threshold2: b}
}

// Maximum builds the implicit explosion condition.
func Maximum() Condition {
	return Condition{Kind: MaximumValue}
}

// Matches reports whether value satisfies the condition for dice rolled
// over rng.
func (c Condition) Matches(value float64, rng Range) bool {
	switch c.Kind {
	case GreaterThan:
		return value > c.Threshold
	case GreaterOrEqual:
		return value >= c.Threshold
	case LessThan:
		return value < c.Threshold
	case LessOrEqual:
		return value <= c.Threshold
	case Equal:
		return value == c.Threshold
	case NotEqual:
		return value != c.Threshold
	case Between:
		low, high := c.Threshold, c.Threshold2
		if low > high {
			low, high = high, low
		}
		return value >= low && value <= high
	case MaximumValue:
		return value == float64(rng.High)
	default:
		return false
	}
}

func (c Condition) String() string {
	switch c.Kind {
	case GreaterThan:
		return ">" + formatNumber(c.Threshold)
	case GreaterOrEqual:
		return ">=" + formatNumber(c.Threshold)
	case LessThan:
		return "<" + formatNumber(c.Threshold)
	case LessOrEqual:
		return "<=" + formatNumber(c.Threshold)
	case Equal:
		return formatNumber(c.Threshold)
	case NotEqual:
		return "!=" + formatNumber(c.Threshold)
	case Between:
		return formatNumber(c.Threshold) + ":" + formatNumber(c.Threshold2)
	case MaximumValue:
		return "max"
	default:
		return "?"
	}
}

func matchesAny(conditions []Condition, value float64, rng Range) bool {
	for _, c := range conditions {
		if c.Matches(value, rng) {
			return true
		}
	}
	return false
}

// Operator is an arithmetic operator shared by targeted bonuses and the
// math evaluator.
type Operator int

const (
	Add Operator = iota + 1
	Sub
	Mul
	Div
)

// Apply computes a op b with floating-point division. Results that are not
// finite numbers are rejected as out of range.
func (o Operator) Apply(a, b float64) (float64, error) {
	var v float64
	switch o {
	case Add:
		v = a + b
	case Sub:
		v = a - b
	case Mul:
		v = a * b
	case Div:
		if b == 0 {
			return 0, apperrors.WithMetadata(apperrors.CodeRollDivisionByZero, "division by zero", map[string]string{
				"Dividend": formatNumber(a),
			})
		}
		v = a / b
	default:
		return 0, apperrors.New(apperrors.CodeRollInternal, "unknown operator "+strconv.Itoa(int(o)))
	}
	if math.IsInf(v, 0) || math.IsNaN(v) {
		expr := strconv.FormatFloat(a, 'g', -1, 64) + " " + o.String() + " " + strconv.FormatFloat(b, 'g', -1, 64)
		return 0, apperrors.WithMetadata(apperrors.CodeRollNumberOutOfRange, "number out of range: "+expr, map[string]string{
			"Value": expr,
		})
	}
	return v, nil
}

func (o Operator) String() string {
	switch o {
	case Add:
		return "+"
	case Sub:
		return "-"
	case Mul:
		return "*"
	case Div:
		return "/"
	default:
		return "?"
	}
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

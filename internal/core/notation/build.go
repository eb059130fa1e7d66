package notation

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/louisbranch/rollplayer/internal/core/dice"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
)

// DefaultRerollLimit is the number of reroll rounds when none is written.
const DefaultRerollLimit = 1

// Build rewrites parsed syntax into an Expression.
//
// Range bounds written in reverse are swapped. Omitted quantities default to
// one die and omitted keep counts to one result. Explosion limits left out of
// the notation stay unset (Explicit false) until a tier policy fills them.
func Build(syntax *Syntax) (Expression, error) {
	if syntax == nil {
		return Expression{}, apperrors.New(apperrors.CodeRollInternal, "build called without syntax")
	}
	b := builder{lead: syntax.lead}
	expr := Expression{Groups: make([]Group, 0, len(syntax.Groups))}
	for _, g := range syntax.Groups {
		root, err := b.sum(g.Sum)
		if err != nil {
			return Expression{}, err
		}
		expr.Groups = append(expr.Groups, Group{Text: g.Text, Root: root})
	}
	return expr, nil
}

type builder struct {
	lead int
}

func (b builder) sum(s *Sum) (Node, error) {
	if s == nil || s.Head == nil {
		return nil, malformed("sum")
	}
	left, err := b.product(s.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range s.Tail {
		right, err := b.product(t.Operand)
		if err != nil {
			return nil, err
		}
		op, err := operator(t.Op)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (b builder) product(p *Product) (Node, error) {
	if p == nil || p.Head == nil {
		return nil, malformed("product")
	}
	left, err := b.unary(p.Head)
	if err != nil {
		return nil, err
	}
	for _, t := range p.Tail {
		right, err := b.unary(t.Operand)
		if err != nil {
			return nil, err
		}
		op, err := operator(t.Op)
		if err != nil {
			return nil, err
		}
		left = Binary{Op: op, Left: left, Right: right}
	}
	return left, nil
}

func (b builder) unary(u *Unary) (Node, error) {
	switch {
	case u == nil:
		return nil, malformed("unary")
	case u.Negated != nil:
		operand, err := b.unary(u.Negated)
		if err != nil {
			return nil, err
		}
		return Negate{Operand: operand}, nil
	case u.Primary != nil:
		return b.primary(u.Primary)
	default:
		return nil, malformed("unary")
	}
}

func (b builder) primary(p *Primary) (Node, error) {
	switch {
	case p.Dice != nil:
		spec, err := b.dice(p.Dice)
		if err != nil {
			return nil, err
		}
		return Dice{Spec: spec, Offset: b.lead + p.Dice.Pos.Offset}, nil
	case p.Number != nil:
		v, err := parseFloat(*p.Number)
		if err != nil {
			return nil, err
		}
		return Number{Value: v}, nil
	case p.Nested != nil:
		return b.sum(p.Nested)
	default:
		return nil, malformed("primary")
	}
}

func (b builder) dice(t *DiceTerm) (dice.Spec, error) {
	spec := dice.Spec{Quantity: 1}
	if t.Quantity != nil {
		q, err := parseInt(*t.Quantity)
		if err != nil {
			return dice.Spec{}, err
		}
		spec.Quantity = q
	}

	rng, err := buildRange(t.Range)
	if err != nil {
		return dice.Spec{}, err
	}
	spec.Range = rng

	for _, m := range t.Modifiers {
		if err := b.fold(&spec.Modifiers, m); err != nil {
			return dice.Spec{}, err
		}
	}
	return spec, nil
}

func buildRange(r *RangeTerm) (dice.Range, error) {
	switch {
	case r == nil:
		return dice.Range{}, malformed("range")
	case r.Percent:
		return dice.PercentRange(), nil
	case r.Bounds != nil && r.Bounds.First != nil:
		first, err := signedInt(r.Bounds.First)
		if err != nil {
			return dice.Range{}, err
		}
		if r.Bounds.Second == nil {
			return dice.SimpleRange(first), nil
		}
		second, err := signedInt(r.Bounds.Second)
		if err != nil {
			return dice.Range{}, err
		}
		return dice.NewRange(first, second), nil
	default:
		return dice.Range{}, malformed("range")
	}
}

// fold adds one modifier to the aggregate.
func (b builder) fold(mods *dice.Modifiers, m *Modifier) error {
	offset := b.lead + m.Pos.Offset
	switch {
	case m.Keep != nil:
		keep, err := buildKeep(m.Keep)
		if err != nil {
			return err
		}
		slot := &mods.KeepHigher
		if keep.Direction == dice.Lower {
			slot = &mods.KeepLower
		}
		if *slot != nil {
			return duplicate(m.Keep.Direction, offset)
		}
		*slot = &keep

	case m.Explode != nil:
		if mods.Explosion != nil {
			return duplicate("!", offset)
		}
		explosion, err := buildExplosion(m.Explode)
		if err != nil {
			return err
		}
		mods.Explosion = &explosion

	case m.Reroll != nil:
		reroll, err := buildReroll(m.Reroll)
		if err != nil {
			return err
		}
		mods.Rerolls = append(mods.Rerolls, reroll)

	case m.Drop != nil:
		conditions, err := buildConditions(m.Drop.Conditions)
		if err != nil {
			return err
		}
		mods.Drops = append(mods.Drops, dice.Drop{Conditions: conditions})

	case m.Bonus != nil:
		bonus, err := buildBonus(m.Bonus)
		if err != nil {
			return err
		}
		mods.Bonuses = append(mods.Bonuses, bonus)

	default:
		return malformed("modifier")
	}
	return nil
}

func buildKeep(k *KeepTerm) (dice.Keep, error) {
	keep := dice.Keep{Direction: dice.Higher, Quantity: 1}
	switch k.Direction {
	case "kh":
	case "kl":
		keep.Direction = dice.Lower
	default:
		return dice.Keep{}, malformed("keep " + k.Direction)
	}
	if k.Quantity != nil {
		q, err := parseInt(*k.Quantity)
		if err != nil {
			return dice.Keep{}, err
		}
		keep.Quantity = q
	}
	return keep, nil
}

func buildExplosion(e *ExplodeTerm) (dice.Explosion, error) {
	explosion := dice.Explosion{Style: dice.Infinite}
	switch e.Style {
	case "!":
	case "!p":
		explosion.Style = dice.Reductive
	default:
		return dice.Explosion{}, malformed("explosion " + e.Style)
	}
	if e.Conditions != nil {
		conditions, err := buildConditions(e.Conditions)
		if err != nil {
			return dice.Explosion{}, err
		}
		explosion.Conditions = conditions
	}
	if e.Limit != nil {
		n, err := parseInt(*e.Limit)
		if err != nil {
			return dice.Explosion{}, err
		}
		explosion.Limit = dice.Limit{Value: n, Explicit: true}
	}
	return explosion, nil
}

func buildReroll(r *RerollTerm) (dice.Reroll, error) {
	conditions, err := buildConditions(r.Conditions)
	if err != nil {
		return dice.Reroll{}, err
	}
	reroll := dice.Reroll{
		Conditions: conditions,
		Limit:      dice.Limit{Value: DefaultRerollLimit},
	}
	if r.Limit != nil {
		n, err := parseInt(*r.Limit)
		if err != nil {
			return dice.Reroll{}, err
		}
		reroll.Limit = dice.Limit{Value: n, Explicit: true}
	}
	return reroll, nil
}

func buildBonus(t *BonusTerm) (dice.TargetedBonus, error) {
	if t.Targets == nil {
		return dice.TargetedBonus{}, malformed("bonus targets")
	}
	bonus := dice.TargetedBonus{Wildcard: t.Targets.Wildcard}
	for _, raw := range t.Targets.Indices {
		n, err := parseInt(raw)
		if err != nil {
			return dice.TargetedBonus{}, err
		}
		bonus.Targets = append(bonus.Targets, n)
	}
	for _, o := range t.Operations {
		op, err := operator(o.Op)
		if err != nil {
			return dice.TargetedBonus{}, err
		}
		v, err := signedNumber(o.Value)
		if err != nil {
			return dice.TargetedBonus{}, err
		}
		bonus.Operations = append(bonus.Operations, dice.TargetedOperation{Operator: op, Value: v})
	}
	return bonus, nil
}

// buildConditions separates two-bound literals, which become inclusive
// spans, from single literals, which become equality tests.
func buildConditions(list *ConditionList) ([]dice.Condition, error) {
	if list == nil || len(list.Conditions) == 0 {
		return nil, malformed("condition list")
	}
	out := make([]dice.Condition, 0, len(list.Conditions))
	for _, c := range list.Conditions {
		switch {
		case c.Comparison != nil:
			kind, err := comparison(c.Comparison.Operator)
			if err != nil {
				return nil, err
			}
			v, err := signedNumber(c.Comparison.Value)
			if err != nil {
				return nil, err
			}
			out = append(out, dice.Compare(kind, v))
		case c.Literal != nil:
			low, err := signedNumber(c.Literal.Low)
			if err != nil {
				return nil, err
			}
			if c.Literal.High == nil {
				out = append(out, dice.Compare(dice.Equal, low))
				continue
			}
			high, err := signedNumber(c.Literal.High)
			if err != nil {
				return nil, err
			}
			out = append(out, dice.Span(low, high))
		default:
			return nil, malformed("condition")
		}
	}
	return out, nil
}

func comparison(op string) (dice.ConditionKind, error) {
	switch op {
	case ">":
		return dice.GreaterThan, nil
	case ">=":
		return dice.GreaterOrEqual, nil
	case "<":
		return dice.LessThan, nil
	case "<=":
		return dice.LessOrEqual, nil
	case "=":
		return dice.Equal, nil
	case "!=":
		return dice.NotEqual, nil
	default:
		return 0, malformed("comparison " + op)
	}
}

func operator(op string) (dice.Operator, error) {
	switch op {
	case "+":
		return dice.Add, nil
	case "-":
		return dice.Sub, nil
	case "*":
		return dice.Mul, nil
	case "/":
		return dice.Div, nil
	default:
		return 0, malformed("operator " + op)
	}
}

func signedInt(s *SignedInt) (int, error) {
	if s == nil {
		return 0, malformed("integer")
	}
	raw := s.Digits
	if s.Negative {
		raw = "-" + raw
	}
	return parseInt(raw)
}

func signedNumber(s *SignedNumber) (float64, error) {
	if s == nil {
		return 0, malformed("number")
	}
	v, err := parseFloat(s.Digits)
	if err != nil {
		return 0, err
	}
	if s.Negative {
		v = -v
	}
	return v, nil
}

// parseInt reads an integer numeral, ignoring '_' separators.
func parseInt(raw string) (int, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	n, err := strconv.ParseInt(clean, 10, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange(raw, err)
		}
		return 0, apperrors.Wrap(apperrors.CodeRollInternal, "parse integer "+raw, err)
	}
	if n > math.MaxInt || n < math.MinInt {
		return 0, outOfRange(raw, nil)
	}
	return int(n), nil
}

// parseFloat reads an integer or decimal numeral, ignoring '_' separators.
func parseFloat(raw string) (float64, error) {
	clean := strings.ReplaceAll(raw, "_", "")
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, outOfRange(raw, err)
		}
		return 0, apperrors.Wrap(apperrors.CodeRollInternal, "parse number "+raw, err)
	}
	return v, nil
}

func outOfRange(raw string, cause error) error {
	return apperrors.WrapWithMetadata(apperrors.CodeRollNumberOutOfRange, "number out of range: "+raw, map[string]string{
		"Value": raw,
	}, cause)
}

func duplicate(modifier string, offset int) error {
	return apperrors.WithMetadata(apperrors.CodeRollDuplicateModifier, "duplicate "+modifier+" modifier", map[string]string{
		"Modifier": modifier,
		"Offset":   strconv.Itoa(offset),
	})
}

func malformed(what string) error {
	return apperrors.New(apperrors.CodeRollInternal, "malformed syntax: "+what)
}

func errUnknownNode(n Node) error {
	return apperrors.New(apperrors.CodeRollInternal, fmt.Sprintf("unknown node %T", n))
}

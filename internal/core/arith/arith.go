// Package arith evaluates checked expressions into per-group values.
package arith

import (
	"context"
	"fmt"
	"strconv"

	"github.com/louisbranch/rollplayer/internal/core/dice"
	"github.com/louisbranch/rollplayer/internal/core/notation"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
)

// Outcome holds one Group per expression group, in request order.
type Outcome struct {
	Groups []Group
}

// Values returns the value of every group.
func (o Outcome) Values() []float64 {
	values := make([]float64, len(o.Groups))
	for i, g := range o.Groups {
		values[i] = g.Value
	}
	return values
}

// Group is the evaluated value of one group.
//
// Roll is set only when the group is a single dice term. A group that
// combines dice with anything else exposes only its scalar Value.
type Group struct {
	Expression string
	Value      float64
	Roll       *dice.RollResult
}

// String renders the group for logs and the CLI, e.g. "3d20kh2 = 27 [20, 7] (original [20, 7, 3])".
func (g Group) String() string {
	value := strconv.FormatFloat(g.Value, 'f', -1, 64)
	if g.Roll == nil {
		return fmt.Sprintf("%s = %s", g.Expression, value)
	}
	return fmt.Sprintf("%s = %s %s", g.Expression, value, g.Roll.String())
}

// Evaluate rolls every dice term with roller and combines the results.
// Multiplication and division bind tighter than addition and subtraction,
// operators of equal precedence associate to the left and division is
// floating point.
func Evaluate(ctx context.Context, expr notation.Expression, roller *dice.Roller) (Outcome, error) {
	out := Outcome{Groups: make([]Group, 0, len(expr.Groups))}
	for _, g := range expr.Groups {
		group := Group{Expression: g.Text}
		if term, ok := g.Root.(notation.Dice); ok {
			res, err := roller.Roll(ctx, term.Spec)
			if err != nil {
				return Outcome{}, err
			}
			group.Value = res.Sum()
			group.Roll = &res
		} else {
			v, err := eval(ctx, g.Root, roller)
			if err != nil {
				return Outcome{}, err
			}
			group.Value = v
		}
		out.Groups = append(out.Groups, group)
	}
	return out, nil
}

func eval(ctx context.Context, n notation.Node, roller *dice.Roller) (float64, error) {
	switch n := n.(type) {
	case notation.Number:
		return n.Value, nil
	case notation.Dice:
		res, err := roller.Roll(ctx, n.Spec)
		if err != nil {
			return 0, err
		}
		return res.Sum(), nil
	case notation.Negate:
		v, err := eval(ctx, n.Operand, roller)
		if err != nil {
			return 0, err
		}
		return -v, nil
	case notation.Binary:
		left, err := eval(ctx, n.Left, roller)
		if err != nil {
			return 0, err
		}
		right, err := eval(ctx, n.Right, roller)
		if err != nil {
			return 0, err
		}
		return n.Op.Apply(left, right)
	default:
		return 0, apperrors.New(apperrors.CodeRollInternal, fmt.Sprintf("unknown node %T", n))
	}
}

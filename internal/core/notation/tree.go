package notation

import (
	"github.com/louisbranch/rollplayer/internal/core/dice"
)

// MaxGroups is the number of whitespace-separated groups one request may hold.
const MaxGroups = 5

// Expression is a built request: independent groups reported side by side.
type Expression struct {
	Groups []Group
}

// Group is one whitespace-separated expression and its source text.
type Group struct {
	Text string
	Root Node
}

// Node is a typed expression node: Number, Dice, Negate or Binary.
type Node interface {
	isNode()
}

// Number is a literal.
type Number struct {
	Value float64
}

// Dice is a dice term. Offset is the byte position of the term in its request.
type Dice struct {
	Spec   dice.Spec
	Offset int
}

// Negate is unary minus.
type Negate struct {
	Operand Node
}

// Binary applies Op to the values of Left and Right.
type Binary struct {
	Op    dice.Operator
	Left  Node
	Right Node
}

func (Number) isNode() {}
func (Dice) isNode()   {}
func (Negate) isNode() {}
func (Binary) isNode() {}

// MapDice returns a copy of expr with every dice spec replaced by fn's
// result. fn receives a clone, so expr is never modified.
func MapDice(expr Expression, fn func(dice.Spec) (dice.Spec, error)) (Expression, error) {
	out := Expression{Groups: make([]Group, 0, len(expr.Groups))}
	for _, g := range expr.Groups {
		root, err := mapNode(g.Root, fn)
		if err != nil {
			return Expression{}, err
		}
		out.Groups = append(out.Groups, Group{Text: g.Text, Root: root})
	}
	return out, nil
}

func mapNode(n Node, fn func(dice.Spec) (dice.Spec, error)) (Node, error) {
	switch n := n.(type) {
	case Number:
		return n, nil
	case Dice:
		spec, err := fn(n.Spec.Clone())
		if err != nil {
			return nil, err
		}
		return Dice{Spec: spec, Offset: n.Offset}, nil
	case Negate:
		operand, err := mapNode(n.Operand, fn)
		if err != nil {
			return nil, err
		}
		return Negate{Operand: operand}, nil
	case Binary:
		left, err := mapNode(n.Left, fn)
		if err != nil {
			return nil, err
		}
		right, err := mapNode(n.Right, fn)
		if err != nil {
			return nil, err
		}
		return Binary{Op: n.Op, Left: left, Right: right}, nil
	default:
		return nil, errUnknownNode(n)
	}
}

// Specs lists the dice specs of expr in source order.
func Specs(expr Expression) []dice.Spec {
	var specs []dice.Spec
	var walk func(Node)
	walk = func(n Node) {
		switch n := n.(type) {
		case Dice:
			specs = append(specs, n.Spec)
		case Negate:
			walk(n.Operand)
		case Binary:
			walk(n.Left)
			walk(n.Right)
		}
	}
	for _, g := range expr.Groups {
		walk(g.Root)
	}
	return specs
}

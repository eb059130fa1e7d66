package notation

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// syntaxRoot is a whole request: dice groups separated by whitespace.
type syntaxRoot struct {
	Groups []*Sum `@@ ( Whitespace @@ )*`
}

// Sum is an additive chain.
type Sum struct {
	Head *Product  `@@`
	Tail []*SumOp `@@*`
}

// SumOp is one "+ term" or "- term" step.
type SumOp struct {
	Op      string   `@( "+" | "-" )`
	Operand *Product `@@`
}

// Product is a multiplicative chain.
type Product struct {
	Head *Unary       `@@`
	Tail []*ProductOp `@@*`
}

// ProductOp is one "* term" or "/ term" step.
type ProductOp struct {
	Op      string `@( "*" | "/" )`
	Operand *Unary `@@`
}

// Unary is an optionally negated primary.
type Unary struct {
	Negated *Unary   `  "-" @@`
	Primary *Primary `| @@`
}

// Primary is a dice term, a literal, or a parenthesised sum.
type Primary struct {
	Dice   *DiceTerm `  @@`
	Number *string   `| @( Float | Int )`
	Nested *Sum      `| "(" @@ ")"`
}

// DiceTerm is NdM followed by modifiers.
type DiceTerm struct {
	Pos lexer.Position

	Quantity  *string     `@Int?`
	Range     *RangeTerm  `Dice @@`
	Modifiers []*Modifier `@@*`
}

// RangeTerm is d%, da..b or dn.
type RangeTerm struct {
	Percent bool         `  @"%"`
	Bounds  *RangeBounds `| @@`
}

// RangeBounds is a bare n or an explicit a..b.
type RangeBounds struct {
	First  *SignedInt `@@`
	Second *SignedInt `( Span @@ )?`
}

// SignedInt is an integer with an optional leading minus.
type SignedInt struct {
	Negative bool   `@"-"?`
	Digits   string `@Int`
}

// SignedNumber is an integer or decimal with an optional leading minus.
type SignedNumber struct {
	Negative bool   `@"-"?`
	Digits   string `@( Float | Int )`
}

// Modifier is one suffix of a dice term; exactly one field is set.
type Modifier struct {
	Pos lexer.Position

	Keep    *KeepTerm    `  @@`
	Explode *ExplodeTerm `| @@`
	Reroll  *RerollTerm  `| @@`
	Drop    *DropTerm    `| @@`
	Bonus   *BonusTerm   `| @@`
}

// KeepTerm is kh[n] or kl[n].
type KeepTerm struct {
	Direction string  `@Keep`
	Quantity  *string `@Int?`
}

// ExplodeTerm is !{conditions}:limit, or !p for the reductive style.
type ExplodeTerm struct {
	Style      string         `@Explode`
	Conditions *ConditionList `@@?`
	Limit      *string        `( ":" @Int )?`
}

// RerollTerm is rr{conditions}:limit.
type RerollTerm struct {
	Conditions *ConditionList `Reroll @@`
	Limit      *string        `( ":" @Int )?`
}

// DropTerm is drop{conditions}.
type DropTerm struct {
	Conditions *ConditionList `Drop @@`
}

// BonusTerm is i<targets>:<op><value>... .
type BonusTerm struct {
	Targets    *TargetList `Target @@`
	Operations []*BonusOp  `( ":" @@ )+`
}

// TargetList is * or comma-separated 1-based positions.
type TargetList struct {
	Wildcard bool     `  @"*"`
	Indices  []string `| @Int ( "," @Int )*`
}

// BonusOp is one arithmetic step of a bonus.
type BonusOp struct {
	Op    string        `@( "+" | "-" | "*" | "/" )`
	Value *SignedNumber `@@`
}

// ConditionList is {cond, cond, ...}.
type ConditionList struct {
	Conditions []*ConditionTerm `"{" @@ ( "," @@ )* "}"`
}

// ConditionTerm is a comparison, or a literal that is either an equality
// or, with a second bound, an inclusive a:b span.
type ConditionTerm struct {
	Comparison *Comparison `  @@`
	Literal    *Literal    `| @@`
}

// Comparison is an explicit operator and threshold, e.g. >=18.
type Comparison struct {
	Operator string        `@Compare`
	Value    *SignedNumber `@@`
}

// Literal is a bare value or an a:b span.
type Literal struct {
	Low  *SignedNumber `@@`
	High *SignedNumber `( ":" @@ )?`
}

var notationLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Whitespace", Pattern: `[ \t\r\n]+`},
	{Name: "Float", Pattern: `[0-9][0-9_]*\.[0-9][0-9_]*`},
	{Name: "Int", Pattern: `[0-9][0-9_]*`},
	{Name: "Keep", Pattern: `k[hl]`},
	{Name: "Reroll", Pattern: `rr|R`},
	{Name: "Drop", Pattern: `drop|dr|D`},
	{Name: "Dice", Pattern: `d`},
	{Name: "Target", Pattern: `i`},
	{Name: "Compare", Pattern: `<=|>=|!=|<|>|=`},
	{Name: "Explode", Pattern: `!p?`},
	{Name: "Span", Pattern: `\.\.`},
	{Name: "Punct", Pattern: `[-+*/%(){}:,]`},
})

var parser = participle.MustBuild[syntaxRoot](
	participle.Lexer(notationLexer),
	participle.UseLookahead(2),
)

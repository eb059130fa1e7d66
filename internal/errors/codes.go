// Package errors provides structured roll errors with i18n support.
//
// Every failure surfaced by the roll pipeline is an *Error carrying a Code.
// Codes group into four caller-facing kinds (syntax, upsell, hard limit and
// timeout), an argument kind for bad request fields such as an unknown tier,
// and an internal kind for invariant violations. Callers branch on
// the kind to pick messaging and on the code to localize the message.
package errors

import "google.golang.org/grpc/codes"

// Code is a machine-readable error code.
type Code string

const (
	// CodeUnknown represents an unknown error.
	CodeUnknown Code = "UNKNOWN"

	// Notation errors
	CodeRollSyntax            Code = "ROLL_SYNTAX"
	CodeRollNumberOutOfRange  Code = "ROLL_NUMBER_OUT_OF_RANGE"
	CodeRollTooManyGroups     Code = "ROLL_TOO_MANY_GROUPS"
	CodeRollDuplicateModifier Code = "ROLL_DUPLICATE_MODIFIER"

	// Request errors
	CodeRollUnknownTier Code = "ROLL_UNKNOWN_TIER"

	// Tier limit errors
	CodeRollZeroDice        Code = "ROLL_ZERO_DICE"
	CodeRollDiceUpsell      Code = "ROLL_DICE_UPSELL"
	CodeRollDiceLimit       Code = "ROLL_DICE_LIMIT"
	CodeRollExplosionUpsell Code = "ROLL_EXPLOSION_UPSELL"
	CodeRollExplosionLimit  Code = "ROLL_EXPLOSION_LIMIT"
	CodeRollRerollUpsell    Code = "ROLL_REROLL_UPSELL"
	CodeRollRerollLimit     Code = "ROLL_REROLL_LIMIT"

	// Evaluation errors
	CodeRollKeepNothing    Code = "ROLL_KEEP_NOTHING"
	CodeRollTargetZero     Code = "ROLL_TARGET_ZERO"
	CodeRollTargetMissing  Code = "ROLL_TARGET_MISSING"
	CodeRollDivisionByZero Code = "ROLL_DIVISION_BY_ZERO"
	CodeRollRangeTooWide   Code = "ROLL_RANGE_TOO_WIDE"

	// Supervisor errors
	CodeRollTimeout  Code = "ROLL_TIMEOUT"
	CodeRollInternal Code = "ROLL_INTERNAL"
)

// Kind groups codes by how a caller should react to them.
type Kind int

const (
	// KindInternal marks invariant violations inside the pipeline.
	KindInternal Kind = iota
	// KindSyntax marks expressions that do not match the grammar.
	KindSyntax
	// KindUpsell marks magnitudes a higher tier would accept.
	KindUpsell
	// KindHardLimit marks magnitudes no tier accepts and structural impossibilities.
	KindHardLimit
	// KindTimeout marks evaluations that overran the tier's time budget.
	KindTimeout
	// KindArgument marks request fields other than the expression that
	// cannot be used, such as an unknown tier.
	KindArgument
)

func (k Kind) String() string {
	switch k {
	case KindSyntax:
		return "syntax"
	case KindUpsell:
		return "upsell"
	case KindHardLimit:
		return "hard_limit"
	case KindTimeout:
		return "timeout"
	case KindArgument:
		return "invalid_argument"
	default:
		return "internal"
	}
}

// Kind maps a code to its caller-facing kind.
func (c Code) Kind() Kind {
	switch c {
	case CodeRollSyntax:
		return KindSyntax

	case CodeRollUnknownTier:
		return KindArgument

	case CodeRollDiceUpsell,
		CodeRollExplosionUpsell,
		CodeRollRerollUpsell:
		return KindUpsell

	case CodeRollNumberOutOfRange,
		CodeRollTooManyGroups,
		CodeRollDuplicateModifier,
		CodeRollZeroDice,
		CodeRollDiceLimit,
		CodeRollExplosionLimit,
		CodeRollRerollLimit,
		CodeRollKeepNothing,
		CodeRollTargetZero,
		CodeRollTargetMissing,
		CodeRollDivisionByZero,
		CodeRollRangeTooWide:
		return KindHardLimit

	case CodeRollTimeout:
		return KindTimeout

	default:
		return KindInternal
	}
}

// GRPCCode maps domain codes to gRPC status codes.
func (c Code) GRPCCode() codes.Code {
	switch c.Kind() {
	// InvalidArgument - the expression or another request field is wrong
	case KindSyntax, KindHardLimit, KindArgument:
		return codes.InvalidArgument

	// PermissionDenied - a higher tier would allow the request
	case KindUpsell:
		return codes.PermissionDenied

	// DeadlineExceeded - the tier's time budget ran out
	case KindTimeout:
		return codes.DeadlineExceeded

	default:
		return codes.Internal
	}
}

package i18n

// Error codes must match the codes defined in internal/errors/codes.go.
// These are duplicated as strings to avoid an import cycle.
const (
	CodeRollSyntax            = "ROLL_SYNTAX"
	CodeRollNumberOutOfRange  = "ROLL_NUMBER_OUT_OF_RANGE"
	CodeRollTooManyGroups     = "ROLL_TOO_MANY_GROUPS"
	CodeRollDuplicateModifier = "ROLL_DUPLICATE_MODIFIER"
	CodeRollUnknownTier       = "ROLL_UNKNOWN_TIER"
	CodeRollZeroDice          = "ROLL_ZERO_DICE"
	CodeRollDiceUpsell        = "ROLL_DICE_UPSELL"
	CodeRollDiceLimit         = "ROLL_DICE_LIMIT"
	CodeRollExplosionUpsell   = "ROLL_EXPLOSION_UPSELL"
	CodeRollExplosionLimit    = "ROLL_EXPLOSION_LIMIT"
	CodeRollRerollUpsell      = "ROLL_REROLL_UPSELL"
	CodeRollRerollLimit       = "ROLL_REROLL_LIMIT"
	CodeRollKeepNothing       = "ROLL_KEEP_NOTHING"
	CodeRollTargetZero        = "ROLL_TARGET_ZERO"
	CodeRollTargetMissing     = "ROLL_TARGET_MISSING"
	CodeRollDivisionByZero    = "ROLL_DIVISION_BY_ZERO"
	CodeRollRangeTooWide      = "ROLL_RANGE_TOO_WIDE"
	CodeRollTimeout           = "ROLL_TIMEOUT"
	CodeRollInternal          = "ROLL_INTERNAL"
)

var enUSCatalog = &Catalog{
	locale: BaseLocale,
	messages: map[Code]string{
		// Notation errors
		CodeRollSyntax:            "Could not parse the roll near position {{.Offset}}: {{.Detail}}",
		CodeRollNumberOutOfRange:  "The number {{.Value}} is too large",
		CodeRollTooManyGroups:     "You can roll at most {{.Limit}} groups of dice at once",
		CodeRollDuplicateModifier: "The {{.Modifier}} modifier can only be used once per dice group",
		CodeRollUnknownTier:       "There is no {{.Tier}} tier",

		// Tier limit errors
		CodeRollZeroDice:        "You can't roll zero dice",
		CodeRollDiceUpsell:      "You can't roll more than {{.Limit}} dice without Rollplayer Gamemaster",
		CodeRollDiceLimit:       "The dice limit of {{.Limit}} was reached",
		CodeRollExplosionUpsell: "You can't increase the explosion limit past {{.Limit}} without Rollplayer Gamemaster",
		CodeRollExplosionLimit:  "The explosion limit of {{.Limit}} was reached",
		CodeRollRerollUpsell:    "You can't increase the reroll limit past {{.Limit}} without Rollplayer Gamemaster",
		CodeRollRerollLimit:     "The reroll limit of {{.Limit}} was reached",

		// Evaluation errors
		CodeRollKeepNothing:    "You can't keep nothing",
		CodeRollTargetZero:     "Dice are numbered from 1, so there is no die 0 to target",
		CodeRollTargetMissing:  "You can't give a bonus to die {{.Target}}: only {{.Count}} dice remain",
		CodeRollDivisionByZero: "The roll divides by zero",
		CodeRollRangeTooWide:   "The range {{.Low}}..{{.High}} is too wide to roll",

		// Supervisor errors
		CodeRollTimeout:  "The roll took longer than {{.Timeout}} and was stopped",
		CodeRollInternal: "Something went wrong while rolling",
	},
}

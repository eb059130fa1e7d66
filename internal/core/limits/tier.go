// Package limits validates dice expressions against per-tier quotas.
//
// A tier selects a Policy: caps on dice per group, explosions per die and
// reroll rounds per clause, plus the evaluation time budget. Exceeding a cap
// fails in one of two ways. An upsell error means a higher tier would accept
// the value; a hard-limit error means no tier would.
package limits

import (
	"fmt"
	"strings"
	"time"

	"github.com/louisbranch/rollplayer/internal/platform/timeouts"
)

// Tier is a permission level.
type Tier string

const (
	// Restricted is the lowest tier.
	Restricted Tier = "restricted"
	// Stopgap grants elevated caps with the standard time budget until real
	// entitlements exist.
	Stopgap Tier = "stopgap"
	// Elevated is the highest tier.
	Elevated Tier = "elevated"
)

// DefaultTier is used when a request names no tier.
const DefaultTier = Stopgap

// Tiers lists every tier from lowest to highest.
func Tiers() []Tier {
	return []Tier{Restricted, Stopgap, Elevated}
}

// ParseTier parses a tier name, ignoring case and surrounding whitespace.
func ParseTier(s string) (Tier, error) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case Restricted, Stopgap, Elevated:
		return t, nil
	default:
		return "", fmt.Errorf("unknown tier %q", s)
	}
}

func (t Tier) String() string {
	return string(t)
}

// Caps are the magnitude limits of a tier.
type Caps struct {
	Dice       int
	Explosions int
	Rerolls    int
}

// Policy is the full configuration of one tier.
type Policy struct {
	Tier Tier
	Caps Caps
	// Ceiling holds the caps of the highest tier; values above it are hard
	// limits everywhere.
	Ceiling Caps
	Timeout time.Duration
	// Elevated marks tiers granted elevated permissions. Limit checks
	// depend only on Caps and Ceiling.
	Elevated bool
}

// DiceChecker checks dice quantities.
func (p Policy) DiceChecker() Checker {
	return Checker{Limit: p.Caps.Dice, Ceiling: p.Ceiling.Dice}
}

// ExplosionChecker checks explosion limits.
func (p Policy) ExplosionChecker() Checker {
	return Checker{Limit: p.Caps.Explosions, Ceiling: p.Ceiling.Explosions}
}

// RerollChecker checks reroll limits.
func (p Policy) RerollChecker() Checker {
	return Checker{Limit: p.Caps.Rerolls, Ceiling: p.Ceiling.Rerolls}
}

// Table resolves tiers to policies.
type Table struct {
	policies    map[Tier]Policy
	defaultTier Tier
}

// NewTable builds a table from per-tier policies. Every tier must be
// present; each policy's Ceiling is set from the Elevated policy.
func NewTable(defaultTier Tier, policies map[Tier]Policy) (*Table, error) {
	if _, err := ParseTier(string(defaultTier)); err != nil {
		return nil, fmt.Errorf("default tier: %w", err)
	}
	top, ok := policies[Elevated]
	if !ok {
		return nil, fmt.Errorf("missing policy for tier %s", Elevated)
	}
	table := &Table{policies: make(map[Tier]Policy, len(policies)), defaultTier: defaultTier}
	for _, tier := range Tiers() {
		p, ok := policies[tier]
		if !ok {
			return nil, fmt.Errorf("missing policy for tier %s", tier)
		}
		if err := validate(p); err != nil {
			return nil, fmt.Errorf("tier %s: %w", tier, err)
		}
		p.Tier = tier
		p.Ceiling = top.Caps
		table.policies[tier] = p
	}
	return table, nil
}

func validate(p Policy) error {
	if p.Caps.Dice <= 0 {
		return fmt.Errorf("max dice must be positive")
	}
	if p.Caps.Explosions < 0 || p.Caps.Rerolls < 0 {
		return fmt.Errorf("explosion and reroll caps must not be negative")
	}
	if p.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	return nil
}

// DefaultPolicies returns the built-in tier configuration.
func DefaultPolicies() map[Tier]Policy {
	return map[Tier]Policy{
		Restricted: {
			Caps:    Caps{Dice: 1000, Explosions: 5, Rerolls: 5},
			Timeout: timeouts.StandardRoll,
		},
		Stopgap: {
			Caps:     Caps{Dice: 1000, Explosions: 25, Rerolls: 5},
			Timeout:  timeouts.StandardRoll,
			Elevated: true,
		},
		Elevated: {
			Caps:     Caps{Dice: 10000, Explosions: 50, Rerolls: 30},
			Timeout:  timeouts.ElevatedRoll,
			Elevated: true,
		},
	}
}

// DefaultTable is the table built from DefaultPolicies.
func DefaultTable() *Table {
	table, err := NewTable(DefaultTier, DefaultPolicies())
	if err != nil {
		panic(err)
	}
	return table
}

// Policy returns the policy for tier. An empty tier selects the default.
func (t *Table) Policy(tier Tier) (Policy, error) {
	if tier == "" {
		tier = t.defaultTier
	}
	p, ok := t.policies[tier]
	if !ok {
		return Policy{}, fmt.Errorf("unknown tier %q", tier)
	}
	return p, nil
}

// DefaultTier returns the tier used for requests that name none.
func (t *Table) DefaultTier() Tier {
	return t.defaultTier
}

// PolicyFor returns the built-in policy for tier.
func PolicyFor(tier Tier) (Policy, error) {
	return DefaultTable().Policy(tier)
}

package limits

import (
	"strconv"

	"github.com/louisbranch/rollplayer/internal/core/dice"
	"github.com/louisbranch/rollplayer/internal/core/notation"
	apperrors "github.com/louisbranch/rollplayer/internal/errors"
)

// Checker applies one tier's cap to one kind of magnitude.
//
// A value above Limit is an upsell when it fits under Ceiling, the cap of
// the highest tier, and a hard limit otherwise.
type Checker struct {
	Limit   int
	Ceiling int
}

// Check validates value, returning upsell or hard when it is too large.
func (c Checker) Check(value int, upsell, hard apperrors.Code) error {
	if value <= c.Limit {
		return nil
	}
	meta := map[string]string{
		"Value": strconv.Itoa(value),
		"Limit": strconv.Itoa(c.Limit),
	}
	if value <= c.Ceiling {
		return apperrors.WithMetadata(upsell, "value exceeds tier cap", meta)
	}
	meta["Limit"] = strconv.Itoa(max(c.Limit, c.Ceiling))
	return apperrors.WithMetadata(hard, "value exceeds every tier cap", meta)
}

// CheckDice rejects groups of zero dice and quantities over the cap.
func CheckDice(expr notation.Expression, c Checker) (notation.Expression, error) {
	return notation.MapDice(expr, func(spec dice.Spec) (dice.Spec, error) {
		if spec.Quantity <= 0 {
			return dice.Spec{}, apperrors.New(apperrors.CodeRollZeroDice, "can't roll zero dice")
		}
		if err := c.Check(spec.Quantity, apperrors.CodeRollDiceUpsell, apperrors.CodeRollDiceLimit); err != nil {
			return dice.Spec{}, err
		}
		return spec, nil
	})
}

// CheckExplosions checks explicit explosion limits and fills omitted ones
// with the tier cap.
func CheckExplosions(expr notation.Expression, c Checker) (notation.Expression, error) {
	return notation.MapDice(expr, func(spec dice.Spec) (dice.Spec, error) {
		e := spec.Modifiers.Explosion
		if e == nil {
			return spec, nil
		}
		if !e.Limit.Explicit {
			e.Limit.Value = c.Limit
		} else if err := c.Check(e.Limit.Value, apperrors.CodeRollExplosionUpsell, apperrors.CodeRollExplosionLimit); err != nil {
			return dice.Spec{}, err
		}
		e.Limit.Checked = true
		return spec, nil
	})
}

// CheckRerolls checks every reroll clause's limit.
func CheckRerolls(expr notation.Expression, c Checker) (notation.Expression, error) {
	return notation.MapDice(expr, func(spec dice.Spec) (dice.Spec, error) {
		for i := range spec.Modifiers.Rerolls {
			limit := &spec.Modifiers.Rerolls[i].Limit
			if err := c.Check(limit.Value, apperrors.CodeRollRerollUpsell, apperrors.CodeRollRerollLimit); err != nil {
				return dice.Spec{}, err
			}
			limit.Checked = true
		}
		return spec, nil
	})
}

// Check runs the dice, explosion and reroll passes in order.
func Check(expr notation.Expression, p Policy) (notation.Expression, error) {
	checked, err := CheckDice(expr, p.DiceChecker())
	if err != nil {
		return notation.Expression{}, err
	}
	checked, err = CheckExplosions(checked, p.ExplosionChecker())
	if err != nil {
		return notation.Expression{}, err
	}
	return CheckRerolls(checked, p.RerollChecker())
}

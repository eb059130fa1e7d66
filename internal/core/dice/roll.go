// Package dice rolls validated dice groups and applies their modifiers.
package dice

import (
	"context"
	"sort"
	"strconv"
	"strings"

	apperrors "github.com/louisbranch/rollplayer/internal/errors"
)

// Source supplies uniform random integers. *math/rand.Rand satisfies it.
type Source interface {
	// Int63n returns a non-negative random int64 in [0, n).
	Int63n(n int64) int64
}

// Roller draws dice from a Source. A Roller belongs to a single evaluation
// and is not safe for concurrent use.
type Roller struct {
	src   Source
	draws int
}

// NewRoller creates a roller over src.
func NewRoller(src Source) *Roller {
	return &Roller{src: src}
}

// Draws returns how many dice the roller has drawn so far.
func (r *Roller) Draws() int {
	return r.draws
}

// Roll rolls spec and applies its modifiers.
//
// # Order
//
// Raw values are drawn first and copied into Original, which is never
// touched again. Results then passes through keep, drop, reroll, explosion
// and targeted bonus, in that order.
//
// # Cancellation
//
// ctx is checked before every draw. Once ctx is done Roll stops drawing and
// returns a timeout error; the partial result is discarded.
//
// # Errors
//
//   - Quantity must be positive (ROLL_ZERO_DICE).
//   - Explosion and reroll limits must have been checked (ROLL_INTERNAL).
//   - Keeping zero dice, targeting die 0 or a die that no longer exists and
//     dividing by zero are hard-limit errors.
func (r *Roller) Roll(ctx context.Context, spec Spec) (RollResult, error) {
	if spec.Quantity <= 0 {
		return RollResult{}, apperrors.New(apperrors.CodeRollZeroDice, "can't roll zero dice")
	}
	if err := checkedLimits(spec.Modifiers); err != nil {
		return RollResult{}, err
	}
	if err := checkWidth(spec.Range); err != nil {
		return RollResult{}, err
	}

	original := make([]int, spec.Quantity)
	for i := range original {
		value, err := r.draw(ctx, spec.Range)
		if err != nil {
			return RollResult{}, err
		}
		original[i] = value
	}

	results := make([]float64, len(original))
	for i, v := range original {
		results[i] = float64(v)
	}
	res := RollResult{Original: original, Results: results}

	mods := spec.Modifiers
	kept, err := applyKeep(res.Results, mods.KeepHigher, mods.KeepLower)
	if err != nil {
		return RollResult{}, err
	}
	res.Results = applyDrops(kept, mods.Drops, spec.Range)

	rounds, err := r.applyRerolls(ctx, res.Results, mods.Rerolls, spec.Range)
	if err != nil {
		return RollResult{}, err
	}
	res.RerollRounds = rounds

	if mods.Explosion != nil {
		explosions, err := r.applyExplosion(ctx, res.Results, *mods.Explosion, spec.Range)
		if err != nil {
			return RollResult{}, err
		}
		res.Explosions = explosions
	}

	if err := applyBonuses(res.Results, mods.Bonuses); err != nil {
		return RollResult{}, err
	}
	return res, nil
}

func (r *Roller) draw(ctx context.Context, rng Range) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, apperrors.Wrap(apperrors.CodeRollTimeout, "roll cancelled", err)
	}
	width := int64(rng.High) - int64(rng.Low) + 1
	r.draws++
	return rng.Low + int(r.src.Int63n(width)), nil
}

func checkWidth(rng Range) error {
	width := int64(rng.High) - int64(rng.Low) + 1
	if width <= 0 {
		return apperrors.WithMetadata(apperrors.CodeRollRangeTooWide, "range width overflows", map[string]string{
			"Low":  strconv.Itoa(rng.Low),
			"High": strconv.Itoa(rng.High),
		})
	}
	return nil
}

func checkedLimits(m Modifiers) error {
	if m.Explosion != nil && !m.Explosion.Limit.Checked {
		return apperrors.New(apperrors.CodeRollInternal, "explosion limit was not checked against a tier")
	}
	for _, rr := range m.Rerolls {
		if !rr.Limit.Checked {
			return apperrors.New(apperrors.CodeRollInternal, "reroll limit was not checked against a tier")
		}
	}
	return nil
}

// applyKeep keeps the highest and lowest results by value. Positions are
// ranked by value, so equal values are kept as many times as they were
// rolled. Kept values stay in their rolled order.
func applyKeep(results []float64, higher, lower *Keep) ([]float64, error) {
	if higher == nil && lower == nil {
		return results, nil
	}
	total := 0
	if higher != nil {
		total += higher.Quantity
	}
	if lower != nil {
		total += lower.Quantity
	}
	if total == 0 {
		return nil, apperrors.New(apperrors.CodeRollKeepNothing, "can't keep nothing")
	}

	order := make([]int, len(results))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return results[order[a]] < results[order[b]]
	})

	keep := make([]bool, len(results))
	if lower != nil {
		for i := 0; i < lower.Quantity && i < len(order); i++ {
			keep[order[i]] = true
		}
	}
	if higher != nil {
		for i := 0; i < higher.Quantity && i < len(order); i++ {
			keep[order[len(order)-1-i]] = true
		}
	}

	kept := make([]float64, 0, min(total, len(results)))
	for i, v := range results {
		if keep[i] {
			kept = append(kept, v)
		}
	}
	return kept, nil
}

// applyDrops removes every result matched by any condition of any drop.
func applyDrops(results []float64, drops []Drop, rng Range) []float64 {
	if len(drops) == 0 {
		return results
	}
	matched := map[int]bool{}
	for _, d := range drops {
		for i, v := range results {
			if matchesAny(d.Conditions, v, rng) {
				matched[i] = true
			}
		}
	}
	indices := make([]int, 0, len(matched))
	for i := range matched {
		indices = append(indices, i)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(indices)))
	for _, i := range indices {
		results = append(results[:i], results[i+1:]...)
	}
	return results
}

// applyRerolls runs each reroll clause for up to its limit in rounds. A round
// redraws every matching die at once; a round with no matches ends the
// clause early. It returns the number of rounds that redrew at least one die.
func (r *Roller) applyRerolls(ctx context.Context, results []float64, rerolls []Reroll, rng Range) (int, error) {
	rounds := 0
	for _, rr := range rerolls {
		for attempt := 0; attempt < rr.Limit.Value; attempt++ {
			var matching []int
			for i, v := range results {
				if matchesAny(rr.Conditions, v, rng) {
					matching = append(matching, i)
				}
			}
			if len(matching) == 0 {
				break
			}
			for _, i := range matching {
				value, err := r.draw(ctx, rng)
				if err != nil {
					return rounds, err
				}
				results[i] = float64(value)
			}
			rounds++
		}
	}
	return rounds, nil
}

// applyExplosion grows each result in place while its latest draw matches a
// trigger, up to the explosion limit per die. It returns the number of
// chained additions across all dice.
func (r *Roller) applyExplosion(ctx context.Context, results []float64, e Explosion, rng Range) (int, error) {
	triggers := e.Triggers()
	total := 0
	for i := range results {
		last := results[i]
		for attempts := 0; attempts < e.Limit.Value && matchesAny(triggers, last, rng); attempts++ {
			value, err := r.draw(ctx, rng)
			if err != nil {
				return total, err
			}
			results[i] += float64(value)
			last = float64(value)
			total++
		}
	}
	return total, nil
}

// applyBonuses applies targeted operations in clause order. Wildcards
// resolve against the results that survived the earlier stages.
func applyBonuses(results []float64, bonuses []TargetedBonus) error {
	for _, b := range bonuses {
		targets := b.Targets
		if b.Wildcard {
			targets = make([]int, len(results))
			for i := range targets {
				targets[i] = i + 1
			}
		}
		for _, target := range targets {
			if target == 0 {
				return apperrors.New(apperrors.CodeRollTargetZero, "targeted bonus addresses die 0")
			}
			if target < 0 || target > len(results) {
				return apperrors.WithMetadata(apperrors.CodeRollTargetMissing, "bonus to a non-existent die", map[string]string{
					"Target": strconv.Itoa(target),
					"Count":  strconv.Itoa(len(results)),
				})
			}
		}
		for _, target := range targets {
			for _, op := range b.Operations {
				value, err := op.Operator.Apply(results[target-1], op.Value)
				if err != nil {
					return err
				}
				results[target-1] = value
			}
		}
	}
	return nil
}

// RollResult is the outcome of one dice group.
//
// Original holds the initial draw and is never mutated. Results holds the
// values after every modifier; it never has more entries than Original.
type RollResult struct {
	Results  []float64
	Original []int

	// RerollRounds counts reroll rounds that redrew at least one die.
	RerollRounds int
	// Explosions counts chained explosion draws across all dice.
	Explosions int
}

// Sum totals Results. An empty result sums to 0.
func (r RollResult) Sum() float64 {
	total := 0.0
	for _, v := range r.Results {
		total += v
	}
	return total
}

// Modified reports whether Results differs from Original.
func (r RollResult) Modified() bool {
	if len(r.Results) != len(r.Original) {
		return true
	}
	for i, v := range r.Results {
		if v != float64(r.Original[i]) {
			return true
		}
	}
	return false
}

// String renders the result for logs, e.g. "[10, 10] (original [10, 10, 3, 7, 1])".
func (r RollResult) String() string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range r.Results {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(formatNumber(v))
	}
	b.WriteByte(']')
	if r.Modified() {
		b.WriteString(" (original [")
		for i, v := range r.Original {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(strconv.Itoa(v))
		}
		b.WriteString("])")
	}
	return b.String()
}

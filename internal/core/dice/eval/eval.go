// Package eval runs a parsed roll specification through the modifier
// pipeline. The stages always run in the same order regardless of how the
// modifiers were written:
//
//  1. roll the initial dice
//  2. rerolls
//  3. explosions
//  4. keep/drop selection
//  5. the game-system variant
//  6. success, failure and botch counting
//  7. term totals
//  8. the arithmetic tail, left to right, leading constant first
//  9. merging additional dice terms
//  10. finishers that need the final total
//
// Reroll and explosion chains stop after ChainCap draws per die; reaching the
// cap is reported as an annotation, not an error.
package eval

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"

	"github.com/louisbranch/dicemaiden/internal/core/dice"
	"github.com/louisbranch/dicemaiden/internal/core/dice/notation"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

// ChainCap bounds explosion and reroll chains per die.
const ChainCap = 100

type evaluator struct {
	src   dice.Source
	notes []Annotation
}

func (e *evaluator) annotate(kind, value, detail string) {
	e.notes = append(e.notes, Annotation{Kind: kind, Value: value, Detail: detail})
}

// Evaluate rolls spec with draws from src. It fails with DICE_RANGE when a
// dice total used as a divisor comes up zero and with DICE_LIMIT_EXCEEDED
// when the arithmetic tail overflows.
func Evaluate(spec notation.Spec, src dice.Source) (Outcome, error) {
	e := &evaluator{src: src}
	chartOnTotal := spec.Lead != nil || len(spec.Tail) > 0

	base, err := e.evalTerm(spec.Base, chartOnTotal)
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{
		Mode:      base.mode,
		Successes: base.successes,
		Failures:  base.failures,
		Botches:   base.botches,
		Label:     spec.Label,
		Comment:   spec.Comment,
		Flags:     spec.Flags,
	}

	value := base.total
	if spec.Lead != nil {
		value, err = arithmetic(spec.Lead.Op, spec.Lead.Value, value)
		if err != nil {
			return Outcome{}, err
		}
	}
	for _, item := range spec.Tail {
		operand := item.Constant
		if item.Dice != nil {
			res, err := e.evalTerm(*item.Dice, false)
			if err != nil {
				return Outcome{}, err
			}
			operand = res.total
			if res.mode == ModeTally && out.Mode == ModeTally {
				sign := 1
				if item.Op == notation.Subtract {
					sign = -1
				}
				out.Successes += sign * res.successes
				out.Failures += res.failures
				out.Botches += res.botches
			}
			out.Terms = append(out.Terms, TermOutcome{
				Notation:  item.Dice.String(),
				Dice:      displayOrder(res.dice, spec.Flags.Unsorted),
				Mode:      res.mode,
				Total:     res.total,
				Successes: res.successes,
				Failures:  res.failures,
				Botches:   res.botches,
			})
		}
		value, err = arithmetic(item.Op, value, operand)
		if err != nil {
			return Outcome{}, err
		}
	}
	out.Total = value

	if err := e.finish(&out, base, spec.Base, chartOnTotal); err != nil {
		return Outcome{}, err
	}

	out.Dice = displayOrder(base.dice, spec.Flags.Unsorted)
	out.Annotations = e.notes
	return out, nil
}

func arithmetic(op notation.Op, a, b int) (int, error) {
	switch op {
	case notation.Add:
		r := a + b
		if (b > 0 && r < a) || (b < 0 && r > a) {
			return 0, overflow(op)
		}
		return r, nil
	case notation.Subtract:
		r := a - b
		if (b > 0 && r > a) || (b < 0 && r < a) {
			return 0, overflow(op)
		}
		return r, nil
	case notation.Multiply:
		if a == 0 || b == 0 {
			return 0, nil
		}
		r := a * b
		if r/b != a || (a == -1 && b == math.MinInt) || (b == -1 && a == math.MinInt) {
			return 0, overflow(op)
		}
		return r, nil
	case notation.Divide:
		if b == 0 {
			return 0, divisionByZero()
		}
		if a == math.MinInt && b == -1 {
			return 0, overflow(op)
		}
		return a / b, nil
	}
	return 0, fmt.Errorf("unknown operator %q", op)
}

func overflow(op notation.Op) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceLimitExceeded,
		fmt.Sprintf("total overflows at %q", op),
		map[string]string{
			apperrors.MetaToken:  "total",
			apperrors.MetaLimit:  strconv.Itoa(math.MaxInt),
			apperrors.MetaReason: "the total is too large to represent",
		})
}

func divisionByZero() *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceRange, "division by zero",
		map[string]string{
			apperrors.MetaToken:  "divisor",
			apperrors.MetaValue:  "0",
			apperrors.MetaReason: "division by zero",
		})
}

// termResult is one evaluated dice term with dice in roll order.
type termResult struct {
	dice      []Die
	mode      Mode
	total     int
	successes int
	failures  int
	botches   int
}

func (e *evaluator) evalTerm(t notation.Term, chartOnTotal bool) (termResult, error) {
	rolled, err := dice.RollWithSource(e.src, []dice.Spec{{Sides: t.Sides.Faces, Count: t.Count}})
	if err != nil {
		return termResult{}, err
	}
	ds := make([]Die, 0, t.Count)
	for _, face := range rolled.Rolls[0].Results {
		ds = append(ds, newDie(t.Sides, face, GroupBase, -1))
	}

	if r, ok := notation.Find[notation.Reroll](t.Modifiers); ok {
		e.reroll(ds, t.Sides, r)
	}
	if x, ok := notation.Find[notation.Explode](t.Modifiers); ok {
		ds = e.explode(ds, x)
	}
	selectDice(ds, t.Modifiers)

	res := termResult{dice: ds, mode: ModeSum}
	variant, hasVariant := notation.Find[notation.Variant](t.Modifiers)
	if hasVariant {
		e.applyVariant(&res, variant, chartOnTotal)
	}
	if t.Counting() {
		res.mode = ModeTally
		countDice(&res, t.Modifiers, e)
		res.total = res.successes - res.failures
	} else if !hasVariant || !variant.System.SetsTotal() {
		res.total = sumKept(res.dice)
	}
	if hasVariant {
		e.annotateVariant(&res, t, variant, chartOnTotal)
	}
	return res, nil
}

func newDie(sides notation.Sides, face int, group Group, from int) Die {
	return Die{
		Face:         face,
		Value:        faceValue(sides, face),
		Sides:        sides.Faces,
		Group:        group,
		ExplodedFrom: from,
	}
}

// faceValue maps a face to what it contributes. Fudge faces 1, 2 and 3 are
// worth -1, 0 and +1.
func faceValue(sides notation.Sides, face int) int {
	if sides.Kind == notation.Fudge {
		return face - 2
	}
	return face
}

func (e *evaluator) reroll(ds []Die, sides notation.Sides, r notation.Reroll) {
	limit := 1
	if r.Indefinite {
		limit = ChainCap
	}
	capped := false
	for i := range ds {
		for n := 0; r.Direction.Matches(ds[i].Face, r.Threshold); n++ {
			if n == limit {
				capped = capped || r.Indefinite
				break
			}
			ds[i].RerolledFrom = append(ds[i].RerolledFrom, ds[i].Face)
			ds[i].Face = dice.RollDie(e.src, sides.Faces)
			ds[i].Value = faceValue(sides, ds[i].Face)
		}
	}
	if capped {
		e.annotate(KindRerollCap, strconv.Itoa(ChainCap), "reroll chain stopped at the cap")
	}
}

// explode appends each explosion directly after the die that triggered it.
func (e *evaluator) explode(ds []Die, x notation.Explode) []Die {
	limit := 1
	if x.Indefinite {
		limit = ChainCap
	}
	out := make([]Die, 0, len(ds))
	capped := false
	for _, d := range ds {
		out = append(out, d)
		trigger := len(out) - 1
		for n := 0; out[trigger].Face >= x.Threshold; n++ {
			if n == limit {
				capped = capped || x.Indefinite
				break
			}
			out[trigger].Exploded = true
			face := dice.RollDie(e.src, d.Sides)
			out = append(out, Die{Face: face, Value: face, Sides: d.Sides, Group: d.Group, ExplodedFrom: trigger})
			trigger = len(out) - 1
		}
	}
	if capped {
		e.annotate(KindExplosionCap, strconv.Itoa(ChainCap), "explosion chain stopped at the cap")
	}
	return out
}

// selectDice marks dice dropped by keep or drop. Ranking is stable, so tied
// dice are kept in roll order.
func selectDice(ds []Die, mods []notation.Modifier) {
	idx := make([]int, len(ds))
	for i := range idx {
		idx[i] = i
	}
	ascending := func(a, b int) int { return cmp.Compare(ds[a].Value, ds[b].Value) }

	var keep []int
	if k, ok := notation.Find[notation.Keep](mods); ok {
		switch k.Rank {
		case notation.Highest:
			slices.SortStableFunc(idx, func(a, b int) int { return ascending(b, a) })
			keep = idx[:k.N]
		case notation.Lowest:
			slices.SortStableFunc(idx, ascending)
			keep = idx[:k.N]
		case notation.Middle:
			slices.SortStableFunc(idx, ascending)
			low := (len(idx) - k.N) / 2
			keep = idx[low : low+k.N]
		}
	} else if d, ok := notation.Find[notation.Drop](mods); ok {
		slices.SortStableFunc(idx, ascending)
		keep = idx[d.N:]
	} else {
		return
	}

	kept := make([]bool, len(ds))
	for _, i := range keep {
		kept[i] = true
	}
	for i := range ds {
		ds[i].Dropped = !kept[i]
	}
}

func countDice(res *termResult, mods []notation.Modifier, e *evaluator) {
	target, hasTarget := notation.Find[notation.Target](mods)
	failure, hasFailure := notation.Find[notation.Failure](mods)
	botch, hasBotch := notation.Find[notation.Botch](mods)

	maxFaces := 0
	for i := range res.dice {
		d := &res.dice[i]
		if d.Dropped {
			continue
		}
		if hasTarget && target.Direction.Matches(d.Face, target.Threshold) {
			d.Success = 1
			if target.Double != 0 && target.Direction.Matches(d.Face, target.Double) {
				d.Success = 2
			}
		}
		if hasFailure && d.Face <= failure.Threshold {
			d.Failure = true
			res.failures++
		}
		if hasBotch && d.Face <= botch.Threshold {
			d.Botch = true
			res.botches++
		}
		if d.Face == d.Sides {
			maxFaces++
		}
		res.successes += d.Success
	}

	if _, ok := notation.Find[notation.Cancel](mods); ok {
		cancelled := min(maxFaces, res.failures)
		if cancelled > 0 {
			res.failures -= cancelled
			e.annotate(KindCancelled, strconv.Itoa(cancelled), fmt.Sprintf("%d failures cancelled by natural maximums", cancelled))
		}
	}
}

func sumKept(ds []Die) int {
	total := 0
	for _, d := range ds {
		if !d.Dropped {
			total += d.Value
		}
	}
	return total
}

// displayOrder sorts dice by value, highest first, keeping roll order for
// ties. ExplodedFrom indexes are remapped to the new positions.
func displayOrder(ds []Die, unsorted bool) []Die {
	out := slices.Clone(ds)
	if unsorted || len(out) < 2 {
		return out
	}
	idx := make([]int, len(ds))
	for i := range idx {
		idx[i] = i
	}
	slices.SortStableFunc(idx, func(a, b int) int { return cmp.Compare(ds[b].Value, ds[a].Value) })
	pos := make([]int, len(ds))
	for newPos, old := range idx {
		pos[old] = newPos
	}
	for newPos, old := range idx {
		d := ds[old]
		if d.ExplodedFrom >= 0 {
			d.ExplodedFrom = pos[d.ExplodedFrom]
		}
		out[newPos] = d
	}
	return out
}

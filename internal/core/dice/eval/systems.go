package eval

import (
	"fmt"
	"strconv"

	"github.com/louisbranch/dicemaiden/internal/core/check"
	"github.com/louisbranch/dicemaiden/internal/core/dice"
	"github.com/louisbranch/dicemaiden/internal/core/dice/notation"
	"github.com/louisbranch/dicemaiden/internal/core/duality"
)

const (
	wildDieSides   = 6
	critSides      = 10
	stunMultiplier = 3
	marvelSides    = 6
	bnwSides       = 6
)

// marvelDie is the index of the Marvel die in a 3d6 roll.
const marvelDie = 1

// bnwDisasterPool is the smallest pool that can roll a disaster.
const bnwDisasterPool = 4

// conanCombat maps a combat die face to the damage it deals. Faces 5 and 6
// also trigger an effect.
func conanCombat(face int) int {
	switch face {
	case 1, 5, 6:
		return 1
	case 2:
		return 2
	default:
		return 0
	}
}

// godboundDamage converts a rolled value with the Godbound damage chart.
func godboundDamage(v int) int {
	switch {
	case v <= 1:
		return 0
	case v <= 5:
		return 1
	case v <= 9:
		return 2
	default:
		return 4
	}
}

// heroBody is the BODY a Hero System normal damage die inflicts.
func heroBody(d Die) int {
	switch {
	case d.Face == 1:
		return 0
	case d.Face == 6:
		return 2
	default:
		return 1
	}
}

// applyVariant runs the system slot between selection and counting.
func (e *evaluator) applyVariant(res *termResult, v notation.Variant, chartOnTotal bool) {
	switch v.System {
	case notation.Godbound:
		if chartOnTotal {
			return
		}
		for i := range res.dice {
			res.dice[i].Value = godboundDamage(res.dice[i].Face)
		}
	case notation.WrathGlory:
		for i := range res.dice {
			if i < v.Wrath {
				res.dice[i].Group = GroupWrath
			}
			if v.Total {
				continue
			}
			switch face := res.dice[i].Face; {
			case face == 6:
				res.dice[i].Success = 2
			case face >= 4:
				res.dice[i].Success = 1
			}
		}
	case notation.SavageWorlds:
		e.wildDie(res)
	case notation.CyberpunkRed:
		e.critical(res, 1)
	case notation.Witcher:
		e.critical(res, ChainCap)
	case notation.Alien, notation.AlienStress:
		for i := range res.dice {
			if v.System == notation.AlienStress {
				res.dice[i].Group = GroupStress
			}
			if res.dice[i].Face == 6 {
				res.dice[i].Success = 1
			}
		}
	case notation.Silhouette:
		e.silhouette(res)
	case notation.MarvelMultiverse:
		e.marvel(res, v)
	case notation.BraveNewWorld:
		e.braveNewWorld(res)
	case notation.ConanSkill:
		for i := range res.dice {
			res.dice[i].Success = 1
		}
	case notation.ConanCombat:
		for i := range res.dice {
			res.dice[i].Value = conanCombat(res.dice[i].Face)
		}
	case notation.Daggerheart:
		res.dice[0].Group = GroupHope
		res.dice[1].Group = GroupFear
	}
}

// marvel reads the middle die as the Marvel die, where a 1 is a Fantastic
// result worth 6. Each edge rerolls the lowest die and keeps the better face;
// each trouble rerolls the highest and keeps the worse.
func (e *evaluator) marvel(res *termResult, v notation.Variant) {
	res.dice[marvelDie].Group = GroupMarvel
	if res.dice[marvelDie].Face == 1 {
		res.dice[marvelDie].Value = marvelSides
		e.annotate(KindFantastic, strconv.Itoa(marvelSides), "the Marvel die rolled the Marvel symbol")
	}
	for range v.Edges {
		e.marvelReroll(res, KindEdge, func(a, b int) bool { return a < b })
	}
	for range v.Troubles {
		e.marvelReroll(res, KindTrouble, func(a, b int) bool { return a > b })
	}
}

// marvelReroll rerolls the die that ranks first under less. The new face is
// kept only when the old face ranks before it.
func (e *evaluator) marvelReroll(res *termResult, kind string, less func(a, b int) bool) {
	pick := 0
	for i, d := range res.dice {
		if less(d.Value, res.dice[pick].Value) {
			pick = i
		}
	}
	d := &res.dice[pick]
	old := d.Value
	face := dice.RollDie(e.src, marvelSides)
	if !less(old, face) {
		e.annotate(kind, strconv.Itoa(old), fmt.Sprintf("rerolled %d, got %d, kept %d", old, face, old))
		return
	}
	d.RerolledFrom = append(d.RerolledFrom, d.Face)
	d.Face, d.Value = face, face
	e.annotate(kind, strconv.Itoa(face), fmt.Sprintf("rerolled %d, got %d", old, face))
}

// braveNewWorld turns every six into an extra result of 6 plus a new d6 and
// keeps the single highest result. A pool of four or more dice where most
// dice rolled 1 is a disaster worth 0.
func (e *evaluator) braveNewWorld(res *termResult) {
	pool := len(res.dice)
	ones := 0
	for i := range pool {
		switch res.dice[i].Face {
		case 1:
			ones++
		case bnwSides:
			face := dice.RollDie(e.src, bnwSides)
			res.dice[i].Exploded = true
			res.dice = append(res.dice, Die{
				Face:         face,
				Value:        bnwSides + face,
				Sides:        bnwSides,
				Group:        GroupBase,
				ExplodedFrom: i,
			})
		}
	}
	best := 0
	for i, d := range res.dice {
		if d.Value > res.dice[best].Value {
			best = i
		}
	}
	for i := range res.dice {
		res.dice[i].Dropped = i != best
	}
	res.total = res.dice[best].Value
	if pool >= bnwDisasterPool && ones > pool/2 {
		res.total = 0
		e.annotate(KindDisaster, strconv.Itoa(ones), fmt.Sprintf("%d of %d dice rolled 1", ones, pool))
	}
	e.annotate(KindBraveNewWorld, strconv.Itoa(res.total), fmt.Sprintf("highest of %d results", len(res.dice)))
}

// wildDie rolls the Savage Worlds wild die, exploding it like the trait die,
// and drops whichever of the two scored lower. Ties keep the trait die.
func (e *evaluator) wildDie(res *termResult) {
	traitNatural := res.dice[0].Face
	start := len(res.dice)
	wild := []Die{newDie(notation.Sides{Kind: notation.Numeric, Faces: wildDieSides}, dice.RollDie(e.src, wildDieSides), GroupWild, -1)}
	wild = e.explode(wild, notation.Explode{Threshold: wildDieSides, Indefinite: true})
	for i := range wild {
		if wild[i].ExplodedFrom >= 0 {
			wild[i].ExplodedFrom += start
		}
	}
	res.dice = append(res.dice, wild...)

	traitTotal := sumKept(res.dice[:start])
	wildTotal := sumKept(wild)
	kept := "trait"
	dropFrom, dropTo := start, len(res.dice)
	if wildTotal > traitTotal {
		kept = "wild"
		dropFrom, dropTo = 0, start
	}
	for i := dropFrom; i < dropTo; i++ {
		res.dice[i].Dropped = true
	}
	e.annotate(KindWildDie, kept, fmt.Sprintf("trait %d, wild %d", traitTotal, wildTotal))
	if traitNatural == 1 && wild[0].Face == 1 {
		e.annotate(KindSnakeEyes, "", "trait and wild die both rolled 1")
	}
}

// critical handles the Cyberpunk Red and Witcher d10: a 10 adds another d10
// and a 1 subtracts one. The chain continues while the new die repeats the
// triggering face, up to limit dice.
func (e *evaluator) critical(res *termResult, limit int) {
	trigger := res.dice[0].Face
	if trigger != 1 && trigger != critSides {
		return
	}
	sign, value := 1, "success"
	if trigger == 1 {
		sign, value = -1, "failure"
	}
	prev, extra := 0, 0
	for n := 0; ; n++ {
		if n == limit {
			if limit == ChainCap {
				e.annotate(KindExplosionCap, strconv.Itoa(ChainCap), "critical chain stopped at the cap")
			}
			break
		}
		face := dice.RollDie(e.src, critSides)
		res.dice[prev].Exploded = true
		res.dice = append(res.dice, Die{
			Face:         face,
			Value:        sign * face,
			Sides:        critSides,
			Group:        GroupBonus,
			ExplodedFrom: prev,
		})
		prev = len(res.dice) - 1
		extra++
		if face != trigger {
			break
		}
	}
	e.annotate(KindCritical, value, fmt.Sprintf("natural %d, %d extra d10", trigger, extra))
}

// silhouette keeps the highest die and adds one for every other six.
func (e *evaluator) silhouette(res *termResult) {
	best := 0
	sixes := 0
	for i, d := range res.dice {
		if d.Value > res.dice[best].Value {
			best = i
		}
		if d.Face == 6 {
			sixes++
		}
	}
	extra := max(sixes-1, 0)
	for i := range res.dice {
		res.dice[i].Dropped = i != best
	}
	res.total = res.dice[best].Value + extra
	if extra > 0 {
		e.annotate(KindSilhouette, strconv.Itoa(extra), fmt.Sprintf("%d extra sixes add +%d", extra, extra))
	}
}

// annotateVariant adds the notes that depend on the term's counts or total.
func (e *evaluator) annotateVariant(res *termResult, t notation.Term, v notation.Variant, chartOnTotal bool) {
	switch v.System {
	case notation.Godbound:
		if chartOnTotal {
			return
		}
		e.annotate(KindGodbound, strconv.Itoa(res.total), "damage chart: 1 or less is 0, 2-5 is 1, 6-9 is 2, 10+ is 4")
	case notation.GodboundStraight:
		e.annotate(KindStraightDamage, strconv.Itoa(res.total), "straight damage bypasses the chart")
	case notation.HeroNormal:
		body := 0
		for _, d := range res.dice {
			if !d.Dropped {
				body += heroBody(d)
			}
		}
		e.annotate(KindBody, strconv.Itoa(body), fmt.Sprintf("%d STUN, %d BODY", res.total, body))
	case notation.HeroToHit:
		e.annotate(KindToHit, strconv.Itoa(res.total), "hits when the roll is 11 + OCV - DCV or less")
	case notation.WrathGlory:
		e.wrathGlory(res, v)
	case notation.DarkHeresy:
		for _, d := range res.dice {
			if d.Exploded && d.Face == d.Sides && d.ExplodedFrom < 0 {
				e.annotate(KindRighteousFury, "", "a natural maximum exploded")
				break
			}
		}
	case notation.Shadowrun:
		ones := 0
		for _, d := range res.dice {
			if !d.Dropped && d.Face == 1 {
				ones++
			}
		}
		if ones > t.Count/2 {
			if res.successes == 0 {
				e.annotate(KindCriticalGlitch, strconv.Itoa(ones), "more than half the pool rolled 1 with no successes")
			} else {
				e.annotate(KindGlitch, strconv.Itoa(ones), "more than half the pool rolled 1")
			}
		}
	case notation.Cypher:
		face := res.dice[0].Face
		target := check.CypherTarget(v.Level)
		result := check.Check(face, target)
		outcome := "failure"
		if result.Success {
			outcome = "success"
		}
		e.annotate(KindCypher, outcome, fmt.Sprintf("level %d task: rolled %d vs target %d", v.Level, face, target))
		switch {
		case face == 1:
			e.annotate(KindCypherEffect, "gm_intrusion", "natural 1")
		case face == 20:
			e.annotate(KindCypherEffect, "major_effect", "natural 20")
		case face >= 17:
			e.annotate(KindCypherEffect, "minor_effect", "natural 17-19")
		}
	case notation.ConanSkill:
		complications := 0
		for _, d := range res.dice {
			if d.Face == d.Sides {
				complications++
			}
		}
		if complications > 0 {
			e.annotate(KindComplication, strconv.Itoa(complications), fmt.Sprintf("%d dice rolled a natural 20", complications))
		}
	case notation.ConanCombat:
		effects := 0
		for _, d := range res.dice {
			if d.Face >= 5 {
				effects++
			}
		}
		e.annotate(KindCombatEffects, strconv.Itoa(effects), "1 is 1, 2 is 2, 3-4 is 0, 5-6 is 1 plus an effect")
	case notation.AlienStress:
		ones := 0
		for _, d := range res.dice {
			if d.Face == 1 {
				ones++
			}
		}
		if ones > 0 {
			e.annotate(KindPanic, strconv.Itoa(v.Level), fmt.Sprintf("%d stress dice rolled 1 at stress level %d", ones, v.Level))
		}
	}
}

func (e *evaluator) wrathGlory(res *termResult, v notation.Variant) {
	if !v.Total {
		e.annotate(KindIcons, strconv.Itoa(res.successes), "4-5 is an icon, 6 is an exalted icon worth 2")
	}
	complications, glory := 0, 0
	for _, d := range res.dice {
		if d.Group != GroupWrath {
			continue
		}
		switch d.Face {
		case 1:
			complications++
		case 6:
			glory++
		}
	}
	if complications > 0 {
		e.annotate(KindWrath, "complication", fmt.Sprintf("%d wrath dice rolled 1", complications))
	}
	if glory > 0 && !v.Total {
		e.annotate(KindWrath, "glory", fmt.Sprintf("%d wrath dice rolled 6", glory))
	}
	if v.Difficulty > 0 {
		result := check.Check(res.total, v.Difficulty)
		e.annotate(KindDifficulty, result.Label(), fmt.Sprintf("needed %d, got %d", v.Difficulty, res.total))
	}
}

// finish applies variants that need the final total of the whole
// expression.
func (e *evaluator) finish(out *Outcome, res termResult, base notation.Term, chartOnTotal bool) error {
	v, ok := notation.Find[notation.Variant](base.Modifiers)
	if !ok {
		return nil
	}
	switch v.System {
	case notation.Godbound:
		if chartOnTotal {
			raw := out.Total
			out.Total = godboundDamage(raw)
			e.annotate(KindGodbound, strconv.Itoa(out.Total), fmt.Sprintf("chart applied to total %d", raw))
		}
	case notation.HeroKilling:
		body := out.Total
		mult := dice.RollDie(e.src, stunMultiplier)
		out.Total = body * mult
		e.annotate(KindBody, strconv.Itoa(body), "killing damage BODY")
		e.annotate(KindStun, strconv.Itoa(out.Total), fmt.Sprintf("%d BODY x%d", body, mult))
	case notation.Daggerheart:
		req := duality.Request{Hope: res.dice[0].Face, Fear: res.dice[1].Face, Total: out.Total}
		if v.Difficulty > 0 {
			req.Difficulty = &v.Difficulty
		}
		result, err := duality.Evaluate(req)
		if err != nil {
			return fmt.Errorf("daggerheart outcome: %w", err)
		}
		detail := fmt.Sprintf("hope %d, fear %d, total %d", result.Hope, result.Fear, result.Total)
		if result.Difficulty != nil {
			detail += fmt.Sprintf(" vs %d", *result.Difficulty)
		}
		e.annotate(KindDuality, result.Outcome.Key(), detail)
	}
	return nil
}

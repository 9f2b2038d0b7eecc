package notation

import (
	"strconv"
	"strings"
)

const maxSystemLevel = 10

type modifierToken struct {
	prefix string
	read   func(p *parser, t *Term, start int) (Modifier, error)
}

// modifierTokens is scanned in order, so longer prefixes precede any
// shorter token they start with ("kl" before "k", "ds" before "d").
var modifierTokens = []modifierToken{
	{"wng", (*parser).readWrathGlory},
	{"dheart", (*parser).readDaggerheart},
	{"mm", (*parser).readMarvel},
	{"bnw", variantReader(BraveNewWorld)},
	{"conan", variantReader(ConanSkill)},
	{"cd", variantReader(ConanCombat)},
	{"gbs", variantReader(GodboundStraight)},
	{"gb", variantReader(Godbound)},
	{"hsn", variantReader(HeroNormal)},
	{"hsk", variantReader(HeroKilling)},
	{"hsh", variantReader(HeroToHit)},
	{"dh", variantReader(DarkHeresy)},
	{"sw", variantReader(SavageWorlds)},
	{"sr", variantReader(Shadowrun)},
	{"sil", variantReader(Silhouette)},
	{"cpr", variantReader(CyberpunkRed)},
	{"cs", leveledReader(Cypher, "cypher level")},
	{"wit", variantReader(Witcher)},
	{"aliens", leveledReader(AlienStress, "stress level")},
	{"alien", variantReader(Alien)},
	{"c", (*parser).readCancel},
	{"ie", explodeReader(true)},
	{"e", explodeReader(false)},
	{"irg", rerollReader(AtLeast, true)},
	{"ir", rerollReader(AtMost, true)},
	{"rg", rerollReader(AtLeast, false)},
	{"r", rerollReader(AtMost, false)},
	{"kl", keepReader(Lowest)},
	{"km", keepReader(Middle)},
	{"k", keepReader(Highest)},
	{"ds", (*parser).readDouble},
	{"d", (*parser).readDrop},
	{"tl", targetReader(AtMost)},
	{"t", targetReader(AtLeast)},
	{"f", (*parser).readFailure},
	{"b", (*parser).readBotch},
}

// modifierGroup names the slot a modifier occupies; a term holds at most one
// modifier per group.
func modifierGroup(m Modifier) string {
	switch m.(type) {
	case Explode:
		return "explode"
	case Reroll:
		return "reroll"
	case Keep, Drop:
		return "selection"
	case Target:
		return "target"
	case Failure:
		return "failure"
	case Botch:
		return "botch"
	case Cancel:
		return "cancel"
	default:
		return "system"
	}
}

func (p *parser) parseModifiers(t *Term) error {
	seen := map[string]string{}
	for {
		p.skipSpace()
		if p.eof() || isOp(p.src[p.pos]) {
			break
		}
		start := p.pos
		tok, ok := p.matchModifier()
		if !ok {
			return syntaxError(p.seg, p.column(start), p.wordAt(start), "unknown modifier")
		}
		p.pos += len(tok.prefix)
		mod, err := tok.read(p, t, start)
		if err != nil {
			return err
		}
		if mod == nil {
			continue
		}
		text := p.src[start:p.pos]
		group := modifierGroup(mod)
		if prev, dup := seen[group]; dup {
			return comboError(p.seg, text, "cannot be combined with "+prev)
		}
		seen[group] = text
		t.Modifiers = append(t.Modifiers, mod)
	}
	return p.validateTerm(t, seen)
}

func (p *parser) matchModifier() (modifierToken, bool) {
	rest := p.src[p.pos:]
	for _, tok := range modifierTokens {
		if strings.HasPrefix(rest, tok.prefix) {
			return tok, true
		}
	}
	return modifierToken{}, false
}

// readArg reads the digits directly after a modifier token.
func (p *parser) readArg(start int, required bool) (int, bool, error) {
	digits := p.peekDigits()
	if digits == "" {
		if required {
			return 0, false, syntaxError(p.seg, p.column(start), p.src[start:p.pos], "expected a number after modifier")
		}
		return 0, false, nil
	}
	p.pos += len(digits)
	n, err := strconv.Atoi(digits)
	if err != nil {
		n = MaxConstant + 1
	}
	return n, true, nil
}

// checkRange validates a modifier argument.
func (p *parser) checkRange(name string, value, min, max int) error {
	if value < min || value > max {
		return rangeError(p.seg, name, strconv.Itoa(value), min, max)
	}
	return nil
}

// requireFaces rejects threshold modifiers on fudge dice, whose faces are not
// ordered numbers.
func (p *parser) requireFaces(t *Term, start int) error {
	if t.Sides.Kind == Fudge {
		return comboError(p.seg, p.src[start:p.pos], "fudge dice cannot explode, reroll or count successes")
	}
	return nil
}

func explodeReader(indefinite bool) func(*parser, *Term, int) (Modifier, error) {
	return func(p *parser, t *Term, start int) (Modifier, error) {
		n, ok, err := p.readArg(start, false)
		if err != nil {
			return nil, err
		}
		if err := p.requireFaces(t, start); err != nil {
			return nil, err
		}
		if !ok {
			n = t.Sides.Faces
		}
		if err := p.checkRange("explode threshold", n, 1, t.Sides.Faces); err != nil {
			return nil, err
		}
		return Explode{Threshold: n, Indefinite: indefinite}, nil
	}
}

func rerollReader(dir Direction, indefinite bool) func(*parser, *Term, int) (Modifier, error) {
	return func(p *parser, t *Term, start int) (Modifier, error) {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.requireFaces(t, start); err != nil {
			return nil, err
		}
		if err := p.checkRange("reroll threshold", n, 1, t.Sides.Faces); err != nil {
			return nil, err
		}
		return Reroll{Threshold: n, Direction: dir, Indefinite: indefinite}, nil
	}
}

func keepReader(rank Rank) func(*parser, *Term, int) (Modifier, error) {
	return func(p *parser, t *Term, start int) (Modifier, error) {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange("keep count", n, 1, t.Count); err != nil {
			return nil, err
		}
		return Keep{N: n, Rank: rank}, nil
	}
}

func (p *parser) readDrop(t *Term, start int) (Modifier, error) {
	n, _, err := p.readArg(start, true)
	if err != nil {
		return nil, err
	}
	if err := p.checkRange("drop count", n, 1, t.Count); err != nil {
		return nil, err
	}
	return Drop{N: n}, nil
}

func targetReader(dir Direction) func(*parser, *Term, int) (Modifier, error) {
	return func(p *parser, t *Term, start int) (Modifier, error) {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.requireFaces(t, start); err != nil {
			return nil, err
		}
		if err := p.checkRange("target", n, 1, t.Sides.Faces); err != nil {
			return nil, err
		}
		return Target{Threshold: n, Direction: dir}, nil
	}
}

// readDouble attaches a double-success threshold to the target just before
// it and returns no modifier of its own.
func (p *parser) readDouble(t *Term, start int) (Modifier, error) {
	n, _, err := p.readArg(start, true)
	if err != nil {
		return nil, err
	}
	last := len(t.Modifiers) - 1
	var target Target
	ok := last >= 0
	if ok {
		target, ok = t.Modifiers[last].(Target)
	}
	if !ok || target.Double != 0 {
		return nil, comboError(p.seg, p.src[start:p.pos], "ds must directly follow t or tl")
	}
	if target.Direction == AtLeast {
		err = p.checkRange("double success threshold", n, target.Threshold, t.Sides.Faces)
	} else {
		err = p.checkRange("double success threshold", n, 1, target.Threshold)
	}
	if err != nil {
		return nil, err
	}
	target.Double = n
	t.Modifiers[last] = target
	return nil, nil
}

func (p *parser) readFailure(t *Term, start int) (Modifier, error) {
	n, _, err := p.readArg(start, true)
	if err != nil {
		return nil, err
	}
	if err := p.requireFaces(t, start); err != nil {
		return nil, err
	}
	if err := p.checkRange("failure threshold", n, 1, t.Sides.Faces); err != nil {
		return nil, err
	}
	return Failure{Threshold: n}, nil
}

func (p *parser) readBotch(t *Term, start int) (Modifier, error) {
	n, ok, err := p.readArg(start, false)
	if err != nil {
		return nil, err
	}
	if err := p.requireFaces(t, start); err != nil {
		return nil, err
	}
	if !ok {
		n = 1
	}
	if err := p.checkRange("botch threshold", n, 1, t.Sides.Faces); err != nil {
		return nil, err
	}
	return Botch{Threshold: n}, nil
}

func (p *parser) readCancel(_ *Term, _ int) (Modifier, error) {
	return Cancel{}, nil
}

func variantReader(sys System) func(*parser, *Term, int) (Modifier, error) {
	return func(*parser, *Term, int) (Modifier, error) {
		return Variant{System: sys}, nil
	}
}

func leveledReader(sys System, name string) func(*parser, *Term, int) (Modifier, error) {
	return func(p *parser, _ *Term, start int) (Modifier, error) {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange(name, n, 1, maxSystemLevel); err != nil {
			return nil, err
		}
		return Variant{System: sys, Level: n}, nil
	}
}

// readWrathGlory reads "wng" with optional attached suffixes w<N> (wrath
// dice), dn<N> (difficulty) and t (sum instead of counting icons).
func (p *parser) readWrathGlory(t *Term, start int) (Modifier, error) {
	v := Variant{System: WrathGlory, Wrath: 1}
	if p.consume("w") {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange("wrath dice", n, 1, t.Count); err != nil {
			return nil, err
		}
		v.Wrath = n
	}
	if p.consume("dn") {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange("difficulty", n, 1, MaxSides); err != nil {
			return nil, err
		}
		v.Difficulty = n
	}
	if p.consume("t") {
		v.Total = true
	}
	return v, nil
}

// readMarvel reads "mm" with optional attached e<N> (edges) and t<N>
// (troubles). Edges and troubles cancel one for one.
func (p *parser) readMarvel(_ *Term, start int) (Modifier, error) {
	edges, troubles := 0, 0
	if p.consume("e") {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange("edges", n, 1, maxSystemLevel); err != nil {
			return nil, err
		}
		edges = n
	}
	if p.consume("t") {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange("troubles", n, 1, maxSystemLevel); err != nil {
			return nil, err
		}
		troubles = n
	}
	v := Variant{System: MarvelMultiverse}
	if edges > troubles {
		v.Edges = edges - troubles
	} else {
		v.Troubles = troubles - edges
	}
	return v, nil
}

// readDaggerheart reads "dheart" with an optional attached dn<N> difficulty.
func (p *parser) readDaggerheart(_ *Term, start int) (Modifier, error) {
	v := Variant{System: Daggerheart}
	if p.consume("dn") {
		n, _, err := p.readArg(start, true)
		if err != nil {
			return nil, err
		}
		if err := p.checkRange("difficulty", n, 1, MaxSides); err != nil {
			return nil, err
		}
		v.Difficulty = n
	}
	return v, nil
}

// validateTerm applies the rules that need the whole modifier list.
func (p *parser) validateTerm(t *Term, seen map[string]string) error {
	if tok, ok := seen["cancel"]; ok {
		if _, hasFailure := seen["failure"]; !hasFailure {
			return comboError(p.seg, tok, "c requires failure counting (f)")
		}
		if _, hasTarget := seen["target"]; !hasTarget {
			return comboError(p.seg, tok, "c requires success counting (t)")
		}
	}

	v, ok := Find[Variant](t.Modifiers)
	if !ok {
		return nil
	}
	tok := seen["system"]
	counting := seen["target"] != "" || seen["failure"] != "" || seen["botch"] != ""
	rerolling := seen["explode"] != "" || seen["reroll"] != ""
	numeric := t.Sides.Kind == Numeric
	faces := t.Sides.Faces

	fail := func(reason string) error { return comboError(p.seg, tok, reason) }
	if t.Sides.Kind == Fudge {
		return fail("game system modifiers need numeric dice")
	}

	switch v.System {
	case Godbound, GodboundStraight:
		if counting {
			return fail("damage charts cannot be combined with success counting")
		}
	case HeroNormal, HeroKilling:
		if !numeric || (faces != 6 && faces != 3) {
			return fail("Hero System damage uses d6 (or d3 for half dice)")
		}
	case HeroToHit:
		if !numeric || faces != 6 {
			return fail("Hero System to-hit rolls use d6")
		}
	case WrathGlory:
		if !numeric || faces != 6 {
			return fail("Wrath & Glory pools use d6")
		}
		if counting {
			return fail("Wrath & Glory counts icons itself")
		}
	case SavageWorlds:
		if t.Count != 1 {
			return fail("Savage Worlds rolls a single trait die")
		}
		if seen["selection"] != "" || counting {
			return fail("Savage Worlds keeps the better of trait and wild die itself")
		}
	case Shadowrun, Alien, AlienStress, Silhouette:
		if !numeric || faces != 6 {
			return fail(v.System.String() + " pools use d6")
		}
		if (v.System == Alien || v.System == AlienStress) && counting {
			return fail("Alien pools count sixes themselves")
		}
		if v.System == Silhouette && (seen["selection"] != "" || counting) {
			return fail("Silhouette keeps the highest die itself")
		}
	case CyberpunkRed, Witcher:
		if t.Count != 1 || !numeric || faces != 10 {
			return fail(v.System.String() + " rolls exactly 1d10")
		}
	case Cypher:
		if t.Count != 1 || !numeric || faces != 20 {
			return fail("Cypher tasks roll exactly 1d20")
		}
	case MarvelMultiverse:
		if t.Count != 3 || !numeric || faces != 6 {
			return fail("Marvel Multiverse rolls exactly 3d6")
		}
		if seen["selection"] != "" || counting || rerolling {
			return fail("Marvel Multiverse rerolls through edges and troubles")
		}
	case BraveNewWorld:
		if !numeric || faces != 6 {
			return fail("Brave New World pools use d6")
		}
		if seen["selection"] != "" || counting || rerolling {
			return fail("Brave New World explodes sixes and keeps the highest result itself")
		}
	case ConanSkill:
		if !numeric || faces != 20 || t.Count < 2 || t.Count > 5 {
			return fail("Conan skill rolls use 2 to 5 d20")
		}
		if counting {
			return fail("Conan skill rolls count successes themselves")
		}
	case ConanCombat:
		if !numeric || faces != 6 {
			return fail("Conan combat dice are d6")
		}
		if counting {
			return fail("Conan combat dice use their own chart")
		}
	case Daggerheart:
		if t.Count != 2 || !numeric || faces != 12 {
			return fail("Daggerheart rolls exactly 2d12, Hope then Fear")
		}
		if seen["selection"] != "" || counting || rerolling {
			return fail("Daggerheart reads the Hope and Fear dice as rolled")
		}
	}
	return nil
}

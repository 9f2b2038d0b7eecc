package notation

import "fmt"

// Modifier is a tagged variant over everything that can follow a dice term.
// The concrete types are Explode, Reroll, Keep, Drop, Target, Failure, Botch,
// Cancel and Variant.
type Modifier interface {
	fmt.Stringer
	isModifier()
}

// Direction selects which side of a threshold matches.
type Direction int

const (
	// AtLeast matches faces >= threshold.
	AtLeast Direction = iota
	// AtMost matches faces <= threshold.
	AtMost
)

// Matches reports whether face satisfies threshold in this direction.
func (d Direction) Matches(face, threshold int) bool {
	if d == AtMost {
		return face <= threshold
	}
	return face >= threshold
}

// Explode adds a die for each die showing Threshold or more.
type Explode struct {
	Threshold  int
	Indefinite bool
}

// Reroll replaces dice that match the threshold.
type Reroll struct {
	Threshold  int
	Direction  Direction
	Indefinite bool
}

// Rank orders dice for keep selection.
type Rank int

const (
	Highest Rank = iota
	Lowest
	Middle
)

// Keep selects N dice by rank and drops the rest.
type Keep struct {
	N    int
	Rank Rank
}

// Drop removes the N lowest dice.
type Drop struct {
	N int
}

// Target switches the term to success counting. Dice matching Double count
// twice; Double is zero when unused.
type Target struct {
	Threshold int
	Direction Direction
	Double    int
}

// Failure counts dice at or below Threshold as failures.
type Failure struct {
	Threshold int
}

// Botch counts dice at or below Threshold as botches.
type Botch struct {
	Threshold int
}

// Cancel makes each natural maximum cancel one failure, as in World of
// Darkness "tens cancel ones".
type Cancel struct{}

// System names a game system whose dice mechanic is built into the evaluator.
type System int

const (
	Godbound System = iota + 1
	GodboundStraight
	HeroNormal
	HeroKilling
	HeroToHit
	WrathGlory
	DarkHeresy
	SavageWorlds
	Shadowrun
	CyberpunkRed
	Witcher
	Cypher
	Alien
	AlienStress
	Silhouette
	MarvelMultiverse
	BraveNewWorld
	ConanSkill
	ConanCombat
	Daggerheart
)

var systemTokens = map[System]string{
	Godbound:         "gb",
	GodboundStraight: "gbs",
	HeroNormal:       "hsn",
	HeroKilling:      "hsk",
	HeroToHit:        "hsh",
	WrathGlory:       "wng",
	DarkHeresy:       "dh",
	SavageWorlds:     "sw",
	Shadowrun:        "sr",
	CyberpunkRed:     "cpr",
	Witcher:          "wit",
	Cypher:           "cs",
	Alien:            "alien",
	AlienStress:      "aliens",
	Silhouette:       "sil",
	MarvelMultiverse: "mm",
	BraveNewWorld:    "bnw",
	ConanSkill:       "conan",
	ConanCombat:      "cd",
	Daggerheart:      "dheart",
}

// String returns the token that selects the system.
func (s System) String() string {
	if tok, ok := systemTokens[s]; ok {
		return tok
	}
	return "unknown"
}

// SetsTotal reports whether the system picks the term total itself instead of
// summing the kept dice.
func (s System) SetsTotal() bool {
	return s == Silhouette || s == BraveNewWorld
}

// Variant applies a system mechanic. Only the fields relevant to System are
// set: Level for Cypher and AlienStress, Wrath, Difficulty and Total for
// WrathGlory, Edges and Troubles for MarvelMultiverse, Difficulty for
// Daggerheart.
type Variant struct {
	System     System
	Level      int
	Wrath      int
	Difficulty int
	Total      bool
	Edges      int
	Troubles   int
}

func (Explode) isModifier() {}
func (Reroll) isModifier()  {}
func (Keep) isModifier()    {}
func (Drop) isModifier()    {}
func (Target) isModifier()  {}
func (Failure) isModifier() {}
func (Botch) isModifier()   {}
func (Cancel) isModifier()  {}
func (Variant) isModifier() {}

// Find returns the first modifier of type M in mods.
func Find[M Modifier](mods []Modifier) (M, bool) {
	for _, m := range mods {
		if v, ok := m.(M); ok {
			return v, true
		}
	}
	var zero M
	return zero, false
}

// Counting reports whether the term tallies successes instead of summing.
func (t Term) Counting() bool {
	for _, m := range t.Modifiers {
		switch v := m.(type) {
		case Target, Failure, Botch:
			return true
		case Variant:
			if v.System == WrathGlory && !v.Total {
				return true
			}
			if v.System == Alien || v.System == AlienStress || v.System == ConanSkill {
				return true
			}
		}
	}
	return false
}

package eval

import "github.com/louisbranch/dicemaiden/internal/core/dice/segment"

// Group tags where a die came from.
type Group string

const (
	GroupBase   Group = "base"
	GroupWild   Group = "wild"
	GroupWrath  Group = "wrath"
	GroupStress Group = "stress"
	// GroupBonus holds the extra die Cyberpunk Red and Witcher criticals roll.
	GroupBonus  Group = "bonus"
	GroupMarvel Group = "marvel"
	GroupHope   Group = "hope"
	GroupFear   Group = "fear"
)

// Mode says how a term's dice become a number.
type Mode string

const (
	ModeSum   Mode = "sum"
	ModeTally Mode = "tally"
)

// Die is one rolled die after the pipeline ran.
type Die struct {
	Face  int   `json:"face"`
	Value int   `json:"value"`
	Sides int   `json:"sides"`
	Group Group `json:"group"`
	// ExplodedFrom is the index of the die whose explosion added this one,
	// or -1.
	ExplodedFrom int   `json:"exploded_from"`
	Exploded     bool  `json:"exploded,omitempty"`
	RerolledFrom []int `json:"rerolled_from,omitempty"`
	Dropped      bool  `json:"dropped,omitempty"`
	// Success is the die's weight when counting successes: 0, 1 or 2.
	Success int  `json:"success,omitempty"`
	Failure bool `json:"failure,omitempty"`
	Botch   bool `json:"botch,omitempty"`
}

// Annotation kinds.
const (
	KindExplosionCap   = "explosion_cap"
	KindRerollCap      = "reroll_cap"
	KindCancelled      = "cancelled"
	KindGodbound       = "godbound"
	KindStraightDamage = "straight_damage"
	KindBody           = "body"
	KindStun           = "stun"
	KindToHit          = "to_hit"
	KindIcons          = "icons"
	KindWrath          = "wrath"
	KindDifficulty     = "difficulty"
	KindRighteousFury  = "righteous_fury"
	KindWildDie        = "wild_die"
	KindSnakeEyes      = "snake_eyes"
	KindGlitch         = "glitch"
	KindCriticalGlitch = "critical_glitch"
	KindCritical       = "critical"
	KindCypher         = "cypher"
	KindCypherEffect   = "cypher_effect"
	KindPanic          = "panic"
	KindSilhouette     = "silhouette"
	KindFantastic      = "fantastic"
	KindEdge           = "edge"
	KindTrouble        = "trouble"
	KindBraveNewWorld  = "brave_new_world"
	KindDisaster       = "disaster"
	KindComplication   = "complication"
	KindCombatEffects  = "combat_effects"
	KindDuality        = "duality"
)

// Annotation is a system note attached to an outcome. Value is a short
// machine-friendly result; Detail explains it.
type Annotation struct {
	Kind   string `json:"kind"`
	Value  string `json:"value,omitempty"`
	Detail string `json:"detail,omitempty"`
}

// TermOutcome is the result of one additional dice term in the tail.
type TermOutcome struct {
	Notation  string `json:"notation"`
	Dice      []Die  `json:"dice"`
	Mode      Mode   `json:"mode"`
	Total     int    `json:"total"`
	Successes int    `json:"successes,omitempty"`
	Failures  int    `json:"failures,omitempty"`
	Botches   int    `json:"botches,omitempty"`
}

// Outcome is the immutable result of evaluating one specification.
type Outcome struct {
	// Dice are the base term's dice in display order.
	Dice []Die `json:"dice"`
	// Terms are the tail's dice terms in written order.
	Terms []TermOutcome `json:"terms,omitempty"`

	Mode      Mode `json:"mode"`
	Total     int  `json:"total"`
	Successes int  `json:"successes,omitempty"`
	Failures  int  `json:"failures,omitempty"`
	Botches   int  `json:"botches,omitempty"`

	Label       string        `json:"label,omitempty"`
	Comment     string        `json:"comment,omitempty"`
	Flags       segment.Flags `json:"flags"`
	Annotations []Annotation  `json:"annotations,omitempty"`
}

// Annotation returns the first annotation of kind.
func (o Outcome) Annotation(kind string) (Annotation, bool) {
	for _, a := range o.Annotations {
		if a.Kind == kind {
			return a, true
		}
	}
	return Annotation{}, false
}

// Kept returns the base dice that were not dropped.
func (o Outcome) Kept() []Die {
	out := make([]Die, 0, len(o.Dice))
	for _, d := range o.Dice {
		if !d.Dropped {
			out = append(out, d)
		}
	}
	return out
}

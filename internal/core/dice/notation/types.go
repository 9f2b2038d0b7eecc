package notation

import (
	"strconv"

	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
)

// Limits enforced while parsing.
const (
	MaxInputLength = 1000
	MaxSegments    = 4
	MinRollSet     = 2
	MaxRollSet     = 20
	MaxDice        = 500
	MaxSides       = 1000
	MaxConstant    = 1_000_000
)

// SidesKind distinguishes numeric dice from the special die shapes.
type SidesKind int

const (
	Numeric SidesKind = iota
	// Fudge dice have three faces contributing -1, 0 and +1.
	Fudge
	// Percentile dice are written d% and have 100 faces.
	Percentile
)

// Sides describes the faces of a die.
type Sides struct {
	Kind  SidesKind
	Faces int
}

// String renders the sides as written after "d".
func (s Sides) String() string {
	switch s.Kind {
	case Fudge:
		return "F"
	case Percentile:
		return "%"
	default:
		return strconv.Itoa(s.Faces)
	}
}

// Term is a homogeneous pool of dice and the modifiers that apply to it.
type Term struct {
	Count     int
	Sides     Sides
	Modifiers []Modifier
}

// Op is an arithmetic operator in a tail.
type Op byte

const (
	Add      Op = '+'
	Subtract Op = '-'
	Multiply Op = '*'
	Divide   Op = '/'
)

// Lead is a constant written before the dice term, as in "20 / 2d4".
type Lead struct {
	Value int
	Op    Op
}

// TailItem is one "(op) operand" step of the arithmetic tail. Exactly one of
// Dice and Constant is meaningful: Dice is nil for constants.
type TailItem struct {
	Op       Op
	Constant int
	Dice     *Term
}

// Spec is a validated roll specification. It is never mutated after Parse
// returns, so it can be shared between goroutines and cached.
type Spec struct {
	Lead  *Lead
	Base  Term
	Tail  []TailItem
	Flags segment.Flags

	Label      string
	HasLabel   bool
	Comment    string
	HasComment bool
}

// Terms returns the base term followed by every dice term in the tail.
func (s Spec) Terms() []Term {
	terms := []Term{s.Base}
	for _, item := range s.Tail {
		if item.Dice != nil {
			terms = append(terms, *item.Dice)
		}
	}
	return terms
}

// DiceCount is the number of dice rolled before explosions and rerolls.
func (s Spec) DiceCount() int {
	total := 0
	for _, t := range s.Terms() {
		total += t.Count
	}
	return total
}

// Segment is one ";"-separated part of the input.
type Segment struct {
	// Index is the zero-based position of the segment in the input.
	Index int
	// Source is the trimmed segment text.
	Source string
	// Repeat is how many independent times the spec is evaluated.
	Repeat int
	Spec   Spec
}

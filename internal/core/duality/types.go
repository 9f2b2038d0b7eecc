// Package duality resolves Daggerheart action rolls: a Hope d12 and a Fear
// d12 read together against an optional difficulty.
package duality

import "errors"

// DieSides is the size of both duality dice.
const DieSides = 12

// Outcome represents the outcome of an action roll.
type Outcome int

const (
	OutcomeUnspecified Outcome = iota
	OutcomeRollWithHope
	OutcomeRollWithFear
	OutcomeSuccessWithHope
	OutcomeSuccessWithFear
	OutcomeFailureWithHope
	OutcomeFailureWithFear
	OutcomeCriticalSuccess
)

func (o Outcome) String() string {
	switch o {
	case OutcomeUnspecified:
		return "Unspecified"
	case OutcomeRollWithHope:
		return "Roll with hope"
	case OutcomeRollWithFear:
		return "Roll with fear"
	case OutcomeSuccessWithHope:
		return "Success with hope"
	case OutcomeSuccessWithFear:
		return "Success with fear"
	case OutcomeFailureWithHope:
		return "Failure with hope"
	case OutcomeFailureWithFear:
		return "Failure with fear"
	case OutcomeCriticalSuccess:
		return "Critical success"
	default:
		return "Unknown"
	}
}

// Key is the snake_case form used in annotations and JSON.
func (o Outcome) Key() string {
	switch o {
	case OutcomeRollWithHope:
		return "with_hope"
	case OutcomeRollWithFear:
		return "with_fear"
	case OutcomeSuccessWithHope:
		return "success_with_hope"
	case OutcomeSuccessWithFear:
		return "success_with_fear"
	case OutcomeFailureWithHope:
		return "failure_with_hope"
	case OutcomeFailureWithFear:
		return "failure_with_fear"
	case OutcomeCriticalSuccess:
		return "critical_success"
	default:
		return "unspecified"
	}
}

// ErrInvalidDifficulty indicates the difficulty is invalid for a roll.
var ErrInvalidDifficulty = errors.New("difficulty must be non-negative")

// ErrInvalidDualityDie indicates hope or fear dice are outside the 1-12 range.
var ErrInvalidDualityDie = errors.New("duality dice must be between 1 and 12")

// Request describes one action roll to resolve. Total already includes every
// modifier; Difficulty is nil when the roll has none.
type Request struct {
	Hope       int
	Fear       int
	Total      int
	Difficulty *int
}

// Result captures the resolved outcome.
type Result struct {
	Hope            int
	Fear            int
	Total           int
	Difficulty      *int
	IsCrit          bool
	MeetsDifficulty bool
	Outcome         Outcome
}

// HopeGtFear reports whether the roll was made with hope.
func (r Result) HopeGtFear() bool { return r.Hope > r.Fear }

// Package dice rolls plain dice pools from an explicit random source.
package dice

import (
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

var (
	// ErrMissingDice is returned when a request carries no dice specs.
	ErrMissingDice = apperrors.New(apperrors.CodeDiceMissing, "at least one die must be provided")
	// ErrInvalidDiceSpec is returned for a spec without positive sides and count.
	ErrInvalidDiceSpec = apperrors.New(apperrors.CodeDiceInvalidSpec, "dice spec must have positive sides and count")
)

// Spec describes a homogeneous pool of dice.
type Spec struct {
	Sides int
	Count int
}

// Request rolls a list of pools from a seed.
type Request struct {
	Dice []Spec
	Seed int64
}

// Roll is the outcome of one pool, in roll order.
type Roll struct {
	Sides   int
	Results []int
	Total   int
}

// Result holds every pool rolled by a request.
type Result struct {
	Rolls []Roll
	Total int
}

// RollDice rolls dice based on the provided request.
//
// # Determinism
//
// RollDice is deterministic with respect to Request.Seed: the same seed and
// the same Dice slice always produce the same Result.
//
// # Ordering
//
// Rolls appear in the order of Request.Dice, and each Roll lists its faces in
// the order they were drawn.
//
// # Errors
//
//   - ErrMissingDice when Request.Dice is empty.
//   - ErrInvalidDiceSpec when a Spec has Sides <= 0 or Count <= 0.
//
// Example:
//
//	result, err := RollDice(Request{
//	    Dice: []Spec{{Sides: 6, Count: 4}}, // roll 4d6
//	    Seed: 1,
//	})
func RollDice(request Request) (Result, error) {
	return RollWithSource(NewSource(request.Seed), request.Dice)
}

// RollWithSource rolls the specs using a caller-owned source, so several
// calls can share one stream of draws.
func RollWithSource(src Source, specs []Spec) (Result, error) {
	if len(specs) == 0 {
		return Result{}, ErrMissingDice
	}
	for _, spec := range specs {
		if spec.Sides <= 0 || spec.Count <= 0 {
			return Result{}, ErrInvalidDiceSpec
		}
	}

	result := Result{Rolls: make([]Roll, 0, len(specs))}
	for _, spec := range specs {
		roll := Roll{Sides: spec.Sides, Results: make([]int, spec.Count)}
		for i := range roll.Results {
			roll.Results[i] = RollDie(src, spec.Sides)
			roll.Total += roll.Results[i]
		}
		result.Rolls = append(result.Rolls, roll)
		result.Total += roll.Total
	}
	return result, nil
}

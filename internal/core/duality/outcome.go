package duality

// Evaluate deterministically resolves an action roll. Matching dice are a
// critical success whatever the difficulty.
func Evaluate(request Request) (Result, error) {
	if request.Hope < 1 || request.Hope > DieSides || request.Fear < 1 || request.Fear > DieSides {
		return Result{}, ErrInvalidDualityDie
	}
	if request.Difficulty != nil && *request.Difficulty < 0 {
		return Result{}, ErrInvalidDifficulty
	}

	isCrit := request.Hope == request.Fear
	meetsDifficulty := false
	if request.Difficulty != nil {
		meetsDifficulty = isCrit || request.Total >= *request.Difficulty
	}

	outcome := OutcomeUnspecified
	hope := request.Hope > request.Fear
	switch {
	case isCrit:
		outcome = OutcomeCriticalSuccess
	case request.Difficulty == nil && hope:
		outcome = OutcomeRollWithHope
	case request.Difficulty == nil:
		outcome = OutcomeRollWithFear
	case meetsDifficulty && hope:
		outcome = OutcomeSuccessWithHope
	case meetsDifficulty:
		outcome = OutcomeSuccessWithFear
	case hope:
		outcome = OutcomeFailureWithHope
	default:
		outcome = OutcomeFailureWithFear
	}

	return Result{
		Hope:            request.Hope,
		Fear:            request.Fear,
		Total:           request.Total,
		Difficulty:      request.Difficulty,
		IsCrit:          isCrit,
		MeetsDifficulty: meetsDifficulty,
		Outcome:         outcome,
	}, nil
}

// Package check compares roll results against difficulties.
package check

// Labels reported for a difficulty check.
const (
	Pass = "PASS"
	Fail = "FAIL"
)

// MeetsDifficulty returns true if total >= difficulty.
func MeetsDifficulty(total, difficulty int) bool {
	return total >= difficulty
}

// Margin is positive on success and negative on failure.
func Margin(total, difficulty int) int {
	return total - difficulty
}

// Result represents the outcome of a difficulty check.
type Result struct {
	Success bool
	Margin  int
}

// Check performs a difficulty check and returns the result.
func Check(total, difficulty int) Result {
	return Result{
		Success: MeetsDifficulty(total, difficulty),
		Margin:  Margin(total, difficulty),
	}
}

// Label renders the result as PASS or FAIL.
func (r Result) Label() string {
	if r.Success {
		return Pass
	}
	return Fail
}

// CypherTarget returns the d20 target number for a Cypher System task. Each
// task level adds 3.
func CypherTarget(level int) int {
	return level * 3
}

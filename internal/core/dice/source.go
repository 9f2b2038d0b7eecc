package dice

import (
	"math/rand"
	"sync"
)

// Source draws uniform integers in [0, n). Implementations used by the
// evaluator must be safe for concurrent use.
type Source interface {
	Intn(n int) int
}

// lockedSource serialises draws from a math/rand generator.
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource returns a seeded Source that is safe for concurrent use.
// Two sources built from the same seed yield the same sequence.
func NewSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) Intn(n int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.rng.Intn(n)
}

// RollDie rolls a single die with the provided number of sides.
func RollDie(src Source, sides int) int {
	return src.Intn(sides) + 1
}

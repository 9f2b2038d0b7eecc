// Package dicetest provides deterministic dice sources for tests.
package dicetest

import (
	"fmt"
	"sync"
)

// Faces is a Source that returns scripted die faces in order. Each call to
// Intn(n) consumes one face f and returns f-1, so RollDie yields f exactly.
// When the script runs out it keeps returning Fallback (default 1).
type Faces struct {
	mu       sync.Mutex
	faces    []int
	next     int
	Fallback int
}

// NewFaces scripts the faces returned by successive rolls.
func NewFaces(faces ...int) *Faces {
	return &Faces{faces: append([]int(nil), faces...)}
}

// Intn implements dice.Source.
func (f *Faces) Intn(n int) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	face := f.Fallback
	if face == 0 {
		face = 1
	}
	if f.next < len(f.faces) {
		face = f.faces[f.next]
		f.next++
	}
	if face < 1 || face > n {
		panic(fmt.Sprintf("dicetest: scripted face %d outside 1..%d", face, n))
	}
	return face - 1
}

// Remaining reports how many scripted faces were not consumed.
func (f *Faces) Remaining() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.faces) - f.next
}

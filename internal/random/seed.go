// Package random provides seed generation for the dice sources.
//
// Seeds come from crypto/rand; the sources they initialise are ordinary
// pseudo-random generators, so a recorded seed replays a roll exactly.
package random

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
)

// NewSeed generates a random seed using crypto/rand.
func NewSeed() (int64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("read random seed: %w", err)
	}

	return int64(binary.LittleEndian.Uint64(b[:])), nil
}

// ResolveSeed returns *seed when the caller pinned one, and a fresh seed
// otherwise.
func ResolveSeed(seed *int64) (int64, error) {
	if seed != nil {
		return *seed, nil
	}
	return NewSeed()
}

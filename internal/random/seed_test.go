package random

import "testing"

func TestNewSeedVaries(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 16; i++ {
		seed, err := NewSeed()
		if err != nil {
			t.Fatalf("NewSeed() error = %v", err)
		}
		seen[seed] = true
	}
	if len(seen) < 2 {
		t.Errorf("NewSeed() returned the same seed 16 times")
	}
}

func TestResolveSeed(t *testing.T) {
	pinned := int64(42)
	got, err := ResolveSeed(&pinned)
	if err != nil {
		t.Fatalf("ResolveSeed() error = %v", err)
	}
	if got != pinned {
		t.Errorf("ResolveSeed(&42) = %d, want 42", got)
	}
	if _, err := ResolveSeed(nil); err != nil {
		t.Errorf("ResolveSeed(nil) error = %v", err)
	}
}

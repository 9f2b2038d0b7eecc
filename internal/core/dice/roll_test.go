package dice

import (
	"errors"
	"sync"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRollDice(t *testing.T) {
	tests := []struct {
		name    string
		request Request
		wantErr error
	}{
		{name: "single d6", request: Request{Dice: []Spec{{Sides: 6, Count: 1}}, Seed: 42}},
		{name: "2d6 + 1d8", request: Request{Dice: []Spec{{Sides: 6, Count: 2}, {Sides: 8, Count: 1}}, Seed: 42}},
		{name: "percentile pool", request: Request{Dice: []Spec{{Sides: 100, Count: 50}}, Seed: 7}},
		{name: "no dice", request: Request{Seed: 42}, wantErr: ErrMissingDice},
		{name: "invalid sides", request: Request{Dice: []Spec{{Sides: 0, Count: 1}}}, wantErr: ErrInvalidDiceSpec},
		{name: "invalid count", request: Request{Dice: []Spec{{Sides: 6, Count: 0}}}, wantErr: ErrInvalidDiceSpec},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := RollDice(tt.request)
			if !errors.Is(err, tt.wantErr) || (err == nil) != (tt.wantErr == nil) {
				t.Fatalf("RollDice() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if len(result.Rolls) != len(tt.request.Dice) {
				t.Fatalf("got %d rolls, want %d", len(result.Rolls), len(tt.request.Dice))
			}
			total := 0
			for i, roll := range result.Rolls {
				if len(roll.Results) != tt.request.Dice[i].Count {
					t.Errorf("Roll[%d] got %d results, want %d", i, len(roll.Results), tt.request.Dice[i].Count)
				}
				sum := 0
				for j, r := range roll.Results {
					if r < 1 || r > roll.Sides {
						t.Errorf("Roll[%d].Results[%d] = %d, out of range [1, %d]", i, j, r, roll.Sides)
					}
					sum += r
				}
				if roll.Total != sum {
					t.Errorf("Roll[%d].Total = %d, want %d", i, roll.Total, sum)
				}
				total += roll.Total
			}
			if result.Total != total {
				t.Errorf("Result.Total = %d, want %d", result.Total, total)
			}
		})
	}
}

func TestRollDiceDeterminism(t *testing.T) {
	request := Request{Dice: []Spec{{Sides: 12, Count: 2}, {Sides: 6, Count: 4}}, Seed: 12345}

	first, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	second, err := RollDice(request)
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("same seed produced different results (-first +second):\n%s", diff)
	}
}

func TestRollWithSourceSharesStream(t *testing.T) {
	src := NewSource(42)
	a, err := RollWithSource(src, []Spec{{Sides: 20, Count: 3}})
	if err != nil {
		t.Fatalf("RollWithSource() error = %v", err)
	}
	b, err := RollWithSource(src, []Spec{{Sides: 20, Count: 3}})
	if err != nil {
		t.Fatalf("RollWithSource() error = %v", err)
	}

	combined, err := RollDice(Request{Dice: []Spec{{Sides: 20, Count: 6}}, Seed: 42})
	if err != nil {
		t.Fatalf("RollDice() error = %v", err)
	}
	got := append(append([]int{}, a.Rolls[0].Results...), b.Rolls[0].Results...)
	if diff := cmp.Diff(combined.Rolls[0].Results, got); diff != "" {
		t.Fatalf("shared source diverged (-want +got):\n%s", diff)
	}
}

func TestSourceConcurrentDraws(t *testing.T) {
	src := NewSource(1)
	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 1000 {
				if v := RollDie(src, 6); v < 1 || v > 6 {
					t.Errorf("RollDie = %d, out of range", v)
					return
				}
			}
		}()
	}
	wg.Wait()
}

package notation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

func d(count, faces int, mods ...Modifier) Term {
	return Term{Count: count, Sides: Sides{Kind: Numeric, Faces: faces}, Modifiers: mods}
}

func mustParseOne(t *testing.T, input string) Segment {
	t.Helper()
	segs, err := Parse(input)
	if err != nil {
		t.Fatalf("Parse(%q) error = %v", input, err)
	}
	if len(segs) != 1 {
		t.Fatalf("Parse(%q) returned %d segments, want 1", input, len(segs))
	}
	return segs[0]
}

func TestParseSpec(t *testing.T) {
	tests := []struct {
		input string
		want  Spec
	}{
		{input: "2d6", want: Spec{Base: d(2, 6)}},
		{input: "d20", want: Spec{Base: d(1, 20)}},
		{input: "4dF", want: Spec{Base: Term{Count: 4, Sides: Sides{Kind: Fudge, Faces: 3}}}},
		{input: "d%", want: Spec{Base: Term{Count: 1, Sides: Sides{Kind: Percentile, Faces: 100}}}},
		{input: "2D6 + 3", want: Spec{Base: d(2, 6), Tail: []TailItem{{Op: Add, Constant: 3}}}},
		{input: "4d6 k3", want: Spec{Base: d(4, 6, Keep{N: 3, Rank: Highest})}},
		{input: "2d20kl1", want: Spec{Base: d(2, 20, Keep{N: 1, Rank: Lowest})}},
		{input: "5d6 km3", want: Spec{Base: d(5, 6, Keep{N: 3, Rank: Middle})}},
		{input: "4d6 d1", want: Spec{Base: d(4, 6, Drop{N: 1})}},
		{input: "3d6 e", want: Spec{Base: d(3, 6, Explode{Threshold: 6})}},
		{input: "3d6 ie5", want: Spec{Base: d(3, 6, Explode{Threshold: 5, Indefinite: true})}},
		{input: "4d6 r2", want: Spec{Base: d(4, 6, Reroll{Threshold: 2, Direction: AtMost})}},
		{input: "4d6 irg5", want: Spec{Base: d(4, 6, Reroll{Threshold: 5, Direction: AtLeast, Indefinite: true})}},
		{input: "5d10 t7 ds10", want: Spec{Base: d(5, 10, Target{Threshold: 7, Direction: AtLeast, Double: 10})}},
		{input: "4d10 tl3", want: Spec{Base: d(4, 10, Target{Threshold: 3, Direction: AtMost})}},
		{
			input: "5d10 f1 ie10 t8 c",
			want: Spec{Base: d(5, 10,
				Failure{Threshold: 1},
				Explode{Threshold: 10, Indefinite: true},
				Target{Threshold: 8},
				Cancel{},
			)},
		},
		{input: "6d10 t7 b", want: Spec{Base: d(6, 10, Target{Threshold: 7}, Botch{Threshold: 1})}},
		{input: "4d6 wngw2dn3t", want: Spec{Base: d(4, 6, Variant{System: WrathGlory, Wrath: 2, Difficulty: 3, Total: true})}},
		{input: "1d20 cs3", want: Spec{Base: d(1, 20, Variant{System: Cypher, Level: 3})}},
		{input: "1d8 ie8 sw", want: Spec{Base: d(1, 8, Explode{Threshold: 8, Indefinite: true}, Variant{System: SavageWorlds})}},
		{input: "3d6 mm", want: Spec{Base: d(3, 6, Variant{System: MarvelMultiverse})}},
		{input: "3d6 mme2", want: Spec{Base: d(3, 6, Variant{System: MarvelMultiverse, Edges: 2})}},
		{input: "3d6 mme1t3", want: Spec{Base: d(3, 6, Variant{System: MarvelMultiverse, Troubles: 2})}},
		{input: "5d6 bnw", want: Spec{Base: d(5, 6, Variant{System: BraveNewWorld})}},
		{input: "2d12 dheart", want: Spec{Base: d(2, 12, Variant{System: Daggerheart})}},
		{input: "2d12 dheartdn14", want: Spec{Base: d(2, 12, Variant{System: Daggerheart, Difficulty: 14})}},
		{
			input: "3d20 conan + 5d6 cd",
			want: Spec{
				Base: d(3, 20, Variant{System: ConanSkill}),
				Tail: []TailItem{{Op: Add, Dice: ptr(d(5, 6, Variant{System: ConanCombat}))}},
			},
		},
		{
			input: "4d6 alien + 2d6 aliens2",
			want: Spec{
				Base: d(4, 6, Variant{System: Alien}),
				Tail: []TailItem{{Op: Add, Dice: ptr(d(2, 6, Variant{System: AlienStress, Level: 2}))}},
			},
		},
		{
			input: "2d10 kl1 * 10 + 1d10 - 10",
			want: Spec{
				Base: d(2, 10, Keep{N: 1, Rank: Lowest}),
				Tail: []TailItem{
					{Op: Multiply, Constant: 10},
					{Op: Add, Dice: ptr(d(1, 10))},
					{Op: Subtract, Constant: 10},
				},
			},
		},
		{
			input: "10 - 1d6",
			want:  Spec{Lead: &Lead{Value: 10, Op: Subtract}, Base: d(1, 6)},
		},
		{
			input: "100/2d6",
			want:  Spec{Lead: &Lead{Value: 100, Op: Divide}, Base: d(2, 6)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			seg := mustParseOne(t, tt.input)
			if diff := cmp.Diff(tt.want, seg.Spec); diff != "" {
				t.Errorf("Parse(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func ptr[T any](v T) *T { return &v }

func TestParseEnvelope(t *testing.T) {
	seg := mustParseOne(t, "p s 3 (Fireball) 8d6 ! to the face")
	if seg.Repeat != 3 {
		t.Errorf("Repeat = %d, want 3", seg.Repeat)
	}
	wantFlags := segment.Flags{Private: true, Simple: true}
	if diff := cmp.Diff(wantFlags, seg.Spec.Flags); diff != "" {
		t.Errorf("Flags mismatch (-want +got):\n%s", diff)
	}
	if !seg.Spec.HasLabel || seg.Spec.Label != "Fireball" {
		t.Errorf("Label = %q (%v), want Fireball", seg.Spec.Label, seg.Spec.HasLabel)
	}
	if !seg.Spec.HasComment || seg.Spec.Comment != "to the face" {
		t.Errorf("Comment = %q (%v), want %q", seg.Spec.Comment, seg.Spec.HasComment, "to the face")
	}
	if diff := cmp.Diff(d(8, 6), seg.Spec.Base); diff != "" {
		t.Errorf("Base mismatch (-want +got):\n%s", diff)
	}
}

func TestParseSegments(t *testing.T) {
	segs, err := Parse("1d20 + 5; 2d6 ; 4d6 k3")
	if err != nil {
		t.Fatalf("Parse error = %v", err)
	}
	if len(segs) != 3 {
		t.Fatalf("len(segs) = %d, want 3", len(segs))
	}
	for i, seg := range segs {
		if seg.Index != i {
			t.Errorf("segs[%d].Index = %d", i, seg.Index)
		}
	}
	if segs[1].Source != "2d6" {
		t.Errorf("segs[1].Source = %q, want 2d6", segs[1].Source)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		input string
		code  apperrors.Code
		token string
	}{
		{input: "", code: apperrors.CodeDiceSyntax},
		{input: "2d6;;1d4", code: apperrors.CodeDiceSyntax},
		{input: "hello", code: apperrors.CodeDiceSyntax},
		{input: "2d", code: apperrors.CodeDiceSyntax},
		{input: "2d6 +", code: apperrors.CodeDiceSyntax},
		{input: "2d6 zz", code: apperrors.CodeDiceSyntax, token: "zz"},
		{input: "2d6 k", code: apperrors.CodeDiceSyntax},
		{input: "1d6 + 3 k1", code: apperrors.CodeDiceSyntax},
		{input: "1d6;1d6;1d6;1d6;1d6", code: apperrors.CodeDiceLimitExceeded, token: "roll segments"},
		{input: strings.Repeat("1", MaxInputLength+1), code: apperrors.CodeDiceLimitExceeded, token: "input length"},
		{input: "501d6", code: apperrors.CodeDiceLimitExceeded, token: "dice count"},
		{input: "300d6 + 300d6", code: apperrors.CodeDiceLimitExceeded, token: "total dice"},
		{input: "0d6", code: apperrors.CodeDiceRange, token: "dice count"},
		{input: "2d0", code: apperrors.CodeDiceRange, token: "sides"},
		{input: "2d1001", code: apperrors.CodeDiceRange, token: "sides"},
		{input: "1 2d6", code: apperrors.CodeDiceRange, token: "roll set count"},
		{input: "21 2d6", code: apperrors.CodeDiceRange, token: "roll set count"},
		{input: "2d6 / 0", code: apperrors.CodeDiceRange, token: "divisor"},
		{input: "2d6 + 1000001", code: apperrors.CodeDiceRange, token: "constant"},
		{input: "4d6 k5", code: apperrors.CodeDiceRange, token: "keep count"},
		{input: "4d6 d0", code: apperrors.CodeDiceRange, token: "drop count"},
		{input: "4d6 t7", code: apperrors.CodeDiceRange, token: "target"},
		{input: "4d6 e0", code: apperrors.CodeDiceRange, token: "explode threshold"},
		{input: "5d10 t8 ds7", code: apperrors.CodeDiceRange, token: "double success threshold"},
		{input: "1d20 cs11", code: apperrors.CodeDiceRange, token: "cypher level"},
		{input: "2d6 aliens0", code: apperrors.CodeDiceRange, token: "stress level"},
		{input: "2d6 wngw3", code: apperrors.CodeDiceRange, token: "wrath dice"},
		{input: "4dF t2", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4dF e", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d6 k3 d1", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d6 e ie", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d6 gb sr", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d10 ds10", code: apperrors.CodeDiceUnsupportedCombination, token: "ds10"},
		{input: "5d10 t8 c", code: apperrors.CodeDiceUnsupportedCombination, token: "c"},
		{input: "2d8 sw", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "2d10 cpr", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d8 wng", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d6 alien t5", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "3d6 sil k1", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "3d8 gb t5", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "3d6 mme11", code: apperrors.CodeDiceRange, token: "edges"},
		{input: "3d6 mmt0", code: apperrors.CodeDiceRange, token: "troubles"},
		{input: "2d12 dheartdn0", code: apperrors.CodeDiceRange, token: "difficulty"},
		{input: "4d6 mm", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "3d6 mm k2", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d8 bnw", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "4d6 bnw ie", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "6d20 conan", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "1d20 conan", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "3d20 conan t10", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "2d8 cd", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "3d12 dheart", code: apperrors.CodeDiceUnsupportedCombination},
		{input: "2d12 dheart k1", code: apperrors.CodeDiceUnsupportedCombination},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			_, err := Parse(tt.input)
			if err == nil {
				t.Fatalf("Parse(%q) error = nil, want %s", tt.input, tt.code)
			}
			if got := apperrors.GetCode(err); got != tt.code {
				t.Fatalf("Parse(%q) code = %s, want %s (err %v)", tt.input, got, tt.code, err)
			}
			if tt.token != "" {
				if got := apperrors.GetMetadata(err)[apperrors.MetaToken]; got != tt.token {
					t.Errorf("token = %q, want %q", got, tt.token)
				}
			}
		})
	}
}

func TestParseErrorReportsSegment(t *testing.T) {
	_, err := Parse("1d6; 2d6 k9")
	if err == nil {
		t.Fatal("expected error")
	}
	if got := apperrors.GetMetadata(err)[apperrors.MetaSegment]; got != "2" {
		t.Errorf("segment = %q, want 2", got)
	}
}

func TestParseSyntaxPosition(t *testing.T) {
	_, err := Parse("p 2d6 zz")
	if err == nil {
		t.Fatal("expected error")
	}
	meta := apperrors.GetMetadata(err)
	if meta[apperrors.MetaPosition] != "7" {
		t.Errorf("position = %q, want 7", meta[apperrors.MetaPosition])
	}
}

func TestSpecDiceCount(t *testing.T) {
	seg := mustParseOne(t, "4d6 + 2d8 - 3 + 1d4")
	if got := seg.Spec.DiceCount(); got != 7 {
		t.Errorf("DiceCount() = %d, want 7", got)
	}
	if got := len(seg.Spec.Terms()); got != 3 {
		t.Errorf("len(Terms()) = %d, want 3", got)
	}
}

func TestTermCounting(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"4d6", false},
		{"6d10 t7", true},
		{"4d6 wng", true},
		{"4d6 wngt", false},
		{"4d6 alien", true},
		{"3d8 gb", false},
		{"3d20 conan", true},
		{"4d6 cd", false},
		{"5d6 bnw", false},
	}
	for _, tt := range tests {
		seg := mustParseOne(t, tt.input)
		if got := seg.Spec.Base.Counting(); got != tt.want {
			t.Errorf("%q Counting() = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestSpecString(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"2d6+5", "2d6 + 5"},
		{"4d6 k3", "4d6 k3"},
		{"5d10 t7 ds10", "5d10 t7 ds10"},
		{"4d10 f1 ie t8 c", "4d10 f1 ie10 t8 c"},
		{"4d6 irg5 kl2", "4d6 irg5 kl2"},
		{"4d6 wngw2dn3t", "4d6 wngw2dn3t"},
		{"20 / 2d4", "20 / 2d4"},
		{"d%", "1d%"},
		{"4dF", "4dF"},
		{"3d6 mme3t1", "3d6 mme2"},
		{"2d12 dheartdn12 + 1", "2d12 dheartdn12 + 1"},
		{"2d20 conan + 3d6 cd", "2d20 conan + 3d6 cd"},
	}
	for _, tt := range tests {
		seg := mustParseOne(t, tt.input)
		if got := seg.Spec.String(); got != tt.want {
			t.Errorf("Spec(%q).String() = %q, want %q", tt.input, got, tt.want)
		}
	}
}

package eval

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// ignoreDetail compares annotations by kind and value only.
var ignoreDetail = cmp.Transformer("kindValue", func(a Annotation) Annotation {
	return Annotation{Kind: a.Kind, Value: a.Value}
})

func TestSystemAnnotations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		faces []int
		want  []Annotation
	}{
		{
			name:  "wrath and glory",
			input: "4d6 wngw2dn3",
			faces: []int{6, 1, 4, 2},
			want: []Annotation{
				{Kind: KindIcons, Value: "3"},
				{Kind: KindWrath, Value: "complication"},
				{Kind: KindWrath, Value: "glory"},
				{Kind: KindDifficulty, Value: "PASS"},
			},
		},
		{
			name:  "wrath and glory difficulty failed",
			input: "2d6 wngdn4",
			faces: []int{5, 2},
			want: []Annotation{
				{Kind: KindIcons, Value: "1"},
				{Kind: KindDifficulty, Value: "FAIL"},
			},
		},
		{
			name:  "savage worlds trait kept",
			input: "1d8 ie8 sw",
			faces: []int{8, 3, 5},
			want:  []Annotation{{Kind: KindWildDie, Value: "trait"}},
		},
		{
			name:  "savage worlds snake eyes",
			input: "1d4 ie4 sw",
			faces: []int{1, 1},
			want: []Annotation{
				{Kind: KindWildDie, Value: "trait"},
				{Kind: KindSnakeEyes},
			},
		},
		{
			name:  "shadowrun critical glitch",
			input: "4d6 t5 sr",
			faces: []int{1, 1, 1, 2},
			want:  []Annotation{{Kind: KindCriticalGlitch, Value: "3"}},
		},
		{
			name:  "shadowrun glitch",
			input: "4d6 t5 sr",
			faces: []int{1, 1, 1, 6},
			want:  []Annotation{{Kind: KindGlitch, Value: "3"}},
		},
		{
			name:  "cyberpunk critical failure",
			input: "1d10 cpr",
			faces: []int{1, 4},
			want:  []Annotation{{Kind: KindCritical, Value: "failure"}},
		},
		{
			name:  "cypher minor effect",
			input: "1d20 cs3",
			faces: []int{18},
			want: []Annotation{
				{Kind: KindCypher, Value: "success"},
				{Kind: KindCypherEffect, Value: "minor_effect"},
			},
		},
		{
			name:  "cypher intrusion",
			input: "1d20 cs2",
			faces: []int{1},
			want: []Annotation{
				{Kind: KindCypher, Value: "failure"},
				{Kind: KindCypherEffect, Value: "gm_intrusion"},
			},
		},
		{
			name:  "hero normal body",
			input: "3d6 hsn",
			faces: []int{1, 6, 3},
			want:  []Annotation{{Kind: KindBody, Value: "3"}},
		},
		{
			name:  "hero killing stun",
			input: "2d6 hsk + 1d3",
			faces: []int{4, 5, 2, 3},
			want: []Annotation{
				{Kind: KindBody, Value: "11"},
				{Kind: KindStun, Value: "33"},
			},
		},
		{
			name:  "hero to hit",
			input: "3d6 hsh",
			faces: []int{3, 4, 2},
			want:  []Annotation{{Kind: KindToHit, Value: "9"}},
		},
		{
			name:  "dark heresy righteous fury",
			input: "1d10 ie10 dh",
			faces: []int{10, 4},
			want:  []Annotation{{Kind: KindRighteousFury}},
		},
		{
			name:  "alien panic",
			input: "2d6 alien + 2d6 aliens3",
			faces: []int{6, 2, 1, 4},
			want:  []Annotation{{Kind: KindPanic, Value: "3"}},
		},
		{
			name:  "godbound chart on total",
			input: "1d20 gb + 1",
			faces: []int{9},
			want:  []Annotation{{Kind: KindGodbound, Value: "4"}},
		},
		{
			name:  "godbound straight",
			input: "2d8 gbs",
			faces: []int{3, 4},
			want:  []Annotation{{Kind: KindStraightDamage, Value: "7"}},
		},
		{
			name:  "silhouette extra sixes",
			input: "3d6 sil",
			faces: []int{6, 6, 6},
			want:  []Annotation{{Kind: KindSilhouette, Value: "2"}},
		},
		{
			name:  "tens cancel ones",
			input: "3d10 f1 t8 c",
			faces: []int{10, 1, 9},
			want:  []Annotation{{Kind: KindCancelled, Value: "1"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := evaluate(t, tt.input, tt.faces...)
			if diff := cmp.Diff(tt.want, out.Annotations, ignoreDetail); diff != "" {
				t.Errorf("annotations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNewSystemAnnotations(t *testing.T) {
	tests := []struct {
		name  string
		input string
		faces []int
		total int
		want  []Annotation
	}{
		{
			name:  "marvel fantastic with an edge",
			input: "3d6 mme1",
			faces: []int{3, 1, 5, 4},
			total: 15,
			want: []Annotation{
				{Kind: KindFantastic, Value: "6"},
				{Kind: KindEdge, Value: "4"},
			},
		},
		{
			name:  "marvel trouble lowers the highest die",
			input: "3d6 mmt1",
			faces: []int{2, 4, 6, 3},
			total: 9,
			want:  []Annotation{{Kind: KindTrouble, Value: "3"}},
		},
		{
			name:  "marvel trouble keeps the lower face",
			input: "3d6 mmt1",
			faces: []int{2, 4, 5, 6},
			total: 11,
			want:  []Annotation{{Kind: KindTrouble, Value: "5"}},
		},
		{
			name:  "brave new world six explodes into a new result",
			input: "3d6 bnw",
			faces: []int{6, 2, 1, 4},
			total: 10,
			want:  []Annotation{{Kind: KindBraveNewWorld, Value: "10"}},
		},
		{
			name:  "brave new world disaster",
			input: "4d6 bnw",
			faces: []int{1, 1, 1, 6, 3},
			total: 0,
			want: []Annotation{
				{Kind: KindDisaster, Value: "3"},
				{Kind: KindBraveNewWorld, Value: "0"},
			},
		},
		{
			name:  "conan skill counts every die",
			input: "3d20 conan",
			faces: []int{20, 5, 12},
			total: 3,
			want:  []Annotation{{Kind: KindComplication, Value: "1"}},
		},
		{
			name:  "conan combat chart",
			input: "4d6 cd",
			faces: []int{1, 2, 3, 6},
			total: 4,
			want:  []Annotation{{Kind: KindCombatEffects, Value: "1"}},
		},
		{
			name:  "conan skill with combat dice",
			input: "2d20 conan + 2d6 cd",
			faces: []int{4, 9, 1, 5},
			total: 4,
			want:  []Annotation{{Kind: KindCombatEffects, Value: "1"}},
		},
		{
			name:  "daggerheart with hope",
			input: "2d12 dheart + 2",
			faces: []int{9, 4},
			total: 15,
			want:  []Annotation{{Kind: KindDuality, Value: "with_hope"}},
		},
		{
			name:  "daggerheart failure with fear",
			input: "2d12 dheartdn15",
			faces: []int{5, 9},
			total: 14,
			want:  []Annotation{{Kind: KindDuality, Value: "failure_with_fear"}},
		},
		{
			name:  "daggerheart success counts modifiers",
			input: "2d12 dheartdn15 + 3",
			faces: []int{10, 3},
			total: 16,
			want:  []Annotation{{Kind: KindDuality, Value: "success_with_hope"}},
		},
		{
			name:  "daggerheart matching dice",
			input: "2d12 dheartdn30",
			faces: []int{7, 7},
			total: 14,
			want:  []Annotation{{Kind: KindDuality, Value: "critical_success"}},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := evaluate(t, tt.input, tt.faces...)
			if out.Total != tt.total {
				t.Errorf("Total = %d, want %d", out.Total, tt.total)
			}
			if diff := cmp.Diff(tt.want, out.Annotations, ignoreDetail); diff != "" {
				t.Errorf("annotations mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMarvelDieIsTagged(t *testing.T) {
	out := evaluate(t, "ul 3d6 mm", 2, 1, 4)
	if out.Dice[1].Group != GroupMarvel || out.Dice[1].Value != 6 {
		t.Fatalf("Marvel die = %+v, want group marvel worth 6", out.Dice[1])
	}
	if out.Total != 12 {
		t.Fatalf("Total = %d, want 12", out.Total)
	}
}

func TestBraveNewWorldKeepsOneResult(t *testing.T) {
	out := evaluate(t, "ul 2d6 bnw + 1", 6, 6, 2, 5)
	kept := out.Kept()
	if len(kept) != 1 || kept[0].Value != 11 {
		t.Fatalf("kept = %+v, want the single 11", kept)
	}
	if out.Total != 12 {
		t.Fatalf("Total = %d, want 12", out.Total)
	}
	if out.Dice[2].ExplodedFrom != 0 || out.Dice[3].ExplodedFrom != 1 {
		t.Fatalf("explosions not linked to their sixes: %+v", out.Dice)
	}
}

func TestDaggerheartDiceAreTagged(t *testing.T) {
	out := evaluate(t, "ul 2d12 dheart", 3, 8)
	groups := []Group{out.Dice[0].Group, out.Dice[1].Group}
	if diff := cmp.Diff([]Group{GroupHope, GroupFear}, groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestWrathDiceAreTagged(t *testing.T) {
	out := evaluate(t, "ul 3d6 wngw2", 3, 4, 5)
	groups := []Group{out.Dice[0].Group, out.Dice[1].Group, out.Dice[2].Group}
	if diff := cmp.Diff([]Group{GroupWrath, GroupWrath, GroupBase}, groups); diff != "" {
		t.Errorf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestSavageWorldsDropsLowerDie(t *testing.T) {
	out := evaluate(t, "ul 1d6 ie6 sw", 2, 6, 3)
	if out.Total != 9 {
		t.Fatalf("Total = %d, want 9", out.Total)
	}
	if !out.Dice[0].Dropped {
		t.Error("trait die should be dropped when the wild die scores higher")
	}
	for _, d := range out.Dice[1:] {
		if d.Group != GroupWild || d.Dropped {
			t.Errorf("wild die %+v should be kept", d)
		}
	}
}

func TestGodboundChart(t *testing.T) {
	tests := map[int]int{-3: 0, 1: 0, 2: 1, 5: 1, 6: 2, 9: 2, 10: 4, 25: 4}
	for in, want := range tests {
		if got := godboundDamage(in); got != want {
			t.Errorf("godboundDamage(%d) = %d, want %d", in, got, want)
		}
	}
}

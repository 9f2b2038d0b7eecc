package roll

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/louisbranch/dicemaiden/internal/core/dice/eval"
	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
)

func TestRenderText(t *testing.T) {
	tests := []struct {
		name string
		res  roller.Result
		want string
	}{
		{
			name: "keep highest",
			res: roller.Result{Segments: []roller.SegmentResult{{
				Source: "(str) 4d6 k3",
				Label:  "str",
				Repeat: 1,
				Outcomes: []eval.Outcome{{
					Dice: []eval.Die{
						{Value: 6, Group: eval.GroupBase},
						{Value: 5, Group: eval.GroupBase},
						{Value: 1, Group: eval.GroupBase, Dropped: true},
						{Value: 4, Group: eval.GroupBase},
					},
					Mode:  eval.ModeSum,
					Total: 15,
				}},
				Total: 15,
			}}},
			want: "(str) 4d6 k3\n  [6, 5, (1), 4] = 15\n",
		},
		{
			name: "successes with annotation and reason",
			res: roller.Result{Seed: 9, Segments: []roller.SegmentResult{{
				Source:  "4d10 t8 ie10",
				Comment: "sneak",
				Repeat:  1,
				Outcomes: []eval.Outcome{{
					Dice: []eval.Die{
						{Value: 8, Success: 1},
						{Value: 10, Exploded: true, Success: 1},
						{Value: 3},
					},
					Mode:        eval.ModeTally,
					Successes:   2,
					Total:       2,
					Annotations: []eval.Annotation{{Kind: eval.KindCriticalGlitch, Detail: "no hits"}},
				}},
				Total: 2,
			}}},
			want: "4d10 t8 ie10\n  [8, 10!, 3] = 2 successes\n    critical glitch: no hits\n  reason: sneak\n\nseed 9\n",
		},
		{
			name: "roll set",
			res: roller.Result{Segments: []roller.SegmentResult{{
				Source: "2 1d6",
				Repeat: 2,
				Outcomes: []eval.Outcome{
					{Dice: []eval.Die{{Value: 3}}, Mode: eval.ModeSum, Total: 3},
					{Dice: []eval.Die{{Value: 5}}, Mode: eval.ModeSum, Total: 5},
				},
				Total: 8,
			}}},
			want: "2 1d6\n  #1 [3] = 3\n  #2 [5] = 5\n  total 8\n",
		},
		{
			name: "simple and wild die",
			res: roller.Result{Segments: []roller.SegmentResult{
				{
					Source: "s 1d20",
					Flags:  segment.Flags{Simple: true},
					Repeat: 1,
					Outcomes: []eval.Outcome{{
						Dice: []eval.Die{{Value: 12}}, Mode: eval.ModeSum, Total: 12,
						Annotations: []eval.Annotation{{Kind: eval.KindCritical}},
					}},
					Total: 12,
				},
				{
					Source: "1d8 + 1d6",
					Repeat: 1,
					Outcomes: []eval.Outcome{{
						Dice:  []eval.Die{{Value: 4}, {Value: 6, Group: eval.GroupWild}},
						Terms: []eval.TermOutcome{{Notation: "+ 1d6", Dice: []eval.Die{{Value: 2}}}},
						Mode:  eval.ModeSum,
						Total: 12,
					}},
					Total: 12,
				},
			}},
			want: "s 1d20\n  12\n\n1d8 + 1d6\n  [4, wild:6] + 1d6 [2] = 12\n",
		},
		{
			name: "failures and botches",
			res: roller.Result{Segments: []roller.SegmentResult{{
				Source: "5d10 t7 f1",
				Repeat: 1,
				Outcomes: []eval.Outcome{{
					Dice:      []eval.Die{{Value: 9, Success: 1}, {Value: 1, Failure: true}},
					Mode:      eval.ModeTally,
					Successes: 1,
					Failures:  1,
					Total:     0,
				}},
			}}},
			want: "5d10 t7 f1\n  [9, 1] = 1 success, 1 failure (net 0)\n",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := RenderText(&buf, tc.res, "en-US"); err != nil {
				t.Fatalf("render: %v", err)
			}
			if diff := cmp.Diff(tc.want, buf.String()); diff != "" {
				t.Fatalf("render mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestRenderTextLocalized(t *testing.T) {
	res := roller.Result{Seed: 12, Segments: []roller.SegmentResult{{
		Source:  "4d10 t8 ! furtivo",
		Comment: "furtivo",
		Repeat:  1,
		Outcomes: []eval.Outcome{{
			Dice:      []eval.Die{{Value: 9, Success: 1}, {Value: 8, Success: 1}, {Value: 1, Botch: true}},
			Mode:      eval.ModeTally,
			Successes: 2,
			Botches:   1,
			Total:     1,
		}},
	}}}
	var buf bytes.Buffer
	if err := RenderText(&buf, res, "pt-BR"); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := "4d10 t8 ! furtivo\n  [9, 8, 1] = 2 sucessos, 1 desastre (líquido 1)\n  motivo: furtivo\n\nsemente 12\n"
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("render mismatch (-want +got):\n%s", diff)
	}
}

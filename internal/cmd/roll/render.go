package roll

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/text/message"

	"github.com/louisbranch/dicemaiden/internal/core/dice/eval"
	"github.com/louisbranch/dicemaiden/internal/core/dice/roller"
	"github.com/louisbranch/dicemaiden/internal/platform/i18n/catalog"
)

// RenderText writes a plain-text summary of res, one block per segment, with
// labels in locale.
func RenderText(w io.Writer, res roller.Result, locale string) error {
	p := catalog.Default().Printer(locale)
	var b strings.Builder
	for i, seg := range res.Segments {
		if i > 0 {
			b.WriteByte('\n')
		}
		renderSegment(&b, p, seg)
	}
	if res.Seed != 0 {
		b.WriteByte('\n')
		b.WriteString(p.Sprintf("roll.seed", strconv.FormatInt(res.Seed, 10)))
		b.WriteByte('\n')
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func renderSegment(b *strings.Builder, p *message.Printer, seg roller.SegmentResult) {
	b.WriteString(seg.Source)
	b.WriteByte('\n')

	for i, out := range seg.Outcomes {
		b.WriteString("  ")
		if seg.Repeat > 1 {
			fmt.Fprintf(b, "#%d ", i+1)
		}
		if !seg.Flags.Simple && !seg.Flags.NoResults {
			b.WriteString(formatDice(out.Dice))
			for _, term := range out.Terms {
				fmt.Fprintf(b, " %s %s", term.Notation, formatDice(term.Dice))
			}
			b.WriteString(" = ")
		}
		b.WriteString(formatTotal(p, out))
		b.WriteByte('\n')
		if seg.Flags.Simple {
			continue
		}
		for _, a := range out.Annotations {
			b.WriteString("    ")
			b.WriteString(formatAnnotation(a))
			b.WriteByte('\n')
		}
	}
	if seg.Repeat > 1 && seg.Outcomes[0].Mode == eval.ModeSum {
		fmt.Fprintf(b, "  %s\n", p.Sprintf("roll.total", seg.Total))
	}
	if seg.Comment != "" {
		fmt.Fprintf(b, "  %s\n", p.Sprintf("roll.reason", seg.Comment))
	}
}

// formatDice lists dice in display order. Dropped dice are parenthesized and
// dice that exploded carry a trailing "!".
func formatDice(dice []eval.Die) string {
	parts := make([]string, 0, len(dice))
	for _, d := range dice {
		s := strconv.Itoa(d.Value)
		if d.Exploded {
			s += "!"
		}
		if d.Group != eval.GroupBase && d.Group != "" {
			s = string(d.Group) + ":" + s
		}
		if d.Dropped {
			s = "(" + s + ")"
		}
		parts = append(parts, s)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func formatTotal(p *message.Printer, out eval.Outcome) string {
	if out.Mode != eval.ModeTally {
		return p.Sprintf("%d", out.Total)
	}
	s := plural(p, "roll.successes", out.Successes)
	if out.Failures > 0 {
		s += ", " + plural(p, "roll.failures", out.Failures)
	}
	if out.Botches > 0 {
		s += ", " + plural(p, "roll.botches", out.Botches)
	}
	if out.Total != out.Successes {
		s += " (" + p.Sprintf("roll.net", out.Total) + ")"
	}
	return s
}

func formatAnnotation(a eval.Annotation) string {
	kind := strings.ReplaceAll(a.Kind, "_", " ")
	switch {
	case a.Value != "" && a.Detail != "":
		return fmt.Sprintf("%s %s: %s", kind, a.Value, a.Detail)
	case a.Detail != "":
		return kind + ": " + a.Detail
	case a.Value != "":
		return kind + " " + a.Value
	}
	return kind
}

// plural picks key.one or key.other for n.
func plural(p *message.Printer, key string, n int) string {
	if n == 1 {
		return p.Sprintf(key+".one", n)
	}
	return p.Sprintf(key+".other", n)
}

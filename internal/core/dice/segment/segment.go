// Package segment splits dice input into segments and peels the in-band
// envelope (flags, roll-set count, label, comment) around each segment's dice
// expression. The alias expander and the notation parser both use it so they
// agree on where an expression starts and ends.
package segment

import (
	"strings"
	"unicode"
)

// Separator divides independent roll segments.
const Separator = ";"

// Flags are presentation hints carried in-band at the start of a segment.
type Flags struct {
	Private   bool `json:"private,omitempty"`
	Simple    bool `json:"simple,omitempty"`
	NoResults bool `json:"no_results,omitempty"`
	Unsorted  bool `json:"unsorted,omitempty"`
}

// Any reports whether any flag is set.
func (f Flags) Any() bool {
	return f.Private || f.Simple || f.NoResults || f.Unsorted
}

func (f Flags) tokens() []string {
	var out []string
	if f.Private {
		out = append(out, "p")
	}
	if f.Simple {
		out = append(out, "s")
	}
	if f.NoResults {
		out = append(out, "nr")
	}
	if f.Unsorted {
		out = append(out, "ul")
	}
	return out
}

// Envelope is one segment with its dice expression separated from the text
// around it. Offsets are byte offsets into the segment passed to Peel.
type Envelope struct {
	Flags Flags
	// Count holds the raw roll-set digits, empty when absent.
	Count       string
	CountOffset int

	Label    string
	HasLabel bool

	Body       string
	BodyOffset int

	Comment    string
	HasComment bool
}

// Split divides input on the segment separator. It never drops empty
// segments; callers decide whether they are errors.
func Split(input string) []string {
	return strings.Split(input, Separator)
}

// Peel separates a single segment into its envelope and dice expression.
// Recognition order is flags, roll-set count, label, then comment; whatever
// remains is the body.
func Peel(segment string) Envelope {
	var env Envelope
	pos := skipSpace(segment, 0)

flags:
	for {
		word, end := nextWord(segment, pos)
		after := skipSpace(segment, end)
		if end == after || after >= len(segment) {
			break
		}
		switch strings.ToLower(word) {
		case "p":
			env.Flags.Private = true
		case "s":
			env.Flags.Simple = true
		case "nr":
			env.Flags.NoResults = true
		case "ul":
			env.Flags.Unsorted = true
		default:
			break flags
		}
		pos = after
	}

	if digits := leadingDigits(segment[pos:]); digits != "" {
		after := skipSpace(segment, pos+len(digits))
		if after > pos+len(digits) && after < len(segment) && startsExpression(segment[after:]) {
			env.Count = digits
			env.CountOffset = pos
			pos = after
		}
	}

	if pos < len(segment) && segment[pos] == '(' {
		if closeIdx := strings.IndexByte(segment[pos:], ')'); closeIdx != -1 {
			env.Label = strings.TrimSpace(segment[pos+1 : pos+closeIdx])
			env.HasLabel = true
			pos = skipSpace(segment, pos+closeIdx+1)
		}
	}

	rest := segment[pos:]
	if bang := strings.IndexByte(rest, '!'); bang != -1 {
		env.Comment = strings.TrimSpace(rest[bang+1:])
		env.HasComment = true
		rest = rest[:bang]
	}
	env.Body = strings.TrimRightFunc(rest, unicode.IsSpace)
	env.BodyOffset = pos
	return env
}

// String reassembles the envelope into canonical segment text.
func (e Envelope) String() string {
	parts := e.Flags.tokens()
	if e.Count != "" {
		parts = append(parts, e.Count)
	}
	if e.HasLabel {
		parts = append(parts, "("+e.Label+")")
	}
	if e.Body != "" {
		parts = append(parts, e.Body)
	}
	if e.HasComment {
		parts = append(parts, "! "+e.Comment)
	}
	return strings.Join(parts, " ")
}

// Join reassembles segments with the separator.
func Join(segments []string) string {
	return strings.Join(segments, Separator+" ")
}

// startsExpression reports whether text after a leading number can begin a
// dice expression, which is what distinguishes "6 4d6" (a roll set) from
// "20 / 2d4" (a leading constant). Signs are accepted only when they prefix a
// die or an alias, as in "2 +d20".
func startsExpression(s string) bool {
	switch s[0] {
	case '*', '/':
		return false
	case '+', '-':
		return len(s) > 1 && (s[1] == 'd' || s[1] == 'D' || s[1] == 'a' || s[1] == 'A')
	}
	return true
}

func skipSpace(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t' || s[i] == '\n' || s[i] == '\r') {
		i++
	}
	return i
}

func nextWord(s string, i int) (string, int) {
	end := i
	for end < len(s) && s[end] != ' ' && s[end] != '\t' && s[end] != '\n' && s[end] != '\r' {
		end++
	}
	return s[i:end], end
}

func leadingDigits(s string) string {
	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	return s[:end]
}

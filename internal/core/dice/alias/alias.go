// Package alias rewrites game-system shorthand into canonical dice notation.
//
// A Table is an ordered list of rules. Each rule is a sequence of typed parts
// (literals, bounded numbers, optional groups). A rule matches the leading
// term of a segment's dice expression when what follows is empty or an
// arithmetic tail; the first rule that matches structurally wins and its
// captures are range-checked before the expansion runs. Tail operands that
// are whole aliases are expanded in place. Expansion is a single pass: an
// expansion is never fed back into the table.
package alias

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
	apperrors "github.com/louisbranch/dicemaiden/internal/platform/errors"
)

// Rule maps one shorthand shape to canonical notation.
type Rule struct {
	Name    string
	System  string
	Example string

	pattern []part
	bounds  []bound
	expand  func(Captures) (string, error)
}

func newRule(name, system, example string, pattern []part, expand func(Captures) (string, error)) Rule {
	return Rule{
		Name:    name,
		System:  system,
		Example: example,
		pattern: pattern,
		bounds:  collectBounds(pattern),
		expand:  expand,
	}
}

// fixed builds an expansion that ignores captures.
func fixed(expansion string) func(Captures) (string, error) {
	return func(Captures) (string, error) { return expansion, nil }
}

// Match reports whether the rule structurally matches text, returning its
// captures. Capture ranges are not checked.
func (r Rule) Match(text string) (Captures, bool) {
	caps := Captures{}
	ok := matchSeq(r.pattern, text, 0, caps, func(j int) bool { return j == len(text) })
	return caps, ok
}

// MatchHead matches the rule against the start of text, stopping where the
// rest is empty or begins with an arithmetic operator. n is the number of
// bytes matched.
func (r Rule) MatchHead(text string) (caps Captures, n int, ok bool) {
	caps = Captures{}
	ok = matchSeq(r.pattern, text, 0, caps, func(j int) bool {
		if !atTail(text, j) {
			return false
		}
		n = j
		return true
	})
	return caps, n, ok
}

// Apply range-checks captures and renders the expansion.
func (r Rule) Apply(caps Captures) (string, error) {
	for _, b := range r.bounds {
		if !caps.Has(b.name) {
			continue
		}
		if v := caps.Int(b.name); v < b.min || v > b.max {
			return "", rangeError(r.Name, b.name, caps[b.name], b.min, b.max)
		}
	}
	return r.expand(caps)
}

// Entry describes a rule for help listings.
type Entry struct {
	Name      string `json:"name"`
	System    string `json:"system"`
	Example   string `json:"example"`
	Expansion string `json:"expansion"`
}

// Table is an immutable ordered rule list.
type Table struct {
	rules []Rule
}

// NewTable builds a table that tries rules in the given order.
func NewTable(rules ...Rule) *Table {
	return &Table{rules: append([]Rule(nil), rules...)}
}

// Rules returns the rules in match order.
func (t *Table) Rules() []Rule {
	return append([]Rule(nil), t.rules...)
}

// Entries lists every rule with the expansion of its example, in match order.
func (t *Table) Entries() []Entry {
	entries := make([]Entry, 0, len(t.rules))
	for _, r := range t.rules {
		expansion := ""
		if caps, ok := r.Match(r.Example); ok {
			expansion, _ = r.Apply(caps)
		}
		entries = append(entries, Entry{Name: r.Name, System: r.System, Example: r.Example, Expansion: expansion})
	}
	return entries
}

// Lookup expands a single dice expression. ok is false when no rule matches.
func (t *Table) Lookup(expr string) (expansion string, rule string, ok bool, err error) {
	text := strings.ToLower(strings.TrimSpace(expr))
	for _, r := range t.rules {
		caps, matched := r.Match(text)
		if !matched {
			continue
		}
		expansion, err = r.Apply(caps)
		return expansion, r.Name, true, err
	}
	return "", "", false, nil
}

// lookupHead expands the leading alias of expr, reporting how many bytes of
// expr it consumed.
func (t *Table) lookupHead(expr string) (expansion, rule string, n int, ok bool, err error) {
	for _, r := range t.rules {
		caps, end, matched := r.MatchHead(expr)
		if !matched {
			continue
		}
		expansion, err = r.Apply(caps)
		return expansion, r.Name, end, true, err
	}
	return "", "", 0, false, nil
}

// Expand rewrites every segment whose dice expression uses an alias. Input
// with no alias is returned unchanged.
func (t *Table) Expand(input string) (string, error) {
	out, _, err := t.ExpandRules(input)
	return out, err
}

// ExpandRules is Expand that also reports the name of the rule applied to
// each segment, "" where none matched. When a segment uses several aliases
// the leading one is reported.
func (t *Table) ExpandRules(input string) (string, []string, error) {
	segments := segment.Split(input)
	names := make([]string, len(segments))
	changed := false
	for i, seg := range segments {
		expanded, name, err := t.expandSegment(seg)
		if err != nil {
			return "", nil, apperrors.InSegment(err, i+1)
		}
		if name != "" {
			segments[i] = expanded
			names[i] = name
			changed = true
		}
	}
	if !changed {
		return input, names, nil
	}
	return strings.Join(segments, segment.Separator), names, nil
}

func (t *Table) expandSegment(seg string) (string, string, error) {
	env := segment.Peel(seg)
	if env.Body == "" {
		return seg, "", nil
	}

	body, name := "", ""
	if env.HasComment {
		// Rules with a "!" suffix, such as "wng 4d6 !soak", consume the comment.
		expansion, rule, ok, err := t.Lookup(env.Body + " !" + env.Comment)
		if ok {
			if err != nil {
				return "", "", err
			}
			body, name = expansion, rule
			env.Comment, env.HasComment = "", false
		}
	}
	if name == "" {
		var err error
		body, name, err = t.expandBody(env.Body)
		if err != nil {
			return "", "", err
		}
	}
	if name == "" {
		return seg, "", nil
	}

	inner := segment.Peel(body)
	if inner.Count != "" {
		if env.Count != "" {
			return "", "", apperrors.WithMetadata(apperrors.CodeDiceUnsupportedCombination,
				fmt.Sprintf("alias %s already rolls a set", name),
				map[string]string{
					apperrors.MetaToken:  env.Body,
					apperrors.MetaReason: "this alias already rolls a set and cannot be repeated",
				})
		}
		env.Count = inner.Count
	}
	env.Body = inner.Body
	return env.String(), name, nil
}

// expandBody expands the leading alias of a dice expression and every tail
// operand that is an alias. name is "" when nothing was expanded.
func (t *Table) expandBody(body string) (string, string, error) {
	orig := strings.TrimSpace(body)
	text := strings.ToLower(orig)
	if len(text) != len(orig) {
		orig = text
	}
	head, rest, name := "", "", ""

	expansion, rule, n, ok, err := t.lookupHead(text)
	switch {
	case err != nil:
		return "", "", err
	case ok:
		head, rest, name = expansion, orig[n:], rule
	default:
		i := tailStart(orig)
		head, rest = strings.TrimSpace(orig[:i]), orig[i:]
	}

	items, ok := splitTail(rest)
	if !ok {
		if name == "" {
			return body, "", nil
		}
		// Malformed tails are left for the parser to report.
		return head + " " + strings.TrimSpace(rest), name, nil
	}

	var b strings.Builder
	b.WriteString(head)
	for _, item := range items {
		operand, rule, err := t.expandOperand(item)
		if err != nil {
			return "", "", err
		}
		if rule != "" && name == "" {
			name = rule
		}
		b.WriteString(" ")
		b.WriteByte(item.op)
		b.WriteString(" ")
		b.WriteString(operand)
	}
	if name == "" {
		return body, "", nil
	}
	return b.String(), name, nil
}

// expandOperand expands a tail operand that is a whole alias. Expansions that
// carry their own tail are only accepted after + or -, where they can be
// spliced in without changing the result.
func (t *Table) expandOperand(item tailItem) (string, string, error) {
	expansion, rule, ok, err := t.Lookup(item.operand)
	if err != nil || !ok {
		return item.operand, "", err
	}
	if segment.Peel(expansion).Count != "" {
		return "", "", operandError(rule, item, "an alias that rolls a set cannot be an operand")
	}
	i := tailStart(expansion)
	if i == len(expansion) {
		return expansion, rule, nil
	}
	ops := expansion[i:]
	if strings.ContainsAny(ops, "*/") || (item.op != '+' && item.op != '-') {
		return "", "", operandError(rule, item, "an alias with its own arithmetic can only be added or subtracted")
	}
	if item.op == '-' {
		expansion = flipSigns(expansion, i)
	}
	return expansion, rule, nil
}

// tailItem is one "op operand" step of an arithmetic tail.
type tailItem struct {
	op      byte
	operand string
}

// splitTail splits text such as " + 3 - sw8" into its steps. It reports
// false when an operator has no operand.
func splitTail(text string) ([]tailItem, bool) {
	var items []tailItem
	i := skipBlank(text, 0)
	for i < len(text) {
		if !isOp(text[i]) {
			return nil, false
		}
		op := text[i]
		start := skipBlank(text, i+1)
		end := start
		// A sign directly before a die belongs to an alias such as +d20.
		if end+1 < len(text) && (text[end] == '+' || text[end] == '-') && text[end+1] == 'd' {
			end++
		}
		for end < len(text) && !isOp(text[end]) {
			end++
		}
		operand := strings.TrimSpace(text[start:end])
		if operand == "" {
			return nil, false
		}
		items = append(items, tailItem{op: op, operand: operand})
		i = end
	}
	return items, true
}

// tailStart returns the index of the first operator after the leading term,
// or len(text).
func tailStart(text string) int {
	for i := 1; i < len(text); i++ {
		if isOp(text[i]) {
			return i
		}
	}
	return len(text)
}

// flipSigns negates every + and - from index i on.
func flipSigns(expr string, i int) string {
	b := []byte(expr)
	for ; i < len(b); i++ {
		switch b[i] {
		case '+':
			b[i] = '-'
		case '-':
			b[i] = '+'
		}
	}
	return string(b)
}

// atTail reports whether text from i is empty or an arithmetic tail.
func atTail(text string, i int) bool {
	j := skipBlank(text, i)
	return j == len(text) || isOp(text[j])
}

func isOp(b byte) bool {
	return b == '+' || b == '-' || b == '*' || b == '/'
}

func operandError(rule string, item tailItem, reason string) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceUnsupportedCombination,
		fmt.Sprintf("alias %s after %q: %s", rule, item.op, reason),
		map[string]string{
			apperrors.MetaToken:  item.operand,
			apperrors.MetaReason: reason,
		})
}

func rangeError(rule, capture, value string, min, max int) *apperrors.Error {
	return apperrors.WithMetadata(apperrors.CodeDiceRange,
		fmt.Sprintf("alias %s: %s %s outside %d-%d", rule, capture, value, min, max),
		map[string]string{
			apperrors.MetaToken: capture,
			apperrors.MetaValue: value,
			apperrors.MetaMin:   strconv.Itoa(min),
			apperrors.MetaMax:   strconv.Itoa(max),
		})
}

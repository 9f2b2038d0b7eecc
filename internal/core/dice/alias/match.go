package alias

import (
	"strconv"
	"strings"
)

// maxDigits keeps numeric captures inside int range; longer runs never match.
const maxDigits = 9

// unbounded is the upper bound for captures whose limit the parser enforces.
const unbounded = 999_999_999

// Captures holds the values a pattern captured, keyed by capture name.
type Captures map[string]string

// Has reports whether the named capture participated in the match.
func (c Captures) Has(name string) bool {
	_, ok := c[name]
	return ok
}

// Int returns the named capture as an integer, or 0 when absent.
func (c Captures) Int(name string) int {
	v, _ := strconv.Atoi(strings.ReplaceAll(c[name], " ", ""))
	return v
}

// Signed renders a signed capture as an arithmetic tail (" + 5"), or "" when
// the capture is absent.
func (c Captures) Signed(name string) string {
	v, ok := c[name]
	if !ok {
		return ""
	}
	return " " + v[:1] + " " + v[1:]
}

// bound declares the valid range of a numeric capture.
type bound struct {
	name     string
	min, max int
}

// part is one typed element of a pattern. match consumes input starting at i
// and calls next with the position after each way it can match, most
// greedy first, returning true as soon as next does.
type part interface {
	match(s string, i int, caps Captures, next func(int) bool) bool
}

type boundedPart interface {
	bounds() []bound
}

func matchSeq(parts []part, s string, i int, caps Captures, next func(int) bool) bool {
	if len(parts) == 0 {
		return next(i)
	}
	return parts[0].match(s, i, caps, func(j int) bool {
		return matchSeq(parts[1:], s, j, caps, next)
	})
}

func collectBounds(parts []part) []bound {
	var out []bound
	for _, p := range parts {
		if b, ok := p.(boundedPart); ok {
			out = append(out, b.bounds()...)
		}
	}
	return out
}

type litPart string

func lit(text string) part { return litPart(text) }

func (p litPart) match(s string, i int, _ Captures, next func(int) bool) bool {
	if !strings.HasPrefix(s[i:], string(p)) {
		return false
	}
	return next(i + len(p))
}

type numPart struct {
	bound
	digits int
}

// num captures a run of digits; out-of-range values are reported after the
// whole pattern matches.
func num(name string, min, max int) part {
	return numPart{bound: bound{name: name, min: min, max: max}, digits: maxDigits}
}

// digit captures exactly one digit.
func digit(name string, min, max int) part {
	return numPart{bound: bound{name: name, min: min, max: max}, digits: 1}
}

func (p numPart) bounds() []bound { return []bound{p.bound} }

func (p numPart) match(s string, i int, caps Captures, next func(int) bool) bool {
	end := i
	for end < len(s) && end-i < p.digits && isDigit(s[end]) {
		end++
	}
	if end < len(s) && isDigit(s[end]) && p.digits == maxDigits {
		return false
	}
	for j := end; j > i; j-- {
		caps[p.name] = s[i:j]
		if next(j) {
			return true
		}
	}
	delete(caps, p.name)
	return false
}

type spacePart struct{ required bool }

// ws matches optional whitespace; ws1 requires at least one space.
func ws() part  { return spacePart{} }
func ws1() part { return spacePart{required: true} }

func (p spacePart) match(s string, i int, _ Captures, next func(int) bool) bool {
	j := i
	for j < len(s) && (s[j] == ' ' || s[j] == '\t') {
		j++
	}
	if p.required && j == i {
		return false
	}
	return next(j)
}

type oneOfPart struct {
	name    string
	options []string
}

// oneOf captures the first literal option that lets the rest of the
// pattern match.
func oneOf(name string, options ...string) part {
	return oneOfPart{name: name, options: options}
}

func (p oneOfPart) match(s string, i int, caps Captures, next func(int) bool) bool {
	for _, opt := range p.options {
		if !strings.HasPrefix(s[i:], opt) {
			continue
		}
		caps[p.name] = opt
		if next(i + len(opt)) {
			return true
		}
	}
	delete(caps, p.name)
	return false
}

type optPart []part

// opt matches its sequence when possible and otherwise matches nothing.
func opt(parts ...part) part { return optPart(parts) }

func (p optPart) bounds() []bound { return collectBounds(p) }

func (p optPart) match(s string, i int, caps Captures, next func(int) bool) bool {
	if matchSeq(p, s, i, caps, next) {
		return true
	}
	return next(i)
}

type signedPart struct{ name string }

// signed captures an optionally spaced "+N" or "-N" as "+N"/"-N".
func signed(name string) part { return signedPart{name: name} }

func (p signedPart) match(s string, i int, caps Captures, next func(int) bool) bool {
	j := skipBlank(s, i)
	if j >= len(s) || (s[j] != '+' && s[j] != '-') {
		return false
	}
	sign := s[j : j+1]
	start := skipBlank(s, j+1)
	end := start
	for end < len(s) && end-start < maxDigits && isDigit(s[end]) {
		end++
	}
	if end == start || (end < len(s) && isDigit(s[end])) {
		return false
	}
	caps[p.name] = sign + s[start:end]
	if next(end) {
		return true
	}
	delete(caps, p.name)
	return false
}

type decimalPart struct{ name string }

// decimal captures digits with an optional fractional part, as in "2.5".
func decimal(name string) part { return decimalPart{name: name} }

func (p decimalPart) match(s string, i int, caps Captures, next func(int) bool) bool {
	end := i
	for end < len(s) && end-i < maxDigits && isDigit(s[end]) {
		end++
	}
	if end == i {
		return false
	}
	whole := end
	if end+1 < len(s) && s[end] == '.' && isDigit(s[end+1]) {
		end++
		for end < len(s) && isDigit(s[end]) {
			end++
		}
	}
	for _, j := range []int{end, whole} {
		caps[p.name] = s[i:j]
		if next(j) {
			return true
		}
		if end == whole {
			break
		}
	}
	delete(caps, p.name)
	return false
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

func skipBlank(s string, i int) int {
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return i
}

// Package notation parses canonical dice notation into validated roll
// specifications.
//
// The grammar of one segment is
//
//	[flags] [N] [(label)] [C op] [C]dS [modifiers...] [(+|-|*|/) (C | [C]dS [modifiers...])...] [! comment]
//
// and up to four segments may be joined with ";". Every numeric argument is
// range-checked while parsing, so a returned Spec always evaluates.
package notation

import (
	"strconv"
	"strings"

	"github.com/louisbranch/dicemaiden/internal/core/dice/segment"
)

// Parse validates input and returns one Segment per ";"-separated part. Any
// error aborts the whole input.
func Parse(input string) ([]Segment, error) {
	if len(input) > MaxInputLength {
		return nil, limitError(0, "input length", MaxInputLength)
	}
	parts := segment.Split(input)
	if len(parts) > MaxSegments {
		return nil, limitError(0, "roll segments", MaxSegments)
	}

	out := make([]Segment, 0, len(parts))
	for i, raw := range parts {
		seg, err := parseSegment(i, raw)
		if err != nil {
			return nil, err
		}
		out = append(out, seg)
	}
	return out, nil
}

func parseSegment(index int, raw string) (Segment, error) {
	segNum := index + 1
	if strings.TrimSpace(raw) == "" {
		return Segment{}, syntaxError(segNum, 1, "", "empty roll segment")
	}

	env := segment.Peel(raw)
	if strings.TrimSpace(env.Body) == "" {
		return Segment{}, syntaxError(segNum, env.BodyOffset+1, "", "missing dice expression")
	}

	repeat := 1
	if env.Count != "" {
		n, err := strconv.Atoi(env.Count)
		if err != nil || n < MinRollSet || n > MaxRollSet {
			return Segment{}, rangeError(segNum, "roll set count", env.Count, MinRollSet, MaxRollSet)
		}
		repeat = n
	}

	p := &parser{src: strings.ToLower(env.Body), offset: env.BodyOffset, seg: segNum}
	spec, err := p.parseSpec()
	if err != nil {
		return Segment{}, err
	}
	spec.Flags = env.Flags
	spec.Label, spec.HasLabel = env.Label, env.HasLabel
	spec.Comment, spec.HasComment = env.Comment, env.HasComment

	return Segment{
		Index:  index,
		Source: strings.TrimSpace(raw),
		Repeat: repeat,
		Spec:   spec,
	}, nil
}

// parser scans one segment body. src is lowercased; offset maps body
// positions back to the segment for error reporting.
type parser struct {
	src    string
	pos    int
	offset int
	seg    int
}

func (p *parser) parseSpec() (Spec, error) {
	var spec Spec
	p.skipSpace()

	if lead, ok, err := p.parseLead(); err != nil {
		return Spec{}, err
	} else if ok {
		spec.Lead = lead
		p.skipSpace()
	}

	base, err := p.parseTerm()
	if err != nil {
		return Spec{}, err
	}
	spec.Base = base

	for {
		p.skipSpace()
		if p.eof() {
			break
		}
		item, err := p.parseTailItem()
		if err != nil {
			return Spec{}, err
		}
		spec.Tail = append(spec.Tail, item)
	}

	if spec.DiceCount() > MaxDice {
		return Spec{}, limitError(p.seg, "total dice", MaxDice)
	}
	return spec, nil
}

// parseLead recognises "C op" before the first dice term.
func (p *parser) parseLead() (*Lead, bool, error) {
	start := p.pos
	digits := p.peekDigits()
	if digits == "" {
		return nil, false, nil
	}
	after := p.pos + len(digits)
	if after < len(p.src) && p.src[after] == 'd' {
		return nil, false, nil
	}
	next := after
	for next < len(p.src) && isSpace(p.src[next]) {
		next++
	}
	if next >= len(p.src) || !isOp(p.src[next]) {
		return nil, false, nil
	}

	value, err := p.parseConstant()
	if err != nil {
		return nil, false, err
	}
	p.pos = next + 1
	p.skipSpace()
	if p.eof() {
		return nil, false, syntaxError(p.seg, p.column(start), p.src[start:], "expected dice after leading constant")
	}
	return &Lead{Value: value, Op: Op(p.src[next])}, true, nil
}

func (p *parser) parseTailItem() (TailItem, error) {
	opPos := p.pos
	if !isOp(p.src[p.pos]) {
		return TailItem{}, syntaxError(p.seg, p.column(opPos), p.wordAt(opPos), "expected +, -, * or / before")
	}
	op := Op(p.src[p.pos])
	p.pos++
	p.skipSpace()
	if p.eof() {
		return TailItem{}, syntaxError(p.seg, p.column(opPos), string(op), "missing operand after operator")
	}

	if p.atDiceTerm() {
		term, err := p.parseTerm()
		if err != nil {
			return TailItem{}, err
		}
		return TailItem{Op: op, Dice: &term}, nil
	}

	value, err := p.parseConstant()
	if err != nil {
		return TailItem{}, err
	}
	if op == Divide && value == 0 {
		return TailItem{}, rangeError(p.seg, "divisor", "0", 1, MaxConstant)
	}
	p.skipSpace()
	if !p.eof() && !isOp(p.src[p.pos]) {
		return TailItem{}, syntaxError(p.seg, p.column(p.pos), p.wordAt(p.pos), "modifiers must follow a dice term")
	}
	return TailItem{Op: op, Constant: value}, nil
}

func (p *parser) parseConstant() (int, error) {
	start := p.pos
	digits := p.peekDigits()
	if digits == "" {
		return 0, syntaxError(p.seg, p.column(start), p.wordAt(start), "expected a number or dice")
	}
	p.pos += len(digits)
	value, err := strconv.Atoi(digits)
	if err != nil || value > MaxConstant {
		return 0, rangeError(p.seg, "constant", digits, 0, MaxConstant)
	}
	return value, nil
}

// parseTerm reads [C]dS followed by the term's modifiers.
func (p *parser) parseTerm() (Term, error) {
	start := p.pos
	countText := p.peekDigits()
	p.pos += len(countText)
	if p.eof() || p.src[p.pos] != 'd' {
		return Term{}, syntaxError(p.seg, p.column(start), p.wordAt(start), "expected a dice term like 2d6")
	}
	p.pos++

	term := Term{Count: 1}
	if countText != "" {
		n, err := strconv.Atoi(countText)
		switch {
		case err != nil || n > MaxDice:
			return Term{}, limitError(p.seg, "dice count", MaxDice)
		case n < 1:
			return Term{}, rangeError(p.seg, "dice count", countText, 1, MaxDice)
		}
		term.Count = n
	}

	switch {
	case p.consume("%"):
		term.Sides = Sides{Kind: Percentile, Faces: 100}
	case p.consume("f"):
		term.Sides = Sides{Kind: Fudge, Faces: 3}
	default:
		sidesText := p.peekDigits()
		if sidesText == "" {
			return Term{}, syntaxError(p.seg, p.column(start), p.wordAt(start), "expected the number of sides after d")
		}
		p.pos += len(sidesText)
		n, err := strconv.Atoi(sidesText)
		if err != nil || n < 1 || n > MaxSides {
			return Term{}, rangeError(p.seg, "sides", sidesText, 1, MaxSides)
		}
		term.Sides = Sides{Kind: Numeric, Faces: n}
	}

	if err := p.parseModifiers(&term); err != nil {
		return Term{}, err
	}
	return term, nil
}

// atDiceTerm reports whether the cursor is at [C]d.
func (p *parser) atDiceTerm() bool {
	i := p.pos + len(p.peekDigits())
	return i < len(p.src) && p.src[i] == 'd'
}

func (p *parser) eof() bool { return p.pos >= len(p.src) }

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func (p *parser) consume(prefix string) bool {
	if strings.HasPrefix(p.src[p.pos:], prefix) {
		p.pos += len(prefix)
		return true
	}
	return false
}

func (p *parser) peekDigits() string {
	end := p.pos
	for end < len(p.src) && p.src[end] >= '0' && p.src[end] <= '9' {
		end++
	}
	return p.src[p.pos:end]
}

// column converts a body offset to a 1-based column in the segment.
func (p *parser) column(pos int) int {
	return p.offset + pos + 1
}

// wordAt returns the run of non-space text starting at pos.
func (p *parser) wordAt(pos int) string {
	end := pos
	for end < len(p.src) && !isSpace(p.src[end]) {
		end++
	}
	return p.src[pos:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isOp(b byte) bool {
	return b == '+' || b == '-' || b == '*' || b == '/'
}

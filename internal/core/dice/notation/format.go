package notation

import (
	"strconv"
	"strings"
)

func (d Direction) prefix() string {
	if d == AtMost {
		return "l"
	}
	return ""
}

func (m Explode) String() string {
	tok := "e"
	if m.Indefinite {
		tok = "ie"
	}
	return tok + strconv.Itoa(m.Threshold)
}

func (m Reroll) String() string {
	tok := "r"
	if m.Direction == AtLeast {
		tok = "rg"
	}
	if m.Indefinite {
		tok = "i" + tok
	}
	return tok + strconv.Itoa(m.Threshold)
}

func (m Keep) String() string {
	switch m.Rank {
	case Lowest:
		return "kl" + strconv.Itoa(m.N)
	case Middle:
		return "km" + strconv.Itoa(m.N)
	default:
		return "k" + strconv.Itoa(m.N)
	}
}

func (m Drop) String() string { return "d" + strconv.Itoa(m.N) }

func (m Target) String() string {
	s := "t" + m.Direction.prefix() + strconv.Itoa(m.Threshold)
	if m.Double != 0 {
		s += " ds" + strconv.Itoa(m.Double)
	}
	return s
}

func (m Failure) String() string { return "f" + strconv.Itoa(m.Threshold) }
func (m Botch) String() string   { return "b" + strconv.Itoa(m.Threshold) }
func (Cancel) String() string    { return "c" }

func (m Variant) String() string {
	s := m.System.String()
	switch m.System {
	case Cypher, AlienStress:
		s += strconv.Itoa(m.Level)
	case WrathGlory:
		if m.Wrath > 1 {
			s += "w" + strconv.Itoa(m.Wrath)
		}
		if m.Difficulty > 0 {
			s += "dn" + strconv.Itoa(m.Difficulty)
		}
		if m.Total {
			s += "t"
		}
	case MarvelMultiverse:
		if m.Edges > 0 {
			s += "e" + strconv.Itoa(m.Edges)
		}
		if m.Troubles > 0 {
			s += "t" + strconv.Itoa(m.Troubles)
		}
	case Daggerheart:
		if m.Difficulty > 0 {
			s += "dn" + strconv.Itoa(m.Difficulty)
		}
	}
	return s
}

// String renders the term in canonical notation.
func (t Term) String() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(t.Count))
	b.WriteString("d")
	b.WriteString(t.Sides.String())
	for _, m := range t.Modifiers {
		b.WriteString(" ")
		b.WriteString(m.String())
	}
	return b.String()
}

// String renders the specification body in canonical notation, without its
// flags, label or comment.
func (s Spec) String() string {
	var parts []string
	if s.Lead != nil {
		parts = append(parts, strconv.Itoa(s.Lead.Value), string(s.Lead.Op))
	}
	parts = append(parts, s.Base.String())
	for _, item := range s.Tail {
		parts = append(parts, string(item.Op))
		if item.Dice != nil {
			parts = append(parts, item.Dice.String())
		} else {
			parts = append(parts, strconv.Itoa(item.Constant))
		}
	}
	return strings.Join(parts, " ")
}

package alias

import (
	"fmt"
	"strconv"
)

// Capture names double as the subject of range errors.
const (
	capCount      = "dice count"
	capSides      = "sides"
	capMod        = "modifier"
	capStress     = "stress level"
	capStep       = "step"
	capTarget     = "target"
	capDifficulty = "difficulty"
	capLevel      = "level"
	capWrath      = "wrath dice"
	capPips       = "pips"
	capTens       = "tens die"
	capOnes       = "ones die"
	capExpertise  = "expertise"
	capMode       = "mode"
	capKind       = "kind"
	capRoll       = "roll"
	capCancel     = "cancel"
	capEdges      = "edges"
	capTroubles   = "troubles"
	capCombat     = "combat dice"

	markEdges    = "edge marker"
	markTroubles = "trouble marker"
	markCombat   = "combat marker"
)

const (
	maxStress     = 10
	maxAlienPool  = 20
	maxSteps      = 50
	maxMarvel     = 10
	maxConanSkill = 5
	maxConanDice  = 100
)

var defaultTable = NewTable(defaultRules()...)

// DefaultTable returns the built-in table. It is shared and immutable.
func DefaultTable() *Table {
	return defaultTable
}

// defaultRules lists every built-in rule. Order matters: a rule must come
// before any more general rule that could also match its inputs.
func defaultRules() []Rule {
	return []Rule{
		newRule("percentile advantage", "Generic", "+d%",
			[]part{lit("+d%")}, fixed("2d10 kl1 * 10 + 1d10 - 10")),
		newRule("percentile disadvantage", "Generic", "-d%",
			[]part{lit("-d%")}, fixed("2d10 k1 * 10 + 1d10 - 10")),
		newRule("advantage", "Generic", "+d20",
			[]part{lit("+d"), num(capSides, 1, unbounded)},
			func(c Captures) (string, error) { return fmt.Sprintf("2d%d k1", c.Int(capSides)), nil }),
		newRule("disadvantage", "Generic", "-d20",
			[]part{lit("-d"), num(capSides, 1, unbounded)},
			func(c Captures) (string, error) { return fmt.Sprintf("2d%d kl1", c.Int(capSides)), nil }),

		newRule("dndstats", "D&D 5e", "dndstats",
			[]part{lit("dndstats")}, fixed("6 4d6 k3")),
		newRule("d20 check", "D&D 5e", "attack +5",
			[]part{oneOf(capRoll, "attack", "skill", "save"), opt(signed(capMod))},
			func(c Captures) (string, error) { return "1d20" + c.Signed(capMod), nil }),
		newRule("age", "AGE", "age",
			[]part{lit("age")}, fixed("2d6 + 1d6")),
		newRule("a5e", "Level Up A5E", "+a5e +5 ex1",
			[]part{
				opt(oneOf(capRoll, "+", "-")), lit("a5e"), opt(signed(capMod)),
				opt(ws1(), lit("ex"), oneOf(capExpertise, "100", "12", "10", "20", "1", "2", "3", "4", "6", "8")),
			},
			expandA5E),

		newRule("godbound dice", "Godbound", "gb 3d8",
			[]part{oneOf(capKind, "gbs", "gb"), ws1(), num(capCount, 1, unbounded), lit("d"), num(capSides, 1, unbounded), opt(signed(capMod))},
			func(c Captures) (string, error) {
				return fmt.Sprintf("%dd%d %s%s", c.Int(capCount), c.Int(capSides), c[capKind], c.Signed(capMod)), nil
			}),
		newRule("godbound", "Godbound", "gb+2",
			[]part{oneOf(capKind, "gbs", "gb"), opt(signed(capMod))},
			func(c Captures) (string, error) { return "1d20 " + c[capKind] + c.Signed(capMod), nil }),

		newRule("wrath & glory dice", "Wrath & Glory", "wng w2 dn3 4d6 !soak",
			[]part{
				lit("wng"),
				opt(ws1(), lit("w"), num(capWrath, 1, unbounded)),
				opt(ws1(), lit("dn"), num(capDifficulty, 1, unbounded)),
				ws1(), num(capCount, 1, unbounded), lit("d"), num(capSides, 1, unbounded),
				opt(ws(), lit("!"), ws(), oneOf(capMode, "soak", "exempt", "dmg")),
			},
			expandWrathGlory),
		newRule("wrath & glory", "Wrath & Glory", "wng",
			[]part{lit("wng")}, fixed("1d6 wng")),

		newRule("chronicles 8-again", "Chronicles of Darkness", "4cod8",
			[]part{num(capCount, 1, unbounded), lit("cod8"), opt(signed(capMod))},
			codExpansion("t8 ie8")),
		newRule("chronicles 9-again", "Chronicles of Darkness", "4cod9",
			[]part{num(capCount, 1, unbounded), lit("cod9"), opt(signed(capMod))},
			codExpansion("t8 ie9")),
		newRule("chronicles rote", "Chronicles of Darkness", "4codr",
			[]part{num(capCount, 1, unbounded), lit("codr"), opt(signed(capMod))},
			codExpansion("t8 ie10 r7")),
		newRule("chronicles", "Chronicles of Darkness", "4cod",
			[]part{num(capCount, 1, unbounded), lit("cod"), opt(signed(capMod))},
			codExpansion("t8 ie10")),
		newRule("world of darkness", "World of Darkness", "4wod8c",
			[]part{num(capCount, 1, unbounded), lit("wod"), num(capDifficulty, 2, 10), opt(oneOf(capCancel, "c")), opt(signed(capMod))},
			func(c Captures) (string, error) {
				out := fmt.Sprintf("%dd10 f1 ie10 t%d", c.Int(capCount), c.Int(capDifficulty))
				if c.Has(capCancel) {
					out += " c"
				}
				return out + c.Signed(capMod), nil
			}),

		newRule("daggerheart", "Daggerheart", "dheart dn15 +2",
			[]part{lit("dheart"), opt(ws1(), lit("dn"), num(capDifficulty, 1, unbounded)), opt(signed(capMod))},
			func(c Captures) (string, error) {
				out := "2d12 dheart"
				if c.Has(capDifficulty) {
					out += fmt.Sprintf("dn%d", c.Int(capDifficulty))
				}
				return out + c.Signed(capMod), nil
			}),
		newRule("dark heresy dice", "Dark Heresy", "dh 4d10",
			[]part{lit("dh"), ws1(), num(capCount, 1, unbounded), lit("d"), num(capSides, 1, unbounded)},
			func(c Captures) (string, error) {
				return fmt.Sprintf("%dd%d ie%d dh", c.Int(capCount), c.Int(capSides), c.Int(capSides)), nil
			}),
		newRule("dark heresy", "Dark Heresy", "dh",
			[]part{lit("dh")}, fixed("1d10 dh")),

		newRule("fudge", "Fate", "4df",
			[]part{num(capCount, 1, unbounded), lit("df")},
			func(c Captures) (string, error) { return fmt.Sprintf("%ddF", c.Int(capCount)), nil }),
		newRule("warhammer", "Warhammer", "3wh4+",
			[]part{num(capCount, 1, unbounded), lit("wh"), num(capTarget, 2, 6), lit("+")},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 t%d", c.Int(capCount), c.Int(capTarget)), nil }),
		newRule("double digit", "Generic", "dd34",
			[]part{lit("dd"), digit(capTens, 1, 9), digit(capOnes, 1, 9)},
			func(c Captures) (string, error) {
				return fmt.Sprintf("1d%d * 10 + 1d%d", c.Int(capTens), c.Int(capOnes)), nil
			}),
		newRule("shadowrun", "Shadowrun", "sr6",
			[]part{lit("sr"), num(capCount, 1, unbounded)},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 t5 sr", c.Int(capCount)), nil }),
		newRule("storypath", "Storypath", "sp4t7",
			[]part{lit("sp"), num(capCount, 1, unbounded), opt(lit("t"), num(capTarget, 1, 10))},
			func(c Captures) (string, error) {
				target := 8
				if c.Has(capTarget) {
					target = c.Int(capTarget)
				}
				return fmt.Sprintf("%dd10 t%d ie10", c.Int(capCount), target), nil
			}),
		newRule("year zero", "Year Zero", "6yz",
			[]part{num(capCount, 1, unbounded), lit("yz")},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 t6", c.Int(capCount)), nil }),
		newRule("sunsails", "Sunsails: New Millennium", "snm5",
			[]part{lit("snm"), num(capCount, 1, unbounded)},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 ie6 t4", c.Int(capCount)), nil }),
		newRule("d6 system", "D6 System", "d6s4 +2",
			[]part{lit("d6s"), num(capCount, 1, unbounded), opt(ws(), lit("+"), ws(), num(capPips, 1, unbounded))},
			func(c Captures) (string, error) {
				out := fmt.Sprintf("%dd6 + 1d6 ie", c.Int(capCount))
				if c.Has(capPips) {
					out += fmt.Sprintf(" + %d", c.Int(capPips))
				}
				return out, nil
			}),

		newRule("d6 legends", "D6 Legends", "8d6l",
			[]part{num(capCount, 1, unbounded), lit("d6l")},
			func(c Captures) (string, error) {
				// The last die of the pool is the wild die.
				if n := c.Int(capCount); n > 1 {
					return fmt.Sprintf("%dd6 t4 + 1d6 t4 f1 ie", n-1), nil
				}
				return "1d6 t4 f1 ie", nil
			}),

		newRule("hero killing half die", "Hero System", "2hsk1",
			[]part{num(capCount, 1, unbounded), lit("hsk1")},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 hsk + 1d3", c.Int(capCount)), nil }),
		newRule("hero system", "Hero System", "2.5hsk",
			[]part{opt(decimal(capCount)), lit("hs"), oneOf(capKind, "n", "k", "h")},
			expandHero),

		newRule("exalted", "Exalted", "ex5t8",
			[]part{lit("ex"), num(capCount, 1, unbounded), opt(lit("t"), num(capTarget, 1, 10))},
			func(c Captures) (string, error) {
				target := 7
				if c.Has(capTarget) {
					target = c.Int(capTarget)
				}
				return fmt.Sprintf("%dd10 t%d ds10", c.Int(capCount), target), nil
			}),
		newRule("earthdawn 4e", "Earthdawn 4e", "ed4e15",
			[]part{lit("ed4e"), num(capStep, 1, maxSteps)},
			func(c Captures) (string, error) { return earthdawnSteps[c.Int(capStep)], nil }),
		newRule("earthdawn", "Earthdawn", "ed15",
			[]part{lit("ed"), num(capStep, 1, maxSteps)},
			func(c Captures) (string, error) { return earthdawnSteps[c.Int(capStep)], nil }),

		newRule("savage worlds", "Savage Worlds", "sw8",
			[]part{lit("sw"), oneOf(capSides, "10", "12", "4", "6", "8")},
			func(c Captures) (string, error) {
				sides := c.Int(capSides)
				return fmt.Sprintf("1d%d ie%d sw", sides, sides), nil
			}),
		newRule("cyberpunk red", "Cyberpunk RED", "cpr +5",
			[]part{lit("cpr"), opt(signed(capMod))},
			func(c Captures) (string, error) { return "1d10 cpr" + c.Signed(capMod), nil }),
		newRule("witcher", "The Witcher", "wit +3",
			[]part{lit("wit"), opt(signed(capMod))},
			func(c Captures) (string, error) { return "1d10 wit" + c.Signed(capMod), nil }),
		newRule("cypher", "Cypher System", "cs 3",
			[]part{lit("cs"), ws(), num(capLevel, 1, 10)},
			func(c Captures) (string, error) { return fmt.Sprintf("1d20 cs%d", c.Int(capLevel)), nil }),

		newRule("alien push", "Alien RPG", "alien4s2p",
			[]part{lit("alien"), num(capCount, 1, maxAlienPool), lit("s"), num(capStress, 1, maxStress), lit("p")},
			func(c Captures) (string, error) {
				// Pushing raises stress by one before the reroll.
				stress := c.Int(capStress) + 1
				if stress > maxStress {
					return "", rangeError("alien push", capStress, strconv.Itoa(stress), 1, maxStress)
				}
				return fmt.Sprintf("%dd6 alien + %dd6 aliens%d", c.Int(capCount), stress, stress), nil
			}),
		newRule("alien stress", "Alien RPG", "alien4s2",
			[]part{lit("alien"), num(capCount, 1, maxAlienPool), lit("s"), num(capStress, 1, maxStress)},
			func(c Captures) (string, error) {
				stress := c.Int(capStress)
				return fmt.Sprintf("%dd6 alien + %dd6 aliens%d", c.Int(capCount), stress, stress), nil
			}),
		newRule("alien", "Alien RPG", "alien4",
			[]part{lit("alien"), num(capCount, 1, maxAlienPool)},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 alien", c.Int(capCount)), nil }),
		newRule("silhouette", "Silhouette", "sil3",
			[]part{lit("sil"), num(capCount, 1, 10)},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 sil", c.Int(capCount)), nil }),

		newRule("marvel multiverse", "Marvel Multiverse", "mm 2e",
			[]part{
				lit("mm"),
				opt(ws1(), opt(num(capEdges, 1, maxMarvel)), oneOf(markEdges, "e")),
				opt(ws1(), opt(num(capTroubles, 1, maxMarvel)), oneOf(markTroubles, "t")),
			},
			expandMarvel),
		newRule("brave new world", "Brave New World", "bnw3",
			[]part{lit("bnw"), ws(), num(capCount, 1, unbounded)},
			func(c Captures) (string, error) { return fmt.Sprintf("%dd6 bnw", c.Int(capCount)), nil }),
		newRule("conan skill", "Conan", "conan3 cd2",
			[]part{lit("conan"), opt(num(capCount, 2, maxConanSkill)), opt(ws(), oneOf(markCombat, "cd"), opt(num(capCombat, 1, maxConanDice)))},
			func(c Captures) (string, error) {
				count := 2
				if c.Has(capCount) {
					count = c.Int(capCount)
				}
				out := fmt.Sprintf("%dd20 conan", count)
				if combat := marked(c, markCombat, capCombat); combat > 0 {
					out += fmt.Sprintf(" + %dd6 cd", combat)
				}
				return out, nil
			}),
		newRule("conan combat dice", "Conan", "cd4",
			[]part{lit("cd"), opt(num(capCombat, 1, maxConanDice))},
			func(c Captures) (string, error) {
				count := 1
				if c.Has(capCombat) {
					count = c.Int(capCombat)
				}
				return fmt.Sprintf("%dd6 cd", count), nil
			}),
	}
}

func codExpansion(modifiers string) func(Captures) (string, error) {
	return func(c Captures) (string, error) {
		return fmt.Sprintf("%dd10 %s%s", c.Int(capCount), modifiers, c.Signed(capMod)), nil
	}
}

// expandMarvel nets edges against troubles; a bare "e" or "t" counts one.
func expandMarvel(c Captures) (string, error) {
	edges := marked(c, markEdges, capEdges)
	troubles := marked(c, markTroubles, capTroubles)
	switch net := edges - troubles; {
	case net > 0:
		return fmt.Sprintf("3d6 mme%d", net), nil
	case net < 0:
		return fmt.Sprintf("3d6 mmt%d", -net), nil
	}
	return "3d6 mm", nil
}

func marked(c Captures, mark, count string) int {
	switch {
	case !c.Has(mark):
		return 0
	case c.Has(count):
		return c.Int(count)
	}
	return 1
}

func expandA5E(c Captures) (string, error) {
	out := "1d20"
	switch c[capRoll] {
	case "+":
		out = "2d20 k1"
	case "-":
		out = "2d20 kl1"
	}
	out += c.Signed(capMod)
	if c.Has(capExpertise) {
		sides := c.Int(capExpertise)
		switch sides {
		case 1:
			sides = 4
		case 2:
			sides = 6
		case 3:
			sides = 8
		}
		out += fmt.Sprintf(" + 1d%d", sides)
	}
	return out, nil
}

func expandWrathGlory(c Captures) (string, error) {
	out := fmt.Sprintf("%dd%d wng", c.Int(capCount), c.Int(capSides))
	if c.Has(capWrath) {
		out += fmt.Sprintf("w%d", c.Int(capWrath))
	}
	if c.Has(capDifficulty) {
		out += fmt.Sprintf("dn%d", c.Int(capDifficulty))
	}
	if c.Has(capMode) {
		out += "t"
	}
	return out, nil
}

func expandHero(c Captures) (string, error) {
	kind := c[capKind]
	if kind == "h" {
		return "3d6 hsh", nil
	}
	token := "hs" + kind
	if !c.Has(capCount) {
		return "1d6 " + token, nil
	}

	raw := c[capCount]
	wholeText, fracText, fractional := cutDecimal(raw)
	whole, _ := strconv.Atoi(wholeText)
	half := fractional && !isZeros(fracText)
	switch {
	case whole == 0 && half:
		return "1d3 " + token, nil
	case whole == 0:
		return "", rangeError("hero system", capCount, raw, 1, unbounded)
	case half:
		return fmt.Sprintf("%dd6 %s + 1d3", whole, token), nil
	default:
		return fmt.Sprintf("%dd6 %s", whole, token), nil
	}
}

func cutDecimal(s string) (whole, frac string, ok bool) {
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			return s[:i], s[i+1:], true
		}
	}
	return s, "", false
}

func isZeros(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] != '0' {
			return false
		}
	}
	return true
}

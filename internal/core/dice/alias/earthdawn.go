package alias

// earthdawnSteps maps Earthdawn action steps 1-50 to their dice.
var earthdawnSteps = [...]string{
	1:  "1d4 ie - 2",
	2:  "1d4 ie - 1",
	3:  "1d4 ie",
	4:  "1d6 ie",
	5:  "1d8 ie",
	6:  "1d10 ie",
	7:  "1d12 ie",
	8:  "2d6 ie",
	9:  "1d8 ie + 1d6 ie",
	10: "2d8 ie",
	11: "1d10 ie + 1d8 ie",
	12: "2d10 ie",
	13: "1d12 ie + 1d10 ie",
	14: "2d12 ie",
	15: "1d12 ie + 2d6 ie",
	16: "1d12 ie + 1d8 ie + 1d6 ie",
	17: "1d12 ie + 2d8 ie",
	18: "1d12 ie + 1d10 ie + 1d8 ie",
	19: "1d20 ie + 2d6 ie",
	20: "1d20 ie + 1d8 ie + 1d6 ie",
	21: "1d20 ie + 1d10 ie + 1d6 ie",
	22: "1d20 ie + 1d10 ie + 1d8 ie",
	23: "1d20 ie + 2d10 ie",
	24: "1d20 ie + 1d12 ie + 1d10 ie",
	25: "1d20 ie + 1d12 ie + 1d8 ie + 1d4 ie",
	26: "1d20 ie + 1d12 ie + 1d8 ie + 1d6 ie",
	27: "1d20 ie + 1d12 ie + 2d8 ie",
	28: "1d20 ie + 2d10 ie + 1d8 ie",
	29: "1d20 ie + 1d12 ie + 1d10 ie + 1d8 ie",
	30: "1d20 ie + 1d12 ie + 1d10 ie + 1d8 ie",
	31: "1d20 ie + 1d10 ie + 2d8 ie + 1d6 ie",
	32: "1d20 ie + 2d10 ie + 1d8 ie + 1d6 ie",
	33: "1d20 ie + 2d10 ie + 2d8 ie",
	34: "1d20 ie + 3d10 ie + 1d8 ie",
	35: "1d20 ie + 1d12 ie + 2d10 ie + 1d8 ie",
	36: "2d20 ie + 1d10 ie + 1d8 ie + 1d4 ie",
	37: "2d20 ie + 1d10 ie + 1d8 ie + 1d6 ie",
	38: "2d20 ie + 1d10 ie + 2d8 ie",
	39: "2d20 ie + 2d10 ie + 1d8 ie",
	40: "2d20 ie + 1d12 ie + 1d10 ie + 1d8 ie",
	41: "2d20 ie + 1d10 ie + 1d8 ie + 2d6 ie",
	42: "2d20 ie + 1d10 ie + 2d8 ie + 1d6 ie",
	43: "2d20 ie + 2d10 ie + 1d8 ie + 1d6 ie",
	44: "2d20 ie + 3d10 ie + 1d8 ie",
	45: "2d20 ie + 3d10 ie + 1d8 ie",
	46: "2d20 ie + 1d12 ie + 2d10 ie + 1d8 ie",
	47: "2d20 ie + 2d10 ie + 2d8 ie + 1d4 ie",
	48: "2d20 ie + 2d10 ie + 2d8 ie + 1d6 ie",
	49: "2d20 ie + 2d10 ie + 3d8 ie",
	50: "2d20 ie + 3d10 ie + 2d8 ie",
}

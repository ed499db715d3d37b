package xor

// english holds relative frequencies of lowercase letters and space in English text.
//
//nolint:gochecknoglobals
var english = [256]float64{
	' ': 0.1918182,
	'a': 0.0651738, 'b': 0.0124248, 'c': 0.0217339, 'd': 0.0349835,
	'e': 0.1041442, 'f': 0.0197881, 'g': 0.0158610, 'h': 0.0492888,
	'i': 0.0558094, 'j': 0.0009033, 'k': 0.0050529, 'l': 0.0331490,
	'm': 0.0202124, 'n': 0.0564513, 'o': 0.0596302, 'p': 0.0137645,
	'q': 0.0008606, 'r': 0.0497563, 's': 0.0515760, 't': 0.0729357,
	'u': 0.0225134, 'v': 0.0082903, 'w': 0.0171272, 'x': 0.0013692,
	'y': 0.0145984, 'z': 0.0007836,
}

const (
	punctuationWeight = 0.002
	upperPenalty      = 0.6
	controlPenalty    = -0.05
	binaryPenalty     = -0.1
)

// ByteScore returns the weight of a single plaintext byte.
func ByteScore(b byte) float64 {
	switch {
	case b >= 'a' && b <= 'z', b == ' ':
		return english[b]
	case b >= 'A' && b <= 'Z':
		return english[b+('a'-'A')] * upperPenalty
	case b == '\n', b == '\r', b == '\t':
		return 0
	case b >= '0' && b <= '9', b == '\'', b == ',', b == '.', b == '!', b == '?', b == '-', b == '"', b == ';', b == ':':
		return punctuationWeight
	case b < 0x20 || b == 0x7f:
		return controlPenalty
	case b > 0x7f:
		return binaryPenalty
	default:
		return 0
	}
}

// Score rates how much text looks like English. Higher is better.
func Score(text []byte) float64 {
	var score float64
	for _, b := range text {
		score += ByteScore(b)
	}

	return score
}

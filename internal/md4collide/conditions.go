package md4collide

// kind is the constraint a sufficient condition puts on a single bit.
type kind int

const (
	zero kind = iota
	one
	equal // equal to the same bit of the previous chaining variable
)

type condition struct {
	bit  uint
	kind kind
}

// round1 lists the first-round sufficient conditions on a1, d1, c1, b1, ..., b4.
//
//nolint:gochecknoglobals
var round1 = [16][]condition{
	{{6, equal}},
	{{6, zero}, {7, equal}, {10, equal}},
	{{6, one}, {7, one}, {10, zero}, {25, equal}},
	{{6, one}, {7, zero}, {10, zero}, {25, zero}},
	{{7, one}, {10, one}, {25, zero}, {13, equal}},
	{{13, zero}, {18, equal}, {19, equal}, {20, equal}, {21, equal}, {25, one}},
	{{12, equal}, {13, zero}, {14, equal}, {18, zero}, {19, zero}, {20, one}, {21, zero}},
	{{12, one}, {13, one}, {14, zero}, {16, equal}, {18, zero}, {19, zero}, {20, zero}, {21, zero}},
	{{12, one}, {13, one}, {14, one}, {16, zero}, {18, zero}, {19, zero}, {20, zero}, {21, one}, {22, equal}, {25, equal}},
	{{12, one}, {13, one}, {14, one}, {16, zero}, {19, zero}, {20, one}, {21, one}, {22, zero}, {25, one}, {29, equal}},
	{{16, one}, {19, zero}, {20, zero}, {21, zero}, {22, zero}, {25, zero}, {29, one}, {31, equal}},
	{{19, zero}, {20, one}, {21, one}, {22, equal}, {25, one}, {29, zero}, {31, zero}},
	{{22, zero}, {25, zero}, {26, equal}, {28, equal}, {29, one}, {31, zero}},
	{{22, zero}, {25, zero}, {26, one}, {28, one}, {29, zero}, {31, one}},
	{{18, equal}, {22, one}, {25, one}, {26, zero}, {28, zero}, {29, zero}},
	{{18, zero}, {25, one}, {26, one}, {28, one}, {29, zero}},
}

func setBit(v uint32, bit uint, on bool) uint32 {
	if on {
		return v | 1<<bit
	}

	return v &^ (1 << bit)
}

func bitOf(v uint32, bit uint) bool {
	return v>>bit&1 == 1
}

func (c condition) want(prev uint32) bool {
	switch c.kind {
	case zero:
		return false
	case one:
		return true
	default:
		return bitOf(prev, c.bit)
	}
}

// enforce rewrites v so that every condition holds.
func enforce(v, prev uint32, conds []condition) uint32 {
	for _, c := range conds {
		v = setBit(v, c.bit, c.want(prev))
	}

	return v
}

// holds reports whether v satisfies every condition.
func holds(v, prev uint32, conds []condition) bool {
	for _, c := range conds {
		if bitOf(v, c.bit) != c.want(prev) {
			return false
		}
	}

	return true
}

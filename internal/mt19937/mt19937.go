// Package mt19937 implements the 32-bit Mersenne Twister, its state
// recovery, and the weak stream cipher built on top of it.
package mt19937

const (
	n         = 624
	m         = 397
	matrixA   = 0x9908b0df
	upperMask = 0x80000000
	lowerMask = 0x7fffffff
	initMult  = 1812433253
	temperB   = 0x9d2c5680
	temperC   = 0xefc60000
	shiftU    = 11
	shiftS    = 7
	shiftT    = 15
	shiftL    = 18
	initShift = 30
)

const (
	// StateSize is the number of outputs needed to clone a generator.
	StateSize = n
	// DefaultSeed is the reference seed of the original C implementation.
	DefaultSeed = 5489
)

// MT is a Mersenne Twister generator. It is not safe for concurrent use.
type MT struct {
	state [n]uint32
	index int
}

// New seeds a generator.
func New(seed uint32) *MT {
	mt := &MT{index: n}

	mt.state[0] = seed
	for i := 1; i < n; i++ {
		prev := mt.state[i-1]
		mt.state[i] = initMult*(prev^(prev>>initShift)) + uint32(i)
	}

	return mt
}

// Clone rebuilds a generator from StateSize consecutive outputs. The clone
// produces the same outputs as the original from that point on.
func Clone(outputs [StateSize]uint32) *MT {
	mt := &MT{index: n}
	for i, y := range outputs {
		mt.state[i] = Untemper(y)
	}

	return mt
}

// Uint32 returns the next output.
func (mt *MT) Uint32() uint32 {
	if mt.index >= n {
		mt.twist()
	}

	y := mt.state[mt.index]
	mt.index++

	return Temper(y)
}

func (mt *MT) twist() {
	for i := range n {
		y := (mt.state[i] & upperMask) | (mt.state[(i+1)%n] & lowerMask)

		next := mt.state[(i+m)%n] ^ (y >> 1)
		if y&1 == 1 {
			next ^= matrixA
		}

		mt.state[i] = next
	}

	mt.index = 0
}

// Temper applies the output transform to a raw state word.
func Temper(y uint32) uint32 {
	y ^= y >> shiftU
	y ^= (y << shiftS) & temperB
	y ^= (y << shiftT) & temperC
	y ^= y >> shiftL

	return y
}

// Untemper inverts Temper.
func Untemper(y uint32) uint32 {
	y = undoRight(y, shiftL)
	y = undoLeft(y, shiftT, temperC)
	y = undoLeft(y, shiftS, temperB)
	y = undoRight(y, shiftU)

	return y
}

// undoRight inverts y ^= y >> shift by recovering shift bits per step from the top.
func undoRight(y uint32, shift uint) uint32 {
	x := y
	for range 32 / shift {
		x = y ^ (x >> shift)
	}

	return x
}

// undoLeft inverts y ^= (y << shift) & mask from the bottom.
func undoLeft(y uint32, shift uint, mask uint32) uint32 {
	x := y
	for range 32 / shift {
		x = y ^ ((x << shift) & mask)
	}

	return x
}

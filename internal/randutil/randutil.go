// Package randutil wraps crypto/rand with the small helpers the oracles need.
//
// The helpers panic if the system randomness source fails, since every
// caller would otherwise have to handle an error that cannot happen in practice.
package randutil

import (
	"crypto/rand"
	"encoding/binary"
	"fmt"
	"math/big"
)

// Bytes returns n random bytes.
func Bytes(n int) []byte {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		panic(fmt.Sprintf("randutil: reading random bytes: %v", err))
	}

	return buf
}

// Intn returns a uniform random integer in [0, n).
func Intn(n int) int {
	if n <= 0 {
		panic("randutil: Intn with non-positive bound")
	}

	v, err := rand.Int(rand.Reader, big.NewInt(int64(n)))
	if err != nil {
		panic(fmt.Sprintf("randutil: drawing integer: %v", err))
	}

	return int(v.Int64())
}

// Between returns a uniform random integer in [lo, hi].
func Between(lo, hi int) int {
	return lo + Intn(hi-lo+1)
}

// Bool returns a fair coin toss.
func Bool() bool {
	return Bytes(1)[0]&1 == 1
}

// Uint32 returns a random 32-bit value.
func Uint32() uint32 {
	return binary.LittleEndian.Uint32(Bytes(4))
}

// BigBelow returns a uniform random integer in [0, n).
func BigBelow(n *big.Int) *big.Int {
	v, err := rand.Int(rand.Reader, n)
	if err != nil {
		panic(fmt.Sprintf("randutil: drawing big integer: %v", err))
	}

	return v
}

// BigBetween returns a uniform random integer in [lo, hi).
func BigBetween(lo, hi *big.Int) *big.Int {
	span := new(big.Int).Sub(hi, lo)

	return span.Add(BigBelow(span), lo)
}

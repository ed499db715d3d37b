// Package dlog solves discrete logarithms in confined ranges and subgroups:
// Pohlig-Hellman style subgroup confinement, Pollard's kangaroo and
// baby-step giant-step.
package dlog

import (
	"math/big"
)

//nolint:gochecknoglobals
var one = big.NewInt(1)

// Group is the part of a cyclic group the generic solvers need.
type Group[E any] interface {
	// Op combines two elements.
	Op(a, b E) E
	// Exp applies Op k times to e.
	Exp(e E, k *big.Int) E
	// Key returns a canonical encoding used for equality, hashing and jumps.
	Key(e E) string
}

// ModP is the multiplicative group of integers modulo P.
type ModP struct {
	P *big.Int
}

// Op returns a*b mod P.
func (g ModP) Op(a, b *big.Int) *big.Int {
	out := new(big.Int).Mul(a, b)

	return out.Mod(out, g.P)
}

// Exp returns e^k mod P.
func (g ModP) Exp(e, k *big.Int) *big.Int {
	return new(big.Int).Exp(e, k, g.P)
}

// Key returns the element's big-endian bytes.
func (g ModP) Key(e *big.Int) string {
	return string(e.Bytes())
}

// jumpIndex maps an element key onto [0, k).
func jumpIndex(key string, salt, k int) int {
	var h uint64
	for i := max(0, len(key)-8); i < len(key); i++ {
		h = h<<8 | uint64(key[i])
	}

	return int((h + uint64(salt)) % uint64(k))
}

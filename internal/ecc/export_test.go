package ecc

import "math/big"

// Multiples returns u(kP) for k = 1..n.
func Multiples(m Montgomery, u *big.Int, n int) []*big.Int {
	it := m.multiples(u)
	out := make([]*big.Int, 0, n)

	for range n {
		_, v := it.next()
		out = append(out, v)
	}

	return out
}

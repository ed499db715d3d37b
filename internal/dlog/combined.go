package dlog

import (
	"context"
	"fmt"
	"math/big"
)

// Reduce turns y = g^x with x = n mod r into the walk y' = g'^m over
// g' = g^r and y' = y * g^-n, where x = n + m*r and g has order q.
func Reduce(g, y, p, q, n, r *big.Int) (*big.Int, *big.Int) {
	gPrime := new(big.Int).Exp(g, r, p)

	inv := new(big.Int).Sub(q, new(big.Int).Mod(n, q))
	yPrime := new(big.Int).Exp(g, inv, p)
	yPrime.Mul(yPrime, y).Mod(yPrime, p)

	return gPrime, yPrime
}

// Combined recovers the residue of the peer's key modulo every small
// subgroup below limit and finds the rest with the kangaroo in [0, (q-1)/r].
func Combined(ctx context.Context, respond Responder, p, g, q, y *big.Int, limit int64) (*big.Int, error) {
	residues, err := RecoverResidues(ctx, respond, p, confiningOrders(p, q, limit))
	if err != nil {
		return nil, err
	}

	if len(residues) == 0 {
		return Kangaroo(ctx, g, y, p, new(big.Int), new(big.Int).Sub(q, one))
	}

	n, r, err := Combine(residues)
	if err != nil {
		return nil, fmt.Errorf("combining residues: %w", err)
	}

	if r.Cmp(q) >= 0 {
		return n.Mod(n, q), nil
	}

	gPrime, yPrime := Reduce(g, y, p, q, n, r)
	upper := new(big.Int).Sub(q, one)
	upper.Div(upper, r)

	m, err := Kangaroo(ctx, gPrime, yPrime, p, new(big.Int), upper)
	if err != nil {
		return nil, fmt.Errorf("walking the remaining %d bits: %w", upper.BitLen(), err)
	}

	return m.Mul(m, r).Add(m, n), nil
}

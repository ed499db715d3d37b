package dlog

import (
	"fmt"
	"math/big"
)

// BSGS returns x in [0, n) with g^x = y mod p.
func BSGS(g, y, p, n *big.Int) (*big.Int, error) {
	return BSGSIn(Group[*big.Int](ModP{P: p}), g, y, n)
}

// BSGSIn runs baby-step giant-step in grp for an index in [0, n).
// Baby steps store y*g^j, giant steps walk g^(i*m), and a match gives x = i*m - j.
func BSGSIn[E any](grp Group[E], g, y E, n *big.Int) (*big.Int, error) {
	if !n.IsInt64() || n.Sign() <= 0 {
		return nil, fmt.Errorf("%w: range %v", ErrEmptyRange, n)
	}

	if grp.Key(y) == grp.Key(grp.Exp(g, new(big.Int))) {
		return new(big.Int), nil
	}

	m := new(big.Int).Sqrt(n)
	m.Add(m, one)

	size := m.Int64()
	table := make(map[string]int64, size)

	cur := y
	for j := range size {
		table[grp.Key(cur)] = j
		cur = grp.Op(cur, g)
	}

	giant := grp.Exp(g, m)
	cur = giant

	for i := int64(1); i <= size+1; i++ {
		if j, ok := table[grp.Key(cur)]; ok {
			if x := big.NewInt(i*size - j); x.Cmp(n) < 0 {
				return x, nil
			}
		}

		cur = grp.Op(cur, giant)
	}

	return nil, fmt.Errorf("%w below %v", ErrNotFound, n)
}

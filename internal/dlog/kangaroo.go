package dlog

import (
	"context"
	"fmt"
	"math/big"
)

const kangarooAttempts = 8

// Kangaroo returns x in [a, b] with g^x = y mod p.
func Kangaroo(ctx context.Context, g, y, p, a, b *big.Int) (*big.Int, error) {
	return KangarooIn(ctx, Group[*big.Int](ModP{P: p}), g, y, a, b)
}

// KangarooIn runs Pollard's kangaroo in grp for an index in [a, b].
func KangarooIn[E any](ctx context.Context, grp Group[E], g, y E, a, b *big.Int) (*big.Int, error) {
	_, x, err := KangarooAnyIn(ctx, grp, g, []E{y}, a, b)

	return x, err
}

// KangarooAnyIn looks for the index in [a, b] of any of ys. All wild
// kangaroos share one tame trap, and a failed round is retried with a
// different jump function. It returns which element was solved.
func KangarooAnyIn[E any](ctx context.Context, grp Group[E], g E, ys []E, a, b *big.Int) (int, *big.Int, error) {
	width := new(big.Int).Sub(b, a)
	if width.Sign() < 0 {
		return 0, nil, ErrEmptyRange
	}

	// k is chosen so the mean jump is about half the square root of the width.
	target := new(big.Int).Sqrt(width)
	target.Rsh(target, 1)

	k := 1
	for mean(k).Cmp(target) < 0 {
		k++
	}

	w := walker[E]{grp: grp, jumps: make([]*big.Int, k), steps: make([]E, k)}

	for i := range k {
		w.jumps[i] = new(big.Int).Lsh(big.NewInt(1), uint(i))
		w.steps[i] = grp.Exp(g, w.jumps[i])
	}

	n := new(big.Int).Lsh(mean(k), 2)

	for salt := range kangarooAttempts {
		w.salt = salt

		trap, tameDist := w.tame(grp.Exp(g, b), n)
		limit := new(big.Int).Add(width, tameDist)

		for i, y := range ys {
			wildDist, err := w.wild(ctx, y, trap, limit)
			if err != nil {
				return 0, nil, err
			}

			if wildDist != nil {
				x := new(big.Int).Add(b, tameDist)

				return i, x.Sub(x, wildDist), nil
			}
		}
	}

	return 0, nil, fmt.Errorf("%w in [%v, %v]", ErrNotFound, a, b)
}

func mean(k int) *big.Int {
	m := new(big.Int).Lsh(big.NewInt(1), uint(k))
	m.Sub(m, big.NewInt(1))

	return m.Div(m, big.NewInt(int64(k)))
}

type walker[E any] struct {
	grp   Group[E]
	jumps []*big.Int
	steps []E
	salt  int
}

// tame walks n jumps from start and returns the trap key and the distance covered.
func (w walker[E]) tame(start E, n *big.Int) (string, *big.Int) {
	dist := new(big.Int)
	cur := start

	for i := new(big.Int); i.Cmp(n) < 0; i.Add(i, one) {
		j := jumpIndex(w.grp.Key(cur), w.salt, len(w.jumps))
		dist.Add(dist, w.jumps[j])
		cur = w.grp.Op(cur, w.steps[j])
	}

	return w.grp.Key(cur), dist
}

// wild walks from y until it lands in the trap or passes limit.
// A nil distance means the kangaroo escaped.
func (w walker[E]) wild(ctx context.Context, y E, trap string, limit *big.Int) (*big.Int, error) {
	dist := new(big.Int)
	cur := y

	for count := 0; dist.Cmp(limit) <= 0; count++ {
		if count%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("kangaroo walk: %w", err)
			}
		}

		key := w.grp.Key(cur)
		if key == trap {
			return dist, nil
		}

		j := jumpIndex(key, w.salt, len(w.jumps))
		dist.Add(dist, w.jumps[j])
		cur = w.grp.Op(cur, w.steps[j])
	}

	return nil, nil //nolint:nilnil // escaped without an error
}

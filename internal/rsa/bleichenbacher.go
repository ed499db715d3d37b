package rsa

import (
	"context"
	"fmt"
	"math/big"
	"slices"

	"github.com/idelchi/cryptopals/internal/numtheory"
)

type interval struct {
	lo, hi *big.Int
}

// Bleichenbacher recovers the plaintext of a PKCS#1 v1.5 conforming
// ciphertext c with a padding oracle, following Bleichenbacher's 1998 attack.
func Bleichenbacher(ctx context.Context, pub *PublicKey, c *big.Int, oracle Oracle) (*big.Int, error) {
	n, e := pub.N, pub.E
	k := pub.Size()

	one := big.NewInt(1)
	two := big.NewInt(2)
	three := big.NewInt(3)

	b := new(big.Int).Lsh(one, uint(8*(k-2)))
	b2 := new(big.Int).Mul(two, b)
	b3 := new(big.Int).Mul(three, b)
	b3m1 := new(big.Int).Sub(b3, one)

	queries := 0
	conforms := func(s *big.Int) (bool, error) {
		if queries%4096 == 0 {
			if err := ctx.Err(); err != nil {
				return false, fmt.Errorf("bleichenbacher: %w", err)
			}
		}
		queries++

		blinded := new(big.Int).Exp(s, e, n)
		blinded.Mul(blinded, c).Mod(blinded, n)

		return oracle(blinded), nil
	}

	// c is assumed to be conforming already, so s0 = 1.
	if !oracle(c) {
		return nil, fmt.Errorf("%w: ciphertext is not conforming", ErrInvalidPadding)
	}

	m := []interval{{lo: new(big.Int).Set(b2), hi: new(big.Int).Set(b3m1)}}
	s := new(big.Int)

	for i := 1; ; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("bleichenbacher: %w", err)
		}

		var err error

		switch {
		case i == 1:
			// Step 2.a: smallest s >= n / 3B that conforms.
			s, err = searchFrom(numtheory.CeilDiv(n, b3), conforms)
		case len(m) > 1:
			// Step 2.b: linear search from the previous s.
			s, err = searchFrom(new(big.Int).Add(s, one), conforms)
		default:
			// Step 2.c: search r and s in the shrinking single interval.
			s, err = searchSingle(n, s, m[0], b2, b3, conforms)
		}

		if err != nil {
			return nil, err
		}

		m = narrow(n, s, m, b2, b3m1)
		if len(m) == 0 {
			return nil, ErrAttackFailed
		}

		if len(m) == 1 && m[0].lo.Cmp(m[0].hi) == 0 {
			return m[0].lo, nil
		}
	}
}

// searchFrom returns the first s >= start that conforms.
func searchFrom(start *big.Int, conforms func(*big.Int) (bool, error)) (*big.Int, error) {
	for s := start; ; s.Add(s, big.NewInt(1)) {
		ok, err := conforms(s)
		if err != nil {
			return nil, err
		}

		if ok {
			return s, nil
		}
	}
}

func searchSingle(n, prev *big.Int, iv interval, b2, b3 *big.Int, conforms func(*big.Int) (bool, error)) (*big.Int, error) {
	// r >= 2 (b s - 2B) / n
	r := new(big.Int).Mul(iv.hi, prev)
	r.Sub(r, b2)
	r.Lsh(r, 1)
	r = numtheory.CeilDiv(r, n)

	for ; ; r.Add(r, big.NewInt(1)) {
		rn := new(big.Int).Mul(r, n)

		sLo := numtheory.CeilDiv(new(big.Int).Add(b2, rn), iv.hi)
		sHi := numtheory.CeilDiv(new(big.Int).Add(b3, rn), iv.lo)

		for s := sLo; s.Cmp(sHi) < 0; s.Add(s, big.NewInt(1)) {
			ok, err := conforms(s)
			if err != nil {
				return nil, err
			}

			if ok {
				return s, nil
			}
		}
	}
}

// narrow is step 3: intersect every interval with the ranges consistent with s.
func narrow(n, s *big.Int, m []interval, b2, b3m1 *big.Int) []interval {
	var out []interval

	for _, iv := range m {
		// (a s - 3B + 1) / n <= r <= (b s - 2B) / n
		rLo := new(big.Int).Mul(iv.lo, s)
		rLo.Sub(rLo, b3m1)
		rLo = numtheory.CeilDiv(rLo, n)

		rHi := new(big.Int).Mul(iv.hi, s)
		rHi.Sub(rHi, b2)
		rHi.Div(rHi, n)

		for r := rLo; r.Cmp(rHi) <= 0; r = new(big.Int).Add(r, big.NewInt(1)) {
			rn := new(big.Int).Mul(r, n)

			lo := numtheory.CeilDiv(new(big.Int).Add(b2, rn), s)
			if lo.Cmp(iv.lo) < 0 {
				lo = iv.lo
			}

			hi := new(big.Int).Add(b3m1, rn)
			hi.Div(hi, s)

			if hi.Cmp(iv.hi) > 0 {
				hi = iv.hi
			}

			if lo.Cmp(hi) <= 0 {
				out = merge(out, interval{lo: lo, hi: hi})
			}
		}
	}

	return out
}

// merge inserts iv into a sorted list of disjoint intervals, joining overlaps.
func merge(m []interval, iv interval) []interval {
	m = append(m, iv)
	slices.SortFunc(m, func(a, b interval) int { return a.lo.Cmp(b.lo) })

	out := m[:1]
	for _, next := range m[1:] {
		last := &out[len(out)-1]
		if next.lo.Cmp(last.hi) <= 0 {
			if next.hi.Cmp(last.hi) > 0 {
				last.hi = next.hi
			}

			continue
		}

		out = append(out, next)
	}

	return out
}

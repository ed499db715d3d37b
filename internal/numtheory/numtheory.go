// Package numtheory collects the big-integer arithmetic shared by the
// public-key attacks.
package numtheory

import (
	"fmt"
	"math/big"
)

//nolint:gochecknoglobals
var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// InvMod returns the inverse of a modulo m, computed with the extended Euclidean algorithm.
func InvMod(a, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("%w: modulus %v", ErrNotInvertible, m)
	}

	oldR, r := Mod(a, m), new(big.Int).Set(m)
	oldS, s := big.NewInt(1), big.NewInt(0)

	for r.Sign() != 0 {
		q := new(big.Int).Div(oldR, r)

		oldR, r = r, new(big.Int).Sub(oldR, new(big.Int).Mul(q, r))
		oldS, s = s, new(big.Int).Sub(oldS, new(big.Int).Mul(q, s))
	}

	if oldR.Cmp(one) != 0 {
		return nil, fmt.Errorf("%w: gcd(%v, %v) = %v", ErrNotInvertible, a, m, oldR)
	}

	return Mod(oldS, m), nil
}

// Mod returns a mod m in [0, m).
func Mod(a, m *big.Int) *big.Int {
	return new(big.Int).Mod(a, m)
}

// CeilDiv returns ceil(a / b) for positive b.
func CeilDiv(a, b *big.Int) *big.Int {
	q, r := new(big.Int).DivMod(a, b, new(big.Int))
	if r.Sign() != 0 {
		q.Add(q, one)
	}

	return q
}

// FloorDiv returns floor(a / b) for positive b.
func FloorDiv(a, b *big.Int) *big.Int {
	return new(big.Int).Div(a, b)
}

// Equal reports whether a and b are equal.
func Equal(a, b *big.Int) bool {
	return a.Cmp(b) == 0
}

// Root returns floor(n^(1/k)) for non-negative n, by Newton iteration.
func Root(n *big.Int, k int) *big.Int {
	if n.Sign() <= 0 {
		return new(big.Int)
	}

	if k == 1 {
		return new(big.Int).Set(n)
	}

	bk := big.NewInt(int64(k))
	bk1 := big.NewInt(int64(k - 1))

	// Start above the root: 2^ceil(bits/k).
	x := new(big.Int).Lsh(one, uint(n.BitLen()/k+1))

	for {
		// y = ((k-1)x + n / x^(k-1)) / k
		y := new(big.Int).Mul(bk1, x)
		y.Add(y, new(big.Int).Div(n, new(big.Int).Exp(x, bk1, nil)))
		y.Div(y, bk)

		if y.Cmp(x) >= 0 {
			return x
		}

		x = y
	}
}

// CubeRoot returns floor(cbrt(n)).
func CubeRoot(n *big.Int) *big.Int {
	return Root(n, 3)
}

// CRT solves x = residues[i] mod moduli[i] for pairwise coprime moduli and
// returns x in [0, prod(moduli)) together with the product.
func CRT(residues, moduli []*big.Int) (*big.Int, *big.Int, error) {
	if len(residues) != len(moduli) || len(moduli) == 0 {
		return nil, nil, ErrMismatchedSystem
	}

	product := big.NewInt(1)
	for _, m := range moduli {
		product.Mul(product, m)
	}

	result := new(big.Int)

	for i, m := range moduli {
		ms := new(big.Int).Div(product, m)

		inv, err := InvMod(ms, m)
		if err != nil {
			return nil, nil, fmt.Errorf("combining modulus %d: %w", i, err)
		}

		term := new(big.Int).Mul(residues[i], ms)
		term.Mul(term, inv)
		result.Add(result, term)
	}

	return result.Mod(result, product), product, nil
}

// SmallFactors returns the distinct prime factors of n below limit, found by trial division.
func SmallFactors(n *big.Int, limit int64) []*big.Int {
	var factors []*big.Int

	rest := new(big.Int).Set(n)
	rem := new(big.Int)

	for p := int64(2); p < limit && rest.Cmp(one) > 0; p++ {
		bp := big.NewInt(p)

		q, r := new(big.Int).QuoRem(rest, bp, rem)
		if r.Sign() != 0 {
			continue
		}

		factors = append(factors, bp)
		rest = q

		for {
			q, r = new(big.Int).QuoRem(rest, bp, rem)
			if r.Sign() != 0 {
				break
			}

			rest = q
		}
	}

	return factors
}

// SqrtMod returns a square root of a modulo the odd prime p using Tonelli-Shanks.
func SqrtMod(a, p *big.Int) (*big.Int, error) {
	a = Mod(a, p)
	if a.Sign() == 0 {
		return new(big.Int), nil
	}

	if big.Jacobi(a, p) != 1 {
		return nil, ErrNoSquareRoot
	}

	// Factor p-1 as q * 2^s with q odd.
	q := new(big.Int).Sub(p, one)

	s := 0
	for q.Bit(0) == 0 {
		q.Rsh(q, 1)
		s++
	}

	if s == 1 {
		e := new(big.Int).Add(p, one)
		e.Rsh(e, 2)

		return new(big.Int).Exp(a, e, p), nil
	}

	z := big.NewInt(2)
	for big.Jacobi(z, p) != -1 {
		z.Add(z, one)
	}

	m := s
	c := new(big.Int).Exp(z, q, p)
	t := new(big.Int).Exp(a, q, p)
	r := new(big.Int).Exp(a, new(big.Int).Rsh(new(big.Int).Add(q, one), 1), p)

	for t.Cmp(one) != 0 {
		i := 0
		for tt := new(big.Int).Set(t); tt.Cmp(one) != 0; i++ {
			tt.Exp(tt, two, p)
		}

		b := new(big.Int).Exp(c, new(big.Int).Lsh(one, uint(m-i-1)), p)
		m = i
		c.Exp(b, two, p)
		t.Mul(t, c).Mod(t, p)
		r.Mul(r, b).Mod(r, p)
	}

	return r, nil
}

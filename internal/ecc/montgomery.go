package ecc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Montgomery is B*v^2 = u^3 + A*u^2 + u over F_P.
type Montgomery struct {
	A, B, P *big.Int
}

func (m Montgomery) rhs(u *big.Int) *big.Int {
	r := new(big.Int).Mul(u, u)
	r.Mul(r, u)
	r.Add(r, new(big.Int).Mul(new(big.Int).Mul(m.A, u), u))
	r.Add(r, u)

	inv, err := numtheory.InvMod(m.B, m.P)
	if err != nil {
		panic(err)
	}

	return r.Mul(r, inv).Mod(r, m.P)
}

// OnCurve reports whether u is the coordinate of a point on the curve.
func (m Montgomery) OnCurve(u *big.Int) bool {
	return big.Jacobi(m.rhs(u), m.P) >= 0
}

// OnTwist reports whether u belongs to the quadratic twist instead.
func (m Montgomery) OnTwist(u *big.Int) bool {
	return big.Jacobi(m.rhs(u), m.P) < 0
}

// Ladder returns u(k*P) for the point P with coordinate u. The identity maps to 0.
func (m Montgomery) Ladder(u, k *big.Int) *big.Int {
	p := m.P
	u2, w2 := big.NewInt(1), big.NewInt(0)
	u3, w3 := new(big.Int).Set(u), big.NewInt(1)

	t1, t2 := new(big.Int), new(big.Int)

	for i := p.BitLen() - 1; i >= 0; i-- {
		b := k.Bit(i) == 1
		if b {
			u2, u3 = u3, u2
			w2, w3 = w3, w2
		}

		// u3, w3 = (u2*u3 - w2*w3)^2, u*(u2*w3 - w2*u3)^2
		t1.Mul(u2, u3).Sub(t1, t2.Mul(w2, w3))
		nu3 := new(big.Int).Mul(t1, t1)
		nu3.Mod(nu3, p)

		t1.Mul(u2, w3).Sub(t1, t2.Mul(w2, u3))
		nw3 := new(big.Int).Mul(t1, t1)
		nw3.Mul(nw3, u).Mod(nw3, p)

		// u2, w2 = (u2^2 - w2^2)^2, 4*u2*w2*(u2^2 + A*u2*w2 + w2^2)
		uu := new(big.Int).Mul(u2, u2)
		ww := new(big.Int).Mul(w2, w2)
		uw := new(big.Int).Mul(u2, w2)

		nu2 := new(big.Int).Sub(uu, ww)
		nu2.Mul(nu2, nu2).Mod(nu2, p)

		nw2 := new(big.Int).Mul(m.A, uw)
		nw2.Add(nw2, uu).Add(nw2, ww)
		nw2.Mul(nw2, uw).Lsh(nw2, 2).Mod(nw2, p)

		u2, w2, u3, w3 = nu2, nw2, nu3, nw3

		if b {
			u2, u3 = u3, u2
			w2, w3 = w3, w2
		}
	}

	return affine(u2, w2, p)
}

func affine(x, z, p *big.Int) *big.Int {
	if new(big.Int).Mod(z, p).Sign() == 0 {
		return new(big.Int)
	}

	out := new(big.Int).Exp(z, new(big.Int).Sub(p, two), p)

	return out.Mul(out, x).Mod(out, p)
}

// shift returns A/3 mod P.
func (m Montgomery) shift() *big.Int {
	inv, err := numtheory.InvMod(three, m.P)
	if err != nil {
		panic(err)
	}

	return inv.Mul(inv, m.A).Mod(inv, m.P)
}

// ToWeierstrass maps u to x = u + A/3.
func (m Montgomery) ToWeierstrass(u *big.Int) *big.Int {
	x := new(big.Int).Add(u, m.shift())

	return x.Mod(x, m.P)
}

// ToMontgomery maps x to u = x - A/3.
func (m Montgomery) ToMontgomery(x *big.Int) *big.Int {
	return numtheory.Mod(new(big.Int).Sub(x, m.shift()), m.P)
}

// Weierstrass returns the short Weierstrass form of a Montgomery curve with B = 1:
// a = (3 - A^2)/3 and b = (2A^3 - 9A)/27.
func (m Montgomery) Weierstrass() Curve {
	p := m.P

	inv3, _ := numtheory.InvMod(three, p)
	inv27, _ := numtheory.InvMod(big.NewInt(27), p)

	a := new(big.Int).Mul(m.A, m.A)
	a.Sub(three, a).Mul(a, inv3)

	b := new(big.Int).Exp(m.A, three, nil)
	b.Lsh(b, 1).Sub(b, new(big.Int).Mul(big.NewInt(9), m.A)).Mul(b, inv27)

	return Curve{A: numtheory.Mod(a, p), B: numtheory.Mod(b, p), P: p}
}

// TwistOrder returns the order of the quadratic twist, 2(P+1) - curveOrder.
func (m Montgomery) TwistOrder(curveOrder *big.Int) *big.Int {
	t := new(big.Int).Add(m.P, one)
	t.Lsh(t, 1)

	return t.Sub(t, curveOrder)
}

// TwistPoint returns the coordinate of a twist point whose order is exactly
// the product of the given distinct odd primes.
func (m Montgomery) TwistPoint(ctx context.Context, twistOrder *big.Int, primes ...*big.Int) (*big.Int, error) {
	order := big.NewInt(1)
	for _, r := range primes {
		order.Mul(order, r)
	}

	if new(big.Int).Mod(twistOrder, order).Sign() != 0 {
		return nil, ErrOrder
	}

	cofactor := new(big.Int).Div(twistOrder, order)

	for range maxTries {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("finding twist point of order %v: %w", order, err)
		}

		u := randutil.BigBelow(m.P)
		if !m.OnTwist(u) {
			continue
		}

		if v := m.Ladder(u, cofactor); m.exactOrder(v, order, primes) {
			return v, nil
		}
	}

	return nil, fmt.Errorf("%w: twist order %v after %d tries", ErrNoPoint, order, maxTries)
}

// exactOrder reports whether u, whose order divides order, has no smaller order.
func (m Montgomery) exactOrder(u, order *big.Int, primes []*big.Int) bool {
	if u.Sign() == 0 {
		return false
	}

	for _, r := range primes {
		if m.Ladder(u, new(big.Int).Div(order, r)).Sign() == 0 {
			return false
		}
	}

	return true
}

// multiples enumerates u(kP) for k = 1, 2, ... with x-only differential additions.
type multiples struct {
	p, u, a24 *big.Int
	// prev is (k-1)P and cur is kP in projective (X:Z) form.
	prevX, prevZ, curX, curZ *big.Int
	k                        int64
}

func (m Montgomery) multiples(u *big.Int) *multiples {
	a24 := new(big.Int).Add(m.A, two)
	inv4, _ := numtheory.InvMod(big.NewInt(4), m.P)
	a24.Mul(a24, inv4).Mod(a24, m.P)

	return &multiples{p: m.P, u: u, a24: a24}
}

// next advances to the next multiple and returns k and the affine u(kP).
func (s *multiples) next() (int64, *big.Int) {
	p := s.p

	switch s.k {
	case 0:
		s.curX, s.curZ = new(big.Int).Set(s.u), big.NewInt(1)
	case 1:
		// 2P by doubling, since the difference P - P is the identity.
		sum := new(big.Int).Add(s.curX, s.curZ)
		sum.Mul(sum, sum)
		diff := new(big.Int).Sub(s.curX, s.curZ)
		diff.Mul(diff, diff)
		t := new(big.Int).Sub(sum, diff)

		x := new(big.Int).Mul(sum, diff)
		z := new(big.Int).Mul(s.a24, t)
		z.Add(z, diff).Mul(z, t)

		s.prevX, s.prevZ = s.curX, s.curZ
		s.curX, s.curZ = x.Mod(x, p), z.Mod(z, p)
	default:
		// (k+1)P = kP + P with difference (k-1)P.
		da := new(big.Int).Sub(s.curX, s.curZ)
		da.Mul(da, new(big.Int).Add(s.u, one))
		cb := new(big.Int).Add(s.curX, s.curZ)
		cb.Mul(cb, new(big.Int).Sub(s.u, one))

		x := new(big.Int).Add(da, cb)
		x.Mul(x, x).Mul(x, s.prevZ)
		z := new(big.Int).Sub(da, cb)
		z.Mul(z, z).Mul(z, s.prevX)

		s.prevX, s.prevZ = s.curX, s.curZ
		s.curX, s.curZ = x.Mod(x, p), z.Mod(z, p)
	}

	s.k++

	return s.k, affine(s.curX, s.curZ, p)
}

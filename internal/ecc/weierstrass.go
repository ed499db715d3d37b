// Package ecc implements elliptic curve arithmetic over prime fields and
// the invalid-curve and twist attacks against ECDH.
package ecc

import (
	"context"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/randutil"
)

//nolint:gochecknoglobals
var (
	one   = big.NewInt(1)
	two   = big.NewInt(2)
	three = big.NewInt(3)
)

// Point is an affine point. The zero value with Inf set is the identity.
type Point struct {
	X, Y *big.Int
	Inf  bool
}

// Identity returns the point at infinity.
func Identity() Point {
	return Point{Inf: true}
}

// Equal reports whether two points are the same.
func (p Point) Equal(q Point) bool {
	if p.Inf || q.Inf {
		return p.Inf == q.Inf
	}

	return p.X.Cmp(q.X) == 0 && p.Y.Cmp(q.Y) == 0
}

// Curve is y^2 = x^3 + Ax + B over F_P.
type Curve struct {
	A, B, P *big.Int
}

// WithB returns the same curve equation with a different constant term.
// Point arithmetic never reads B, so points of one curve add correctly under the other.
func (c Curve) WithB(b *big.Int) Curve {
	return Curve{A: c.A, B: b, P: c.P}
}

func (c Curve) rhs(x *big.Int) *big.Int {
	r := new(big.Int).Exp(x, three, c.P)
	r.Add(r, new(big.Int).Mul(c.A, x))
	r.Add(r, c.B)

	return r.Mod(r, c.P)
}

// OnCurve reports whether p satisfies the curve equation.
func (c Curve) OnCurve(p Point) bool {
	if p.Inf {
		return true
	}

	y2 := new(big.Int).Mul(p.Y, p.Y)

	return y2.Mod(y2, c.P).Cmp(c.rhs(p.X)) == 0
}

// Neg returns -p.
func (c Curve) Neg(p Point) Point {
	if p.Inf {
		return p
	}

	return Point{X: new(big.Int).Set(p.X), Y: numtheory.Mod(new(big.Int).Neg(p.Y), c.P)}
}

// Add returns p + q.
func (c Curve) Add(p, q Point) Point {
	switch {
	case p.Inf:
		return q
	case q.Inf:
		return p
	}

	if p.X.Cmp(q.X) == 0 {
		sum := new(big.Int).Add(p.Y, q.Y)
		if sum.Mod(sum, c.P).Sign() == 0 {
			return Identity()
		}

		return c.Double(p)
	}

	num := new(big.Int).Sub(q.Y, p.Y)
	den := new(big.Int).Sub(q.X, p.X)

	return c.chord(p, q, num, den)
}

// Double returns 2p.
func (c Curve) Double(p Point) Point {
	if p.Inf || p.Y.Sign() == 0 {
		return Identity()
	}

	num := new(big.Int).Mul(p.X, p.X)
	num.Mul(num, three).Add(num, c.A)
	den := new(big.Int).Mul(p.Y, two)

	return c.chord(p, p, num, den)
}

func (c Curve) chord(p, q Point, num, den *big.Int) Point {
	den.Mod(den, c.P)
	m := den.ModInverse(den, c.P)
	m.Mul(m, num).Mod(m, c.P)

	x := new(big.Int).Mul(m, m)
	x.Sub(x, p.X).Sub(x, q.X).Mod(x, c.P)

	y := new(big.Int).Sub(p.X, x)
	y.Mul(y, m).Sub(y, p.Y).Mod(y, c.P)

	return Point{X: x, Y: y}
}

// ScalarMult returns k*p by double-and-add.
func (c Curve) ScalarMult(p Point, k *big.Int) Point {
	if k.Sign() < 0 {
		return c.ScalarMult(c.Neg(p), new(big.Int).Neg(k))
	}

	out := Identity()

	for i := k.BitLen() - 1; i >= 0; i-- {
		out = c.Double(out)
		if k.Bit(i) == 1 {
			out = c.Add(out, p)
		}
	}

	return out
}

// Lift returns a point with the given x coordinate, or an error if x^3+Ax+B is not a square.
func (c Curve) Lift(x *big.Int) (Point, error) {
	y, err := numtheory.SqrtMod(c.rhs(x), c.P)
	if err != nil {
		return Point{}, err
	}

	return Point{X: numtheory.Mod(x, c.P), Y: y}, nil
}

// maxTries bounds the random lifts spent on finding a point of a given order.
const maxTries = 256

// RandomPoint returns a point of order r on a curve with the given group order.
// r must be a prime dividing groupOrder. The whole r-power is removed from the
// cofactor and the result scaled down, so a non-cyclic r-part still yields
// points. ErrNoPoint is returned when maxTries lifts all land in the kernel.
func (c Curve) RandomPoint(ctx context.Context, groupOrder, r *big.Int) (Point, error) {
	if new(big.Int).Mod(groupOrder, r).Sign() != 0 {
		return Point{}, ErrOrder
	}

	cofactor, _ := primePart(groupOrder, r)

	for range maxTries {
		if err := ctx.Err(); err != nil {
			return Point{}, fmt.Errorf("finding point of order %v: %w", r, err)
		}

		p, err := c.Lift(randutil.BigBelow(c.P))
		if err != nil {
			continue
		}

		q := c.ScalarMult(p, cofactor)
		if q.Inf {
			continue
		}

		for next := c.ScalarMult(q, r); !next.Inf; next = c.ScalarMult(q, r) {
			q = next
		}

		return q, nil
	}

	return Point{}, fmt.Errorf("%w: order %v after %d tries", ErrNoPoint, r, maxTries)
}

// primePart splits n into m * r^e with r not dividing m and returns m and e.
func primePart(n, r *big.Int) (*big.Int, int) {
	m := new(big.Int).Set(n)
	rem := new(big.Int)
	e := 0

	for {
		q, mod := new(big.Int).QuoRem(m, r, rem)
		if mod.Sign() != 0 {
			return m, e
		}

		m = q
		e++
	}
}

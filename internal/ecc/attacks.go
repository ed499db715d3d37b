package ecc

import (
	"context"
	"crypto/hmac"
	"errors"
	"fmt"
	"log/slog"
	"math/big"

	"github.com/idelchi/cryptopals/internal/dlog"
	"github.com/idelchi/cryptopals/internal/numtheory"
)

// PointResponder is an ECDH peer as seen by an attacker.
type PointResponder func(pub Point) (msg, tag []byte)

// LadderResponder is an x-only ECDH peer as seen by an attacker.
type LadderResponder func(u *big.Int) (msg, tag []byte)

// Group adapts a curve to the generic discrete log solvers.
type Group struct {
	Curve Curve
}

// Op adds two points.
func (g Group) Op(a, b Point) Point { return g.Curve.Add(a, b) }

// Exp multiplies a point by k.
func (g Group) Exp(e Point, k *big.Int) Point { return g.Curve.ScalarMult(e, k) }

// Key encodes a point as fixed-width x || y.
func (g Group) Key(e Point) string {
	if e.Inf {
		return ""
	}

	size := (g.Curve.P.BitLen() + 7) / 8
	buf := make([]byte, 2*size)
	e.X.FillBytes(buf[:size])
	e.Y.FillBytes(buf[size:])

	return string(buf)
}

// InvalidCurveAttack recovers the peer's private key by sending points of
// small order on curves that share its A coefficient. Residues are collected
// until their moduli cover q.
func InvalidCurveAttack(
	ctx context.Context,
	respond PointResponder,
	curves []InvalidCurve,
	q *big.Int,
	limit int64,
	logger *slog.Logger,
) (*big.Int, error) {
	var residues []dlog.Residue

	product := big.NewInt(1)
	seen := make(map[string]bool)

	for _, ic := range curves {
		for _, r := range numtheory.SmallFactors(ic.Order, limit) {
			if product.Cmp(q) > 0 {
				break
			}

			if seen[r.String()] {
				continue
			}

			if err := ctx.Err(); err != nil {
				return nil, fmt.Errorf("invalid curve attack: %w", err)
			}

			h, err := ic.Curve.RandomPoint(ctx, ic.Order, r)
			if errors.Is(err, ErrNoPoint) {
				if logger != nil {
					logger.Debug("skipping order", "b", ic.Curve.B, "order", r)
				}

				continue
			}

			if err != nil {
				return nil, err
			}

			msg, tag := respond(h)

			k, err := brutePoint(ic.Curve, h, r, msg, tag)
			if err != nil {
				return nil, fmt.Errorf("order %v: %w", r, err)
			}

			seen[r.String()] = true
			residues = append(residues, dlog.Residue{R: r, X: k})
			product.Mul(product, r)

			if logger != nil {
				logger.Debug("recovered residue", "b", ic.Curve.B, "order", r, "bits", product.BitLen())
			}
		}
	}

	if product.Cmp(q) <= 0 {
		return nil, fmt.Errorf("%w: %d of %d bits", ErrInsufficient, product.BitLen(), q.BitLen())
	}

	x, _, err := dlog.Combine(residues)
	if err != nil {
		return nil, fmt.Errorf("combining residues: %w", err)
	}

	return x.Mod(x, q), nil
}

func brutePoint(c Curve, h Point, r *big.Int, msg, tag []byte) (*big.Int, error) {
	cur := Identity()

	for k := new(big.Int); k.Cmp(r) < 0; k.Add(k, one) {
		if hmac.Equal(Tag(SharedKey(cur), msg), tag) {
			return k, nil
		}

		cur = c.Add(cur, h)
	}

	return nil, ErrNoMatch
}

// TwistOptions parameterizes TwistAttack.
type TwistOptions struct {
	// Base is the u coordinate of the generator.
	Base *big.Int
	// CurveOrder is the order of the curve group, Order its generator's prime order.
	CurveOrder, Order *big.Int
	// Limit bounds the twist factors that are brute-forced.
	Limit int64
	// Bound is an upper bound on the private key, Order when nil.
	Bound  *big.Int
	Logger *slog.Logger
}

// TwistAttack recovers an x-only peer's private key from points on the
// quadratic twist. Every residue is known only up to sign, so signs are
// aligned by querying points whose order is a product of two factors, and
// the remaining range is walked with the kangaroo on the Weierstrass form.
// The result is d or Order-d, which the peer cannot tell apart either.
func TwistAttack(ctx context.Context, m Montgomery, respond LadderResponder, pub *big.Int, opts TwistOptions) (*big.Int, error) {
	bound := opts.Bound
	if bound == nil {
		bound = opts.Order
	}

	twist := m.TwistOrder(opts.CurveOrder)

	var residues []dlog.Residue

	for _, r := range numtheory.SmallFactors(twist, opts.Limit) {
		if r.Cmp(two) == 0 {
			continue
		}

		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("twist attack: %w", err)
		}

		u, err := m.TwistPoint(ctx, twist, r)
		if errors.Is(err, ErrNoPoint) {
			continue
		}

		if err != nil {
			return nil, err
		}

		msg, tag := respond(u)

		k, err := bruteLadder(m, u, r, msg, tag)
		if err != nil {
			return nil, fmt.Errorf("order %v: %w", r, err)
		}

		residues = append(residues, dlog.Residue{R: r, X: k})

		if opts.Logger != nil {
			opts.Logger.Debug("recovered twist residue", "order", r, "residue", k)
		}
	}

	if len(residues) == 0 {
		return nil, ErrInsufficient
	}

	if err := alignSigns(ctx, m, respond, twist, residues); err != nil {
		return nil, err
	}

	n, r, err := dlog.Combine(residues)
	if err != nil {
		return nil, fmt.Errorf("combining residues: %w", err)
	}

	if r.Cmp(bound) > 0 {
		return n.Mod(n, opts.Order), nil
	}

	return walkRemainder(ctx, m, pub, n, r, bound, opts)
}

// alignSigns flips residues so that all of them agree with the first
// nonzero one on the sign of the key.
func alignSigns(ctx context.Context, m Montgomery, respond LadderResponder, twist *big.Int, residues []dlog.Residue) error {
	anchor := -1

	for i, res := range residues {
		if res.X.Sign() == 0 {
			continue
		}

		if anchor < 0 {
			anchor = i

			continue
		}

		a := residues[anchor]

		u, err := m.TwistPoint(ctx, twist, a.R, res.R)
		if err != nil {
			return err
		}

		msg, tag := respond(u)

		same, _, err := numtheory.CRT([]*big.Int{a.X, res.X}, []*big.Int{a.R, res.R})
		if err != nil {
			return fmt.Errorf("aligning order %v: %w", res.R, err)
		}

		if !hmac.Equal(Tag(LadderKey(m.Ladder(u, same)), msg), tag) {
			residues[i].X = new(big.Int).Sub(res.R, res.X)
		}
	}

	return nil
}

func bruteLadder(m Montgomery, u, r *big.Int, msg, tag []byte) (*big.Int, error) {
	if hmac.Equal(Tag(LadderKey(new(big.Int)), msg), tag) {
		return new(big.Int), nil
	}

	half := new(big.Int).Rsh(r, 1).Int64()
	it := m.multiples(u)

	for {
		k, v := it.next()
		if k > half {
			return nil, ErrNoMatch
		}

		if hmac.Equal(Tag(LadderKey(v), msg), tag) {
			return big.NewInt(k), nil
		}
	}
}

// walkRemainder finds d = s + j*r with s = n or r-n by walking j on the
// Weierstrass form, trying both lifts of the public key at once.
func walkRemainder(ctx context.Context, m Montgomery, pub, n, r, bound *big.Int, opts TwistOptions) (*big.Int, error) {
	w := m.Weierstrass()
	grp := Group{Curve: w}

	g, err := w.Lift(m.ToWeierstrass(opts.Base))
	if err != nil {
		return nil, fmt.Errorf("lifting generator: %w", err)
	}

	y, err := w.Lift(m.ToWeierstrass(pub))
	if err != nil {
		return nil, fmt.Errorf("lifting public key: %w", err)
	}

	offsets := []*big.Int{n, new(big.Int).Sub(r, n)}

	var (
		targets []Point
		starts  []*big.Int
	)

	for _, s := range offsets {
		shift := w.Neg(w.ScalarMult(g, s))

		for _, lift := range []Point{y, w.Neg(y)} {
			targets = append(targets, w.Add(lift, shift))
			starts = append(starts, s)
		}
	}

	upper := new(big.Int).Div(bound, r)
	upper.Add(upper, one)

	idx, j, err := dlog.KangarooAnyIn(ctx, dlog.Group[Point](grp), w.ScalarMult(g, r), targets, new(big.Int), upper)
	if err != nil {
		return nil, fmt.Errorf("walking %d remaining bits: %w", upper.BitLen(), err)
	}

	d := j.Mul(j, r).Add(j, starts[idx])
	d.Mod(d, opts.Order)

	if m.Ladder(opts.Base, d).Cmp(pub) != 0 {
		return nil, ErrNoMatch
	}

	return d, nil
}

package dlog

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/mac"
	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// Message is the text a Peer authenticates.
const Message = "crazy flamboyant for the rap enjoyment"

// Peer is a Diffie-Hellman party that answers every public value with a
// MAC over Message keyed by the shared secret. It never checks the order
// of what it receives.
type Peer struct {
	P, G, Q *big.Int

	private *big.Int
}

// NewPeer draws a private key in [1, q).
func NewPeer(p, g, q *big.Int) *Peer {
	return &Peer{P: p, G: g, Q: q, private: randutil.BigBetween(big.NewInt(1), q)}
}

// NewPeerWithKey creates a peer with a fixed private key.
func NewPeerWithKey(p, g, q, x *big.Int) *Peer {
	return &Peer{P: p, G: g, Q: q, private: new(big.Int).Set(x)}
}

// Public returns G^x mod P.
func (p *Peer) Public() *big.Int {
	return new(big.Int).Exp(p.G, p.private, p.P)
}

// Respond computes K = h^x mod P and returns Message with its HMAC-SHA256 under K.
func (p *Peer) Respond(h *big.Int) ([]byte, []byte) {
	k := new(big.Int).Exp(h, p.private, p.P)

	return []byte(Message), Tag(k, []byte(Message))
}

// Tag authenticates msg under the shared secret k.
func Tag(k *big.Int, msg []byte) []byte {
	return mac.HMAC(sha256.New, k.Bytes(), msg)
}

// Responder is the peer's side of the exchange as seen by an attacker.
type Responder func(h *big.Int) (msg, tag []byte)

// Residue records x mod R.
type Residue struct {
	R, X *big.Int
}

// ElementOfOrder returns an element of order r modulo p, where r is a prime dividing p-1.
func ElementOfOrder(p, r *big.Int) (*big.Int, error) {
	exp := new(big.Int).Sub(p, one)

	if new(big.Int).Mod(exp, r).Sign() != 0 {
		return nil, fmt.Errorf("%w: %v does not divide p-1", ErrEmptyRange, r)
	}

	exp.Div(exp, r)

	for {
		h := new(big.Int).Exp(randutil.BigBetween(big.NewInt(2), p), exp, p)
		if h.Cmp(one) != 0 {
			return h, nil
		}
	}
}

// RecoverResidues sends an element of each small order r to the peer and
// brute-forces x mod r from the returned MAC.
func RecoverResidues(ctx context.Context, respond Responder, p *big.Int, orders []*big.Int) ([]Residue, error) {
	out := make([]Residue, 0, len(orders))

	for _, r := range orders {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("recovering residues: %w", err)
		}

		h, err := ElementOfOrder(p, r)
		if err != nil {
			return nil, err
		}

		msg, tag := respond(h)

		x, err := bruteMAC(h, p, r, msg, tag)
		if err != nil {
			return nil, fmt.Errorf("order %v: %w", r, err)
		}

		out = append(out, Residue{R: r, X: x})
	}

	return out, nil
}

func bruteMAC(h, p, r *big.Int, msg, tag []byte) (*big.Int, error) {
	cur := big.NewInt(1)

	for k := new(big.Int); k.Cmp(r) < 0; k.Add(k, one) {
		if hmac.Equal(Tag(cur, msg), tag) {
			return k, nil
		}

		cur.Mul(cur, h).Mod(cur, p)
	}

	return nil, ErrNoMatch
}

// Combine solves the residues with the CRT and returns x mod prod(R) and the product.
func Combine(residues []Residue) (*big.Int, *big.Int, error) {
	xs := make([]*big.Int, len(residues))
	rs := make([]*big.Int, len(residues))

	for i, r := range residues {
		xs[i], rs[i] = r.X, r.R
	}

	return numtheory.CRT(xs, rs)
}

// confiningOrders returns the distinct prime factors below limit of (p-1)/q
// that do not divide q.
func confiningOrders(p, q *big.Int, limit int64) []*big.Int {
	j := new(big.Int).Sub(p, one)
	j.Div(j, q)

	var orders []*big.Int

	for _, r := range numtheory.SmallFactors(j, limit) {
		if new(big.Int).Mod(q, r).Sign() != 0 {
			orders = append(orders, r)
		}
	}

	return orders
}

// SubgroupConfinement recovers the peer's key using only small subgroups of
// the group modulo p. It stops once the product of the orders exceeds q.
func SubgroupConfinement(ctx context.Context, respond Responder, p, q *big.Int, limit int64) (*big.Int, error) {
	var needed []*big.Int

	product := big.NewInt(1)

	for _, r := range confiningOrders(p, q, limit) {
		if product.Cmp(q) > 0 {
			break
		}

		needed = append(needed, r)
		product.Mul(product, r)
	}

	if product.Cmp(q) <= 0 {
		return nil, fmt.Errorf("%w: small subgroups only cover %d bits of %d", ErrEmptyRange, product.BitLen(), q.BitLen())
	}

	residues, err := RecoverResidues(ctx, respond, p, needed)
	if err != nil {
		return nil, err
	}

	x, _, err := Combine(residues)
	if err != nil {
		return nil, fmt.Errorf("combining residues: %w", err)
	}

	return x.Mod(x, q), nil
}

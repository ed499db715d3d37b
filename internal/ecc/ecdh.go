package ecc

import (
	"crypto/sha256"
	"math/big"

	"github.com/idelchi/cryptopals/internal/dlog"
	"github.com/idelchi/cryptopals/internal/mac"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// KeyPair is an ECDH key pair on a Weierstrass curve.
type KeyPair struct {
	Private *big.Int
	Public  Point
}

// GenerateKey draws a private scalar in [1, order).
func GenerateKey(c Curve, base Point, order *big.Int) KeyPair {
	d := randutil.BigBetween(one, order)

	return KeyPair{Private: d, Public: c.ScalarMult(base, d)}
}

// SharedKey derives a MAC key from a shared point: SHA-256 over x || y.
func SharedKey(p Point) []byte {
	if p.Inf {
		sum := sha256.Sum256(nil)

		return sum[:]
	}

	h := sha256.New()
	h.Write(p.X.Bytes())
	h.Write(p.Y.Bytes())

	return h.Sum(nil)
}

// Tag authenticates msg under key with HMAC-SHA256.
func Tag(key, msg []byte) []byte {
	return mac.HMAC(sha256.New, key, msg)
}

// Peer is an ECDH party that multiplies whatever point it is sent and
// returns a MAC under the result. It does not check that the point is on its curve.
type Peer struct {
	curve Curve
	key   KeyPair
}

// NewPeer creates a peer on c with a fresh key.
func NewPeer(c Curve, base Point, order *big.Int) *Peer {
	return &Peer{curve: c, key: GenerateKey(c, base, order)}
}

// Public returns the peer's public point.
func (p *Peer) Public() Point {
	return p.key.Public
}

// Respond returns a message and its MAC under SharedKey(d * pub).
func (p *Peer) Respond(pub Point) ([]byte, []byte) {
	shared := p.curve.ScalarMult(pub, p.key.Private)

	return []byte(dlog.Message), Tag(SharedKey(shared), []byte(dlog.Message))
}

// LadderPeer is the x-only counterpart of Peer on a Montgomery curve.
type LadderPeer struct {
	curve   Montgomery
	private *big.Int
	public  *big.Int
}

// NewLadderPeer creates a ladder peer with a private scalar in [1, order).
func NewLadderPeer(m Montgomery, base, order *big.Int) *LadderPeer {
	return NewLadderPeerWithKey(m, base, randutil.BigBetween(one, order))
}

// NewLadderPeerWithKey creates a ladder peer with a fixed private scalar.
func NewLadderPeerWithKey(m Montgomery, base, d *big.Int) *LadderPeer {
	return &LadderPeer{curve: m, private: new(big.Int).Set(d), public: m.Ladder(base, d)}
}

// Public returns the peer's public u coordinate.
func (p *LadderPeer) Public() *big.Int {
	return p.public
}

// Respond returns a message and its MAC keyed by the u coordinate of d * u.
func (p *LadderPeer) Respond(u *big.Int) ([]byte, []byte) {
	shared := p.curve.Ladder(u, p.private)

	return []byte(dlog.Message), Tag(LadderKey(shared), []byte(dlog.Message))
}

// LadderKey derives a MAC key from a shared u coordinate.
func LadderKey(u *big.Int) []byte {
	sum := sha256.Sum256(u.Bytes())

	return sum[:]
}

// Package dsa implements DSA over a fixed 1024/160-bit group with the
// nonce-reuse, weak-nonce and parameter-tampering attacks.
package dsa

import (
	"crypto/sha1" //nolint:gosec // DSA over SHA-1
	"encoding/hex"
	"math/big"

	"github.com/idelchi/cryptopals/internal/numtheory"
	"github.com/idelchi/cryptopals/internal/randutil"
)

const (
	defaultP = "800000000000000089e1855218a0e7dac38136ffafa72eda7859f2171e25e65eac698c1702578b07dc2a1076da241c76c62d374d8389ea5aeffd3226a0530cc565f3bf6b50929139ebeac04f48c3c84afb796d61e5a4f9a8fda812ab59494232c7d2b4deb50aa18ee9e132bfa85ac4374d7f9091abc3d015efc871a584471bb1"
	defaultQ = "f4f47f05794b256174bba6e9b396a7707e563c5b"
	defaultG = "5958c9d3898b224b12672c0b98e06c60df923cb8bc999d119458fef538b8fa4046c8db53039db620c094c9fa077ef389b5322a559946a71903f990f1f7e0e025e2d7f7cf494aff1a0470f5b64c36b625a097f1651fe775323556fe00b3608c887892878480e99041be601a62166ca6894bdd41a7054ec89f756ba9fc95302291"
)

// Params are the group parameters.
type Params struct {
	P *big.Int
	Q *big.Int
	G *big.Int
}

// DefaultParams returns the fixed group used throughout the exercises.
func DefaultParams() Params {
	return Params{P: mustHex(defaultP), Q: mustHex(defaultQ), G: mustHex(defaultG)}
}

// WithGenerator returns a copy of the parameters with a substituted generator.
func (p Params) WithGenerator(g *big.Int) Params {
	p.G = new(big.Int).Set(g)

	return p
}

func mustHex(s string) *big.Int {
	n, ok := new(big.Int).SetString(s, 16)
	if !ok {
		panic("dsa: bad constant " + s)
	}

	return n
}

// PublicKey is a DSA public key.
type PublicKey struct {
	Params

	Y *big.Int
}

// PrivateKey is a DSA private key.
type PrivateKey struct {
	PublicKey

	X *big.Int
}

// Signature is a DSA signature.
type Signature struct {
	R *big.Int
	S *big.Int
}

// GenerateKey draws x in [1, q) and computes y = g^x mod p.
func GenerateKey(params Params) *PrivateKey {
	x := randutil.BigBetween(big.NewInt(1), params.Q)

	return KeyFromPrivate(params, x)
}

// KeyFromPrivate rebuilds a key pair from x.
func KeyFromPrivate(params Params, x *big.Int) *PrivateKey {
	y := new(big.Int).Exp(params.G, x, params.P)

	return &PrivateKey{PublicKey: PublicKey{Params: params, Y: y}, X: new(big.Int).Set(x)}
}

// HashMessage returns SHA-1(msg) as an integer.
func HashMessage(msg []byte) *big.Int {
	sum := sha1.Sum(msg) //nolint:gosec // see import

	return new(big.Int).SetBytes(sum[:])
}

// Fingerprint returns the hex SHA-1 of the hex encoding of x.
func Fingerprint(x *big.Int) string {
	sum := sha1.Sum([]byte(x.Text(16))) //nolint:gosec // see import

	return hex.EncodeToString(sum[:])
}

// Sign signs the message hash h with a fresh random nonce.
// Nonces giving s = 0 are redrawn. r = 0 is kept so that tampered generators still sign.
func (priv *PrivateKey) Sign(h *big.Int) Signature {
	for {
		k := randutil.BigBetween(big.NewInt(1), priv.Q)

		sig, err := priv.SignWithK(h, k)
		if err == nil && sig.S.Sign() != 0 {
			return sig
		}
	}
}

// SignWithK signs h with the given nonce. It performs no range checks on r.
func (priv *PrivateKey) SignWithK(h, k *big.Int) (Signature, error) {
	kinv, err := numtheory.InvMod(k, priv.Q)
	if err != nil {
		return Signature{}, err
	}

	r := new(big.Int).Exp(priv.G, k, priv.P)
	r.Mod(r, priv.Q)

	s := new(big.Int).Mul(priv.X, r)
	s.Add(s, h)
	s.Mul(s, kinv)
	s.Mod(s, priv.Q)

	return Signature{R: r, S: s}, nil
}

// Verify checks sig over h. With strict set, r and s must lie in (0, q);
// without it, r = 0 is accepted, which the tampered-generator forgeries rely on.
func (pub *PublicKey) Verify(h *big.Int, sig Signature, strict bool) bool {
	if sig.S.Sign() <= 0 || sig.S.Cmp(pub.Q) >= 0 || sig.R.Sign() < 0 || sig.R.Cmp(pub.Q) >= 0 {
		return false
	}

	if strict && sig.R.Sign() == 0 {
		return false
	}

	w, err := numtheory.InvMod(sig.S, pub.Q)
	if err != nil {
		return false
	}

	u1 := new(big.Int).Mul(h, w)
	u1.Mod(u1, pub.Q)

	u2 := new(big.Int).Mul(sig.R, w)
	u2.Mod(u2, pub.Q)

	v := new(big.Int).Exp(pub.G, u1, pub.P)
	v.Mul(v, new(big.Int).Exp(pub.Y, u2, pub.P))
	v.Mod(v, pub.P).Mod(v, pub.Q)

	return v.Cmp(sig.R) == 0
}

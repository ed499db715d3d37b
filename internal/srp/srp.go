// Package srp implements Secure Remote Password over an HTTP API, the
// zero-key bypass, and the offline dictionary attack on simplified SRP.
package srp

import (
	"crypto/hmac"
	"crypto/sha256"
	"math/big"

	"github.com/idelchi/cryptopals/internal/dh"
	"github.com/idelchi/cryptopals/internal/mac"
	"github.com/idelchi/cryptopals/internal/randutil"
)

// SaltSize is the size of generated salts in bytes.
const SaltSize = 8

// Params are the SRP group and multiplier.
type Params struct {
	N *big.Int
	G *big.Int
	K *big.Int
}

// DefaultParams uses the NIST prime, g = 2 and k = 3.
func DefaultParams() Params {
	group := dh.NISTGroup()

	return Params{N: group.P, G: group.G, K: big.NewInt(3)}
}

func hashInt(parts ...[]byte) *big.Int {
	h := sha256.New()
	for _, p := range parts {
		_, _ = h.Write(p)
	}

	return new(big.Int).SetBytes(h.Sum(nil))
}

// PrivateKey returns x = SHA256(salt || password) as an integer.
func PrivateKey(salt []byte, password string) *big.Int {
	return hashInt(salt, []byte(password))
}

// Verifier returns v = g^x mod N.
func (p Params) Verifier(salt []byte, password string) *big.Int {
	return new(big.Int).Exp(p.G, PrivateKey(salt, password), p.N)
}

// Scrambler returns u = SHA256(A || B).
func Scrambler(a, b *big.Int) *big.Int {
	return hashInt(a.Bytes(), b.Bytes())
}

// SessionKey returns K = SHA256(S).
func SessionKey(s *big.Int) []byte {
	sum := sha256.Sum256(s.Bytes())

	return sum[:]
}

// Proof returns HMAC-SHA256(K, salt).
func Proof(key, salt []byte) []byte {
	return mac.HMAC(sha256.New, key, salt)
}

// ValidProof compares proofs in constant time.
func ValidProof(want, got []byte) bool {
	return hmac.Equal(want, got)
}

// Ephemeral is a client's ephemeral key pair.
type Ephemeral struct {
	Private *big.Int
	Public  *big.Int
}

// NewEphemeral draws a and computes A = g^a mod N.
func (p Params) NewEphemeral() Ephemeral {
	a := randutil.BigBetween(big.NewInt(1), p.N)

	return Ephemeral{Private: a, Public: new(big.Int).Exp(p.G, a, p.N)}
}

// ClientSecret computes S = (B - k g^x)^(a + u x) mod N.
func (p Params) ClientSecret(eph Ephemeral, serverPublic *big.Int, salt []byte, password string) *big.Int {
	x := PrivateKey(salt, password)
	u := Scrambler(eph.Public, serverPublic)

	base := new(big.Int).Exp(p.G, x, p.N)
	base.Mul(base, p.K)
	base.Sub(serverPublic, base)
	base.Mod(base, p.N)

	exp := new(big.Int).Mul(u, x)
	exp.Add(exp, eph.Private)

	return base.Exp(base, exp, p.N)
}

// serverSecret computes S = (A v^u)^b mod N.
func (p Params) serverSecret(clientPublic, v, u, b *big.Int) *big.Int {
	s := new(big.Int).Exp(v, u, p.N)
	s.Mul(s, clientPublic)
	s.Mod(s, p.N)

	return s.Exp(s, b, p.N)
}

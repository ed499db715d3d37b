// Package dh implements finite-field Diffie-Hellman and the echo protocol
// used by the key-fixing and malicious-generator attacks.
package dh

import (
	"crypto/sha1" //nolint:gosec // the protocol derives keys with SHA-1
	"math/big"

	"github.com/idelchi/cryptopals/internal/randutil"
)

const nistPrime = "ffffffffffffffffc90fdaa22168c234c4c6628b80dc1cd129024e088a67cc74020bbea63b139b22514a08798e3404ddef9519b3cd3a431b302b0a6df25f14374fe1356d6d51c245e485b576625e7ec6f44c42e9a637ed6b0bff5cb6f406b7edee386bfb5a899fa5ae9f24117c4b1fe649286651ece45b3dc2007cb8a163bf0598da48361c55d39a69163fa8fd24cf5f83655d23dca3ad961c62f356208552bb9ed529077096966d670c354e4abc9804f1746c08ca237327ffffffffffffffff"

// KeySize is the size of the AES keys derived from shared secrets.
const KeySize = 16

// Group is a multiplicative group modulo P generated by G.
// Q is the order of G when known, and nil otherwise.
type Group struct {
	P *big.Int
	G *big.Int
	Q *big.Int
}

// NISTGroup returns the 1536-bit MODP group with generator 2.
func NISTGroup() Group {
	p, _ := new(big.Int).SetString(nistPrime, 16)

	return Group{P: p, G: big.NewInt(2)}
}

// ToyGroup returns the p = 37, g = 5 group.
func ToyGroup() Group {
	return Group{P: big.NewInt(37), G: big.NewInt(5)}
}

// Key is a Diffie-Hellman key pair.
type Key struct {
	Private *big.Int
	Public  *big.Int
}

// GenerateKey draws a private exponent and computes its public value.
// The exponent is drawn below Q when the group order is known, and below P otherwise.
func (g Group) GenerateKey() Key {
	bound := g.P
	if g.Q != nil {
		bound = g.Q
	}

	priv := randutil.BigBetween(big.NewInt(1), bound)

	return Key{Private: priv, Public: g.Public(priv)}
}

// Public returns G^priv mod P.
func (g Group) Public(priv *big.Int) *big.Int {
	return new(big.Int).Exp(g.G, priv, g.P)
}

// Shared returns peer^priv mod P.
func (g Group) Shared(priv, peer *big.Int) *big.Int {
	return new(big.Int).Exp(peer, priv, g.P)
}

// DeriveKey turns a shared secret into an AES key: SHA1(s)[:16].
func DeriveKey(s *big.Int) []byte {
	sum := sha1.Sum(s.Bytes()) //nolint:gosec // protocol-defined

	return sum[:KeySize]
}

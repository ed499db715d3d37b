// Package rsa implements textbook RSA with PKCS#1 v1.5 padding and the
// oracles and attacks built around it.
package rsa

import (
	"crypto/rand"
	"fmt"
	"math/big"

	"github.com/idelchi/cryptopals/internal/numtheory"
)

// PublicKey is an RSA public key.
type PublicKey struct {
	N *big.Int
	E *big.Int
}

// Size returns the modulus length in bytes.
func (pub *PublicKey) Size() int {
	return (pub.N.BitLen() + 7) / 8
}

// PrivateKey is an RSA private key.
type PrivateKey struct {
	PublicKey

	D *big.Int
	P *big.Int
	Q *big.Int
}

// GenerateKey creates a key whose modulus has exactly bits bits and public exponent e.
// Primes are redrawn until e is invertible modulo phi.
func GenerateKey(bits int, e int64) (*PrivateKey, error) {
	pe := big.NewInt(e)
	one := big.NewInt(1)

	for {
		p, err := rand.Prime(rand.Reader, bits-bits/2)
		if err != nil {
			return nil, fmt.Errorf("generating prime: %w", err)
		}

		q, err := rand.Prime(rand.Reader, bits/2)
		if err != nil {
			return nil, fmt.Errorf("generating prime: %w", err)
		}

		if p.Cmp(q) == 0 {
			continue
		}

		n := new(big.Int).Mul(p, q)
		if n.BitLen() != bits {
			continue
		}

		phi := new(big.Int).Mul(new(big.Int).Sub(p, one), new(big.Int).Sub(q, one))

		d, err := numtheory.InvMod(pe, phi)
		if err != nil {
			continue
		}

		return &PrivateKey{PublicKey: PublicKey{N: n, E: pe}, D: d, P: p, Q: q}, nil
	}
}

// Encrypt computes m^e mod N.
func (pub *PublicKey) Encrypt(m *big.Int) (*big.Int, error) {
	if m.Sign() < 0 || m.Cmp(pub.N) >= 0 {
		return nil, ErrMessageTooLong
	}

	return new(big.Int).Exp(m, pub.E, pub.N), nil
}

// Decrypt computes c^d mod N.
func (priv *PrivateKey) Decrypt(c *big.Int) *big.Int {
	return new(big.Int).Exp(c, priv.D, priv.N)
}

// EncryptBytes encrypts a big-endian byte string and returns a ciphertext of Size bytes.
func (pub *PublicKey) EncryptBytes(msg []byte) ([]byte, error) {
	c, err := pub.Encrypt(new(big.Int).SetBytes(msg))
	if err != nil {
		return nil, err
	}

	return LeftPad(c.Bytes(), pub.Size()), nil
}

// DecryptBytes decrypts a ciphertext and returns the plaintext without leading zeros.
func (priv *PrivateKey) DecryptBytes(ct []byte) []byte {
	return priv.Decrypt(new(big.Int).SetBytes(ct)).Bytes()
}

// LeftPad prefixes b with zeros up to size bytes.
func LeftPad(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}

	out := make([]byte, size)
	copy(out[size-len(b):], b)

	return out
}

// Package mac implements secret-prefix MACs, a hand-rolled HMAC and
// length-extension forgeries against the former.
package mac

import (
	"crypto/subtle"
	"hash"
)

// SecretPrefix computes H(key || msg).
func SecretPrefix(newHash func() hash.Hash, key, msg []byte) []byte {
	h := newHash()
	_, _ = h.Write(key)
	_, _ = h.Write(msg)

	return h.Sum(nil)
}

// VerifySecretPrefix reports whether tag authenticates msg under key.
func VerifySecretPrefix(newHash func() hash.Hash, key, msg, tag []byte) bool {
	return subtle.ConstantTimeCompare(SecretPrefix(newHash, key, msg), tag) == 1
}

// HMAC computes HMAC(key, msg) for any Merkle-Damgård hash.
func HMAC(newHash func() hash.Hash, key, msg []byte) []byte {
	h := newHash()
	size := h.BlockSize()

	if len(key) > size {
		_, _ = h.Write(key)
		key = h.Sum(nil)
		h.Reset()
	}

	padded := make([]byte, size)
	copy(padded, key)

	inner := make([]byte, size)
	outer := make([]byte, size)

	for i, b := range padded {
		inner[i] = b ^ 0x36
		outer[i] = b ^ 0x5c
	}

	_, _ = h.Write(inner)
	_, _ = h.Write(msg)
	sum := h.Sum(nil)

	h.Reset()
	_, _ = h.Write(outer)
	_, _ = h.Write(sum)

	return h.Sum(nil)
}

// Package cbcmac implements CBC-MAC and the forgeries against it: IV
// control, message concatenation, and chosen-prefix collisions.
package cbcmac

import (
	"bytes"
	"crypto/cipher"
	"fmt"

	"github.com/idelchi/cryptopals/internal/blockmode"
	"github.com/idelchi/cryptopals/internal/padding"
)

// Size is the tag size in bytes.
const Size = 16

// Sum returns the CBC-MAC of the PKCS#7 padded message: the last ciphertext block.
func Sum(block cipher.Block, iv, msg []byte) ([]byte, error) {
	return SumAligned(block, iv, padding.Pad(msg, block.BlockSize()))
}

// SumAligned returns the CBC-MAC of an already aligned message.
func SumAligned(block cipher.Block, iv, msg []byte) ([]byte, error) {
	ct, err := blockmode.CBCEncrypt(block, iv, msg)
	if err != nil {
		return nil, fmt.Errorf("computing cbc-mac: %w", err)
	}

	return ct[len(ct)-block.BlockSize():], nil
}

// Verify reports whether tag authenticates msg.
func Verify(block cipher.Block, iv, msg, tag []byte) bool {
	want, err := Sum(block, iv, msg)

	return err == nil && bytes.Equal(want, tag)
}

// ForgeIV rewrites the first block of a message authenticated with an
// attacker-controlled IV. It returns the IV under which forged keeps the tag
// of original. Both messages must agree beyond the first block.
func ForgeIV(iv, original, forged []byte) ([]byte, error) {
	if len(original) != len(forged) || len(original) < Size || !bytes.Equal(original[Size:], forged[Size:]) {
		return nil, ErrNotForgeable
	}

	out := make([]byte, Size)
	for i := range out {
		out[i] = iv[i] ^ original[i] ^ forged[i]
	}

	return out, nil
}

// Extend concatenates two messages authenticated under the same key and a zero IV.
// The result is pad(first) || (second[:16] ^ firstTag) || second[16:], which
// carries the tag of second.
func Extend(first, firstTag, second []byte) ([]byte, error) {
	if len(second) < Size {
		return nil, ErrNotForgeable
	}

	out := padding.Pad(first, Size)

	glue := make([]byte, Size)
	for i := range glue {
		glue[i] = second[i] ^ firstTag[i]
	}

	out = append(out, glue...)

	return append(out, second[Size:]...), nil
}

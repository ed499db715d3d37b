package cbcmac

import (
	"bytes"
	"crypto/cipher"

	"github.com/idelchi/cryptopals/internal/padding"
)

// Collide builds a message that starts with prefix and has the same CBC-MAC
// as original: pad(prefix) || (MAC(pad(prefix)) ^ pad(original)[:16]) ||
// pad(original)[16:], with the trailing padding stripped again.
// The prefix is extended with spaces until the glue block contains no line
// breaks, so a trailing // comment in prefix hides everything after it.
func Collide(block cipher.Block, iv, original, prefix []byte) ([]byte, error) {
	padded := padding.Pad(original, Size)
	if len(padded) <= Size {
		return nil, ErrNotForgeable
	}

	prefix = bytes.Clone(prefix)

	for range 1 << 12 {
		head := padding.Pad(prefix, Size)

		state, err := SumAligned(block, iv, head)
		if err != nil {
			return nil, err
		}

		glue := make([]byte, Size)
		for i := range glue {
			glue[i] = state[i] ^ padded[i]
		}

		if !bytes.ContainsAny(head[len(prefix):], "\r\n") && !bytes.ContainsAny(glue, "\r\n") {
			forged := append(append(head, glue...), padded[Size:]...)

			return padding.Unpad(forged, Size)
		}

		prefix = append(prefix, ' ')
	}

	return nil, ErrNotForgeable
}

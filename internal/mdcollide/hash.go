// Package mdcollide builds deliberately weak Merkle-Damgard hashes and the
// generic attacks on them: multicollisions, expandable messages, second
// preimages and herding.
package mdcollide

import (
	"bytes"
	"crypto/aes"
	"encoding/binary"
	"sync/atomic"

	"github.com/idelchi/cryptopals/internal/randutil"
)

// BlockSize is the message block size in bytes.
const BlockSize = aes.BlockSize

// Hash is a Merkle-Damgard hash with an AES based compression function
// truncated to Size bytes.
type Hash struct {
	Size int
	H0   []byte

	calls atomic.Int64
}

// New creates a hash with a state of size bytes and a zero IV.
func New(size int) *Hash {
	return &Hash{Size: size, H0: make([]byte, size)}
}

// Compress encrypts block under the state padded to an AES key and truncates the result.
func (h *Hash) Compress(state, block []byte) []byte {
	h.calls.Add(1)

	key := make([]byte, 16)
	copy(key, state)

	c, err := aes.NewCipher(key)
	if err != nil {
		panic(err)
	}

	out := make([]byte, BlockSize)
	c.Encrypt(out, block)

	return out[:h.Size]
}

// Iterate runs the compression function over an aligned message.
func (h *Hash) Iterate(state, msg []byte) []byte {
	for len(msg) >= BlockSize {
		state = h.Compress(state, msg[:BlockSize])
		msg = msg[BlockSize:]
	}

	return state
}

// Calls returns the number of compression function calls made so far.
func (h *Hash) Calls() int64 {
	return h.calls.Load()
}

// Pad appends 0x80, zeros and the 64-bit big-endian bit length.
func Pad(msg []byte) []byte {
	n := len(msg)

	out := append(bytes.Clone(msg), 0x80)
	for len(out)%BlockSize != BlockSize-8 {
		out = append(out, 0)
	}

	return binary.BigEndian.AppendUint64(out, uint64(n)*8)
}

// Sum hashes msg including the length padding.
func (h *Hash) Sum(msg []byte) []byte {
	return h.Iterate(h.H0, Pad(msg))
}

// collide searches for blocks a and b with Compress(s1, a) == Compress(s2, b).
func (h *Hash) collide(s1, s2 []byte) (a, b, out []byte) {
	left := make(map[string][]byte)
	right := make(map[string][]byte)
	same := bytes.Equal(s1, s2)

	for {
		x := randutil.Bytes(BlockSize)
		hx := string(h.Compress(s1, x))

		if y, ok := right[hx]; ok && !(same && bytes.Equal(x, y)) {
			return x, y, []byte(hx)
		}

		left[hx] = x

		y := randutil.Bytes(BlockSize)
		hy := string(h.Compress(s2, y))

		if x, ok := left[hy]; ok && !(same && bytes.Equal(x, y)) {
			return x, y, []byte(hy)
		}

		right[hy] = y
	}
}

package mdhash

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

// SHA1Size is the size of a SHA-1 digest in bytes.
const SHA1Size = 20

//nolint:gochecknoglobals
var sha1Init = []uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476, 0xc3d2e1f0}

// NewSHA1 returns a new SHA-1 hash.
func NewSHA1() hash.Hash {
	return newSHA1()
}

func newSHA1() *digest {
	d := &digest{
		h:     make([]uint32, len(sha1Init)),
		init:  sha1Init,
		order: binary.BigEndian,
		block: sha1Block,
	}
	d.Reset()

	return d
}

// SHA1 returns the SHA-1 digest of data.
func SHA1(data []byte) []byte {
	h := NewSHA1()
	_, _ = h.Write(data)

	return h.Sum(nil)
}

// SHA1FromDigest returns a SHA-1 hash that resumes from a published digest
// as if length bytes (message plus glue padding) had already been processed.
func SHA1FromDigest(sum []byte, length uint64) (hash.Hash, error) {
	state, err := stateFromDigest(sum, len(sha1Init), binary.BigEndian)
	if err != nil {
		return nil, err
	}

	return resume(newSHA1(), state, length)
}

// SHA1Padding returns the glue padding SHA-1 appends to an n-byte message.
func SHA1Padding(n uint64) []byte {
	return padding(n, binary.BigEndian)
}

func sha1Block(h []uint32, p []byte) {
	var w [80]uint32

	for i := range 16 {
		w[i] = binary.BigEndian.Uint32(p[i*4:])
	}

	for i := 16; i < 80; i++ {
		w[i] = bits.RotateLeft32(w[i-3]^w[i-8]^w[i-14]^w[i-16], 1)
	}

	a, b, c, d, e := h[0], h[1], h[2], h[3], h[4]

	for i := range 80 {
		var f, k uint32

		switch {
		case i < 20:
			f, k = (b&c)|(^b&d), 0x5a827999
		case i < 40:
			f, k = b^c^d, 0x6ed9eba1
		case i < 60:
			f, k = (b&c)|(b&d)|(c&d), 0x8f1bbcdc
		default:
			f, k = b^c^d, 0xca62c1d6
		}

		t := bits.RotateLeft32(a, 5) + f + e + k + w[i]
		a, b, c, d, e = t, a, bits.RotateLeft32(b, 30), c, d
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
	h[4] += e
}

package mdhash

import (
	"encoding/binary"
	"hash"
	"math/bits"
)

// MD4Size is the size of an MD4 digest in bytes.
const MD4Size = 16

// MD4 round constants.
const (
	MD4Round2 = 0x5a827999
	MD4Round3 = 0x6ed9eba1
)

//nolint:gochecknoglobals
var md4Init = []uint32{0x67452301, 0xefcdab89, 0x98badcfe, 0x10325476}

//nolint:gochecknoglobals
var (
	md4Shift1 = [4]int{3, 7, 11, 19}
	md4Shift2 = [4]int{3, 5, 9, 13}
	md4Shift3 = [4]int{3, 9, 11, 15}
	md4Index2 = [16]int{0, 4, 8, 12, 1, 5, 9, 13, 2, 6, 10, 14, 3, 7, 11, 15}
	md4Index3 = [16]int{0, 8, 4, 12, 2, 10, 6, 14, 1, 9, 5, 13, 3, 11, 7, 15}
)

// MD4IV returns the MD4 initial chaining value.
func MD4IV() [4]uint32 {
	return [4]uint32(md4Init)
}

// NewMD4 returns a new MD4 hash.
func NewMD4() hash.Hash {
	return newMD4()
}

func newMD4() *digest {
	d := &digest{
		h:     make([]uint32, len(md4Init)),
		init:  md4Init,
		order: binary.LittleEndian,
		block: md4Block,
	}
	d.Reset()

	return d
}

// MD4 returns the MD4 digest of data.
func MD4(data []byte) []byte {
	h := NewMD4()
	_, _ = h.Write(data)

	return h.Sum(nil)
}

// MD4FromDigest returns an MD4 hash that resumes from a published digest
// as if length bytes (message plus glue padding) had already been processed.
func MD4FromDigest(sum []byte, length uint64) (hash.Hash, error) {
	state, err := stateFromDigest(sum, len(md4Init), binary.LittleEndian)
	if err != nil {
		return nil, err
	}

	return resume(newMD4(), state, length)
}

// MD4Padding returns the glue padding MD4 appends to an n-byte message.
func MD4Padding(n uint64) []byte {
	return padding(n, binary.LittleEndian)
}

// MD4Words splits a 64-byte block into its sixteen little-endian words.
func MD4Words(p []byte) [16]uint32 {
	var x [16]uint32
	for i := range x {
		x[i] = binary.LittleEndian.Uint32(p[i*4:])
	}

	return x
}

// MD4Compress runs the MD4 compression function over a single block.
func MD4Compress(h [4]uint32, block []byte) [4]uint32 {
	s := h[:]
	md4Block(s, block)

	return [4]uint32(s)
}

// MD4F is the first-round boolean function.
func MD4F(x, y, z uint32) uint32 { return (x & y) | (^x & z) }

// MD4G is the second-round boolean function.
func MD4G(x, y, z uint32) uint32 { return (x & y) | (x & z) | (y & z) }

// MD4H is the third-round boolean function.
func MD4H(x, y, z uint32) uint32 { return x ^ y ^ z }

func md4Block(h []uint32, p []byte) {
	x := MD4Words(p)
	a, b, c, d := h[0], h[1], h[2], h[3]

	for i := range 16 {
		t := a + MD4F(b, c, d) + x[i]
		a, b, c, d = d, bits.RotateLeft32(t, md4Shift1[i%4]), b, c
	}

	for i := range 16 {
		t := a + MD4G(b, c, d) + x[md4Index2[i]] + MD4Round2
		a, b, c, d = d, bits.RotateLeft32(t, md4Shift2[i%4]), b, c
	}

	for i := range 16 {
		t := a + MD4H(b, c, d) + x[md4Index3[i]] + MD4Round3
		a, b, c, d = d, bits.RotateLeft32(t, md4Shift3[i%4]), b, c
	}

	h[0] += a
	h[1] += b
	h[2] += c
	h[3] += d
}

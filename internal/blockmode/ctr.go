package blockmode

import (
	"crypto/cipher"
	"encoding/binary"
)

// CTR is a seekable keystream generator producing AES(key, nonce || counter),
// with both nonce and counter encoded as little-endian 64-bit integers.
type CTR struct {
	block  cipher.Block
	nonce  uint64
	offset uint64
	buf    []byte
	input  []byte
}

// NewCTR creates a CTR keystream positioned at offset zero.
func NewCTR(block cipher.Block, nonce uint64) *CTR {
	return &CTR{
		block: block,
		nonce: nonce,
		buf:   make([]byte, block.BlockSize()),
		input: make([]byte, block.BlockSize()),
	}
}

// Seek moves the keystream to an absolute byte offset.
func (c *CTR) Seek(offset uint64) {
	c.offset = offset
}

// XORKeyStream XORs src with the keystream into dst and advances the stream.
// dst and src may overlap entirely.
func (c *CTR) XORKeyStream(dst, src []byte) {
	size := uint64(c.block.BlockSize())

	for i := range src {
		index := c.offset % size
		if i == 0 || index == 0 {
			c.fill(c.offset / size)
		}

		dst[i] = src[i] ^ c.buf[index]
		c.offset++
	}
}

func (c *CTR) fill(counter uint64) {
	binary.LittleEndian.PutUint64(c.input[:8], c.nonce)
	binary.LittleEndian.PutUint64(c.input[8:], counter)
	c.block.Encrypt(c.buf, c.input)
}

// CTRCrypt encrypts or decrypts data under key with the given nonce, starting at counter zero.
func CTRCrypt(block cipher.Block, nonce uint64, data []byte) []byte {
	out := make([]byte, len(data))
	NewCTR(block, nonce).XORKeyStream(out, data)

	return out
}

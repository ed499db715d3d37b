package mdhash

import (
	"encoding/binary"
	"hash"
)

// BlockSize is the block size of both SHA-1 and MD4 in bytes.
const BlockSize = 64

// digest is the Merkle-Damgård driver shared by SHA-1 and MD4.
type digest struct {
	h      []uint32
	init   []uint32
	buf    [BlockSize]byte
	nx     int
	length uint64
	order  binary.ByteOrder
	block  func(h []uint32, p []byte)
}

var _ hash.Hash = (*digest)(nil)

func (d *digest) Reset() {
	copy(d.h, d.init)
	d.nx = 0
	d.length = 0
}

func (d *digest) Size() int { return len(d.h) * 4 }

func (d *digest) BlockSize() int { return BlockSize }

func (d *digest) Write(p []byte) (int, error) {
	n := len(p)
	d.length += uint64(n)

	if d.nx > 0 {
		c := copy(d.buf[d.nx:], p)
		d.nx += c
		p = p[c:]

		if d.nx == BlockSize {
			d.block(d.h, d.buf[:])
			d.nx = 0
		}
	}

	for len(p) >= BlockSize {
		d.block(d.h, p[:BlockSize])
		p = p[BlockSize:]
	}

	if len(p) > 0 {
		d.nx = copy(d.buf[:], p)
	}

	return n, nil
}

// Sum appends the digest to b without changing the running state.
func (d *digest) Sum(b []byte) []byte {
	clone := *d
	clone.h = append([]uint32(nil), d.h...)

	_, _ = clone.Write(padding(clone.length, clone.order))

	out := make([]byte, clone.Size())
	for i, v := range clone.h {
		clone.order.PutUint32(out[i*4:], v)
	}

	return append(b, out...)
}

// padding returns the Merkle-Damgård padding for a message of n bytes:
// 0x80, zeros up to 56 mod 64, and the 64-bit bit length in the given byte order.
func padding(n uint64, order binary.ByteOrder) []byte {
	zeros := (BlockSize + 55 - int(n%BlockSize)) % BlockSize

	pad := make([]byte, 1+zeros+8)
	pad[0] = 0x80
	order.PutUint64(pad[1+zeros:], n*8)

	return pad
}

// resume builds a digest that continues from state after length processed bytes.
// length must be a multiple of BlockSize.
func resume(d *digest, state []uint32, length uint64) (*digest, error) {
	if len(state) != len(d.h) {
		return nil, ErrStateSize
	}

	if length%BlockSize != 0 {
		return nil, ErrUnalignedLength
	}

	copy(d.h, state)
	d.length = length

	return d, nil
}

func stateFromDigest(sum []byte, words int, order binary.ByteOrder) ([]uint32, error) {
	if len(sum) != words*4 {
		return nil, ErrStateSize
	}

	state := make([]uint32, words)
	for i := range state {
		state[i] = order.Uint32(sum[i*4:])
	}

	return state, nil
}

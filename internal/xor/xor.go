// Package xor provides XOR ciphers, an English plaintext scorer, and the
// statistical attacks that combine them.
package xor

import "fmt"

// Fixed XORs two equal-length buffers.
func Fixed(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d != %d", ErrLengthMismatch, len(a), len(b))
	}

	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out, nil
}

// Repeating XORs data against key, cycling the key as needed.
// An empty key returns a copy of data.
func Repeating(data, key []byte) []byte {
	out := make([]byte, len(data))
	if len(key) == 0 {
		copy(out, data)

		return out
	}

	for i := range data {
		out[i] = data[i] ^ key[i%len(key)]
	}

	return out
}

// Single XORs every byte of data with b.
func Single(data []byte, b byte) []byte {
	out := make([]byte, len(data))
	for i := range data {
		out[i] = data[i] ^ b
	}

	return out
}

// Prefix XORs the common prefix of a and b, returning a result as long as the shorter input.
func Prefix(a, b []byte) []byte {
	n := min(len(a), len(b))
	out := make([]byte, n)

	for i := range n {
		out[i] = a[i] ^ b[i]
	}

	return out
}

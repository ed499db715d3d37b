// Package padding implements PKCS#7 padding and its strict validation.
package padding

import (
	"bytes"
	"fmt"
)

// MaxBlockSize is the largest block size PKCS#7 can express in a single padding byte.
const MaxBlockSize = 255

// Pad adds PKCS#7 padding to data to make it a multiple of blockSize.
// Aligned input gains a full block of padding. The input slice is not modified.
func Pad(data []byte, blockSize int) []byte {
	if blockSize <= 0 || blockSize > MaxBlockSize {
		panic(fmt.Sprintf("padding: block size %d out of range", blockSize))
	}

	padding := blockSize - len(data)%blockSize
	out := make([]byte, len(data), len(data)+padding)
	copy(out, data)

	return append(out, bytes.Repeat([]byte{byte(padding)}, padding)...)
}

// Unpad removes PKCS#7 padding from data.
// Every padding byte is verified, and the length must be a multiple of blockSize.
func Unpad(data []byte, blockSize int) ([]byte, error) {
	length := len(data)
	if length == 0 {
		return nil, ErrEmptyData
	}

	if blockSize <= 0 || blockSize > MaxBlockSize || length%blockSize != 0 {
		return nil, fmt.Errorf("%w: %d bytes with block size %d", ErrInvalidBlockSize, length, blockSize)
	}

	padding := int(data[length-1])
	if padding == 0 || padding > blockSize {
		return nil, fmt.Errorf("%w: padding size %d", ErrInvalidPadding, padding)
	}

	for i := length - padding; i < length; i++ {
		if data[i] != byte(padding) {
			return nil, ErrInvalidPadding
		}
	}

	return data[:length-padding], nil
}

// Valid reports whether data carries well-formed PKCS#7 padding.
func Valid(data []byte, blockSize int) bool {
	_, err := Unpad(data, blockSize)

	return err == nil
}

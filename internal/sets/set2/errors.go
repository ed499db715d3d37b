package set2

import "errors"

var (
	// ErrNotECB is returned when an oracle does not behave like ECB.
	ErrNotECB = errors.New("oracle is not ecb")
	// ErrNoBlockSize is returned when the ciphertext length never grows.
	ErrNoBlockSize = errors.New("block size not detected")
	// ErrNoMatch is returned when no byte reproduces the target block.
	ErrNoMatch = errors.New("no byte matches the target block")
)

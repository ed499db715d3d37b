package blockmode

import "errors"

var (
	// ErrInvalidBlockSize is returned when data length is not aligned with the cipher block size.
	ErrInvalidBlockSize = errors.New("data is not a multiple of block size")
	// ErrInvalidIV is returned when the IV length does not match the block size.
	ErrInvalidIV = errors.New("iv length does not match block size")
)

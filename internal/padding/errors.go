package padding

import "errors"

var (
	// ErrEmptyData is returned when attempting to unpad empty input.
	ErrEmptyData = errors.New("empty data")
	// ErrInvalidPadding is returned when PKCS#7 padding is malformed.
	ErrInvalidPadding = errors.New("invalid padding")
	// ErrInvalidBlockSize is returned when the data length is not a multiple of the block size,
	// or when the block size itself is out of range.
	ErrInvalidBlockSize = errors.New("invalid block size")
)

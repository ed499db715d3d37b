package set4

import "errors"

var (
	// ErrOffset is returned for an edit outside the ciphertext.
	ErrOffset = errors.New("offset out of range")
	// ErrNoLeak is returned when the key-as-IV service accepts the forged ciphertext.
	ErrNoLeak = errors.New("no plaintext leaked")
)

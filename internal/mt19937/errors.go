package mt19937

import "errors"

var (
	// ErrSeedNotFound is returned when no seed in the search space reproduces the output.
	ErrSeedNotFound = errors.New("seed not found")
	// ErrNoKnownPlaintext is returned when the known plaintext cannot anchor a seed search.
	ErrNoKnownPlaintext = errors.New("known plaintext is empty or longer than the ciphertext")
)

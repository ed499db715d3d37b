package numtheory

import "errors"

var (
	// ErrNotInvertible is returned when an element has no modular inverse.
	ErrNotInvertible = errors.New("not invertible")
	// ErrMismatchedSystem is returned when residues and moduli do not pair up.
	ErrMismatchedSystem = errors.New("residues and moduli differ in length")
	// ErrNoSquareRoot is returned for quadratic non-residues.
	ErrNoSquareRoot = errors.New("no square root")
)

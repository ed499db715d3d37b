package dlog

import "errors"

var (
	// ErrNotFound is returned when a search exhausts its range.
	ErrNotFound = errors.New("discrete logarithm not found")
	// ErrEmptyRange is returned for an empty or unsupported search range.
	ErrEmptyRange = errors.New("invalid search range")
	// ErrNoMatch is returned when no candidate reproduces the peer's MAC.
	ErrNoMatch = errors.New("no residue reproduces the mac")
)

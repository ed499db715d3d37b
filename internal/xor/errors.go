package xor

import "errors"

var (
	// ErrLengthMismatch is returned when two buffers that must have equal length do not.
	ErrLengthMismatch = errors.New("buffers differ in length")
	// ErrEmptyInput is returned when there is nothing to analyse.
	ErrEmptyInput = errors.New("empty input")
)

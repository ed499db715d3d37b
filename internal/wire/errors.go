package wire

import "errors"

var (
	// ErrMissingField is returned when a message lacks a required field.
	ErrMissingField = errors.New("missing field")
	// ErrMalformed is returned when a payload cannot be decoded.
	ErrMalformed = errors.New("malformed message")
	// ErrUnexpectedKind is returned when a peer sends a different message than expected.
	ErrUnexpectedKind = errors.New("unexpected message kind")
)

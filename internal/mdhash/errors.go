package mdhash

import "errors"

var (
	// ErrStateSize is returned when a digest does not match the hash's state size.
	ErrStateSize = errors.New("digest size does not match hash state")
	// ErrUnalignedLength is returned when a resume length is not a whole number of blocks.
	ErrUnalignedLength = errors.New("processed length is not block aligned")
)

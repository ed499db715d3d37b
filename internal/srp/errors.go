package srp

import "errors"

var (
	// ErrRejected is returned when the server refuses a handshake step.
	ErrRejected = errors.New("server rejected request")
	// ErrBadResponse is returned when the server reply cannot be decoded.
	ErrBadResponse = errors.New("malformed server response")
	// ErrPasswordNotFound is returned when no dictionary word matches the proof.
	ErrPasswordNotFound = errors.New("password not in dictionary")
)

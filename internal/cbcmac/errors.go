package cbcmac

import "errors"

var (
	// ErrInvalidMAC is returned when a request's tag does not verify.
	ErrInvalidMAC = errors.New("invalid mac")
	// ErrMalformedRequest is returned when a verified request cannot be parsed.
	ErrMalformedRequest = errors.New("malformed request")
	// ErrNotForgeable is returned when the inputs do not admit the requested forgery.
	ErrNotForgeable = errors.New("messages cannot be forged into each other")
)

package dsa

import "errors"

var (
	// ErrNonceNotFound is returned when no nonce in range reproduces the public key.
	ErrNonceNotFound = errors.New("nonce not found")
	// ErrMalformedLog is returned for unparseable signed message logs.
	ErrMalformedLog = errors.New("malformed signed message log")
)

package rsa

import "errors"

var (
	// ErrMessageTooLong is returned when a message does not fit the modulus.
	ErrMessageTooLong = errors.New("message too long for modulus")
	// ErrInvalidPadding is returned when a decrypted block is not PKCS#1 v1.5 conforming.
	ErrInvalidPadding = errors.New("invalid pkcs#1 v1.5 padding")
	// ErrReplayed is returned when the decryption server sees a ciphertext twice.
	ErrReplayed = errors.New("ciphertext already submitted")
	// ErrNoForgery is returned when no signature can be forged for the modulus size.
	ErrNoForgery = errors.New("no forgery for this modulus")
	// ErrAttackFailed is returned when an attack does not converge.
	ErrAttackFailed = errors.New("attack did not converge")
)

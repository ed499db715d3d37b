package ecc

import "errors"

var (
	// ErrOrder is returned when a requested order does not divide the group order.
	ErrOrder = errors.New("order does not divide the group order")
	// ErrNoPoint is returned when no point of the requested order turns up.
	ErrNoPoint = errors.New("no point of the requested order")
	// ErrNoMatch is returned when no scalar reproduces the peer's MAC.
	ErrNoMatch = errors.New("no scalar reproduces the mac")
	// ErrInsufficient is returned when the small subgroups cannot pin down the key.
	ErrInsufficient = errors.New("small subgroups do not cover the key")
)

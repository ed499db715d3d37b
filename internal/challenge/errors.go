package challenge

import "errors"

var (
	// ErrMissingData is returned when a challenge's input file does not exist.
	ErrMissingData = errors.New("missing challenge data")
	// ErrUnknown is returned for a challenge number that is not registered.
	ErrUnknown = errors.New("unknown challenge")
	// ErrDuplicate is returned when a challenge number is registered twice.
	ErrDuplicate = errors.New("duplicate challenge")
	// ErrInvalidNumber is returned for challenge numbers below one.
	ErrInvalidNumber = errors.New("invalid challenge number")
	// ErrNoRun is returned when a challenge has no Run function.
	ErrNoRun = errors.New("challenge has no run function")
	// ErrMismatch is returned when a challenge produces an unexpected answer.
	ErrMismatch = errors.New("unexpected answer")
	// ErrPanic is returned when a challenge panics while running.
	ErrPanic = errors.New("challenge panicked")
)

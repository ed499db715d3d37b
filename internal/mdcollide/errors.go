package mdcollide

import "errors"

// ErrLength is returned when a message does not have the length an attack requires.
var ErrLength = errors.New("unsupported message length")

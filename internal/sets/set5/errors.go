package set5

import "errors"

// ErrNoSecret is returned when none of the predicted shared secrets decrypts a message.
var ErrNoSecret = errors.New("shared secret not predicted")

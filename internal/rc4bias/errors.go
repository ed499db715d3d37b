package rc4bias

import "errors"

// ErrTooLong is returned when the secret extends past the last biased position.
var ErrTooLong = errors.New("secret too long for the known biases")

package timingleak

import "errors"

// ErrNotRecovered is returned when no candidate completes a valid signature.
var ErrNotRecovered = errors.New("signature not recovered")

package md4collide

import "errors"

// ErrNotFound is returned when the search budget runs out.
var ErrNotFound = errors.New("no md4 collision found")

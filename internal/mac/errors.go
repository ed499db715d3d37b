package mac

import "errors"

// ErrForgeryRejected is returned when no guessed key length produced an accepted forgery.
var ErrForgeryRejected = errors.New("no forgery accepted")

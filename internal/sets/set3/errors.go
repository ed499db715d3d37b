package set3

import "errors"

// ErrNoValidPadding is returned when no forged byte yields valid padding.
var ErrNoValidPadding = errors.New("no byte produces valid padding")

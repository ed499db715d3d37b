package set7

import "errors"

// ErrRejected is returned when the bank refuses a transfer request.
var ErrRejected = errors.New("transfer rejected")

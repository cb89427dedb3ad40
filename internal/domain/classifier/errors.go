package classifier

import "errors"

// Sentinel errors for classifier calls.
var (
	ErrMalformed   = errors.New("classifier output is malformed")
	ErrUnavailable = errors.New("classifier unavailable")
	ErrEmpty       = errors.New("description is empty")
)

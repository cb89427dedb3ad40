package api

import (
	"errors"
	"fmt"
)

// Sentinel kinds for API errors.
var (
	ErrBadRequest  = errors.New("bad request")
	ErrRateLimited = errors.New("rate limited")
)

// wrap annotates err with the failing operation and an optional kind.
func wrap(op string, kind, err error) error {
	switch {
	case kind == nil:
		return fmt.Errorf("%s: %w", op, err)
	case err == nil:
		return fmt.Errorf("%s: %w", op, kind)
	default:
		return fmt.Errorf("%s: %w: %w", op, kind, err)
	}
}

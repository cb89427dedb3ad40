package catalog

import "errors"

// Sentinel errors returned by New.
var (
	ErrInvalidPoints    = errors.New("points must be a tier value")
	ErrUnknownSpecies   = errors.New("unknown species")
	ErrDuplicateSpecies = errors.New("duplicate species")
)

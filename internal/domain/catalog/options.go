package catalog

import "github.com/okian/birdhunt/pkg/logger"

// Option configures a Catalog.
type Option func(*options)

type options struct {
	overrides map[string]int
	log       logger.Logger
}

// WithPointOverrides re-points existing species. Names match
// case-insensitively; values must be tier values.
func WithPointOverrides(overrides map[string]int) Option {
	return func(o *options) {
		o.overrides = overrides
	}
}

// WithLogger sets the logger used to report unknown species.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// Package repository persists the append-only sighting log.
package repository

import (
	"github.com/okian/birdhunt/pkg/logger"
)

// Option applies a configuration option to a store.
type Option func(*settings)

type settings struct {
	log      logger.Logger
	indent   string
	fileMode uint32
}

func defaults() settings {
	return settings{log: logger.Nop(), indent: "  ", fileMode: 0o644}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *settings) {
		if l != nil {
			s.log = l
		}
	}
}

// WithIndent sets JSON indentation for the file store. Empty writes compact JSON.
func WithIndent(indent string) Option {
	return func(s *settings) {
		s.indent = indent
	}
}

// WithFileMode sets the permission bits of the file store's data file.
func WithFileMode(mode uint32) Option {
	return func(s *settings) {
		if mode != 0 {
			s.fileMode = mode
		}
	}
}

package worker

import (
	"time"

	"github.com/okian/birdhunt/pkg/logger"
)

// Option applies a configuration option to the Pool.
type Option func(*Pool)

// WithLogger sets a custom logger for the pool and its workers.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) {
		if l != nil {
			p.logger = l
		}
	}
}

// WithNotifyTimeout bounds a single notifier delivery.
func WithNotifyTimeout(d time.Duration) Option {
	return func(p *Pool) {
		if d > 0 {
			p.notifyTimeout = d
		}
	}
}

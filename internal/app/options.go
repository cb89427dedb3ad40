package service

import (
	"github.com/okian/birdhunt/internal/adapters/cache"
	"github.com/okian/birdhunt/internal/adapters/mq/worker"
	"github.com/okian/birdhunt/internal/domain/catalog"
	"github.com/okian/birdhunt/internal/domain/classifier"
	"github.com/okian/birdhunt/internal/domain/weekclock"
	"github.com/okian/birdhunt/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithCatalog replaces the built-in species list.
func WithCatalog(c *catalog.Catalog) Option {
	return func(s *Service) {
		if c != nil {
			s.catalog = c
		}
	}
}

// WithClock sets the week clock shared by every engine.
func WithClock(c *weekclock.Clock) Option {
	return func(s *Service) {
		if c != nil {
			s.clock = c
		}
	}
}

// WithSuggester enables species suggestions from descriptions.
func WithSuggester(sg *classifier.Suggester) Option {
	return func(s *Service) {
		s.suggester = sg
	}
}

// WithViewCache sets the cache for computed views.
func WithViewCache(v cache.Views) Option {
	return func(s *Service) {
		if v != nil {
			s.views = v
		}
	}
}

// WithQueueSize sets the capacity of the notification queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithWorkerCount sets the number of notification workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithNotifiers registers receivers of accepted sightings.
func WithNotifiers(n ...worker.Notifier) Option {
	return func(s *Service) {
		for _, x := range n {
			if x != nil {
				s.notifiers = append(s.notifiers, x)
			}
		}
	}
}

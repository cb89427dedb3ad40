// Package worker drains the sighting queue and hands every event to each
// registered notifier.
package worker

import (
	"context"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

const (
	defaultNotifyTimeout = 5 * time.Second
	poolShutdownTimeout  = 30 * time.Second
)

// Notifier receives confirmed sightings after they are durable.
type Notifier interface {
	Name() string
	Notify(ctx context.Context, event model.SightingEvent) error
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc struct {
	ID string
	Fn func(ctx context.Context, event model.SightingEvent) error
}

// Name implements Notifier.
func (f NotifierFunc) Name() string { return f.ID }

// Notify implements Notifier.
func (f NotifierFunc) Notify(ctx context.Context, event model.SightingEvent) error { //nolint:gocritic // hugeParam
	return f.Fn(ctx, event)
}

// Queue is the read side of the event queue.
type Queue interface {
	Dequeue() <-chan model.SightingEvent
}

// Pool runs a fixed number of workers over one queue.
type Pool struct {
	queue         Queue
	notifiers     []Notifier
	size          int
	notifyTimeout time.Duration
	logger        logger.Logger

	wg       sync.WaitGroup
	startMu  sync.Mutex
	started  bool
	shutdown chan struct{}
	done     chan struct{}
}

// NewPool creates a pool of workerCount workers. A non-positive count
// defaults to runtime.NumCPU().
func NewPool(workerCount int, q Queue, notifiers []Notifier, opts ...Option) *Pool {
	if workerCount < 1 {
		workerCount = runtime.NumCPU()
	}
	p := &Pool{
		queue:         q,
		notifiers:     notifiers,
		size:          workerCount,
		notifyTimeout: defaultNotifyTimeout,
		logger:        logger.Nop(),
		shutdown:      make(chan struct{}),
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Size returns the number of workers.
func (p *Pool) Size() int { return p.size }

// Start launches the workers. It is a no-op when called twice.
func (p *Pool) Start(ctx context.Context) {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.started {
		return
	}
	p.started = true

	for i := 0; i < p.size; i++ {
		p.wg.Add(1)
		go p.run(ctx, p.logger.Named("worker-"+strconv.Itoa(i)))
	}
	go func() {
		p.wg.Wait()
		close(p.done)
	}()
}

func (p *Pool) run(ctx context.Context, log logger.Logger) {
	defer p.wg.Done()
	events := p.queue.Dequeue()
	for {
		select {
		case <-ctx.Done():
			return
		case <-p.shutdown:
			// Drain what is already buffered, then stop.
			for {
				select {
				case event, ok := <-events:
					if !ok {
						return
					}
					p.deliver(ctx, log, event)
				default:
					return
				}
			}
		case event, ok := <-events:
			if !ok {
				return
			}
			p.deliver(ctx, log, event)
		}
	}
}

func (p *Pool) deliver(ctx context.Context, log logger.Logger, event model.SightingEvent) { //nolint:gocritic // hugeParam
	for _, n := range p.notifiers {
		nctx, cancel := context.WithTimeout(ctx, p.notifyTimeout)
		err := n.Notify(nctx, event)
		cancel()
		if err != nil {
			metrics.RecordNotifierError(n.Name())
			log.Warn(ctx, "notifier failed",
				logger.String("notifier", n.Name()),
				logger.String("event_id", event.ID),
				logger.Error(err),
			)
		}
	}
}

// Shutdown closes the queue when it supports closing, lets workers drain
// buffered events and waits for them until ctx expires.
func (p *Pool) Shutdown(ctx context.Context) error {
	if closer, ok := p.queue.(interface{ Close() error }); ok {
		if err := closer.Close(); err != nil {
			p.logger.Error(ctx, "error closing queue", logger.Error(err))
		}
	}

	p.startMu.Lock()
	started := p.started
	select {
	case <-p.shutdown:
	default:
		close(p.shutdown)
	}
	p.startMu.Unlock()
	if !started {
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, poolShutdownTimeout)
	defer cancel()
	select {
	case <-p.done:
		return nil
	case <-shutdownCtx.Done():
		p.logger.Warn(ctx, "worker pool shutdown timed out")
		return fmt.Errorf("shutdown timed out: %w", shutdownCtx.Err())
	}
}

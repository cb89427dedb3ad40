// Package queue buffers confirmed-sighting events between the write path and
// the notifiers.
//
// Enqueue never blocks: when the buffer is full the event is dropped and the
// caller carries on. A lost notification never loses a sighting, which is
// already durable in the record store.
package queue

import (
	"context"
	"sync"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/pkg/metrics"
)

const defaultQueueCapacity = 1024

// Event is the payload type flowing through the queue.
type Event = model.SightingEvent

// Queue provides non-blocking enqueue and channel-based dequeue semantics.
type Queue interface {
	// Enqueue adds an event. It returns false if the event was dropped.
	Enqueue(ctx context.Context, e Event) bool
	// Dequeue returns the channel events are delivered on. It is closed
	// when the queue is closed and drained.
	Dequeue() <-chan Event
	// Len returns the number of pending events.
	Len() int
	// Close stops accepting events.
	Close() error
	// IsClosed reports whether Close has been called.
	IsClosed() bool
}

// InMemoryQueue implements Queue using a buffered channel.
type InMemoryQueue struct {
	events   chan Event
	capacity int

	mu     sync.RWMutex
	closed bool
}

// NewInMemoryQueue creates a new in-memory queue.
func NewInMemoryQueue(opts ...Option) *InMemoryQueue {
	q := &InMemoryQueue{capacity: defaultQueueCapacity}
	for _, opt := range opts {
		opt(q)
	}
	q.events = make(chan Event, q.capacity)

	metrics.UpdateQueueCapacity(q.capacity)
	metrics.UpdateQueueSize(0)
	return q
}

// Enqueue implements Queue.
func (q *InMemoryQueue) Enqueue(ctx context.Context, e Event) bool { //nolint:gocritic // hugeParam: events travel by value
	return q.TryEnqueue(ctx, e) == nil
}

// TryEnqueue is Enqueue with the reason for a drop.
func (q *InMemoryQueue) TryEnqueue(ctx context.Context, e Event) error { //nolint:gocritic // hugeParam: events travel by value
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		metrics.RecordQueueDropped()
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		metrics.RecordQueueDropped()
		return err
	}

	select {
	case q.events <- e:
		metrics.UpdateQueueSize(len(q.events))
		return nil
	default:
		metrics.RecordQueueDropped()
		return ErrFull
	}
}

// Dequeue implements Queue.
func (q *InMemoryQueue) Dequeue() <-chan Event {
	return q.events
}

// Len implements Queue.
func (q *InMemoryQueue) Len() int {
	size := len(q.events)
	metrics.UpdateQueueSize(size)
	return size
}

// Cap returns the configured capacity.
func (q *InMemoryQueue) Cap() int { return q.capacity }

// Close implements Queue. Pending events stay readable.
func (q *InMemoryQueue) Close() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return nil
	}
	close(q.events)
	q.closed = true
	return nil
}

// IsClosed implements Queue.
func (q *InMemoryQueue) IsClosed() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.closed
}

// Package live pushes the weekly leaderboard to WebSocket clients after each
// accepted sighting.
package live

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/okian/birdhunt/internal/domain/model"
	"github.com/okian/birdhunt/internal/domain/types"
	"github.com/okian/birdhunt/pkg/logger"
	"github.com/okian/birdhunt/pkg/metrics"
)

// Message types.
const (
	MessageTypeSnapshot = "snapshot"
	MessageTypeSighting = "sighting"
	MessageTypePong     = "pong"
	MessageTypeError    = "error"
)

// Message is the envelope written to clients.
type Message struct {
	Type      string               `json:"type"`
	Sighting  *model.SightingEvent `json:"sighting,omitempty"`
	Weekly    []types.Entry        `json:"weekly,omitempty"`
	Error     string               `json:"error,omitempty"`
	Timestamp time.Time            `json:"timestamp"`
}

// StandingsFunc returns the current weekly leaderboard.
type StandingsFunc func(ctx context.Context) ([]types.Entry, error)

// Hub tracks connected clients and fans messages out to them.
type Hub struct {
	clients    map[*Client]struct{}
	register   chan *Client
	unregister chan *Client
	broadcast  chan []byte

	mu     sync.RWMutex
	source StandingsFunc
	logger logger.Logger
	now    func() time.Time

	startOnce sync.Once
	done      chan struct{}
}

// Option configures a Hub.
type Option func(*Hub)

// WithLogger sets the hub logger.
func WithLogger(l logger.Logger) Option {
	return func(h *Hub) {
		if l != nil {
			h.logger = l
		}
	}
}

// NewHub creates a hub. Call Run before serving clients.
func NewHub(opts ...Option) *Hub {
	h := &Hub{
		clients:    make(map[*Client]struct{}),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan []byte, 256),
		logger:     logger.Nop(),
		now:        time.Now,
		done:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// SetSource installs the standings provider used for snapshots and updates.
func (h *Hub) SetSource(fn StandingsFunc) {
	h.mu.Lock()
	h.source = fn
	h.mu.Unlock()
}

func (h *Hub) standings(ctx context.Context) []types.Entry {
	h.mu.RLock()
	fn := h.source
	h.mu.RUnlock()
	if fn == nil {
		return nil
	}
	entries, err := fn(ctx)
	if err != nil {
		h.logger.Warn(ctx, "live standings unavailable", logger.Error(err))
		return nil
	}
	return entries
}

// Run owns the client set until ctx is done; it then disconnects everyone.
func (h *Hub) Run(ctx context.Context) {
	h.startOnce.Do(func() {
		defer close(h.done)
		for {
			select {
			case <-ctx.Done():
				for c := range h.clients {
					close(c.send)
					delete(h.clients, c)
				}
				metrics.UpdateLiveClients(0)
				return

			case c := <-h.register:
				h.clients[c] = struct{}{}
				metrics.UpdateLiveClients(len(h.clients))
				h.logger.Debug(ctx, "live client connected", logger.String("client_id", c.id))

			case c := <-h.unregister:
				if _, ok := h.clients[c]; ok {
					delete(h.clients, c)
					close(c.send)
					metrics.UpdateLiveClients(len(h.clients))
				}

			case msg := <-h.broadcast:
				for c := range h.clients {
					select {
					case c.send <- msg:
					default:
						// Slow consumer: drop it rather than stall the hub.
						delete(h.clients, c)
						close(c.send)
					}
				}
				metrics.UpdateLiveClients(len(h.clients))
			}
		}
	})
}

// Done is closed once Run has returned.
func (h *Hub) Done() <-chan struct{} { return h.done }

// Name implements worker.Notifier.
func (h *Hub) Name() string { return "live" }

// Notify implements worker.Notifier by broadcasting the sighting together
// with fresh weekly standings.
func (h *Hub) Notify(ctx context.Context, event model.SightingEvent) error { //nolint:gocritic // hugeParam
	data, err := json.Marshal(Message{
		Type:      MessageTypeSighting,
		Sighting:  &event,
		Weekly:    h.standings(ctx),
		Timestamp: h.now(),
	})
	if err != nil {
		return err
	}
	select {
	case h.broadcast <- data:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (h *Hub) snapshot(ctx context.Context) []byte {
	data, _ := json.Marshal(Message{
		Type:      MessageTypeSnapshot,
		Weekly:    h.standings(ctx),
		Timestamp: h.now(),
	})
	return data
}

// Package cache holds read-through caches for computed leaderboard views.
// A cache only ever changes latency: every value can be recomputed from the
// record log, and the whole cache is dropped on each append.
package cache

import (
	"context"
	"fmt"

	"github.com/okian/birdhunt/internal/domain/model"
)

// Key identifies one computed view.
type Key struct {
	View string
	Week model.WeekKey
	User string
}

func (k Key) String() string {
	return fmt.Sprintf("%s:%s:%s", k.View, k.Week, k.User)
}

// Gen is the cache generation a view was computed under. Invalidate starts
// a new generation; a Put carrying an older one is discarded.
type Gen int64

// NoGen marks a lookup that must not be written back.
const NoGen Gen = -1

// Views is a cache of JSON-serialisable view values.
//
// Callers take the generation from Get before reading the record log and
// hand it back to Put, so a view computed from a log that has since grown
// is never stored as current.
type Views interface {
	// Get decodes the cached value for key into dst and reports a hit,
	// along with the generation to pass to Put on a miss.
	Get(ctx context.Context, key Key, dst any) (Gen, bool)
	// Put stores v under key if gen is still current. Failures are
	// swallowed; the cache is optional.
	Put(ctx context.Context, gen Gen, key Key, v any)
	// Invalidate drops every cached view.
	Invalidate(ctx context.Context)
	// Close releases resources.
	Close() error
}

// Nop caches nothing.
type Nop struct{}

func (Nop) Get(context.Context, Key, any) (Gen, bool) { return NoGen, false }
func (Nop) Put(context.Context, Gen, Key, any)        {}
func (Nop) Invalidate(context.Context)                {}
func (Nop) Close() error                              { return nil }

package cache

import (
	"context"
	"encoding/json"
	"sync"

	lru "github.com/hashicorp/golang-lru"

	"github.com/okian/birdhunt/pkg/metrics"
)

// Memory is an in-process LRU of encoded views. Values are stored as JSON
// so callers never share mutable state through the cache.
type Memory struct {
	mu  sync.Mutex // orders Put against Invalidate
	gen Gen
	lru *lru.Cache
}

// NewMemory creates a cache holding up to size views.
func NewMemory(size int) (*Memory, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Memory{lru: c}, nil
}

// Get implements Views.
func (m *Memory) Get(_ context.Context, key Key, dst any) (Gen, bool) {
	m.mu.Lock()
	gen := m.gen
	m.mu.Unlock()

	v, ok := m.lru.Get(key.String())
	if !ok {
		metrics.RecordViewCache(false)
		return gen, false
	}
	if err := json.Unmarshal(v.([]byte), dst); err != nil {
		m.lru.Remove(key.String())
		metrics.RecordViewCache(false)
		return gen, false
	}
	metrics.RecordViewCache(true)
	return gen, true
}

// Put implements Views.
func (m *Memory) Put(_ context.Context, gen Gen, key Key, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if gen != m.gen {
		return
	}
	m.lru.Add(key.String(), data)
}

// Invalidate implements Views.
func (m *Memory) Invalidate(context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.gen++
	m.lru.Purge()
}

// Len returns the number of cached views.
func (m *Memory) Len() int { return m.lru.Len() }

// Close implements Views.
func (m *Memory) Close() error {
	m.Invalidate(context.Background())
	return nil
}

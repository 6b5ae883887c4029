// Package memory is an in-process extraction cache for single-instance
// deployments and tests.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/arkus-mindteams/Notary-sub000/internal/ports"
)

// Compile-time interface check.
var _ ports.ExtractionCache = (*Cache)(nil)

type entry struct {
	value   []byte
	expires time.Time // zero means no expiry
}

// Cache is a map-backed ExtractionCache with optional expiry.
type Cache struct {
	mu    sync.RWMutex
	items map[string]entry
	ttl   time.Duration
	now   func() time.Time
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// New creates a Cache. A zero ttl keeps entries until the process exits.
func New(ttl time.Duration, opts ...Option) *Cache {
	c := &Cache{items: make(map[string]entry), ttl: ttl, now: time.Now}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns a copy of the value stored under key.
func (c *Cache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.RLock()
	e, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if !e.expires.IsZero() && !c.now().Before(e.expires) {
		c.mu.Lock()
		if cur, still := c.items[key]; still && cur.expires.Equal(e.expires) {
			delete(c.items, key)
		}
		c.mu.Unlock()
		return nil, false, nil
	}
	return append([]byte(nil), e.value...), true, nil
}

// Set stores a copy of value under key, replacing any previous value.
func (c *Cache) Set(_ context.Context, key string, value []byte) error {
	e := entry{value: append([]byte(nil), value...)}
	if c.ttl > 0 {
		e.expires = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = e
	c.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

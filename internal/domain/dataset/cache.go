package dataset

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/okian/podium/pkg/logger"
	"github.com/okian/podium/pkg/metrics"
)

// LoadFunc loads a dataset; Load is the default.
type LoadFunc func(ctx context.Context, src Sources) (Tables, error)

// Cache memoizes loaded Tables keyed by Sources.Key. Entries live until
// Invalidate is called; there is no automatic expiry.
type Cache struct {
	mu      sync.RWMutex
	entries map[string]Tables
	gen     map[string]uint64
	loading map[string]struct{}
	epoch   uint64
	group   singleflight.Group
	load    LoadFunc
	logger  logger.Logger
}

// CacheOption applies a configuration option to the Cache.
type CacheOption func(*Cache)

// WithLoadFunc replaces the loader, mostly for tests.
func WithLoadFunc(fn LoadFunc) CacheOption {
	return func(c *Cache) {
		if fn != nil {
			c.load = fn
		}
	}
}

// WithCacheLogger sets the logger used for load events.
func WithCacheLogger(l logger.Logger) CacheOption {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// NewCache creates an empty cache.
func NewCache(opts ...CacheOption) *Cache {
	c := &Cache{
		entries: make(map[string]Tables),
		gen:     make(map[string]uint64),
		loading: make(map[string]struct{}),
		load:    Load,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached tables for src, loading them on first use.
// Concurrent first calls share a single load.
func (c *Cache) Get(ctx context.Context, src Sources) (Tables, error) {
	key := src.Key()

	c.mu.RLock()
	t, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		metrics.RecordCacheHit()
		return t, nil
	}

	metrics.RecordCacheMiss()
	v, err, _ := c.group.Do(key, func() (interface{}, error) {
		c.mu.Lock()
		c.loading[key] = struct{}{}
		gen, epoch := c.gen[key], c.epoch
		c.mu.Unlock()

		t, err := c.load(ctx, src)

		c.mu.Lock()
		delete(c.loading, key)
		// Invalidate bumps gen and InvalidateAll bumps epoch; a result loaded
		// across either is returned but not kept.
		if err == nil && c.gen[key] == gen && c.epoch == epoch {
			c.entries[key] = t
		}
		c.mu.Unlock()
		if err != nil {
			return Tables{}, err
		}
		if c.logger != nil {
			c.logger.Info(ctx, "dataset loaded",
				logger.String("key", key),
				logger.Int("athletes", len(t.Athletes)),
				logger.Int("regions", len(t.Regions)),
			)
		}
		return t, nil
	})
	if err != nil {
		return Tables{}, err
	}
	return v.(Tables), nil
}

// Invalidate drops the entry for src so the next Get re-reads storage.
func (c *Cache) Invalidate(src Sources) {
	key := src.Key()
	c.mu.Lock()
	delete(c.entries, key)
	c.gen[key]++
	c.mu.Unlock()
	c.group.Forget(key)
}

// InvalidateAll drops every entry, including loads still in flight.
func (c *Cache) InvalidateAll() {
	c.mu.Lock()
	c.epoch++
	for key := range c.entries {
		c.group.Forget(key)
	}
	for key := range c.loading {
		c.group.Forget(key)
	}
	c.entries = make(map[string]Tables)
	c.mu.Unlock()
}

// Len returns the number of cached datasets.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

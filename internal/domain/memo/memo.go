// Package memo keeps recently computed values keyed by string.
package memo

import (
	"sync"
	"sync/atomic"
)

// node represents a single entry in the insertion-ordered list
type node[V any] struct {
	key   string
	value V
	next  *node[V]
}

// reset clears the node state for reuse
func (n *node[V]) reset() {
	var zero V
	n.key, n.value, n.next = "", zero, nil
}

// Cache is a bounded key/value store. When full, the oldest inserted
// entry is evicted. A cache with maxSize <= 0 stores nothing.
type Cache[V any] struct {
	mu       sync.RWMutex
	entries  map[string]*node[V]
	head     *node[V] // oldest entry, evicted first
	tail     *node[V] // newest entry
	maxSize  int
	size     atomic.Int64
	hits     atomic.Int64
	misses   atomic.Int64
	nodePool sync.Pool
}

// New creates a cache with configuration options.
func New[V any](opts ...Option) *Cache[V] {
	o := options{maxSize: defaultMaxSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &Cache[V]{
		entries: make(map[string]*node[V]),
		maxSize: o.maxSize,
		nodePool: sync.Pool{
			New: func() interface{} { return &node[V]{} },
		},
	}
}

// Get returns the value stored under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.RLock()
	n, ok := c.entries[key]
	var v V
	if ok {
		v = n.value
	}
	c.mu.RUnlock()

	if ok {
		c.hits.Add(1)
	} else {
		c.misses.Add(1)
	}
	return v, ok
}

// Put stores value under key. An existing entry keeps its position.
func (c *Cache[V]) Put(key string, value V) {
	if c.maxSize <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if n, ok := c.entries[key]; ok {
		n.value = value
		return
	}
	if len(c.entries) >= c.maxSize {
		c.evictOldest()
	}

	n := c.nodePool.Get().(*node[V])
	n.key, n.value = key, value
	if c.tail == nil {
		c.head = n
	} else {
		c.tail.next = n
	}
	c.tail = n
	c.entries[key] = n
	c.size.Add(1)
}

// Reset drops every entry.
func (c *Cache[V]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for n := c.head; n != nil; {
		next := n.next
		n.reset()
		c.nodePool.Put(n)
		n = next
	}
	clear(c.entries)
	c.head, c.tail = nil, nil
	c.size.Store(0)
}

// evictOldest removes the head of the list.
// Must be called with c.mu held.
func (c *Cache[V]) evictOldest() {
	n := c.head
	if n == nil {
		return
	}
	c.head = n.next
	if c.head == nil {
		c.tail = nil
	}
	delete(c.entries, n.key)
	n.reset()
	c.nodePool.Put(n)
	c.size.Add(-1)
}

// Size returns the current number of entries.
func (c *Cache[V]) Size() int64 {
	return c.size.Load()
}

// Stats returns the hit and miss counts since creation.
func (c *Cache[V]) Stats() (hits, misses int64) {
	return c.hits.Load(), c.misses.Load()
}

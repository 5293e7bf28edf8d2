package cache

import (
	"container/list"
	"context"
	"sync"
	"time"
)

// LRUCache keeps the most recently read ledger snapshots in process.
// Entries expire after ttl and the least recently used one is dropped as
// soon as the cache holds more than maxSize.
type LRUCache[T any] struct {
	mu    sync.Mutex
	limit int
	ttl   time.Duration
	now   func() time.Time
	clone func(T) T

	index map[string]*list.Element
	order *list.List // front is most recently used
}

type lruEntry[T any] struct {
	key     string
	value   T
	expires time.Time
}

// NewLRUCache creates a cache of at most maxSize entries (at least one).
func NewLRUCache[T any](maxSize int, ttl time.Duration) *LRUCache[T] {
	return &LRUCache[T]{
		limit: max(maxSize, 1),
		ttl:   ttl,
		now:   time.Now,
		index: make(map[string]*list.Element),
		order: list.New(),
	}
}

// WithClone makes the cache store and hand out copies made by clone, so a
// caller that sorts or appends to a cached record list cannot change what
// the next reader sees.
func (c *LRUCache[T]) WithClone(clone func(T) T) *LRUCache[T] {
	c.clone = clone
	return c
}

func (c *LRUCache[T]) copyOf(v T) T {
	if c.clone == nil {
		return v
	}
	return c.clone(v)
}

func (c *LRUCache[T]) Get(_ context.Context, key string) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.live(key)
	if e == nil {
		var zero T
		return zero, false
	}
	return c.copyOf(e.value), true
}

// live returns the unexpired entry for key and marks it as recently used.
// An expired entry is dropped on the way.
func (c *LRUCache[T]) live(key string) *lruEntry[T] {
	elem, ok := c.index[key]
	if !ok {
		return nil
	}
	e := elem.Value.(*lruEntry[T])
	if c.now().After(e.expires) {
		c.drop(elem)
		return nil
	}
	c.order.MoveToFront(elem)
	return e
}

func (c *LRUCache[T]) Set(_ context.Context, key string, value T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := &lruEntry[T]{key: key, value: c.copyOf(value), expires: c.now().Add(c.ttl)}
	if elem, ok := c.index[key]; ok {
		elem.Value = e
		c.order.MoveToFront(elem)
		return
	}
	c.index[key] = c.order.PushFront(e)
	for c.order.Len() > c.limit {
		c.drop(c.order.Back())
	}
}

func (c *LRUCache[T]) Delete(_ context.Context, key string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if elem, ok := c.index[key]; ok {
		c.drop(elem)
	}
}

func (c *LRUCache[T]) drop(elem *list.Element) {
	delete(c.index, elem.Value.(*lruEntry[T]).key)
	c.order.Remove(elem)
}

// CleanExpired drops every expired entry and reports how many went.
func (c *LRUCache[T]) CleanExpired() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	removed := 0
	for elem := c.order.Back(); elem != nil; {
		prev := elem.Prev()
		if now.After(elem.Value.(*lruEntry[T]).expires) {
			c.drop(elem)
			removed++
		}
		elem = prev
	}
	return removed
}

func (c *LRUCache[T]) Size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.index)
}

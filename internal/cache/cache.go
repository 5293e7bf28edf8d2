package cache

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Cache defines a generic cache interface. Implementations treat backend
// failures as misses so that callers can always fall back to the source.
type Cache[T any] interface {
	// Get retrieves a value from the cache
	Get(ctx context.Context, key string) (T, bool)

	// Set stores a value in the cache
	Set(ctx context.Context, key string, data T)

	// Delete removes a key from the cache
	Delete(ctx context.Context, key string)
}

// Nop is a Cache that stores nothing.
type Nop[T any] struct{}

func (Nop[T]) Get(context.Context, string) (T, bool) {
	var zero T
	return zero, false
}

func (Nop[T]) Set(context.Context, string, T) {}

func (Nop[T]) Delete(context.Context, string) {}

// Manager handles cache lifecycle and cleanup
type Manager struct {
	mu          sync.Mutex
	caches      []Cleaner
	stopCleanup chan struct{}
	cleanupDone chan struct{}
	started     bool
}

// Cleaner interface for caches that support cleanup
type Cleaner interface {
	CleanExpired() int
}

// NewManager creates a new cache manager
func NewManager() *Manager {
	return &Manager{
		stopCleanup: make(chan struct{}),
		cleanupDone: make(chan struct{}),
	}
}

// Register adds a cache to the manager for cleanup. Caches without local
// state (redis, nop) are ignored.
func (m *Manager) Register(c any) {
	cleaner, ok := c.(Cleaner)
	if !ok {
		return
	}
	m.mu.Lock()
	m.caches = append(m.caches, cleaner)
	m.mu.Unlock()
}

// StartCleanup begins periodic cleanup of all registered caches
func (m *Manager) StartCleanup(interval time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.started {
		return
	}
	m.started = true
	go m.cleanup(interval)
}

func (m *Manager) cleanup(interval time.Duration) {
	defer close(m.cleanupDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if n := m.CleanExpired(); n > 0 {
				slog.Debug("Expired cache entries removed", "component", "cache", "count", n)
			}
		case <-m.stopCleanup:
			return
		}
	}
}

// CleanExpired runs one cleanup pass over every registered cache.
func (m *Manager) CleanExpired() int {
	m.mu.Lock()
	caches := append([]Cleaner(nil), m.caches...)
	m.mu.Unlock()

	total := 0
	for _, c := range caches {
		total += c.CleanExpired()
	}
	return total
}

// Stop gracefully stops the cleanup routine
func (m *Manager) Stop() {
	m.mu.Lock()
	started := m.started
	m.started = false
	m.mu.Unlock()
	if started {
		close(m.stopCleanup)
		<-m.cleanupDone
	}
}

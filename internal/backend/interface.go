package backend

import (
	"context"
	"time"

	"ledgerpro/internal/cache"
	"ledgerpro/internal/services"
	"ledgerpro/internal/storage"
)

// CleanupFunc represents a cleanup function for resources
type CleanupFunc func() error

// BackendResult holds the wired service and what must be released on shutdown.
type BackendResult struct {
	Service *services.LedgerService
	Store   *storage.Store
	Caches  *cache.Manager
	Cleanup CleanupFunc
}

// Factory creates backends based on configuration
type Factory interface {
	// CreateBackend opens and initialises storage, then wires the record
	// cache and the optional event publisher around it.
	CreateBackend(ctx context.Context, config Config) (*BackendResult, error)

	// CreateStore opens and initialises storage only.
	CreateStore(ctx context.Context, config Config) (*storage.Store, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Storage
	Type         BackendType
	SQLiteDBPath string
	DatabaseURL  string

	// Record list cache
	Cache     CacheType
	RedisURL  string
	CacheTTL  time.Duration
	CacheSize int

	// AMQP (optional)
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend   BackendType = "sqlite"
	PostgresBackend BackendType = "postgres"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, PostgresBackend:
		return true
	default:
		return false
	}
}

// CacheType selects where record lists are cached.
type CacheType string

const (
	MemoryCache CacheType = "memory"
	RedisCache  CacheType = "redis"
	NoCache     CacheType = "none"
)

func (ct CacheType) IsValid() bool {
	switch ct {
	case MemoryCache, RedisCache, NoCache:
		return true
	default:
		return false
	}
}

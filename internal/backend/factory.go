package backend

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"ledgerpro/internal/amqp"
	"ledgerpro/internal/cache"
	"ledgerpro/internal/core"
	"ledgerpro/internal/services"
	"ledgerpro/internal/storage"
)

const cacheCleanupInterval = time.Minute

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

// NewFactory creates a new backend factory
func NewFactory(logger *slog.Logger) Factory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{
		logger: logger,
	}
}

// CreateStore implements Factory.CreateStore
func (f *DefaultFactory) CreateStore(ctx context.Context, config Config) (*storage.Store, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	var (
		store *storage.Store
		err   error
	)
	switch config.Type {
	case SQLiteBackend:
		store, err = storage.NewSQLiteStore(config.SQLiteDBPath)
	case PostgresBackend:
		store, err = storage.NewPostgresStore(config.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported backend type: %s", config.Type)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open %s store: %w", config.Type, err)
	}

	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to initialize %s store: %w", config.Type, err)
	}

	f.logger.Info("Initialized storage", "backend", config.Type)
	return store, nil
}

// CreateBackend implements Factory.CreateBackend
func (f *DefaultFactory) CreateBackend(ctx context.Context, config Config) (*BackendResult, error) {
	store, err := f.CreateStore(ctx, config)
	if err != nil {
		return nil, err
	}

	manager := cache.NewManager()
	records, closeCache, err := f.createCache(ctx, config, manager)
	if err != nil {
		store.Close()
		return nil, err
	}

	publisher := f.createPublisher(config)
	svc := services.NewLedgerService(store, records, publisher)
	manager.StartCleanup(cacheCleanupInterval)

	f.logger.Info("Initialized ledger backend",
		"backend", config.Type,
		"cache", config.Cache,
		"amqp_enabled", publisher != nil)

	return &BackendResult{
		Service: svc,
		Store:   store,
		Caches:  manager,
		Cleanup: func() error {
			manager.Stop()
			return errors.Join(svc.Close(), closeCache())
		},
	}, nil
}

func (f *DefaultFactory) createCache(ctx context.Context, config Config, manager *cache.Manager) (cache.Cache[[]core.Record], func() error, error) {
	noop := func() error { return nil }

	switch config.Cache {
	case RedisCache:
		client, err := cache.NewRedisClient(ctx, config.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to initialize redis cache: %w", err)
		}
		return cache.NewRedisCache[[]core.Record](client, "ledgerpro:", config.CacheTTL), client.Close, nil
	case NoCache:
		return cache.Nop[[]core.Record]{}, noop, nil
	default:
		lru := cache.NewLRUCache[[]core.Record](config.CacheSize, config.CacheTTL).WithClone(slices.Clone[[]core.Record])
		manager.Register(lru)
		return lru, noop, nil
	}
}

// createPublisher returns nil when AMQP is not configured or unreachable;
// records are then only stored locally.
func (f *DefaultFactory) createPublisher(config Config) services.Publisher {
	if config.AMQPURL == "" {
		return nil
	}
	client, err := amqp.NewClient(config.AMQPURL, config.AMQPExchange, config.AMQPQueue)
	if err != nil {
		f.logger.Warn("Failed to initialize AMQP client, continuing without sync", "error", err)
		return nil
	}
	f.logger.Info("Initialized AMQP client",
		"exchange", config.AMQPExchange,
		"queue", config.AMQPQueue)
	return client
}

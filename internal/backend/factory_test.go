package backend

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ledgerpro/internal/config"
	"ledgerpro/internal/core"
)

func sqliteConfig(t *testing.T, c CacheType) Config {
	return Config{
		Type:         SQLiteBackend,
		SQLiteDBPath: filepath.Join(t.TempDir(), "nested", "ledger.db"),
		Cache:        c,
		CacheTTL:     time.Minute,
		CacheSize:    8,
	}
}

func TestCreateBackend(t *testing.T) {
	for _, c := range []CacheType{MemoryCache, NoCache} {
		t.Run(string(c), func(t *testing.T) {
			res, err := NewFactory(nil).CreateBackend(context.Background(), sqliteConfig(t, c))
			if err != nil {
				t.Fatalf("CreateBackend: %v", err)
			}
			defer func() {
				if err := res.Cleanup(); err != nil {
					t.Errorf("Cleanup: %v", err)
				}
			}()

			ledgers, err := res.Service.ListLedgers(context.Background())
			if err != nil || len(ledgers) != 1 || ledgers[0].Name != core.DefaultLedgerName {
				t.Fatalf("ListLedgers = %v, %v", ledgers, err)
			}
			if res.Store.Dialect() != "sqlite" {
				t.Errorf("dialect = %s", res.Store.Dialect())
			}
		})
	}
}

func TestCreateBackend_UnreachableRedis(t *testing.T) {
	cfg := sqliteConfig(t, RedisCache)
	cfg.RedisURL = "127.0.0.1:1"
	_, err := NewFactory(nil).CreateBackend(context.Background(), cfg)
	if err == nil || !strings.Contains(err.Error(), "redis") {
		t.Fatalf("expected redis error, got %v", err)
	}
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{"sqlite ok", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", Cache: NoCache}, ""},
		{"bad type", Config{Type: "sheets", Cache: NoCache}, "invalid backend type"},
		{"sqlite path", Config{Type: SQLiteBackend, Cache: NoCache}, "SQLite database path"},
		{"postgres url", Config{Type: PostgresBackend, Cache: NoCache}, "database URL"},
		{"bad cache", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", Cache: "disk"}, "invalid cache type"},
		{"redis url", Config{Type: SQLiteBackend, SQLiteDBPath: "x.db", Cache: RedisCache}, "redis URL"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() = %v, want %q", err, tt.wantErr)
			}
		})
	}
}

func TestFromAppConfig(t *testing.T) {
	if _, err := FromAppConfig(nil); err == nil {
		t.Error("expected error for nil config")
	}

	app := &config.Config{
		DataBackend:  "postgres",
		DatabaseURL:  "postgres://localhost/ledger",
		CacheBackend: "memory",
		CacheTTL:     time.Minute,
		CacheSize:    4,
		AMQPURL:      "amqp://localhost",
		AMQPExchange: "ledgerpro",
		AMQPQueue:    "mirror_records",
	}
	cfg, err := FromAppConfig(app)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Type != PostgresBackend || cfg.DatabaseURL != app.DatabaseURL || cfg.Cache != MemoryCache || cfg.AMQPQueue != "mirror_records" {
		t.Errorf("FromAppConfig = %+v", cfg)
	}
}

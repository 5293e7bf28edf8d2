package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// HTTP Server
	Port        string
	CORSOrigins []string

	// Database
	DataBackend  string
	SQLiteDBPath string
	DatabaseURL  string

	// Record list cache
	CacheBackend string
	RedisURL     string
	CacheTTL     time.Duration
	CacheSize    int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets mirror
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Presentation
	DefaultLocale string
	LogLevel      string
}

var (
	validBackends      = []string{"sqlite", "postgres"}
	validCacheBackends = []string{"memory", "redis", "none"}
	validLocales       = []string{"CN", "EN"}
	validLogLevels     = []string{"debug", "info", "warn", "error"}
)

func Load() *Config {
	cfg := &Config{
		Port:        getEnv("PORT", "8081"),
		CORSOrigins: getEnvList("CORS_ORIGINS", []string{"*"}),

		DataBackend:  getEnv("DATA_BACKEND", "sqlite"),
		SQLiteDBPath: getEnv("SQLITE_DB_PATH", "./data/account.db"),
		DatabaseURL:  getEnv("DATABASE_URL", ""),

		CacheBackend: getEnv("CACHE_BACKEND", "memory"),
		RedisURL:     getEnv("REDIS_URL", ""),
		CacheTTL:     getEnvDuration("CACHE_TTL", 5*time.Minute),
		CacheSize:    getEnvInt("CACHE_SIZE", 64),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "ledgerpro"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "mirror_records"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Records"),

		DefaultLocale: strings.ToUpper(getEnv("DEFAULT_LOCALE", "CN")),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
	}

	return cfg
}

// Validate validates the configuration and returns an error listing every problem found
func (c *Config) Validate() error {
	var errors []string

	// Validate port
	if port, err := strconv.Atoi(c.Port); err != nil {
		errors = append(errors, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errors = append(errors, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	// Validate data backend
	if !slices.Contains(validBackends, c.DataBackend) {
		errors = append(errors, fmt.Sprintf("invalid data backend '%s': must be one of %v", c.DataBackend, validBackends))
	}

	switch c.DataBackend {
	case "sqlite":
		if c.SQLiteDBPath == "" {
			errors = append(errors, "SQLite database path cannot be empty when using sqlite backend")
		} else {
			// Check if directory exists or can be created
			dir := filepath.Dir(c.SQLiteDBPath)
			if dir != "." && dir != "" {
				if _, err := os.Stat(dir); os.IsNotExist(err) {
					if err := os.MkdirAll(dir, 0755); err != nil {
						errors = append(errors, fmt.Sprintf("cannot create SQLite database directory '%s': %v", dir, err))
					}
				}
			}
		}
	case "postgres":
		if c.DatabaseURL == "" {
			errors = append(errors, "DATABASE_URL is required when using postgres backend")
		} else if u, err := url.Parse(c.DatabaseURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL: %v", err))
		} else if u.Scheme != "postgres" && u.Scheme != "postgresql" {
			errors = append(errors, fmt.Sprintf("invalid DATABASE_URL scheme '%s': must be 'postgres' or 'postgresql'", u.Scheme))
		}
	}

	// Validate cache
	if !slices.Contains(validCacheBackends, c.CacheBackend) {
		errors = append(errors, fmt.Sprintf("invalid cache backend '%s': must be one of %v", c.CacheBackend, validCacheBackends))
	}
	if c.CacheBackend == "redis" && c.RedisURL == "" {
		errors = append(errors, "REDIS_URL is required when using redis cache backend")
	}
	if c.CacheBackend != "none" {
		if c.CacheTTL < time.Second {
			errors = append(errors, fmt.Sprintf("invalid cache TTL %v: must be at least 1 second", c.CacheTTL))
		}
		if c.CacheSize < 1 {
			errors = append(errors, fmt.Sprintf("invalid cache size %d: must be at least 1", c.CacheSize))
		}
	}

	// Validate AMQP URL if provided
	if c.AMQPURL != "" {
		if parsedURL, err := url.Parse(c.AMQPURL); err != nil {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsedURL.Scheme != "amqp" && parsedURL.Scheme != "amqps" {
			errors = append(errors, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsedURL.Scheme))
		}
		if c.AMQPExchange == "" {
			errors = append(errors, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errors = append(errors, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if !slices.Contains(validLocales, c.DefaultLocale) {
		errors = append(errors, fmt.Sprintf("invalid default locale '%s': must be one of %v", c.DefaultLocale, validLocales))
	}
	if !slices.Contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("invalid log level '%s': must be one of %v", c.LogLevel, validLogLevels))
	}

	// Return combined errors
	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errors, "\n- "))
	}

	return nil
}

// ValidateWorker checks the settings the sheet mirror worker needs on top of
// Validate. Without GOOGLE_SPREADSHEET_ID the worker mirrors into memory.
func (c *Config) ValidateWorker() error {
	var errors []string
	if c.AMQPURL == "" {
		errors = append(errors, "AMQP_URL is required for the mirror worker")
	}
	if c.GoogleSpreadsheetID != "" && c.GoogleSheetName == "" {
		errors = append(errors, "GOOGLE_SHEET_NAME is required for the mirror worker")
	}
	if len(errors) > 0 {
		return fmt.Errorf("worker configuration invalid:\n- %s", strings.Join(errors, "\n- "))
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Package config provides centralized configuration management for the application.
// It loads configuration from environment variables with sensible defaults and
// validates all settings on startup to fail fast on misconfiguration.
package config

import (
	"strconv"
	"time"
)

// Config holds all application configuration.
// All settings can be configured via environment variables.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Import   ImportConfig
	Logging  LoggingConfig
	Metrics  MetricsConfig
	History  HistoryConfig

	// callbacks holds the layers read from Import.CallbacksFile.
	callbacks []map[string][]string
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	// Host is the interface to bind to (default: 0.0.0.0)
	Host string `env:"SERVER_HOST" envDefault:"0.0.0.0"`

	// Port is the port to listen on (default: 8080)
	Port int `env:"SERVER_PORT" envDefault:"8080" validate:"min=1,max=65535"`

	// ReadTimeout is the maximum duration for reading request body (default: 15s)
	ReadTimeout time.Duration `env:"SERVER_READ_TIMEOUT" envDefault:"15s" validate:"gte=0"`

	// WriteTimeout is the maximum duration for writing the response (default: 0, imports can run long)
	WriteTimeout time.Duration `env:"SERVER_WRITE_TIMEOUT" envDefault:"0s" validate:"gte=0"`

	// IdleTimeout is the keep-alive timeout (default: 60s)
	IdleTimeout time.Duration `env:"SERVER_IDLE_TIMEOUT" envDefault:"60s"`

	// ShutdownTimeout is the maximum duration to wait for graceful shutdown (default: 30s)
	ShutdownTimeout time.Duration `env:"SERVER_SHUTDOWN_TIMEOUT" envDefault:"30s" validate:"gt=0"`

	// RequestTimeout is the middleware timeout for non-import requests (default: 60s)
	RequestTimeout time.Duration `env:"SERVER_REQUEST_TIMEOUT" envDefault:"60s" validate:"gt=0"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	// Driver selects the store: postgres, mysql or sqlite (default: postgres)
	Driver string `env:"DB_DRIVER" envDefault:"postgres" validate:"oneof=postgres mysql sqlite"`

	// URL is the connection string or DSN for Driver (required)
	URL string `env:"DATABASE_URL,required" validate:"required"`

	// MaxConns is the maximum number of connections in the pool (default: 20)
	MaxConns int `env:"DB_MAX_CONNS" envDefault:"20" validate:"gt=0,gtefield=MinConns"`

	// MinConns is the minimum number of connections to keep open (default: 4)
	MinConns int `env:"DB_MIN_CONNS" envDefault:"4" validate:"gte=0"`

	// MaxConnLifetime is the maximum lifetime of a connection (default: 1h)
	MaxConnLifetime time.Duration `env:"DB_MAX_CONN_LIFETIME" envDefault:"1h"`

	// MaxConnIdleTime is the maximum idle time before a connection is closed (default: 30m)
	MaxConnIdleTime time.Duration `env:"DB_MAX_CONN_IDLE_TIME" envDefault:"30m"`

	// Bootstrap creates the catalog schema and core attributes on start (sqlite only)
	Bootstrap bool `env:"DB_BOOTSTRAP" envDefault:"false"`
}

// ImportConfig holds CSV import settings.
type ImportConfig struct {
	// SourceDateFormat is the PHP date() style format of datetime columns
	SourceDateFormat string `env:"IMPORT_SOURCE_DATE_FORMAT" envDefault:"n/d/y, g:i A" validate:"required"`

	// CallbacksFile is a JSON file of callback override layers (optional)
	CallbacksFile string `env:"IMPORT_CALLBACKS_FILE"`

	// StoreID scopes attribute values and option lookups (default: 0, admin store)
	StoreID int64 `env:"IMPORT_STORE_ID" envDefault:"0" validate:"gte=0"`

	// WebsiteID is assigned to products without website_ids (default: 1, 0 disables)
	WebsiteID int64 `env:"IMPORT_WEBSITE_ID" envDefault:"1" validate:"gte=0"`

	// StockID is the inventory stock rows are written to (default: 1)
	StockID int64 `env:"IMPORT_STOCK_ID" envDefault:"1" validate:"gt=0"`

	// LenientNumeric casts non-numeric int/float input to its numeric prefix instead of failing the row
	LenientNumeric bool `env:"IMPORT_LENIENT_NUMERIC" envDefault:"false"`

	// Mode is the default run mode: add-update, delete or replace
	Mode string `env:"IMPORT_MODE" envDefault:"add-update" validate:"oneof=add-update delete replace"`

	// DefaultAttributeSet is used for rows without attribute_set_code (default: Default)
	DefaultAttributeSet string `env:"IMPORT_DEFAULT_ATTRIBUTE_SET" envDefault:"Default" validate:"required"`

	// MaxFileSize is the maximum accepted request body in bytes (default: 100MB)
	MaxFileSize int64 `env:"IMPORT_MAX_FILE_SIZE" envDefault:"104857600" validate:"gt=0"`

	// MaxConcurrent is the maximum number of parallel runs (default: 2)
	MaxConcurrent int `env:"IMPORT_MAX_CONCURRENT" envDefault:"2" validate:"gt=0"`

	// MaxWaitTime is how long a run waits for a slot (default: 30s)
	MaxWaitTime time.Duration `env:"IMPORT_MAX_WAIT_TIME" envDefault:"30s" validate:"gt=0"`

	// Timeout bounds a single run (default: 10m)
	Timeout time.Duration `env:"IMPORT_TIMEOUT" envDefault:"10m" validate:"gt=0"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" envDefault:"text" validate:"oneof=text json"`
}

// MetricsConfig holds Prometheus settings.
type MetricsConfig struct {
	// Enabled exposes /metrics and records importer metrics (default: true)
	Enabled bool `env:"METRICS_ENABLED" envDefault:"true"`
}

// HistoryConfig holds import run history retention settings.
type HistoryConfig struct {
	// Retention is how long finished runs are kept (default: 30 days)
	Retention time.Duration `env:"HISTORY_RETENTION" envDefault:"720h" validate:"gt=0"`

	// PruneInterval is how often the serve command prunes old runs (default: 24h)
	PruneInterval time.Duration `env:"HISTORY_PRUNE_INTERVAL" envDefault:"24h" validate:"gt=0"`
}

// Addr returns the server listen address in host:port format.
func (c *ServerConfig) Addr() string {
	return c.Host + ":" + strconv.Itoa(c.Port)
}

// Callbacks returns the callback override layers loaded from
// Import.CallbacksFile, in file order.
func (c *Config) Callbacks() []map[string][]string {
	return c.callbacks
}

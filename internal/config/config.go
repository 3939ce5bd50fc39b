// Package config provides centralized configuration for the ingester.
// It loads settings from environment variables with sensible defaults and
// validates everything on startup to fail fast on misconfiguration.
package config

import "time"

// Config holds all ingester configuration.
// All settings can be configured via environment variables.
type Config struct {
	Watch   WatchConfig
	Storage StorageConfig
	Metrics MetricsConfig
	Logging LoggingConfig
}

// WatchConfig holds directory watching settings.
type WatchConfig struct {
	// Dir is the directory scanned for tabular files (required)
	Dir string `env:"WATCH_DIR" required:"true"`

	// Trigger selects how scans are driven: poll, notify, or cron (default: poll)
	Trigger string `env:"WATCH_TRIGGER" default:"poll"`

	// Interval is the delay between poll scans (default: 60s)
	Interval time.Duration `env:"WATCH_INTERVAL" default:"60s"`

	// CronSpec is the schedule used when Trigger is cron (default: every minute)
	CronSpec string `env:"WATCH_CRON" default:"* * * * *"`
}

// StorageConfig holds sink connection settings.
type StorageConfig struct {
	// Kind selects the storage backend: mysql, postgres, sqlite, mssql (default: mysql)
	Kind string `env:"STORAGE_KIND" default:"mysql"`

	// DSN is the backend connection string (required)
	// Supports both STORAGE_DSN and DATABASE_URL for compatibility
	DSN string `env:"STORAGE_DSN" envAlt:"DATABASE_URL" required:"true"`

	// BatchSize is the number of records per INSERT statement (default: 500)
	BatchSize int `env:"STORAGE_BATCH_SIZE" default:"500"`
}

// MetricsConfig holds metrics emission settings.
type MetricsConfig struct {
	// Backend selects the metrics sink: none or datadog (default: none)
	Backend string `env:"METRICS_BACKEND" default:"none"`

	// FlushInterval is how often buffered metrics are submitted (default: 60s)
	FlushInterval time.Duration `env:"METRICS_FLUSH_INTERVAL" default:"60s"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: info)
	Level string `env:"LOG_LEVEL" default:"info"`

	// Format is the log format: text or json (default: text)
	Format string `env:"LOG_FORMAT" default:"text"`
}

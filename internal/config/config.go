// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Defaults come from New; Load layers file and env settings on top.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// DBPath is the SQLite database file; ":memory:" keeps everything
	// in-process, which is what the tests use.
	DBPath string `koanf:"db_path"`

	// QueueSize bounds the in-memory extraction queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of extraction workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the upload deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxListLimit caps GET /cases?limit.
	MaxListLimit int `koanf:"max_list_limit"`

	// DefaultYearsExperience is assumed for attorneys absent from both the
	// time entry and the roster.
	DefaultYearsExperience int `koanf:"default_years_experience"`

	// GeminiAPIKey enables model-backed extraction. Empty means documents
	// are parsed with the offline fake, useful for local development.
	GeminiAPIKey string `koanf:"gemini_api_key"`

	// GeminiModel overrides the extraction model name.
	GeminiModel string `koanf:"gemini_model"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":9080",
		DBPath:                 "lemonaid.db",
		QueueSize:              1024,
		WorkerCount:            runtime.NumCPU(),
		DedupeSize:             10_000,
		MaxListLimit:           100,
		DefaultYearsExperience: 5,
	}
}

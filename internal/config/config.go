// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Keep fields unexported where possible and use functional options.
// - Provide New(...Option) initializer to build a Config with defaults.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// RegistrationQueueSize bounds the in-memory registration queue.
	RegistrationQueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of indexing workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets the size of the deduplication cache.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxRosterLimit caps GET /mentors/top?limit.
	MaxRosterLimit int `koanf:"max_roster_limit"`

	// MaxMentorsPerRequest caps the candidate pool size accepted by
	// POST /matchmaking.
	MaxMentorsPerRequest int `koanf:"max_mentors_per_request"`
}

// New creates a Config using provided options. Context is accepted first to
// satisfy the project-wide convention; it is reserved for future use (e.g.,
// loading from env/files) and is currently unused.
func New(_ context.Context) *Config {
	c := &Config{
		LogLevel:              "info",
		Addr:                  ":9080",
		RegistrationQueueSize: 100_000,
		WorkerCount:           runtime.NumCPU() * 10,
		DedupeSize:            250_000,
		MaxRosterLimit:        100,
		MaxMentorsPerRequest:  1000,
	}
	return c
}

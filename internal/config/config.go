// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig; loader failures wrap ErrLoadConfig.
package config

import (
	"context"
	"runtime"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects text or json log lines.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// QueueSize bounds the in-memory audit queue.
	QueueSize int `koanf:"queue_size"`

	// WorkerCount sets the number of audit workers.
	WorkerCount int `koanf:"worker_count"`

	// DedupeSize sets how many audit ids are remembered for idempotency.
	DedupeSize int `koanf:"dedupe_size"`

	// MaxReports bounds the number of retained audit reports.
	MaxReports int `koanf:"max_reports"`

	// MaxAuditPairs caps the pairs accepted in one audit.
	MaxAuditPairs int `koanf:"max_audit_pairs"`

	// DefaultBackground is used when a request omits the background.
	DefaultBackground string `koanf:"default_background"`

	// SuggestStrategy is the suggestion strategy used when a request names none.
	SuggestStrategy string `koanf:"suggest_strategy"`

	// Replacements extends the built-in substitution table (from -> to).
	// YAML keys starting with '#' must be quoted.
	Replacements map[string]string `koanf:"replacements"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":9080",
		QueueSize:         1024,
		WorkerCount:       runtime.NumCPU(),
		DedupeSize:        10_000,
		MaxReports:        1000,
		MaxAuditPairs:     500,
		DefaultBackground: "#ffffff",
		SuggestStrategy:   "step",
	}
}

// Package auditcli evaluates a YAML palette of color pairs, locally or
// against a running service, and prints a contrast report.
package auditcli

import "time"

// Config holds configuration for one audit run.
type Config struct {
	PalettePath string        // YAML palette file
	Background  string        // Background for pairs that omit one
	Suggest     bool          // Propose fixes for failing pairs
	Strategy    string        // Suggestion strategy: step or bisect
	BaseURL     string        // Service URL; empty means evaluate locally
	Timeout     time.Duration // HTTP request timeout and report wait
	LogLevel    string        // debug, info, warn, error
}

// Entry is one pair of a palette file.
type Entry struct {
	Foreground  string `koanf:"foreground"`
	Background  string `koanf:"background"`
	Category    string `koanf:"category"`
	Usage       string `koanf:"usage"`
	Replacement string `koanf:"replacement"` // Proposed foreground to compare against
}

// Palette is the content of a palette file.
type Palette struct {
	Background string  `koanf:"background"` // Default background of the file
	Pairs      []Entry `koanf:"pairs"`
}

package auditcli

import (
	"fmt"
	"io"

	"github.com/okian/wcag/pkg/logger"
)

// SetupLogging sends log lines to w so the report on stdout stays clean.
func SetupLogging(w io.Writer, level string) error {
	if err := logger.Init(logger.WithWriter(w)); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if level == "" {
		return nil
	}
	if err := logger.SetLevelString(level); err != nil {
		return fmt.Errorf("invalid log level %q: %w", level, err)
	}
	return nil
}

// ShowHelp prints usage information for the audit tool.
func ShowHelp(w io.Writer) {
	_, _ = io.WriteString(w, `WCAG Contrast Audit
===================

Evaluates the color pairs of a YAML palette against WCAG 2.1 contrast
thresholds and prints a report. Exits non-zero when a pair fails AA.

Usage:
  contrast-audit -palette palette.yaml [options]

Options:
  -palette string
        Palette file (required)
  -background string
        Background for pairs that omit one (default: palette background, then #ffffff)
  -suggest
        Propose a compliant foreground for failing pairs
  -strategy string
        Suggestion strategy: step or bisect (default "step")
  -url string
        Evaluate through a running service instead of locally
  -timeout duration
        HTTP request timeout and report wait (default 30s)
  -log-level string
        Log level: debug, info, warn, error (default "warn")
  -help
        Show this help message

Palette file:
  background: "#ffffff"
  pairs:
    - foreground: "#9CA3AF"
      usage: breadcrumb separator
      replacement: "#6f7682"
    - foreground: "#E5E7EB"
      category: ui
      usage: card border

Examples:
  # Check a palette locally and propose fixes
  contrast-audit -palette palette.yaml -suggest

  # Submit the palette to a running service
  contrast-audit -palette palette.yaml -url http://localhost:9080
`)
}

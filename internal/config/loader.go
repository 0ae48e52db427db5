package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/suggest"
)

// Environment variable naming.
const (
	EnvPrefix     = "WCAG_"
	EnvConfigFile = "WCAG_CONFIG"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):
//  1. defaults (New(ctx))
//  2. file (YAML) if WCAG_CONFIG is set
//  3. env (prefix WCAG_)
func Load(ctx context.Context) (*Config, error) {
	base := New(ctx)

	k := koanf.New(".")

	if path := os.Getenv(EnvConfigFile); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// WCAG_QUEUE_SIZE -> queue_size (flat keys, underscores preserved).
	envProvider := env.Provider(EnvPrefix, ".", func(s string) string {
		if s == EnvConfigFile {
			return ""
		}
		return strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	cfg.DefaultBackground = strings.TrimSpace(cfg.DefaultBackground)

	if err := cfg.Validate(ctx); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c *Config) Validate(_ context.Context) error {
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	if _, err := color.ParseHex(c.DefaultBackground); err != nil {
		return fmt.Errorf("%w: default_background: %w", ErrInvalidConfig, err)
	}
	if _, err := suggest.New(c.SuggestStrategy); err != nil {
		return fmt.Errorf("%w: suggest_strategy: %w", ErrInvalidConfig, err)
	}
	for from, to := range c.Replacements {
		if _, err := color.ParseHex(from); err != nil {
			return fmt.Errorf("%w: replacements key: %w", ErrInvalidConfig, err)
		}
		if _, err := color.ParseHex(to); err != nil {
			return fmt.Errorf("%w: replacements[%s]: %w", ErrInvalidConfig, from, err)
		}
	}
	return nil
}

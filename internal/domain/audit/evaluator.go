// Package audit evaluates batches of color pairs.
package audit

import (
	"context"
	"fmt"
	"regexp"

	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
	"github.com/okian/wcag/internal/domain/model"
)

// Default evaluator configuration constants.
const (
	defaultMaxPairs = 500
)

// auditID limits client-chosen ids to what fits in one URL path segment.
var auditID = regexp.MustCompile(`^[A-Za-z0-9._-]{1,128}$`) //nolint:gochecknoglobals // compiled once

// Option applies a configuration option to the InMemoryEvaluator.
type Option func(*InMemoryEvaluator)

// WithDefaultBackground sets the background used for pairs that omit one.
func WithDefaultBackground(bg color.Color) Option {
	return func(e *InMemoryEvaluator) {
		e.background = bg
	}
}

// WithMaxPairs caps the number of pairs per audit. maxPairs <= 0 keeps the default.
func WithMaxPairs(maxPairs int) Option {
	return func(e *InMemoryEvaluator) {
		if maxPairs > 0 {
			e.maxPairs = maxPairs
		}
	}
}

// Evaluator computes results for every pair of an audit.
type Evaluator interface {
	// Validate checks an audit without evaluating it.
	Validate(a model.Audit) error
	// Evaluate returns one result per pair in submission order, honoring ctx.
	Evaluate(ctx context.Context, a model.Audit) ([]model.PairResult, error)
}

// InMemoryEvaluator implements Evaluator with the contrast package.
type InMemoryEvaluator struct {
	background color.Color
	maxPairs   int
}

// NewInMemoryEvaluator creates an evaluator with configuration options.
func NewInMemoryEvaluator(opts ...Option) *InMemoryEvaluator {
	e := &InMemoryEvaluator{
		background: color.White,
		maxPairs:   defaultMaxPairs,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// MaxPairs returns the configured pair limit.
func (e *InMemoryEvaluator) MaxPairs() int { return e.maxPairs }

// Validate implements Evaluator.
func (e *InMemoryEvaluator) Validate(a model.Audit) error { //nolint:gocritic // hugeParam: audits are values end to end
	if a.ID != "" && (!auditID.MatchString(a.ID) || a.ID == "." || a.ID == "..") {
		return fmt.Errorf("%w: %q", ErrInvalidID, a.ID)
	}
	if len(a.Pairs) == 0 {
		return ErrNoPairs
	}
	if len(a.Pairs) > e.maxPairs {
		return fmt.Errorf("%w: %d > %d", ErrTooManyPairs, len(a.Pairs), e.maxPairs)
	}
	for i, p := range a.Pairs {
		if _, _, _, err := e.resolve(p); err != nil {
			return fmt.Errorf("pair %d: %w", i, err)
		}
	}
	return nil
}

// Evaluate implements Evaluator.
func (e *InMemoryEvaluator) Evaluate(ctx context.Context, a model.Audit) ([]model.PairResult, error) { //nolint:gocritic // hugeParam: audits are values end to end
	results := make([]model.PairResult, 0, len(a.Pairs))
	for i, p := range a.Pairs {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled: %w", err)
		}
		fg, bg, cat, err := e.resolve(p)
		if err != nil {
			return nil, fmt.Errorf("pair %d: %w", i, err)
		}
		ev := contrast.Evaluate(fg, bg, cat)
		p.Foreground, p.Background, p.Category = fg.Hex(), bg.Hex(), cat.String()
		results = append(results, model.PairResult{
			Pair:       p,
			Ratio:      ev.Ratio,
			Compliance: ev.Compliance,
			Level:      ev.Level,
		})
	}
	return results, nil
}

func (e *InMemoryEvaluator) resolve(p model.Pair) (fg, bg color.Color, cat contrast.Category, err error) {
	if p.Foreground == "" {
		return fg, bg, cat, ErrMissingForeground
	}
	if fg, err = color.ParseHex(p.Foreground); err != nil {
		return fg, bg, cat, fmt.Errorf("foreground: %w", err)
	}
	bg = e.background
	if p.Background != "" {
		if bg, err = color.ParseHex(p.Background); err != nil {
			return fg, bg, cat, fmt.Errorf("background: %w", err)
		}
	}
	if cat, err = contrast.ParseCategory(p.Category); err != nil {
		return fg, bg, cat, err
	}
	return fg, bg, cat, nil
}

// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/wcag/internal/domain/contrast"
)

// Pair is one foreground/background combination submitted for audit.
// Colors stay in their submitted textual form until evaluated.
type Pair struct {
	Foreground string // hex literal, e.g. "#9CA3AF"
	Background string // hex literal
	Category   string // "normal", "large" or "ui"
	Usage      string // free-form description, e.g. "breadcrumb separator"
}

// Audit is a batch of pairs evaluated asynchronously.
type Audit struct {
	ID          string
	Pairs       []Pair
	SubmittedAt time.Time
}

// Status tracks an audit through the pipeline.
type Status string

// Audit statuses.
const (
	StatusPending   Status = "pending"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// PairResult is the evaluation of one pair.
type PairResult struct {
	Pair       Pair
	Ratio      float64
	Compliance contrast.Compliance
	Level      contrast.Level
}

// Summary aggregates the results of an audit.
type Summary struct {
	Total     int
	PassedAA  int
	FailedAA  int
	PassedAAA int
	PassRate  float64 // percent of pairs passing AA
}

// Report is the stored outcome of an audit.
type Report struct {
	ID          string
	Status      Status
	Results     []PairResult
	Summary     Summary
	SubmittedAt time.Time
	CompletedAt time.Time
	Error       string
}

// Summarize aggregates results.
func Summarize(results []PairResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		if r.Compliance.PassesAA {
			s.PassedAA++
		} else {
			s.FailedAA++
		}
		if r.Compliance.PassesAAA {
			s.PassedAAA++
		}
	}
	if s.Total > 0 {
		s.PassRate = float64(s.PassedAA) / float64(s.Total) * 100
	}
	return s
}

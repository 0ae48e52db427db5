package service

import (
	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/pkg/logger"
)

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithWorkerCount sets the number of audit workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the maximum number of queued audits.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithDedupeSize sets how many audit ids are remembered.
func WithDedupeSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.dedupeSize = size
		}
	}
}

// WithMaxReports bounds the number of retained reports.
func WithMaxReports(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxReports = n
		}
	}
}

// WithMaxAuditPairs caps the pairs accepted in one audit.
func WithMaxAuditPairs(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxAuditPairs = n
		}
	}
}

// WithDefaultBackground sets the background used when a request omits one.
func WithDefaultBackground(bg color.Color) Option {
	return func(s *Service) {
		s.background = bg
	}
}

// WithSuggestStrategy sets the default suggestion strategy by name.
func WithSuggestStrategy(name string) Option {
	return func(s *Service) {
		if name != "" {
			s.strategy = name
		}
	}
}

// WithReplacements adds entries to the built-in substitution table.
// Entries given here win over built-in ones.
func WithReplacements(m map[string]string) Option {
	return func(s *Service) {
		for from, to := range m {
			s.replacements[from] = to
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(logger logger.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

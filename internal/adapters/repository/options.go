// Package repository stores audit reports.
package repository

// Option applies a configuration option to the MemoryStore.
type Option func(*MemoryStore)

// WithMaxReports bounds the number of retained reports. Oldest reports are
// evicted first; maxReports <= 0 keeps everything.
func WithMaxReports(maxReports int) Option {
	return func(s *MemoryStore) {
		s.maxReports = maxReports
	}
}

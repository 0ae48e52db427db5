// Package repository stores audit reports.
package repository

import (
	"context"

	"github.com/okian/wcag/internal/domain/model"
)

// Store provides read/write access to audit reports.
type Store interface {
	// Save inserts or replaces the report with the same ID. Replacing keeps
	// the report's original position in eviction order.
	Save(ctx context.Context, r model.Report) error

	// Get returns the report for id.
	// Returns ErrNotFound if the id is unknown or was evicted.
	Get(ctx context.Context, id string) (model.Report, error)

	// Delete removes the report for id. Unknown ids are ignored.
	Delete(ctx context.Context, id string)

	// Recent returns up to n reports, newest first.
	Recent(ctx context.Context, n int) ([]model.Report, error)

	// Count returns the number of retained reports.
	Count(ctx context.Context) int
}

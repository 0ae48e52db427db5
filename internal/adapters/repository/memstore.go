package repository

import (
	"container/list"
	"context"
	"sync"
	"time"

	"github.com/okian/wcag/internal/domain/model"
	"github.com/okian/wcag/pkg/metrics"
)

// Default store configuration constants.
const (
	defaultMaxReports = 1000
)

// MemoryStore is an in-memory Store bounded by insertion order.
type MemoryStore struct {
	mu         sync.RWMutex
	reports    map[string]*list.Element // values are model.Report
	order      *list.List               // front = oldest
	maxReports int
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates an empty store.
func NewMemoryStore(opts ...Option) *MemoryStore {
	s := &MemoryStore{
		maxReports: defaultMaxReports,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.reports = make(map[string]*list.Element)
	s.order = list.New()
	metrics.UpdateReportsStored(0)
	return s
}

// Save implements Store.
func (s *MemoryStore) Save(_ context.Context, r model.Report) error { //nolint:gocritic // hugeParam: reports are values end to end
	if r.ID == "" {
		return ErrMissingID
	}
	r.Results = append([]model.PairResult(nil), r.Results...)

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.reports[r.ID]; ok {
		el.Value = r
		return nil
	}

	for s.maxReports > 0 && s.order.Len() >= s.maxReports {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.reports, oldest.Value.(model.Report).ID)
	}
	s.reports[r.ID] = s.order.PushBack(r)
	metrics.UpdateReportsStored(s.order.Len())
	return nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, id string) (model.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	el, ok := s.reports[id]
	if !ok {
		return model.Report{}, ErrNotFound
	}
	return copyReport(el.Value.(model.Report)), nil
}

// Delete implements Store.
func (s *MemoryStore) Delete(_ context.Context, id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.reports[id]; ok {
		s.order.Remove(el)
		delete(s.reports, id)
		metrics.UpdateReportsStored(s.order.Len())
	}
}

// Recent implements Store.
func (s *MemoryStore) Recent(_ context.Context, n int) ([]model.Report, error) {
	if n <= 0 {
		return nil, ErrInvalidLimit
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]model.Report, 0, min(n, s.order.Len()))
	for el := s.order.Back(); el != nil && len(out) < n; el = el.Prev() {
		out = append(out, copyReport(el.Value.(model.Report)))
	}
	return out, nil
}

// Count implements Store.
func (s *MemoryStore) Count(_ context.Context) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.order.Len()
}

// Pending returns the ids of reports still waiting for a worker that were
// submitted before cutoff.
func (s *MemoryStore) Pending(_ context.Context, cutoff time.Time) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var ids []string
	for el := s.order.Front(); el != nil; el = el.Next() {
		r := el.Value.(model.Report)
		if r.Status == model.StatusPending && r.SubmittedAt.Before(cutoff) {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

func copyReport(r model.Report) model.Report { //nolint:gocritic // hugeParam: reports are values end to end
	r.Results = append([]model.PairResult(nil), r.Results...)
	return r
}

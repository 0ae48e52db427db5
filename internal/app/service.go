// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"github.com/google/uuid"

	auditqueue "github.com/okian/wcag/internal/adapters/mq/queue"
	workerpool "github.com/okian/wcag/internal/adapters/mq/worker"
	repository "github.com/okian/wcag/internal/adapters/repository"
	"github.com/okian/wcag/internal/domain/audit"
	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
	"github.com/okian/wcag/internal/domain/dedupe"
	"github.com/okian/wcag/internal/domain/model"
	"github.com/okian/wcag/internal/domain/palette"
	"github.com/okian/wcag/internal/domain/suggest"
	"github.com/okian/wcag/internal/domain/types"
	"github.com/okian/wcag/pkg/logger"
	"github.com/okian/wcag/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultQueueSize     = 1024
	defaultDedupeSize    = 10_000
	defaultMaxReports    = 1000
	defaultMaxAuditPairs = 500
	stopTimeout          = 10 * time.Second
)

// Service implements the API dependencies for contrast evaluation and audits.
type Service struct {
	mu sync.RWMutex

	// Core components, created by Start
	store     *repository.MemoryStore
	deduper   dedupe.Deduper
	queue     *auditqueue.InMemoryQueue
	pool      *workerpool.Pool
	evaluator *audit.InMemoryEvaluator

	// Pure components, created by New
	table *palette.Table

	// Configuration
	workerCount   int
	queueSize     int
	dedupeSize    int
	maxReports    int
	maxAuditPairs int
	background    color.Color
	strategy      string
	replacements  map[string]string

	// State
	started bool
	cancel  context.CancelFunc

	logger logger.Logger
}

// New constructs a Service. It fails when the default strategy or a
// replacement entry is invalid.
func New(opts ...Option) (*Service, error) {
	s := &Service{
		workerCount:   runtime.NumCPU(),
		queueSize:     defaultQueueSize,
		dedupeSize:    defaultDedupeSize,
		maxReports:    defaultMaxReports,
		maxAuditPairs: defaultMaxAuditPairs,
		background:    color.White,
		strategy:      suggest.StrategyStep,
		replacements:  make(map[string]string),
		logger:        logger.Get().Named("service"),
	}

	for _, opt := range opts {
		opt(s)
	}

	if _, err := suggest.New(s.strategy); err != nil {
		return nil, err
	}

	table, err := buildTable(s.replacements)
	if err != nil {
		return nil, err
	}
	s.table = table
	s.evaluator = audit.NewInMemoryEvaluator(
		audit.WithDefaultBackground(s.background),
		audit.WithMaxPairs(s.maxAuditPairs),
	)

	return s, nil
}

// buildTable overlays extra on the built-in replacements. Keys are
// normalized first so "#9CA3AF" replaces "#9ca3af" deterministically.
func buildTable(extra map[string]string) (*palette.Table, error) {
	merged := palette.DefaultReplacements()
	for from, to := range extra {
		key, err := color.Normalize(from)
		if err != nil {
			return nil, fmt.Errorf("replacement key: %w", err)
		}
		merged[key] = to
	}
	return palette.NewTable(merged)
}

// Start initializes and starts the audit pipeline.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.logger.Info(ctx, "starting contrast service...")

	s.store = repository.NewMemoryStore(repository.WithMaxReports(s.maxReports))
	s.deduper = dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(s.dedupeSize))
	s.queue = auditqueue.NewInMemoryQueue(auditqueue.WithCapacity(s.queueSize))
	s.pool = workerpool.NewPool(s.workerCount, s.queue, s.evaluator, s.store)

	// Workers outlive the caller's ctx (often a request or test scope) and
	// stop through Stop.
	runCtx, cancel := context.WithCancel(context.WithoutCancel(ctx))
	s.cancel = cancel
	s.pool.Start(runCtx)

	s.started = true
	s.logger.Info(ctx, "contrast service started",
		logger.Int("workers", s.pool.Size()),
		logger.Int("queueSize", s.queueSize),
		logger.Int("dedupeSize", s.dedupeSize),
		logger.Int("maxReports", s.maxReports),
		logger.String("strategy", s.strategy),
		logger.String("background", s.background.Hex()),
	)

	return nil
}

// Stop drains the queue and shuts the workers down. Audits still pending
// afterwards are marked failed.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()

	s.logger.Info(ctx, "stopping contrast service...")

	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Warn(ctx, "worker pool shutdown incomplete", logger.Error(err))
	}
	s.cancel()

	now := time.Now()
	for _, id := range s.store.Pending(ctx, now.Add(time.Nanosecond)) {
		r, err := s.store.Get(ctx, id)
		if err != nil {
			continue
		}
		r.Status = model.StatusFailed
		r.Error = "service stopped before evaluation"
		r.CompletedAt = now
		_ = s.store.Save(ctx, r)
		metrics.RecordAuditFailed()
	}

	s.started = false
	s.logger.Info(ctx, "contrast service stopped")
}

// Evaluate computes ratio, compliance and level for one pair.
func (s *Service) Evaluate(ctx context.Context, req types.ContrastRequest) (types.ContrastResponse, error) {
	start := time.Now()

	fg, bg, cat, err := s.parsePair(req.Foreground, req.Background, req.Category)
	if err != nil {
		return types.ContrastResponse{}, err
	}

	ev := contrast.Evaluate(fg, bg, cat)
	metrics.RecordEvaluation(cat.String(), string(ev.Level), float64(time.Since(start).Microseconds())/1000)
	s.logger.Debug(ctx, "evaluated pair",
		logger.String("foreground", fg.Hex()),
		logger.String("background", bg.Hex()),
		logger.Float64("ratio", ev.Ratio),
		logger.String("level", string(ev.Level)),
	)

	return types.FromEvaluation(ev), nil
}

// Suggest proposes a foreground meeting the requested ratio. The target
// defaults to the category's AA minimum. An unreachable target is not an
// error: the response carries Reached=false and the best ratio found.
func (s *Service) Suggest(ctx context.Context, req types.SuggestRequest) (types.SuggestResponse, error) { //nolint:gocritic // hugeParam: request types are values
	fg, bg, cat, err := s.parsePair(req.Foreground, req.Background, req.Category)
	if err != nil {
		return types.SuggestResponse{}, err
	}

	target := req.TargetRatio
	if target == 0 {
		target = contrast.RequiredRatio(cat)
	}
	if target < contrast.MinRatio || target > contrast.MaxRatio {
		return types.SuggestResponse{}, fmt.Errorf("%w: target_ratio must be between %g and %g", ErrInvalidRequest, contrast.MinRatio, contrast.MaxRatio)
	}

	dir, err := suggest.ParseDirection(req.Direction)
	if err != nil {
		return types.SuggestResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	name := req.Strategy
	if name == "" {
		name = s.strategy
	}
	strategy, err := suggest.New(name)
	if err != nil {
		return types.SuggestResponse{}, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}

	res := strategy.Adjust(fg, bg, target, dir)
	metrics.RecordSuggestion(strategy.Name(), res.Reached, res.Iterations)
	if !res.Reached {
		s.logger.Debug(ctx, "suggestion target not reached",
			logger.String("foreground", fg.Hex()),
			logger.Float64("target", target),
			logger.Float64("ratio", res.Ratio),
		)
	}

	return types.SuggestResponse{
		Original:    res.Original.Hex(),
		Suggested:   res.Color.Hex(),
		Ratio:       res.Ratio,
		TargetRatio: res.Target,
		Reached:     res.Reached,
		Iterations:  res.Iterations,
		Direction:   res.Direction.String(),
		Strategy:    strategy.Name(),
		Before:      types.FromEvaluation(contrast.Evaluate(fg, bg, cat)),
		After:       types.FromEvaluation(contrast.Evaluate(res.Color, bg, cat)),
	}, nil
}

// Extract tallies the color literals of a text and rates each against the
// background.
func (s *Service) Extract(_ context.Context, req types.ExtractRequest) (types.ExtractResponse, error) {
	bg, err := s.parseBackground(req.Background)
	if err != nil {
		return types.ExtractResponse{}, err
	}

	findings := palette.Audit(palette.Extract(req.Text), bg)
	out := types.ExtractResponse{Background: bg.Hex(), Colors: make([]types.ColorUsage, len(findings))}
	total := 0
	for i, f := range findings {
		out.Colors[i] = types.ColorUsage{
			Color: f.Color.Hex(),
			Count: f.Count,
			Ratio: f.Ratio,
			Level: string(f.Level),
		}
		total += f.Count
	}
	metrics.RecordColorsExtracted(total)
	return out, nil
}

// Substitute rewrites every known failing color in the text.
func (s *Service) Substitute(_ context.Context, req types.SubstituteRequest) (types.SubstituteResponse, error) {
	text, reps := s.table.Substitute(req.Text)
	out := types.SubstituteResponse{Text: text, Replacements: make([]types.Replacement, len(reps))}
	total := 0
	for i, r := range reps {
		out.Replacements[i] = types.Replacement{From: r.From.Hex(), To: r.To.Hex(), Count: r.Count}
		total += r.Count
	}
	metrics.RecordColorsSubstituted(total)
	return out, nil
}

// Replacements returns the active substitution table.
func (s *Service) Replacements() map[string]string {
	return s.table.Map()
}

// SubmitAudit validates an audit and queues it. A resubmitted id is
// acknowledged with Duplicate=true and the current status of its report.
func (s *Service) SubmitAudit(ctx context.Context, req types.AuditRequest) (types.AuditResponse, error) {
	a := req.ToAudit()
	if err := s.evaluator.Validate(a); err != nil {
		return types.AuditResponse{}, fmt.Errorf("%w: %w", ErrInvalidAudit, err)
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.started {
		return types.AuditResponse{}, ErrNotStarted
	}

	if s.deduper.SeenAndRecord(ctx, a.ID) {
		metrics.RecordAuditDuplicate()
		status := model.StatusPending
		if r, err := s.store.Get(ctx, a.ID); err == nil {
			status = r.Status
		}
		s.logger.Debug(ctx, "duplicate audit", logger.String("auditID", a.ID))
		return types.AuditResponse{AuditID: a.ID, Status: string(status), Duplicate: true}, nil
	}

	a.SubmittedAt = time.Now()
	pending := model.Report{ID: a.ID, Status: model.StatusPending, SubmittedAt: a.SubmittedAt}
	if err := s.store.Save(ctx, pending); err != nil {
		s.deduper.Unrecord(ctx, a.ID)
		return types.AuditResponse{}, fmt.Errorf("save pending report: %w", err)
	}

	if err := s.queue.Enqueue(ctx, a); err != nil {
		s.store.Delete(ctx, a.ID)
		s.deduper.Unrecord(ctx, a.ID)
		if errors.Is(err, auditqueue.ErrFull) {
			s.logger.Warn(ctx, "audit rejected, queue full",
				logger.String("auditID", a.ID),
				logger.Int("queueLength", s.queue.Len(ctx)),
			)
			return types.AuditResponse{}, fmt.Errorf("%w: %w", ErrBackpressure, err)
		}
		return types.AuditResponse{}, fmt.Errorf("enqueue audit: %w", err)
	}

	metrics.RecordAuditSubmitted()
	s.logger.Debug(ctx, "audit queued",
		logger.String("auditID", a.ID),
		logger.Int("pairs", len(a.Pairs)),
	)
	return types.AuditResponse{AuditID: a.ID, Status: string(model.StatusPending)}, nil
}

// Report returns the stored report for id.
func (s *Service) Report(ctx context.Context, id string) (types.ReportResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return types.ReportResponse{}, ErrNotStarted
	}

	r, err := s.store.Get(ctx, id)
	if err != nil {
		return types.ReportResponse{}, err
	}
	return types.FromReport(r), nil
}

// RecentReports returns up to limit reports, newest first.
func (s *Service) RecentReports(ctx context.Context, limit int) ([]types.ReportResponse, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.store == nil {
		return nil, ErrNotStarted
	}

	reports, err := s.store.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]types.ReportResponse, len(reports))
	for i, r := range reports {
		out[i] = types.FromReport(r)
	}
	return out, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ctx := context.Background()
	stats := map[string]interface{}{
		"started":           s.started,
		"workerCount":       s.workerCount,
		"queueSize":         s.queueSize,
		"dedupeSize":        s.dedupeSize,
		"maxReports":        s.maxReports,
		"maxAuditPairs":     s.maxAuditPairs,
		"defaultBackground": s.background.Hex(),
		"suggestStrategy":   s.strategy,
		"replacements":      s.table.Len(),
	}

	if s.started {
		queueLen := s.queue.Len(ctx)
		reports := s.store.Count(ctx)

		stats["queueLength"] = queueLen
		stats["reports"] = reports
		stats["processed"] = s.pool.Processed()
		stats["trackedIDs"] = s.deduper.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateReportsStored(reports)
	}

	return stats
}

// parsePair resolves the colors and category of a request.
func (s *Service) parsePair(fgHex, bgHex, category string) (fg, bg color.Color, cat contrast.Category, err error) {
	if fgHex == "" {
		return fg, bg, cat, fmt.Errorf("%w: foreground is required", ErrInvalidRequest)
	}
	if fg, err = color.ParseHex(fgHex); err != nil {
		metrics.RecordInvalidColor()
		return fg, bg, cat, fmt.Errorf("foreground: %w", err)
	}
	if bg, err = s.parseBackground(bgHex); err != nil {
		return fg, bg, cat, err
	}
	if cat, err = contrast.ParseCategory(category); err != nil {
		return fg, bg, cat, fmt.Errorf("%w: %w", ErrInvalidRequest, err)
	}
	return fg, bg, cat, nil
}

func (s *Service) parseBackground(bgHex string) (color.Color, error) {
	if bgHex == "" {
		return s.background, nil
	}
	bg, err := color.ParseHex(bgHex)
	if err != nil {
		metrics.RecordInvalidColor()
		return bg, fmt.Errorf("background: %w", err)
	}
	return bg, nil
}

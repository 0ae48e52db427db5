package auditcli

import (
	"context"
	"fmt"
	"io"
	"time"

	service "github.com/okian/wcag/internal/app"
	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
	"github.com/okian/wcag/internal/domain/types"
	"github.com/okian/wcag/pkg/logger"
)

// DefaultTimeout bounds requests and the report wait when none is configured.
const DefaultTimeout = 30 * time.Second

// Backend evaluates and improves single pairs. The local service and the
// remote client both satisfy it.
type Backend interface {
	Evaluate(ctx context.Context, req types.ContrastRequest) (types.ContrastResponse, error)
	Suggest(ctx context.Context, req types.SuggestRequest) (types.SuggestResponse, error)
}

// Row is the outcome for one palette entry.
type Row struct {
	Entry      Entry
	Before     types.ContrastResponse
	After      *types.ContrastResponse // set when the entry names a replacement
	Suggestion *types.SuggestResponse  // set for failing pairs when suggestions are on
	Err        error
}

// Passes reports whether the final color of the row meets AA.
func (r *Row) Passes() bool {
	if r.Err != nil {
		return false
	}
	if r.After != nil {
		return r.After.Compliance.PassesAA
	}
	return r.Before.Compliance.PassesAA
}

// Fixed reports whether the replacement turned a failing pair into a passing one.
func (r *Row) Fixed() bool {
	return r.Err == nil && r.After != nil && !r.Before.Compliance.PassesAA && r.After.Compliance.PassesAA
}

// Summary aggregates a run.
type Summary struct {
	Total   int
	Passing int
	Failing int
	Invalid int
	Fixed   int
}

// Result is everything a run produced.
type Result struct {
	AuditID string // set in remote mode
	Rows    []Row
	Summary Summary
}

// Run loads the palette, evaluates it and writes the report to out. It
// returns ErrNonCompliant when any final color fails AA.
func Run(ctx context.Context, cfg *Config, out io.Writer) (*Result, error) {
	log := logger.Get().Named("contrast-audit")

	p, err := LoadPalette(cfg.PalettePath)
	if err != nil {
		return nil, err
	}
	if cfg.Background != "" {
		if _, err := color.ParseHex(cfg.Background); err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
	}
	p.resolveBackgrounds(cfg.Background)

	log.Info(ctx, "starting contrast audit",
		logger.String("palette", cfg.PalettePath),
		logger.Int("pairs", len(p.Pairs)),
		logger.String("baseURL", cfg.BaseURL),
		logger.Bool("suggest", cfg.Suggest),
		logger.String("strategy", cfg.Strategy),
	)

	res := &Result{Rows: make([]Row, len(p.Pairs))}
	for i, e := range p.Pairs {
		res.Rows[i].Entry = e
	}

	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}

	var backend Backend
	if cfg.BaseURL != "" {
		client := NewClient(cfg.BaseURL, cfg.Timeout)
		if err := evaluateRemote(ctx, client, cfg, res); err != nil {
			return nil, err
		}
		backend = client
	} else {
		svc, err := localService(cfg)
		if err != nil {
			return nil, err
		}
		evaluateLocal(ctx, svc, res)
		backend = svc
	}

	for i := range res.Rows {
		improve(ctx, backend, cfg, &res.Rows[i])
	}
	res.Summary = summarize(res.Rows)

	if err := Render(out, res); err != nil {
		return res, fmt.Errorf("write report: %w", err)
	}

	log.Info(ctx, "contrast audit finished",
		logger.Int("total", res.Summary.Total),
		logger.Int("passing", res.Summary.Passing),
		logger.Int("failing", res.Summary.Failing),
		logger.Int("invalid", res.Summary.Invalid),
	)

	if res.Summary.Failing > 0 || res.Summary.Invalid > 0 {
		return res, fmt.Errorf("%w: %d of %d", ErrNonCompliant, res.Summary.Failing+res.Summary.Invalid, res.Summary.Total)
	}
	return res, nil
}

func localService(cfg *Config) (*service.Service, error) {
	opts := []service.Option{service.WithSuggestStrategy(cfg.Strategy)}
	if cfg.Background != "" {
		bg, err := color.ParseHex(cfg.Background)
		if err != nil {
			return nil, fmt.Errorf("background: %w", err)
		}
		opts = append(opts, service.WithDefaultBackground(bg))
	}
	return service.New(opts...)
}

func evaluateLocal(ctx context.Context, svc *service.Service, res *Result) {
	for i := range res.Rows {
		e := res.Rows[i].Entry
		res.Rows[i].Before, res.Rows[i].Err = svc.Evaluate(ctx, types.ContrastRequest{
			Foreground: e.Foreground,
			Background: e.Background,
			Category:   e.Category,
		})
	}
}

// checkEntry rejects entries the service would refuse, so one bad pair marks
// its row invalid instead of failing the whole audit.
func checkEntry(e *Entry) error {
	if e.Foreground == "" {
		return fmt.Errorf("%w: foreground is required", service.ErrInvalidRequest)
	}
	if _, err := color.ParseHex(e.Foreground); err != nil {
		return fmt.Errorf("foreground: %w", err)
	}
	if e.Background != "" {
		if _, err := color.ParseHex(e.Background); err != nil {
			return fmt.Errorf("background: %w", err)
		}
	}
	if _, err := contrast.ParseCategory(e.Category); err != nil {
		return err
	}
	return nil
}

// evaluateRemote submits the valid entries as one audit and waits for its
// report. Results map back to rows by submission index.
func evaluateRemote(ctx context.Context, client *Client, cfg *Config, res *Result) error {
	if err := client.Health(ctx); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	var (
		req  types.AuditRequest
		rows []int
	)
	for i := range res.Rows {
		row := &res.Rows[i]
		if row.Err = checkEntry(&row.Entry); row.Err != nil {
			continue
		}
		rows = append(rows, i)
		req.Pairs = append(req.Pairs, types.Pair{
			Foreground: row.Entry.Foreground,
			Background: row.Entry.Background,
			Category:   row.Entry.Category,
			Usage:      row.Entry.Usage,
		})
	}
	if len(req.Pairs) == 0 {
		logger.Get().Warn(ctx, "no valid pairs to submit", logger.Int("pairs", len(res.Rows)))
		return nil
	}

	ack, err := client.SubmitAudit(ctx, req)
	if err != nil {
		return fmt.Errorf("submit audit: %w", err)
	}
	res.AuditID = ack.AuditID
	logger.Get().Debug(ctx, "audit submitted", logger.String("auditID", ack.AuditID))

	waitCtx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()
	report, err := client.WaitForReport(waitCtx, ack.AuditID)
	if err != nil {
		return err
	}
	if report.Status != "completed" {
		return fmt.Errorf("%w: audit %s %s: %s", ErrRemote, report.AuditID, report.Status, report.Error)
	}
	if len(report.Results) != len(rows) {
		return fmt.Errorf("%w: audit %s returned %d results for %d pairs", ErrRemote, report.AuditID, len(report.Results), len(rows))
	}

	for j, r := range report.Results {
		res.Rows[rows[j]].Before = types.ContrastResponse{
			Foreground: r.Foreground,
			Background: r.Background,
			Category:   r.Category,
			Ratio:      r.Ratio,
			Compliance: r.Compliance,
			Level:      r.Level,
		}
	}
	return nil
}

// improve evaluates the replacement and asks for a suggestion when the pair fails.
func improve(ctx context.Context, backend Backend, cfg *Config, row *Row) {
	if row.Err != nil {
		return
	}
	// Use the normalized background so local and remote rows agree.
	bg := row.Before.Background

	if row.Entry.Replacement != "" {
		after, err := backend.Evaluate(ctx, types.ContrastRequest{
			Foreground: row.Entry.Replacement,
			Background: bg,
			Category:   row.Entry.Category,
		})
		if err != nil {
			row.Err = fmt.Errorf("replacement: %w", err)
			return
		}
		row.After = &after
	}

	if cfg.Suggest && !row.Passes() {
		s, err := backend.Suggest(ctx, types.SuggestRequest{
			Foreground: row.Entry.Foreground,
			Background: bg,
			Category:   row.Entry.Category,
			Strategy:   cfg.Strategy,
		})
		if err != nil {
			logger.Get().Warn(ctx, "suggestion failed",
				logger.String("foreground", row.Entry.Foreground),
				logger.Error(err),
			)
			return
		}
		row.Suggestion = &s
	}
}

func summarize(rows []Row) Summary {
	s := Summary{Total: len(rows)}
	for i := range rows {
		switch {
		case rows[i].Err != nil:
			s.Invalid++
		case rows[i].Passes():
			s.Passing++
		default:
			s.Failing++
		}
		if rows[i].Fixed() {
			s.Fixed++
		}
	}
	return s
}

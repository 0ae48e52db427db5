// Package types contains the JSON wire types shared by the HTTP API and its clients.
package types

import (
	"time"

	"github.com/okian/wcag/internal/domain/contrast"
	"github.com/okian/wcag/internal/domain/model"
)

// ContrastRequest asks for the evaluation of one pair.
type ContrastRequest struct {
	Foreground string `json:"foreground"`
	Background string `json:"background"`
	Category   string `json:"category,omitempty"`
}

// Compliance is the AA/AAA outcome of a ratio.
type Compliance struct {
	PassesAA    bool     `json:"passes_aa"`
	PassesAAA   bool     `json:"passes_aaa"`
	AARequired  float64  `json:"aa_required"`
	AAARequired *float64 `json:"aaa_required"` // null when the category has no AAA level
}

// ContrastResponse is the evaluation of one pair.
type ContrastResponse struct {
	Foreground string     `json:"foreground"`
	Background string     `json:"background"`
	Category   string     `json:"category"`
	Ratio      float64    `json:"ratio"`
	Compliance Compliance `json:"compliance"`
	Level      string     `json:"level"`
}

// SuggestRequest asks for a replacement foreground.
type SuggestRequest struct {
	Foreground  string  `json:"foreground"`
	Background  string  `json:"background"`
	Category    string  `json:"category,omitempty"`
	TargetRatio float64 `json:"target_ratio,omitempty"` // defaults to the category's AA minimum
	Direction   string  `json:"direction,omitempty"`    // darken (default), lighten or auto
	Strategy    string  `json:"strategy,omitempty"`     // step (default) or bisect
}

// SuggestResponse is the proposed foreground and its evaluation.
type SuggestResponse struct {
	Original    string           `json:"original"`
	Suggested   string           `json:"suggested"`
	Ratio       float64          `json:"ratio"`
	TargetRatio float64          `json:"target_ratio"`
	Reached     bool             `json:"reached"`
	Iterations  int              `json:"iterations"`
	Direction   string           `json:"direction"`
	Strategy    string           `json:"strategy"`
	Before      ContrastResponse `json:"before"`
	After       ContrastResponse `json:"after"`
}

// ExtractRequest carries the text to scan for color literals.
type ExtractRequest struct {
	Text       string `json:"text"`
	Background string `json:"background,omitempty"`
}

// ColorUsage is one extracted color with its evaluation against the background.
type ColorUsage struct {
	Color string  `json:"color"`
	Count int     `json:"count"`
	Ratio float64 `json:"ratio"`
	Level string  `json:"level"`
}

// ExtractResponse lists extracted colors, most frequent first.
type ExtractResponse struct {
	Background string       `json:"background"`
	Colors     []ColorUsage `json:"colors"`
}

// SubstituteRequest carries the text to rewrite.
type SubstituteRequest struct {
	Text string `json:"text"`
}

// Replacement counts rewrites of one color.
type Replacement struct {
	From  string `json:"from"`
	To    string `json:"to"`
	Count int    `json:"count"`
}

// SubstituteResponse is the rewritten text and what changed.
type SubstituteResponse struct {
	Text         string        `json:"text"`
	Replacements []Replacement `json:"replacements"`
}

// Pair is one pair of an audit.
type Pair struct {
	Foreground string `json:"foreground"`
	Background string `json:"background,omitempty"`
	Category   string `json:"category,omitempty"`
	Usage      string `json:"usage,omitempty"`
}

// AuditRequest submits pairs for asynchronous evaluation.
type AuditRequest struct {
	AuditID string `json:"audit_id,omitempty"`
	Pairs   []Pair `json:"pairs"`
}

// AuditResponse acknowledges a submission.
type AuditResponse struct {
	AuditID   string `json:"audit_id"`
	Status    string `json:"status"`
	Duplicate bool   `json:"duplicate,omitempty"`
}

// PairResult is the evaluation of one audited pair.
type PairResult struct {
	Pair
	Ratio      float64    `json:"ratio"`
	Compliance Compliance `json:"compliance"`
	Level      string     `json:"level"`
}

// Summary aggregates an audit.
type Summary struct {
	Total     int     `json:"total"`
	PassedAA  int     `json:"passed_aa"`
	FailedAA  int     `json:"failed_aa"`
	PassedAAA int     `json:"passed_aaa"`
	PassRate  float64 `json:"pass_rate"`
}

// ReportResponse is a stored audit report.
type ReportResponse struct {
	AuditID     string       `json:"audit_id"`
	Status      string       `json:"status"`
	Results     []PairResult `json:"results,omitempty"`
	Summary     Summary      `json:"summary"`
	SubmittedAt time.Time    `json:"submitted_at"`
	CompletedAt *time.Time   `json:"completed_at,omitempty"`
	Error       string       `json:"error,omitempty"`
}

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// FromCompliance converts a domain compliance.
func FromCompliance(c contrast.Compliance) Compliance {
	out := Compliance{
		PassesAA:   c.PassesAA,
		PassesAAA:  c.PassesAAA,
		AARequired: c.AARequired,
	}
	if c.HasAAA {
		aaa := c.AAARequired
		out.AAARequired = &aaa
	}
	return out
}

// FromEvaluation converts a domain evaluation.
func FromEvaluation(e contrast.Evaluation) ContrastResponse { //nolint:gocritic // hugeParam: evaluations are values
	return ContrastResponse{
		Foreground: e.Foreground.Hex(),
		Background: e.Background.Hex(),
		Category:   e.Category.String(),
		Ratio:      e.Ratio,
		Compliance: FromCompliance(e.Compliance),
		Level:      string(e.Level),
	}
}

// ToAudit converts a submission into the domain audit.
func (r AuditRequest) ToAudit() model.Audit {
	a := model.Audit{ID: r.AuditID, Pairs: make([]model.Pair, len(r.Pairs))}
	for i, p := range r.Pairs {
		a.Pairs[i] = model.Pair{
			Foreground: p.Foreground,
			Background: p.Background,
			Category:   p.Category,
			Usage:      p.Usage,
		}
	}
	return a
}

// FromReport converts a stored report.
func FromReport(r model.Report) ReportResponse { //nolint:gocritic // hugeParam: reports are values end to end
	out := ReportResponse{
		AuditID:     r.ID,
		Status:      string(r.Status),
		Summary:     Summary(r.Summary),
		SubmittedAt: r.SubmittedAt,
		Error:       r.Error,
	}
	if !r.CompletedAt.IsZero() {
		done := r.CompletedAt
		out.CompletedAt = &done
	}
	if len(r.Results) > 0 {
		out.Results = make([]PairResult, len(r.Results))
		for i, res := range r.Results {
			out.Results[i] = PairResult{
				Pair:       Pair(res.Pair),
				Ratio:      res.Ratio,
				Compliance: FromCompliance(res.Compliance),
				Level:      string(res.Level),
			}
		}
	}
	return out
}

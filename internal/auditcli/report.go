package auditcli

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/wcag/internal/domain/types"
)

const ruleWidth = 80

// reportWriter keeps the first write error so Render can format freely.
type reportWriter struct {
	w   io.Writer
	err error
}

func (rw *reportWriter) printf(format string, args ...any) {
	if rw.err != nil {
		return
	}
	_, rw.err = fmt.Fprintf(rw.w, format, args...)
}

// Render writes the human-readable report of a run.
func Render(w io.Writer, res *Result) error {
	rw := &reportWriter{w: w}
	heavy := strings.Repeat("=", ruleWidth)
	light := strings.Repeat("-", ruleWidth)

	rw.printf("%s\nWCAG 2.1 contrast report\n%s\n", heavy, heavy)
	if res.AuditID != "" {
		rw.printf("Audit: %s\n", res.AuditID)
	}

	for i := range res.Rows {
		row := &res.Rows[i]
		rw.printf("\n%s\n%s\n%s\n", light, title(row), light)

		if row.Err != nil {
			rw.printf("Error:   %v\n", row.Err)
			continue
		}

		rw.printf("Before:  %s on %s  %s\n", row.Before.Foreground, row.Before.Background, verdict(&row.Before))
		if row.After != nil {
			rw.printf("After:   %s on %s  %s\n", row.After.Foreground, row.After.Background, verdict(row.After))
			rw.printf("Change:  %+.2f  %s\n", row.After.Ratio-row.Before.Ratio, improvement(row))
		}
		if s := row.Suggestion; s != nil {
			note := "target reached"
			if !s.Reached {
				note = fmt.Sprintf("target %.2f:1 not reachable", s.TargetRatio)
			}
			rw.printf("Suggest: %s  %.2f:1  (%s, %s, %d iterations, %s)\n",
				s.Suggested, s.Ratio, s.Strategy, s.Direction, s.Iterations, note)
		}
	}

	sum := res.Summary
	rw.printf("\n%s\nSummary: %d pairs, %d passing AA, %d failing, %d invalid, %d fixed\n%s\n",
		heavy, sum.Total, sum.Passing, sum.Failing, sum.Invalid, sum.Fixed, heavy)
	return rw.err
}

func title(row *Row) string {
	usage := row.Entry.Usage
	if usage == "" {
		usage = row.Entry.Foreground
	}
	category := row.Before.Category
	if category == "" {
		category = row.Entry.Category
	}
	if category == "" {
		return "Usage: " + usage
	}
	return fmt.Sprintf("Usage: %s (%s)", usage, category)
}

func verdict(c *types.ContrastResponse) string {
	mark := "FAIL"
	if c.Compliance.PassesAA {
		mark = "PASS"
	}
	return fmt.Sprintf("%5.2f:1  %-8s  %s AA %.1f:1", c.Ratio, c.Level, mark, c.Compliance.AARequired)
}

func improvement(row *Row) string {
	switch {
	case row.Fixed():
		return "fixed"
	case row.Before.Compliance.PassesAA && row.After.Compliance.PassesAA:
		return "already compliant"
	default:
		return "needs review"
	}
}

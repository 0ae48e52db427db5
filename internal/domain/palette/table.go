package palette

import (
	"fmt"
	"sort"
	"strings"

	"github.com/okian/wcag/internal/domain/color"
)

// Table maps failing colors to accessible replacements. Keys and values are
// held in normalized form, so lookups are case and shorthand insensitive.
type Table struct {
	entries map[color.Color]color.Color
}

// NewTable validates and normalizes a from -> to mapping.
func NewTable(m map[string]string) (*Table, error) {
	t := &Table{entries: make(map[color.Color]color.Color, len(m))}
	for from, to := range m {
		f, err := color.ParseHex(from)
		if err != nil {
			return nil, fmt.Errorf("replacement key: %w", err)
		}
		v, err := color.ParseHex(to)
		if err != nil {
			return nil, fmt.Errorf("replacement for %s: %w", from, err)
		}
		t.entries[f] = v
	}
	return t, nil
}

// Len returns the number of entries.
func (t *Table) Len() int { return len(t.entries) }

// Lookup returns the replacement for c.
func (t *Table) Lookup(c color.Color) (color.Color, bool) {
	v, ok := t.entries[c]
	return v, ok
}

// Map returns a copy of the table as normalized hex strings.
func (t *Table) Map() map[string]string {
	out := make(map[string]string, len(t.entries))
	for f, v := range t.entries {
		out[f.Hex()] = v.Hex()
	}
	return out
}

// Replacement counts rewrites of one color.
type Replacement struct {
	From  color.Color
	To    color.Color
	Count int
}

// Substitute rewrites every color literal found in the table and reports how
// often each pair was applied, most frequent first.
func (t *Table) Substitute(text string) (string, []Replacement) {
	lits := scan(text)
	if len(lits) == 0 || len(t.entries) == 0 {
		return text, nil
	}

	var b strings.Builder
	b.Grow(len(text))
	counts := make(map[color.Color]int)
	last := 0
	for _, lit := range lits {
		to, ok := t.entries[lit.color]
		if !ok {
			continue
		}
		b.WriteString(text[last:lit.start])
		b.WriteString(to.Hex())
		last = lit.end
		counts[lit.color]++
	}
	if len(counts) == 0 {
		return text, nil
	}
	b.WriteString(text[last:])

	reps := make([]Replacement, 0, len(counts))
	for from, n := range counts {
		reps = append(reps, Replacement{From: from, To: t.entries[from], Count: n})
	}
	sort.Slice(reps, func(i, j int) bool {
		if reps[i].Count != reps[j].Count {
			return reps[i].Count > reps[j].Count
		}
		return reps[i].From.Hex() < reps[j].From.Hex()
	})
	return b.String(), reps
}

// DefaultReplacements is the bulk-fix table of the study site. Ratios in the
// comments are against white.
func DefaultReplacements() map[string]string {
	return map[string]string{
		"#ff9900": "#dc7600", // 2.14 -> 3.17
		"#9ca3af": "#6f7682", // 2.54 -> 4.58
		"#94a3b8": "#64748b", // 2.56 -> 4.76
		"#e5e7eb": "#909296", // 1.24 -> 3.12
		"#dddddd": "#a0a0a0",
		"#10b981": "#047857",
		"#00b894": "#008662", // 2.54 -> 4.58
		"#27ae60": "#15803d",
		"#2ecc71": "#15803d",
		"#4caf50": "#2e7d32",
		"#22c55e": "#16a34a",
		"#f59e0b": "#ca8a04",
		"#f39c12": "#ca8a04",
		"#ff9800": "#d97706",
		"#fbbf24": "#ca8a04",
		"#ffc107": "#ca8a04",
		"#fdcb6e": "#9e6c0f", // 1.51 -> 4.56
		"#4facfe": "#0369a1",
		"#74b9ff": "#3378be", // 2.07 -> 4.59
		"#60a5fa": "#2563eb",
		"#06b6d4": "#0284c7",
		"#00bcd4": "#0369a1",
		"#03a9f4": "#0369a1",
		"#ff6b6b": "#dc2626",
		"#e17055": "#c35237", // 3.16 -> 4.58
		"#f97316": "#ea580c",
		"#f093fb": "#9333ea",
		"#a29bfe": "#7e22ce",
	}
}

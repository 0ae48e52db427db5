// Package palette finds hex color literals in text, grades them against a
// background and rewrites them from an explicit replacement table.
package palette

import (
	"regexp"
	"sort"

	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
)

// hexRun matches '#' followed by a maximal run of hex digits. Runs of 3 or 6
// digits are colors. An 8 digit run is a color with alpha; its literal covers
// the RGB digits only, so substitution keeps the alpha. "&#123;" style
// entities are skipped.
var hexRun = regexp.MustCompile(`#[0-9A-Fa-f]+`) //nolint:gochecknoglobals // compiled once

// literal is one color occurrence inside a text.
type literal struct {
	start, end int
	color      color.Color
}

func scan(text string) []literal {
	var out []literal
	for _, loc := range hexRun.FindAllStringIndex(text, -1) {
		end := loc[1]
		switch loc[1] - loc[0] - 1 {
		case 3, 6:
		case 8:
			end = loc[0] + 7
		default:
			continue
		}
		if loc[0] > 0 && text[loc[0]-1] == '&' {
			continue
		}
		c, err := color.ParseHex(text[loc[0]:end])
		if err != nil {
			continue
		}
		out = append(out, literal{start: loc[0], end: end, color: c})
	}
	return out
}

// Usage is a distinct color and how often it occurs.
type Usage struct {
	Color color.Color
	Count int
}

// Extract tallies every color literal in text, most frequent first. Ties are
// ordered by hex value so the result is deterministic.
func Extract(text string) []Usage {
	counts := make(map[color.Color]int)
	for _, lit := range scan(text) {
		counts[lit.color]++
	}
	out := make([]Usage, 0, len(counts))
	for c, n := range counts {
		out = append(out, Usage{Color: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Color.Hex() < out[j].Color.Hex()
	})
	return out
}

// Finding grades one extracted color against a background.
type Finding struct {
	Usage
	Ratio float64
	Level contrast.Level
}

// Audit grades each usage against bg, preserving order.
func Audit(usages []Usage, bg color.Color) []Finding {
	out := make([]Finding, len(usages))
	for i, u := range usages {
		r := contrast.Ratio(u.Color, bg)
		out[i] = Finding{Usage: u, Ratio: r, Level: contrast.Categorize(r)}
	}
	return out
}

// GroupByLevel buckets findings by level. Every level has an entry.
func GroupByLevel(findings []Finding) map[contrast.Level][]Finding {
	out := make(map[contrast.Level][]Finding, len(contrast.Levels()))
	for _, l := range contrast.Levels() {
		out[l] = nil
	}
	for _, f := range findings {
		out[f.Level] = append(out[f.Level], f)
	}
	return out
}

// Package suggest proposes substitute foreground colors that reach a target
// contrast ratio against a background.
package suggest

import (
	"fmt"
	"strings"

	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
)

// Strategy names.
const (
	StrategyStep   = "step"
	StrategyBisect = "bisect"
)

// Direction chooses which way a candidate color moves.
type Direction int

// Directions. Darken is the zero value.
const (
	Darken Direction = iota
	Lighten
	Auto
)

// String returns the textual form accepted by ParseDirection.
func (d Direction) String() string {
	switch d {
	case Darken:
		return "darken"
	case Lighten:
		return "lighten"
	case Auto:
		return "auto"
	default:
		return fmt.Sprintf("direction(%d)", int(d))
	}
}

// ParseDirection maps "darken", "lighten" and "auto" to a Direction. The
// empty string means Darken.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "darken", "darker":
		return Darken, nil
	case "lighten", "lighter":
		return Lighten, nil
	case "auto":
		return Auto, nil
	}
	return Darken, fmt.Errorf("%w: %q", ErrUnknownDirection, s)
}

// resolve turns Auto into a concrete direction that moves fg away from bg.
func (d Direction) resolve(fg, bg color.Color) Direction {
	if d != Auto {
		return d
	}
	if contrast.RelativeLuminance(fg) <= contrast.RelativeLuminance(bg) {
		return Darken
	}
	return Lighten
}

// Result is a proposed color and what it achieves. Reached is false when the
// strategy gave up below Target; callers compare Ratio with Target.
type Result struct {
	Original   color.Color
	Color      color.Color
	Ratio      float64
	Target     float64
	Reached    bool
	Iterations int
	Direction  Direction
}

// Strategy searches for a color meeting target against bg.
type Strategy interface {
	Name() string
	Adjust(fg, bg color.Color, target float64, dir Direction) Result
}

// New returns the strategy registered under name. The empty name selects Step.
func New(name string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", StrategyStep:
		return NewStep(), nil
	case StrategyBisect:
		return NewBisect(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
}

// AdjustBrightness runs the default step heuristic and returns the candidate
// with its achieved ratio.
func AdjustBrightness(c color.Color, target float64, bg color.Color, darken bool) (color.Color, float64) {
	dir := Lighten
	if darken {
		dir = Darken
	}
	res := NewStep().Adjust(c, bg, target, dir)
	return res.Color, res.Ratio
}

func finish(res Result, bg color.Color) Result {
	res.Ratio = contrast.Ratio(res.Color, bg)
	res.Reached = res.Ratio >= res.Target
	return res
}

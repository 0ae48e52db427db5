package suggest

import (
	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
)

// Default step heuristic parameters.
const (
	defaultStepSize      = 5
	defaultMaxIterations = 100
)

// Step moves every channel by a fixed amount per iteration until the target
// is met, the iteration budget is spent or the channels saturate.
type Step struct {
	size          int
	maxIterations int
}

// StepOption configures a Step strategy.
type StepOption func(*Step)

// WithStepSize sets the per-iteration channel delta.
func WithStepSize(size int) StepOption {
	return func(s *Step) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithMaxIterations caps the number of steps.
func WithMaxIterations(n int) StepOption {
	return func(s *Step) {
		if n > 0 {
			s.maxIterations = n
		}
	}
}

// NewStep creates a step strategy (±5 per channel, 100 iterations by default).
func NewStep(opts ...StepOption) *Step {
	s := &Step{
		size:          defaultStepSize,
		maxIterations: defaultMaxIterations,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Name implements Strategy.
func (s *Step) Name() string { return StrategyStep }

// Adjust implements Strategy.
func (s *Step) Adjust(fg, bg color.Color, target float64, dir Direction) Result {
	dir = dir.resolve(fg, bg)
	delta := -s.size
	if dir == Lighten {
		delta = s.size
	}

	res := Result{Original: fg, Color: fg, Target: target, Direction: dir}
	for i := 0; i < s.maxIterations; i++ {
		if r := contrast.Ratio(res.Color, bg); r >= target {
			res.Ratio = r
			res.Reached = true
			return res
		}
		res.Color = shift(res.Color, delta)
		res.Iterations++
		if saturated(res.Color) {
			break
		}
	}
	return finish(res, bg)
}

func shift(c color.Color, delta int) color.Color {
	return color.Color{R: clamp(int(c.R) + delta), G: clamp(int(c.G) + delta), B: clamp(int(c.B) + delta)}
}

func clamp(v int) uint8 {
	switch {
	case v < 0:
		return 0
	case v > 255:
		return 255
	}
	return uint8(v)
}

func saturated(c color.Color) bool {
	return c == color.Black || c == color.White
}

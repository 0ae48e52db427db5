package suggest

import (
	"github.com/lucasb-eyer/go-colorful"

	"github.com/okian/wcag/internal/domain/color"
	"github.com/okian/wcag/internal/domain/contrast"
)

// 16 halvings resolve the blend factor well below one 8-bit step.
const defaultBisectIterations = 16

// Bisect binary-searches the blend factor between fg and black (darken) or
// white (lighten). The upper bound always satisfies the target once the
// endpoint does, so the result meets the target whenever that is possible
// in the chosen direction.
type Bisect struct {
	iterations int
}

// NewBisect creates a bisect strategy.
func NewBisect() *Bisect {
	return &Bisect{iterations: defaultBisectIterations}
}

// Name implements Strategy.
func (b *Bisect) Name() string { return StrategyBisect }

// Adjust implements Strategy.
func (b *Bisect) Adjust(fg, bg color.Color, target float64, dir Direction) Result {
	dir = dir.resolve(fg, bg)
	res := Result{Original: fg, Color: fg, Target: target, Direction: dir}
	if contrast.Ratio(fg, bg) >= target {
		return finish(res, bg)
	}

	end := color.Black
	if dir == Lighten {
		end = color.White
	}
	if contrast.Ratio(end, bg) < target {
		res.Color = end
		return finish(res, bg)
	}

	src, dst := toColorful(fg), toColorful(end)
	lo, hi := 0.0, 1.0
	best := end
	for i := 0; i < b.iterations; i++ {
		mid := (lo + hi) / 2
		candidate := fromColorful(src.BlendRgb(dst, mid))
		if contrast.Ratio(candidate, bg) >= target {
			hi = mid
			best = candidate
		} else {
			lo = mid
		}
		res.Iterations++
	}
	res.Color = best
	return finish(res, bg)
}

func toColorful(c color.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255.0, G: float64(c.G) / 255.0, B: float64(c.B) / 255.0}
}

func fromColorful(c colorful.Color) color.Color {
	r, g, b := c.Clamped().RGB255()
	return color.Color{R: r, G: g, B: b}
}

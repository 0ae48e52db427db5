// Package contrast implements WCAG 2.1 relative luminance, contrast ratio and
// conformance classification.
//
// Everything here is a pure function of its inputs and safe for concurrent use.
package contrast

import (
	"fmt"
	"math"

	"github.com/okian/wcag/internal/domain/color"
)

// sRGB transfer and luminance constants from WCAG 2.1.
const (
	linearThreshold = 0.03928
	linearDivisor   = 12.92
	gammaOffset     = 0.055
	gammaScale      = 1.055
	gammaExponent   = 2.4

	weightR = 0.2126
	weightG = 0.7152
	weightB = 0.0722

	flare = 0.05

	// MinRatio and MaxRatio bound every contrast ratio.
	MinRatio = 1.0
	MaxRatio = 21.0
)

// RelativeLuminance returns the WCAG relative luminance of c in [0,1].
func RelativeLuminance(c color.Color) float64 {
	return weightR*linearize(c.R) + weightG*linearize(c.G) + weightB*linearize(c.B)
}

func linearize(v uint8) float64 {
	s := float64(v) / 255.0
	if s <= linearThreshold {
		return s / linearDivisor
	}
	return math.Pow((s+gammaOffset)/gammaScale, gammaExponent)
}

// Ratio returns the contrast ratio between a and b. The result is symmetric
// and lies in [1,21].
func Ratio(a, b color.Color) float64 {
	la := RelativeLuminance(a)
	lb := RelativeLuminance(b)
	lighter := math.Max(la, lb)
	darker := math.Min(la, lb)
	return (lighter + flare) / (darker + flare)
}

// RatioHex parses both colors and returns their contrast ratio.
func RatioHex(a, b string) (float64, error) {
	ca, err := color.ParseHex(a)
	if err != nil {
		return 0, fmt.Errorf("first color: %w", err)
	}
	cb, err := color.ParseHex(b)
	if err != nil {
		return 0, fmt.Errorf("second color: %w", err)
	}
	return Ratio(ca, cb), nil
}

// Evaluation is the full assessment of one foreground/background pair.
type Evaluation struct {
	Foreground color.Color
	Background color.Color
	Category   Category
	Ratio      float64
	Compliance Compliance
	Level      Level
}

// Evaluate computes ratio, compliance and level for a pair.
func Evaluate(fg, bg color.Color, c Category) Evaluation {
	r := Ratio(fg, bg)
	return Evaluation{
		Foreground: fg,
		Background: bg,
		Category:   c,
		Ratio:      r,
		Compliance: CheckCompliance(r, c),
		Level:      Categorize(r),
	}
}

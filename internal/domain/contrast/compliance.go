package contrast

import (
	"fmt"
	"strings"
)

// Category selects which WCAG thresholds apply to a pair.
type Category int

// Text categories.
const (
	Normal Category = iota
	Large
	UIComponent
)

// String returns the textual form accepted by ParseCategory.
func (c Category) String() string {
	switch c {
	case Normal:
		return "normal"
	case Large:
		return "large"
	case UIComponent:
		return "ui"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// ParseCategory maps "normal", "large" and "ui" (case-insensitive) to a
// Category. The empty string means Normal.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "normal":
		return Normal, nil
	case "large":
		return Large, nil
	case "ui", "ui_component", "uicomponent":
		return UIComponent, nil
	}
	return Normal, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText encodes the category by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText decodes a category name.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// thresholds is the fixed WCAG 2.1 table. aaa == 0 means AAA is undefined.
type thresholds struct {
	aa  float64
	aaa float64
}

var table = map[Category]thresholds{ //nolint:gochecknoglobals // fixed WCAG constants
	Normal:      {aa: 4.5, aaa: 7.0},
	Large:       {aa: 3.0, aaa: 4.5},
	UIComponent: {aa: 3.0},
}

// Compliance reports the AA/AAA outcome of a ratio for a category.
type Compliance struct {
	PassesAA    bool
	PassesAAA   bool
	AARequired  float64
	AAARequired float64 // zero when HasAAA is false
	HasAAA      bool
}

// CheckCompliance classifies ratio against the thresholds of c. Thresholds are
// inclusive. PassesAAA is false whenever the category defines no AAA level.
// Unknown categories use the Normal thresholds.
func CheckCompliance(ratio float64, c Category) Compliance {
	t, ok := table[c]
	if !ok {
		t = table[Normal]
	}
	return Compliance{
		PassesAA:    ratio >= t.aa,
		PassesAAA:   t.aaa > 0 && ratio >= t.aaa,
		AARequired:  t.aa,
		AAARequired: t.aaa,
		HasAAA:      t.aaa > 0,
	}
}

// RequiredRatio returns the AA minimum for c.
func RequiredRatio(c Category) float64 {
	return CheckCompliance(0, c).AARequired
}

// Level buckets a ratio the way the color extraction report does.
type Level string

// Levels, strongest first.
const (
	LevelAAA     Level = "AAA"
	LevelAA      Level = "AA"
	LevelAALarge Level = "AA Large"
	LevelFail    Level = "Fail"
)

// Levels lists every Level from strongest to weakest.
func Levels() []Level {
	return []Level{LevelAAA, LevelAA, LevelAALarge, LevelFail}
}

// Categorize returns the strongest Level whose minimum ratio is met.
func Categorize(ratio float64) Level {
	switch {
	case ratio >= 7.0:
		return LevelAAA
	case ratio >= 4.5:
		return LevelAA
	case ratio >= 3.0:
		return LevelAALarge
	default:
		return LevelFail
	}
}

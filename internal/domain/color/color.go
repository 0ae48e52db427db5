// Package color parses and formats sRGB colors written as hex literals.
package color

import (
	"fmt"
	"strings"
)

// Color is an sRGB triple with 8-bit channels.
type Color struct {
	R uint8
	G uint8
	B uint8
}

// Common reference colors.
var (
	Black = Color{R: 0, G: 0, B: 0}
	White = Color{R: 255, G: 255, B: 255}
)

// ParseHex parses "#RGB", "#RRGGBB" or the same forms without the leading '#'.
// Digits are case-insensitive; shorthand expands by duplicating each digit.
// Anything else, surrounding whitespace included, is ErrInvalidColorFormat.
func ParseHex(s string) (Color, error) {
	raw := strings.TrimPrefix(s, "#")

	switch len(raw) {
	case 3:
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			d, ok := hexDigit(raw[i])
			if !ok {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
			}
			ch[i] = d<<4 | d
		}
		return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
	case 6:
		var ch [3]uint8
		for i := 0; i < 3; i++ {
			hi, ok1 := hexDigit(raw[2*i])
			lo, ok2 := hexDigit(raw[2*i+1])
			if !ok1 || !ok2 {
				return Color{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
			}
			ch[i] = hi<<4 | lo
		}
		return Color{R: ch[0], G: ch[1], B: ch[2]}, nil
	default:
		return Color{}, fmt.Errorf("%w: %q", ErrInvalidColorFormat, s)
	}
}

// MustParseHex is ParseHex for literals known to be valid. It panics otherwise.
func MustParseHex(s string) Color {
	c, err := ParseHex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Normalize returns the canonical lowercase "#rrggbb" form of s.
func Normalize(s string) (string, error) {
	c, err := ParseHex(s)
	if err != nil {
		return "", err
	}
	return c.Hex(), nil
}

// Hex formats c as lowercase "#rrggbb".
func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

// String implements fmt.Stringer.
func (c Color) String() string { return c.Hex() }

// MarshalText encodes c as its hex form so colors serialize as strings.
func (c Color) MarshalText() ([]byte, error) {
	return []byte(c.Hex()), nil
}

// UnmarshalText accepts any form ParseHex accepts.
func (c *Color) UnmarshalText(text []byte) error {
	parsed, err := ParseHex(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

func hexDigit(b byte) (uint8, bool) {
	switch {
	case b >= '0' && b <= '9':
		return b - '0', true
	case b >= 'a' && b <= 'f':
		return b - 'a' + 10, true
	case b >= 'A' && b <= 'F':
		return b - 'A' + 10, true
	}
	return 0, false
}

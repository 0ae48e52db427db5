package color

import "errors"

// Sentinel kinds for color errors.
var (
	ErrInvalidColorFormat = errors.New("invalid color format")
)

package suggest

import "errors"

// Sentinel kinds for suggestion errors.
var (
	ErrUnknownStrategy  = errors.New("unknown suggestion strategy")
	ErrUnknownDirection = errors.New("unknown adjustment direction")
)

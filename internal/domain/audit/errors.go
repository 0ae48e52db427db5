package audit

import "errors"

// Sentinel kinds for audit errors.
var (
	ErrNoPairs           = errors.New("audit has no pairs")
	ErrTooManyPairs      = errors.New("audit exceeds pair limit")
	ErrMissingForeground = errors.New("foreground is required")
	ErrInvalidID         = errors.New("audit id must be 1-128 characters of letters, digits, '.', '_' or '-'")
)

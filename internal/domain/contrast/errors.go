package contrast

import "errors"

// Sentinel kinds for contrast errors.
var (
	ErrUnknownCategory = errors.New("unknown text category")
)

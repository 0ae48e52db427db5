package auditcli

import "errors"

// Sentinel kinds for audit CLI errors.
var (
	ErrLoadPalette  = errors.New("load palette failed")
	ErrEmptyPalette = errors.New("palette has no pairs")
	ErrRemote       = errors.New("remote request failed")
	ErrNonCompliant = errors.New("pairs fail WCAG AA")
)

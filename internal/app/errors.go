package service

import "errors"

// Sentinel kinds for service errors. The HTTP layer maps them to status codes.
var (
	ErrInvalidRequest = errors.New("invalid request")
	ErrInvalidAudit   = errors.New("invalid audit")
	ErrBackpressure   = errors.New("audit queue is full")
	ErrNotStarted     = errors.New("service not started")
)

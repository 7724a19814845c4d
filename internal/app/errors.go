package service

import "errors"

// Sentinel kinds for service errors.
var (
	ErrNotStarted        = errors.New("service not started")
	ErrInvalidSource     = errors.New("invalid dataset source")
	ErrImportUnsupported = errors.New("source does not accept imports")
)

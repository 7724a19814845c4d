package cli

import "errors"

var (
	// ErrUsage indicates malformed command line arguments.
	ErrUsage = errors.New("usage")
	// ErrImportUnavailable indicates the querier cannot import datasets.
	ErrImportUnavailable = errors.New("import is not available")
)

package stats

import "errors"

// Sentinel kinds for stats errors.
var (
	ErrScanAborted = errors.New("year range scan aborted")
)

package repository

import (
	"errors"

	"github.com/okian/namerank/internal/domain/model"
)

// Sentinel kinds for repository errors.
var (
	// ErrDatasetNotFound is the model sentinel, re-exported for callers that
	// only import the repository.
	ErrDatasetNotFound = model.ErrDatasetNotFound
	ErrMalformedRecord = errors.New("malformed birth record")
	ErrInvalidConfig   = errors.New("invalid repository config")
)

func isNotFound(err error) bool {
	return errors.Is(err, ErrDatasetNotFound)
}

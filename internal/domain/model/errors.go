package model

import "errors"

// Sentinel kinds for model errors.
var (
	ErrDatasetNotFound = errors.New("dataset not found")
	ErrInvalidGender   = errors.New("invalid gender")
)

// Package model contains domain models passed between layers.
package model

import (
	"context"
	"fmt"
	"strings"
)

// Gender is the two-valued gender code carried by every birth record.
type Gender string

// Gender codes as they appear in the yearly record files.
const (
	Male   Gender = "M"
	Female Gender = "F"
)

// ParseGender converts a raw code into a Gender. Only "M" and "F" are
// accepted (case-insensitive, surrounding whitespace ignored).
func ParseGender(raw string) (Gender, error) {
	switch strings.ToUpper(strings.TrimSpace(raw)) {
	case string(Male):
		return Male, nil
	case string(Female):
		return Female, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidGender, raw)
	}
}

// String returns the record code for g.
func (g Gender) String() string { return string(g) }

// Valid reports whether g is one of the two known codes.
func (g Gender) Valid() bool { return g == Male || g == Female }

// BirthRecord is a single row of a yearly dataset.
type BirthRecord struct {
	Name   string // given name, case-sensitive
	Gender Gender // M or F
	Count  int    // number of births, never negative
}

// YearDataset is the ordered record sequence of one year. Row order is the
// popularity order: the provider lists records by descending count.
type YearDataset struct {
	Year    int
	Records []BirthRecord
}

// Len returns the number of records in the dataset.
func (d YearDataset) Len() int { return len(d.Records) }

// Provider resolves a year to its dataset.
type Provider interface {
	// Dataset reads the records of year. Returns an error matching
	// ErrDatasetNotFound when no source exists for the year.
	Dataset(ctx context.Context, year int) (YearDataset, error)
}

// Package stats computes popularity ranks and birth aggregates over yearly
// birth-name datasets.
//
// Ranks are positional: a dataset lists every record of a year in one
// global popularity order with both genders interleaved. A female rank is
// the raw 1-based row of the record. A male rank is renumbered from the
// first male row, so the female rows that precede it are collapsed.
//
// Every operation reads its datasets through the Provider on each call.
// Nothing is cached between calls.
package stats

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/pkg/logger"
)

// Sentinels returned when a query target is absent from an existing dataset.
const (
	NotFound = -1
	NoName   = "NO NAME"
)

// Totals holds the birth counts of one year.
type Totals struct {
	Total  int
	Female int
	Male   int
}

// NameStatistics answers rank and aggregate queries over yearly datasets.
type NameStatistics struct {
	provider model.Provider
	logger   logger.Logger
}

// New creates a NameStatistics reading datasets from provider.
func New(provider model.Provider, opts ...Option) *NameStatistics {
	s := &NameStatistics{
		provider: provider,
		logger:   logger.Nop(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// TotalBirths sums the births of year per gender. Records that are not
// female are counted as male.
func (s *NameStatistics) TotalBirths(ctx context.Context, year int) (Totals, error) {
	records, err := s.records(ctx, year)
	if err != nil {
		return Totals{}, err
	}

	var t Totals
	for _, r := range records {
		if r.Gender == model.Female {
			t.Female += r.Count
		} else {
			t.Male += r.Count
		}
	}
	t.Total = t.Female + t.Male
	return t, nil
}

// RankOffset returns the 1-based row of the first record of gender in year,
// or NotFound if the year has no record of that gender.
func (s *NameStatistics) RankOffset(ctx context.Context, year int, gender model.Gender) (int, error) {
	records, err := s.records(ctx, year)
	if err != nil {
		return NotFound, err
	}
	return rankOffset(records, gender), nil
}

// Rank returns the gender-relative rank of name in year, or NotFound.
func (s *NameStatistics) Rank(ctx context.Context, year int, name string, gender model.Gender) (int, error) {
	records, err := s.records(ctx, year)
	if err != nil {
		return NotFound, err
	}
	return rankOf(records, name, gender), nil
}

// Name returns the name holding rank for gender in year, or NoName.
func (s *NameStatistics) Name(ctx context.Context, year, rank int, gender model.Gender) (string, error) {
	records, err := s.records(ctx, year)
	if err != nil {
		return NoName, err
	}

	decrease := rowDecrease(records, gender)
	for i, r := range records {
		if i+1-decrease == rank && r.Gender == gender {
			return r.Name, nil
		}
	}
	return NoName, nil
}

// YearOfHighestRank returns the year in [beginYear, endYear] in which name
// reached its best rank. The first year the name appears only sets the
// baseline: it is never returned itself, and a later year must beat it with
// a strictly lower rank. Returns NotFound when no later year improves on
// the baseline.
func (s *NameStatistics) YearOfHighestRank(ctx context.Context, beginYear, endYear int, name string, gender model.Gender) (int, error) {
	mostPopularYear := NotFound
	found := false
	highestRank := 0

	for year := beginYear; year <= endYear; year++ {
		rank, err := s.rankInRange(ctx, year, name, gender)
		if err != nil {
			return NotFound, err
		}
		if !found && rank != NotFound {
			highestRank = rank
			found = true
		} else if rank != NotFound && rank < highestRank {
			highestRank = rank
			mostPopularYear = year
		}
	}
	return mostPopularYear, nil
}

// AverageRank returns the mean rank of name over the years in
// [beginYear, endYear] where it appears. The result is NotFound when the
// summed rank is zero, which covers a name that never appears.
func (s *NameStatistics) AverageRank(ctx context.Context, beginYear, endYear int, name string, gender model.Gender) (float64, error) {
	var totalRank float64
	totalYears := 0

	for year := beginYear; year <= endYear; year++ {
		rank, err := s.rankInRange(ctx, year, name, gender)
		if err != nil {
			return NotFound, err
		}
		if rank != NotFound {
			totalRank += float64(rank)
			totalYears++
		}
	}

	if totalRank == 0 {
		return NotFound, nil
	}
	return totalRank / float64(totalYears), nil
}

// TotalBirthsRankedHigher sums the births of every gender record listed
// before name in year. If name is absent the full gender total is returned.
func (s *NameStatistics) TotalBirthsRankedHigher(ctx context.Context, year int, name string, gender model.Gender) (int, error) {
	records, err := s.records(ctx, year)
	if err != nil {
		return 0, err
	}

	total := 0
	for _, r := range records {
		if r.Gender != gender {
			continue
		}
		if r.Name == name {
			return total, nil
		}
		total += r.Count
	}
	return total, nil
}

func (s *NameStatistics) records(ctx context.Context, year int) ([]model.BirthRecord, error) {
	ds, err := s.provider.Dataset(ctx, year)
	if err != nil {
		return nil, fmt.Errorf("read year %d: %w", year, err)
	}
	return ds.Records, nil
}

// rankInRange is Rank for multi-year scans: a year without a dataset counts
// as a year in which the name does not appear.
func (s *NameStatistics) rankInRange(ctx context.Context, year int, name string, gender model.Gender) (int, error) {
	if err := ctx.Err(); err != nil {
		return NotFound, fmt.Errorf("%w: %w", ErrScanAborted, err)
	}
	rank, err := s.Rank(ctx, year, name, gender)
	if errors.Is(err, model.ErrDatasetNotFound) {
		s.logger.Debug(ctx, "no dataset for year; skipping", logger.Int("year", year))
		return NotFound, nil
	}
	return rank, err
}

func rankOffset(records []model.BirthRecord, gender model.Gender) int {
	for i, r := range records {
		if r.Gender == gender {
			return i + 1
		}
	}
	return NotFound
}

// rowDecrease is the number of rows subtracted from a raw row to obtain a
// gender-relative rank. Only male ranks are renumbered.
func rowDecrease(records []model.BirthRecord, gender model.Gender) int {
	if gender != model.Male {
		return 0
	}
	return rankOffset(records, model.Male) - 1
}

func rankOf(records []model.BirthRecord, name string, gender model.Gender) int {
	decrease := rowDecrease(records, gender)
	for i, r := range records {
		if r.Name == name && r.Gender == gender {
			return i + 1 - decrease
		}
	}
	return NotFound
}

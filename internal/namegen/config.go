package namegen

import (
	"fmt"
	"time"
)

// Config holds configuration for a generation run.
type Config struct {
	OutputDir      string // Directory receiving one file per year
	BeginYear      int    // First year written
	EndYear        int    // Last year written (inclusive)
	NamesPerGender int    // Rows per gender per year
	MaxCount       int    // Upper bound for a single row's births
	Interleave     bool   // Merge genders by count instead of females-then-males
}

// Stats holds run statistics.
type Stats struct {
	FilesWritten   int
	RecordsWritten int
	StartTime      time.Time
	EndTime        time.Time
	Duration       time.Duration
}

func (c *Config) validate() error {
	switch {
	case c.OutputDir == "":
		return fmt.Errorf("%w: output dir is required", ErrInvalidConfig)
	case c.EndYear < c.BeginYear:
		return fmt.Errorf("%w: end year %d before begin year %d", ErrInvalidConfig, c.EndYear, c.BeginYear)
	case c.NamesPerGender <= 0:
		return fmt.Errorf("%w: names per gender must be positive", ErrInvalidConfig)
	case c.NamesPerGender > maxNamesPerGender:
		return fmt.Errorf("%w: names per gender must be at most %d", ErrInvalidConfig, maxNamesPerGender)
	case c.MaxCount < minCount:
		return fmt.Errorf("%w: max count must be at least %d", ErrInvalidConfig, minCount)
	}
	return nil
}

// Package namegen writes synthetic yearly birth-name files in the layout read
// by the directory provider.
package namegen

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0750
	filePermission      = 0640
)

const minCount = 5

// maxSynthetic is the number of distinct two and three syllable names.
var maxSynthetic = len(syllables)*len(syllables) + len(syllables)*len(syllables)*len(syllables)

// maxNamesPerGender bounds NamesPerGender so every pool can be filled.
var maxNamesPerGender = min(len(femaleNames), len(maleNames)) + maxSynthetic

var (
	femaleNames = []string{
		"Mary", "Anna", "Emma", "Elizabeth", "Minnie", "Margaret", "Ida", "Alice",
		"Bertha", "Sarah", "Sophia", "Olivia", "Ava", "Isabella", "Jennifer", "Lois",
	}
	maleNames = []string{
		"John", "William", "James", "Charles", "George", "Frank", "Joseph", "Thomas",
		"Henry", "Robert", "Noah", "Liam", "Mason", "David", "Benjamin", "Asher",
	}
	syllables = []string{"ka", "ri", "lo", "ma", "ne", "sa", "to", "vi", "el", "an", "or", "is"}
)

// Generate writes one file per year in [cfg.BeginYear, cfg.EndYear] and
// returns the paths written.
func Generate(ctx context.Context, cfg *Config) ([]string, *Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, nil, err
	}
	stats := &Stats{StartTime: time.Now()}

	logger.Get().Info(ctx, "generating yearly name files",
		logger.String("dir", cfg.OutputDir),
		logger.Int("begin", cfg.BeginYear),
		logger.Int("end", cfg.EndYear),
		logger.Int("namesPerGender", cfg.NamesPerGender),
		logger.Bool("interleave", cfg.Interleave))

	if err := os.MkdirAll(cfg.OutputDir, directoryPermission); err != nil {
		return nil, nil, fmt.Errorf("create output dir: %w", err)
	}

	female, err := namePool(ctx, femaleNames, cfg.NamesPerGender, "a")
	if err != nil {
		return nil, nil, err
	}
	male, err := namePool(ctx, maleNames, cfg.NamesPerGender, "o")
	if err != nil {
		return nil, nil, err
	}

	paths := make([]string, 0, cfg.EndYear-cfg.BeginYear+1)
	for year := cfg.BeginYear; year <= cfg.EndYear; year++ {
		if err := ctx.Err(); err != nil {
			return paths, stats, fmt.Errorf("context cancelled during generation: %w", err)
		}

		records := yearRecords(female, male, cfg)
		path := filepath.Join(cfg.OutputDir, repository.FileName(year))
		if err := writeYear(path, records); err != nil {
			return paths, stats, err
		}
		paths = append(paths, path)
		stats.FilesWritten++
		stats.RecordsWritten += len(records)
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logger.Get().Info(ctx, "generated yearly name files",
		logger.Int("files", stats.FilesWritten),
		logger.Int("records", stats.RecordsWritten),
		logger.Duration("took", stats.Duration))

	return paths, stats, nil
}

// yearRecords draws counts for both pools and orders the rows by count.
func yearRecords(female, male []string, cfg *Config) []model.BirthRecord {
	f := drawCounts(female, model.Female, cfg.MaxCount)
	m := drawCounts(male, model.Male, cfg.MaxCount)
	if !cfg.Interleave {
		return append(f, m...)
	}
	all := append(f, m...)
	sort.SliceStable(all, func(i, j int) bool { return all[i].Count > all[j].Count })
	return all
}

func drawCounts(names []string, gender model.Gender, maxCount int) []model.BirthRecord {
	records := make([]model.BirthRecord, len(names))
	for i, n := range names {
		records[i] = model.BirthRecord{Name: n, Gender: gender, Count: randomInt(minCount, maxCount)}
	}
	sort.SliceStable(records, func(i, j int) bool { return records[i].Count > records[j].Count })
	return records
}

// namePool returns n distinct names: the seed names first, then synthetic
// ones ending in suffix drawn without replacement.
func namePool(ctx context.Context, seed []string, n int, suffix string) ([]string, error) {
	pool := make([]string, 0, n)
	seen := make(map[string]bool, n)
	for _, s := range seed {
		if len(pool) == n {
			return pool, nil
		}
		pool = append(pool, s)
		seen[s] = true
	}

	candidates := syntheticNames(suffix)
	for i := 0; len(pool) < n; i++ {
		if i == len(candidates) {
			return nil, fmt.Errorf("%w: only %d distinct names available, %d requested", ErrInvalidConfig, len(pool), n)
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("context cancelled while building names: %w", err)
		}
		j := randomInt(i, len(candidates)-1)
		candidates[i], candidates[j] = candidates[j], candidates[i]
		if name := candidates[i]; !seen[name] {
			seen[name] = true
			pool = append(pool, name)
		}
	}
	return pool, nil
}

// syntheticNames lists every two and three syllable name ending in suffix.
func syntheticNames(suffix string) []string {
	k := len(syllables)
	names := make([]string, 0, maxSynthetic)
	for _, a := range syllables {
		for _, b := range syllables {
			names = append(names, capitalize(a+b+suffix))
		}
	}
	for i := 0; i < k*k*k; i++ {
		names = append(names, capitalize(syllables[i/(k*k)]+syllables[i/k%k]+syllables[i%k]+suffix))
	}
	return names
}

func capitalize(s string) string {
	return strings.ToUpper(s[:1]) + s[1:]
}

func writeYear(path string, records []model.BirthRecord) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, filePermission)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := repository.WriteRecords(f, records); err != nil {
		_ = f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

// randomInt returns a uniform integer in [lo, hi] using crypto/rand.
func randomInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	n, err := rand.Int(rand.Reader, big.NewInt(int64(hi-lo+1)))
	if err != nil {
		return lo
	}
	return lo + int(n.Int64())
}

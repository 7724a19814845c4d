package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Locator resolves a year to the path of its source file in a directory.
type Locator struct {
	dir string
}

// NewLocator creates a Locator over dir.
func NewLocator(dir string) *Locator {
	return &Locator{dir: dir}
}

// Locate returns the first regular file, in name order, whose name contains
// the decimal year. The directory is listed on every call.
func (l *Locator) Locate(_ context.Context, year int) (string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return "", fmt.Errorf("list %s: %w", l.dir, err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type().IsRegular() {
			names = append(names, e.Name())
		}
	}
	if match, ok := matchYear(names, year); ok {
		return filepath.Join(l.dir, match), nil
	}
	return "", fmt.Errorf("year %d in %s: %w", year, l.dir, ErrDatasetNotFound)
}

// matchYear picks the first name (sorted) containing year.
func matchYear(names []string, year int) (string, bool) {
	sort.Strings(names)
	needle := strconv.Itoa(year)
	for _, n := range names {
		if strings.Contains(n, needle) {
			return n, true
		}
	}
	return "", false
}

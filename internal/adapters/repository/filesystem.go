package repository

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/pkg/logger"
)

// Source names used in logs and metrics.
const (
	SourceDir      = "dir"
	SourceMemory   = "memory"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// DirectoryProvider reads yearly CSV files from a directory.
type DirectoryProvider struct {
	locator *Locator
	logger  logger.Logger
}

// NewDirectoryProvider creates a provider over dir. The directory must exist.
func NewDirectoryProvider(dir string, opts ...Option) (*DirectoryProvider, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: data dir: %w", ErrInvalidConfig, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidConfig, dir)
	}

	o := applyOptions(opts)
	return &DirectoryProvider{
		locator: NewLocator(dir),
		logger:  o.logger,
	}, nil
}

// Dataset locates and parses the file for year.
func (p *DirectoryProvider) Dataset(ctx context.Context, year int) (ds model.YearDataset, err error) {
	start := time.Now()
	defer func() { observe(ctx, p.logger, SourceDir, year, start, ds.Len(), err) }()

	path, err := p.locator.Locate(ctx, year)
	if err != nil {
		return model.YearDataset{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return model.YearDataset{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	records, err := ParseRecords(f)
	if err != nil {
		return model.YearDataset{}, fmt.Errorf("parse %s: %w", path, err)
	}
	return model.YearDataset{Year: year, Records: records}, nil
}

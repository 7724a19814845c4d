package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/pkg/logger"
)

// MemoryProvider serves datasets from an embedded table.
type MemoryProvider struct {
	years  map[int][]model.BirthRecord
	logger logger.Logger
}

// NewMemoryProvider creates a provider over a copy of years.
func NewMemoryProvider(years map[int][]model.BirthRecord, opts ...Option) *MemoryProvider {
	o := applyOptions(opts)
	p := &MemoryProvider{
		years:  make(map[int][]model.BirthRecord, len(years)),
		logger: o.logger,
	}
	for year, records := range years {
		p.years[year] = append([]model.BirthRecord(nil), records...)
	}
	return p
}

// Dataset returns a copy of the records of year.
func (p *MemoryProvider) Dataset(ctx context.Context, year int) (ds model.YearDataset, err error) {
	start := time.Now()
	defer func() { observe(ctx, p.logger, SourceMemory, year, start, ds.Len(), err) }()

	records, ok := p.years[year]
	if !ok {
		return model.YearDataset{}, fmt.Errorf("year %d: %w", year, ErrDatasetNotFound)
	}
	return model.YearDataset{Year: year, Records: append([]model.BirthRecord(nil), records...)}, nil
}

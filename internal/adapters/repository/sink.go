package repository

import (
	"context"
	"fmt"

	"github.com/okian/namerank/internal/domain/model"
)

// Sink persists whole yearly datasets. S3Provider and PostgresProvider
// implement it so a directory can be imported into either backend.
type Sink interface {
	Store(ctx context.Context, ds model.YearDataset) error
}

// FileName is the conventional name of the file holding year.
func FileName(year int) string {
	return fmt.Sprintf("yob%d.txt", year)
}

// Copy reads every year in [beginYear, endYear] from src and stores it in
// dst. Years without a dataset are skipped. Returns the years copied.
func Copy(ctx context.Context, src model.Provider, dst Sink, beginYear, endYear int) ([]int, error) {
	var copied []int
	for year := beginYear; year <= endYear; year++ {
		if err := ctx.Err(); err != nil {
			return copied, err
		}
		ds, err := src.Dataset(ctx, year)
		if err != nil {
			if isNotFound(err) {
				continue
			}
			return copied, err
		}
		if err := dst.Store(ctx, ds); err != nil {
			return copied, err
		}
		copied = append(copied, year)
	}
	return copied, nil
}

package repository

import (
	"context"
	"errors"
	"time"

	"github.com/okian/namerank/pkg/logger"
	"github.com/okian/namerank/pkg/metrics"
)

// observe logs and records metrics for one dataset read.
func observe(ctx context.Context, l logger.Logger, source string, year int, start time.Time, n int, err error) {
	took := time.Since(start)
	switch {
	case err == nil:
		metrics.RecordDatasetLoad(source, metrics.OutcomeOK, took)
		metrics.AddRecordsRead(source, n)
		l.Debug(ctx, "dataset loaded",
			logger.String("source", source),
			logger.Int("year", year),
			logger.Int("records", n),
			logger.Duration("took", took),
		)
	case errors.Is(err, ErrDatasetNotFound):
		metrics.RecordDatasetLoad(source, metrics.OutcomeNotFound, took)
		l.Debug(ctx, "dataset not found", logger.String("source", source), logger.Int("year", year))
	default:
		metrics.RecordDatasetLoad(source, metrics.OutcomeError, took)
		errType := "read"
		if errors.Is(err, ErrMalformedRecord) {
			errType = "malformed_record"
		}
		metrics.RecordErrorByComponent("repository", errType)
		l.Warn(ctx, "dataset read failed",
			logger.String("source", source),
			logger.Int("year", year),
			logger.Error(err),
		)
	}
}

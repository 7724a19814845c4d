// Package service wires a dataset provider to the name statistics engine and
// instruments every query with logs and metrics.
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/internal/domain/stats"
	"github.com/okian/namerank/pkg/logger"
	"github.com/okian/namerank/pkg/metrics"
)

// Operation names used in logs and metrics.
const (
	OpTotalBirths             = "total_births"
	OpRankOffset              = "rank_offset"
	OpRank                    = "rank"
	OpName                    = "name"
	OpYearOfHighestRank       = "year_of_highest_rank"
	OpAverageRank             = "average_rank"
	OpTotalBirthsRankedHigher = "total_births_ranked_higher"
)

// Service answers name statistics queries over the configured source.
type Service struct {
	mu sync.RWMutex

	// Core components
	provider model.Provider
	stats    *stats.NameStatistics

	// Configuration
	source      string
	dataDir     string
	s3          repository.S3Config
	postgresDSN string

	// State
	started  bool
	injected bool
	queries  map[string]int

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithProvider uses p instead of building a provider from the source
// settings.
func WithProvider(p model.Provider) Option {
	return func(s *Service) {
		if p != nil {
			s.provider = p
			s.injected = true
		}
	}
}

// WithSource selects the dataset source: dir, s3 or postgres.
func WithSource(source string) Option {
	return func(s *Service) {
		if source = strings.ToLower(strings.TrimSpace(source)); source != "" {
			s.source = source
		}
	}
}

// WithDataDir sets the directory of yearly files.
func WithDataDir(dir string) Option {
	return func(s *Service) {
		s.dataDir = dir
	}
}

// WithS3Config sets the bucket used by the s3 source.
func WithS3Config(cfg repository.S3Config) Option {
	return func(s *Service) {
		s.s3 = cfg
	}
}

// WithPostgresDSN sets the connection string used by the postgres source.
func WithPostgresDSN(dsn string) Option {
	return func(s *Service) {
		s.postgresDSN = dsn
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		source:  repository.SourceDir,
		queries: make(map[string]int),
		logger:  nil, // Will be replaced when service starts
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Start builds the provider and the statistics engine.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if !s.injected {
		p, err := s.newProvider(ctx)
		if err != nil {
			return err
		}
		s.provider = p
	}

	s.stats = stats.New(s.provider, stats.WithLogger(s.logger.Named("stats")))
	s.started = true
	s.logger.Debug(ctx, "name statistics service started", logger.String("source", s.source))
	return nil
}

func (s *Service) newProvider(ctx context.Context) (model.Provider, error) {
	opts := []repository.Option{repository.WithLogger(s.logger.Named("repository"))}

	switch s.source {
	case repository.SourceDir:
		if strings.TrimSpace(s.dataDir) == "" {
			return nil, fmt.Errorf("%w: data directory is required", ErrInvalidSource)
		}
		return repository.NewDirectoryProvider(s.dataDir, opts...)
	case repository.SourceS3:
		return repository.NewS3Provider(s.s3, opts...)
	case repository.SourcePostgres:
		return repository.NewPostgresProvider(ctx, s.postgresDSN, opts...)
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidSource, s.source)
	}
}

// Stop releases the provider.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	if closer, ok := s.provider.(interface{ Close() error }); ok && !s.injected {
		if err := closer.Close(); err != nil {
			s.logger.Warn(context.Background(), "closing provider failed", logger.Error(err))
		}
	}

	s.started = false
	s.logger.Debug(context.Background(), "name statistics service stopped")
}

// TotalBirths returns the per-gender birth totals of year.
func (s *Service) TotalBirths(ctx context.Context, year int) (stats.Totals, error) {
	engine, done, err := s.begin(ctx, OpTotalBirths, logger.Int("year", year))
	if err != nil {
		return stats.Totals{}, err
	}
	totals, err := engine.TotalBirths(ctx, year)
	done(true, err, logger.Int("total", totals.Total))
	return totals, err
}

// RankOffset returns the first row of gender in year, or stats.NotFound.
func (s *Service) RankOffset(ctx context.Context, year int, gender model.Gender) (int, error) {
	engine, done, err := s.begin(ctx, OpRankOffset, logger.Int("year", year), logger.String("gender", gender.String()))
	if err != nil {
		return stats.NotFound, err
	}
	offset, err := engine.RankOffset(ctx, year, gender)
	done(offset != stats.NotFound, err, logger.Int("offset", offset))
	return offset, err
}

// Rank returns the rank of name in year, or stats.NotFound.
func (s *Service) Rank(ctx context.Context, year int, name string, gender model.Gender) (int, error) {
	engine, done, err := s.begin(ctx, OpRank,
		logger.Int("year", year), logger.String("name", name), logger.String("gender", gender.String()))
	if err != nil {
		return stats.NotFound, err
	}
	rank, err := engine.Rank(ctx, year, name, gender)
	done(rank != stats.NotFound, err, logger.Int("rank", rank))
	return rank, err
}

// Name returns the name at rank in year, or stats.NoName.
func (s *Service) Name(ctx context.Context, year, rank int, gender model.Gender) (string, error) {
	engine, done, err := s.begin(ctx, OpName,
		logger.Int("year", year), logger.Int("rank", rank), logger.String("gender", gender.String()))
	if err != nil {
		return stats.NoName, err
	}
	name, err := engine.Name(ctx, year, rank, gender)
	done(name != stats.NoName, err, logger.String("name", name))
	return name, err
}

// YearOfHighestRank returns the year name peaked in the range, or stats.NotFound.
func (s *Service) YearOfHighestRank(ctx context.Context, beginYear, endYear int, name string, gender model.Gender) (int, error) {
	engine, done, err := s.begin(ctx, OpYearOfHighestRank,
		logger.Int("begin", beginYear), logger.Int("end", endYear),
		logger.String("name", name), logger.String("gender", gender.String()))
	if err != nil {
		return stats.NotFound, err
	}
	year, err := engine.YearOfHighestRank(ctx, beginYear, endYear, name, gender)
	if err == nil {
		metrics.AddYearsScanned(endYear - beginYear + 1)
	}
	done(year != stats.NotFound, err, logger.Int("year", year))
	return year, err
}

// AverageRank returns the mean rank of name in the range, or stats.NotFound.
func (s *Service) AverageRank(ctx context.Context, beginYear, endYear int, name string, gender model.Gender) (float64, error) {
	engine, done, err := s.begin(ctx, OpAverageRank,
		logger.Int("begin", beginYear), logger.Int("end", endYear),
		logger.String("name", name), logger.String("gender", gender.String()))
	if err != nil {
		return stats.NotFound, err
	}
	avg, err := engine.AverageRank(ctx, beginYear, endYear, name, gender)
	if err == nil {
		metrics.AddYearsScanned(endYear - beginYear + 1)
	}
	done(avg != stats.NotFound, err, logger.Float64("average", avg))
	return avg, err
}

// TotalBirthsRankedHigher returns the births of gender listed above name in year.
func (s *Service) TotalBirthsRankedHigher(ctx context.Context, year int, name string, gender model.Gender) (int, error) {
	engine, done, err := s.begin(ctx, OpTotalBirthsRankedHigher,
		logger.Int("year", year), logger.String("name", name), logger.String("gender", gender.String()))
	if err != nil {
		return 0, err
	}
	total, err := engine.TotalBirthsRankedHigher(ctx, year, name, gender)
	done(true, err, logger.Int("births", total))
	return total, err
}

// Import copies the yearly files of dir in [beginYear, endYear] into the
// service's source. Only the s3 and postgres sources accept imports.
func (s *Service) Import(ctx context.Context, dir string, beginYear, endYear int) ([]int, error) {
	s.mu.RLock()
	started, provider := s.started, s.provider
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}

	sink, ok := provider.(repository.Sink)
	if !ok {
		return nil, fmt.Errorf("%w: source %q", ErrImportUnsupported, s.source)
	}

	src, err := repository.NewDirectoryProvider(dir, repository.WithLogger(s.logger.Named("import")))
	if err != nil {
		return nil, err
	}

	switch p := provider.(type) {
	case *repository.PostgresProvider:
		if err := p.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	case *repository.S3Provider:
		if err := p.EnsureBucket(ctx, s.s3.Region); err != nil {
			return nil, err
		}
	}

	years, err := repository.Copy(ctx, src, sink, beginYear, endYear)
	s.logger.Info(ctx, "import finished",
		logger.String("source", s.source),
		logger.Int("years", len(years)),
		logger.Int("begin", beginYear),
		logger.Int("end", endYear),
	)
	return years, err
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	queries := make(map[string]int, len(s.queries))
	total := 0
	for op, n := range s.queries {
		queries[op] = n
		total += n
	}

	return map[string]interface{}{
		"started":      s.started,
		"source":       s.source,
		"queries":      queries,
		"totalQueries": total,
	}
}

// begin starts an instrumented query. The returned func logs the outcome
// and records metrics; found=false marks a sentinel result.
func (s *Service) begin(ctx context.Context, op string, fields ...logger.Field) (*stats.NameStatistics, func(found bool, err error, result ...logger.Field), error) {
	s.mu.Lock()
	if !s.started {
		s.mu.Unlock()
		return nil, nil, ErrNotStarted
	}
	s.queries[op]++
	engine := s.stats
	s.mu.Unlock()

	queryID := uuid.NewString()
	start := time.Now()

	done := func(found bool, err error, result ...logger.Field) {
		took := time.Since(start)
		all := make([]logger.Field, 0, len(fields)+len(result)+3)
		all = append(all, logger.String("query_id", queryID), logger.String("op", op))
		all = append(all, fields...)

		switch {
		case err != nil:
			metrics.RecordQuery(op, metrics.OutcomeError, took)
			errType := "read"
			if errors.Is(err, model.ErrDatasetNotFound) {
				errType = "dataset_not_found"
			}
			metrics.RecordErrorByComponent("stats", errType)
			s.logger.Warn(ctx, "query failed", append(all, logger.Error(err))...)
		case !found:
			metrics.RecordQuery(op, metrics.OutcomeNotFound, took)
			s.logger.Debug(ctx, "query target not found", append(all, logger.Duration("took", took))...)
		default:
			metrics.RecordQuery(op, metrics.OutcomeOK, took)
			all = append(all, result...)
			s.logger.Debug(ctx, "query done", append(all, logger.Duration("took", took))...)
		}
	}
	return engine, done, nil
}

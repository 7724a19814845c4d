package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // registers the pgx database/sql driver

	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/pkg/logger"
)

var schemaSQL = []string{
	`CREATE TABLE IF NOT EXISTS birth_years (
	year INTEGER PRIMARY KEY
)`,
	`CREATE TABLE IF NOT EXISTS birth_names (
	year     INTEGER NOT NULL,
	position INTEGER NOT NULL,
	name     TEXT    NOT NULL,
	gender   CHAR(1) NOT NULL CHECK (gender IN ('M', 'F')),
	births   INTEGER NOT NULL CHECK (births >= 0),
	PRIMARY KEY (year, position)
)`,
}

const (
	selectYearSQL = `SELECT name, gender, births FROM birth_names WHERE year = $1 ORDER BY position`
	deleteYearSQL = `DELETE FROM birth_names WHERE year = $1`
	insertRowSQL  = `INSERT INTO birth_names (year, position, name, gender, births) VALUES ($1, $2, $3, $4, $5)`
	yearExistsSQL = `SELECT EXISTS (SELECT 1 FROM birth_years WHERE year = $1)`
	markYearSQL   = `INSERT INTO birth_years (year) VALUES ($1) ON CONFLICT (year) DO NOTHING`
)

// PostgresProvider reads yearly datasets from the birth_names table. Row
// order is the position column.
type PostgresProvider struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresProvider opens dsn through the pgx driver and pings it.
func NewPostgresProvider(ctx context.Context, dsn string, opts ...Option) (*PostgresProvider, error) {
	dsn = strings.TrimSpace(dsn)
	if dsn == "" {
		return nil, fmt.Errorf("%w: postgres dsn is required", ErrInvalidConfig)
	}
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("open postgres: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}

	o := applyOptions(opts)
	return &PostgresProvider{db: db, logger: o.logger}, nil
}

// EnsureSchema creates the birth_years and birth_names tables if missing.
func (p *PostgresProvider) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaSQL {
		if _, err := p.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

// Dataset reads the rows of year. A year that was never stored has no
// dataset; a year stored without rows is an empty dataset.
func (p *PostgresProvider) Dataset(ctx context.Context, year int) (ds model.YearDataset, err error) {
	start := time.Now()
	defer func() { observe(ctx, p.logger, SourcePostgres, year, start, ds.Len(), err) }()

	rows, err := p.db.QueryContext(ctx, selectYearSQL, year)
	if err != nil {
		return model.YearDataset{}, fmt.Errorf("query year %d: %w", year, err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.BirthRecord
	for rows.Next() {
		var (
			name, code string
			births     int
		)
		if err := rows.Scan(&name, &code, &births); err != nil {
			return model.YearDataset{}, fmt.Errorf("scan year %d: %w", year, err)
		}
		gender, err := model.ParseGender(code)
		if err != nil {
			return model.YearDataset{}, fmt.Errorf("%w: year %d: %w", ErrMalformedRecord, year, err)
		}
		records = append(records, model.BirthRecord{Name: name, Gender: gender, Count: births})
	}
	if err := rows.Err(); err != nil {
		return model.YearDataset{}, fmt.Errorf("read year %d: %w", year, err)
	}
	if len(records) == 0 {
		var exists bool
		if err := p.db.QueryRowContext(ctx, yearExistsSQL, year).Scan(&exists); err != nil {
			return model.YearDataset{}, fmt.Errorf("check year %d: %w", year, err)
		}
		if !exists {
			return model.YearDataset{}, fmt.Errorf("year %d: %w", year, ErrDatasetNotFound)
		}
	}
	return model.YearDataset{Year: year, Records: records}, nil
}

// Store replaces the rows of ds.Year with ds in one transaction and marks
// the year as present, so an empty dataset reads back empty.
func (p *PostgresProvider) Store(ctx context.Context, ds model.YearDataset) (err error) {
	tx, err := p.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, markYearSQL, ds.Year); err != nil {
		return fmt.Errorf("mark year %d: %w", ds.Year, err)
	}
	if _, err = tx.ExecContext(ctx, deleteYearSQL, ds.Year); err != nil {
		return fmt.Errorf("clear year %d: %w", ds.Year, err)
	}

	stmt, err := tx.PrepareContext(ctx, insertRowSQL)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i, r := range ds.Records {
		if _, err = stmt.ExecContext(ctx, ds.Year, i+1, r.Name, r.Gender.String(), r.Count); err != nil {
			return fmt.Errorf("insert year %d row %d: %w", ds.Year, i+1, err)
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit year %d: %w", ds.Year, err)
	}
	return nil
}

// Close releases the connection pool.
func (p *PostgresProvider) Close() error {
	return p.db.Close()
}

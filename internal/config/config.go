// Package config defines namerank configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults.
// - All functions accept context.Context as the first parameter.
// - Validation failures wrap ErrInvalidConfig.
package config

import (
	"context"
	"fmt"
	"strings"
)

// Dataset sources.
const (
	SourceDir      = "dir"
	SourceS3       = "s3"
	SourcePostgres = "postgres"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// LogFormat selects the log handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Source selects where yearly datasets are read from: dir, s3 or postgres.
	Source string `koanf:"source"`

	// DataDir is the directory of yearly CSV files for the dir source.
	DataDir string `koanf:"data_dir"`

	// S3 bucket settings for the s3 source.
	S3Endpoint  string `koanf:"s3_endpoint"`
	S3Region    string `koanf:"s3_region"`
	S3AccessKey string `koanf:"s3_access_key"`
	S3SecretKey string `koanf:"s3_secret_key"`
	S3Bucket    string `koanf:"s3_bucket"`
	S3Prefix    string `koanf:"s3_prefix"`
	S3UseSSL    bool   `koanf:"s3_use_ssl"`

	// PostgresDSN is the connection string for the postgres source.
	PostgresDSN string `koanf:"postgres_dsn"`

	// MetricsFile, when set, receives a Prometheus textfile after each run.
	MetricsFile string `koanf:"metrics_file"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention and is currently unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:  "info",
		LogFormat: "text",
		Source:    SourceDir,
		S3Region:  "us-east-1",
	}
}

// Validate checks that the selected source is known and that the settings
// it needs are present. The data directory is not required here because the
// command line may still supply it.
func (c *Config) Validate(_ context.Context) error {
	switch strings.ToLower(strings.TrimSpace(c.Source)) {
	case SourceDir:
	case SourceS3:
		if strings.TrimSpace(c.S3Endpoint) == "" {
			return fmt.Errorf("%w: s3_endpoint must not be empty", ErrInvalidConfig)
		}
		if strings.TrimSpace(c.S3Bucket) == "" {
			return fmt.Errorf("%w: s3_bucket must not be empty", ErrInvalidConfig)
		}
	case SourcePostgres:
		if strings.TrimSpace(c.PostgresDSN) == "" {
			return fmt.Errorf("%w: postgres_dsn must not be empty", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown source %q", ErrInvalidConfig, c.Source)
	}
	return nil
}

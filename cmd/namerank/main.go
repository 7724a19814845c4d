package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/namerank/internal/adapters/repository"
	service "github.com/okian/namerank/internal/app"
	"github.com/okian/namerank/internal/cli"
	"github.com/okian/namerank/internal/config"
	"github.com/okian/namerank/pkg/logger"
	"github.com/okian/namerank/pkg/metrics"
)

// Exit codes.
const (
	exitOK    = 0
	exitError = 1
	exitUsage = 2
)

func main() {
	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run loads configuration, applies flags and executes one command.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		// Use fmt for initialization errors since logger isn't available yet
		fmt.Fprintln(stderr, "failed to load config: "+err.Error())
		return exitError
	}

	fs := flag.NewFlagSet("namerank", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		cli.Usage(stderr)
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}
	dataDir := fs.String("dir", cfg.DataDir, "Directory of yearly name files")
	source := fs.String("source", cfg.Source, "Dataset source: dir, s3 or postgres")
	metricsFile := fs.String("metrics-file", cfg.MetricsFile, "Write Prometheus metrics to this file on exit")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	cfg.DataDir, cfg.Source, cfg.MetricsFile, cfg.LogLevel = *dataDir, *source, *metricsFile, *logLevel

	// A leading argument that is not a command names the data directory.
	rest := fs.Args()
	if len(rest) > 0 && !cli.IsCommand(rest[0]) {
		cfg.DataDir, rest = rest[0], rest[1:]
	}
	if len(rest) == 0 {
		rest = []string{"demo"}
	}
	if rest[0] == "help" {
		fs.Usage()
		return exitOK
	}

	if err := cfg.Validate(ctx); err != nil {
		fmt.Fprintln(stderr, err.Error())
		return exitUsage
	}

	if err := logger.Init(logger.WithWriter(stderr), logger.WithFormat(cfg.LogFormat)); err != nil {
		fmt.Fprintln(stderr, "failed to initialize logging: "+err.Error())
		return exitError
	}
	defer func() { _ = logger.Sync() }()
	loggerInstance := logger.Get()

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc := service.New(
		service.WithLogger(loggerInstance),
		service.WithSource(cfg.Source),
		service.WithDataDir(cfg.DataDir),
		service.WithS3Config(repository.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			UseSSL:    cfg.S3UseSSL,
		}),
		service.WithPostgresDSN(cfg.PostgresDSN),
	)
	if err := svc.Start(ctx); err != nil {
		fmt.Fprintln(stderr, "failed to start service: "+err.Error())
		return exitError
	}

	code := exitOK
	if err := cli.NewRunner(svc, stdout, cfg.DataDir).Run(ctx, rest); err != nil {
		fmt.Fprintln(stderr, err.Error())
		code = exitError
		if errors.Is(err, cli.ErrUsage) {
			code = exitUsage
		}
	}
	svc.Stop()

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			loggerInstance.Error(ctx, "writing metrics failed", logger.String("path", cfg.MetricsFile), logger.Error(err))
			return exitError
		}
	}
	return code
}

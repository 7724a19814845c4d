package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/okian/namerank/internal/namegen"
	"github.com/okian/namerank/pkg/logger"
)

// Default configuration constants.
const (
	defaultOutputDir = "testdata/names"
	defaultBeginYear = 2000
	defaultEndYear   = 2014
	defaultNames     = 200
	defaultMaxCount  = 25000
)

func main() {
	var (
		outputDir  = flag.String("out", defaultOutputDir, "Output directory")
		beginYear  = flag.Int("begin", defaultBeginYear, "First year")
		endYear    = flag.Int("end", defaultEndYear, "Last year, inclusive")
		names      = flag.Int("names", defaultNames, "Names per gender per year")
		maxCount   = flag.Int("max", defaultMaxCount, "Largest births count for a single name")
		interleave = flag.Bool("interleave", false, "Order rows by count across genders")
		verbose    = flag.Bool("verbose", false, "Enable debug logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		namegen.ShowHelp()
		return
	}

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		os.Exit(1)
	}
	if *verbose {
		_ = logger.SetLevelString("debug")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := &namegen.Config{
		OutputDir:      *outputDir,
		BeginYear:      *beginYear,
		EndYear:        *endYear,
		NamesPerGender: *names,
		MaxCount:       *maxCount,
		Interleave:     *interleave,
	}

	if _, _, err := namegen.Generate(ctx, cfg); err != nil {
		logger.Get().Error(ctx, "generation failed", logger.Error(err))
		stop()
		os.Exit(1)
	}
}

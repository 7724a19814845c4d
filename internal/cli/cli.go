// Package cli maps command line arguments onto name statistics queries and
// prints their results as plain text.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/internal/domain/stats"
)

// Querier is the set of statistics queries the commands dispatch to.
type Querier interface {
	TotalBirths(ctx context.Context, year int) (stats.Totals, error)
	RankOffset(ctx context.Context, year int, gender model.Gender) (int, error)
	Rank(ctx context.Context, year int, name string, gender model.Gender) (int, error)
	Name(ctx context.Context, year, rank int, gender model.Gender) (string, error)
	YearOfHighestRank(ctx context.Context, beginYear, endYear int, name string, gender model.Gender) (int, error)
	AverageRank(ctx context.Context, beginYear, endYear int, name string, gender model.Gender) (float64, error)
	TotalBirthsRankedHigher(ctx context.Context, year int, name string, gender model.Gender) (int, error)
}

// Importer loads the yearly files of a directory into the query source.
type Importer interface {
	Import(ctx context.Context, dir string, beginYear, endYear int) ([]int, error)
}

type command struct {
	usage string
	args  int
	run   func(ctx context.Context, r *Runner, args []string) error
}

var commands map[string]command

// init fills commands. runDemo reads the table back.
func init() { //nolint:gochecknoinits // breaks the demo/commands reference cycle
	commands = map[string]command{
		"total":     {"total YEAR", 1, runTotal},
		"offset":    {"offset YEAR GENDER", 2, runOffset},
		"rank":      {"rank YEAR NAME GENDER", 3, runRank},
		"name":      {"name YEAR RANK GENDER", 3, runName},
		"best-year": {"best-year BEGIN END NAME GENDER", 4, runBestYear},
		"avg-rank":  {"avg-rank BEGIN END NAME GENDER", 4, runAverageRank},
		"higher":    {"higher YEAR NAME GENDER", 3, runHigher},
		"demo":      {"demo", 0, runDemo},
		"import":    {"import BEGIN END", 2, runImport},
	}
}

var commandOrder = []string{"total", "offset", "rank", "name", "best-year", "avg-rank", "higher", "demo", "import"}

// IsCommand reports whether name is a known command.
func IsCommand(name string) bool {
	_, ok := commands[name]
	return ok || name == "help"
}

// Runner executes commands against a Querier.
type Runner struct {
	q       Querier
	out     io.Writer
	dataDir string
}

// NewRunner creates a Runner printing to out. dataDir is the directory the
// import command reads from.
func NewRunner(q Querier, out io.Writer, dataDir string) *Runner {
	return &Runner{q: q, out: out, dataDir: dataDir}
}

// Run executes the command named by args[0].
func (r *Runner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("%w: no command given", ErrUsage)
	}
	name, rest := args[0], args[1:]
	if name == "help" {
		Usage(r.out)
		return nil
	}

	cmd, ok := commands[name]
	if !ok {
		return fmt.Errorf("%w: unknown command %q", ErrUsage, name)
	}
	if len(rest) != cmd.args {
		return fmt.Errorf("%w: usage: %s", ErrUsage, cmd.usage)
	}
	return cmd.run(ctx, r, rest)
}

// Usage prints the command summary.
func Usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: namerank [flags] [DIR] <command> [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, name := range commandOrder {
		fmt.Fprintf(w, "  %s\n", commands[name].usage)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "GENDER is M or F. Missing names print -1 or NO NAME.")
}

func runTotal(ctx context.Context, r *Runner, args []string) error {
	year, err := parseInt("YEAR", args[0])
	if err != nil {
		return err
	}
	t, err := r.q.TotalBirths(ctx, year)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "total births = %d\nfemale girls = %d\nmale boys = %d\n", t.Total, t.Female, t.Male)
	return nil
}

func runOffset(ctx context.Context, r *Runner, args []string) error {
	year, err := parseInt("YEAR", args[0])
	if err != nil {
		return err
	}
	gender, err := model.ParseGender(args[1])
	if err != nil {
		return err
	}
	offset, err := r.q.RankOffset(ctx, year, gender)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, offset)
	return nil
}

func runRank(ctx context.Context, r *Runner, args []string) error {
	year, err := parseInt("YEAR", args[0])
	if err != nil {
		return err
	}
	gender, err := model.ParseGender(args[2])
	if err != nil {
		return err
	}
	rank, err := r.q.Rank(ctx, year, args[1], gender)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Rank is: %d\n", rank)
	return nil
}

func runName(ctx context.Context, r *Runner, args []string) error {
	year, err := parseInt("YEAR", args[0])
	if err != nil {
		return err
	}
	rank, err := parseInt("RANK", args[1])
	if err != nil {
		return err
	}
	gender, err := model.ParseGender(args[2])
	if err != nil {
		return err
	}
	name, err := r.q.Name(ctx, year, rank, gender)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "Name: %s\n", name)
	return nil
}

func runBestYear(ctx context.Context, r *Runner, args []string) error {
	begin, end, gender, err := parseRange(args[0], args[1], args[3])
	if err != nil {
		return err
	}
	year, err := r.q.YearOfHighestRank(ctx, begin, end, args[2], gender)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, year)
	return nil
}

func runAverageRank(ctx context.Context, r *Runner, args []string) error {
	begin, end, gender, err := parseRange(args[0], args[1], args[3])
	if err != nil {
		return err
	}
	avg, err := r.q.AverageRank(ctx, begin, end, args[2], gender)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, formatRank(avg))
	return nil
}

func runHigher(ctx context.Context, r *Runner, args []string) error {
	year, err := parseInt("YEAR", args[0])
	if err != nil {
		return err
	}
	gender, err := model.ParseGender(args[2])
	if err != nil {
		return err
	}
	total, err := r.q.TotalBirthsRankedHigher(ctx, year, args[1], gender)
	if err != nil {
		return err
	}
	fmt.Fprintln(r.out, total)
	return nil
}

func runImport(ctx context.Context, r *Runner, args []string) error {
	im, ok := r.q.(Importer)
	if !ok {
		return ErrImportUnavailable
	}
	if r.dataDir == "" {
		return fmt.Errorf("%w: import needs a data directory", ErrUsage)
	}
	begin, err := parseInt("BEGIN", args[0])
	if err != nil {
		return err
	}
	end, err := parseInt("END", args[1])
	if err != nil {
		return err
	}
	years, err := im.Import(ctx, r.dataDir, begin, end)
	if err != nil {
		return err
	}
	fmt.Fprintf(r.out, "imported %d years\n", len(years))
	return nil
}

// demoSteps is the classic query sequence against the 1880-2014 data set.
var demoSteps = [][]string{
	{"total", "2010"},
	{"rank", "2010", "Asher", "M"},
	{"name", "2012", "10", "M"},
	{"best-year", "1880", "2010", "David", "M"},
	{"best-year", "1880", "2014", "Jennifer", "F"},
	{"avg-rank", "1880", "2014", "Benjamin", "M"},
	{"avg-rank", "1880", "2014", "Lois", "F"},
	{"higher", "2014", "Draco", "M"},
	{"higher", "2014", "Sophia", "F"},
}

// runDemo replays demoSteps. A failing step is reported and the sequence
// continues.
func runDemo(ctx context.Context, r *Runner, _ []string) error {
	var errs []error
	for _, step := range demoSteps {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := commands[step[0]].run(ctx, r, step[1:]); err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func parseRange(begin, end, gender string) (int, int, model.Gender, error) {
	b, err := parseInt("BEGIN", begin)
	if err != nil {
		return 0, 0, "", err
	}
	e, err := parseInt("END", end)
	if err != nil {
		return 0, 0, "", err
	}
	g, err := model.ParseGender(gender)
	if err != nil {
		return 0, 0, "", err
	}
	return b, e, g, nil
}

func parseInt(what, s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: %s must be an integer, got %q", ErrUsage, what, s)
	}
	return n, nil
}

// formatRank prints whole values with a trailing ".0" so that -1 reads as -1.0.
func formatRank(v float64) string {
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

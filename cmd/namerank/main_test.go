package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

const names2010 = "John,M,20\nMary,F,15\nMark,M,10\n"

func dataDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "yob2010.txt"), []byte(names2010), 0o600); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	convey.Convey("Given a data directory with 2010 names", t, func() {
		dir := dataDir(t)
		var stdout, stderr bytes.Buffer

		convey.Convey("When the directory is passed positionally", func() {
			code := run(ctx, []string{dir, "total", "2010"}, &stdout, &stderr)

			convey.Convey("Then the totals are printed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldEqual, "total births = 45\nfemale girls = 15\nmale boys = 30\n")
			})
		})

		convey.Convey("When the directory is passed with -dir", func() {
			code := run(ctx, []string{"-dir", dir, "rank", "2010", "Mark", "M"}, &stdout, &stderr)

			convey.Convey("Then the male rank is normalized", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldEqual, "Rank is: 3\n")
			})
		})

		convey.Convey("When only the directory is given", func() {
			code := run(ctx, []string{dir}, &stdout, &stderr)

			convey.Convey("Then the demo runs and reports the missing years", func() {
				convey.So(code, convey.ShouldEqual, exitError)
				convey.So(stdout.String(), convey.ShouldStartWith, "total births = 45\n")
				convey.So(strings.Count(stdout.String(), "error: "), convey.ShouldEqual, 3)
			})
		})

		convey.Convey("When a metrics file is requested", func() {
			path := filepath.Join(t.TempDir(), "namerank.prom")
			code := run(ctx, []string{"-metrics-file", path, "-dir", dir, "name", "2010", "1", "M"}, &stdout, &stderr)

			convey.Convey("Then the textfile holds the query counters", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stdout.String(), convey.ShouldEqual, "Name: John\n")
				body, err := os.ReadFile(path)
				convey.So(err, convey.ShouldBeNil)
				convey.So(string(body), convey.ShouldContainSubstring, "namerank_stats_queries_total")
			})
		})

		convey.Convey("When the command is unknown", func() {
			code := run(ctx, []string{"-dir", dir, "median", "2010"}, &stdout, &stderr)

			convey.Convey("Then it is a usage error", func() {
				convey.So(code, convey.ShouldEqual, exitUsage)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "unknown command")
			})
		})
	})

	convey.Convey("Given no data directory", t, func() {
		var stdout, stderr bytes.Buffer

		convey.Convey("When a query is run", func() {
			code := run(ctx, []string{"total", "2010"}, &stdout, &stderr)

			convey.Convey("Then the service fails to start", func() {
				convey.So(code, convey.ShouldEqual, exitError)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "failed to start service")
			})
		})

		convey.Convey("When help is requested", func() {
			code := run(ctx, []string{"help"}, &stdout, &stderr)

			convey.Convey("Then usage is printed", func() {
				convey.So(code, convey.ShouldEqual, exitOK)
				convey.So(stderr.String(), convey.ShouldContainSubstring, "avg-rank BEGIN END NAME GENDER")
			})
		})

		convey.Convey("When the source is unknown", func() {
			code := run(ctx, []string{"-source", "ftp", "total", "2010"}, &stdout, &stderr)
			convey.So(code, convey.ShouldEqual, exitUsage)
		})
	})
}

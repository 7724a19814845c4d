package namegen_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/internal/domain/stats"
	"github.com/okian/namerank/internal/namegen"
	"github.com/okian/namerank/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	if err := logger.Init(); err != nil {
		panic(err)
	}
}

func TestGenerate(t *testing.T) {
	ctx := context.Background()

	Convey("Given a generator config", t, func() {
		dir := filepath.Join(t.TempDir(), "names")
		cfg := &namegen.Config{
			OutputDir:      dir,
			BeginYear:      2000,
			EndYear:        2002,
			NamesPerGender: 30,
			MaxCount:       1000,
		}

		Convey("When generating files", func() {
			paths, st, err := namegen.Generate(ctx, cfg)

			Convey("Then one file per year is written", func() {
				So(err, ShouldBeNil)
				So(len(paths), ShouldEqual, 3)
				So(paths[0], ShouldEqual, filepath.Join(dir, "yob2000.txt"))
				So(st.FilesWritten, ShouldEqual, 3)
				So(st.RecordsWritten, ShouldEqual, 180)
			})

			Convey("And each year reads back with females before males", func() {
				p, err := repository.NewDirectoryProvider(dir)
				So(err, ShouldBeNil)
				ds, err := p.Dataset(ctx, 2001)
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 60)
				So(ds.Records[0].Gender, ShouldEqual, model.Female)
				So(ds.Records[30].Gender, ShouldEqual, model.Male)

				names := make(map[string]bool)
				for i, r := range ds.Records {
					So(r.Count, ShouldBeBetweenOrEqual, 5, 1000)
					So(names[string(r.Gender)+r.Name], ShouldBeFalse)
					names[string(r.Gender)+r.Name] = true
					if i > 0 && ds.Records[i-1].Gender == r.Gender {
						So(ds.Records[i-1].Count, ShouldBeGreaterThanOrEqualTo, r.Count)
					}
				}
			})

			Convey("And male ranks restart after the female block", func() {
				p, _ := repository.NewDirectoryProvider(dir)
				s := stats.New(p)
				offset, err := s.RankOffset(ctx, 2002, model.Male)
				So(err, ShouldBeNil)
				So(offset, ShouldEqual, 31)
				top, err := s.Name(ctx, 2002, 1, model.Male)
				So(err, ShouldBeNil)
				So(top, ShouldNotEqual, stats.NoName)
			})
		})

		Convey("When interleaving genders", func() {
			cfg.Interleave = true
			_, _, err := namegen.Generate(ctx, cfg)
			So(err, ShouldBeNil)

			Convey("Then rows are ordered by count across genders", func() {
				p, _ := repository.NewDirectoryProvider(dir)
				ds, err := p.Dataset(ctx, 2000)
				So(err, ShouldBeNil)
				for i := 1; i < ds.Len(); i++ {
					So(ds.Records[i-1].Count, ShouldBeGreaterThanOrEqualTo, ds.Records[i].Count)
				}
			})
		})

		Convey("When the context is cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			paths, _, err := namegen.Generate(cctx, cfg)

			Convey("Then nothing is written", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
				So(paths, ShouldBeEmpty)
			})
		})
	})

	Convey("Given invalid configs", t, func() {
		base := namegen.Config{OutputDir: t.TempDir(), BeginYear: 2000, EndYear: 2001, NamesPerGender: 1, MaxCount: 10}

		for name, mutate := range map[string]func(*namegen.Config){
			"no output dir":  func(c *namegen.Config) { c.OutputDir = "" },
			"reversed range": func(c *namegen.Config) { c.EndYear = 1999 },
			"no names":       func(c *namegen.Config) { c.NamesPerGender = 0 },
			"tiny max count": func(c *namegen.Config) { c.MaxCount = 1 },
			"too many names": func(c *namegen.Config) { c.NamesPerGender = 2000 },
		} {
			Convey("When the config has "+name, func() {
				cfg := base
				mutate(&cfg)
				_, _, err := namegen.Generate(ctx, &cfg)

				Convey("Then ErrInvalidConfig is returned", func() {
					So(errors.Is(err, namegen.ErrInvalidConfig), ShouldBeTrue)
				})
			})
		}
	})

	Convey("Given the largest name pool", t, func() {
		dir := t.TempDir()
		cfg := &namegen.Config{OutputDir: dir, BeginYear: 1880, EndYear: 1880, NamesPerGender: 1888, MaxCount: 100}

		Convey("When generating a year", func() {
			done := make(chan error, 1)
			go func() {
				_, _, err := namegen.Generate(ctx, cfg)
				done <- err
			}()

			var err error
			select {
			case err = <-done:
			case <-time.After(10 * time.Second):
				t.Fatal("generation did not finish")
			}

			Convey("Then every name of each gender is distinct", func() {
				So(err, ShouldBeNil)
				p, _ := repository.NewDirectoryProvider(dir)
				ds, err := p.Dataset(ctx, 1880)
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 2*1888)
				seen := make(map[string]bool, ds.Len())
				for _, r := range ds.Records {
					seen[string(r.Gender)+r.Name] = true
				}
				So(len(seen), ShouldEqual, ds.Len())
			})
		})
	})
}

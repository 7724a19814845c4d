package repository_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestDirectoryProvider(t *testing.T) {
	ctx := context.Background()

	Convey("Given a data directory", t, func() {
		dir := t.TempDir()
		writeFile(t, dir, "yob2010.csv", "John,M,20\nMary,F,15\nMark,M,10\n")
		writeFile(t, dir, "yob2011.csv", "John,M,20\nbroken\n")

		p, err := repository.NewDirectoryProvider(dir)
		So(err, ShouldBeNil)

		Convey("When reading a present year", func() {
			ds, err := p.Dataset(ctx, 2010)

			Convey("Then the records are returned in file order", func() {
				So(err, ShouldBeNil)
				So(ds.Year, ShouldEqual, 2010)
				So(ds.Len(), ShouldEqual, 3)
				So(ds.Records[1], ShouldResemble, model.BirthRecord{Name: "Mary", Gender: model.Female, Count: 15})
			})
		})

		Convey("When reading a missing year", func() {
			_, err := p.Dataset(ctx, 1999)

			Convey("Then ErrDatasetNotFound is returned", func() {
				So(errors.Is(err, model.ErrDatasetNotFound), ShouldBeTrue)
			})
		})

		Convey("When reading a malformed file", func() {
			_, err := p.Dataset(ctx, 2011)

			Convey("Then ErrMalformedRecord is returned", func() {
				So(errors.Is(err, repository.ErrMalformedRecord), ShouldBeTrue)
			})
		})

		Convey("When the file changes between reads", func() {
			_, err := p.Dataset(ctx, 2010)
			So(err, ShouldBeNil)
			writeFile(t, dir, "yob2010.csv", "Zoe,F,1\n")
			ds, err := p.Dataset(ctx, 2010)

			Convey("Then the new content is read", func() {
				So(err, ShouldBeNil)
				So(ds.Len(), ShouldEqual, 1)
				So(ds.Records[0].Name, ShouldEqual, "Zoe")
			})
		})
	})

	Convey("Given an invalid directory", t, func() {
		Convey("When it does not exist", func() {
			_, err := repository.NewDirectoryProvider(filepath.Join(t.TempDir(), "missing"))
			So(errors.Is(err, repository.ErrInvalidConfig), ShouldBeTrue)
		})

		Convey("When it is a file", func() {
			dir := t.TempDir()
			writeFile(t, dir, "file.csv", "")
			_, err := repository.NewDirectoryProvider(filepath.Join(dir, "file.csv"))
			So(errors.Is(err, repository.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

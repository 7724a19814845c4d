package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewPostgresProvider(t *testing.T) {
	Convey("Given an empty dsn", t, func() {
		_, err := repository.NewPostgresProvider(context.Background(), "  ")

		Convey("Then ErrInvalidConfig is returned", func() {
			So(errors.Is(err, repository.ErrInvalidConfig), ShouldBeTrue)
		})
	})
}

// TestPostgresProviderIntegration runs against a live database when
// NAMERANK_TEST_POSTGRES_DSN is set.
func TestPostgresProviderIntegration(t *testing.T) {
	dsn := os.Getenv("NAMERANK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("NAMERANK_TEST_POSTGRES_DSN not set")
	}
	ctx := context.Background()

	Convey("Given a provider on a live database", t, func() {
		p, err := repository.NewPostgresProvider(ctx, dsn)
		So(err, ShouldBeNil)
		defer func() { _ = p.Close() }()
		So(p.EnsureSchema(ctx), ShouldBeNil)

		ds := model.YearDataset{Year: 2999, Records: []model.BirthRecord{
			{Name: "Mary", Gender: model.Female, Count: 15},
			{Name: "John", Gender: model.Male, Count: 20},
			{Name: "Mark", Gender: model.Male, Count: 10},
		}}

		Convey("When a year is stored twice", func() {
			So(p.Store(ctx, ds), ShouldBeNil)
			So(p.Store(ctx, ds), ShouldBeNil)

			Convey("Then it reads back once, in position order", func() {
				got, err := p.Dataset(ctx, 2999)
				So(err, ShouldBeNil)
				So(got, ShouldResemble, ds)
			})
		})

		Convey("When a year is stored without rows", func() {
			So(p.Store(ctx, model.YearDataset{Year: 2998}), ShouldBeNil)

			Convey("Then it reads back as an empty dataset", func() {
				got, err := p.Dataset(ctx, 2998)
				So(err, ShouldBeNil)
				So(got.Year, ShouldEqual, 2998)
				So(got.Len(), ShouldEqual, 0)
			})
		})

		Convey("Then a year never stored is not found", func() {
			_, err := p.Dataset(ctx, 1)
			So(errors.Is(err, model.ErrDatasetNotFound), ShouldBeTrue)
		})
	})
}

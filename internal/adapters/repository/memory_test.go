package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMemoryProvider(t *testing.T) {
	ctx := context.Background()

	Convey("Given an embedded table", t, func() {
		table := map[int][]model.BirthRecord{
			2011: {{Name: "Emma", Gender: model.Female, Count: 5}},
			2010: {{Name: "John", Gender: model.Male, Count: 20}},
		}
		p := repository.NewMemoryProvider(table)

		Convey("Then a dataset is served", func() {
			ds, err := p.Dataset(ctx, 2010)
			So(err, ShouldBeNil)
			So(ds.Records[0].Name, ShouldEqual, "John")
		})

		Convey("Then mutating inputs or outputs does not leak", func() {
			table[2010][0].Name = "Changed"
			ds, _ := p.Dataset(ctx, 2010)
			ds.Records[0].Count = 0
			again, _ := p.Dataset(ctx, 2010)
			So(again.Records[0], ShouldResemble, model.BirthRecord{Name: "John", Gender: model.Male, Count: 20})
		})

		Convey("Then a missing year is not found", func() {
			_, err := p.Dataset(ctx, 1900)
			So(errors.Is(err, model.ErrDatasetNotFound), ShouldBeTrue)
		})
	})
}

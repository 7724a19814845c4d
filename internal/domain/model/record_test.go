package model_test

import (
	"errors"
	"testing"

	"github.com/okian/namerank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestParseGender(t *testing.T) {
	Convey("Given raw gender codes", t, func() {
		Convey("When parsing the canonical codes", func() {
			m, errM := model.ParseGender("M")
			f, errF := model.ParseGender("F")

			Convey("Then they map to Male and Female", func() {
				So(errM, ShouldBeNil)
				So(errF, ShouldBeNil)
				So(m, ShouldEqual, model.Male)
				So(f, ShouldEqual, model.Female)
			})
		})

		Convey("When parsing lowercase codes with whitespace", func() {
			g, err := model.ParseGender(" f ")

			Convey("Then they are normalized", func() {
				So(err, ShouldBeNil)
				So(g, ShouldEqual, model.Female)
			})
		})

		Convey("When parsing an unknown code", func() {
			_, err := model.ParseGender("X")

			Convey("Then it should return ErrInvalidGender", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, model.ErrInvalidGender), ShouldBeTrue)
			})
		})

		Convey("When parsing an empty code", func() {
			_, err := model.ParseGender("")

			Convey("Then it should fail", func() {
				So(errors.Is(err, model.ErrInvalidGender), ShouldBeTrue)
			})
		})
	})
}

func TestGender(t *testing.T) {
	Convey("Given gender values", t, func() {
		So(model.Male.String(), ShouldEqual, "M")
		So(model.Female.String(), ShouldEqual, "F")
		So(model.Male.Valid(), ShouldBeTrue)
		So(model.Female.Valid(), ShouldBeTrue)
		So(model.Gender("").Valid(), ShouldBeFalse)
		So(model.Gender("m").Valid(), ShouldBeFalse)
	})
}

func TestYearDataset(t *testing.T) {
	Convey("Given a year dataset", t, func() {
		ds := model.YearDataset{
			Year: 2010,
			Records: []model.BirthRecord{
				{Name: "John", Gender: model.Male, Count: 20},
				{Name: "Mary", Gender: model.Female, Count: 15},
			},
		}

		Convey("Then Len reports the record count", func() {
			So(ds.Len(), ShouldEqual, 2)
			So(model.YearDataset{}.Len(), ShouldEqual, 0)
		})
	})
}

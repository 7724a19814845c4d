package repository_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/okian/namerank/internal/adapters/repository"
	"github.com/okian/namerank/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

func TestNewS3Provider(t *testing.T) {
	Convey("Given S3 configs", t, func() {
		valid := repository.S3Config{
			Endpoint:  "localhost:9000",
			AccessKey: "namerank",
			SecretKey: "namerank123",
			Bucket:    "names",
		}

		Convey("When the config is complete", func() {
			p, err := repository.NewS3Provider(valid)

			Convey("Then the provider is created without contacting the server", func() {
				So(err, ShouldBeNil)
				So(p, ShouldNotBeNil)
			})
		})

		for field, mutate := range map[string]func(*repository.S3Config){
			"endpoint":   func(c *repository.S3Config) { c.Endpoint = "" },
			"access key": func(c *repository.S3Config) { c.AccessKey = " " },
			"secret key": func(c *repository.S3Config) { c.SecretKey = "" },
			"bucket":     func(c *repository.S3Config) { c.Bucket = "" },
		} {
			Convey("When the "+field+" is missing", func() {
				cfg := valid
				mutate(&cfg)
				_, err := repository.NewS3Provider(cfg)

				Convey("Then ErrInvalidConfig is returned", func() {
					So(errors.Is(err, repository.ErrInvalidConfig), ShouldBeTrue)
				})
			})
		}
	})
}

// TestS3ProviderIntegration runs against a live MinIO when
// NAMERANK_TEST_S3_ENDPOINT is set.
func TestS3ProviderIntegration(t *testing.T) {
	endpoint := os.Getenv("NAMERANK_TEST_S3_ENDPOINT")
	if endpoint == "" {
		t.Skip("NAMERANK_TEST_S3_ENDPOINT not set")
	}
	ctx := context.Background()

	Convey("Given a bucket on a live server", t, func() {
		p, err := repository.NewS3Provider(repository.S3Config{
			Endpoint:  endpoint,
			AccessKey: os.Getenv("NAMERANK_TEST_S3_ACCESS_KEY"),
			SecretKey: os.Getenv("NAMERANK_TEST_S3_SECRET_KEY"),
			Bucket:    "namerank-test",
			Prefix:    "run-" + uuid.NewString(),
		})
		So(err, ShouldBeNil)
		So(p.EnsureBucket(ctx, ""), ShouldBeNil)

		ds := model.YearDataset{Year: 2010, Records: []model.BirthRecord{
			{Name: "John", Gender: model.Male, Count: 20},
			{Name: "Mary", Gender: model.Female, Count: 15},
		}}
		So(p.Store(ctx, ds), ShouldBeNil)

		Convey("Then the stored year reads back in order", func() {
			got, err := p.Dataset(ctx, 2010)
			So(err, ShouldBeNil)
			So(got, ShouldResemble, ds)
		})

		Convey("Then a missing year is not found", func() {
			_, err := p.Dataset(ctx, 1880)
			So(errors.Is(err, model.ErrDatasetNotFound), ShouldBeTrue)
		})
	})
}

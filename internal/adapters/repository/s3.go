package repository

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/okian/namerank/internal/domain/model"
	"github.com/okian/namerank/pkg/logger"
)

const defaultS3Region = "us-east-1"

// S3Config describes the bucket holding the yearly files.
type S3Config struct {
	Endpoint  string
	Region    string
	AccessKey string
	SecretKey string
	Bucket    string
	Prefix    string
	UseSSL    bool
}

// S3Provider reads yearly CSV objects from an S3-compatible bucket. Objects
// directly under the prefix play the role of files in a directory.
type S3Provider struct {
	client *minio.Client
	bucket string
	prefix string
	logger logger.Logger
}

// NewS3Provider creates a provider for cfg. No request is sent until the
// first read.
func NewS3Provider(cfg S3Config, opts ...Option) (*S3Provider, error) {
	endpoint := strings.TrimSpace(cfg.Endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: s3 endpoint is required", ErrInvalidConfig)
	}
	access := strings.TrimSpace(cfg.AccessKey)
	secret := strings.TrimSpace(cfg.SecretKey)
	if access == "" || secret == "" {
		return nil, fmt.Errorf("%w: s3 access key and secret key are required", ErrInvalidConfig)
	}
	bucket := strings.TrimSpace(cfg.Bucket)
	if bucket == "" {
		return nil, fmt.Errorf("%w: s3 bucket is required", ErrInvalidConfig)
	}
	region := strings.TrimSpace(cfg.Region)
	if region == "" {
		region = defaultS3Region
	}

	client, err := minio.New(endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(access, secret, ""),
		Secure: cfg.UseSSL,
		Region: region,
	})
	if err != nil {
		return nil, fmt.Errorf("init s3 client: %w", err)
	}

	o := applyOptions(opts)
	return &S3Provider{
		client: client,
		bucket: bucket,
		prefix: normalizePrefix(cfg.Prefix),
		logger: o.logger,
	}, nil
}

// Dataset locates the object for year and parses it.
func (p *S3Provider) Dataset(ctx context.Context, year int) (ds model.YearDataset, err error) {
	start := time.Now()
	defer func() { observe(ctx, p.logger, SourceS3, year, start, ds.Len(), err) }()

	key, err := p.locate(ctx, year)
	if err != nil {
		return model.YearDataset{}, err
	}

	obj, err := p.client.GetObject(ctx, p.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return model.YearDataset{}, p.mapError(year, err)
	}
	defer func() { _ = obj.Close() }()

	records, err := ParseRecords(obj)
	if err != nil {
		if s3ErrorCode(err) != "" {
			return model.YearDataset{}, p.mapError(year, err)
		}
		return model.YearDataset{}, fmt.Errorf("parse s3://%s/%s: %w", p.bucket, key, err)
	}
	return model.YearDataset{Year: year, Records: records}, nil
}

// Store uploads ds as <prefix>yob<year>.txt.
func (p *S3Provider) Store(ctx context.Context, ds model.YearDataset) error {
	var buf bytes.Buffer
	if err := WriteRecords(&buf, ds.Records); err != nil {
		return fmt.Errorf("encode year %d: %w", ds.Year, err)
	}

	key := p.prefix + FileName(ds.Year)
	_, err := p.client.PutObject(ctx, p.bucket, key, bytes.NewReader(buf.Bytes()), int64(buf.Len()), minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	if err != nil {
		return fmt.Errorf("put s3://%s/%s: %w", p.bucket, key, err)
	}
	return nil
}

// EnsureBucket creates the bucket when it does not exist.
func (p *S3Provider) EnsureBucket(ctx context.Context, region string) error {
	exists, err := p.client.BucketExists(ctx, p.bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", p.bucket, err)
	}
	if exists {
		return nil
	}
	if region == "" {
		region = defaultS3Region
	}
	return p.client.MakeBucket(ctx, p.bucket, minio.MakeBucketOptions{Region: region})
}

func (p *S3Provider) locate(ctx context.Context, year int) (string, error) {
	var keys []string
	for obj := range p.client.ListObjects(ctx, p.bucket, minio.ListObjectsOptions{
		Prefix:    p.prefix,
		Recursive: false,
	}) {
		if obj.Err != nil {
			return "", p.mapError(year, obj.Err)
		}
		keys = append(keys, obj.Key)
	}

	if key, ok := matchObjectKey(keys, p.prefix, year); ok {
		return key, nil
	}
	return "", fmt.Errorf("year %d in s3://%s/%s: %w", year, p.bucket, p.prefix, ErrDatasetNotFound)
}

func (p *S3Provider) mapError(year int, err error) error {
	switch s3ErrorCode(err) {
	case "NoSuchKey", "NoSuchBucket":
		return fmt.Errorf("year %d in s3://%s: %w", year, p.bucket, ErrDatasetNotFound)
	}
	return fmt.Errorf("s3 read year %d: %w", year, err)
}

// s3ErrorCode extracts the S3 error code from err, looking through wrapping.
func s3ErrorCode(err error) string {
	var resp minio.ErrorResponse
	if errors.As(err, &resp) {
		return resp.Code
	}
	return minio.ToErrorResponse(err).Code
}

// matchObjectKey applies the directory rule to object keys: only objects
// directly under prefix are candidates and the first base name containing
// year wins.
func matchObjectKey(keys []string, prefix string, year int) (string, bool) {
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		rel := strings.TrimPrefix(k, prefix)
		if rel == "" || strings.Contains(rel, "/") {
			continue
		}
		names = append(names, rel)
	}
	match, ok := matchYear(names, year)
	if !ok {
		return "", false
	}
	return prefix + match, true
}

func normalizePrefix(prefix string) string {
	prefix = strings.Trim(strings.TrimSpace(prefix), "/")
	if prefix == "" {
		return ""
	}
	return path.Clean(prefix) + "/"
}

package storage

import (
	"context"
	"fmt"
	"io"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// S3Config configures an S3-compatible bucket.
type S3Config struct {
	Bucket    string `mapstructure:"bucket"`
	AccessKey string `mapstructure:"access_key"`
	SecretKey string `mapstructure:"secret_key"`
	// Custom endpoint for MinIO, R2 and friends.
	Endpoint string `mapstructure:"endpoint"`
	Region   string `mapstructure:"region"`
	// Required by MinIO.
	PathStyle bool `mapstructure:"path_style"`
}

func (c *S3Config) applyDefaults() {
	if c.Region == "" {
		c.Region = "us-east-1"
	}
}

func (c *S3Config) validate() error {
	switch {
	case c.Bucket == "":
		return fmt.Errorf("%w: bucket is required", ErrInvalidConfig)
	case c.AccessKey == "" || c.SecretKey == "":
		return fmt.Errorf("%w: access key and secret key are required", ErrInvalidConfig)
	}
	return nil
}

// S3 stores files in an S3 bucket. Files are always private; they are served
// back through the application's uploads route.
type S3 struct {
	client *s3.Client
	bucket string
}

// NewS3 builds an S3 backend from static credentials.
func NewS3(cfg S3Config) (*S3, error) {
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := s3.New(s3.Options{
		Region:      cfg.Region,
		Credentials: credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
	}, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = cfg.PathStyle
		}
	})

	return &S3{client: client, bucket: cfg.Bucket}, nil
}

func (s *S3) Put(ctx context.Context, r io.Reader, size int64, opts ...Option) (*FileInfo, error) {
	body, key, contentType, err := newPutOptions(opts).prepare(r, size)
	if err != nil {
		return nil, err
	}

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrUploadFailed)
	}

	return &FileInfo{Key: key, ContentType: contentType, Size: size}, nil
}

func (s *S3) Get(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey(key); err != nil {
		return nil, err
	}
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, wrapS3Error(err, ErrNotFound)
	}
	return out.Body, nil
}

func (s *S3) Delete(ctx context.Context, key string) error {
	if err := checkKey(key); err != nil {
		return err
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return wrapS3Error(err, ErrDeleteFailed)
	}
	return nil
}

var _ Storage = (*S3)(nil)

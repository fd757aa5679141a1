package media

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"socialconnect/internal/config"
	"socialconnect/internal/middleware"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// s3Store uploads images to an S3-compatible bucket with public-read ACLs.
// Path-style addressing keeps it working against MinIO and CEPH endpoints.
type s3Store struct {
	client   *s3.Client
	bucket   string
	endpoint string
	baseURL  string
}

func newS3Store(cfg *config.Config) (*s3Store, error) {
	if cfg.S3Bucket == "" || cfg.S3Region == "" {
		return nil, fmt.Errorf("S3 bucket and region are required for the s3 backend")
	}

	endpoint := strings.TrimRight(cfg.S3Endpoint, "/")

	opts := s3.Options{
		Region:       cfg.S3Region,
		UsePathStyle: true,
	}
	if endpoint != "" {
		opts.BaseEndpoint = aws.String(endpoint)
	}
	if cfg.S3AccessKey != "" {
		opts.Credentials = credentials.NewStaticCredentialsProvider(cfg.S3AccessKey, cfg.S3SecretKey, "")
	}

	return &s3Store{
		client:   s3.New(opts),
		bucket:   cfg.S3Bucket,
		endpoint: endpoint,
		baseURL:  strings.TrimRight(cfg.MediaBaseURL, "/"),
	}, nil
}

func (s *s3Store) Save(ctx context.Context, key, contentType string, data []byte) (string, error) {
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		middleware.MediaUploads.WithLabelValues("s3", "error").Inc()
		return "", fmt.Errorf("s3 upload %s/%s: %w", s.bucket, key, err)
	}

	middleware.MediaUploads.WithLabelValues("s3", "ok").Inc()
	return s.url(key), nil
}

// url builds the public URL, preferring a configured CDN base over the
// path-style endpoint form.
func (s *s3Store) url(key string) string {
	if s.baseURL != "" {
		return s.baseURL + "/" + key
	}
	if s.endpoint != "" {
		return s.endpoint + "/" + s.bucket + "/" + key
	}
	return fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.bucket, key)
}

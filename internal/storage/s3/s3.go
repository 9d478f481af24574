// Package s3 stores uploaded files in an S3-compatible bucket (AWS S3 or
// Cloudflare R2). It is an alternate backend for avatar storage, selected
// through configuration.
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chirpsocial/chirper-server/internal/storage"
	"github.com/google/uuid"
)

var _ storage.FileStore = (*Store)(nil)

// Options configures the bucket client.
type Options struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
	// Endpoint overrides the S3 endpoint, e.g. an R2 account URL.
	Endpoint string
	// PublicBaseURL, when set, is prepended to object keys to form the
	// stored reference. Otherwise the bare key is the reference.
	PublicBaseURL string
}

// Store uploads files as bucket objects keyed "{uuid}_{filename}".
type Store struct {
	client        *awss3.Client
	bucket        string
	publicBaseURL string
}

// New initializes the bucket client using static credentials and an
// optional custom endpoint.
func New(opts Options) *Store {
	cfg := aws.Config{
		Credentials: credentials.NewStaticCredentialsProvider(opts.AccessKeyID, opts.SecretAccessKey, ""),
		Region:      opts.Region,
	}

	client := awss3.NewFromConfig(cfg, func(o *awss3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Store{
		client:        client,
		bucket:        opts.Bucket,
		publicBaseURL: strings.TrimSuffix(opts.PublicBaseURL, "/"),
	}
}

// Save uploads data under a freshly generated object key and returns the
// reference for it.
func (s *Store) Save(ctx context.Context, filename string, data []byte) (string, error) {
	key := uuid.New().String() + "_" + path.Base(filename)

	_, err := s.client.PutObject(ctx, &awss3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
		Body:   bytes.NewReader(data),
	})
	if err != nil {
		return "", fmt.Errorf("put object %s: %w", key, err)
	}

	if s.publicBaseURL != "" {
		return fmt.Sprintf("%s/%s", s.publicBaseURL, key), nil
	}
	return key, nil
}

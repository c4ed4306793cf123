package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/rs/zerolog"
)

// ImageStore keeps uploaded course and profile images
type ImageStore interface {
	// Put stores the object and returns its public link.
	Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error)
	Remove(ctx context.Context, objectName string) error
}

// MinioConfig holds the connection settings for MinIO
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
	PublicURL string
}

// MinioStore implements ImageStore on a MinIO bucket
type MinioStore struct {
	client  *minio.Client
	bucket  string
	baseURL string
}

// readOnlyPolicy lets anyone GET objects so image links work in browsers.
const readOnlyPolicy = `{"Version":"2012-10-17","Statement":[{"Effect":"Allow","Principal":{"AWS":["*"]},"Action":["s3:GetObject"],"Resource":["arn:aws:s3:::%s/*"]}]}`

// NewMinioStore connects to MinIO and makes sure the bucket exists
func NewMinioStore(ctx context.Context, cfg MinioConfig, logger zerolog.Logger) (*MinioStore, error) {
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
		if err := client.SetBucketPolicy(ctx, cfg.Bucket, fmt.Sprintf(readOnlyPolicy, cfg.Bucket)); err != nil {
			logger.Warn().Err(err).Str("bucket", cfg.Bucket).Msg("Failed to set public read policy")
		}
		logger.Info().Str("bucket", cfg.Bucket).Msg("Created bucket")
	}

	baseURL := strings.TrimRight(cfg.PublicURL, "/")
	if baseURL == "" {
		scheme := "http"
		if cfg.UseSSL {
			scheme = "https"
		}
		baseURL = fmt.Sprintf("%s://%s", scheme, cfg.Endpoint)
	}

	logger.Info().Str("endpoint", cfg.Endpoint).Msg("Connected to MinIO")
	return &MinioStore{client: client, bucket: cfg.Bucket, baseURL: baseURL}, nil
}

func (s *MinioStore) Put(ctx context.Context, objectName string, r io.Reader, size int64, contentType string) (string, error) {
	_, err := s.client.PutObject(ctx, s.bucket, objectName, r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("failed to upload %s: %w", objectName, err)
	}
	return fmt.Sprintf("%s/%s/%s", s.baseURL, s.bucket, objectName), nil
}

func (s *MinioStore) Remove(ctx context.Context, objectName string) error {
	return s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{})
}

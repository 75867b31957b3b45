package objectstore

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/colonyconnect/colony-api/internal/config"
	"github.com/colonyconnect/colony-api/internal/logger"
)

// Store wraps a MinIO client scoped to a single bucket. Complaint photos
// and event images are uploaded through it.
type Store struct {
	client *minio.Client
	bucket string
	useSSL bool
	log    *log.Logger
}

// New creates a Store and makes sure the configured bucket exists
func New(cfg *config.Config) (*Store, error) {
	slog := logger.Storage()

	client, err := minio.New(cfg.Upload.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.Upload.AccessKey, cfg.Upload.SecretKey, ""),
		Secure: cfg.Upload.UseSSL,
	})
	if err != nil {
		slog.Error("Failed to create object storage client", "endpoint", cfg.Upload.Endpoint, "error", err)
		return nil, fmt.Errorf("failed to create object storage client: %w", err)
	}

	store := &Store{
		client: client,
		bucket: cfg.Upload.Bucket,
		useSSL: cfg.Upload.UseSSL,
		log:    slog,
	}

	if err := store.ensureBucket(context.Background()); err != nil {
		return nil, err
	}

	slog.Info("Object storage initialized", "endpoint", cfg.Upload.Endpoint, "bucket", cfg.Upload.Bucket)
	return store, nil
}

func (s *Store) ensureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := s.client.BucketExists(ctx, s.bucket)
	if err != nil {
		s.log.Error("Failed to check bucket", "bucket", s.bucket, "error", err)
		return fmt.Errorf("failed to check bucket %s: %w", s.bucket, err)
	}
	if exists {
		return nil
	}

	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		s.log.Error("Failed to create bucket", "bucket", s.bucket, "error", err)
		return fmt.Errorf("failed to create bucket %s: %w", s.bucket, err)
	}

	s.log.Info("Bucket created", "bucket", s.bucket)
	return nil
}

// Put uploads an object and returns its public URL
func (s *Store) Put(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) (string, error) {
	s.log.Debug("uploading object", "bucket", s.bucket, "object", objectName, "size", size, "content_type", contentType)

	_, err := s.client.PutObject(ctx, s.bucket, objectName, reader, size, minio.PutObjectOptions{
		ContentType: contentType,
	})
	if err != nil {
		s.log.Error("failed to upload object", "object", objectName, "error", err)
		return "", fmt.Errorf("failed to upload object %s: %w", objectName, err)
	}

	url := s.ObjectURL(objectName)
	s.log.Info("object uploaded successfully", "object", objectName, "url", url)
	return url, nil
}

// Remove deletes an object from the bucket
func (s *Store) Remove(ctx context.Context, objectName string) error {
	if err := s.client.RemoveObject(ctx, s.bucket, objectName, minio.RemoveObjectOptions{}); err != nil {
		s.log.Error("failed to remove object", "object", objectName, "error", err)
		return fmt.Errorf("failed to remove object %s: %w", objectName, err)
	}
	return nil
}

// ObjectURL builds the public URL for an object in the bucket
func (s *Store) ObjectURL(objectName string) string {
	scheme := "http"
	if s.useSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, s.client.EndpointURL().Host, s.bucket, objectName)
}

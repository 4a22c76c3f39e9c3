package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

// MinIOConfig holds the connection settings for an S3-compatible endpoint.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	UseSSL    bool
	Bucket    string
}

// MinIOStorage maps namespaces to key prefixes inside one bucket.
type MinIOStorage struct {
	client *minio.Client
	bucket string
}

var _ ports.BlobStorage = (*MinIOStorage)(nil)

// NewMinIOStorage builds the client. It does not contact the server; call
// EnsureBucket before serving traffic.
func NewMinIOStorage(cfg MinIOConfig) (*MinIOStorage, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, errors.New("minio config missing endpoint or bucket")
	}
	mc, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio new: %w", err)
	}
	return &MinIOStorage{client: mc, bucket: cfg.Bucket}, nil
}

// EnsureBucket creates the bucket unless it already exists.
func (s *MinIOStorage) EnsureBucket(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := s.client.MakeBucket(ctx, s.bucket, minio.MakeBucketOptions{}); err != nil {
		exists, xerr := s.client.BucketExists(ctx, s.bucket)
		if xerr != nil || !exists {
			return fmt.Errorf("minio bucket ensure: %w", err)
		}
	}
	return nil
}

// EnsureNamespace is a no-op: prefixes need no provisioning.
func (s *MinIOStorage) EnsureNamespace(context.Context, string) error {
	return nil
}

func (s *MinIOStorage) Put(ctx context.Context, ns, name string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, objectKey(ns, name), r, size, minio.PutObjectOptions{ContentType: contentType})
	if err != nil {
		return fmt.Errorf("minio put: %w", err)
	}
	return nil
}

func (s *MinIOStorage) Open(ctx context.Context, ns, name string) (io.ReadCloser, *ports.BlobInfo, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, objectKey(ns, name), minio.GetObjectOptions{})
	if err != nil {
		return nil, nil, mapMinIOError(err)
	}
	stat, err := obj.Stat()
	if err != nil {
		_ = obj.Close()
		return nil, nil, mapMinIOError(err)
	}
	return obj, &ports.BlobInfo{
		Size:        stat.Size,
		ContentType: stat.ContentType,
		ModTime:     stat.LastModified,
	}, nil
}

// Remove stats first because RemoveObject succeeds for absent keys.
func (s *MinIOStorage) Remove(ctx context.Context, ns, name string) error {
	key := objectKey(ns, name)
	if _, err := s.client.StatObject(ctx, s.bucket, key, minio.StatObjectOptions{}); err != nil {
		return mapMinIOError(err)
	}
	if err := s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}); err != nil {
		return mapMinIOError(err)
	}
	return nil
}

func objectKey(ns, name string) string {
	return path.Join(strings.Trim(ns, "/"), name)
}

func mapMinIOError(err error) error {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchObject":
		return domain.ErrNotFound
	}
	return fmt.Errorf("minio: %w", err)
}

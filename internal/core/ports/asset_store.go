package ports

import (
	"context"
	"io"
	"time"

	"github.com/devfolio/portfolio-api/internal/core/domain"
)

// BlobInfo is the metadata a storage backend reports for an object.
type BlobInfo struct {
	Size        int64
	ContentType string
	ModTime     time.Time
}

// BlobStorage is a namespaced byte store (local filesystem or object storage).
// Remove and Open report domain.ErrNotFound for missing objects.
type BlobStorage interface {
	// EnsureNamespace provisions a namespace. It is idempotent and safe to race.
	EnsureNamespace(ctx context.Context, namespace string) error
	Put(ctx context.Context, namespace, name string, r io.Reader, size int64, contentType string) error
	Open(ctx context.Context, namespace, name string) (io.ReadCloser, *BlobInfo, error)
	Remove(ctx context.Context, namespace, name string) error
}

// AssetStore validates, names, stores and removes uploaded files.
type AssetStore interface {
	Validate(contentType string) error
	Store(ctx context.Context, upload domain.Upload, category domain.AssetCategory, ownerID string) (*domain.Asset, error)
	URLFor(filename string, category domain.AssetCategory) string
	Open(ctx context.Context, filename string, category domain.AssetCategory) (io.ReadCloser, *BlobInfo, error)
	Delete(ctx context.Context, filename string, category domain.AssetCategory) error
}

// AssetCleaner schedules asynchronous removal of superseded files.
type AssetCleaner interface {
	Enqueue(ref domain.AssetRef)
}

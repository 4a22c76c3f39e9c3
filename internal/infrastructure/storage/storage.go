package storage

import (
	"context"
	"fmt"

	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const (
	DriverLocal = "local"
	DriverMinIO = "minio"
)

// Options selects and configures a BlobStorage driver.
type Options struct {
	Driver    string
	LocalRoot string
	MinIO     MinIOConfig
}

// New builds the configured driver and provisions what it needs.
func New(ctx context.Context, opts Options) (ports.BlobStorage, error) {
	switch opts.Driver {
	case "", DriverLocal:
		return NewLocalStorage(opts.LocalRoot)
	case DriverMinIO:
		s, err := NewMinIOStorage(opts.MinIO)
		if err != nil {
			return nil, err
		}
		if err := s.EnsureBucket(ctx); err != nil {
			return nil, err
		}
		return s, nil
	default:
		return nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}

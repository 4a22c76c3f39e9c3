package queue

import (
	"context"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/devfolio/portfolio-api/internal/core/domain"
	"github.com/devfolio/portfolio-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// AssetDeleter is the part of the asset store the cleaner needs.
type AssetDeleter interface {
	Delete(ctx context.Context, filename string, category domain.AssetCategory) error
}

// CleanupDispatcher removes superseded assets in the background. Refs are
// sharded by filename so repeated requests for one file land on one worker.
type CleanupDispatcher struct {
	workers []chan domain.AssetRef
	assets  AssetDeleter
	log     zerolog.Logger
	wg      sync.WaitGroup

	// OnResult, when set, is called after every attempted delete.
	OnResult func(ref domain.AssetRef, err error)
}

var _ ports.AssetCleaner = (*CleanupDispatcher)(nil)

// NewCleanupDispatcher creates a dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewCleanupDispatcher(numWorkers int, assets AssetDeleter, log zerolog.Logger) *CleanupDispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &CleanupDispatcher{
		workers: make([]chan domain.AssetRef, numWorkers),
		assets:  assets,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AssetRef, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit when ctx is cancelled or
// after Close once their queue is drained.
func (d *CleanupDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Enqueue schedules ref for deletion without blocking. When the worker's
// queue is full the ref is dropped and logged; the file stays orphaned.
func (d *CleanupDispatcher) Enqueue(ref domain.AssetRef) {
	select {
	case d.workers[d.shardIndex(ref.Filename)] <- ref:
	default:
		d.log.Warn().
			Str("filename", ref.Filename).
			Str("category", string(ref.Category)).
			Msg("cleanup queue full, dropping asset")
	}
}

// Close stops accepting work and waits for queued deletes to finish.
func (d *CleanupDispatcher) Close() {
	for _, ch := range d.workers {
		close(ch)
	}
	d.wg.Wait()
}

// shardIndex maps a filename deterministically to a worker index.
func (d *CleanupDispatcher) shardIndex(filename string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(filename))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *CleanupDispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AssetRef) {
	defer d.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ref, ok := <-ch:
			if !ok {
				return
			}
			err := d.assets.Delete(ctx, ref.Filename, ref.Category)
			if err != nil {
				d.log.Error().Err(err).
					Str("filename", ref.Filename).
					Int("worker_id", id).
					Msg("asset cleanup failed")
			}
			if d.OnResult != nil {
				d.OnResult(ref, err)
			}
		}
	}
}

package downloader

import (
	"context"
	"sync"
	"time"

	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/media"
	"galleryscraper/pkg/storage"
)

// Status is the outcome of one download attempt
type Status string

const (
	StatusDownloaded Status = "downloaded"
	StatusSkipped    Status = "skipped"
	StatusFailed     Status = "failed"
)

// Result describes what happened to one media item
type Result struct {
	Media       media.Media
	Destination string
	Status      Status
	Err         error
	Duration    time.Duration
}

// Storage is the filesystem side the downloader needs
type Storage interface {
	Destination(item media.Media) string
	Exists(path string) bool
	Commit(staging, dest string) error
	Discard(staging string)
}

// Downloader fetches media into the output directory unless the
// destination file already exists.
type Downloader struct {
	fetcher Fetcher
	storage Storage
	logger  logger.Logger

	mu       sync.Mutex
	inFlight map[string]bool
}

// New creates a Downloader
func New(fetcher Fetcher, store Storage, log logger.Logger) *Downloader {
	if log == nil {
		log = logger.GetLogger()
	}
	return &Downloader{
		fetcher:  fetcher,
		storage:  store,
		logger:   log,
		inFlight: make(map[string]bool),
	}
}

// Download stores item. Failures are reported in the Result, never panicked
// or returned as fatal.
func (d *Downloader) Download(ctx context.Context, item media.Media) Result {
	start := time.Now()
	dest := d.storage.Destination(item)
	result := Result{Media: item, Destination: dest}

	if d.storage.Exists(dest) || !d.claim(dest) {
		return d.skipped(result, start)
	}
	defer d.release(dest)

	// another worker may have committed dest between the check and the claim
	if d.storage.Exists(dest) {
		return d.skipped(result, start)
	}

	staging := storage.StagingPath(dest)
	if err := d.fetcher.Fetch(ctx, item.URL, staging); err != nil {
		d.storage.Discard(staging)
		result.Status = StatusFailed
		result.Err = err
		result.Duration = time.Since(start)
		logger.LogDownload(d.logger, item.URL, dest, string(result.Status), err)
		return result
	}

	if err := d.storage.Commit(staging, dest); err != nil {
		result.Status = StatusFailed
		result.Err = err
		result.Duration = time.Since(start)
		logger.LogDownload(d.logger, item.URL, dest, string(result.Status), err)
		return result
	}

	result.Status = StatusDownloaded
	result.Duration = time.Since(start)
	logger.LogDownload(d.logger, item.URL, dest, string(result.Status), nil)
	return result
}

func (d *Downloader) skipped(result Result, start time.Time) Result {
	result.Status = StatusSkipped
	result.Duration = time.Since(start)
	logger.LogDownload(d.logger, result.Media.URL, result.Destination, string(result.Status), nil)
	return result
}

// claim marks dest as being downloaded; two posts sharing a media file
// must not write the same staging path concurrently.
func (d *Downloader) claim(dest string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.inFlight[dest] {
		return false
	}
	d.inFlight[dest] = true
	return true
}

func (d *Downloader) release(dest string) {
	d.mu.Lock()
	delete(d.inFlight, dest)
	d.mu.Unlock()
}

package downloader

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/media"
	"galleryscraper/pkg/storage"
)

// fakeFetcher writes the URL into the destination and records each call
type fakeFetcher struct {
	mu    sync.Mutex
	calls []string
	err   error
	delay time.Duration
}

func (f *fakeFetcher) Fetch(ctx context.Context, url, destination string) error {
	f.mu.Lock()
	f.calls = append(f.calls, destination)
	f.mu.Unlock()

	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.err != nil {
		os.WriteFile(destination, []byte("partial"), 0644)
		return f.err
	}
	return os.WriteFile(destination, []byte(url), 0644)
}

func (f *fakeFetcher) Calls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.calls...)
}

func newDownloader(t *testing.T, f Fetcher) (*Downloader, *storage.Manager, *logger.TestLogger) {
	t.Helper()
	store, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)
	log := logger.NewTestLogger()
	return New(f, store, log), store, log
}

var pngMedia = media.Media{
	Title:    "https:--example.com-a-b.png",
	URL:      "https://example.com/a/b.png",
	FileType: ".png",
	Kind:     media.KindImage,
}

func TestDownloadStagesThenCommits(t *testing.T) {
	f := &fakeFetcher{}
	d, store, _ := newDownloader(t, f)

	res := d.Download(context.Background(), pngMedia)

	require.NoError(t, res.Err)
	assert.Equal(t, StatusDownloaded, res.Status)
	assert.Equal(t, filepath.Join(store.GetOutputDir(), "https:--example.com-a-b.png.png"), res.Destination)

	calls := f.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, res.Destination+storage.PartSuffix, calls[0])

	content, err := os.ReadFile(res.Destination)
	require.NoError(t, err)
	assert.Equal(t, pngMedia.URL, string(content))
}

func TestDownloadSkipsExistingFile(t *testing.T) {
	f := &fakeFetcher{}
	d, _, log := newDownloader(t, f)

	first := d.Download(context.Background(), pngMedia)
	second := d.Download(context.Background(), pngMedia)

	assert.Equal(t, StatusDownloaded, first.Status)
	assert.Equal(t, StatusSkipped, second.Status)
	assert.Len(t, f.Calls(), 1, "fetcher must not run for an existing destination")
	assert.True(t, log.HasMessage("File already exists"))
}

func TestDownloadFailureIsReportedAndCleanedUp(t *testing.T) {
	f := &fakeFetcher{err: errors.New("wget exited: exit status 8: 404 Not Found")}
	d, store, log := newDownloader(t, f)

	res := d.Download(context.Background(), pngMedia)

	assert.Equal(t, StatusFailed, res.Status)
	require.Error(t, res.Err)
	assert.False(t, store.Exists(res.Destination))
	assert.False(t, store.Exists(storage.StagingPath(res.Destination)))
	assert.True(t, log.HasError())

	// a later run tries again instead of skipping
	f.err = nil
	again := d.Download(context.Background(), pngMedia)
	assert.Equal(t, StatusDownloaded, again.Status)
}

func TestDownloadSameDestinationConcurrently(t *testing.T) {
	f := &fakeFetcher{delay: 50 * time.Millisecond}
	d, _, _ := newDownloader(t, f)

	var downloaded, skipped int32
	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			switch d.Download(context.Background(), pngMedia).Status {
			case StatusDownloaded:
				atomic.AddInt32(&downloaded, 1)
			case StatusSkipped:
				atomic.AddInt32(&skipped, 1)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(1), downloaded)
	assert.Equal(t, int32(3), skipped)
	assert.Len(t, f.Calls(), 1)
}

func TestDownloadPlaceholder(t *testing.T) {
	f := &fakeFetcher{}
	d, store, _ := newDownloader(t, f)

	res := d.Download(context.Background(), media.PlaceholderMedia())

	assert.Equal(t, StatusDownloaded, res.Status)
	assert.Equal(t, filepath.Join(store.GetOutputDir(), "placeholder.jpg"), res.Destination)
}

// lateCommitStorage reports dest missing on the first check and present
// afterwards, as when another worker commits it in between.
type lateCommitStorage struct {
	*storage.Manager
	checks int32
}

func (s *lateCommitStorage) Exists(path string) bool {
	return atomic.AddInt32(&s.checks, 1) > 1
}

func TestDownloadRechecksAfterClaim(t *testing.T) {
	f := &fakeFetcher{}
	mgr, err := storage.NewManager(t.TempDir())
	require.NoError(t, err)
	store := &lateCommitStorage{Manager: mgr}
	d := New(f, store, logger.NewTestLogger())

	res := d.Download(context.Background(), pngMedia)

	assert.Equal(t, StatusSkipped, res.Status)
	assert.Empty(t, f.Calls())
	assert.Equal(t, int32(2), atomic.LoadInt32(&store.checks))
}

package downloader

import (
	"context"
	"errors"
	"sort"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galleryscraper/pkg/logger"
)

func jobs(n int) []PostJob {
	out := make([]PostJob, n)
	for i := range out {
		out[i] = PostJob{Page: 0, Index: i, URL: "https://gallery.example/post/" + string(rune('a'+i))}
	}
	return out
}

func TestProcessSequentialKeepsOrder(t *testing.T) {
	var seen []int
	handler := func(ctx context.Context, job PostJob) PostResult {
		seen = append(seen, job.Index)
		return PostResult{Download: Result{Status: StatusDownloaded}}
	}

	results := Process(context.Background(), 1, jobs(5), handler, logger.NewNopLogger())

	require.Len(t, results, 5)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, seen)
	for i, r := range results {
		assert.Equal(t, i, r.Job.Index)
	}
}

func TestProcessConcurrent(t *testing.T) {
	var running, maxRunning int32
	handler := func(ctx context.Context, job PostJob) PostResult {
		n := atomic.AddInt32(&running, 1)
		for {
			m := atomic.LoadInt32(&maxRunning)
			if n <= m || atomic.CompareAndSwapInt32(&maxRunning, m, n) {
				break
			}
		}
		time.Sleep(20 * time.Millisecond)
		atomic.AddInt32(&running, -1)
		return PostResult{}
	}

	results := Process(context.Background(), 3, jobs(9), handler, logger.NewNopLogger())

	require.Len(t, results, 9)
	assert.LessOrEqual(t, atomic.LoadInt32(&maxRunning), int32(3))
	assert.Greater(t, atomic.LoadInt32(&maxRunning), int32(1))

	var idx []int
	for _, r := range results {
		idx = append(idx, r.Job.Index)
	}
	sort.Ints(idx)
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8}, idx)
}

func TestProcessIsolatesFailures(t *testing.T) {
	handler := func(ctx context.Context, job PostJob) PostResult {
		if job.Index == 1 {
			return PostResult{Err: errors.New("post fetch failed")}
		}
		return PostResult{Download: Result{Status: StatusDownloaded}}
	}

	results := Process(context.Background(), 1, jobs(3), handler, logger.NewNopLogger())

	require.Len(t, results, 3)
	assert.Error(t, results[1].Err)
	assert.Equal(t, StatusDownloaded, results[2].Download.Status)
}

func TestProcessStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	var handled int32
	handler := func(ctx context.Context, job PostJob) PostResult {
		if atomic.AddInt32(&handled, 1) == 2 {
			cancel()
		}
		return PostResult{}
	}

	results := Process(ctx, 1, jobs(10), handler, logger.NewNopLogger())

	assert.Equal(t, int32(2), atomic.LoadInt32(&handled))
	assert.Len(t, results, 2)
}

func TestWorkerPoolSubmitAfterCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	pool := NewWorkerPool(ctx, 1, func(context.Context, PostJob) PostResult { return PostResult{} }, logger.NewNopLogger())
	pool.Start()
	cancel()

	assert.Error(t, pool.Submit(PostJob{}))
	pool.Stop()
	pool.Stop()

	_, open := <-pool.Results()
	assert.False(t, open)
}

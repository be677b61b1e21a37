package downloader

import (
	"context"
	"fmt"
	"sync"
	"time"

	"galleryscraper/pkg/logger"
)

// PostJob is one post link waiting to be processed
type PostJob struct {
	Page  int
	Index int
	URL   string
}

// Stage names the step of post processing a result stopped at
type Stage string

const (
	StageFetch    Stage = "fetch"
	StageExtract  Stage = "extract"
	StageDownload Stage = "download"
)

// PostResult is what processing a post produced. Download is the zero
// value when the post never reached the download stage.
type PostResult struct {
	Job      PostJob
	Stage    Stage
	Download Result
	// Err is set when fetching or extracting the post failed
	Err      error
	Duration time.Duration
}

// JobHandler processes a single post
type JobHandler func(ctx context.Context, job PostJob) PostResult

// WorkerPool runs a JobHandler over submitted posts with a fixed number of
// workers. With one worker, jobs complete in submission order.
type WorkerPool struct {
	numWorkers  int
	jobQueue    chan PostJob
	resultQueue chan PostResult
	wg          sync.WaitGroup
	ctx         context.Context
	handler     JobHandler
	logger      logger.Logger
	stopOnce    sync.Once
}

// NewWorkerPool creates a pool bound to ctx; cancelling ctx stops workers
// between jobs.
func NewWorkerPool(ctx context.Context, numWorkers int, handler JobHandler, log logger.Logger) *WorkerPool {
	if numWorkers < 1 {
		numWorkers = 1
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &WorkerPool{
		numWorkers:  numWorkers,
		jobQueue:    make(chan PostJob, numWorkers*2),
		resultQueue: make(chan PostResult, numWorkers),
		ctx:         ctx,
		handler:     handler,
		logger:      log,
	}
}

// Start launches the workers
func (wp *WorkerPool) Start() {
	wp.logger.DebugWithFields("Starting worker pool", map[string]interface{}{
		"num_workers": wp.numWorkers,
	})

	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

// Stop closes the job queue, waits for in-flight jobs and closes Results.
// It is safe to call more than once.
func (wp *WorkerPool) Stop() {
	wp.stopOnce.Do(func() {
		close(wp.jobQueue)
		wp.wg.Wait()
		close(wp.resultQueue)
		wp.logger.Debug("Worker pool stopped")
	})
}

// Submit queues a job, blocking while the queue is full
func (wp *WorkerPool) Submit(job PostJob) error {
	if wp.ctx.Err() != nil {
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
	select {
	case wp.jobQueue <- job:
		return nil
	case <-wp.ctx.Done():
		return fmt.Errorf("worker pool is shutting down: %w", wp.ctx.Err())
	}
}

// Results returns the channel results are delivered on. It is closed by Stop.
func (wp *WorkerPool) Results() <-chan PostResult {
	return wp.resultQueue
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for job := range wp.jobQueue {
		if wp.ctx.Err() != nil {
			// drain without processing so Submit never blocks forever
			continue
		}

		start := time.Now()
		result := wp.handler(wp.ctx, job)
		result.Job = job
		result.Duration = time.Since(start)

		wp.logger.DebugWithFields("Worker finished post", map[string]interface{}{
			"worker_id": id,
			"page":      job.Page,
			"index":     job.Index,
			"duration":  result.Duration,
		})

		wp.resultQueue <- result
	}
}

// Process runs every job through a fresh pool and returns the results once
// the pool is drained. Results arrive in completion order.
func Process(ctx context.Context, numWorkers int, jobs []PostJob, handler JobHandler, log logger.Logger) []PostResult {
	pool := NewWorkerPool(ctx, numWorkers, handler, log)
	pool.Start()

	go func() {
		defer pool.Stop()
		for _, job := range jobs {
			if err := pool.Submit(job); err != nil {
				return
			}
		}
	}()

	results := make([]PostResult, 0, len(jobs))
	for r := range pool.Results() {
		results = append(results, r)
	}
	return results
}

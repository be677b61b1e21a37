package scraper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"galleryscraper/internal/downloader"
	"galleryscraper/pkg/checkpoint"
	"galleryscraper/pkg/config"
	errs "galleryscraper/pkg/errors"
	"galleryscraper/pkg/extract"
	"galleryscraper/pkg/gallery"
	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/ratelimit"
	"galleryscraper/pkg/retry"
	"galleryscraper/pkg/storage"
)

// Scraper walks a range of listing pages and downloads the media of every
// post it finds.
type Scraper struct {
	config      *config.Config
	site        *gallery.Site
	client      PageFetcher
	listing     *extract.ListingExtractor
	downloader  MediaDownloader
	checkpoints *checkpoint.Manager
	observer    Observer
	logger      logger.Logger

	resume       bool
	forceRestart bool
	fetcher      downloader.Fetcher
	httpClient   PageFetcher
	noCheckpoint bool
}

// Option customises a Scraper
type Option func(*Scraper)

// WithLogger sets the logger used for the run
func WithLogger(l logger.Logger) Option {
	return func(s *Scraper) { s.logger = l }
}

// WithObserver receives progress callbacks
func WithObserver(o Observer) Option {
	return func(s *Scraper) { s.observer = o }
}

// WithFetcher replaces the media fetcher chosen by configuration
func WithFetcher(f downloader.Fetcher) Option {
	return func(s *Scraper) { s.fetcher = f }
}

// WithPageFetcher replaces the HTTP client used for listing and post pages
func WithPageFetcher(p PageFetcher) Option {
	return func(s *Scraper) { s.httpClient = p }
}

// WithResume controls checkpoint handling. resume continues after the last
// completed page; forceRestart discards any saved progress first.
func WithResume(resume, forceRestart bool) Option {
	return func(s *Scraper) {
		s.resume = resume
		s.forceRestart = forceRestart
	}
}

// WithoutCheckpoint disables reading and writing checkpoints
func WithoutCheckpoint() Option {
	return func(s *Scraper) { s.noCheckpoint = true }
}

// New wires a Scraper from configuration
func New(cfg *config.Config, opts ...Option) (*Scraper, error) {
	s := &Scraper{config: cfg}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = logger.GetLogger()
	}
	if s.observer == nil {
		s.observer = nopObserver{}
	}

	site, err := gallery.NewSite(cfg.Site.BaseURL, cfg.Site.Origin, cfg.Site.PageSize)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeConfig, err, "invalid site configuration")
	}
	s.site = site

	client := gallery.NewClient(gallery.ClientOptions{
		Timeout:   cfg.Download.Timeout,
		UserAgent: cfg.Site.UserAgent,
		Limiter:   ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize),
		Retry: &retry.Config{
			MaxAttempts: cfg.Retry.MaxAttempts,
			Backoff:     retry.NewErrorTypeBackoff(cfg.Retry.BaseDelay, cfg.Retry.MaxDelay),
			Logger:      s.logger,
		},
		Logger: s.logger.WithField("component", "gallery"),
	})
	if s.httpClient != nil {
		s.client = s.httpClient
	} else {
		s.client = client
	}

	s.listing = extract.NewListingExtractor(cfg.Site.LinkSelector)

	store, err := storage.NewManager(cfg.Output.Directory)
	if err != nil {
		return nil, err
	}

	fetcher := s.fetcher
	if fetcher == nil {
		fetcher = newFetcher(cfg, client)
	}
	s.downloader = downloader.New(fetcher, store, s.logger.WithField("component", "downloader"))

	if !s.noCheckpoint {
		mgr, err := checkpoint.NewManager(cfg.Site.BaseURL, s.logger)
		if err != nil {
			s.logger.WithError(err).Warn("Checkpoints disabled")
		} else {
			s.checkpoints = mgr
		}
	}

	return s, nil
}

// newFetcher picks the media fetcher named by configuration. wget sends the
// same User-Agent as the page client.
func newFetcher(cfg *config.Config, client *gallery.Client) downloader.Fetcher {
	if cfg.Download.Fetcher == config.FetcherHTTP {
		return downloader.NewHTTPFetcher(client)
	}
	wget := downloader.NewWgetFetcher(cfg.Download.WgetPath)
	if cfg.Site.UserAgent != "" {
		wget.ExtraArgs = []string{"--user-agent=" + cfg.Site.UserAgent}
	}
	return wget
}

// Run processes pages start..last inclusive. Only a failure to fetch the
// first listing page of the run is returned as an error; every other
// failure is logged, counted in the Summary and skipped. Cancelling ctx
// stops the run between posts and returns ctx.Err().
func (s *Scraper) Run(ctx context.Context) (*Summary, error) {
	runID := uuid.NewString()
	log := s.logger.WithField("run_id", runID)

	first, last := s.config.Pages.Start, s.config.Pages.Last
	summary := &Summary{
		RunID:     runID,
		BaseURL:   s.config.Site.BaseURL,
		StartPage: first,
		LastPage:  last,
		StartedAt: time.Now(),
	}

	if first > last {
		log.WarnWithFields("Page range is empty, nothing to do", map[string]interface{}{
			"start_page": first,
			"last_page":  last,
		})
		summary.finish()
		return summary, nil
	}

	cp := s.prepareCheckpoint(log, runID)
	if s.resume && cp.HasProgress() {
		first = cp.ResumePage(first, last)
		summary.ResumedFrom = first
		summary.Resumed = true
		log.WithField("page", first).Info("Resuming from checkpoint")
	}

	logger.LogComponentStart(log, "scraper", map[string]interface{}{
		"base_url":   s.config.Site.BaseURL,
		"start_page": first,
		"last_page":  last,
		"workers":    s.config.Download.ConcurrentDownloads,
		"output_dir": s.config.Output.Directory,
	})

	for page := first; page <= last; page++ {
		if err := ctx.Err(); err != nil {
			return summary.finish(), err
		}

		pageURL := s.site.PageURL(page)
		s.observer.PageStarted(page, pageURL)
		pageLog := log.WithFields(map[string]interface{}{"page": page, "url": pageURL})

		doc, err := s.client.FetchDocument(ctx, pageURL)
		if err != nil {
			if ctx.Err() != nil {
				return summary.finish(), ctx.Err()
			}
			if page == first {
				pageLog.WithError(err).Error("Failed to fetch first listing page")
				return summary.finish(), fmt.Errorf("fetching listing page %s: %w", pageURL, err)
			}
			summary.PagesFailed++
			pageLog.WithError(err).Error("Failed to fetch listing page, skipping")
			s.observer.PageFinished(page, 0, err)
			continue
		}
		summary.PagesFetched++

		links, skipped := s.listing.ExtractPostLinks(doc)
		summary.SkippedAnchors += skipped
		if skipped > 0 {
			pageLog.WithField("skipped", skipped).Warn("Anchors without href skipped")
		}
		if len(links) == 0 {
			pageLog.Warn("No post links found on listing page")
		}

		jobs := make([]downloader.PostJob, len(links))
		for i, href := range links {
			jobs[i] = downloader.PostJob{Page: page, Index: i, URL: href}
		}

		results := downloader.Process(ctx, s.config.Download.ConcurrentDownloads, jobs, s.handlePost(pageLog), pageLog)
		counts := checkpoint.PageCounts{Posts: len(links)}
		for _, r := range results {
			summary.add(r)
			switch r.Download.Status {
			case downloader.StatusDownloaded:
				counts.Downloaded++
			case downloader.StatusSkipped:
				counts.Skipped++
			case downloader.StatusFailed:
				counts.Failed++
			}
			s.observer.PostFinished(r)
		}

		if err := ctx.Err(); err != nil {
			return summary.finish(), err
		}

		logger.LogPageProgress(pageLog, page, first, last, len(links))
		s.observer.PageFinished(page, len(links), nil)
		if cp != nil {
			if err := s.checkpoints.CompletePage(cp, page, counts); err != nil {
				pageLog.WithError(err).Warn("Failed to save checkpoint")
			}
		}
	}

	if cp != nil {
		if err := s.checkpoints.Delete(); err != nil {
			log.WithError(err).Warn("Failed to delete checkpoint")
		}
	}

	summary.finish()
	log.InfoWithFields("Scrape finished", summary.Fields())
	return summary, nil
}

// prepareCheckpoint loads or creates the checkpoint for this run. It
// returns nil when checkpoints are disabled or unusable.
func (s *Scraper) prepareCheckpoint(log logger.Logger, runID string) *checkpoint.Checkpoint {
	if s.checkpoints == nil {
		return nil
	}

	if s.forceRestart {
		if err := s.checkpoints.Delete(); err != nil {
			log.WithError(err).Warn("Failed to delete existing checkpoint")
		}
	} else if s.resume {
		cp, err := s.checkpoints.Load()
		if err != nil {
			log.WithError(err).Warn("Ignoring unreadable checkpoint")
		} else if cp != nil {
			cp.RunID = runID
			return cp
		}
	} else if s.checkpoints.Exists() {
		log.Info("Previous progress found; pass --resume to continue from it. Starting over")
	}

	cp, err := s.checkpoints.Create(s.config.Site.BaseURL, s.config.Pages.Start, s.config.Pages.Last, runID)
	if err != nil {
		log.WithError(err).Warn("Continuing without checkpoint")
		return nil
	}
	return cp
}

// handlePost fetches one post page, extracts its media and downloads it.
func (s *Scraper) handlePost(log logger.Logger) downloader.JobHandler {
	return func(ctx context.Context, job downloader.PostJob) downloader.PostResult {
		postURL, err := s.site.ResolveLink(job.URL)
		if err != nil {
			log.WithError(err).WithField("href", job.URL).Error("Unusable post link, skipping")
			return downloader.PostResult{Stage: downloader.StageFetch, Err: err}
		}
		postLog := log.WithField("post", postURL)

		doc, err := s.client.FetchDocument(ctx, postURL)
		if err != nil {
			if ctx.Err() == nil {
				postLog.WithError(err).Error("Failed to fetch post page, skipping")
			}
			return downloader.PostResult{Stage: downloader.StageFetch, Err: err}
		}

		item, err := extract.ExtractMedia(doc)
		if err != nil {
			postLog.WithError(err).Warn("No usable media source, skipping")
			return downloader.PostResult{Stage: downloader.StageExtract, Err: err}
		}
		if item.Placeholder {
			postLog.Warn("No media found on post page, downloading placeholder")
		}

		return downloader.PostResult{
			Stage:    downloader.StageDownload,
			Download: s.downloader.Download(ctx, item),
		}
	}
}

// IsCancelled reports whether err came from an interrupted run
func IsCancelled(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

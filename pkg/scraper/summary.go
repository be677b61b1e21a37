package scraper

import (
	"time"

	"galleryscraper/internal/downloader"
)

// Summary tallies what a run did
type Summary struct {
	RunID     string
	BaseURL   string
	StartPage int
	LastPage  int

	PagesFetched int
	PagesFailed  int
	Posts        int
	Downloaded   int
	Skipped      int
	Failed       int

	// PostErrors counts posts whose page could not be fetched
	PostErrors int
	// ExtractionErrors counts posts whose media element had no usable source
	ExtractionErrors int
	Placeholders     int
	SkippedAnchors   int

	Resumed     bool
	ResumedFrom int

	StartedAt time.Time
	Duration  time.Duration
}

func (s *Summary) add(r downloader.PostResult) {
	s.Posts++
	switch r.Stage {
	case downloader.StageFetch:
		s.PostErrors++
		return
	case downloader.StageExtract:
		s.ExtractionErrors++
		return
	}

	if r.Download.Media.Placeholder {
		s.Placeholders++
	}
	switch r.Download.Status {
	case downloader.StatusDownloaded:
		s.Downloaded++
	case downloader.StatusSkipped:
		s.Skipped++
	case downloader.StatusFailed:
		s.Failed++
	}
}

func (s *Summary) finish() *Summary {
	s.Duration = time.Since(s.StartedAt)
	return s
}

// Errors is the number of posts that did not end with a stored file
func (s *Summary) Errors() int {
	return s.PostErrors + s.ExtractionErrors + s.Failed
}

// Fields flattens the summary for structured logging
func (s *Summary) Fields() map[string]interface{} {
	return map[string]interface{}{
		"pages_fetched":     s.PagesFetched,
		"pages_failed":      s.PagesFailed,
		"posts":             s.Posts,
		"downloaded":        s.Downloaded,
		"skipped":           s.Skipped,
		"failed":            s.Failed,
		"post_errors":       s.PostErrors,
		"extraction_errors": s.ExtractionErrors,
		"placeholders":      s.Placeholders,
		"skipped_anchors":   s.SkippedAnchors,
		"duration":          s.Duration,
	}
}

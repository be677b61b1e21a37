package ui

import (
	"fmt"
	"strings"
	"time"

	"galleryscraper/internal/downloader"
)

const (
	ProgressBar   = "█"
	ProgressEmpty = "░"
	barWidth      = 20
)

// StatusTracker follows a run page by page and prints one line per
// finished page. It satisfies scraper.Observer.
type StatusTracker struct {
	printer *Printer

	TotalPages int
	PagesDone  int
	// Downloaded counts the whole run and feeds GetDownloadRate
	Downloaded int
	StartTime  time.Time
	currentURL string

	// outcomes of the page in progress
	PageDownloads int
	PageSkipped   int
	PageFailed    int
}

// NewStatusTracker creates a tracker for first..last inclusive
func NewStatusTracker(p *Printer, first, last int) *StatusTracker {
	total := last - first + 1
	if total < 0 {
		total = 0
	}
	return &StatusTracker{
		printer:    p,
		TotalPages: total,
		StartTime:  time.Now(),
	}
}

// PageStarted resets the per-page counters
func (st *StatusTracker) PageStarted(page int, url string) {
	st.PageDownloads, st.PageSkipped, st.PageFailed = 0, 0, 0
	st.currentURL = url
	if st.printer.quiet {
		return
	}
	fmt.Fprintf(st.printer.out, "%s page %d %s\n",
		st.printer.styles.highlight.Render("[SCANNING]"),
		page,
		st.printer.styles.dim.Render(url))
}

// PostFinished counts one post outcome
func (st *StatusTracker) PostFinished(r downloader.PostResult) {
	if r.Err != nil {
		st.PageFailed++
		return
	}
	switch r.Download.Status {
	case downloader.StatusDownloaded:
		st.Downloaded++
		st.PageDownloads++
	case downloader.StatusSkipped:
		st.PageSkipped++
	case downloader.StatusFailed:
		st.PageFailed++
	}
}

// PageFinished advances the page bar and prints progress
func (st *StatusTracker) PageFinished(page int, links int, err error) {
	st.PagesDone++
	if err != nil {
		st.printer.PrintWarning(fmt.Sprintf("page %d failed", page), err)
		return
	}
	if st.printer.quiet {
		return
	}
	fmt.Fprintf(st.printer.out, "%s %d posts: %d downloaded, %d skipped, %d failed | %s\n",
		st.printer.styles.success.Render("[EXTRACTED]"),
		links,
		st.PageDownloads,
		st.PageSkipped,
		st.PageFailed,
		st.GetPageProgress())
}

// GetPageProgress returns a bar over the page range
func (st *StatusTracker) GetPageProgress() string {
	if st.TotalPages == 0 {
		return fmt.Sprintf("[%s] 0/0", strings.Repeat(ProgressEmpty, barWidth))
	}
	done := st.PagesDone
	if done > st.TotalPages {
		done = st.TotalPages
	}
	percentage := float64(done) / float64(st.TotalPages) * 100
	filled := done * barWidth / st.TotalPages

	bar := st.printer.styles.progressStyle(percentage).Render(strings.Repeat(ProgressBar, filled)) +
		st.printer.styles.barEmpty.Render(strings.Repeat(ProgressEmpty, barWidth-filled))

	return fmt.Sprintf("[%s] %d/%d", bar, done, st.TotalPages)
}

// GetElapsedTime returns the elapsed time since tracking started
func (st *StatusTracker) GetElapsedTime() time.Duration {
	return time.Since(st.StartTime)
}

// GetDownloadRate returns the average download rate (items per minute)
func (st *StatusTracker) GetDownloadRate() float64 {
	elapsed := st.GetElapsedTime().Minutes()
	if elapsed == 0 {
		return 0
	}
	return float64(st.Downloaded) / elapsed
}

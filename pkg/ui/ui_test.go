package ui

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"galleryscraper/internal/downloader"
	"galleryscraper/pkg/scraper"
)

func plainPrinter(quiet bool) (*Printer, *bytes.Buffer) {
	var buf bytes.Buffer
	return NewPrinter(&buf, PrinterOptions{Quiet: quiet, NoColor: true}), &buf
}

func TestPrinter_PlainOutput(t *testing.T) {
	p, buf := plainPrinter(false)
	assert.False(t, p.Colored())

	p.PrintInfo("Output", "/tmp/cats")
	p.PrintWarning("slow down", errors.New("429"))
	p.PrintError("boom")

	out := buf.String()
	assert.Contains(t, out, "Output: /tmp/cats\n")
	assert.Contains(t, out, "slow down: 429\n")
	assert.Contains(t, out, "boom\n")
	assert.NotContains(t, out, "\x1b[")
}

func TestPrinter_QuietKeepsErrors(t *testing.T) {
	p, buf := plainPrinter(true)

	p.PrintLogo()
	p.PrintInfo("Output", "/tmp")
	p.PrintSuccess("done")
	p.PrintError("fatal", "listing unreachable")

	assert.Equal(t, "fatal: listing unreachable\n", buf.String())
}

func TestIsTerminal_NonFile(t *testing.T) {
	assert.False(t, IsTerminal(&bytes.Buffer{}))
}

func TestStatusTracker_CountsAndProgress(t *testing.T) {
	p, buf := plainPrinter(false)
	st := NewStatusTracker(p, 0, 3)
	require.Equal(t, 4, st.TotalPages)

	st.PageStarted(0, "https://example.com/?pid=0")
	st.PostFinished(downloader.PostResult{Download: downloader.Result{Status: downloader.StatusDownloaded}})
	st.PostFinished(downloader.PostResult{Download: downloader.Result{Status: downloader.StatusSkipped}})
	st.PostFinished(downloader.PostResult{Err: errors.New("404")})
	st.PageFinished(0, 3, nil)

	assert.Equal(t, 1, st.Downloaded)
	assert.Equal(t, 1, st.PageSkipped)
	assert.Equal(t, 1, st.PageFailed)
	assert.Contains(t, buf.String(), "[SCANNING] page 0")
	assert.Contains(t, buf.String(), "3 posts: 1 downloaded, 1 skipped, 1 failed")

	progress := st.GetPageProgress()
	assert.Equal(t, "["+strings.Repeat(ProgressBar, 5)+strings.Repeat(ProgressEmpty, 15)+"] 1/4", progress)

	st.PageStarted(1, "https://example.com/?pid=42")
	assert.Zero(t, st.PageSkipped)
	assert.Zero(t, st.PageFailed)
	st.PageFinished(1, 0, errors.New("502"))
	assert.Contains(t, buf.String(), "page 1 failed: 502")
	assert.Equal(t, 2, st.PagesDone)
	assert.Equal(t, 1, st.Downloaded, "run total survives page changes")
}

func TestStatusTracker_DownloadRate(t *testing.T) {
	p, _ := plainPrinter(true)
	st := NewStatusTracker(p, 0, 0)
	assert.Zero(t, st.GetDownloadRate())

	st.StartTime = time.Now().Add(-2 * time.Minute)
	for i := 0; i < 10; i++ {
		st.PostFinished(downloader.PostResult{Download: downloader.Result{Status: downloader.StatusDownloaded}})
	}
	assert.InDelta(t, 5.0, st.GetDownloadRate(), 0.1)
	assert.GreaterOrEqual(t, st.GetElapsedTime(), 2*time.Minute)
}

func TestStatusTracker_EmptyRange(t *testing.T) {
	p, _ := plainPrinter(true)
	st := NewStatusTracker(p, 5, 2)
	assert.Equal(t, 0, st.TotalPages)
	assert.Contains(t, st.GetPageProgress(), "0/0")
}

func TestPrintSummary(t *testing.T) {
	p, buf := plainPrinter(false)
	p.PrintSummary(&scraper.Summary{
		PagesFetched: 2,
		PagesFailed:  1,
		Posts:        5,
		Downloaded:   3,
		Skipped:      1,
		Failed:       1,
		Placeholders: 1,
		Resumed:      true,
		ResumedFrom:  4,
		Duration:     1500 * time.Millisecond,
	}, 12.34)

	out := buf.String()
	assert.Contains(t, out, "RUN SUMMARY")
	assert.Contains(t, out, "2 fetched, 1 failed")
	assert.Contains(t, out, "Placeholders")
	assert.Contains(t, out, "page 4")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "12.3/min")
}

func TestPrintSummary_NoRateRow(t *testing.T) {
	p, buf := plainPrinter(false)
	p.PrintSummary(&scraper.Summary{Posts: 1}, 0)
	assert.NotContains(t, buf.String(), "Rate")
}

type recordingSender struct {
	titles []string
}

func (r *recordingSender) Send(_ context.Context, title, _ string) error {
	r.titles = append(r.titles, title)
	return errors.New("no notification daemon")
}

func TestNotifier(t *testing.T) {
	p, buf := plainPrinter(false)
	sender := &recordingSender{}
	n := NewNotifier(p, false).WithSender(sender)

	n.SendSuccess("Scrape complete", "3 downloaded")
	n.SendError("Scrape failed", "listing unreachable")

	assert.Equal(t, []string{"Scrape complete", "Scrape failed"}, sender.titles)
	assert.Contains(t, buf.String(), "Scrape complete: 3 downloaded")
	assert.Contains(t, buf.String(), "Scrape failed: listing unreachable")
}

func TestNotifier_PrintOnly(t *testing.T) {
	p, buf := plainPrinter(false)
	NewNotifier(p, false).SendSuccess("done", "ok")
	assert.Contains(t, buf.String(), "done: ok")
}

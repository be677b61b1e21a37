package downloader

import (
	"context"
	"fmt"
	"net/http"
	"os/exec"
	"path/filepath"
	"strings"

	errs "galleryscraper/pkg/errors"
	"galleryscraper/pkg/storage"
)

// Fetcher stores the resource at url into the file at destination.
type Fetcher interface {
	Fetch(ctx context.Context, url, destination string) error
}

// WgetFetcher shells out to wget.
type WgetFetcher struct {
	// Path to the wget executable; "wget" resolves through PATH
	Path string
	// Extra arguments placed before the output flags, e.g. --user-agent
	ExtraArgs []string
}

// NewWgetFetcher returns a fetcher running the wget found at path
func NewWgetFetcher(path string) *WgetFetcher {
	if path == "" {
		path = "wget"
	}
	return &WgetFetcher{Path: path}
}

// Args returns the command line used for one download. The url always
// follows "--" so wget never reads it as an option.
func (w *WgetFetcher) Args(url, destination string) []string {
	args := append([]string{}, w.ExtraArgs...)
	return append(args, "-P", filepath.Dir(destination), "-O", destination, "--", url)
}

// Fetch runs wget and reports a non-zero exit as a subprocess error that
// carries the tool's combined output.
func (w *WgetFetcher) Fetch(ctx context.Context, url, destination string) error {
	cmd := exec.CommandContext(ctx, w.Path, w.Args(url, destination)...)
	out, err := cmd.CombinedOutput()
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}

	output := strings.TrimSpace(string(out))
	return &errs.Error{
		Type:    errs.ErrorTypeSubprocess,
		Message: fmt.Sprintf("%s exited: %v: %s", filepath.Base(w.Path), err, output),
		Err:     err,
	}
}

// Opener issues a rate limited GET for a media body. The response must not
// be bounded by an overall client timeout. *gallery.Client satisfies it.
type Opener interface {
	OpenMedia(ctx context.Context, url string) (*http.Response, error)
}

// HTTPFetcher streams the body in-process instead of running wget.
type HTTPFetcher struct {
	opener Opener
}

// NewHTTPFetcher creates a fetcher on top of opener
func NewHTTPFetcher(opener Opener) *HTTPFetcher {
	return &HTTPFetcher{opener: opener}
}

func (h *HTTPFetcher) Fetch(ctx context.Context, url, destination string) error {
	resp, err := h.opener.OpenMedia(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := storage.Save(resp.Body, destination); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return errs.Wrap(errs.ErrorTypeNetwork, err, "failed to read media body")
	}
	return nil
}

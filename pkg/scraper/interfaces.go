package scraper

import (
	"context"

	"github.com/PuerkitoBio/goquery"

	"galleryscraper/internal/downloader"
	"galleryscraper/pkg/media"
)

// PageFetcher retrieves and parses listing and post pages
type PageFetcher interface {
	FetchDocument(ctx context.Context, url string) (*goquery.Document, error)
}

// MediaDownloader stores one media item in the output directory
type MediaDownloader interface {
	Download(ctx context.Context, item media.Media) downloader.Result
}

// Observer receives progress callbacks during a run. Methods are called
// from the goroutine running Run.
type Observer interface {
	PageStarted(page int, url string)
	PageFinished(page int, links int, err error)
	PostFinished(result downloader.PostResult)
}

type nopObserver struct{}

func (nopObserver) PageStarted(int, string)            {}
func (nopObserver) PageFinished(int, int, error)       {}
func (nopObserver) PostFinished(downloader.PostResult) {}

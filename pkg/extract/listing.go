package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// DefaultLinkSelector matches the post thumbnails on a listing page.
const DefaultLinkSelector = `a[style=""]`

// ListingExtractor collects post links from a listing page.
type ListingExtractor struct {
	Selector string
}

// NewListingExtractor returns an extractor using selector, or the default
// when selector is blank.
func NewListingExtractor(selector string) *ListingExtractor {
	if strings.TrimSpace(selector) == "" {
		selector = DefaultLinkSelector
	}
	return &ListingExtractor{Selector: selector}
}

// ExtractPostLinks returns the href of every matching anchor in document
// order. Anchors without an href, or with an empty one, are counted in
// skipped and left out.
func (e *ListingExtractor) ExtractPostLinks(doc *goquery.Document) (links []string, skipped int) {
	doc.Find(e.Selector).Each(func(_ int, s *goquery.Selection) {
		href, ok := s.Attr("href")
		href = strings.TrimSpace(href)
		if !ok || href == "" {
			skipped++
			return
		}
		links = append(links, href)
	})
	return links, skipped
}

// ExtractPostLinks uses the default selector.
func ExtractPostLinks(doc *goquery.Document) ([]string, int) {
	return NewListingExtractor("").ExtractPostLinks(doc)
}

package extract

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"

	errs "galleryscraper/pkg/errors"
	"galleryscraper/pkg/format"
	"galleryscraper/pkg/media"
)

type rule struct {
	selector string
	kind     media.Kind
	fallback string
}

// cascade is tried top to bottom; order matters.
var cascade = []rule{
	{`img[id="image"]`, media.KindImage, ".jpg"},
	{`source[type="video/mp4"]`, media.KindVideo, ".mp4"},
	{`source[type="video/mpeg"]`, media.KindVideo, ".mpeg"},
	{`source[type="video/mpg"]`, media.KindVideo, ".mpg"},
	{`source[type="video/webm"]`, media.KindVideo, ".webm"},
	{`source[type="video/avi"]`, media.KindVideo, ".avi"},
}

// ExtractMedia finds the post's media URL. A src is resolved against the
// document URL when one is set and must end up http or https; an element
// whose src is absent or unusable is passed over and the cascade goes on.
// When nothing usable matches it returns the placeholder, together with an
// error if some matching element was passed over.
func ExtractMedia(doc *goquery.Document) (media.Media, error) {
	var missing, rejected []string

	for _, r := range cascade {
		var found string
		doc.Find(r.selector).EachWithBreak(func(_ int, s *goquery.Selection) bool {
			src, _ := s.Attr("src")
			src = strings.TrimSpace(src)
			if src == "" {
				missing = append(missing, r.selector)
				return true
			}
			abs, ok := resolveSource(doc.Url, src)
			if !ok {
				rejected = append(rejected, src)
				return true
			}
			found = abs
			return false
		})
		if found == "" {
			continue
		}

		ext, ok := format.Resolve(found)
		if !ok {
			ext = r.fallback
		}
		return media.Media{
			Title:    strings.ReplaceAll(found, "/", "-"),
			URL:      found,
			FileType: ext,
			Kind:     r.kind,
		}, nil
	}

	switch {
	case len(rejected) > 0:
		return media.PlaceholderMedia(), errs.New(errs.ErrorTypeInvalidURL,
			fmt.Sprintf("unusable media source %q", rejected[0]))
	case len(missing) > 0:
		return media.PlaceholderMedia(), errs.New(errs.ErrorTypeMissingAttribute,
			fmt.Sprintf("%s matched without a src attribute", strings.Join(missing, ", ")))
	}
	return media.PlaceholderMedia(), nil
}

// resolveSource turns src into an absolute http(s) URL. Relative and
// protocol-relative sources need a base.
func resolveSource(base *url.URL, src string) (string, bool) {
	ref, err := url.Parse(src)
	if err != nil {
		return "", false
	}
	if base != nil {
		ref = base.ResolveReference(ref)
	}
	if (ref.Scheme != "http" && ref.Scheme != "https") || ref.Host == "" {
		return "", false
	}
	return ref.String(), true
}

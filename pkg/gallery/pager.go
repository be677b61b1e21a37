package gallery

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
)

// DefaultPageSize is the number of posts a listing page holds; the page
// offset parameter counts posts, not pages.
const DefaultPageSize = 42

// NextPage returns the listing URL for page using the default page size.
// baseURL is not validated.
func NextPage(baseURL string, page int) string {
	return PageURL(baseURL, page, DefaultPageSize)
}

// PageURL appends the pid offset for page to baseURL.
func PageURL(baseURL string, page, pageSize int) string {
	return baseURL + "&pid=" + strconv.Itoa(page*pageSize)
}

// Site knows how to address listing pages and post links of one gallery.
type Site struct {
	BaseURL  string
	PageSize int
	origin   *url.URL
}

// NewSite parses baseURL and derives the origin used for resolving post
// links. A non-empty origin overrides the derived scheme://host.
func NewSite(baseURL, origin string, pageSize int) (*Site, error) {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	if base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL %q is not absolute", baseURL)
	}

	o := &url.URL{Scheme: base.Scheme, Host: base.Host, Path: "/"}
	if origin != "" {
		o, err = url.Parse(origin)
		if err != nil {
			return nil, fmt.Errorf("parsing origin: %w", err)
		}
		if !strings.HasSuffix(o.Path, "/") {
			o.Path += "/"
		}
	}

	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	return &Site{BaseURL: baseURL, PageSize: pageSize, origin: o}, nil
}

// Origin returns the scheme://host links are resolved against.
func (s *Site) Origin() string {
	return strings.TrimSuffix(s.origin.String(), "/")
}

// PageURL returns the listing URL for page.
func (s *Site) PageURL(page int) string {
	return PageURL(s.BaseURL, page, s.PageSize)
}

// ResolveLink turns a post href into an absolute URL. Absolute hrefs are
// returned unchanged; relative ones, with or without a leading slash, are
// resolved against the origin.
func (s *Site) ResolveLink(href string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(href))
	if err != nil {
		return "", fmt.Errorf("parsing post link %q: %w", href, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	return s.origin.ResolveReference(ref).String(), nil
}

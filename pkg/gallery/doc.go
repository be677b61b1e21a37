// Package gallery talks to the gallery website.
//
// Site builds listing page URLs (the pid query parameter is an offset in
// posts, PageSize per page) and resolves post hrefs against the site
// origin. Client fetches pages through a shared rate limiter, retries
// transient failures, and hands back parsed goquery documents.
//
//	site, _ := gallery.NewSite(cfg.Site.BaseURL, cfg.Site.Origin, cfg.Site.PageSize)
//	client := gallery.NewClient(gallery.ClientOptions{Timeout: 30 * time.Second})
//	doc, err := client.FetchDocument(ctx, site.PageURL(0))
//
// HTTP failures surface as typed errors from galleryscraper/pkg/errors so
// callers can tell a 404 post from an unreachable host.
package gallery

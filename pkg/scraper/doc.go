// Package scraper drives a run over a paginated gallery.
//
// For each listing page in the configured range the Scraper fetches the
// page, collects post links, then hands every post to a worker pool that
// fetches the post page, picks its media through the extraction cascade
// and downloads it unless the destination file already exists.
//
// Usage:
//
//	cfg, err := config.Load("", nil)
//	if err != nil {
//	    return err
//	}
//
//	s, err := scraper.New(cfg, scraper.WithResume(true, false))
//	if err != nil {
//	    return err
//	}
//
//	summary, err := s.Run(ctx)
//
// Failure handling:
//
// Only a failure to fetch the first listing page of a run aborts it. Later
// listing pages, post pages, extraction and downloads are logged, counted
// in the Summary and skipped. Completed pages are checkpointed so an
// interrupted run can continue with WithResume.
package scraper

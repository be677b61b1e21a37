// Package checkpoint lets an interrupted scrape pick up where it stopped.
//
// A checkpoint is a small JSON file in the user's data directory
// ($XDG_DATA_HOME/galleryscraper/checkpoints on Linux). Its name is a
// UUIDv5 of the base listing URL, so the same search always maps to the
// same file. The scraper records each page once all of its posts are
// handled, and removes the file after a complete run.
//
//	mgr, err := checkpoint.NewManager(baseURL, log)
//	cp, err := mgr.Load()
//	first := cp.ResumePage(cfg.Pages.Start, cfg.Pages.Last)
//
// Writes go to a temporary file that is renamed over the old one.
package checkpoint

// Package logger provides the structured logging interface used across the
// gallery scraper.
//
// It wraps zerolog. When stderr is a terminal the output is a colored
// console format; otherwise each entry is a JSON line. Every entry carries
// the app name and version, and the scraper adds a run_id per invocation.
//
// Basic Usage:
//
//	err := logger.Initialize(&cfg.Logging)
//
//	logger.Info("Starting scrape")
//	logger.WithField("page", 3).Info("Fetching listing page")
//	logger.WithError(err).Error("Failed to fetch post")
//
// Components receive a Logger explicitly and derive scoped loggers from it:
//
//	log := base.WithFields(map[string]interface{}{
//	    "component": "downloader",
//	    "worker":    2,
//	})
//
// Tests use NewTestLogger to capture entries or NewNopLogger to discard them.
package logger

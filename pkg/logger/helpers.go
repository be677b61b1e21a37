package logger

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// LogRequest logs the outcome of a single HTTP page fetch
func LogRequest(l Logger, method, url string, statusCode int, duration time.Duration) {
	fields := map[string]interface{}{
		"method":      method,
		"url":         url,
		"status_code": statusCode,
		"duration_ms": duration.Milliseconds(),
	}

	switch {
	case statusCode >= 200 && statusCode < 300:
		l.DebugWithFields("HTTP request completed", fields)
	case statusCode >= 400 && statusCode < 500:
		l.WarnWithFields("HTTP request client error", fields)
	default:
		l.ErrorWithFields("HTTP request failed", fields)
	}
}

// LogDownload logs what happened to one media file
func LogDownload(l Logger, url, destination, status string, err error) {
	entry := l.WithFields(map[string]interface{}{
		"url":         url,
		"destination": destination,
		"status":      status,
	})

	switch {
	case err != nil:
		entry.WithError(err).Error("Download failed")
	case status == "skipped":
		entry.Info("File already exists, skipping")
	default:
		entry.Info("Download completed")
	}
}

// LogPageProgress logs how far through the page range the run is
func LogPageProgress(l Logger, page, first, last, posts int) {
	total := last - first + 1
	done := page - first + 1
	l.WithFields(map[string]interface{}{
		"page":  page,
		"done":  done,
		"total": total,
		"posts": posts,
	}).Info("Listing page processed")
}

// LogRateLimit logs a wait imposed by the request limiter
func LogRateLimit(l Logger, url string, waited time.Duration) {
	l.WithFields(map[string]interface{}{
		"url":    url,
		"waited": waited,
		"action": "rate_limited",
	}).Debug("Waited for rate limiter")
}

// LogComponentStart logs when a component starts
func LogComponentStart(l Logger, component string, settings map[string]interface{}) {
	entry := l.WithField("component", component)
	if len(settings) > 0 {
		entry = entry.WithFields(settings)
	}
	entry.Info("Component started")
}

// NewNopLogger creates a no-operation logger for testing
func NewNopLogger() Logger {
	return &nopLogger{}
}

type nopLogger struct{}

func (n *nopLogger) Debug(msg string)                                          {}
func (n *nopLogger) Info(msg string)                                           {}
func (n *nopLogger) Warn(msg string)                                           {}
func (n *nopLogger) Error(msg string)                                          {}
func (n *nopLogger) Fatal(msg string)                                          {}
func (n *nopLogger) WithField(key string, value interface{}) Logger            { return n }
func (n *nopLogger) WithFields(fields map[string]interface{}) Logger           { return n }
func (n *nopLogger) WithError(err error) Logger                                { return n }
func (n *nopLogger) WithContext(ctx context.Context) Logger                    { return n }
func (n *nopLogger) DebugWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) InfoWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) WarnWithFields(msg string, fields map[string]interface{})  {}
func (n *nopLogger) ErrorWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) FatalWithFields(msg string, fields map[string]interface{}) {}
func (n *nopLogger) GetZerolog() *zerolog.Logger                               { return nil }

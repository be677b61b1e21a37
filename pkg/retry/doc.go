// Package retry re-runs operations that fail transiently, such as fetching a
// listing page from a gallery that briefly answers 503.
//
// Only typed errors from galleryscraper/pkg/errors whose type is retryable
// (network, rate_limit, server_error) are retried by default. Cancellation
// of the context always stops the loop.
//
//	err := retry.Do(ctx, func(ctx context.Context) error {
//		return fetch(ctx, url)
//	}, &retry.Config{
//		MaxAttempts: 3,
//		Backoff:     retry.NewErrorTypeBackoff(time.Second, 30*time.Second),
//		Logger:      log,
//	})
//
// ErrorTypeBackoff waits longer after a 429 than after a dropped connection.
package retry

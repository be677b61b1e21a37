// Package ratelimit keeps the scraper polite towards the gallery host.
//
// TokenBucket is backed by golang.org/x/time/rate and is configured in
// requests per minute with a burst allowance. Every page fetch and every
// in-process media download waits on the same limiter.
//
//	limiter := ratelimit.New(cfg.RateLimit.RequestsPerMinute, cfg.RateLimit.BurstSize)
//	if err := limiter.Wait(ctx); err != nil {
//	    return err // cancelled
//	}
//
// A non-positive rate yields Unlimited, which never blocks.
package ratelimit

package gallery

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/PuerkitoBio/goquery"

	errs "galleryscraper/pkg/errors"
	"galleryscraper/pkg/logger"
	"galleryscraper/pkg/ratelimit"
	"galleryscraper/pkg/retry"
)

// ClientOptions configures a Client. Zero values pick defaults.
type ClientOptions struct {
	Timeout    time.Duration
	UserAgent  string
	Limiter    ratelimit.Limiter
	Retry      *retry.Config
	HTTPClient *http.Client
	Logger     logger.Logger
}

// Client fetches gallery pages and parses them into goquery documents.
type Client struct {
	httpClient *http.Client
	// mediaClient has no overall deadline so long video bodies can stream;
	// only connecting and waiting for headers are bounded.
	mediaClient *http.Client
	headers    map[string]string
	limiter    ratelimit.Limiter
	retry      *retry.Config
	logger     logger.Logger
}

// DefaultUserAgent identifies the scraper by name and version.
func DefaultUserAgent() string {
	return "galleryscraper/" + logger.Version
}

// NewClient creates a new gallery client
func NewClient(opts ClientOptions) *Client {
	log := opts.Logger
	if log == nil {
		log = logger.GetLogger()
	}

	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	mediaClient := &http.Client{
		Transport: &http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: timeout}).DialContext,
			TLSHandshakeTimeout:   timeout,
			ResponseHeaderTimeout: timeout,
		},
	}
	if opts.HTTPClient != nil {
		mc := *opts.HTTPClient
		mc.Timeout = 0
		mediaClient = &mc
	}

	ua := opts.UserAgent
	if ua == "" {
		ua = DefaultUserAgent()
	}

	limiter := opts.Limiter
	if limiter == nil {
		limiter = ratelimit.Unlimited{}
	}

	retryCfg := opts.Retry
	if retryCfg == nil {
		retryCfg = &retry.Config{MaxAttempts: 1}
	}
	if retryCfg.Logger == nil {
		rc := *retryCfg
		rc.Logger = log
		retryCfg = &rc
	}

	return &Client{
		httpClient:  httpClient,
		mediaClient: mediaClient,
		headers: map[string]string{
			"User-Agent":      ua,
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
		},
		limiter: limiter,
		retry:   retryCfg,
		logger:  log,
	}
}

// Open waits on the rate limiter and issues a single GET bounded by the
// client timeout. On success the caller owns the response body; any non-2xx
// status is returned as a typed error and the body is closed.
func (c *Client) Open(ctx context.Context, url string) (*http.Response, error) {
	return c.open(ctx, c.httpClient, url)
}

// OpenMedia is Open for media downloads. Reading the body is bounded only
// by ctx, not by the client timeout.
func (c *Client) OpenMedia(ctx context.Context, url string) (*http.Response, error) {
	return c.open(ctx, c.mediaClient, url)
}

func (c *Client) open(ctx context.Context, hc *http.Client, url string) (*http.Response, error) {
	waitStart := time.Now()
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("waiting for rate limiter: %w", err)
	}
	if waited := time.Since(waitStart); waited > 50*time.Millisecond {
		logger.LogRateLimit(c.logger, url, waited)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Wrap(errs.ErrorTypeUnknown, err, "failed to create request")
	}
	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"url":      url,
			"error":    err.Error(),
			"duration": time.Since(start),
		})
		return nil, errs.Wrap(errs.ErrorTypeNetwork, err, "network error")
	}
	logger.LogRequest(c.logger, req.Method, url, resp.StatusCode, time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, errs.FromStatusCode(resp.StatusCode, url)
	}
	return resp, nil
}

// FetchDocument downloads url and parses it as HTML, retrying transient
// failures according to the client's retry configuration.
func (c *Client) FetchDocument(ctx context.Context, url string) (*goquery.Document, error) {
	return retry.DoWithResult(ctx, func(ctx context.Context) (*goquery.Document, error) {
		resp, err := c.Open(ctx, url)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		doc, err := goquery.NewDocumentFromReader(resp.Body)
		if err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			return nil, errs.Wrap(errs.ErrorTypeParsing, err, "failed to parse HTML from "+url)
		}
		// media sources are resolved against the final post URL
		doc.Url = resp.Request.URL
		return doc, nil
	}, c.retry)
}

package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"flats-scraper/observability"
	"flats-scraper/utils"
)

// Fetcher retrieves the raw content behind an address.
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

// ScopedFetcher is a Fetcher that can log through another logger, e.g. one
// tagged with a run ID.
type ScopedFetcher interface {
	Fetcher
	WithLogger(logger *utils.Logger) Fetcher
}

// Scoped returns f bound to logger when f supports it, and f otherwise.
func Scoped(f Fetcher, logger *utils.Logger) Fetcher {
	if s, ok := f.(ScopedFetcher); ok {
		return s.WithLogger(logger)
	}
	return f
}

// HTTPFetcher performs a single plain GET per call: no retries, and no
// timeout unless one is configured.
type HTTPFetcher struct {
	client    *http.Client
	userAgent string
	logger    *utils.Logger
	metrics   *observability.Metrics
}

// NewHTTPFetcher creates an HTTPFetcher. A zero timeout leaves requests
// unbounded; an empty userAgent sends Go's default.
func NewHTTPFetcher(logger *utils.Logger, metrics *observability.Metrics, timeout time.Duration, userAgent string) *HTTPFetcher {
	return &HTTPFetcher{
		client:    &http.Client{Timeout: timeout},
		userAgent: userAgent,
		logger:    logger,
		metrics:   metrics,
	}
}

// WithLogger returns a copy of the fetcher sharing its client.
func (f *HTTPFetcher) WithLogger(logger *utils.Logger) Fetcher {
	c := *f
	c.logger = logger
	return &c
}

// Fetch returns the response body. Transport errors and non-2xx statuses are
// logged once and returned; callers treat them as absent content.
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	body, err := f.fetch(ctx, url)
	f.metrics.ObserveFetch("http", err)
	if err != nil {
		f.logger.Error("[fetch] Error fetching URL %s: %v", url, err)
		return nil, err
	}
	f.logger.Debug("[fetch] %s: %d bytes", url, len(body))
	return body, nil
}

func (f *HTTPFetcher) fetch(ctx context.Context, url string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	if f.userAgent != "" {
		req.Header.Set("User-Agent", f.userAgent)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("unexpected status %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response body: %w", err)
	}
	return body, nil
}

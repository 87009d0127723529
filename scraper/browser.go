package scraper

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"time"

	"github.com/chromedp/chromedp"

	"flats-scraper/observability"
	"flats-scraper/utils"
)

const browserPageTimeout = 90 * time.Second

// BrowserFetcher renders a page in headless Chrome and returns the resulting
// DOM. It is used for the listing page when the table is built client-side.
type BrowserFetcher struct {
	chromeBin string
	waitFor   string
	logger    *utils.Logger
	metrics   *observability.Metrics
}

// NewBrowserFetcher creates a BrowserFetcher that waits until waitFor (a CSS
// selector, typically "table") is present before capturing the DOM.
func NewBrowserFetcher(logger *utils.Logger, metrics *observability.Metrics, chromeBin, waitFor string) *BrowserFetcher {
	return &BrowserFetcher{
		chromeBin: chromeBin,
		waitFor:   waitFor,
		logger:    logger,
		metrics:   metrics,
	}
}

// WithLogger returns a copy of the fetcher logging through logger.
func (b *BrowserFetcher) WithLogger(logger *utils.Logger) Fetcher {
	c := *b
	c.logger = logger
	return &c
}

// Fetch navigates to url and returns the rendered HTML.
func (b *BrowserFetcher) Fetch(ctx context.Context, url string) ([]byte, error) {
	html, err := b.render(ctx, url)
	b.metrics.ObserveFetch("browser", err)
	if err != nil {
		b.logger.Error("[browser] Error rendering URL %s: %v", url, err)
		return nil, err
	}
	return []byte(html), nil
}

func (b *BrowserFetcher) render(ctx context.Context, url string) (string, error) {
	chromeBin := b.chromeBin
	if chromeBin == "" {
		chromeBin = findChromeBinary()
	}
	b.logger.Debug("[browser] Using browser binary: %q", chromeBin)

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", true),
		chromedp.Flag("disable-gpu", true),
		chromedp.Flag("no-sandbox", true),
		chromedp.Flag("disable-dev-shm-usage", true),
	)
	if chromeBin != "" {
		opts = append(opts, chromedp.ExecPath(chromeBin))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	// Suppress chromedp log noise
	tabCtx, cancelTab := chromedp.NewContext(allocCtx, chromedp.WithLogf(func(string, ...interface{}) {}))
	defer cancelTab()

	tabCtx, cancelTimeout := context.WithTimeout(tabCtx, browserPageTimeout)
	defer cancelTimeout()

	actions := []chromedp.Action{chromedp.Navigate(url)}
	if b.waitFor != "" {
		actions = append(actions, chromedp.WaitReady(b.waitFor, chromedp.ByQuery))
	}

	var html string
	actions = append(actions, chromedp.OuterHTML("html", &html, chromedp.ByQuery))

	if err := chromedp.Run(tabCtx, actions...); err != nil {
		return "", fmt.Errorf("chromedp render: %w", err)
	}
	return html, nil
}

// findChromeBinary locates Chrome/Chromium binary.
func findChromeBinary() string {
	if bin := os.Getenv("CHROME_BIN"); bin != "" {
		return bin
	}

	names := []string{"google-chrome-stable", "google-chrome", "chromium", "chromium-browser"}
	for _, name := range names {
		if path, err := exec.LookPath(name); err == nil {
			return path
		}
	}

	paths := []string{
		"/usr/bin/google-chrome-stable",
		"/usr/bin/chromium-browser",
		"/usr/bin/chromium",
		"/snap/bin/chromium",
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}

	return ""
}

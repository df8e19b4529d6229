package fetch

import (
	"context"
	"time"

	"github.com/chromedp/chromedp"
	"github.com/rs/zerolog"
)

// DefaultBrowserTimeout bounds a single headless render.
const DefaultBrowserTimeout = 30 * time.Second

// Renderer returns the HTML of a page after client-side rendering.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// BrowserRenderer renders pages with headless Chrome.
type BrowserRenderer struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewBrowserRenderer creates a renderer. A zero timeout uses DefaultBrowserTimeout.
func NewBrowserRenderer(timeout time.Duration, logger zerolog.Logger) *BrowserRenderer {
	if timeout <= 0 {
		timeout = DefaultBrowserTimeout
	}
	return &BrowserRenderer{timeout: timeout, logger: logger}
}

// Render implements Renderer.
func (b *BrowserRenderer) Render(ctx context.Context, url string) (string, error) {
	return WithBrowser(ctx, url, b.timeout, b.logger)
}

// WithBrowser renders a page in a headless browser and returns the rendered HTML.
// Requires Chrome/Chromium to be installed on the system.
func WithBrowser(ctx context.Context, url string, timeout time.Duration, logger zerolog.Logger) (string, error) {
	logger.Debug().Str("url", url).Msg("starting headless browser")

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
			chromedp.UserAgent(DefaultUserAgent),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// give client-side frameworks time to mount team grids
		chromedp.Sleep(2*time.Second),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", &Error{URL: url, Message: "browser rendering failed", Cause: err}
	}

	logger.Debug().Str("url", url).Int("bytes", len(html)).Msg("rendered page")
	return html, nil
}

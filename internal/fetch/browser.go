package fetch

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/chromedp/chromedp"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
)

// MinContentLength is the extracted text length below which a page is assumed to be
// rendered by JavaScript.
const MinContentLength = 500

// ShouldUseBrowser reports whether extracted text is too short to be the real posting.
func ShouldUseBrowser(extractedText string) bool {
	return len(strings.TrimSpace(extractedText)) < MinContentLength
}

// Renderer returns the HTML of a page after scripts ran.
type Renderer interface {
	Render(ctx context.Context, url string) (string, error)
}

// ChromeRenderer renders pages in headless Chrome. Chrome or Chromium must be installed.
type ChromeRenderer struct {
	timeout time.Duration
	log     *zap.Logger
}

// NewChromeRenderer creates a renderer bounded by timeout per page.
func NewChromeRenderer(timeout time.Duration, log *zap.Logger) *ChromeRenderer {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &ChromeRenderer{timeout: timeout, log: logger.OrNop(log)}
}

// Render navigates to url and returns the outer HTML once the body is ready.
func (r *ChromeRenderer) Render(ctx context.Context, url string) (string, error) {
	r.log.Debug("starting headless browser", zap.String("url", url))

	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", true),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
			chromedp.Flag("disable-dev-shm-usage", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, r.timeout)
	defer cancel()

	var html string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body"),
		// job boards hydrate the description after load
		chromedp.Sleep(3*time.Second),
		chromedp.ActionFunc(func(ctx context.Context) error {
			_ = chromedp.Click(`button[id*="accept"], button[class*="accept"]`, chromedp.NodeVisible, chromedp.AtLeast(0)).Do(ctx)
			return nil
		}),
		chromedp.OuterHTML("html", &html),
	)
	if err != nil {
		return "", fmt.Errorf("browser rendering failed: %w", err)
	}

	r.log.Debug("rendered page", zap.String("url", url), zap.Int("bytes", len(html)))
	return html, nil
}

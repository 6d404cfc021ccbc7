// Package fetch downloads job postings and reduces them to plain text.
package fetch

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jonathan/resume-matcher/internal/logger"
	"github.com/jonathan/resume-matcher/internal/parsing"
	"github.com/jonathan/resume-matcher/internal/types"
)

// DefaultTimeout is the default HTTP request timeout.
const DefaultTimeout = 30 * time.Second

// DefaultUserAgent is the user agent string for HTTP requests.
const DefaultUserAgent = "Mozilla/5.0 (compatible; ResumeMatcher/1.0)"

// maxPageBytes caps downloaded pages.
const maxPageBytes = 8 << 20

// Page is a downloaded document.
type Page struct {
	URL         string
	HTML        string
	ContentType string
	StatusCode  int
}

// Error represents an error during URL fetching.
type Error struct {
	URL     string
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("fetch error for %s: %s: %v", e.URL, e.Message, e.Cause)
	}
	return fmt.Sprintf("fetch error for %s: %s", e.URL, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Options configures the fetcher.
type Options struct {
	Timeout   time.Duration
	UserAgent string
	// UseBrowser enables headless rendering when the plain download yields too little text.
	UseBrowser bool
}

// Fetcher downloads job postings.
type Fetcher struct {
	client   *http.Client
	opts     Options
	renderer Renderer
	log      *zap.Logger
}

// Option customizes a Fetcher.
type Option func(*Fetcher)

// WithRenderer replaces the headless browser used for script-rendered pages.
func WithRenderer(r Renderer) Option {
	return func(f *Fetcher) {
		f.renderer = r
	}
}

// WithHTTPClient replaces the HTTP client.
func WithHTTPClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// NewFetcher creates a Fetcher. Zero option values take the package defaults.
func NewFetcher(opts Options, log *zap.Logger, options ...Option) *Fetcher {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}

	f := &Fetcher{
		client: &http.Client{Timeout: opts.Timeout},
		opts:   opts,
		log:    logger.Component(log, "fetch"),
	}
	for _, o := range options {
		o(f)
	}
	if f.renderer == nil && opts.UseBrowser {
		f.renderer = NewChromeRenderer(opts.Timeout, f.log)
	}
	return f
}

// Get retrieves a page. Non-200 responses return the page together with an *Error.
func (f *Fetcher) Get(ctx context.Context, rawURL string) (*Page, error) {
	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return nil, &Error{URL: rawURL, Message: "invalid URL", Cause: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to create request", Cause: err}
	}
	req.Header.Set("User-Agent", f.opts.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "HTTP request failed", Cause: err}
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxPageBytes))
	if err != nil {
		return nil, &Error{URL: rawURL, Message: "failed to read response body", Cause: err}
	}

	page := &Page{
		URL:         rawURL,
		HTML:        string(body),
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
	}
	if resp.StatusCode != http.StatusOK {
		return page, &Error{URL: rawURL, Message: fmt.Sprintf("HTTP status %d", resp.StatusCode)}
	}
	return page, nil
}

// JobDescription downloads a job posting and returns its description as normalized text.
// Pages that yield less than MinContentLength characters are re-rendered in the browser
// when one is configured.
func (f *Fetcher) JobDescription(ctx context.Context, rawURL string) (types.TextBlob, error) {
	page, err := f.Get(ctx, rawURL)
	if err != nil {
		return "", err
	}

	board := DetectBoard(rawURL)
	text, err := ExtractMainText(page.HTML, board.ContentSelectors(), board.NoiseSelectors()...)
	if err != nil {
		return "", &Error{URL: rawURL, Message: "failed to extract text", Cause: err}
	}

	if ShouldUseBrowser(text) && f.renderer != nil {
		f.log.Debug("page text too short, rendering in browser",
			zap.String("url", rawURL),
			zap.Int("chars", len(text)),
		)
		html, rerr := f.renderer.Render(ctx, rawURL)
		if rerr != nil {
			f.log.Warn("browser rendering failed", zap.String("url", rawURL), zap.Error(rerr))
		} else if rendered, xerr := ExtractMainText(html, board.ContentSelectors(), board.NoiseSelectors()...); xerr == nil && len(rendered) > len(text) {
			text = rendered
		}
	}

	blob := parsing.Normalize([]types.Field{types.F("description", text)})
	if parsing.IsBlank(blob) {
		return "", &Error{URL: rawURL, Message: "no job description text found"}
	}

	f.log.Info("fetched job posting",
		zap.String("url", rawURL),
		zap.String("board", string(board)),
		zap.Int("chars", len(blob)),
	)
	return blob, nil
}

// ExtractMainText parses HTML and returns the main body text.
// It removes noise elements, then takes the first element matching a content selector,
// falling back to the body element.
func ExtractMainText(html string, contentSelectors []string, noiseSelectors ...string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("nav, footer, header, script, style, noscript, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup").Remove()
	if len(noiseSelectors) > 0 {
		doc.Find(strings.Join(noiseSelectors, ", ")).Remove()
	}

	var main *goquery.Selection
	for _, selector := range contentSelectors {
		if sel := doc.Find(selector); sel.Length() > 0 {
			main = sel.First()
			break
		}
	}
	if main == nil {
		main = doc.Find("body")
	}

	return cleanWhitespace(main.Text()), nil
}

// JobPostingSelectors returns selectors for generic job board pages.
func JobPostingSelectors() []string {
	return []string{
		".job-description",
		".job-content",
		"#job-description",
		"#job-content",
		".posting-content",
		".job-details",
		"[data-testid='job-description']",
		"main",
		"article",
		".content",
		"#content",
	}
}

// cleanWhitespace trims every line and drops empty ones.
func cleanWhitespace(text string) string {
	lines := strings.Split(text, "\n")
	cleaned := make([]string, 0, len(lines))
	for _, line := range lines {
		if line = strings.TrimSpace(line); line != "" {
			cleaned = append(cleaned, line)
		}
	}
	return strings.Join(cleaned, "\n")
}

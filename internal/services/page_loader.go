package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/chromedp/chromedp"
	"golang.org/x/net/html/charset"
)

// DefaultUserAgent is sent by the plain HTTP loader
const DefaultUserAgent = "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0 Safari/537.36"

// maxPageBytes caps the body read by HTTPLoader
const maxPageBytes = 10 * 1024 * 1024

// ErrUnexpectedStatus is returned when the page answers with a non-2xx status
var ErrUnexpectedStatus = errors.New("unexpected status code")

// PageLoader fetches a URL and returns its rendered document
type PageLoader interface {
	Load(ctx context.Context, url string) (*HTMLSnapshot, error)
}

// BrowserLoader renders pages in a headless Chrome.
// Every Load starts its own browser and closes it before returning.
type BrowserLoader struct {
	// ExecPath overrides the browser binary. Empty means auto-detect.
	ExecPath string
	// Timeout bounds a single Load. Zero means no timeout.
	Timeout time.Duration
}

// NewBrowserLoader creates a headless browser page loader
func NewBrowserLoader(execPath string, timeout time.Duration) *BrowserLoader {
	return &BrowserLoader{ExecPath: execPath, Timeout: timeout}
}

// Load navigates to url and captures the rendered markup
func (l *BrowserLoader) Load(ctx context.Context, url string) (*HTMLSnapshot, error) {
	opts := append([]chromedp.ExecAllocatorOption{}, chromedp.DefaultExecAllocatorOptions[:]...)
	if l.ExecPath != "" {
		opts = append(opts, chromedp.ExecPath(l.ExecPath))
	}

	allocCtx, cancelAlloc := chromedp.NewExecAllocator(ctx, opts...)
	defer cancelAlloc()

	browserCtx, cancelBrowser := chromedp.NewContext(allocCtx)
	defer cancelBrowser()

	if l.Timeout > 0 {
		var cancelTimeout context.CancelFunc
		browserCtx, cancelTimeout = context.WithTimeout(browserCtx, l.Timeout)
		defer cancelTimeout()
	}

	var markup string
	err := chromedp.Run(browserCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		chromedp.OuterHTML("html", &markup, chromedp.ByQuery),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to render page: %w", err)
	}

	return NewHTMLSnapshot(markup)
}

// HTTPLoader fetches pages with a plain GET, for portals that render server-side
type HTTPLoader struct {
	HTTPClient *http.Client
	UserAgent  string
}

// NewHTTPLoader creates a page loader without a browser
func NewHTTPLoader(timeout time.Duration) *HTTPLoader {
	return &HTTPLoader{
		HTTPClient: &http.Client{Timeout: timeout},
		UserAgent:  DefaultUserAgent,
	}
}

// Load issues a GET for url and parses the response body
func (l *HTTPLoader) Load(ctx context.Context, url string) (*HTMLSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	if l.UserAgent != "" {
		req.Header.Set("User-Agent", l.UserAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	client := l.HTTPClient
	if client == nil {
		client = http.DefaultClient
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: %d", ErrUnexpectedStatus, resp.StatusCode)
	}

	decoded, err := charset.NewReader(io.LimitReader(resp.Body, maxPageBytes), resp.Header.Get("Content-Type"))
	if err != nil {
		return nil, fmt.Errorf("failed to decode page: %w", err)
	}

	body, err := io.ReadAll(decoded)
	if err != nil {
		return nil, fmt.Errorf("failed to read page: %w", err)
	}

	return NewHTMLSnapshot(string(body))
}

// Package http provides net/http and REST implementations of ctscrape
// services: a static page session for sites that render without
// JavaScript, and the ClinicalTrials.gov v2 API client.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ctscrape"
)

// DefaultTimeout is the default timeout for HTTP requests.
const DefaultTimeout = 30 * time.Second

// Ensure Browser implements ctscrape.Browser at compile time.
var _ ctscrape.Browser = (*Browser)(nil)

// Browser opens static sessions. It does not execute JavaScript, so it
// only suits mirrors and fixtures that serve fully rendered HTML.
type Browser struct {
	client  *http.Client
	timeout time.Duration
}

// Option configures a Browser.
type Option func(*Browser)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) Option {
	return func(b *Browser) {
		b.timeout = d
	}
}

// NewBrowser creates a new HTTP-based Browser.
func NewBrowser(opts ...Option) *Browser {
	b := &Browser{
		timeout: DefaultTimeout,
	}
	for _, opt := range opts {
		opt(b)
	}

	b.client = &http.Client{
		Timeout: b.timeout,
	}

	return b
}

// Open returns a session sharing the browser's client. headless is
// ignored.
func (b *Browser) Open(ctx context.Context, headless bool) (ctscrape.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Session{client: b.client}, nil
}

// Ensure Session implements ctscrape.Session at compile time.
var _ ctscrape.Session = (*Session)(nil)

// Session fetches pages with plain GET requests.
type Session struct {
	client *http.Client
	closed atomic.Bool
}

// Navigate retrieves url. Any status other than 200 is an ENAVIGATION error.
func (s *Session) Navigate(ctx context.Context, url string) (ctscrape.Page, error) {
	if s.closed.Load() {
		return nil, ctscrape.Errorf(ctscrape.EINTERNAL, "session closed")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, ctscrape.Errorf(ctscrape.ENAVIGATION, "HTTP %d for %s", resp.StatusCode, url)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", url, err)
	}

	return &Page{url: url, html: string(body)}, nil
}

// Close marks the session closed. It is safe to call multiple times.
func (s *Session) Close() error {
	s.closed.Store(true)
	return nil
}

// Ensure Page implements ctscrape.Page at compile time.
var _ ctscrape.Page = (*Page)(nil)

// Page is a fetched document. Its content never changes after load, so
// WaitFor answers immediately.
type Page struct {
	url  string
	html string
	doc  *goquery.Document
}

// URL returns the address the page was loaded from.
func (p *Page) URL() string {
	return p.url
}

// WaitFor reports whether selector matches the document.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	if p.doc == nil {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(p.html))
		if err != nil {
			return false, err
		}
		p.doc = doc
	}
	return p.doc.Find(selector).Length() > 0, nil
}

// HTML returns the response body.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.html, nil
}

// Close is a no-op.
func (p *Page) Close() error {
	return nil
}

package mock

import (
	"context"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ctscrape"
)

var (
	_ ctscrape.Browser   = (*Browser)(nil)
	_ ctscrape.Session   = (*Session)(nil)
	_ ctscrape.Navigator = (*Navigator)(nil)
	_ ctscrape.Page      = (*Page)(nil)
)

// Browser is a mock implementation of ctscrape.Browser.
type Browser struct {
	OpenFn func(ctx context.Context, headless bool) (ctscrape.Session, error)
}

func (b *Browser) Open(ctx context.Context, headless bool) (ctscrape.Session, error) {
	return b.OpenFn(ctx, headless)
}

// Session is a mock implementation of ctscrape.Session.
type Session struct {
	NavigateFn func(ctx context.Context, url string) (ctscrape.Page, error)
	CloseFn    func() error
}

func (s *Session) Navigate(ctx context.Context, url string) (ctscrape.Page, error) {
	return s.NavigateFn(ctx, url)
}

func (s *Session) Close() error {
	return s.CloseFn()
}

// Navigator is a mock implementation of ctscrape.Navigator.
type Navigator struct {
	NavigateFn func(ctx context.Context, url string) (ctscrape.Page, error)
}

func (n *Navigator) Navigate(ctx context.Context, url string) (ctscrape.Page, error) {
	return n.NavigateFn(ctx, url)
}

// Page is a mock implementation of ctscrape.Page.
type Page struct {
	URLFn     func() string
	WaitForFn func(ctx context.Context, selector string, timeout time.Duration) (bool, error)
	HTMLFn    func(ctx context.Context) (string, error)
	CloseFn   func() error
}

func (p *Page) URL() string {
	return p.URLFn()
}

func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	return p.WaitForFn(ctx, selector, timeout)
}

func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.HTMLFn(ctx)
}

func (p *Page) Close() error {
	return p.CloseFn()
}

// NewHTMLPage returns a Page serving fixed HTML. WaitFor reports whether
// the selector matches the document without waiting.
func NewHTMLPage(url, html string) *Page {
	return &Page{
		URLFn: func() string { return url },
		WaitForFn: func(_ context.Context, selector string, _ time.Duration) (bool, error) {
			doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
			if err != nil {
				return false, err
			}
			return doc.Find(selector).Length() > 0, nil
		},
		HTMLFn:  func(context.Context) (string, error) { return html, nil },
		CloseFn: func() error { return nil },
	}
}

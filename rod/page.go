package rod

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/go-rod/rod"
)

// Ensure Page implements ctscrape.Page at compile time.
var _ ctscrape.Page = (*Page)(nil)

// Page is one browser tab.
type Page struct {
	page   *rod.Page
	url    string
	router *rod.HijackRouter
}

// URL returns the address the page was loaded from.
func (p *Page) URL() string {
	return p.url
}

// WaitFor polls the DOM for selector until it appears or timeout elapses.
func (p *Page) WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error) {
	_, err := p.page.Context(ctx).Timeout(timeout).Element(selector)
	if err == nil {
		return true, nil
	}
	if ctx.Err() != nil {
		return false, ctx.Err()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return false, nil
	}
	return false, err
}

// HTML returns the rendered document.
func (p *Page) HTML(ctx context.Context) (string, error) {
	return p.page.Context(ctx).HTML()
}

// Close stops request interception and closes the tab.
func (p *Page) Close() error {
	if p.router != nil {
		_ = p.router.Stop()
		p.router = nil
	}
	return p.page.Close()
}

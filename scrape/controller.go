// Package scrape orchestrates a browser acquisition run: it owns the
// browser session, pages through search results and streams each resolved
// record to the emitter.
package scrape

import (
	"context"
	"net/url"
	"sync"
	"time"

	"github.com/fwojciec/ctscrape"
)

// DefaultRate is the default politeness limit in navigations per second.
const DefaultRate = 1.0

// Ensure Controller implements ctscrape.Session at compile time.
var _ ctscrape.Session = (*Controller)(nil)

// Controller owns the single browser session of a run. Extractors borrow it
// as a ctscrape.Navigator; every navigation is paced by the host limiter and
// retried with backoff.
type Controller struct {
	browser ctscrape.Browser
	limiter *HostLimiter
	delays  []time.Duration
	logger  LogFunc

	mu      sync.Mutex
	session ctscrape.Session
	closed  bool
}

// ControllerOption configures a Controller.
type ControllerOption func(*Controller)

// WithRate sets the politeness limit in navigations per second.
// Defaults to DefaultRate if not specified. A non-positive rate disables
// limiting.
func WithRate(rps float64) ControllerOption {
	return func(c *Controller) {
		c.limiter = NewHostLimiter(rps)
	}
}

// WithRetryDelays sets the backoff between navigation attempts.
// Defaults to DefaultRetryDelays if not specified.
func WithRetryDelays(delays []time.Duration) ControllerOption {
	return func(c *Controller) {
		c.delays = delays
	}
}

// WithRetryLogger sets the function receiving retry messages.
func WithRetryLogger(fn LogFunc) ControllerOption {
	return func(c *Controller) {
		c.logger = fn
	}
}

// NewController creates a Controller that launches sessions from browser.
func NewController(browser ctscrape.Browser, opts ...ControllerOption) *Controller {
	c := &Controller{
		browser: browser,
		limiter: NewHostLimiter(DefaultRate),
		delays:  DefaultRetryDelays(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Open launches the browser session. It fails if a session is already open
// or the controller was closed.
func (c *Controller) Open(ctx context.Context, headless bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return ctscrape.Errorf(ctscrape.EINTERNAL, "controller closed")
	}
	if c.session != nil {
		return ctscrape.Errorf(ctscrape.EINTERNAL, "session already open")
	}

	s, err := c.browser.Open(ctx, headless)
	if err != nil {
		if ctscrape.ErrorCode(err) == ctscrape.ESTARTUP {
			return err
		}
		return ctscrape.WrapErrorf(err, ctscrape.ESTARTUP, "launch browser: %v", err)
	}
	c.session = s
	return nil
}

// Navigate loads rawURL through the open session. Retries are exhausted
// before an ENAVIGATION error wrapping the last cause is returned.
func (c *Controller) Navigate(ctx context.Context, rawURL string) (ctscrape.Page, error) {
	c.mu.Lock()
	s := c.session
	closed := c.closed
	c.mu.Unlock()

	if closed || s == nil {
		return nil, ctscrape.Errorf(ctscrape.EINTERNAL, "no open browser session")
	}

	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return nil, ctscrape.Errorf(ctscrape.EINVALID, "invalid URL %q", rawURL)
	}

	attempt := func(ctx context.Context, target string) (ctscrape.Page, error) {
		if err := c.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
		return s.Navigate(ctx, target)
	}

	page, err := NavigateWithRetry(ctx, rawURL, attempt, c.logger, c.delays)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if permanent(err) {
			return nil, err
		}
		return nil, ctscrape.WrapErrorf(err, ctscrape.ENAVIGATION, "navigate %s: %v", rawURL, err)
	}
	return page, nil
}

// Close releases the session. It is safe to call multiple times and before
// Open.
func (c *Controller) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.closed {
		return nil
	}
	c.closed = true

	if c.session == nil {
		return nil
	}
	return c.session.Close()
}

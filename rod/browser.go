// Package rod drives a real Chrome browser through go-rod.
package rod

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultTimeout bounds a single navigation.
const DefaultTimeout = 30 * time.Second

// DefaultBlockedResources are not needed to read trial pages and are
// refused to shorten page loads.
func DefaultBlockedResources() []proto.NetworkResourceType {
	return []proto.NetworkResourceType{
		proto.NetworkResourceTypeImage,
		proto.NetworkResourceTypeFont,
		proto.NetworkResourceTypeMedia,
	}
}

// Ensure Browser implements ctscrape.Browser at compile time.
var _ ctscrape.Browser = (*Browser)(nil)

// Browser launches Chrome sessions.
type Browser struct {
	timeout   time.Duration
	bin       string
	noSandbox bool
	blocked   []proto.NetworkResourceType
}

// BrowserOption configures a Browser.
type BrowserOption func(*Browser)

// WithTimeout sets the bound on each navigation.
// Defaults to DefaultTimeout if not specified.
func WithTimeout(d time.Duration) BrowserOption {
	return func(b *Browser) {
		b.timeout = d
	}
}

// WithBin uses the Chrome binary at path instead of the one rod finds or
// downloads.
func WithBin(path string) BrowserOption {
	return func(b *Browser) {
		b.bin = path
	}
}

// WithNoSandbox disables the Chrome sandbox, which is required when running
// as root inside containers.
func WithNoSandbox(v bool) BrowserOption {
	return func(b *Browser) {
		b.noSandbox = v
	}
}

// WithBlockedResources sets the resource types refused on every page.
// Defaults to DefaultBlockedResources if not specified; pass none to load
// everything.
func WithBlockedResources(types ...proto.NetworkResourceType) BrowserOption {
	return func(b *Browser) {
		b.blocked = types
	}
}

// NewBrowser creates a new Browser. No process is started until Open.
func NewBrowser(opts ...BrowserOption) *Browser {
	b := &Browser{
		timeout: DefaultTimeout,
		blocked: DefaultBlockedResources(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Open launches Chrome and connects to it. Close must be called on the
// returned session when it is no longer needed.
func (b *Browser) Open(ctx context.Context, headless bool) (ctscrape.Session, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(headless).
		NoSandbox(b.noSandbox)
	if b.bin != "" {
		l = l.Bin(b.bin)
	}

	u, err := l.Launch()
	if err != nil {
		return nil, ctscrape.WrapErrorf(err, ctscrape.ESTARTUP, "launching browser: %v", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, ctscrape.WrapErrorf(err, ctscrape.ESTARTUP, "connecting to browser: %v", err)
	}

	return &Session{
		browser:  browser,
		launcher: l,
		timeout:  b.timeout,
		blocked:  b.blocked,
	}, nil
}

// Ensure Session implements ctscrape.Session at compile time.
var _ ctscrape.Session = (*Session)(nil)

// Session is one running Chrome process. Each navigation opens a new tab.
type Session struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	timeout  time.Duration
	blocked  []proto.NetworkResourceType
	closed   atomic.Bool
}

// Navigate opens a tab, loads url and waits for the load event. Responses
// with an HTTP status of 400 or above are returned as ENAVIGATION errors.
func (s *Session) Navigate(ctx context.Context, url string) (ctscrape.Page, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if s.closed.Load() {
		return nil, ctscrape.Errorf(ctscrape.EINTERNAL, "browser session closed")
	}

	tab, err := s.browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		return nil, err
	}
	page := &Page{page: tab, url: url, router: blockResources(tab, s.blocked)}

	navCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()
	p := tab.Context(navCtx)

	if err := p.Navigate(url); err != nil {
		_ = page.Close()
		return nil, err
	}
	if err := p.WaitLoad(); err != nil {
		_ = page.Close()
		return nil, err
	}

	if status := responseStatus(p); status >= 400 {
		_ = page.Close()
		return nil, ctscrape.Errorf(ctscrape.ENAVIGATION, "%s returned status %d", url, status)
	}

	return page, nil
}

// Close shuts down the browser and its launcher. Close is safe to call
// multiple times.
func (s *Session) Close() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}

	var err error
	if s.browser != nil {
		err = s.browser.Close()
	}
	if s.launcher != nil {
		s.launcher.Kill()
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (s *Session) LauncherPID() int {
	if s.launcher == nil {
		return 0
	}
	return s.launcher.PID()
}

// responseStatus reads the HTTP status of the main document from the
// Navigation Timing API. It returns 0 when the browser does not expose it.
func responseStatus(p *rod.Page) int {
	res, err := p.Eval(`() => {
		try {
			const entries = performance.getEntriesByType("navigation");
			if (entries.length > 0) return entries[0].responseStatus || 0;
		} catch (e) {}
		return 0;
	}`)
	if err != nil {
		return 0
	}
	return res.Value.Int()
}

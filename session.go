package ctscrape

import (
	"context"
	"time"
)

// Browser launches browser sessions.
type Browser interface {
	// Open starts one browser process. Implementations return ESTARTUP
	// when the browser cannot be launched or connected to.
	Open(ctx context.Context, headless bool) (Session, error)
}

// Navigator loads pages. Extractors receive a Navigator for the duration
// of a single page operation and never keep it.
type Navigator interface {
	// Navigate loads the URL and returns the loaded page.
	// The caller must close the page.
	Navigate(ctx context.Context, url string) (Page, error)
}

// Session is a live browser process.
type Session interface {
	Navigator

	// Close releases browser resources. Close is safe to call multiple times.
	Close() error
}

// Page is a loaded document.
type Page interface {
	// URL returns the address the page was loaded from.
	URL() string

	// WaitFor polls until an element matching selector is present or the
	// timeout elapses. It reports false, with a nil error, on timeout.
	WaitFor(ctx context.Context, selector string, timeout time.Duration) (bool, error)

	// HTML returns the current rendered document.
	HTML(ctx context.Context) (string, error)

	// Close releases the page.
	Close() error
}

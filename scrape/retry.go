package scrape

import (
	"context"
	"errors"
	"time"

	"github.com/fwojciec/ctscrape"
)

// NavigateFunc is the signature for a single navigation attempt.
type NavigateFunc func(ctx context.Context, url string) (ctscrape.Page, error)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for navigation retries: 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// NavigateWithRetry makes one navigation attempt plus one retry per delay,
// sleeping delays[i] before retry i+1. Failures coded EINVALID or ENOTFOUND
// end the loop at once, as do context errors. Otherwise the last attempt's
// error is returned. The logger, if provided, is called before each retry.
func NavigateWithRetry(ctx context.Context, url string, navigate NavigateFunc, logger LogFunc, delays []time.Duration) (ctscrape.Page, error) {
	for attempt := 0; ; attempt++ {
		page, err := navigate(ctx, url)
		if err == nil {
			return page, nil
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if permanent(err) || attempt >= len(delays) {
			return nil, err
		}

		if logger != nil {
			logger("retry %s (attempt %d of %d): %v", url, attempt+2, len(delays)+1, err)
		}

		timer := time.NewTimer(delays[attempt])
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil, ctx.Err()
		case <-timer.C:
		}
	}
}

// permanent reports whether err cannot change on another attempt.
func permanent(err error) bool {
	var e *ctscrape.Error
	if !errors.As(err, &e) {
		return false
	}
	return e.Code == ctscrape.EINVALID || e.Code == ctscrape.ENOTFOUND
}

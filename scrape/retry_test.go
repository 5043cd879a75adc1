package scrape_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/mock"
	"github.com/fwojciec/ctscrape/scrape"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNavigateWithRetry(t *testing.T) {
	t.Parallel()

	t.Run("returns the first successful page", func(t *testing.T) {
		t.Parallel()

		calls := 0
		var logged []string
		navigate := func(_ context.Context, url string) (ctscrape.Page, error) {
			calls++
			if calls == 1 {
				return nil, errors.New("net::ERR_TIMED_OUT")
			}
			return mock.NewHTMLPage(url, ""), nil
		}

		page, err := scrape.NavigateWithRetry(context.Background(), "https://clinicaltrials.gov/study/NCT01",
			navigate, func(format string, args ...any) {
				logged = append(logged, fmt.Sprintf(format, args...))
			}, noDelays())

		require.NoError(t, err)
		assert.Equal(t, "https://clinicaltrials.gov/study/NCT01", page.URL())
		assert.Equal(t, 2, calls)
		assert.Equal(t, []string{
			"retry https://clinicaltrials.gov/study/NCT01 (attempt 2 of 4): net::ERR_TIMED_OUT",
		}, logged)
	})

	t.Run("no delays means a single attempt", func(t *testing.T) {
		t.Parallel()

		calls := 0
		cause := errors.New("status 502")
		navigate := func(context.Context, string) (ctscrape.Page, error) {
			calls++
			return nil, cause
		}

		_, err := scrape.NavigateWithRetry(context.Background(), "https://clinicaltrials.gov", navigate, nil, nil)

		assert.ErrorIs(t, err, cause)
		assert.Equal(t, 1, calls)
	})

	t.Run("not found is returned without retrying", func(t *testing.T) {
		t.Parallel()

		calls := 0
		navigate := func(context.Context, string) (ctscrape.Page, error) {
			calls++
			return nil, ctscrape.Errorf(ctscrape.ENOTFOUND, "gone")
		}

		_, err := scrape.NavigateWithRetry(context.Background(), "https://clinicaltrials.gov", navigate, nil, noDelays())

		assert.Equal(t, ctscrape.ENOTFOUND, ctscrape.ErrorCode(err))
		assert.Equal(t, 1, calls)
	})

	t.Run("cancellation during backoff stops the loop", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
		defer cancel()
		calls := 0
		navigate := func(context.Context, string) (ctscrape.Page, error) {
			calls++
			return nil, errors.New("boom")
		}

		_, err := scrape.NavigateWithRetry(ctx, "https://clinicaltrials.gov", navigate, nil, []time.Duration{time.Hour})

		assert.ErrorIs(t, err, context.DeadlineExceeded)
		assert.Equal(t, 1, calls)
	})
}

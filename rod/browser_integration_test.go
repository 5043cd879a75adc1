//go:build integration

package rod_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/goquery"
	"github.com/fwojciec/ctscrape/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const listingPage = `<!DOCTYPE html><html><body><div id="results"></div>
<script>
setTimeout(function () {
  document.getElementById("results").innerHTML =
    '<div class="result"><a href="/study/NCT01234567"><span class="nct-id">NCT01234567</span> Delayed Trial</a></div>';
}, 200);
</script></body></html>`

const detailPage = `<!DOCTYPE html><html><head><title>Delayed Trial - ClinicalTrials.gov</title></head><body>
<h2 class="brief-title">Delayed Trial</h2>
<div class="overview-col-wide"><span class="study-overview-item-text">January 2018</span></div>
<div class="location-countries">USA, France</div>
<img src="/huge.png">
</body></html>`

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/search", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, listingPage)
	})
	mux.HandleFunc("/study/NCT01234567", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, detailPage)
	})
	mux.HandleFunc("/huge.png", func(w http.ResponseWriter, r *http.Request) {
		t.Error("blocked resource was requested")
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func openSession(t *testing.T) ctscrape.Session {
	t.Helper()
	s, err := rod.NewBrowser(rod.WithTimeout(10*time.Second)).Open(context.Background(), true)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestSession_Integration_ListAndDetail(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	s := openSession(t)
	ctx := context.Background()

	lp, err := goquery.NewListExtractor(goquery.WithBaseURL(srv.URL)).
		ListPage(ctx, s, ctscrape.Query{Disease: ctscrape.DiseaseCOVID19, MaxResults: 5}, 1)
	require.NoError(t, err)
	require.Len(t, lp.Stubs, 1)
	assert.Equal(t, srv.URL+"/study/NCT01234567", lp.Stubs[0].URL)

	x, err := goquery.NewDetailExtractor().Extract(ctx, s, lp.Stubs[0])
	require.NoError(t, err)
	assert.Equal(t, "Delayed Trial", x.Record.BriefTitle)
	require.NotNil(t, x.Record.StartYear)
	assert.Equal(t, 2018, *x.Record.StartYear)
	require.NotNil(t, x.Record.Country)
	assert.Equal(t, "USA", *x.Record.Country)
}

func TestSession_Integration_Navigate(t *testing.T) {
	t.Parallel()

	t.Run("wait reports false after timeout", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		s := openSession(t)

		page, err := s.Navigate(context.Background(), srv.URL+"/study/NCT01234567")
		require.NoError(t, err)
		defer page.Close()

		found, err := page.WaitFor(context.Background(), ".does-not-exist", 300*time.Millisecond)

		require.NoError(t, err)
		assert.False(t, found)
	})

	t.Run("error status is a navigation error", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		s := openSession(t)

		_, err := s.Navigate(context.Background(), srv.URL+"/missing")

		assert.Equal(t, ctscrape.ENAVIGATION, ctscrape.ErrorCode(err))
	})

	t.Run("canceled context fails fast", func(t *testing.T) {
		t.Parallel()

		srv := newSite(t)
		s := openSession(t)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := s.Navigate(ctx, srv.URL+"/search")

		assert.ErrorIs(t, err, context.Canceled)
	})

	t.Run("close is idempotent", func(t *testing.T) {
		t.Parallel()

		s, err := rod.NewBrowser().Open(context.Background(), true)
		require.NoError(t, err)

		require.NoError(t, s.Close())
		assert.NoError(t, s.Close())
	})
}

func TestBrowser_Integration_Open(t *testing.T) {
	t.Parallel()

	t.Run("missing binary is a startup error", func(t *testing.T) {
		t.Parallel()

		_, err := rod.NewBrowser(rod.WithBin("/nonexistent/chrome")).Open(context.Background(), true)

		assert.Equal(t, ctscrape.ESTARTUP, ctscrape.ErrorCode(err))
	})
}

package goquery

import (
	"context"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ctscrape"
)

// Listing defaults.
const (
	DefaultBaseURL  = "https://clinicaltrials.gov"
	DefaultListWait = 5 * time.Second

	// ResultSelector matches the identifier badge of every result card.
	ResultSelector = ".nct-id"

	// NextPageSelector matches the pagination control.
	NextPageSelector = `[aria-label="Next page"]`

	studyLinkSelector = `a[href*="/study/"]`
	titleLinkSelector = "header a, h1 a, h2 a, h3 a"
	locationSelector  = ".cities-grid .location-text span"
)

// Ensure ListExtractor implements ctscrape.ListExtractor at compile time.
var _ ctscrape.ListExtractor = (*ListExtractor)(nil)

// ListExtractor reads ClinicalTrials.gov search result pages.
type ListExtractor struct {
	baseURL string
	wait    time.Duration
}

// ListOption configures a ListExtractor.
type ListOption func(*ListExtractor)

// WithBaseURL sets the site root. Defaults to DefaultBaseURL.
func WithBaseURL(u string) ListOption {
	return func(e *ListExtractor) {
		e.baseURL = strings.TrimRight(u, "/")
	}
}

// WithListWait sets how long to wait for the results container.
// Defaults to DefaultListWait if not specified.
func WithListWait(d time.Duration) ListOption {
	return func(e *ListExtractor) {
		e.wait = d
	}
}

// NewListExtractor creates a new ListExtractor.
func NewListExtractor(opts ...ListOption) *ListExtractor {
	e := &ListExtractor{
		baseURL: DefaultBaseURL,
		wait:    DefaultListWait,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ListingURL returns the search URL for a disease and 1-based page number.
func (e *ListExtractor) ListingURL(disease string, number int) string {
	v := url.Values{}
	v.Set("cond", disease)
	if number > 1 {
		v.Set("page", strconv.Itoa(number))
	}
	return e.baseURL + "/search?" + v.Encode()
}

// ListPage loads one result page and parses its stubs.
func (e *ListExtractor) ListPage(ctx context.Context, nav ctscrape.Navigator, q ctscrape.Query, number int) (*ctscrape.ListPage, error) {
	page, err := nav.Navigate(ctx, e.ListingURL(q.Disease, number))
	if err != nil {
		return nil, err
	}
	defer page.Close()

	found, err := page.WaitFor(ctx, ResultSelector, e.wait)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, ctscrape.WrapErrorf(err, ctscrape.ENAVIGATION, "waiting for results on page %d", number)
	}
	if !found {
		return &ctscrape.ListPage{Number: number, Empty: true}, nil
	}

	html, err := page.HTML(ctx)
	if err != nil {
		return nil, ctscrape.WrapErrorf(err, ctscrape.ENAVIGATION, "reading results page %d", number)
	}

	stubs, hasNext, err := ParseListing(html, page.URL(), e.baseURL)
	if err != nil {
		return nil, err
	}
	return &ctscrape.ListPage{
		Number:  number,
		Stubs:   stubs,
		HasNext: hasNext,
	}, nil
}

// ParseListing reads the result cards of a search page. Relative links are
// resolved against pageURL; cards without a link fall back to the study
// URL under baseURL. Cards without an identifier are skipped.
func ParseListing(html, pageURL, baseURL string) ([]ctscrape.TrialStub, bool, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, false, ctscrape.Errorf(ctscrape.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, false, ctscrape.Errorf(ctscrape.EINVALID, "failed to parse HTML: %v", err)
	}

	var stubs []ctscrape.TrialStub
	seen := make(map[string]bool)

	doc.Find(ResultSelector).Each(func(_ int, sel *goquery.Selection) {
		id := CanonicalNCT(sel.Text())
		if id == "" || seen[id] {
			return
		}
		seen[id] = true

		stub := ctscrape.TrialStub{NCTID: id}
		if card := resultCard(sel); card != nil {
			link := card.Find(studyLinkSelector).First()
			if link.Length() == 0 {
				link = card.Find(titleLinkSelector).First()
			}
			if href, ok := link.Attr("href"); ok && href != "" {
				stub.URL = resolveURL(base, href)
			}
			stub.ListingTitle = CleanText(link.Text())
			if loc := CleanText(card.Find(locationSelector).First().Text()); loc != "" {
				stub.ListingCountry = lastSegment(loc)
			}
		}
		if stub.URL == "" {
			stub.URL = strings.TrimRight(baseURL, "/") + "/study/" + id
		}
		stubs = append(stubs, stub)
	})

	return stubs, hasNextPage(doc), nil
}

// resultCard walks up from an identifier badge to the closest ancestor
// holding a link or location line. It stops before an ancestor that spans
// several results, so one card never borrows another card's link.
func resultCard(badge *goquery.Selection) *goquery.Selection {
	for cur := badge.Parent(); cur.Length() > 0; cur = cur.Parent() {
		if cur.Find(ResultSelector).Length() > 1 {
			return nil
		}
		if cur.Find(studyLinkSelector).Length() > 0 || cur.Find(locationSelector).Length() > 0 {
			return cur
		}
	}
	return nil
}

func hasNextPage(doc *goquery.Document) bool {
	next := doc.Find(NextPageSelector).First()
	if next.Length() == 0 {
		return false
	}
	if _, disabled := next.Attr("disabled"); disabled {
		return false
	}
	return !strings.EqualFold(next.AttrOr("aria-disabled", ""), "true")
}

// resolveURL resolves a relative URL against a base URL.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}

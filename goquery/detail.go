package goquery

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ctscrape"
)

// DefaultDetailWait bounds the wait for a detail page's primary title.
const DefaultDetailWait = 8 * time.Second

// Ensure DetailExtractor implements ctscrape.DetailExtractor at compile time.
var _ ctscrape.DetailExtractor = (*DetailExtractor)(nil)

// DetailExtractor resolves trial records from detail pages using a
// StrategyTable. Fields degrade independently: a drifted selector for one
// field never costs the others.
type DetailExtractor struct {
	strategies StrategyTable
	wait       time.Duration
}

// DetailOption configures a DetailExtractor.
type DetailOption func(*DetailExtractor)

// WithStrategies replaces the default strategy table.
func WithStrategies(t StrategyTable) DetailOption {
	return func(e *DetailExtractor) {
		e.strategies = t
	}
}

// WithDetailWait sets how long to wait for the primary title element.
// Defaults to DefaultDetailWait if not specified.
func WithDetailWait(d time.Duration) DetailOption {
	return func(e *DetailExtractor) {
		e.wait = d
	}
}

// NewDetailExtractor creates a new DetailExtractor.
func NewDetailExtractor(opts ...DetailOption) *DetailExtractor {
	e := &DetailExtractor{
		strategies: DefaultStrategies(),
		wait:       DefaultDetailWait,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Extract loads the stub's detail page and resolves its fields.
func (e *DetailExtractor) Extract(ctx context.Context, nav ctscrape.Navigator, stub ctscrape.TrialStub) (*ctscrape.Extraction, error) {
	if stub.URL == "" {
		return nil, ctscrape.Errorf(ctscrape.EINVALID, "stub %s has no detail URL", stub.NCTID)
	}

	page, err := nav.Navigate(ctx, stub.URL)
	if err != nil {
		return nil, err
	}
	defer page.Close()

	// The title renders last on slow pages; a timeout here is not an
	// error, the strategies below decide what is missing.
	if sel := e.primarySelector(); sel != "" {
		if _, err := page.WaitFor(ctx, sel, e.wait); err != nil && ctx.Err() != nil {
			return nil, ctx.Err()
		}
	}

	var doc *goquery.Document
	if html, err := page.HTML(ctx); err == nil {
		doc, _ = goquery.NewDocumentFromReader(strings.NewReader(html))
	}

	return e.resolve(doc, stub), nil
}

// ExtractHTML resolves a record from an already loaded detail document.
func (e *DetailExtractor) ExtractHTML(html string, stub ctscrape.TrialStub) *ctscrape.Extraction {
	doc, _ := goquery.NewDocumentFromReader(strings.NewReader(html))
	return e.resolve(doc, stub)
}

func (e *DetailExtractor) resolve(doc *goquery.Document, stub ctscrape.TrialStub) *ctscrape.Extraction {
	x := &ctscrape.Extraction{
		Record: ctscrape.TrialRecord{NCTID: stub.NCTID},
	}

	if title, ok := e.strategies.Resolve(doc, ctscrape.FieldBriefTitle, stub.ListingTitle); ok {
		x.Record.BriefTitle = title
	} else {
		x.Missing = append(x.Missing, ctscrape.FieldBriefTitle)
	}

	if raw, ok := e.strategies.Resolve(doc, ctscrape.FieldStartYear, ""); ok {
		if y, err := strconv.Atoi(raw); err == nil {
			x.Record.StartYear = &y
		}
	}
	if x.Record.StartYear == nil {
		x.Missing = append(x.Missing, ctscrape.FieldStartYear)
	}

	if country, ok := e.strategies.Resolve(doc, ctscrape.FieldCountry, stub.ListingCountry); ok {
		x.Record.Country = &country
	} else {
		x.Missing = append(x.Missing, ctscrape.FieldCountry)
	}

	return x
}

func (e *DetailExtractor) primarySelector() string {
	for _, s := range e.strategies[ctscrape.FieldBriefTitle] {
		if !s.Hint {
			return s.Selector
		}
	}
	return ""
}

package ctscrape

import "context"

// ListExtractor reads search result pages.
type ListExtractor interface {
	// ListPage loads result page number (1-based) for the query.
	// A navigation failure is returned as ENAVIGATION; a page whose results
	// never rendered is returned with Empty set and no error.
	ListPage(ctx context.Context, nav Navigator, q Query, number int) (*ListPage, error)
}

// DetailExtractor resolves a stub into a record.
type DetailExtractor interface {
	// Extract loads the stub's detail page and resolves every field it can.
	// The only errors returned are navigation failures and context errors;
	// unresolved fields are reported in Extraction.Missing instead.
	Extract(ctx context.Context, nav Navigator, stub TrialStub) (*Extraction, error)
}

package mock

import (
	"context"

	"github.com/fwojciec/ctscrape"
)

var (
	_ ctscrape.ListExtractor   = (*ListExtractor)(nil)
	_ ctscrape.DetailExtractor = (*DetailExtractor)(nil)
)

// ListExtractor is a mock implementation of ctscrape.ListExtractor.
type ListExtractor struct {
	ListPageFn func(ctx context.Context, nav ctscrape.Navigator, q ctscrape.Query, number int) (*ctscrape.ListPage, error)
}

func (e *ListExtractor) ListPage(ctx context.Context, nav ctscrape.Navigator, q ctscrape.Query, number int) (*ctscrape.ListPage, error) {
	return e.ListPageFn(ctx, nav, q, number)
}

// DetailExtractor is a mock implementation of ctscrape.DetailExtractor.
type DetailExtractor struct {
	ExtractFn func(ctx context.Context, nav ctscrape.Navigator, stub ctscrape.TrialStub) (*ctscrape.Extraction, error)
}

func (e *DetailExtractor) Extract(ctx context.Context, nav ctscrape.Navigator, stub ctscrape.TrialStub) (*ctscrape.Extraction, error) {
	return e.ExtractFn(ctx, nav, stub)
}

package scrape

import (
	"context"

	"github.com/fwojciec/ctscrape"
)

// Pager yields the stubs of a query lazily. A listing page is loaded only
// when the previous page's stubs are used up and fewer than MaxResults
// stubs have been yielded.
type Pager struct {
	lister ctscrape.ListExtractor
	nav    ctscrape.Navigator
	query  ctscrape.Query

	// OnPage, if set, is called after each listing page is loaded.
	OnPage func(*ctscrape.ListPage)

	page    int
	buf     []ctscrape.TrialStub
	seen    map[string]bool
	yielded int
	done    bool
	empty   bool
}

// NewPager creates a Pager reading q's results through nav.
func NewPager(lister ctscrape.ListExtractor, nav ctscrape.Navigator, q ctscrape.Query) *Pager {
	return &Pager{
		lister: lister,
		nav:    nav,
		query:  q,
		seen:   make(map[string]bool),
	}
}

// Next returns the next unseen stub. It reports false when the results are
// exhausted or MaxResults stubs were yielded. Listing failures are returned
// as errors and end the sequence for the caller.
func (p *Pager) Next(ctx context.Context) (ctscrape.TrialStub, bool, error) {
	for {
		if p.yielded >= p.query.MaxResults {
			return ctscrape.TrialStub{}, false, nil
		}

		if len(p.buf) > 0 {
			stub := p.buf[0]
			p.buf = p.buf[1:]
			if p.seen[stub.NCTID] {
				continue
			}
			p.seen[stub.NCTID] = true
			p.yielded++
			return stub, true, nil
		}

		if p.done {
			return ctscrape.TrialStub{}, false, nil
		}

		lp, err := p.lister.ListPage(ctx, p.nav, p.query, p.page+1)
		if err != nil {
			return ctscrape.TrialStub{}, false, err
		}
		p.page++
		if p.OnPage != nil {
			p.OnPage(lp)
		}

		if lp.Empty {
			p.empty = true
			p.done = true
			continue
		}

		// A page adding nothing new means the site is repeating itself.
		fresh := 0
		for _, s := range lp.Stubs {
			if !p.seen[s.NCTID] {
				fresh++
			}
		}
		if fresh == 0 || !lp.HasNext {
			p.done = true
		}
		p.buf = lp.Stubs
	}
}

// Reset restarts the sequence from the first listing page.
func (p *Pager) Reset() {
	p.page = 0
	p.buf = nil
	p.seen = make(map[string]bool)
	p.yielded = 0
	p.done = false
	p.empty = false
}

// PagesVisited returns the number of listing pages loaded since the last Reset.
func (p *Pager) PagesVisited() int {
	return p.page
}

// EmptyListing reports whether a listing page never rendered its results.
func (p *Pager) EmptyListing() bool {
	return p.empty
}

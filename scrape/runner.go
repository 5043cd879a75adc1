package scrape

import (
	"context"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/google/uuid"
)

// Runner executes one acquisition run: open the browser, page through the
// listing, resolve each stub and stream its record.
type Runner struct {
	Browser     ctscrape.Browser
	Lister      ctscrape.ListExtractor
	Details     ctscrape.DetailExtractor
	Emitter     ctscrape.Emitter
	RetryLogger LogFunc

	// Rate is the politeness limit in navigations per second. Zero uses
	// DefaultRate; a negative rate disables limiting.
	Rate float64

	// RetryDelays defaults to DefaultRetryDelays when nil.
	RetryDelays []time.Duration

	// RunID identifies the run in logs and the summary. A random UUID is
	// used when empty.
	RunID string

	// Now defaults to time.Now.
	Now func() time.Time
}

// ProgressEvent reports progress during a run.
type ProgressEvent struct {
	Type    ProgressType
	Page    int
	Stub    ctscrape.TrialStub
	Missing []ctscrape.Field
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressPage ProgressType = iota
	ProgressEmptyPage
	ProgressEmitted
	ProgressDuplicate
	ProgressFailed
)

// ProgressFunc is a callback for reporting run progress.
type ProgressFunc func(event ProgressEvent)

// Run executes q. Listing navigation failures, startup failures and output
// write failures end the run with an error; a detail page that cannot be
// loaded is counted and skipped. The summary is returned whenever the
// browser was opened, including when the context was canceled.
func (r *Runner) Run(ctx context.Context, q ctscrape.Query, progress ProgressFunc) (*ctscrape.Summary, error) {
	if err := q.Validate(); err != nil {
		return nil, err
	}

	now := r.Now
	if now == nil {
		now = time.Now
	}
	id := r.RunID
	if id == "" {
		id = uuid.NewString()
	}
	state := ctscrape.NewRunState(id, now())

	opts := []ControllerOption{WithRetryLogger(r.RetryLogger)}
	if r.Rate != 0 {
		opts = append(opts, WithRate(r.Rate))
	}
	if r.RetryDelays != nil {
		opts = append(opts, WithRetryDelays(r.RetryDelays))
	}
	ctrl := NewController(r.Browser, opts...)
	defer ctrl.Close()

	if err := ctrl.Open(ctx, q.Headless); err != nil {
		return nil, err
	}

	pager := NewPager(r.Lister, ctrl, q)
	pager.OnPage = func(lp *ctscrape.ListPage) {
		if progress == nil {
			return
		}
		typ := ProgressPage
		if lp.Empty {
			typ = ProgressEmptyPage
		}
		progress(ProgressEvent{Type: typ, Page: lp.Number})
	}

	summarize := func() *ctscrape.Summary {
		state.PagesVisited = pager.PagesVisited()
		state.EmptyListing = pager.EmptyListing()
		return &ctscrape.Summary{
			RunID:        state.ID,
			Disease:      q.Disease,
			Emitted:      state.Emitted,
			Failures:     state.Failures,
			Duplicates:   state.Duplicates,
			Partial:      state.Partial,
			PagesVisited: state.PagesVisited,
			EmptyListing: state.EmptyListing,
			Elapsed:      now().Sub(state.Started),
			Digest:       Digest(state.IDs()),
		}
	}

	for {
		if err := ctx.Err(); err != nil {
			return summarize(), err
		}

		stub, ok, err := pager.Next(ctx)
		if err != nil {
			return summarize(), err
		}
		if !ok {
			break
		}

		// Started extractions finish on their own timeouts so the output
		// never ends on a half-resolved record.
		x, err := r.Details.Extract(context.WithoutCancel(ctx), ctrl, stub)
		if err != nil {
			state.Failures++
			notify(progress, ProgressEvent{Type: ProgressFailed, Stub: stub, Error: err})
			continue
		}

		before := r.Emitter.Stats()
		if err := r.Emitter.Emit(context.WithoutCancel(ctx), x.Record); err != nil {
			if ctscrape.ErrorCode(err) == ctscrape.EINVALID {
				state.Failures++
				notify(progress, ProgressEvent{Type: ProgressFailed, Stub: stub, Error: err})
				continue
			}
			return summarize(), err
		}
		if r.Emitter.Stats().Duplicates > before.Duplicates {
			state.Duplicates++
			notify(progress, ProgressEvent{Type: ProgressDuplicate, Stub: stub})
			continue
		}

		state.RecordEmitted(x.Record.NCTID)
		if x.Partial() {
			state.Partial++
		}
		notify(progress, ProgressEvent{Type: ProgressEmitted, Stub: stub, Missing: x.Missing})
	}

	return summarize(), nil
}

func notify(progress ProgressFunc, event ProgressEvent) {
	if progress != nil {
		progress(event)
	}
}

package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/ctscrape"
)

// Ensure LoggingListExtractor implements ctscrape.ListExtractor.
var _ ctscrape.ListExtractor = (*LoggingListExtractor)(nil)

// LoggingListExtractor wraps a ListExtractor with per-page logging.
type LoggingListExtractor struct {
	next   ctscrape.ListExtractor
	logger *slog.Logger
}

// NewLoggingListExtractor creates a new LoggingListExtractor.
func NewLoggingListExtractor(next ctscrape.ListExtractor, logger *slog.Logger) *LoggingListExtractor {
	return &LoggingListExtractor{next: next, logger: logger}
}

// ListPage logs the page outcome. A page whose results never rendered is
// logged as a warning since it may mean the site layout changed.
func (e *LoggingListExtractor) ListPage(ctx context.Context, nav ctscrape.Navigator, q ctscrape.Query, number int) (lp *ctscrape.ListPage, err error) {
	defer func(begin time.Time) {
		switch {
		case err != nil || lp == nil:
			e.logger.Error("listing page", "page", number, "duration", time.Since(begin), "err", err)
		case lp.Empty:
			e.logger.Warn("listing page empty", "page", number, "duration", time.Since(begin))
		default:
			e.logger.Info("listing page",
				"page", number,
				"stubs", len(lp.Stubs),
				"has_next", lp.HasNext,
				"duration", time.Since(begin),
			)
		}
	}(time.Now())
	return e.next.ListPage(ctx, nav, q, number)
}

// Ensure LoggingDetailExtractor implements ctscrape.DetailExtractor.
var _ ctscrape.DetailExtractor = (*LoggingDetailExtractor)(nil)

// LoggingDetailExtractor wraps a DetailExtractor with per-trial logging.
type LoggingDetailExtractor struct {
	next   ctscrape.DetailExtractor
	logger *slog.Logger
}

// NewLoggingDetailExtractor creates a new LoggingDetailExtractor.
func NewLoggingDetailExtractor(next ctscrape.DetailExtractor, logger *slog.Logger) *LoggingDetailExtractor {
	return &LoggingDetailExtractor{next: next, logger: logger}
}

// Extract logs the trial, its unresolved fields and any error.
func (e *LoggingDetailExtractor) Extract(ctx context.Context, nav ctscrape.Navigator, stub ctscrape.TrialStub) (x *ctscrape.Extraction, err error) {
	defer func(begin time.Time) {
		if err != nil || x == nil {
			e.logger.Warn("detail extraction", "nct_id", stub.NCTID, "duration", time.Since(begin), "err", err)
			return
		}
		level := slog.LevelDebug
		if x.Partial() {
			level = slog.LevelWarn
		}
		e.logger.Log(ctx, level, "detail extraction",
			"nct_id", stub.NCTID,
			"missing", x.Missing,
			"duration", time.Since(begin),
		)
	}(time.Now())
	return e.next.Extract(ctx, nav, stub)
}

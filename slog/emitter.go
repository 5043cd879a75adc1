package slog

import (
	"context"
	"log/slog"

	"github.com/fwojciec/ctscrape"
)

// Ensure LoggingEmitter implements ctscrape.Emitter.
var _ ctscrape.Emitter = (*LoggingEmitter)(nil)

// LoggingEmitter wraps an Emitter with debug logging.
type LoggingEmitter struct {
	next   ctscrape.Emitter
	logger *slog.Logger
}

// NewLoggingEmitter creates a new LoggingEmitter.
func NewLoggingEmitter(next ctscrape.Emitter, logger *slog.Logger) *LoggingEmitter {
	return &LoggingEmitter{next: next, logger: logger}
}

// Emit delegates to the wrapped emitter and logs whether the record was
// written, skipped as a duplicate or rejected.
func (e *LoggingEmitter) Emit(ctx context.Context, rec ctscrape.TrialRecord) error {
	before := e.next.Stats()
	err := e.next.Emit(ctx, rec)
	switch {
	case err != nil:
		e.logger.Warn("emit", "nct_id", rec.NCTID, "err", err)
	case e.next.Stats().Duplicates > before.Duplicates:
		e.logger.Debug("emit", "nct_id", rec.NCTID, "duplicate", true)
	default:
		e.logger.Debug("emit", "nct_id", rec.NCTID)
	}
	return err
}

// Stats delegates to the wrapped emitter.
func (e *LoggingEmitter) Stats() ctscrape.EmitStats {
	return e.next.Stats()
}

// Close delegates to the wrapped emitter and logs the final counts.
func (e *LoggingEmitter) Close() error {
	stats := e.next.Stats()
	err := e.next.Close()
	e.logger.Info("output closed",
		"emitted", stats.Emitted,
		"duplicates", stats.Duplicates,
		"invalid", stats.Invalid,
		"err", err,
	)
	return err
}

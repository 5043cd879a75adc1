package mock

import (
	"context"

	"github.com/fwojciec/ctscrape"
)

var (
	_ ctscrape.Emitter      = (*Emitter)(nil)
	_ ctscrape.RecordReader = (*RecordReader)(nil)
	_ ctscrape.TrialSource  = (*TrialSource)(nil)
)

// Emitter is a mock implementation of ctscrape.Emitter.
type Emitter struct {
	EmitFn  func(ctx context.Context, rec ctscrape.TrialRecord) error
	StatsFn func() ctscrape.EmitStats
	CloseFn func() error
}

func (e *Emitter) Emit(ctx context.Context, rec ctscrape.TrialRecord) error {
	return e.EmitFn(ctx, rec)
}

func (e *Emitter) Stats() ctscrape.EmitStats {
	return e.StatsFn()
}

func (e *Emitter) Close() error {
	return e.CloseFn()
}

// RecordReader is a mock implementation of ctscrape.RecordReader.
type RecordReader struct {
	ReadRecordsFn func(ctx context.Context) ([]ctscrape.TrialRecord, error)
}

func (r *RecordReader) ReadRecords(ctx context.Context) ([]ctscrape.TrialRecord, error) {
	return r.ReadRecordsFn(ctx)
}

// TrialSource is a mock implementation of ctscrape.TrialSource.
type TrialSource struct {
	FetchTrialsFn func(ctx context.Context, disease string, pageSize int) ([]ctscrape.TrialRecord, error)
}

func (s *TrialSource) FetchTrials(ctx context.Context, disease string, pageSize int) ([]ctscrape.TrialRecord, error) {
	return s.FetchTrialsFn(ctx, disease, pageSize)
}

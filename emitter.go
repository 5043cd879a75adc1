package ctscrape

import "context"

// Emitter writes records to the output stream as soon as they are resolved.
type Emitter interface {
	// Emit validates and writes one record. Records without an identifier
	// are rejected with EINVALID. Identifiers already emitted during the
	// run are skipped and reported through Stats.
	Emit(ctx context.Context, rec TrialRecord) error

	// Stats returns counts of what Emit did so far.
	Stats() EmitStats

	// Close flushes and releases the output. Close is safe to call multiple times.
	Close() error
}

// EmitStats counts Emit outcomes.
type EmitStats struct {
	Emitted    int
	Duplicates int
	Invalid    int
}

// RecordReader loads previously emitted records.
type RecordReader interface {
	ReadRecords(ctx context.Context) ([]TrialRecord, error)
}

// TrialSource fetches records from the structured API pipeline.
type TrialSource interface {
	FetchTrials(ctx context.Context, disease string, pageSize int) ([]TrialRecord, error)
}

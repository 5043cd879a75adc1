// Package fs provides file-based output for trial records.
package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/fwojciec/ctscrape"
)

// Ensure Emitter implements ctscrape.Emitter at compile time.
var _ ctscrape.Emitter = (*Emitter)(nil)

// Emitter streams records as JSON lines. Each record is written with a
// single Write call as soon as it is emitted, so readers tailing the file
// only ever see whole lines. Identifiers are deduplicated for the lifetime
// of the Emitter.
type Emitter struct {
	mu     sync.Mutex
	w      io.Writer
	closer io.Closer
	seen   map[string]bool
	stats  ctscrape.EmitStats
	closed bool
}

// NewEmitter creates an Emitter writing to w. Closing the Emitter does not
// close w.
func NewEmitter(w io.Writer) *Emitter {
	return &Emitter{
		w:    w,
		seen: make(map[string]bool),
	}
}

// OpenEmitter opens path for appending, creating it and its parent
// directories if needed. The file exists once OpenEmitter returns, so a run
// that emits nothing still leaves an empty output file.
func OpenEmitter(path string) (*Emitter, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, err
		}
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, err
	}

	e := NewEmitter(f)
	e.closer = f
	return e, nil
}

// Emit validates rec and writes it as one line. Duplicate identifiers are
// counted and skipped without error.
func (e *Emitter) Emit(ctx context.Context, rec ctscrape.TrialRecord) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return ctscrape.Errorf(ctscrape.EINTERNAL, "emitter closed")
	}

	if err := rec.Validate(); err != nil {
		e.stats.Invalid++
		return err
	}

	if e.seen[rec.NCTID] {
		e.stats.Duplicates++
		return nil
	}

	line, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode record %s: %w", rec.NCTID, err)
	}
	line = append(line, '\n')

	if _, err := e.w.Write(line); err != nil {
		return fmt.Errorf("write record %s: %w", rec.NCTID, err)
	}

	e.seen[rec.NCTID] = true
	e.stats.Emitted++
	return nil
}

// Stats returns counts of what Emit did so far.
func (e *Emitter) Stats() ctscrape.EmitStats {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.stats
}

// Close releases the output file. It is safe to call multiple times.
func (e *Emitter) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.closed {
		return nil
	}
	e.closed = true

	if e.closer == nil {
		return nil
	}
	return e.closer.Close()
}

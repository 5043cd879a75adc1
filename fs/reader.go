package fs

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"

	"github.com/fwojciec/ctscrape"
)

// Ensure RecordReader implements ctscrape.RecordReader at compile time.
var _ ctscrape.RecordReader = (*RecordReader)(nil)

// RecordReader reads a JSON lines file written by Emitter.
type RecordReader struct {
	path string
}

// NewRecordReader creates a RecordReader for path.
func NewRecordReader(path string) *RecordReader {
	return &RecordReader{path: path}
}

// ReadRecords returns every record in the file in order. Blank lines are
// ignored. A final line without a newline that does not parse is treated
// as a write still in progress and dropped.
func (r *RecordReader) ReadRecords(ctx context.Context) ([]ctscrape.TrialRecord, error) {
	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ctscrape.Errorf(ctscrape.ENOTFOUND, "records file %s not found", r.path)
		}
		return nil, err
	}
	defer f.Close()

	return ReadRecords(ctx, f)
}

// ReadRecords decodes JSON lines from rd.
func ReadRecords(ctx context.Context, rd io.Reader) ([]ctscrape.TrialRecord, error) {
	br := bufio.NewReader(rd)

	var records []ctscrape.TrialRecord
	for lineNo := 1; ; lineNo++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		line, readErr := br.ReadBytes('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			return nil, readErr
		}
		complete := readErr == nil

		if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			var rec ctscrape.TrialRecord
			if err := json.Unmarshal(trimmed, &rec); err != nil {
				if !complete {
					break
				}
				return nil, ctscrape.WrapErrorf(err, ctscrape.EINVALID, "line %d: %v", lineNo, err)
			}
			records = append(records, rec)
		}

		if !complete {
			break
		}
	}
	return records, nil
}

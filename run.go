package ctscrape

import "time"

// RunState holds the counters of one invocation. It is owned by the run
// loop and is not safe for concurrent use.
type RunState struct {
	ID      string
	Started time.Time

	PagesVisited int
	Emitted      int
	Failures     int
	Duplicates   int
	Partial      int
	EmptyListing bool

	ids []string
}

// NewRunState returns zeroed counters for a run.
func NewRunState(id string, started time.Time) *RunState {
	return &RunState{ID: id, Started: started}
}

// RecordEmitted counts a record written to the output.
func (s *RunState) RecordEmitted(id string) {
	s.Emitted++
	s.ids = append(s.ids, id)
}

// IDs returns the emitted identifiers in emission order.
func (s *RunState) IDs() []string {
	return append([]string(nil), s.ids...)
}

// Summary is the frozen outcome of a run.
type Summary struct {
	RunID        string
	Disease      string
	Emitted      int
	Failures     int
	Duplicates   int
	Partial      int
	PagesVisited int
	EmptyListing bool
	Elapsed      time.Duration

	// Digest fingerprints the set of emitted identifiers, independent of
	// order, so two runs can be compared without diffing their output.
	Digest uint64
}

// NoMatches reports whether the run finished normally without finding trials.
func (s *Summary) NoMatches() bool {
	return s.Emitted == 0 && s.Failures == 0 && s.EmptyListing
}

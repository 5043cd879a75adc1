package ctscrape

// TrialStub is a minimal reference to a trial found on a listing page.
// It only drives detail extraction and is never persisted.
type TrialStub struct {
	NCTID string
	URL   string

	// Listing hints read from the result card. Detail extraction only
	// falls back to them after every detail-page strategy failed.
	ListingTitle   string
	ListingCountry string
}

// TrialRecord is the output unit shared by the browser and API pipelines.
// Nil pointers mean the value could not be resolved and serialize as null.
type TrialRecord struct {
	NCTID      string  `json:"nctId"`
	BriefTitle string  `json:"briefTitle"`
	StartYear  *int    `json:"startYear"`
	Country    *string `json:"country"`
}

// Validate returns an error if the record cannot be emitted.
func (r *TrialRecord) Validate() error {
	if r.NCTID == "" {
		return Errorf(EINVALID, "trial record identifier required")
	}
	return nil
}

// Field names a resolvable TrialRecord field.
type Field string

// Field constants used by the detail extraction strategy table.
const (
	FieldBriefTitle Field = "briefTitle"
	FieldStartYear  Field = "startYear"
	FieldCountry    Field = "country"
)

// Fields returns the resolvable fields in extraction order.
func Fields() []Field {
	return []Field{FieldBriefTitle, FieldStartYear, FieldCountry}
}

// Extraction is the outcome of resolving one stub's detail page.
type Extraction struct {
	Record TrialRecord

	// Missing lists the fields whose strategies were all exhausted.
	Missing []Field
}

// Partial reports whether at least one field could not be resolved.
func (e *Extraction) Partial() bool {
	return len(e.Missing) > 0
}

// ListPage is one page of search results.
type ListPage struct {
	Number  int
	Stubs   []TrialStub
	HasNext bool

	// Empty is set when the results container never rendered within the
	// wait bound. Zero matches and a changed layout look the same here;
	// callers log it and stop paginating.
	Empty bool
}

package ctscrape

import "slices"

// Supported disease labels. The label doubles as the search condition term.
const (
	DiseaseType2Diabetes = "Type 2 Diabetes"
	DiseaseBreastCancer  = "Breast Cancer"
	DiseaseAlzheimers    = "Alzheimer's Disease"
	DiseaseCOVID19       = "COVID-19"
	DiseaseParkinsons    = "Parkinson's Disease"
)

// SupportedDiseases returns the closed set of disease labels a Query accepts.
func SupportedDiseases() []string {
	return []string{
		DiseaseType2Diabetes,
		DiseaseBreastCancer,
		DiseaseAlzheimers,
		DiseaseCOVID19,
		DiseaseParkinsons,
	}
}

// Query describes one acquisition run. It is passed by value and never
// modified once the run starts.
type Query struct {
	Disease    string
	MaxResults int
	Headless   bool
}

// Validate returns an error if the query cannot drive a run.
func (q Query) Validate() error {
	if q.Disease == "" {
		return Errorf(EINVALID, "disease required")
	}
	if !slices.Contains(SupportedDiseases(), q.Disease) {
		return Errorf(EINVALID, "unsupported disease %q", q.Disease)
	}
	if q.MaxResults <= 0 {
		return Errorf(EINVALID, "max results must be positive, got %d", q.MaxResults)
	}
	return nil
}

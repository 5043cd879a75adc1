package analytics

import (
	"slices"

	"github.com/fwojciec/ctscrape"
)

// Comparison describes how the identifier sets of two pipelines overlap.
type Comparison struct {
	API         int
	Scraped     int
	Both        int
	OnlyAPI     []string
	OnlyScraped []string
}

// Compare matches records from the API and scraper pipelines by
// identifier. Counts are of distinct identifiers.
func Compare(api, scraped []ctscrape.TrialRecord) Comparison {
	a := idSet(api)
	s := idSet(scraped)

	c := Comparison{API: len(a), Scraped: len(s)}
	for id := range a {
		if s[id] {
			c.Both++
		} else {
			c.OnlyAPI = append(c.OnlyAPI, id)
		}
	}
	for id := range s {
		if !a[id] {
			c.OnlyScraped = append(c.OnlyScraped, id)
		}
	}
	slices.Sort(c.OnlyAPI)
	slices.Sort(c.OnlyScraped)
	return c
}

func idSet(recs []ctscrape.TrialRecord) map[string]bool {
	m := make(map[string]bool, len(recs))
	for _, r := range recs {
		if r.NCTID != "" {
			m[r.NCTID] = true
		}
	}
	return m
}

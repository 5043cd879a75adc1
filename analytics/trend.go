// Package analytics aggregates trial records from either pipeline into the
// figures shown in comparison reports.
package analytics

import (
	"cmp"
	"slices"

	"github.com/fwojciec/ctscrape"
)

// YearCount is the number of trials that started in Year.
type YearCount struct {
	Year  int
	Count int
}

// Trend counts trials per start year in ascending year order. Records
// without a start year are left out.
func Trend(recs []ctscrape.TrialRecord) []YearCount {
	counts := make(map[int]int)
	for _, r := range recs {
		if r.StartYear != nil {
			counts[*r.StartYear]++
		}
	}

	out := make([]YearCount, 0, len(counts))
	for y, n := range counts {
		out = append(out, YearCount{Year: y, Count: n})
	}
	slices.SortFunc(out, func(a, b YearCount) int {
		return cmp.Compare(a.Year, b.Year)
	})
	return out
}

// Coverage reports how many records carry each optional field.
type Coverage struct {
	Records     int
	WithTitle   int
	WithYear    int
	WithCountry int
}

// FieldCoverage counts the resolved fields in recs.
func FieldCoverage(recs []ctscrape.TrialRecord) Coverage {
	c := Coverage{Records: len(recs)}
	for _, r := range recs {
		if r.BriefTitle != "" {
			c.WithTitle++
		}
		if r.StartYear != nil {
			c.WithYear++
		}
		if r.Country != nil && *r.Country != "" {
			c.WithCountry++
		}
	}
	return c
}

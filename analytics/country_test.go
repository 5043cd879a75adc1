package analytics_test

import (
	"testing"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/analytics"
	"github.com/stretchr/testify/assert"
)

func TestCanonicalCountry(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{name: "maps abbreviation", input: "USA", want: "United States", wantOK: true},
		{name: "maps dotted abbreviation", input: "U.K.", want: "United Kingdom", wantOK: true},
		{name: "maps registry long form", input: "Korea, Republic of", want: "South Korea", wantOK: true},
		{name: "trims before mapping", input: "  PRC ", want: "China", wantOK: true},
		{name: "matches known name case-insensitively", input: "france", want: "France", wantOK: true},
		{name: "keeps similar known names apart", input: "Austria", want: "Austria", wantOK: true},
		{name: "corrects misspelling", input: "Germny", want: "Germany", wantOK: true},
		{name: "corrects transposed letters", input: "Untied States", want: "United States", wantOK: true},
		{name: "title-cases unknown names", input: "narnia", want: "Narnia", wantOK: true},
		{name: "rejects blank", input: "   ", want: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := analytics.CanonicalCountry(tt.input)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountryCounts(t *testing.T) {
	t.Parallel()

	t.Run("merges aliases and orders by count then name", func(t *testing.T) {
		t.Parallel()

		recs := []ctscrape.TrialRecord{
			{NCTID: "NCT1", Country: country("USA")},
			{NCTID: "NCT2", Country: country("United States")},
			{NCTID: "NCT3", Country: country("France")},
			{NCTID: "NCT4", Country: country("Canada")},
			{NCTID: "NCT5"},
			{NCTID: "NCT6", Country: country(" ")},
		}

		assert.Equal(t, []analytics.CountryCount{
			{Country: "United States", Count: 2},
			{Country: "Canada", Count: 1},
			{Country: "France", Count: 1},
		}, analytics.CountryCounts(recs))
	})
}

func TestTop(t *testing.T) {
	t.Parallel()

	counts := []analytics.CountryCount{{Country: "A", Count: 3}, {Country: "B", Count: 2}, {Country: "C", Count: 1}}

	assert.Len(t, analytics.Top(counts, 2), 2)
	assert.Len(t, analytics.Top(counts, 15), 3)
}

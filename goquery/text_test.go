package goquery_test

import (
	"testing"

	"github.com/fwojciec/ctscrape/goquery"
	"github.com/stretchr/testify/assert"
)

func TestCleanText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{"collapses whitespace", "  A \n\t study  ", "A study"},
		{"replaces non-breaking spaces", "Phase\u00A02", "Phase 2"},
		{"drops zero-width characters", "NCT\u200B0123\uFEFF", "NCT0123"},
		{"empty stays empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, goquery.CleanText(tt.in))
		})
	}
}

func TestCanonicalNCT(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "NCT04368728", goquery.CanonicalNCT("NCT04368728"))
	assert.Equal(t, "NCT04368728", goquery.CanonicalNCT(" nct 04368728 "))
	assert.Equal(t, "NCT04368728", goquery.CanonicalNCT("Study NCT04368728 (recruiting)"))
	assert.Empty(t, goquery.CanonicalNCT("no identifier here"))
	assert.Empty(t, goquery.CanonicalNCT("NCT12"))
}

func TestExtractYear(t *testing.T) {
	t.Parallel()

	t.Run("finds year in full date", func(t *testing.T) {
		t.Parallel()

		y, ok := goquery.ExtractYear("2020-04-30")
		assert.True(t, ok)
		assert.Equal(t, 2020, y)
	})

	t.Run("finds year in month name date", func(t *testing.T) {
		t.Parallel()

		y, ok := goquery.ExtractYear("March 15, 2019 (Actual)")
		assert.True(t, ok)
		assert.Equal(t, 2019, y)
	})

	t.Run("prefers plausible year over other digit runs", func(t *testing.T) {
		t.Parallel()

		y, ok := goquery.ExtractYear("Protocol 4411, started 2018")
		assert.True(t, ok)
		assert.Equal(t, 2018, y)
	})

	t.Run("falls back to any four digits", func(t *testing.T) {
		t.Parallel()

		y, ok := goquery.ExtractYear("circa 1875")
		assert.True(t, ok)
		assert.Equal(t, 1875, y)
	})

	t.Run("reports unparsable text", func(t *testing.T) {
		t.Parallel()

		_, ok := goquery.ExtractYear("Not yet recruiting")
		assert.False(t, ok)
	})
}

func TestStripTitleSuffix(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "Vaccine Study", goquery.StripTitleSuffix("Vaccine Study - ClinicalTrials.gov"))
	assert.Equal(t, "Vaccine Study", goquery.StripTitleSuffix("Vaccine Study - Full Text View - ClinicalTrials.gov"))
	assert.Equal(t, "Pre-Diabetes Study", goquery.StripTitleSuffix("Pre-Diabetes Study"))
}

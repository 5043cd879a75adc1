package main

import (
	"cmp"
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/analytics"
	"github.com/jedib0t/go-pretty/v6/table"
)

type report struct {
	api            []ctscrape.TrialRecord
	scraped        []ctscrape.TrialRecord
	hasScraped     bool
	apiElapsed     time.Duration
	scrapedElapsed time.Duration
	top            int
}

func (r *report) render(w io.Writer) {
	r.sources(w)
	if r.hasScraped {
		r.overlap(w)
	}
	r.trend(w)
	r.countries(w)
}

// newTable writes title as a heading line and returns a table mirrored to w.
// The heading stays outside the table so narrow tables never wrap it.
func newTable(w io.Writer, title string) table.Writer {
	fmt.Fprintf(w, "\n%s\n", title)
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleRounded)
	return t
}

func (r *report) sources(w io.Writer) {
	t := newTable(w, "Records")
	t.AppendHeader(table.Row{"Source", "Records", "With title", "With year", "With country", "Load time"})
	row := func(name string, recs []ctscrape.TrialRecord, d time.Duration) {
		c := analytics.FieldCoverage(recs)
		t.AppendRow(table.Row{name, c.Records, c.WithTitle, c.WithYear, c.WithCountry, d.Round(time.Millisecond)})
	}
	row("API", r.api, r.apiElapsed)
	if r.hasScraped {
		row("Scraped", r.scraped, r.scrapedElapsed)
	}
	t.Render()
}

func (r *report) overlap(w io.Writer) {
	c := analytics.Compare(r.api, r.scraped)
	t := newTable(w, "Overlap by NCT ID")
	t.AppendHeader(table.Row{"API", "Scraped", "Both", "Only API", "Only scraped"})
	t.AppendRow(table.Row{c.API, c.Scraped, c.Both, len(c.OnlyAPI), len(c.OnlyScraped)})
	t.Render()
}

func (r *report) trend(w io.Writer) {
	api := yearMap(analytics.Trend(r.api))
	scraped := yearMap(analytics.Trend(r.scraped))
	years := make([]int, 0, len(api)+len(scraped))
	for y := range api {
		years = append(years, y)
	}
	for y := range scraped {
		if _, ok := api[y]; !ok {
			years = append(years, y)
		}
	}
	slices.Sort(years)

	t := newTable(w, "Trials per start year")
	if r.hasScraped {
		t.AppendHeader(table.Row{"Year", "API", "Scraped"})
	} else {
		t.AppendHeader(table.Row{"Year", "API"})
	}
	for _, y := range years {
		if r.hasScraped {
			t.AppendRow(table.Row{y, api[y], scraped[y]})
		} else {
			t.AppendRow(table.Row{y, api[y]})
		}
	}
	t.Render()
}

func (r *report) countries(w io.Writer) {
	api := countryMap(analytics.CountryCounts(r.api))
	scraped := countryMap(analytics.CountryCounts(r.scraped))
	merged := make(map[string]int, len(api))
	for c, n := range api {
		merged[c] += n
	}
	for c, n := range scraped {
		merged[c] += n
	}
	combined := make([]analytics.CountryCount, 0, len(merged))
	for c, n := range merged {
		combined = append(combined, analytics.CountryCount{Country: c, Count: n})
	}
	slices.SortFunc(combined, func(a, b analytics.CountryCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Country, b.Country)
	})

	t := newTable(w, "Top countries")
	if r.hasScraped {
		t.AppendHeader(table.Row{"Country", "API", "Scraped"})
	} else {
		t.AppendHeader(table.Row{"Country", "API"})
	}
	for _, cc := range analytics.Top(combined, r.top) {
		if r.hasScraped {
			t.AppendRow(table.Row{cc.Country, api[cc.Country], scraped[cc.Country]})
		} else {
			t.AppendRow(table.Row{cc.Country, api[cc.Country]})
		}
	}
	t.Render()
}

func yearMap(counts []analytics.YearCount) map[int]int {
	m := make(map[int]int, len(counts))
	for _, c := range counts {
		m[c.Year] = c.Count
	}
	return m
}

func countryMap(counts []analytics.CountryCount) map[string]int {
	m := make(map[string]int, len(counts))
	for _, c := range counts {
		m[c.Country] = c.Count
	}
	return m
}

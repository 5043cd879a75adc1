package goquery

import (
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/ctscrape"
)

// ParseKind selects how raw element text becomes a field value.
type ParseKind string

// ParseKind constants.
const (
	ParseText        ParseKind = "text"
	ParseTitle       ParseKind = "title"
	ParseYear        ParseKind = "year"
	ParseFirstOfList ParseKind = "first-of-list"
	ParseLastSegment ParseKind = "last-segment"
)

// Strategy is one way of reading a field from a detail page.
type Strategy struct {
	// Selector is the CSS selector to read. Only the first match is read
	// unless All is set.
	Selector string `json:"selector,omitempty"`

	// All tries every match in document order until one parses to a
	// non-empty value. Leave it unset for selectors that also match
	// unrelated fields, such as the study overview items.
	All bool `json:"all,omitempty"`

	// Attr reads an attribute instead of the element text.
	Attr string `json:"attr,omitempty"`

	// Parse defaults to ParseText.
	Parse ParseKind `json:"parse,omitempty"`

	// Hint reads the value captured on the listing page instead of the
	// detail document. Selector and Attr are ignored.
	Hint bool `json:"hint,omitempty"`
}

// StrategyTable maps each field to its ordered fallback chain.
// The first strategy yielding a value wins; an exhausted chain leaves
// the field unresolved.
type StrategyTable map[ctscrape.Field][]Strategy

// DefaultStrategies returns the chains for the current ClinicalTrials.gov
// layouts.
func DefaultStrategies() StrategyTable {
	return StrategyTable{
		ctscrape.FieldBriefTitle: {
			{Selector: "h2.brief-title"},
			{Selector: `meta[property="og:title"]`, Attr: "content", Parse: ParseTitle},
			{Selector: `meta[name="twitter:title"]`, Attr: "content", Parse: ParseTitle},
			{Selector: "title", Parse: ParseTitle},
			{Selector: "main h1", Parse: ParseTitle},
			{Selector: "h1", Parse: ParseTitle},
			{Hint: true},
		},
		ctscrape.FieldStartYear: {
			{Selector: "div.overview-col-wide span.study-overview-item-text", Parse: ParseYear},
			{Selector: `[data-testid="start-date"]`, Parse: ParseYear},
			{Selector: ".start-date", Parse: ParseYear},
		},
		ctscrape.FieldCountry: {
			{Selector: ".location-countries", Parse: ParseFirstOfList},
			{Selector: `[data-testid="location-country"]`},
			{Selector: ".cities-grid .location-text span", Parse: ParseLastSegment},
			{Hint: true},
		},
	}
}

// Validate returns an error if a strategy cannot be applied.
func (t StrategyTable) Validate() error {
	for field, chain := range t {
		for i, s := range chain {
			if !s.Hint && s.Selector == "" {
				return ctscrape.Errorf(ctscrape.EINVALID, "%s strategy %d: selector required", field, i)
			}
			switch s.Parse {
			case "", ParseText, ParseTitle, ParseYear, ParseFirstOfList, ParseLastSegment:
			default:
				return ctscrape.Errorf(ctscrape.EINVALID, "%s strategy %d: unknown parse kind %q", field, i, s.Parse)
			}
		}
	}
	return nil
}

// Resolve runs the field's chain against doc. hint is the listing-page
// value used by Hint strategies. It reports false when every strategy failed.
func (t StrategyTable) Resolve(doc *goquery.Document, field ctscrape.Field, hint string) (string, bool) {
	for _, s := range t[field] {
		if s.Hint {
			if v := s.parse(hint); v != "" {
				return v, true
			}
			continue
		}
		if doc == nil {
			continue
		}
		matches := doc.Find(s.Selector)
		if !s.All {
			matches = matches.First()
		}
		var value string
		matches.EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			raw := sel.Text()
			if s.Attr != "" {
				raw = sel.AttrOr(s.Attr, "")
			}
			value = s.parse(raw)
			return value == ""
		})
		if value != "" {
			return value, true
		}
	}
	return "", false
}

func (s Strategy) parse(raw string) string {
	text := CleanText(raw)
	if text == "" {
		return ""
	}
	switch s.Parse {
	case ParseTitle:
		text = StripTitleSuffix(text)
		if strings.Contains(strings.ToLower(text), "clinicaltrials") {
			return ""
		}
		return text
	case ParseYear:
		y, ok := ExtractYear(text)
		if !ok {
			return ""
		}
		return strconv.Itoa(y)
	case ParseFirstOfList:
		return firstOfList(text)
	case ParseLastSegment:
		return lastSegment(text)
	default:
		return text
	}
}

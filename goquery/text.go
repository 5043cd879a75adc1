// Package goquery extracts trial stubs and records from ClinicalTrials.gov
// HTML using CSS selectors.
package goquery

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	zeroWidthRe = regexp.MustCompile("[\u200B-\u200F\uFEFF]")
	spaceRe     = regexp.MustCompile(`\s+`)
	nctRe       = regexp.MustCompile(`(?i)\bNCT\s*(\d{4,})\b`)
	modernYear  = regexp.MustCompile(`\b(19|20)\d{2}\b`)
	anyYear     = regexp.MustCompile(`\d{4}`)
	titleSuffix = regexp.MustCompile(`(?i)\s+-\s+(ClinicalTrials\.gov|Full Text View)\s*$`)
)

// CleanText normalizes whitespace in scraped text. Non-breaking spaces
// become spaces, zero-width characters and byte order marks are removed,
// runs of whitespace collapse to one space.
func CleanText(s string) string {
	s = strings.ReplaceAll(s, "\u00A0", " ")
	s = zeroWidthRe.ReplaceAllString(s, "")
	return strings.TrimSpace(spaceRe.ReplaceAllString(s, " "))
}

// CanonicalNCT returns the registry identifier found in s in the form
// NCT followed by its digits, or "" if s holds no identifier.
func CanonicalNCT(s string) string {
	m := nctRe.FindStringSubmatch(CleanText(s))
	if m == nil {
		return ""
	}
	return "NCT" + m[1]
}

// ExtractYear returns the first plausible four-digit year in s.
// Years from 1900-2099 win over any other four-digit run.
func ExtractYear(s string) (int, bool) {
	m := modernYear.FindString(s)
	if m == "" {
		m = anyYear.FindString(s)
	}
	if m == "" {
		return 0, false
	}
	y, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	return y, true
}

// StripTitleSuffix removes the site suffix browsers and meta tags append
// to study titles.
func StripTitleSuffix(s string) string {
	for {
		trimmed := titleSuffix.ReplaceAllString(s, "")
		if trimmed == s {
			return strings.TrimSpace(s)
		}
		s = trimmed
	}
}

// firstOfList returns the first item of a comma or semicolon separated list.
func firstOfList(s string) string {
	for _, part := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if p := strings.TrimSpace(part); p != "" {
			return p
		}
	}
	return ""
}

// lastSegment returns the last comma separated segment of a location line
// such as "Boston, Massachusetts, United States".
func lastSegment(s string) string {
	parts := strings.Split(s, ",")
	return strings.TrimSpace(parts[len(parts)-1])
}

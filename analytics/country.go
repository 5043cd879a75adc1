package analytics

import (
	"cmp"
	"slices"
	"strings"

	"github.com/antzucaro/matchr"
	"github.com/fwojciec/ctscrape"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// FuzzyThreshold is the minimum Jaro-Winkler similarity for a country name
// to be corrected to a known one.
const FuzzyThreshold = 0.92

// aliases maps abbreviations and historical names the registry uses to the
// canonical country name.
var aliases = map[string]string{
	"USA":                        "United States",
	"U.S.":                       "United States",
	"U.S.A.":                     "United States",
	"US":                         "United States",
	"United States of America":   "United States",
	"UK":                         "United Kingdom",
	"U.K.":                       "United Kingdom",
	"England":                    "United Kingdom",
	"Great Britain":              "United Kingdom",
	"Korea, Republic of":         "South Korea",
	"Republic of Korea":          "South Korea",
	"People's Republic of China": "China",
	"PRC":                        "China",
	"Russian Federation":         "Russia",
	"Iran, Islamic Republic of":  "Iran",
	"Taiwan, Province of China":  "Taiwan",
	"Viet Nam":                   "Vietnam",
	"Czechia":                    "Czech Republic",
	"Türkiye":                    "Turkey",
}

// countries are the canonical names fuzzy matching corrects towards.
var countries = []string{
	"Argentina", "Australia", "Austria", "Bangladesh", "Belgium", "Brazil",
	"Bulgaria", "Canada", "Chile", "China", "Colombia", "Croatia",
	"Czech Republic", "Denmark", "Egypt", "Estonia", "Finland", "France",
	"Germany", "Greece", "Hong Kong", "Hungary", "India", "Indonesia",
	"Iceland", "Iran", "Ireland", "Israel", "Italy", "Japan", "Jordan", "Kenya",
	"Latvia", "Lebanon", "Lithuania", "Malaysia", "Mexico", "Morocco",
	"Netherlands", "New Zealand", "Niger", "Nigeria", "Norway", "Pakistan", "Peru",
	"Philippines", "Poland", "Portugal", "Puerto Rico", "Romania", "Russia",
	"Saudi Arabia", "Serbia", "Singapore", "Slovakia", "Slovenia",
	"South Africa", "South Korea", "Spain", "Sweden", "Switzerland",
	"Taiwan", "Thailand", "Tunisia", "Turkey", "Uganda", "Ukraine",
	"United Arab Emirates", "United Kingdom", "United States", "Vietnam",
}

var titleCaser = cases.Title(language.English)

// CanonicalCountry normalizes a country name: known aliases are mapped,
// close misspellings of known countries are corrected and anything else is
// title-cased. It reports false for blank input.
func CanonicalCountry(name string) (string, bool) {
	n := strings.TrimSpace(name)
	if n == "" {
		return "", false
	}
	if c, ok := aliases[n]; ok {
		return c, true
	}

	lower := strings.ToLower(n)
	best, bestScore := "", 0.0
	for _, c := range countries {
		lc := strings.ToLower(c)
		if lc == lower {
			return c, true
		}
		if s := matchr.JaroWinkler(lower, lc, false); s > bestScore {
			best, bestScore = c, s
		}
	}
	if bestScore >= FuzzyThreshold {
		return best, true
	}
	return titleCaser.String(n), true
}

// CountryCount is the number of trials whose country is Country.
type CountryCount struct {
	Country string
	Count   int
}

// CountryCounts counts trials per canonical country, most frequent first
// and ties by name. Records without a country are left out.
func CountryCounts(recs []ctscrape.TrialRecord) []CountryCount {
	counts := make(map[string]int)
	for _, r := range recs {
		if r.Country == nil {
			continue
		}
		if c, ok := CanonicalCountry(*r.Country); ok {
			counts[c]++
		}
	}

	out := make([]CountryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, CountryCount{Country: c, Count: n})
	}
	slices.SortFunc(out, func(a, b CountryCount) int {
		if a.Count != b.Count {
			return cmp.Compare(b.Count, a.Count)
		}
		return cmp.Compare(a.Country, b.Country)
	})
	return out
}

// Top returns at most n leading entries of counts.
func Top(counts []CountryCount, n int) []CountryCount {
	if n >= 0 && len(counts) > n {
		return counts[:n]
	}
	return counts
}

// Package json5 loads selector strategy overrides from JSON5 files, so a
// change in the site layout can be handled without a rebuild.
package json5

import (
	"os"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/goquery"
	"github.com/titanous/json5"
)

// LoadStrategies reads the override file at path and applies it to the
// default strategy table.
func LoadStrategies(path string) (goquery.StrategyTable, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ctscrape.Errorf(ctscrape.ENOTFOUND, "selector file %s not found", path)
		}
		return nil, err
	}
	return ParseStrategies(data)
}

// ParseStrategies decodes an override document. Each top-level key names a
// field and replaces that field's whole chain; fields not mentioned keep
// their default chain. For example:
//
//	{
//	  // the title moved into the page header
//	  briefTitle: [
//	    {selector: "header .study-title"},
//	    {selector: "title", parse: "title"},
//	    {hint: true},
//	  ],
//	}
func ParseStrategies(data []byte) (goquery.StrategyTable, error) {
	var overrides map[string][]goquery.Strategy
	if err := json5.Unmarshal(data, &overrides); err != nil {
		return nil, ctscrape.WrapErrorf(err, ctscrape.EINVALID, "parsing selector file: %v", err)
	}

	known := make(map[ctscrape.Field]bool)
	for _, f := range ctscrape.Fields() {
		known[f] = true
	}

	table := goquery.DefaultStrategies()
	for name, chain := range overrides {
		field := ctscrape.Field(name)
		if !known[field] {
			return nil, ctscrape.Errorf(ctscrape.EINVALID, "unknown field %q in selector file", name)
		}
		if len(chain) == 0 {
			return nil, ctscrape.Errorf(ctscrape.EINVALID, "field %q has an empty strategy list", name)
		}
		table[field] = chain
	}

	if err := table.Validate(); err != nil {
		return nil, err
	}
	return table, nil
}

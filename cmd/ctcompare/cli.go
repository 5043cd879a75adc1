package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/fs"
	cthttp "github.com/fwojciec/ctscrape/http"
	"golang.org/x/sync/errgroup"
)

// Dependencies holds the services and writers for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Source ctscrape.TrialSource
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Disease  string        `short:"d" required:"" env:"CTCOMPARE_DISEASE" help:"Condition to compare (${diseases})"`
	PageSize int           `name:"page-size" default:"100" env:"CTCOMPARE_PAGE_SIZE" help:"Studies requested from the API"`
	Scraped  string        `short:"s" env:"CTCOMPARE_SCRAPED" help:"JSON lines file written by ctscrape"`
	APIBase  string        `name:"api-base" default:"https://clinicaltrials.gov" env:"CTCOMPARE_API_BASE" help:"API host"`
	Timeout  time.Duration `short:"t" default:"30s" env:"CTCOMPARE_TIMEOUT" help:"API request timeout"`
	Top      int           `default:"15" help:"Countries listed in the country table"`
}

// Run loads both record sets concurrently and prints the report.
func (c *CLI) Run(deps *Dependencies) error {
	q := ctscrape.Query{Disease: c.Disease, MaxResults: c.PageSize}
	if err := q.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ctscrape.ErrorMessage(err))
		return err
	}

	source := deps.Source
	if source == nil {
		source = cthttp.NewAPIClient(
			cthttp.WithAPIBaseURL(c.APIBase),
			cthttp.WithAPITimeout(c.Timeout),
		)
	}

	var (
		r       report
		scraped []ctscrape.TrialRecord
	)
	g, gctx := errgroup.WithContext(deps.Ctx)
	g.Go(func() error {
		start := time.Now()
		recs, err := source.FetchTrials(gctx, c.Disease, c.PageSize)
		if err != nil {
			return err
		}
		r.api = recs
		r.apiElapsed = time.Since(start)
		return nil
	})
	if c.Scraped != "" {
		var reader ctscrape.RecordReader = fs.NewRecordReader(c.Scraped)
		g.Go(func() error {
			start := time.Now()
			recs, err := reader.ReadRecords(gctx)
			if err != nil {
				return err
			}
			scraped = recs
			r.scrapedElapsed = time.Since(start)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ctscrape.ErrorMessage(err))
		return err
	}

	if c.Scraped != "" {
		r.scraped = scraped
		r.hasScraped = true
	}
	r.top = c.Top
	r.render(deps.Stdout)
	return nil
}

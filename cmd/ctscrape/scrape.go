package main

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/fwojciec/ctscrape/fs"
	"github.com/fwojciec/ctscrape/goquery"
	cthttp "github.com/fwojciec/ctscrape/http"
	"github.com/fwojciec/ctscrape/json5"
	"github.com/fwojciec/ctscrape/rod"
	"github.com/fwojciec/ctscrape/scrape"
	ctslog "github.com/fwojciec/ctscrape/slog"
	"github.com/go-rod/rod/lib/proto"
	"github.com/google/uuid"
)

// Run executes one scrape.
func (c *CLI) Run(deps *Dependencies) error {
	q := ctscrape.Query{
		Disease:    c.Disease,
		MaxResults: c.MaxResults,
		Headless:   c.Headless,
	}
	if err := q.Validate(); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ctscrape.ErrorMessage(err))
		return err
	}

	runID := uuid.NewString()
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(deps.Stderr, &slog.HandlerOptions{Level: level})).
		With("run", runID, "disease", c.Disease)

	strategies := goquery.DefaultStrategies()
	if c.Selectors != "" {
		var err error
		if strategies, err = json5.LoadStrategies(c.Selectors); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", ctscrape.ErrorMessage(err))
			return err
		}
	}

	browser, err := c.browser(deps)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", ctscrape.ErrorMessage(err))
		return err
	}

	// Writing records to stdout moves the summary to stderr.
	summaryOut := deps.Stdout
	var emitter ctscrape.Emitter
	if c.Output == "-" {
		emitter = fs.NewEmitter(deps.Stdout)
		summaryOut = deps.Stderr
	} else {
		f, err := fs.OpenEmitter(c.Output)
		if err != nil {
			return fmt.Errorf("failed to open output %q: %w", c.Output, err)
		}
		emitter = f
	}
	emitter = ctslog.NewLoggingEmitter(emitter, logger)
	defer emitter.Close()

	// The runner treats zero as its default rate.
	rate := c.Rate
	if rate <= 0 {
		rate = -1
	}

	runner := &scrape.Runner{
		Browser: ctslog.NewLoggingBrowser(browser, logger),
		Lister: ctslog.NewLoggingListExtractor(
			goquery.NewListExtractor(goquery.WithBaseURL(c.BaseURL)), logger),
		Details: ctslog.NewLoggingDetailExtractor(
			goquery.NewDetailExtractor(goquery.WithStrategies(strategies)), logger),
		Emitter:     emitter,
		Rate:        rate,
		RetryDelays: retryDelays(c.Retries),
		RetryLogger: func(format string, args ...any) {
			logger.Warn(fmt.Sprintf(format, args...))
		},
		RunID: runID,
	}

	sum, err := runner.Run(deps.Ctx, q, func(e scrape.ProgressEvent) {
		if e.Type == scrape.ProgressEmitted {
			logger.Info("record", "nct_id", e.Stub.NCTID, "partial", len(e.Missing) > 0)
		}
	})
	if err != nil {
		if ctscrape.ErrorCode(err) == ctscrape.ESTARTUP {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed, or pass --chrome-bin")
		}
		if sum != nil {
			writeSummary(summaryOut, sum, c.Output)
		}
		fmt.Fprintf(deps.Stderr, "error: %s\n", ctscrape.ErrorMessage(err))
		return err
	}

	writeSummary(summaryOut, sum, c.Output)
	return nil
}

func (c *CLI) browser(deps *Dependencies) (ctscrape.Browser, error) {
	if deps.Browser != nil {
		return deps.Browser, nil
	}
	if c.Static {
		return cthttp.NewBrowser(cthttp.WithTimeout(c.Timeout)), nil
	}

	blocked := make([]proto.NetworkResourceType, 0, len(c.Block))
	for _, name := range c.Block {
		rt, ok := rod.ResourceType(name)
		if !ok {
			return nil, ctscrape.Errorf(ctscrape.EINVALID, "unknown resource type %q", name)
		}
		blocked = append(blocked, rt)
	}

	return rod.NewBrowser(
		rod.WithTimeout(c.Timeout),
		rod.WithBin(c.ChromeBin),
		rod.WithNoSandbox(c.NoSandbox),
		rod.WithBlockedResources(blocked...),
	), nil
}

func writeSummary(w io.Writer, sum *ctscrape.Summary, output string) {
	if sum.NoMatches() {
		fmt.Fprintf(w, "No trials matched %q\n", sum.Disease)
	}
	fmt.Fprintf(w, "Emitted %d records to %s (%d failed, %d duplicates, %d partial, %d pages) in %s\n",
		sum.Emitted, output, sum.Failures, sum.Duplicates, sum.Partial, sum.PagesVisited,
		sum.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(w, "Run %s digest %016x\n", sum.RunID, sum.Digest)
}

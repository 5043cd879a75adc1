package main

import (
	"context"
	"io"
	"time"

	"github.com/fwojciec/ctscrape"
)

// Dependencies holds the services and writers for command execution.
type Dependencies struct {
	Ctx     context.Context
	Stdout  io.Writer
	Stderr  io.Writer
	Browser ctscrape.Browser
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Disease    string        `short:"d" required:"" env:"CTSCRAPE_DISEASE" help:"Condition to search for (${diseases})"`
	MaxResults int           `short:"n" name:"max-results" aliases:"max_results" required:"" env:"CTSCRAPE_MAX_RESULTS" help:"Maximum number of trials to visit"`
	Output     string        `short:"o" required:"" env:"CTSCRAPE_OUTPUT" help:"Output JSON lines file, appended to (- for stdout)"`
	Headless   bool          `default:"true" negatable:"" env:"CTSCRAPE_HEADLESS" help:"Run the browser without a window"`
	Timeout    time.Duration `short:"t" default:"30s" env:"CTSCRAPE_TIMEOUT" help:"Timeout per page navigation"`
	Retries    int           `default:"3" env:"CTSCRAPE_RETRIES" help:"Navigation retries with exponential backoff"`
	Rate       float64       `default:"1.0" env:"CTSCRAPE_RATE" help:"Maximum page navigations per second (0 disables limiting)"`
	BaseURL    string        `name:"base-url" default:"https://clinicaltrials.gov" env:"CTSCRAPE_BASE_URL" help:"Site root to scrape"`
	Selectors  string        `env:"CTSCRAPE_SELECTORS" help:"JSON5 file overriding detail page selectors"`
	ChromeBin  string        `name:"chrome-bin" env:"CTSCRAPE_CHROME_BIN" help:"Chrome or Chromium binary to launch"`
	NoSandbox  bool          `name:"no-sandbox" env:"CTSCRAPE_NO_SANDBOX" help:"Disable the Chrome sandbox (containers)"`
	Block      []string      `default:"Image,Font,Media" env:"CTSCRAPE_BLOCK" help:"Resource types not loaded by the browser"`
	Static     bool          `env:"CTSCRAPE_STATIC" help:"Fetch pages over plain HTTP without a browser"`
	Verbose    bool          `short:"v" env:"CTSCRAPE_VERBOSE" help:"Log every navigation and record"`
}

// retryDelays returns n exponential backoff delays starting at one second.
func retryDelays(n int) []time.Duration {
	delays := make([]time.Duration, 0, max(n, 0))
	for i := 0; i < n; i++ {
		delays = append(delays, time.Second<<i)
	}
	return delays
}

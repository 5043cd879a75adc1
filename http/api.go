package http

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/ctscrape"
	"github.com/go-resty/resty/v2"
)

// DefaultAPIBaseURL is the public ClinicalTrials.gov API host.
const DefaultAPIBaseURL = "https://clinicaltrials.gov"

// DefaultPageSize is the number of studies requested per API page.
const DefaultPageSize = 100

// Ensure APIClient implements ctscrape.TrialSource at compile time.
var _ ctscrape.TrialSource = (*APIClient)(nil)

// APIClient reads studies from the ClinicalTrials.gov v2 REST API.
type APIClient struct {
	client *resty.Client
}

// APIOption configures an APIClient.
type APIOption func(*resty.Client)

// WithAPIBaseURL points the client at another host, such as a test server.
func WithAPIBaseURL(u string) APIOption {
	return func(c *resty.Client) {
		c.SetBaseURL(strings.TrimRight(u, "/"))
	}
}

// WithAPITimeout sets the per-request timeout.
func WithAPITimeout(d time.Duration) APIOption {
	return func(c *resty.Client) {
		c.SetTimeout(d)
	}
}

// NewAPIClient creates a new APIClient.
func NewAPIClient(opts ...APIOption) *APIClient {
	client := resty.New()
	client.SetBaseURL(DefaultAPIBaseURL)
	client.SetTimeout(DefaultTimeout)
	client.SetHeader("accept", "application/json")
	for _, opt := range opts {
		opt(client)
	}
	return &APIClient{client: client}
}

type studiesResponse struct {
	Studies []study `json:"studies"`
}

type study struct {
	ProtocolSection struct {
		IdentificationModule struct {
			NCTID         string `json:"nctId"`
			BriefTitle    string `json:"briefTitle"`
			OfficialTitle string `json:"officialTitle"`
		} `json:"identificationModule"`
		StatusModule struct {
			StartDateStruct struct {
				Date string `json:"date"`
			} `json:"startDateStruct"`
		} `json:"statusModule"`
		ContactsLocationsModule struct {
			Locations []struct {
				Country string `json:"country"`
			} `json:"locations"`
		} `json:"contactsLocationsModule"`
	} `json:"protocolSection"`
}

// FetchTrials requests one page of studies matching disease and maps them
// to records. Studies without an identifier are skipped.
func (c *APIClient) FetchTrials(ctx context.Context, disease string, pageSize int) ([]ctscrape.TrialRecord, error) {
	if disease == "" {
		return nil, ctscrape.Errorf(ctscrape.EINVALID, "disease required")
	}
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	var payload studiesResponse
	res, err := c.client.R().
		SetContext(ctx).
		SetQueryParam("query.cond", disease).
		SetQueryParam("pageSize", strconv.Itoa(pageSize)).
		SetResult(&payload).
		ForceContentType("application/json").
		Get("/api/v2/studies")
	if err != nil {
		// A response was received, so the body could not be decoded.
		if res != nil && res.RawResponse != nil {
			return nil, ctscrape.WrapErrorf(err, ctscrape.EINVALID, "decoding studies response: %v", err)
		}
		return nil, err
	}
	if res.IsError() {
		return nil, ctscrape.Errorf(ctscrape.ENAVIGATION, "studies API returned %s", res.Status())
	}

	records := make([]ctscrape.TrialRecord, 0, len(payload.Studies))
	for _, s := range payload.Studies {
		if rec, ok := s.record(); ok {
			records = append(records, rec)
		}
	}
	return records, nil
}

func (s study) record() (ctscrape.TrialRecord, bool) {
	ident := s.ProtocolSection.IdentificationModule
	if ident.NCTID == "" {
		return ctscrape.TrialRecord{}, false
	}

	rec := ctscrape.TrialRecord{
		NCTID:      ident.NCTID,
		BriefTitle: ident.BriefTitle,
	}
	if rec.BriefTitle == "" {
		rec.BriefTitle = ident.OfficialTitle
	}

	if y, ok := leadingYear(s.ProtocolSection.StatusModule.StartDateStruct.Date); ok {
		rec.StartYear = &y
	}

	if locs := s.ProtocolSection.ContactsLocationsModule.Locations; len(locs) > 0 && locs[0].Country != "" {
		country := locs[0].Country
		rec.Country = &country
	}
	return rec, true
}

// leadingYear returns the first run of four digits in an API date such as
// "2020-04" or "2020-04-30".
func leadingYear(date string) (int, bool) {
	run := 0
	for i := 0; i < len(date); i++ {
		if date[i] < '0' || date[i] > '9' {
			run = 0
			continue
		}
		run++
		if run == 4 {
			y, _ := strconv.Atoi(date[i-3 : i+1])
			return y, true
		}
	}
	return 0, false
}

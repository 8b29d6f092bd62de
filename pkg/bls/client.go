// Package bls provides a client for the BLS public data API v2 timeseries
// endpoint. The API enforces a per-call series limit, so callers batch series
// identifiers; the client validates one request at a time.
package bls

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"

	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production API host.
const DefaultBaseURL = "https://api.bls.gov"

// MaxSeriesPerRequest is the v2 API limit on series per call.
const MaxSeriesPerRequest = 50

const timeseriesPath = "/publicAPI/v2/timeseries/data/"

// statusSucceeded is the only response status carrying usable data.
const statusSucceeded = "REQUEST_SUCCEEDED"

// Client talks to the BLS public data API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the API host, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithAPIKey sets the registration key sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithRateLimit sets the requests-per-second rate limit.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), int(rps)) }
}

// NewClient creates a BLS API client. Requests use the transport default
// timeout; the pipeline issues them strictly sequentially.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(5, 5),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SeriesResponse is the v2 API response envelope.
type SeriesResponse struct {
	Status  string   `json:"status"`
	Message []string `json:"message"`
	Results struct {
		Series []Series `json:"series"`
	} `json:"Results"`
}

// Series is one requested series with its observations, most recent first.
type Series struct {
	SeriesID string      `json:"seriesID"`
	Data     []DataPoint `json:"data"`
}

// DataPoint is one period's observation; Value is the raw string the API
// serves.
type DataPoint struct {
	Year   string `json:"year"`
	Period string `json:"period"`
	Value  string `json:"value"`
}

type seriesRequest struct {
	SeriesID        []string `json:"seriesid"`
	StartYear       string   `json:"startyear"`
	EndYear         string   `json:"endyear"`
	RegistrationKey string   `json:"registrationkey,omitempty"`
}

// Timeseries posts one batch of series identifiers for a year span. Fails
// when the batch exceeds MaxSeriesPerRequest or the API reports anything but
// REQUEST_SUCCEEDED.
func (c *Client) Timeseries(ctx context.Context, seriesIDs []string, startYear, endYear int) (*SeriesResponse, error) {
	if len(seriesIDs) == 0 {
		return nil, eris.New("bls: no series requested")
	}
	if len(seriesIDs) > MaxSeriesPerRequest {
		return nil, eris.Errorf("bls: %d series exceeds the %d per-request limit", len(seriesIDs), MaxSeriesPerRequest)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "bls: rate limit")
	}

	payload, err := json.Marshal(seriesRequest{
		SeriesID:        seriesIDs,
		StartYear:       strconv.Itoa(startYear),
		EndYear:         strconv.Itoa(endYear),
		RegistrationKey: c.apiKey,
	})
	if err != nil {
		return nil, eris.Wrap(err, "bls: marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+timeseriesPath, bytes.NewReader(payload))
	if err != nil {
		return nil, eris.Wrap(err, "bls: build request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "bls: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("bls: unexpected status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "bls: read body")
	}

	var sr SeriesResponse
	if err := json.Unmarshal(body, &sr); err != nil {
		return nil, eris.Wrap(err, "bls: parse response")
	}
	if sr.Status != statusSucceeded {
		return nil, eris.Errorf("bls: request status %q: %v", sr.Status, sr.Message)
	}
	return &sr, nil
}

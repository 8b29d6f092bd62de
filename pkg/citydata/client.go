// Package citydata fetches pages from the city-data.com directory: per-city
// profile pages (county breadcrumb, crime table) and per-state city listings.
// It owns transport concerns only; callers parse the returned documents.
package citydata

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rotisserie/eris"
	"golang.org/x/time/rate"
)

// DefaultBaseURL is the production directory host.
const DefaultBaseURL = "https://www.city-data.com"

// defaultUserAgent matches a plain browser; the directory serves an empty
// shell to obvious bot agents.
const defaultUserAgent = "Chrome/96.0.4664.110"

// ErrNotFound is returned when the directory has no page at the requested
// path (HTTP 404). For profile pages this usually means a misspelled city.
var ErrNotFound = eris.New("citydata: page not found")

// Client fetches city-data.com pages with courtesy delays and a fixed
// per-request timeout.
type Client struct {
	httpClient *http.Client
	baseURL    string
	userAgent  string
	limiter    *rate.Limiter
	clock      clockwork.Clock

	profileDelayMin time.Duration
	profileDelayMax time.Duration
	pageDelayMin    time.Duration
	pageDelayMax    time.Duration
}

// Option configures the client.
type Option func(*Client)

// WithBaseURL overrides the directory host, for tests.
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithUserAgent overrides the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(c *Client) { c.userAgent = ua }
}

// WithClock injects the time source used for courtesy delays.
func WithClock(clock clockwork.Clock) Option {
	return func(c *Client) { c.clock = clock }
}

// WithProfileDelay sets the randomized delay window before each profile
// fetch. A zero max disables the delay.
func WithProfileDelay(min, max time.Duration) Option {
	return func(c *Client) {
		c.profileDelayMin = min
		c.profileDelayMax = max
	}
}

// WithPageDelay sets the randomized delay window before each linked-page
// fetch. A zero max disables the delay.
func WithPageDelay(min, max time.Duration) Option {
	return func(c *Client) {
		c.pageDelayMin = min
		c.pageDelayMax = max
	}
}

// WithRateLimit sets the requests-per-second ceiling on top of the delays.
func WithRateLimit(rps float64) Option {
	return func(c *Client) { c.limiter = rate.NewLimiter(rate.Limit(rps), 1) }
}

// NewClient creates a directory client with production defaults: 15 second
// request timeout, a 1-2 s delay before profile fetches and 1-3 s before
// linked-page fetches.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient:      &http.Client{Timeout: 15 * time.Second},
		baseURL:         DefaultBaseURL,
		userAgent:       defaultUserAgent,
		limiter:         rate.NewLimiter(5, 5),
		clock:           clockwork.NewRealClock(),
		profileDelayMin: time.Second,
		profileDelayMax: 2 * time.Second,
		pageDelayMin:    time.Second,
		pageDelayMax:    3 * time.Second,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// sleep pauses for a random duration within [min, max). Disabled when max is
// zero so tests run without waiting.
func (c *Client) sleep(min, max time.Duration) {
	if max <= 0 {
		return
	}
	d := min
	if max > min {
		d += time.Duration(rand.Int63n(int64(max - min)))
	}
	c.clock.Sleep(d)
}

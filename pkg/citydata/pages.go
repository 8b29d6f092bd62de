package citydata

import (
	"context"
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
)

// CityPath builds the profile-page path for a city: spaces in the city name
// become hyphens and the hyphenated state name is appended
// (e.g. "Salt Lake City", "Utah" -> "/city/Salt-Lake-City-Utah.html").
func CityPath(city, stateName string) string {
	return "/city/" + strings.ReplaceAll(city, " ", "-") + "-" + stateName + ".html"
}

// StatePath builds the per-state directory listing path.
func StatePath(stateName string) string {
	return "/city/" + stateName + ".html"
}

// Profile fetches a city's profile page. A courtesy delay precedes the
// request. Returns ErrNotFound (wrapped) on HTTP 404.
func (c *Client) Profile(ctx context.Context, city, stateName string) (*goquery.Document, error) {
	c.sleep(c.profileDelayMin, c.profileDelayMax)
	return c.fetch(ctx, c.baseURL+CityPath(city, stateName))
}

// StateDirectory fetches the per-state city listing. No delay: one request
// per state per run.
func (c *Client) StateDirectory(ctx context.Context, stateName string) (*goquery.Document, error) {
	return c.fetch(ctx, c.baseURL+StatePath(stateName))
}

// Page fetches a page linked from a directory listing. Relative hrefs are
// resolved against the /city/ root. A courtesy delay precedes the request.
func (c *Client) Page(ctx context.Context, href string) (*goquery.Document, error) {
	c.sleep(c.pageDelayMin, c.pageDelayMax)
	u := href
	if !strings.HasPrefix(href, "http://") && !strings.HasPrefix(href, "https://") {
		u = c.baseURL + "/city/" + strings.TrimPrefix(href, "/city/")
	}
	return c.fetch(ctx, u)
}

func (c *Client) fetch(ctx context.Context, rawURL string) (*goquery.Document, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, eris.Wrap(err, "citydata: rate limit")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, eris.Wrap(err, "citydata: build request")
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, eris.Wrap(err, "citydata: request")
	}
	defer resp.Body.Close() //nolint:errcheck

	if resp.StatusCode == http.StatusNotFound {
		return nil, eris.Wrapf(ErrNotFound, "citydata: %s", rawURL)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, eris.Errorf("citydata: unexpected status %d from %s", resp.StatusCode, rawURL)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, eris.Wrap(err, "citydata: parse document")
	}
	return doc, nil
}

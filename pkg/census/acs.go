package census

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/rotisserie/eris"
)

// ACS5 variable codes used by the demographic collector.
const (
	VarTotalPopulation = "B01003_001E"
	VarMedianAge       = "B01002_001E"
)

// CountyACS5 fetches ACS 5-year estimate values for one county and year.
// The returned slice is aligned with the requested variables; values are the
// raw strings the API serves (callers parse and treat failures as nulls).
func (c *Client) CountyACS5(ctx context.Context, year int, variables []string, fipsState, fipsCounty string) ([]string, error) {
	params := url.Values{
		"get": {strings.Join(variables, ",")},
		"for": {"county:" + fipsCounty},
		"in":  {"state:" + fipsState},
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/data/%d/acs/acs5?%s", c.baseURL, year, params.Encode())
	rows, err := c.getRows(ctx, reqURL)
	if err != nil {
		return nil, err
	}
	if len(rows) < 2 {
		return nil, eris.Errorf("census: acs5 response for %s-%s year %d has no data row", fipsState, fipsCounty, year)
	}

	values := rows[1]
	if len(values) < len(variables) {
		return nil, eris.Errorf("census: acs5 row has %d columns, want at least %d", len(values), len(variables))
	}
	return values[:len(variables)], nil
}

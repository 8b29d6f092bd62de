package census

import (
	"context"
	"fmt"
	"net/url"

	"github.com/rotisserie/eris"
)

// County is one entry of a state's county list.
type County struct {
	Name string // e.g. "Orange County, Florida"
	FIPS string // 3-digit county code
}

// Counties fetches the full county list for a state from the 2010 decennial
// summary file. Row shape: NAME, state code, county code.
func (c *Client) Counties(ctx context.Context, fipsState string) ([]County, error) {
	params := url.Values{
		"get": {"NAME"},
		"for": {"county:*"},
		"in":  {"state:" + fipsState},
	}
	if c.apiKey != "" {
		params.Set("key", c.apiKey)
	}

	reqURL := fmt.Sprintf("%s/data/2010/dec/sf1?%s", c.baseURL, params.Encode())
	rows, err := c.getRows(ctx, reqURL)
	if err != nil {
		return nil, err
	}

	counties := make([]County, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) < 3 {
			return nil, eris.Errorf("census: county row has %d columns, want 3", len(row))
		}
		counties = append(counties, County{Name: row[0], FIPS: row[2]})
	}
	return counties, nil
}

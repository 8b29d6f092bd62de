package bls

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTimeseries_Success(t *testing.T) {
	t.Parallel()

	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/publicAPI/v2/timeseries/data/", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = io.WriteString(w, `{
			"status": "REQUEST_SUCCEEDED",
			"Results": {
				"series": [{
					"seriesID": "LAUCN120950000000003",
					"data": [{"year": "2020", "period": "M13", "value": "7.6"}]
				}]
			}
		}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL), WithAPIKey("bls-key"))
	resp, err := c.Timeseries(context.Background(), []string{"LAUCN120950000000003"}, 2020, 2020)
	require.NoError(t, err)

	require.Len(t, resp.Results.Series, 1)
	assert.Equal(t, "LAUCN120950000000003", resp.Results.Series[0].SeriesID)
	require.Len(t, resp.Results.Series[0].Data, 1)
	assert.Equal(t, "7.6", resp.Results.Series[0].Data[0].Value)

	assert.Equal(t, "2020", gotBody["startyear"])
	assert.Equal(t, "2020", gotBody["endyear"])
	assert.Equal(t, "bls-key", gotBody["registrationkey"])
	assert.Equal(t, []any{"LAUCN120950000000003"}, gotBody["seriesid"])
}

func TestTimeseries_RequestFailedStatus(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, `{
			"status": "REQUEST_NOT_PROCESSED",
			"message": ["daily threshold exceeded"]
		}`)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Timeseries(context.Background(), []string{"LAUCN120950000000003"}, 2020, 2020)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REQUEST_NOT_PROCESSED")
}

func TestTimeseries_BatchLimit(t *testing.T) {
	t.Parallel()

	ids := make([]string, MaxSeriesPerRequest+1)
	for i := range ids {
		ids[i] = "LAUCN000000000000003"
	}

	c := NewClient()
	_, err := c.Timeseries(context.Background(), ids, 2020, 2020)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "per-request limit")
}

func TestTimeseries_EmptyBatch(t *testing.T) {
	t.Parallel()

	c := NewClient()
	_, err := c.Timeseries(context.Background(), nil, 2020, 2020)
	assert.Error(t, err)
}

func TestTimeseries_HTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewClient(WithBaseURL(srv.URL))
	_, err := c.Timeseries(context.Background(), []string{"LAUCN120950000000003"}, 2020, 2020)
	assert.Error(t, err)
}

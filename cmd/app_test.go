package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbelt-research/market-cli/internal/config"
	"github.com/sunbelt-research/market-cli/internal/model"
)

func TestParseCityArgs(t *testing.T) {
	t.Parallel()

	got, err := parseCityArgs([]string{"orlando, fl", "Salt Lake City,UT"})
	require.NoError(t, err)
	assert.Equal(t, []model.CityQuery{
		{City: "Orlando", State: "FL"},
		{City: "Salt Lake City", State: "UT"},
	}, got)
}

func TestParseCityArgsInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		arg  string
	}{
		{"no comma", "Orlando FL"},
		{"empty city", ", FL"},
		{"long state", "Orlando, Florida"},
		{"missing state", "Orlando,"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := parseCityArgs([]string{tt.arg})
			require.Error(t, err)
			assert.Contains(t, err.Error(), "invalid city")
		})
	}
}

func TestBuildPipeline(t *testing.T) {
	t.Parallel()

	c := &config.Config{
		CensusAPIKey: "a",
		BLSAPIKey:    "b",
		Census:       config.CensusConfig{BaseURL: "https://api.census.gov", RateLimit: 5},
		BLS:          config.BLSConfig{BaseURL: "https://api.bls.gov", RateLimit: 2, BatchSize: 50, BatchPauseSecs: 1},
		CityData:     config.CityDataConfig{BaseURL: "https://www.city-data.com", RateLimit: 1},
		Output:       config.OutputConfig{Dir: t.TempDir()},
	}

	p, err := buildPipeline(c, false)
	require.NoError(t, err)
	assert.NotNil(t, p.Resolver)
	assert.NotNil(t, p.Demographics)
	assert.NotNil(t, p.Employment)
	assert.NotNil(t, p.Crime)
	assert.NotNil(t, p.Writer)
	assert.False(t, p.Charts)
}

package collect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbelt-research/market-cli/internal/model"
)

func intPtr(v int64) *int64       { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestCAGR(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		start  float64
		end    float64
		years  int
		want   float64
		wantOK bool
	}{
		{name: "doubles over two years", start: 100, end: 200, years: 2, want: 41.42135623730951, wantOK: true},
		{name: "flat", start: 500, end: 500, years: 5, want: 0, wantOK: true},
		{name: "decline", start: 200, end: 100, years: 1, want: -50, wantOK: true},
		{name: "zero start undefined", start: 0, end: 100, years: 2, wantOK: false},
		{name: "negative start undefined", start: -5, end: 100, years: 2, wantOK: false},
		{name: "zero span undefined", start: 100, end: 200, years: 0, wantOK: false},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := CAGR(tt.start, tt.end, tt.years)
			require.Equal(t, tt.wantOK, ok)
			if ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestPopulationTrends(t *testing.T) {
	t.Parallel()

	records := []model.PopulationRecord{
		{Year: 2018, City: "Orlando", State: "FL", County: "Orange County", Population: intPtr(100000)},
		{Year: 2018, City: "Tampa", State: "FL", County: "Hillsborough County", Population: intPtr(200000)},
		{Year: 2019, City: "Orlando", State: "FL", County: "Orange County", Population: nil},
		{Year: 2019, City: "Tampa", State: "FL", County: "Hillsborough County", Population: intPtr(205000)},
		{Year: 2020, City: "Orlando", State: "FL", County: "Orange County", Population: intPtr(121000)},
		{Year: 2020, City: "Tampa", State: "FL", County: "Hillsborough County", Population: intPtr(210000)},
	}

	trend := PopulationTrends(records)
	require.Len(t, trend.Summaries, 2)

	// Orlando: 100000 -> 121000 over two years is 10% CAGR, ahead of Tampa.
	require.NotNil(t, trend.Strongest)
	assert.Equal(t, "Orlando", trend.Strongest.City)
	assert.Equal(t, "Orange County", trend.Strongest.County)
	assert.InDelta(t, 10.0, trend.Strongest.CAGR, 1e-9)
	assert.InDelta(t, 21.0, trend.Strongest.TotalGrowth, 1e-9)
	assert.Equal(t, 2018, trend.Strongest.StartYear)
	assert.Equal(t, 2020, trend.Strongest.EndYear)

	assert.Equal(t, "Tampa", trend.Summaries[1].City)
	assert.InDelta(t, 2.4695076595959931, trend.Summaries[1].CAGR, 1e-9)
}

func TestPopulationTrendsSkipsSparseAreas(t *testing.T) {
	t.Parallel()

	records := []model.PopulationRecord{
		{Year: 2018, City: "Orlando", State: "FL", County: "Orange County", Population: intPtr(100000)},
		{Year: 2019, City: "Orlando", State: "FL", County: "Orange County", Population: nil},
		{Year: 2018, City: "Tampa", State: "FL", County: "Hillsborough County", Population: intPtr(200000)},
		{Year: 2019, City: "Tampa", State: "FL", County: "Hillsborough County", Population: intPtr(205000)},
	}

	trend := PopulationTrends(records)
	require.Len(t, trend.Summaries, 1)
	assert.Equal(t, "Tampa", trend.Summaries[0].City)
}

func TestPopulationTrendsEmpty(t *testing.T) {
	t.Parallel()

	trend := PopulationTrends(nil)
	assert.Empty(t, trend.Summaries)
	assert.Nil(t, trend.Strongest)
}

func TestEmploymentTrends(t *testing.T) {
	t.Parallel()

	records := []model.EmploymentRecord{
		{Year: 2018, City: "Orlando", State: "FL", County: "Orange County",
			UnemploymentRate: floatPtr(4.0), Employed: floatPtr(100000)},
		{Year: 2020, City: "Orlando", State: "FL", County: "Orange County",
			UnemploymentRate: floatPtr(3.0), Employed: floatPtr(110250)},
		{Year: 2018, City: "Tampa", State: "FL", County: "Hillsborough County",
			UnemploymentRate: floatPtr(4.0), Employed: floatPtr(100000)},
		{Year: 2020, City: "Tampa", State: "FL", County: "Hillsborough County",
			UnemploymentRate: floatPtr(5.5), Employed: floatPtr(121000)},
	}

	trend := EmploymentTrends(records)
	require.Len(t, trend.Summaries, 2)

	// Orlando: 5% employment CAGR and a one-point unemployment drop scores
	// 5 - (-1 * 2) = 7. Tampa grows faster but its rising unemployment
	// drags the composite to 10 - (1.5 * 2) = 7 as well; the earlier area
	// keeps the top spot on a tie.
	require.NotNil(t, trend.Strongest)
	assert.Equal(t, "Orlando", trend.Strongest.City)
	assert.InDelta(t, 5.0, trend.Strongest.EmploymentCAGR, 1e-9)
	assert.InDelta(t, -1.0, trend.Strongest.UnemploymentChange, 1e-9)
	assert.InDelta(t, 7.0, trend.Strongest.CompositeScore, 1e-9)
	assert.InDelta(t, 10.25, trend.Strongest.EmploymentGrowth, 1e-9)
	assert.InDelta(t, 100000, trend.Strongest.StartEmployed, 1e-9)
	assert.InDelta(t, 110250, trend.Strongest.EndEmployed, 1e-9)

	assert.Equal(t, "Tampa", trend.Summaries[1].City)
	assert.InDelta(t, 7.0, trend.Summaries[1].CompositeScore, 1e-9)
}

func TestEmploymentTrendsRequiresBothMeasures(t *testing.T) {
	t.Parallel()

	records := []model.EmploymentRecord{
		{Year: 2018, City: "Orlando", State: "FL", County: "Orange County",
			UnemploymentRate: floatPtr(4.0), Employed: floatPtr(100000)},
		// Missing rate: the year cannot anchor either end of the trend.
		{Year: 2019, City: "Orlando", State: "FL", County: "Orange County",
			UnemploymentRate: nil, Employed: floatPtr(105000)},
		{Year: 2020, City: "Orlando", State: "FL", County: "Orange County",
			UnemploymentRate: floatPtr(3.5), Employed: floatPtr(110250)},
	}

	trend := EmploymentTrends(records)
	require.Len(t, trend.Summaries, 1)
	assert.Equal(t, 2018, trend.Summaries[0].StartYear)
	assert.Equal(t, 2020, trend.Summaries[0].EndYear)
	assert.InDelta(t, 5.0, trend.Summaries[0].EmploymentCAGR, 1e-9)

	// Only one complete year left: no trend.
	sparse := EmploymentTrends(records[:2])
	assert.Empty(t, sparse.Summaries)
	assert.Nil(t, sparse.Strongest)
}

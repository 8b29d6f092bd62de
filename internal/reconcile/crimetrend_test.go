package reconcile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbelt-research/market-cli/internal/model"
)

func TestCrimeTrends(t *testing.T) {
	t.Parallel()

	crime := []model.CrimeRecord{
		{City: "Orlando, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2017": "560.0", "2018": "530.2", "2019": "519.6"}},
		{City: "Tampa, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2017": "470.0", "2018": "480.1", "2019": "465.9"}},
		{City: "Orlando, FL", Category: "Murders",
			Years: map[string]string{"2017": "28 (9.9)", "2019": "25 (8.7)"}},
	}

	// The window clips to the requested range: 2018..2019, not 2017.
	trend := CrimeTrends(crime, model.YearRange{Start: 2018, End: 2019}, mergeAreas)
	require.Len(t, trend.Summaries, 2)

	// Tampa's index fell 14.2 points against Orlando's 10.6.
	require.NotNil(t, trend.Strongest)
	assert.Equal(t, "Tampa, FL", trend.Strongest.City)
	assert.Equal(t, "Hillsborough County", trend.Strongest.County)
	assert.Equal(t, "2018", trend.Strongest.StartYear)
	assert.Equal(t, "2019", trend.Strongest.EndYear)
	assert.InDelta(t, 480.1, trend.Strongest.StartIndex, 1e-9)
	assert.InDelta(t, 465.9, trend.Strongest.EndIndex, 1e-9)
	assert.InDelta(t, 14.2, trend.Strongest.Decrease, 1e-9)

	assert.Equal(t, "Orlando, FL", trend.Summaries[1].City)
	assert.InDelta(t, 10.6, trend.Summaries[1].Decrease, 1e-9)
}

func TestCrimeTrendsSkipsUnreadableEndpoints(t *testing.T) {
	t.Parallel()

	crime := []model.CrimeRecord{
		{City: "Orlando, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2018": model.CrimeValueNotFound, "2019": "519.6"}},
	}

	trend := CrimeTrends(crime, model.YearRange{Start: 2018, End: 2019}, mergeAreas)
	assert.Empty(t, trend.Summaries)
	assert.Nil(t, trend.Strongest)
}

func TestCrimeTrendsSingleYearWindow(t *testing.T) {
	t.Parallel()

	crime := []model.CrimeRecord{
		{City: "Orlando, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2019": "519.6"}},
	}

	trend := CrimeTrends(crime, model.YearRange{Start: 2018, End: 2019}, mergeAreas)
	require.Len(t, trend.Summaries, 1)
	assert.Equal(t, "2019", trend.Summaries[0].StartYear)
	assert.Equal(t, "2019", trend.Summaries[0].EndYear)
	assert.InDelta(t, 0, trend.Summaries[0].Decrease, 1e-9)
}

func TestCrimeTrendsNoYearColumns(t *testing.T) {
	t.Parallel()

	crime := []model.CrimeRecord{
		{City: "Orlando, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2009": "700.0"}},
	}

	trend := CrimeTrends(crime, model.YearRange{Start: 2018, End: 2019}, mergeAreas)
	assert.Empty(t, trend.Summaries)
}

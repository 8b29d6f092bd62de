package reconcile

import (
	"sort"
	"strconv"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// CrimeTrends measures each city's crime-index movement between the first
// and last requested years that appear as crime columns. Index rows whose
// endpoint cells have no numeric head are skipped. Summaries come back
// sorted by decrease descending, Strongest pointing at the top row; a
// single-year window yields a zero decrease rather than no trend.
func CrimeTrends(crime []model.CrimeRecord, years model.YearRange, areas []model.TargetArea) *model.CrimeTrend {
	trend := &model.CrimeTrend{}

	present := make(map[string]struct{})
	for _, rec := range crime {
		for year := range rec.Years {
			present[year] = struct{}{}
		}
	}
	var cols []string
	for _, year := range years.Years() {
		name := strconv.Itoa(year)
		if _, ok := present[name]; ok {
			cols = append(cols, name)
		}
	}
	if len(cols) == 0 {
		return trend
	}
	startCol, endCol := cols[0], cols[len(cols)-1]

	for _, rec := range crime {
		if rec.Category != model.CrimeIndexCategory {
			continue
		}
		start := parseLeadingFloat(rec.Years[startCol])
		end := parseLeadingFloat(rec.Years[endCol])
		if start == nil || end == nil {
			continue
		}
		county, ok := SubstringMatcher(rec.City, areas)
		if !ok {
			county = rec.City
		}
		trend.Summaries = append(trend.Summaries, model.CrimeTrendSummary{
			City:       rec.City,
			County:     county,
			StartYear:  startCol,
			EndYear:    endCol,
			StartIndex: *start,
			EndIndex:   *end,
			Decrease:   *start - *end,
		})
	}

	sort.SliceStable(trend.Summaries, func(i, j int) bool {
		return trend.Summaries[i].Decrease > trend.Summaries[j].Decrease
	})
	if len(trend.Summaries) > 0 {
		trend.Strongest = &trend.Summaries[0]
	}
	return trend
}

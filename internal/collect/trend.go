package collect

import (
	"math"
	"sort"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// CAGR returns the compound annual growth rate between start and end as a
// percentage. The second return is false when the rate is undefined, that is
// when start is not positive or the span is zero years.
func CAGR(start, end float64, years int) (float64, bool) {
	if start <= 0 || years <= 0 {
		return 0, false
	}
	return (math.Pow(end/start, 1/float64(years)) - 1) * 100, true
}

// PopulationTrends computes per-area population growth between each area's
// first and last non-null observations. Areas with fewer than two
// observations, or a non-positive starting population, are omitted.
// Summaries come back sorted by CAGR descending and Strongest points at the
// top row; ties keep the earlier area first.
func PopulationTrends(records []model.PopulationRecord) *model.PopulationTrend {
	type areaKey struct{ city, state, county string }

	var order []areaKey
	grouped := make(map[areaKey][]model.PopulationRecord)
	for _, rec := range records {
		key := areaKey{rec.City, rec.State, rec.County}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rec)
	}

	trend := &model.PopulationTrend{}
	for _, key := range order {
		recs := grouped[key]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Year < recs[j].Year })

		var observed []model.PopulationRecord
		for _, rec := range recs {
			if rec.Population != nil {
				observed = append(observed, rec)
			}
		}
		if len(observed) < 2 {
			continue
		}

		first, last := observed[0], observed[len(observed)-1]
		start := float64(*first.Population)
		end := float64(*last.Population)
		cagr, ok := CAGR(start, end, last.Year-first.Year)
		if !ok {
			continue
		}

		trend.Summaries = append(trend.Summaries, model.GrowthSummary{
			City:        key.city,
			State:       key.state,
			County:      key.county,
			StartYear:   first.Year,
			EndYear:     last.Year,
			StartValue:  start,
			EndValue:    end,
			CAGR:        cagr,
			TotalGrowth: (end - start) / start * 100,
		})
	}

	sort.SliceStable(trend.Summaries, func(i, j int) bool {
		return trend.Summaries[i].CAGR > trend.Summaries[j].CAGR
	})
	if len(trend.Summaries) > 0 {
		trend.Strongest = &trend.Summaries[0]
	}
	return trend
}

// EmploymentTrends computes per-area labor-market movement between the first
// and last years where both the employed count and the unemployment rate are
// present. The composite score penalizes a rising unemployment rate at twice
// the weight of employment CAGR. Summaries come back sorted by composite
// score descending with Strongest at the top.
func EmploymentTrends(records []model.EmploymentRecord) *model.EmploymentTrend {
	type areaKey struct{ city, state, county string }

	var order []areaKey
	grouped := make(map[areaKey][]model.EmploymentRecord)
	for _, rec := range records {
		key := areaKey{rec.City, rec.State, rec.County}
		if _, ok := grouped[key]; !ok {
			order = append(order, key)
		}
		grouped[key] = append(grouped[key], rec)
	}

	trend := &model.EmploymentTrend{}
	for _, key := range order {
		recs := grouped[key]
		sort.SliceStable(recs, func(i, j int) bool { return recs[i].Year < recs[j].Year })

		var observed []model.EmploymentRecord
		for _, rec := range recs {
			if rec.Employed != nil && rec.UnemploymentRate != nil {
				observed = append(observed, rec)
			}
		}
		if len(observed) < 2 {
			continue
		}

		first, last := observed[0], observed[len(observed)-1]
		cagr, ok := CAGR(*first.Employed, *last.Employed, last.Year-first.Year)
		if !ok {
			continue
		}

		change := *last.UnemploymentRate - *first.UnemploymentRate
		trend.Summaries = append(trend.Summaries, model.EmploymentSummary{
			City:               key.city,
			State:              key.state,
			County:             key.county,
			StartYear:          first.Year,
			EndYear:            last.Year,
			StartEmployed:      *first.Employed,
			EndEmployed:        *last.Employed,
			EmploymentGrowth:   (*last.Employed - *first.Employed) / *first.Employed * 100,
			EmploymentCAGR:     cagr,
			StartUnemployment:  *first.UnemploymentRate,
			EndUnemployment:    *last.UnemploymentRate,
			UnemploymentChange: change,
			CompositeScore:     cagr - change*2,
		})
	}

	sort.SliceStable(trend.Summaries, func(i, j int) bool {
		return trend.Summaries[i].CompositeScore > trend.Summaries[j].CompositeScore
	})
	if len(trend.Summaries) > 0 {
		trend.Strongest = &trend.Summaries[0]
	}
	return trend
}

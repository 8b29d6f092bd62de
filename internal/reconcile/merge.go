// Package reconcile unifies the collectors' heterogeneously keyed outputs
// into one county-keyed table and derives correlations over it.
package reconcile

import (
	"regexp"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// leadingFloatRe picks the numeric head off a crime cell, separators and all.
var leadingFloatRe = regexp.MustCompile(`^[\d,]+(?:\.\d+)?`)

// Merge reconciles the by-year collector outputs into one row per county.
// Each source is reduced to its most recent year first; the age slice rides
// the population table's latest year so the two stay aligned. Population and
// age seed the table (whichever is non-empty first), employment outer-joins
// on county, and the crime index left-joins so missing crime data never
// drops or duplicates a county row. Absent sources contribute no columns.
//
// Merge is a pure function of its inputs; it performs no I/O. Crime cities
// are attached with the default SubstringMatcher; use MergeWith to supply a
// stricter matcher.
func Merge(population []model.PopulationRecord, ages []model.AgeRecord, employment []model.EmploymentRecord, crime []model.CrimeRecord, areas []model.TargetArea) *model.MergedTable {
	return MergeWith(population, ages, employment, crime, areas, SubstringMatcher)
}

// MergeWith is Merge with an explicit city-to-county matcher.
func MergeWith(population []model.PopulationRecord, ages []model.AgeRecord, employment []model.EmploymentRecord, crime []model.CrimeRecord, areas []model.TargetArea, match CityCountyMatcher) *model.MergedTable {
	table := &model.MergedTable{}
	index := make(map[string]int)

	row := func(county string) int {
		if i, ok := index[county]; ok {
			return i
		}
		index[county] = len(table.Rows)
		table.Rows = append(table.Rows, model.MergedRow{County: county})
		return len(table.Rows) - 1
	}

	popYear, popOK := latestPopulationYear(population)
	if popOK {
		table.Columns = append(table.Columns, model.ColCounty, model.ColPopulation)
		seen := make(map[string]struct{})
		for _, rec := range population {
			if rec.Year != popYear {
				continue
			}
			if _, dup := seen[rec.County]; dup {
				continue
			}
			seen[rec.County] = struct{}{}
			table.Rows[row(rec.County)].Population = rec.Population
		}
	}

	ageYear, ageOK := popYear, popOK
	if !ageOK {
		ageYear, ageOK = latestAgeYear(ages)
	}
	if ageOK && len(ages) > 0 {
		if len(table.Columns) == 0 {
			table.Columns = append(table.Columns, model.ColCounty)
		}
		table.Columns = append(table.Columns, model.ColMedianAge)
		seen := make(map[string]struct{})
		for _, rec := range ages {
			if rec.Year != ageYear {
				continue
			}
			if _, dup := seen[rec.County]; dup {
				continue
			}
			seen[rec.County] = struct{}{}
			table.Rows[row(rec.County)].MedianAge = rec.MedianAge
		}
	}

	if empYear, ok := latestEmploymentYear(employment); ok {
		if len(table.Columns) == 0 {
			table.Columns = append(table.Columns, model.ColCounty)
		}
		table.Columns = append(table.Columns, model.ColUnemploymentRate, model.ColEmployed)
		seen := make(map[string]struct{})
		for _, rec := range employment {
			if rec.Year != empYear {
				continue
			}
			if _, dup := seen[rec.County]; dup {
				continue
			}
			seen[rec.County] = struct{}{}
			i := row(rec.County)
			table.Rows[i].UnemploymentRate = rec.UnemploymentRate
			table.Rows[i].Employed = rec.Employed
		}
	}

	summary, fallbacks := buildCrimeSummary(crime, areas, match)
	table.CrimeSummary = summary
	table.CrimeFallbacks = fallbacks
	if len(summary) > 0 {
		if len(table.Columns) == 0 {
			table.Columns = append(table.Columns, model.ColCounty)
		}
		table.Columns = append(table.Columns, model.ColCrimeIndex)
		if len(index) == 0 {
			// No demographic rows at all: the crime slice becomes the table.
			for _, s := range summary {
				if _, dup := index[s.County]; dup {
					continue
				}
				table.Rows[row(s.County)].CrimeIndex = s.CrimeIndex
			}
		} else {
			// Left join: only counties already present take a value.
			seen := make(map[string]struct{})
			for _, s := range summary {
				i, ok := index[s.County]
				if !ok {
					continue
				}
				if _, dup := seen[s.County]; dup {
					continue
				}
				seen[s.County] = struct{}{}
				table.Rows[i].CrimeIndex = s.CrimeIndex
			}
		}
	}

	return table
}

// buildCrimeSummary reduces crime records to one row per city: the Crime
// Index value of the most recent year column, attached to a county. The most
// recent column is the lexicographic maximum of the year-column names across
// all records. Index rows missing that column are dropped; rows whose value
// does not start with a number keep their city with a null index. Cities
// matching no target area fall back to their raw name standing in as the
// county, and each such case is reported.
func buildCrimeSummary(crime []model.CrimeRecord, areas []model.TargetArea, match CityCountyMatcher) ([]model.CrimeSummaryRow, []model.CrimeFallback) {
	if len(crime) == 0 || areas == nil {
		return nil, nil
	}
	if match == nil {
		match = SubstringMatcher
	}

	latest := ""
	for _, rec := range crime {
		for year := range rec.Years {
			if year > latest {
				latest = year
			}
		}
	}
	if latest == "" {
		return nil, nil
	}

	log := zap.L().With(zap.String("component", "reconcile"))

	var (
		summary   []model.CrimeSummaryRow
		fallbacks []model.CrimeFallback
	)
	for _, rec := range crime {
		if rec.Category != model.CrimeIndexCategory {
			continue
		}
		value, ok := rec.Years[latest]
		if !ok {
			continue
		}

		county, matched := match(rec.City, areas)
		if !matched {
			county = rec.City
			log.Warn("crime city matched no target area, using raw name as county",
				zap.String("city", rec.City))
			fallbacks = append(fallbacks, model.CrimeFallback{City: rec.City, County: county})
		}
		summary = append(summary, model.CrimeSummaryRow{
			City:       rec.City,
			CrimeIndex: parseLeadingFloat(value),
			County:     county,
		})
	}
	return summary, fallbacks
}

// parseLeadingFloat reads the numeric head of a crime cell, "1,234 (56.7)"
// style, returning nil when the cell has no leading number.
func parseLeadingFloat(s string) *float64 {
	m := leadingFloatRe.FindString(strings.TrimSpace(s))
	if m == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return nil
	}
	return &v
}

func latestPopulationYear(records []model.PopulationRecord) (int, bool) {
	year, ok := 0, false
	for _, rec := range records {
		if !ok || rec.Year > year {
			year, ok = rec.Year, true
		}
	}
	return year, ok
}

func latestAgeYear(records []model.AgeRecord) (int, bool) {
	year, ok := 0, false
	for _, rec := range records {
		if !ok || rec.Year > year {
			year, ok = rec.Year, true
		}
	}
	return year, ok
}

func latestEmploymentYear(records []model.EmploymentRecord) (int, bool) {
	year, ok := 0, false
	for _, rec := range records {
		if !ok || rec.Year > year {
			year, ok = rec.Year, true
		}
	}
	return year, ok
}

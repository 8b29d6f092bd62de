package reconcile

import (
	"strings"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// CityCountyMatcher maps a crime-table city name to a target area's county.
// A false return means no area matched; the merge then falls back to the raw
// city name standing in as the county and reports the assignment.
type CityCountyMatcher func(crimeCity string, areas []model.TargetArea) (county string, matched bool)

// SubstringMatcher is the default heuristic: a city matches an area when
// either name contains the other, ignoring case, and the first area in order
// wins. There is no scoring, so "Springfield" happily matches whichever
// Springfield-like area comes first. Swap in a stricter matcher via MergeWith
// when that is not acceptable.
func SubstringMatcher(crimeCity string, areas []model.TargetArea) (string, bool) {
	lower := strings.ToLower(crimeCity)
	for _, area := range areas {
		city := strings.ToLower(area.City)
		if city == "" {
			continue
		}
		if strings.Contains(lower, city) || strings.Contains(city, lower) {
			return area.County, true
		}
	}
	return "", false
}

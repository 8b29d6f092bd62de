package collect

import (
	"context"
	"strconv"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/pkg/census"
)

// minACSYear is the first year the Census Bureau publishes ACS 5-year
// estimates for. Earlier years in the requested range are skipped.
const minACSYear = 2009

// DemographicCollector pulls county population and median age from the ACS
// 5-year estimates, one request per resolved area per year.
type DemographicCollector struct {
	client *census.Client
}

// NewDemographicCollector returns a collector backed by the given Census
// client.
func NewDemographicCollector(client *census.Client) *DemographicCollector {
	return &DemographicCollector{client: client}
}

// Collect fetches population and median-age records for every resolved area
// across the year range, year by year. Areas without a county FIPS are
// skipped entirely. A failed request or an unparseable response yields null
// placeholder records for that area and year so downstream joins keep their
// shape. Only context cancellation aborts the sweep.
func (c *DemographicCollector) Collect(ctx context.Context, areas []model.TargetArea, years model.YearRange) ([]model.PopulationRecord, []model.AgeRecord, error) {
	log := zap.L().With(zap.String("component", "demographics"))

	var (
		population []model.PopulationRecord
		ages       []model.AgeRecord
	)
	variables := []string{census.VarTotalPopulation, census.VarMedianAge}

	for _, year := range years.Years() {
		if year < minACSYear {
			log.Warn("acs 5-year estimates unavailable, skipping year", zap.Int("year", year))
			continue
		}

		for _, area := range areas {
			if !area.Resolved() {
				log.Warn("no county fips, skipping area",
					zap.String("city", area.City),
					zap.String("state", area.State))
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, nil, eris.Wrap(err, "demographics: collection aborted")
			}

			values, err := c.client.CountyACS5(ctx, year, variables, area.FIPSState, area.FIPSCounty)
			pop, age, parseErr := parseACSValues(values)
			if err == nil {
				err = parseErr
			}
			if err != nil {
				if ctx.Err() != nil {
					return nil, nil, eris.Wrap(err, "demographics: collection aborted")
				}
				log.Warn("census fetch failed, recording nulls",
					zap.String("city", area.City),
					zap.String("state", area.State),
					zap.Int("year", year),
					zap.Error(err))
				pop, age = nil, nil
			}

			population = append(population, model.PopulationRecord{
				Year:       year,
				City:       area.City,
				State:      area.State,
				County:     area.County,
				Population: pop,
			})
			ages = append(ages, model.AgeRecord{
				Year:      year,
				City:      area.City,
				State:     area.State,
				County:    area.County,
				MedianAge: age,
			})
		}
	}
	return population, ages, nil
}

// parseACSValues decodes the population and median-age columns. Both values
// must parse; a single bad column voids the pair.
func parseACSValues(values []string) (*int64, *float64, error) {
	if len(values) < 2 {
		return nil, nil, nil
	}
	pop, err := strconv.ParseInt(values[0], 10, 64)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "demographics: bad population value %q", values[0])
	}
	age, err := strconv.ParseFloat(values[1], 64)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "demographics: bad median age value %q", values[1])
	}
	return &pop, &age, nil
}

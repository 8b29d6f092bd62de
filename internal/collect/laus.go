package collect

import (
	"context"
	"strconv"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sunbelt-research/market-cli/internal/geo"
	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/pkg/bls"
)

// LAUS series IDs are LAUCN<state><county> plus a ten-digit measure suffix.
const (
	seriesPrefix       = "LAUCN"
	suffixUnemployment = "0000000003"
	suffixEmployed     = "0000000005"
)

// defaultBatchPause spaces consecutive requests within one year's sweep.
const defaultBatchPause = time.Second

// EmploymentCollector pulls county unemployment rate and employment level
// from the BLS LAUS program, one batched request sweep per year.
type EmploymentCollector struct {
	client    *bls.Client
	batchSize int
	pause     time.Duration
}

// NewEmploymentCollector returns a collector backed by the given BLS client.
// Non-positive batchSize or pause fall back to the API's per-request series
// limit and a one-second pause.
func NewEmploymentCollector(client *bls.Client, batchSize int, pause time.Duration) *EmploymentCollector {
	if batchSize <= 0 || batchSize > bls.MaxSeriesPerRequest {
		batchSize = bls.MaxSeriesPerRequest
	}
	if pause <= 0 {
		pause = defaultBatchPause
	}
	return &EmploymentCollector{client: client, batchSize: batchSize, pause: pause}
}

// Collect fetches both LAUS measures for every resolved area across the year
// range. Each year is requested on its own, split into series batches with a
// pause between consecutive batches. An area appears in the result for a
// given year only when at least one of its measures came back; the missing
// measure stays null. A failed batch drops its series for that year with a
// warning. Only context cancellation aborts the sweep.
func (c *EmploymentCollector) Collect(ctx context.Context, areas []model.TargetArea, years model.YearRange) ([]model.EmploymentRecord, error) {
	log := zap.L().With(zap.String("component", "employment"))

	var valid []model.TargetArea
	for _, area := range areas {
		if !area.Resolved() {
			log.Warn("no county fips, skipping area",
				zap.String("city", area.City),
				zap.String("state", area.State))
			continue
		}
		valid = append(valid, area)
	}
	if len(valid) == 0 {
		log.Warn("no resolved areas for laus retrieval")
		return nil, nil
	}

	// Series IDs and their owners are the same every year.
	ids := make([]string, 0, len(valid)*2)
	type seriesKey struct {
		area    int
		measure string
	}
	owners := make(map[string]seriesKey, len(valid)*2)
	for i, area := range valid {
		code := seriesPrefix + geo.CombineFIPS(area.FIPSState, area.FIPSCounty)
		ids = append(ids, code+suffixUnemployment, code+suffixEmployed)
		owners[code+suffixUnemployment] = seriesKey{area: i, measure: suffixUnemployment}
		owners[code+suffixEmployed] = seriesKey{area: i, measure: suffixEmployed}
	}

	var records []model.EmploymentRecord
	for _, year := range years.Years() {
		rates := make([]*float64, len(valid))
		employed := make([]*float64, len(valid))

		for start := 0; start < len(ids); start += c.batchSize {
			if err := ctx.Err(); err != nil {
				return nil, eris.Wrap(err, "employment: collection aborted")
			}

			end := start + c.batchSize
			if end > len(ids) {
				end = len(ids)
			}
			resp, err := c.client.Timeseries(ctx, ids[start:end], year, year)
			if err != nil {
				if ctx.Err() != nil {
					return nil, eris.Wrap(err, "employment: collection aborted")
				}
				log.Warn("bls batch failed, dropping its series",
					zap.Int("year", year),
					zap.Int("batch_start", start),
					zap.Error(err))
			} else {
				for _, series := range resp.Results.Series {
					key, ok := owners[series.SeriesID]
					if !ok || len(series.Data) == 0 {
						continue
					}
					value, perr := strconv.ParseFloat(series.Data[0].Value, 64)
					if perr != nil {
						log.Warn("unparseable laus value",
							zap.String("series", series.SeriesID),
							zap.String("value", series.Data[0].Value))
						continue
					}
					switch key.measure {
					case suffixUnemployment:
						rates[key.area] = &value
					case suffixEmployed:
						employed[key.area] = &value
					}
				}
			}

			if end < len(ids) {
				clock.Sleep(c.pause)
			}
		}

		for i, area := range valid {
			if rates[i] == nil && employed[i] == nil {
				continue
			}
			records = append(records, model.EmploymentRecord{
				Year:             year,
				City:             area.City,
				State:            area.State,
				County:           area.County,
				UnemploymentRate: rates[i],
				Employed:         employed[i],
			})
		}
	}
	return records, nil
}

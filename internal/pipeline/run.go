// Package pipeline sequences one full analysis run: resolve the requested
// cities, collect each source in turn, reconcile, and write the artifacts.
// Stages run strictly one after another and hand their outputs forward by
// value.
package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/sunbelt-research/market-cli/internal/chart"
	"github.com/sunbelt-research/market-cli/internal/collect"
	"github.com/sunbelt-research/market-cli/internal/geo"
	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/internal/reconcile"
	"github.com/sunbelt-research/market-cli/internal/report"
)

var titleCaser = cases.Title(language.AmericanEnglish)

// Pipeline wires the stages of a run. All fields are required except Charts,
// which skips visualization rendering when false.
type Pipeline struct {
	Resolver     *geo.Resolver
	Demographics *collect.DemographicCollector
	Employment   *collect.EmploymentCollector
	Crime        *collect.CrimeCollector
	Writer       *report.Writer
	Charts       bool
}

// Result is everything a run produced, manifest included.
type Result struct {
	Manifest   *model.RunManifest
	Areas      []model.TargetArea
	Table      *model.MergedTable
	Matrix     *model.CorrelationMatrix
	Population *model.PopulationTrend
	Employment *model.EmploymentTrend
	Crime      *model.CrimeTrend
}

// NormalizeCities cleans raw user input: trimmed, title-cased city names and
// upper-cased state codes.
func NormalizeCities(queries []model.CityQuery) []model.CityQuery {
	out := make([]model.CityQuery, 0, len(queries))
	for _, q := range queries {
		out = append(out, model.CityQuery{
			City:  titleCaser.String(strings.ToLower(strings.TrimSpace(q.City))),
			State: strings.ToUpper(strings.TrimSpace(q.State)),
		})
	}
	return out
}

// Run executes the full sequence for the given cities and years. A failed
// city resolution aborts the run; collector failures degrade to null data and
// the run keeps going. Artifacts are written as stages complete, the manifest
// last.
func (p *Pipeline) Run(ctx context.Context, cities []model.CityQuery, years model.YearRange) (*Result, error) {
	log := zap.L().With(zap.String("component", "pipeline"))

	manifest := &model.RunManifest{
		ID:        uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Cities:    cities,
		Years:     years,
	}
	log.Info("starting run",
		zap.String("run_id", manifest.ID),
		zap.Int("cities", len(cities)),
		zap.Int("start_year", years.Start),
		zap.Int("end_year", years.End))

	areas := make([]model.TargetArea, 0, len(cities))
	for _, q := range cities {
		area, err := p.Resolver.Resolve(ctx, q.City, q.State)
		if err != nil {
			return nil, err
		}
		areas = append(areas, area)
	}
	manifest.Areas = areas

	population, ages, err := p.Demographics.Collect(ctx, areas, years)
	if err != nil {
		return nil, err
	}
	popTrend := collect.PopulationTrends(population)

	employment, err := p.Employment.Collect(ctx, areas, years)
	if err != nil {
		return nil, err
	}
	empTrend := collect.EmploymentTrends(employment)

	crimeResult, err := p.Crime.Collect(ctx, cities)
	if err != nil {
		return nil, err
	}
	manifest.UnmatchedCrimeCities = crimeResult.Unmatched

	table := reconcile.Merge(population, ages, employment, crimeResult.Records, areas)
	matrix := reconcile.Correlate(table)
	crimeTrend := reconcile.CrimeTrends(crimeResult.Records, years, areas)
	manifest.CrimeFallbacks = table.CrimeFallbacks

	if err := p.write(population, ages, employment, crimeResult, table, matrix, popTrend, empTrend, crimeTrend); err != nil {
		return nil, err
	}

	if p.Charts {
		charts, err := chart.Render(table, matrix, p.Writer.VisualizationsDir())
		if err != nil {
			return nil, err
		}
		for _, f := range charts {
			manifest.Artifacts = append(manifest.Artifacts, "visualizations/"+f)
		}
	}

	manifest.FinishedAt = time.Now().UTC()
	manifest.Artifacts = append(p.Writer.Written(), manifest.Artifacts...)
	if err := p.Writer.WriteManifest(manifest); err != nil {
		return nil, err
	}

	log.Info("run complete",
		zap.String("run_id", manifest.ID),
		zap.Int("areas", len(areas)),
		zap.Int("counties", len(table.Rows)),
		zap.Int("artifacts", len(manifest.Artifacts)))

	return &Result{
		Manifest:   manifest,
		Areas:      areas,
		Table:      table,
		Matrix:     matrix,
		Population: popTrend,
		Employment: empTrend,
		Crime:      crimeTrend,
	}, nil
}

func (p *Pipeline) write(
	population []model.PopulationRecord,
	ages []model.AgeRecord,
	employment []model.EmploymentRecord,
	crimeResult *collect.CrimeResult,
	table *model.MergedTable,
	matrix *model.CorrelationMatrix,
	popTrend *model.PopulationTrend,
	empTrend *model.EmploymentTrend,
	crimeTrend *model.CrimeTrend,
) error {
	steps := []func() error{
		func() error { return p.Writer.WritePopulationByYear(population) },
		func() error { return p.Writer.WriteAgeByYear(ages) },
		func() error { return p.Writer.WriteEmploymentByYear(employment) },
		func() error { return p.Writer.WriteGrowthAnalysis(popTrend) },
		func() error { return p.Writer.WriteEmploymentAnalysis(empTrend) },
		func() error { return p.Writer.WriteCrimeData(crimeResult.Records) },
		func() error { return p.Writer.WriteCrimeSummary(table.CrimeSummary) },
		func() error { return p.Writer.WriteMergedTable(table) },
		func() error {
			if matrix == nil {
				return nil
			}
			return p.Writer.WriteCorrelationMatrix(matrix)
		},
		func() error { return p.Writer.WriteSnapshots(table) },
		func() error {
			return p.Writer.WriteTextReport(report.Summary{
				Table:      table,
				Matrix:     matrix,
				Population: popTrend,
				Employment: empTrend,
				Crime:      crimeTrend,
			})
		},
		func() error {
			return p.Writer.WriteWorkbook(table, population, ages, employment, crimeResult.Records)
		},
	}
	for _, step := range steps {
		if err := step(); err != nil {
			return eris.Wrap(err, "pipeline: write artifacts")
		}
	}
	return nil
}

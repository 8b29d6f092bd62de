// Package chart renders the merged demographic table as interactive plotly
// HTML pages: a bar chart per metric, metric-vs-crime scatters, and a
// correlation heatmap.
package chart

import (
	"math"
	"os"
	"path/filepath"

	grob "github.com/MetalBlueberry/go-plotly/graph_objects"
	"github.com/MetalBlueberry/go-plotly/offline"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// Rendered chart filenames.
const (
	FilePopulationChart     = "population_by_county.html"
	FileMedianAgeChart      = "median_age_by_county.html"
	FileUnemploymentChart   = "unemployment_rate_by_county.html"
	FileCrimeChart          = "crime_index_by_county.html"
	FilePopulationVsCrime   = "population_vs_crime.html"
	FileUnemploymentVsCrime = "unemployment_vs_crime.html"
	FileAgeVsCrime          = "age_vs_crime.html"
	FileCorrelationHeatmap  = "correlation_heatmap.html"
)

type barSpec struct {
	column string
	file   string
	title  string
	yLabel string
}

type scatterSpec struct {
	column string
	file   string
	title  string
	xLabel string
}

var barSpecs = []barSpec{
	{model.ColPopulation, FilePopulationChart, "Population Distribution by County", "Population"},
	{model.ColMedianAge, FileMedianAgeChart, "Median Age by County", "Median Age"},
	{model.ColUnemploymentRate, FileUnemploymentChart, "Unemployment Rate by County", "Unemployment Rate (%)"},
	{model.ColCrimeIndex, FileCrimeChart, "Crime Index by County", "Crime Index"},
}

var scatterSpecs = []scatterSpec{
	{model.ColPopulation, FilePopulationVsCrime, "Population vs Crime Index", "Population"},
	{model.ColUnemploymentRate, FileUnemploymentVsCrime, "Unemployment Rate vs Crime Index", "Unemployment Rate (%)"},
	{model.ColMedianAge, FileAgeVsCrime, "Median Age vs Crime Index", "Median Age"},
}

// Render writes one HTML page per chart the table's columns can support.
// Counties with a null cell are left off the charts that need that cell, and
// a chart whose every point is null is not written at all. It returns the
// filenames written, relative to dir, in render order.
func Render(table *model.MergedTable, matrix *model.CorrelationMatrix, dir string) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, eris.Wrapf(err, "chart: create %s", dir)
	}

	var written []string
	for _, spec := range barSpecs {
		if !table.HasColumn(spec.column) {
			continue
		}
		counties, values := columnSeries(table.Rows, spec.column)
		if len(values) == 0 {
			continue
		}
		offline.ToHtml(barFig(spec, counties, values), filepath.Join(dir, spec.file))
		written = append(written, spec.file)
	}

	if table.HasColumn(model.ColCrimeIndex) {
		for _, spec := range scatterSpecs {
			if !table.HasColumn(spec.column) {
				continue
			}
			counties, xs, ys := pairSeries(table.Rows, spec.column, model.ColCrimeIndex)
			if len(xs) == 0 {
				continue
			}
			offline.ToHtml(scatterFig(spec, counties, xs, ys), filepath.Join(dir, spec.file))
			written = append(written, spec.file)
		}
	}

	if matrix != nil {
		offline.ToHtml(heatmapFig(matrix), filepath.Join(dir, FileCorrelationHeatmap))
		written = append(written, FileCorrelationHeatmap)
	}

	zap.L().Info("rendered visualizations",
		zap.String("dir", dir),
		zap.Int("charts", len(written)))
	return written, nil
}

// columnSeries returns county labels and values for the rows where the
// column is non-null.
func columnSeries(rows []model.MergedRow, col string) ([]string, []float64) {
	var counties []string
	var values []float64
	for _, row := range rows {
		if v, ok := row.Value(col); ok {
			counties = append(counties, row.County)
			values = append(values, v)
		}
	}
	return counties, values
}

// pairSeries returns county labels plus x/y values for the rows where both
// columns are non-null.
func pairSeries(rows []model.MergedRow, xCol, yCol string) ([]string, []float64, []float64) {
	var counties []string
	var xs, ys []float64
	for _, row := range rows {
		x, okX := row.Value(xCol)
		y, okY := row.Value(yCol)
		if !okX || !okY {
			continue
		}
		counties = append(counties, row.County)
		xs = append(xs, x)
		ys = append(ys, y)
	}
	return counties, xs, ys
}

func barFig(spec barSpec, counties []string, values []float64) *grob.Fig {
	fig := &grob.Fig{}
	fig.Layout = &grob.Layout{
		Title: &grob.LayoutTitle{Text: spec.title},
		Xaxis: &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: "County"}},
		Yaxis: &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: spec.yLabel}},
	}
	fig.AddTraces(&grob.Bar{X: counties, Y: values})
	return fig
}

func scatterFig(spec scatterSpec, counties []string, xs, ys []float64) *grob.Fig {
	fig := &grob.Fig{}
	fig.Layout = &grob.Layout{
		Title: &grob.LayoutTitle{Text: spec.title},
		Xaxis: &grob.LayoutXaxis{Title: &grob.LayoutXaxisTitle{Text: spec.xLabel}},
		Yaxis: &grob.LayoutYaxis{Title: &grob.LayoutYaxisTitle{Text: "Crime Index"}},
	}
	fig.AddTraces(&grob.Scatter{
		X:    xs,
		Y:    ys,
		Mode: grob.ScatterModeMarkers,
		Text: counties,
	})
	return fig
}

func heatmapFig(matrix *model.CorrelationMatrix) *grob.Fig {
	fig := &grob.Fig{}
	fig.Layout = &grob.Layout{
		Title: &grob.LayoutTitle{Text: "Correlation Heatmap"},
	}
	fig.AddTraces(&grob.Heatmap{
		X: matrix.Columns,
		Y: matrix.Columns,
		Z: heatmapZ(matrix.Values),
	})
	return fig
}

// heatmapZ rewrites NaN cells as nulls; NaN is not representable in the
// figure's JSON payload.
func heatmapZ(values [][]float64) [][]interface{} {
	z := make([][]interface{}, len(values))
	for i, row := range values {
		z[i] = make([]interface{}, len(row))
		for j, v := range row {
			if math.IsNaN(v) {
				z[i][j] = nil
			} else {
				z[i][j] = v
			}
		}
	}
	return z
}

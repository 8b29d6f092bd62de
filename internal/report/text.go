package report

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// reportPrinter renders grouped numbers ("1,459,762") in the text report.
var reportPrinter = message.NewPrinter(language.English)

// Summary bundles everything the text report draws on. Nil trends and a nil
// matrix simply omit their sections.
type Summary struct {
	Table      *model.MergedTable
	Matrix     *model.CorrelationMatrix
	Population *model.PopulationTrend
	Employment *model.EmploymentTrend
	Crime      *model.CrimeTrend
}

// WriteTextReport renders the human-readable analysis summary at the output
// root: the per-county demographic rundown, extremes and correlation
// callouts, general observations, and the strongest-market picks.
func (w *Writer) WriteTextReport(s Summary) error {
	var b strings.Builder

	b.WriteString("DEMOGRAPHIC AND CRIME DATA ANALYSIS REPORT\n")
	b.WriteString("==========================================\n\n")

	b.WriteString("1. DEMOGRAPHIC SUMMARY\n")
	b.WriteString("-----------------------\n")
	for _, row := range s.Table.Rows {
		fmt.Fprintf(&b, "County: %s\n", row.County)
		if row.Population != nil {
			reportPrinter.Fprintf(&b, "  Population: %d\n", *row.Population)
		}
		if row.MedianAge != nil {
			fmt.Fprintf(&b, "  Median Age: %.1f years\n", *row.MedianAge)
		}
		if row.UnemploymentRate != nil {
			fmt.Fprintf(&b, "  Unemployment Rate: %.1f%%\n", *row.UnemploymentRate)
		}
		if row.Employed != nil {
			reportPrinter.Fprintf(&b, "  Employed Population: %.0f\n", *row.Employed)
		}
		if row.CrimeIndex != nil {
			fmt.Fprintf(&b, "  Crime Index: %.1f\n", *row.CrimeIndex)
		}
		b.WriteString("\n")
	}

	b.WriteString("\n2. KEY FINDINGS\n")
	b.WriteString("-----------------\n")
	writeExtremes(&b, s.Table)
	writeCorrelationInsights(&b, s.Matrix)

	b.WriteString("\n3. OBSERVATIONS\n")
	b.WriteString("----------------\n")
	b.WriteString("- Population density may influence crime rates in certain areas\n")
	b.WriteString("- Economic factors (employment) appear to correlate with crime statistics\n")
	b.WriteString("- Age demographics show varying patterns across counties\n")

	writeStrongestMarkets(&b, s)

	path := filepath.Join(w.root, FileTextReport)
	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return eris.Wrap(err, "report: create output root")
	}
	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	w.record(path)
	return nil
}

// writeExtremes lists the highest and lowest county for each metric that has
// at least one value; the first county wins a tie, matching row order.
func writeExtremes(b *strings.Builder, table *model.MergedTable) {
	if table.HasColumn(model.ColCrimeIndex) {
		high, low, ok := extremeRows(table.Rows, model.ColCrimeIndex)
		if ok {
			fmt.Fprintf(b, "Highest Crime Area: %s (Index: %.1f)\n", high.County, *high.CrimeIndex)
			fmt.Fprintf(b, "Lowest Crime Area: %s (Index: %.1f)\n\n", low.County, *low.CrimeIndex)
		}
	}
	if table.HasColumn(model.ColPopulation) {
		high, low, ok := extremeRows(table.Rows, model.ColPopulation)
		if ok {
			reportPrinter.Fprintf(b, "Most Populated: %s (%d)\n", high.County, *high.Population)
			reportPrinter.Fprintf(b, "Least Populated: %s (%d)\n\n", low.County, *low.Population)
		}
	}
	if table.HasColumn(model.ColUnemploymentRate) {
		high, low, ok := extremeRows(table.Rows, model.ColUnemploymentRate)
		if ok {
			fmt.Fprintf(b, "Highest Unemployment: %s (%.1f%%)\n", high.County, *high.UnemploymentRate)
			fmt.Fprintf(b, "Lowest Unemployment: %s (%.1f%%)\n\n", low.County, *low.UnemploymentRate)
		}
	}
}

// extremeRows returns the rows holding the maximum and minimum of a column,
// ignoring nulls; ok is false when no row has the column at all.
func extremeRows(rows []model.MergedRow, col string) (high, low model.MergedRow, ok bool) {
	var hi, lo float64
	for _, row := range rows {
		v, has := row.Value(col)
		if !has {
			continue
		}
		if !ok {
			high, low, hi, lo, ok = row, row, v, v, true
			continue
		}
		if v > hi {
			high, hi = row, v
		}
		if v < lo {
			low, lo = row, v
		}
	}
	return high, low, ok
}

func writeCorrelationInsights(b *strings.Builder, matrix *model.CorrelationMatrix) {
	if matrix == nil {
		return
	}
	b.WriteString("CORRELATION INSIGHTS:\n")

	insight := func(col, label, subjects string) {
		corr, ok := matrix.At(col, model.ColCrimeIndex)
		if !ok {
			return
		}
		fmt.Fprintf(b, "- %s vs Crime Index correlation: %.2f\n", label, corr)
		if math.Abs(corr) > 0.5 {
			direction := "positively"
			if corr < 0 {
				direction = "negatively"
			}
			fmt.Fprintf(b, "  -> %s are %s correlated\n", subjects, direction)
		}
	}
	insight(model.ColPopulation, "Population", "Population and crime")
	insight(model.ColUnemploymentRate, "Unemployment Rate", "Unemployment and crime")
	insight(model.ColMedianAge, "Median Age", "Age demographics and crime")
}

func writeStrongestMarkets(b *strings.Builder, s Summary) {
	var (
		pop *model.GrowthSummary
		emp *model.EmploymentSummary
		cri *model.CrimeTrendSummary
	)
	if s.Population != nil {
		pop = s.Population.Strongest
	}
	if s.Employment != nil {
		emp = s.Employment.Strongest
	}
	if s.Crime != nil {
		cri = s.Crime.Strongest
	}
	if pop == nil && emp == nil && cri == nil {
		return
	}

	b.WriteString("\n4. STRONGEST MARKETS\n")
	b.WriteString("--------------------\n")
	if pop != nil {
		fmt.Fprintf(b, "Strongest Market (by population growth): %s (%s)\n", pop.City, pop.County)
		fmt.Fprintf(b, "  CAGR: %.2f%%\n", pop.CAGR)
		fmt.Fprintf(b, "  Total Growth: %.2f%%\n", pop.TotalGrowth)
	}
	if emp != nil {
		fmt.Fprintf(b, "Strongest Employment Market: %s (%s)\n", emp.City, emp.County)
		fmt.Fprintf(b, "  Employment CAGR: %.2f%%\n", emp.EmploymentCAGR)
		fmt.Fprintf(b, "  Unemployment Change: %.2f%%\n", emp.UnemploymentChange)
		fmt.Fprintf(b, "  Composite Score: %.2f\n", emp.CompositeScore)
	}
	if cri != nil {
		fmt.Fprintf(b, "Strongest Market (by crime index decrease): %s\n", cri.City)
		fmt.Fprintf(b, "  Crime Index %s: %s\n", cri.StartYear,
			strconv.FormatFloat(cri.StartIndex, 'f', -1, 64))
		fmt.Fprintf(b, "  Crime Index %s: %s\n", cri.EndYear,
			strconv.FormatFloat(cri.EndIndex, 'f', -1, 64))
		fmt.Fprintf(b, "  Decrease: %.2f\n", cri.Decrease)
	}
}

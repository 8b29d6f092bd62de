// Package report renders a run's outputs as flat files: CSV snapshots under
// work/, a plain-text summary, an Excel workbook, and a JSON manifest. Files
// are write-only artifacts; nothing here is ever read back by the pipeline.
package report

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// Work-directory snapshot filenames.
const (
	FilePopulationByYear   = "population_data_by_year.csv"
	FileAgeByYear          = "age_data_by_year.csv"
	FileEmploymentByYear   = "employment_data_by_year.csv"
	FileGrowthAnalysis     = "population_growth_analysis.csv"
	FileEmploymentAnalysis = "employment_trend_analysis.csv"
	FilePopulationSnapshot = "population_data.csv"
	FileAgeSnapshot        = "age_data.csv"
	FileEmploymentSnapshot = "employment_data.csv"
	FileCrimeData          = "crime_data.csv"
	FileCrimeSummary       = "crime_summary.csv"
	FileMergedTable        = "demographic_data.csv"
	FileCorrelationMatrix  = "correlation_matrix.csv"
	FileTextReport         = "analysis_report.txt"
	FileWorkbook           = "market_analysis.xlsx"
	FileManifest           = "run.json"

	workDirName           = "work"
	visualizationsDirName = "visualizations"
)

// Writer renders snapshots under a single output root: CSVs in root/work,
// the report, workbook, and manifest at the root itself.
type Writer struct {
	root string

	written []string
}

// NewWriter returns a writer rooted at dir. Directories are created lazily
// on first write.
func NewWriter(dir string) *Writer {
	return &Writer{root: dir}
}

// Root returns the output root directory.
func (w *Writer) Root() string { return w.root }

// WorkDir returns the snapshot directory under the root.
func (w *Writer) WorkDir() string { return filepath.Join(w.root, workDirName) }

// VisualizationsDir returns the chart directory under the root.
func (w *Writer) VisualizationsDir() string { return filepath.Join(w.root, visualizationsDirName) }

// Written lists the paths produced so far, relative to the root, in write
// order.
func (w *Writer) Written() []string {
	out := make([]string, len(w.written))
	copy(out, w.written)
	return out
}

func (w *Writer) record(path string) {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		rel = path
	}
	w.written = append(w.written, rel)
}

func (w *Writer) writeCSV(path string, rows [][]string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return eris.Wrapf(err, "report: create dir for %s", path)
	}
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "report: create %s", path)
	}
	defer f.Close() //nolint:errcheck

	cw := csv.NewWriter(f)
	if err := cw.WriteAll(rows); err != nil {
		return eris.Wrapf(err, "report: write %s", path)
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return eris.Wrapf(err, "report: flush %s", path)
	}
	w.record(path)
	return nil
}

// WritePopulationByYear snapshots every per-year population record.
func (w *Writer) WritePopulationByYear(records []model.PopulationRecord) error {
	rows := [][]string{{"Year", "City", "State", "County", "Population"}}
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Year), rec.City, rec.State, rec.County, formatInt(rec.Population),
		})
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FilePopulationByYear), rows)
}

// WriteAgeByYear snapshots every per-year median-age record.
func (w *Writer) WriteAgeByYear(records []model.AgeRecord) error {
	rows := [][]string{{"Year", "City", "State", "County", "Median_Age"}}
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Year), rec.City, rec.State, rec.County, formatFloat(rec.MedianAge),
		})
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileAgeByYear), rows)
}

// WriteEmploymentByYear snapshots every per-year labor-market record.
func (w *Writer) WriteEmploymentByYear(records []model.EmploymentRecord) error {
	rows := [][]string{{"Year", "City", "State", "County", "unemployment_rate", "employed"}}
	for _, rec := range records {
		rows = append(rows, []string{
			strconv.Itoa(rec.Year), rec.City, rec.State, rec.County,
			formatFloat(rec.UnemploymentRate), formatFloat(rec.Employed),
		})
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileEmploymentByYear), rows)
}

// WriteGrowthAnalysis snapshots per-area population growth, strongest first.
func (w *Writer) WriteGrowthAnalysis(trend *model.PopulationTrend) error {
	rows := [][]string{{"City", "State", "County", "Start_Population", "End_Population",
		"Total_Growth_Pct", "CAGR_Pct", "Years_Analyzed"}}
	for _, s := range trend.Summaries {
		rows = append(rows, []string{
			s.City, s.State, s.County,
			strconv.FormatFloat(s.StartValue, 'f', -1, 64),
			strconv.FormatFloat(s.EndValue, 'f', -1, 64),
			strconv.FormatFloat(s.TotalGrowth, 'f', -1, 64),
			strconv.FormatFloat(s.CAGR, 'f', -1, 64),
			strconv.Itoa(s.EndYear - s.StartYear),
		})
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileGrowthAnalysis), rows)
}

// WriteEmploymentAnalysis snapshots per-area labor trends, strongest first.
func (w *Writer) WriteEmploymentAnalysis(trend *model.EmploymentTrend) error {
	rows := [][]string{{"City", "State", "County", "Start_Employed", "End_Employed",
		"Employment_Growth_Pct", "Employment_CAGR_Pct", "Start_Unemployment_Rate",
		"End_Unemployment_Rate", "Unemployment_Change", "Composite_Score", "Years_Analyzed"}}
	for _, s := range trend.Summaries {
		rows = append(rows, []string{
			s.City, s.State, s.County,
			strconv.FormatFloat(s.StartEmployed, 'f', -1, 64),
			strconv.FormatFloat(s.EndEmployed, 'f', -1, 64),
			strconv.FormatFloat(s.EmploymentGrowth, 'f', -1, 64),
			strconv.FormatFloat(s.EmploymentCAGR, 'f', -1, 64),
			strconv.FormatFloat(s.StartUnemployment, 'f', -1, 64),
			strconv.FormatFloat(s.EndUnemployment, 'f', -1, 64),
			strconv.FormatFloat(s.UnemploymentChange, 'f', -1, 64),
			strconv.FormatFloat(s.CompositeScore, 'f', -1, 64),
			strconv.Itoa(s.EndYear - s.StartYear),
		})
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileEmploymentAnalysis), rows)
}

// WriteSnapshots renders the single-year compatibility slices out of the
// merged table: county/population, county/median age, and county/employment
// files, each written only when the merge populated its columns.
func (w *Writer) WriteSnapshots(table *model.MergedTable) error {
	if table.HasColumn(model.ColPopulation) {
		rows := [][]string{{model.ColCounty, model.ColPopulation}}
		for _, r := range table.Rows {
			rows = append(rows, []string{r.County, formatInt(r.Population)})
		}
		if err := w.writeCSV(filepath.Join(w.WorkDir(), FilePopulationSnapshot), rows); err != nil {
			return err
		}
	}
	if table.HasColumn(model.ColMedianAge) {
		rows := [][]string{{model.ColCounty, model.ColMedianAge}}
		for _, r := range table.Rows {
			rows = append(rows, []string{r.County, formatFloat(r.MedianAge)})
		}
		if err := w.writeCSV(filepath.Join(w.WorkDir(), FileAgeSnapshot), rows); err != nil {
			return err
		}
	}
	if table.HasColumn(model.ColUnemploymentRate) {
		rows := [][]string{{model.ColCounty, model.ColUnemploymentRate, model.ColEmployed}}
		for _, r := range table.Rows {
			rows = append(rows, []string{r.County, formatFloat(r.UnemploymentRate), formatFloat(r.Employed)})
		}
		if err := w.writeCSV(filepath.Join(w.WorkDir(), FileEmploymentSnapshot), rows); err != nil {
			return err
		}
	}
	return nil
}

// WriteCrimeData snapshots the scraped crime rows. Year columns are the
// sorted union across all cities; a year a city's table never covered stays
// blank, distinct from the not-found marker inside a covered table.
func (w *Writer) WriteCrimeData(records []model.CrimeRecord) error {
	years := crimeYearColumns(records)
	header := append([]string{"City", "Crime_Type"}, years...)
	rows := [][]string{header}
	for _, rec := range records {
		row := []string{rec.City, rec.Category}
		for _, year := range years {
			row = append(row, rec.Years[year])
		}
		rows = append(rows, row)
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileCrimeData), rows)
}

// WriteCrimeSummary snapshots the per-city crime-index slice, fallback
// county assignments included.
func (w *Writer) WriteCrimeSummary(summary []model.CrimeSummaryRow) error {
	rows := [][]string{{"City", model.ColCrimeIndex, model.ColCounty}}
	for _, s := range summary {
		rows = append(rows, []string{s.City, formatFloat(s.CrimeIndex), s.County})
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileCrimeSummary), rows)
}

// WriteMergedTable snapshots the reconciled county table with exactly the
// columns the merge populated.
func (w *Writer) WriteMergedTable(table *model.MergedTable) error {
	rows := [][]string{}
	if len(table.Columns) > 0 {
		rows = append(rows, table.Columns)
	}
	for _, r := range table.Rows {
		row := make([]string, 0, len(table.Columns))
		for _, col := range table.Columns {
			if col == model.ColCounty {
				row = append(row, r.County)
				continue
			}
			if v, ok := r.Value(col); ok {
				if col == model.ColPopulation {
					row = append(row, strconv.FormatInt(int64(v), 10))
				} else {
					row = append(row, strconv.FormatFloat(v, 'f', -1, 64))
				}
			} else {
				row = append(row, "")
			}
		}
		rows = append(rows, row)
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileMergedTable), rows)
}

// WriteCorrelationMatrix snapshots the matrix with row labels in the first
// column; NaN cells render blank.
func (w *Writer) WriteCorrelationMatrix(matrix *model.CorrelationMatrix) error {
	rows := [][]string{append([]string{""}, matrix.Columns...)}
	for i, col := range matrix.Columns {
		row := []string{col}
		for j := range matrix.Columns {
			row = append(row, formatMatrixCell(matrix.Values[i][j]))
		}
		rows = append(rows, row)
	}
	return w.writeCSV(filepath.Join(w.WorkDir(), FileCorrelationMatrix), rows)
}

// crimeYearColumns returns the sorted union of year columns over all rows.
func crimeYearColumns(records []model.CrimeRecord) []string {
	set := make(map[string]struct{})
	for _, rec := range records {
		for year := range rec.Years {
			set[year] = struct{}{}
		}
	}
	years := make([]string, 0, len(set))
	for year := range set {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

func formatInt(v *int64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatInt(*v, 10)
}

func formatFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func formatMatrixCell(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

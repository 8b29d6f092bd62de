package report

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sunbelt-research/market-cli/internal/model"
)

func intPtr(v int64) *int64       { return &v }
func floatPtr(v float64) *float64 { return &v }

func readCSVFile(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	require.NoError(t, err)
	return rows
}

func sampleTable() *model.MergedTable {
	return &model.MergedTable{
		Columns: []string{
			model.ColCounty, model.ColPopulation, model.ColMedianAge,
			model.ColUnemploymentRate, model.ColEmployed, model.ColCrimeIndex,
		},
		Rows: []model.MergedRow{
			{
				County:           "Orange County, FL",
				Population:       intPtr(1459762),
				MedianAge:        floatPtr(33.6),
				UnemploymentRate: floatPtr(3.2),
				Employed:         floatPtr(705000),
				CrimeIndex:       floatPtr(519.6),
			},
			{
				County:           "Hillsborough County, FL",
				Population:       intPtr(1513301),
				MedianAge:        floatPtr(36.1),
				UnemploymentRate: floatPtr(3.5),
				Employed:         nil,
				CrimeIndex:       floatPtr(465.9),
			},
		},
	}
}

func TestWritePopulationByYear(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WritePopulationByYear([]model.PopulationRecord{
		{Year: 2018, City: "Orlando", State: "FL", County: "Orange County, FL", Population: intPtr(280257)},
		{Year: 2019, City: "Orlando", State: "FL", County: "Orange County, FL", Population: nil},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FilePopulationByYear))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "City", "State", "County", "Population"}, rows[0])
	assert.Equal(t, []string{"2018", "Orlando", "FL", "Orange County, FL", "280257"}, rows[1])
	assert.Equal(t, "", rows[2][4], "null population stays blank")

	assert.Equal(t, []string{filepath.Join("work", FilePopulationByYear)}, w.Written())
}

func TestWriteAgeByYear(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WriteAgeByYear([]model.AgeRecord{
		{Year: 2019, City: "Tampa", State: "FL", County: "Hillsborough County, FL", MedianAge: floatPtr(36.1)},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileAgeByYear))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Year", "City", "State", "County", "Median_Age"}, rows[0])
	assert.Equal(t, []string{"2019", "Tampa", "FL", "Hillsborough County, FL", "36.1"}, rows[1])
}

func TestWriteEmploymentByYear(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WriteEmploymentByYear([]model.EmploymentRecord{
		{
			Year: 2019, City: "Orlando", State: "FL", County: "Orange County, FL",
			UnemploymentRate: floatPtr(3.2), Employed: floatPtr(705000),
		},
		{
			Year: 2019, City: "Tampa", State: "FL", County: "Hillsborough County, FL",
			UnemploymentRate: floatPtr(3.5), Employed: nil,
		},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileEmploymentByYear))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Year", "City", "State", "County", "unemployment_rate", "employed"}, rows[0])
	assert.Equal(t, []string{"2019", "Orlando", "FL", "Orange County, FL", "3.2", "705000"}, rows[1])
	assert.Equal(t, []string{"2019", "Tampa", "FL", "Hillsborough County, FL", "3.5", ""}, rows[2])
}

func TestWriteGrowthAnalysis(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WriteGrowthAnalysis(&model.PopulationTrend{
		Summaries: []model.GrowthSummary{
			{
				City: "Orlando, FL", State: "FL", County: "Orange County, FL",
				StartYear: 2015, EndYear: 2019,
				StartValue: 100000, EndValue: 121000,
				CAGR: 4.880884817015163, TotalGrowth: 21,
			},
		},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileGrowthAnalysis))
	require.Len(t, rows, 2)
	assert.Equal(t, []string{
		"City", "State", "County", "Start_Population", "End_Population",
		"Total_Growth_Pct", "CAGR_Pct", "Years_Analyzed",
	}, rows[0])
	assert.Equal(t, "100000", rows[1][3], "large values never render in scientific notation")
	assert.Equal(t, "121000", rows[1][4])
	assert.Equal(t, "21", rows[1][5])
	assert.Equal(t, "4", rows[1][7])
}

func TestWriteEmploymentAnalysis(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WriteEmploymentAnalysis(&model.EmploymentTrend{
		Summaries: []model.EmploymentSummary{
			{
				City: "Orlando, FL", State: "FL", County: "Orange County, FL",
				StartYear: 2015, EndYear: 2019,
				StartEmployed: 640000, EndEmployed: 705000,
				EmploymentGrowth: 10.15625, EmploymentCAGR: 2.45,
				StartUnemployment: 4.2, EndUnemployment: 3.2,
				UnemploymentChange: -1, CompositeScore: 4.45,
			},
		},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileEmploymentAnalysis))
	require.Len(t, rows, 2)
	require.Len(t, rows[0], 12)
	assert.Equal(t, "Composite_Score", rows[0][10])
	assert.Equal(t, []string{
		"Orlando, FL", "FL", "Orange County, FL",
		"640000", "705000", "10.15625", "2.45", "4.2", "3.2", "-1", "4.45", "4",
	}, rows[1])
}

func TestWriteSnapshots(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	require.NoError(t, w.WriteSnapshots(sampleTable()))

	pop := readCSVFile(t, filepath.Join(w.WorkDir(), FilePopulationSnapshot))
	require.Len(t, pop, 3)
	assert.Equal(t, []string{"County", "Population"}, pop[0])
	assert.Equal(t, []string{"Orange County, FL", "1459762"}, pop[1])

	age := readCSVFile(t, filepath.Join(w.WorkDir(), FileAgeSnapshot))
	assert.Equal(t, []string{"County", "Median Age"}, age[0])
	assert.Equal(t, []string{"Hillsborough County, FL", "36.1"}, age[2])

	emp := readCSVFile(t, filepath.Join(w.WorkDir(), FileEmploymentSnapshot))
	assert.Equal(t, []string{"County", "unemployment_rate", "employed"}, emp[0])
	assert.Equal(t, []string{"Orange County, FL", "3.2", "705000"}, emp[1])
	assert.Equal(t, []string{"Hillsborough County, FL", "3.5", ""}, emp[2])
}

func TestWriteSnapshotsSkipsAbsentColumns(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	table := &model.MergedTable{
		Columns: []string{model.ColCounty, model.ColPopulation},
		Rows:    []model.MergedRow{{County: "Orange County, FL", Population: intPtr(1459762)}},
	}
	require.NoError(t, w.WriteSnapshots(table))

	assert.FileExists(t, filepath.Join(w.WorkDir(), FilePopulationSnapshot))
	assert.NoFileExists(t, filepath.Join(w.WorkDir(), FileAgeSnapshot))
	assert.NoFileExists(t, filepath.Join(w.WorkDir(), FileEmploymentSnapshot))
}

func TestWriteCrimeData(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WriteCrimeData([]model.CrimeRecord{
		{
			City: "Orlando, FL", Category: "Murders",
			Years: map[string]string{"2018": "30 (10.5)", "2019": "25 (8.7)"},
		},
		{
			City: "Orlando, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2018": "530.2", "2019": model.CrimeValueNotFound},
		},
		{
			City: "Tampa, FL", Category: model.CrimeIndexCategory,
			Years: map[string]string{"2019": "465.9"},
		},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileCrimeData))
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"City", "Crime_Type", "2018", "2019"}, rows[0])
	assert.Equal(t, []string{"Orlando, FL", "Murders", "30 (10.5)", "25 (8.7)"}, rows[1])
	assert.Equal(t, []string{"Orlando, FL", "Crime Index", "530.2", "Not Found"}, rows[2])
	assert.Equal(t, []string{"Tampa, FL", "Crime Index", "", "465.9"}, rows[3],
		"a year outside the city's table stays blank")
}

func TestWriteCrimeSummary(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	err := w.WriteCrimeSummary([]model.CrimeSummaryRow{
		{City: "Orlando, FL", CrimeIndex: floatPtr(519.6), County: "Orange County, FL"},
		{City: "Kissimmee, FL", CrimeIndex: nil, County: "Kissimmee, FL"},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileCrimeSummary))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"City", "Crime_Index", "County"}, rows[0])
	assert.Equal(t, []string{"Orlando, FL", "519.6", "Orange County, FL"}, rows[1])
	assert.Equal(t, []string{"Kissimmee, FL", "", "Kissimmee, FL"}, rows[2])
}

func TestWriteMergedTable(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	require.NoError(t, w.WriteMergedTable(sampleTable()))

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileMergedTable))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{
		"County", "Population", "Median Age", "unemployment_rate", "employed", "Crime_Index",
	}, rows[0])
	assert.Equal(t, []string{"Orange County, FL", "1459762", "33.6", "3.2", "705000", "519.6"}, rows[1])
	assert.Equal(t, []string{"Hillsborough County, FL", "1513301", "36.1", "3.5", "", "465.9"}, rows[2])
}

func TestWriteMergedTableEmpty(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	require.NoError(t, w.WriteMergedTable(&model.MergedTable{}))

	data, err := os.ReadFile(filepath.Join(w.WorkDir(), FileMergedTable))
	require.NoError(t, err)
	assert.Empty(t, data)
}

func TestWriteCorrelationMatrix(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	nan := math.NaN()
	err := w.WriteCorrelationMatrix(&model.CorrelationMatrix{
		Columns: []string{model.ColPopulation, model.ColCrimeIndex},
		Values: [][]float64{
			{1, nan},
			{nan, 1},
		},
	})
	require.NoError(t, err)

	rows := readCSVFile(t, filepath.Join(w.WorkDir(), FileCorrelationMatrix))
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"", "Population", "Crime_Index"}, rows[0])
	assert.Equal(t, []string{"Population", "1", ""}, rows[1])
	assert.Equal(t, []string{"Crime_Index", "", "1"}, rows[2])
}

func TestWrittenTracksRelativePathsInOrder(t *testing.T) {
	t.Parallel()

	w := NewWriter(t.TempDir())
	require.NoError(t, w.WriteCrimeSummary(nil))
	require.NoError(t, w.WriteMergedTable(sampleTable()))

	assert.Equal(t, []string{
		filepath.Join("work", FileCrimeSummary),
		filepath.Join("work", FileMergedTable),
	}, w.Written())
}

package report

import (
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sunbelt-research/market-cli/internal/model"
)

// Workbook sheet names.
const (
	SheetMerged           = "Merged"
	SheetPopulationByYear = "Population by Year"
	SheetAgeByYear        = "Age by Year"
	SheetEmploymentByYear = "Employment by Year"
	SheetCrime            = "Crime"
)

// WriteWorkbook renders the merged table and every collected dataset into a
// single workbook, one sheet per dataset. Empty datasets are left out; the
// merged sheet is always present.
func (w *Writer) WriteWorkbook(table *model.MergedTable, population []model.PopulationRecord, ages []model.AgeRecord, employment []model.EmploymentRecord, crime []model.CrimeRecord) error {
	f := xlsx.NewFile()

	if err := addMergedSheet(f, table); err != nil {
		return err
	}
	if len(population) > 0 {
		if err := addPopulationSheet(f, population); err != nil {
			return err
		}
	}
	if len(ages) > 0 {
		if err := addAgeSheet(f, ages); err != nil {
			return err
		}
	}
	if len(employment) > 0 {
		if err := addEmploymentSheet(f, employment); err != nil {
			return err
		}
	}
	if len(crime) > 0 {
		if err := addCrimeSheet(f, crime); err != nil {
			return err
		}
	}

	if err := os.MkdirAll(w.root, 0o755); err != nil {
		return eris.Wrap(err, "report: create output root")
	}
	path := filepath.Join(w.root, FileWorkbook)
	if err := f.Save(path); err != nil {
		return eris.Wrapf(err, "report: save %s", path)
	}
	w.record(path)
	return nil
}

func addMergedSheet(f *xlsx.File, table *model.MergedTable) error {
	sheet, err := f.AddSheet(SheetMerged)
	if err != nil {
		return eris.Wrap(err, "report: add merged sheet")
	}
	if len(table.Columns) == 0 {
		return nil
	}
	setHeader(sheet, table.Columns)
	for _, r := range table.Rows {
		row := sheet.AddRow()
		for _, col := range table.Columns {
			cell := row.AddCell()
			switch col {
			case model.ColCounty:
				cell.SetString(r.County)
			case model.ColPopulation:
				if r.Population != nil {
					cell.SetInt64(*r.Population)
				}
			case model.ColMedianAge:
				if r.MedianAge != nil {
					cell.SetFloat(*r.MedianAge)
				}
			case model.ColUnemploymentRate:
				if r.UnemploymentRate != nil {
					cell.SetFloat(*r.UnemploymentRate)
				}
			case model.ColEmployed:
				if r.Employed != nil {
					cell.SetFloat(*r.Employed)
				}
			case model.ColCrimeIndex:
				if r.CrimeIndex != nil {
					cell.SetFloat(*r.CrimeIndex)
				}
			}
		}
	}
	return nil
}

func addPopulationSheet(f *xlsx.File, records []model.PopulationRecord) error {
	sheet, err := f.AddSheet(SheetPopulationByYear)
	if err != nil {
		return eris.Wrap(err, "report: add population sheet")
	}
	setHeader(sheet, []string{"Year", "City", "State", "County", "Population"})
	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetInt(rec.Year)
		row.AddCell().SetString(rec.City)
		row.AddCell().SetString(rec.State)
		row.AddCell().SetString(rec.County)
		if cell := row.AddCell(); rec.Population != nil {
			cell.SetInt64(*rec.Population)
		}
	}
	return nil
}

func addAgeSheet(f *xlsx.File, records []model.AgeRecord) error {
	sheet, err := f.AddSheet(SheetAgeByYear)
	if err != nil {
		return eris.Wrap(err, "report: add age sheet")
	}
	setHeader(sheet, []string{"Year", "City", "State", "County", "Median_Age"})
	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetInt(rec.Year)
		row.AddCell().SetString(rec.City)
		row.AddCell().SetString(rec.State)
		row.AddCell().SetString(rec.County)
		if cell := row.AddCell(); rec.MedianAge != nil {
			cell.SetFloat(*rec.MedianAge)
		}
	}
	return nil
}

func addEmploymentSheet(f *xlsx.File, records []model.EmploymentRecord) error {
	sheet, err := f.AddSheet(SheetEmploymentByYear)
	if err != nil {
		return eris.Wrap(err, "report: add employment sheet")
	}
	setHeader(sheet, []string{"Year", "City", "State", "County", "unemployment_rate", "employed"})
	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetInt(rec.Year)
		row.AddCell().SetString(rec.City)
		row.AddCell().SetString(rec.State)
		row.AddCell().SetString(rec.County)
		if cell := row.AddCell(); rec.UnemploymentRate != nil {
			cell.SetFloat(*rec.UnemploymentRate)
		}
		if cell := row.AddCell(); rec.Employed != nil {
			cell.SetFloat(*rec.Employed)
		}
	}
	return nil
}

func addCrimeSheet(f *xlsx.File, records []model.CrimeRecord) error {
	sheet, err := f.AddSheet(SheetCrime)
	if err != nil {
		return eris.Wrap(err, "report: add crime sheet")
	}
	years := crimeYearColumns(records)
	setHeader(sheet, append([]string{"City", "Crime_Type"}, years...))
	for _, rec := range records {
		row := sheet.AddRow()
		row.AddCell().SetString(rec.City)
		row.AddCell().SetString(rec.Category)
		for _, year := range years {
			row.AddCell().SetString(rec.Years[year])
		}
	}
	return nil
}

func setHeader(sheet *xlsx.Sheet, columns []string) {
	row := sheet.AddRow()
	for _, col := range columns {
		row.AddCell().SetString(col)
	}
}

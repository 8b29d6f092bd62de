package model

// CrimeIndexCategory is the synthetic category carrying the per-year composite
// severity score, distinct from raw offense counts.
const CrimeIndexCategory = "Crime Index"

// CrimeValueNotFound marks an empty cell in the scraped crime-index row.
const CrimeValueNotFound = "Not Found"

// PopulationRecord is one (area, year) population observation. A nil value
// means the source had no figure for that year; the record is still emitted
// so every requested (area, year) pair appears exactly once.
type PopulationRecord struct {
	Year       int    `json:"year"`
	City       string `json:"city"`
	State      string `json:"state"`
	County     string `json:"county"`
	Population *int64 `json:"population"`
}

// AgeRecord is one (area, year) median-age observation.
type AgeRecord struct {
	Year      int      `json:"year"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	County    string   `json:"county"`
	MedianAge *float64 `json:"median_age"`
}

// EmploymentRecord is one (area, year) labor-market observation carrying both
// LAUS measures for the county.
type EmploymentRecord struct {
	Year             int      `json:"year"`
	City             string   `json:"city"`
	State            string   `json:"state"`
	County           string   `json:"county"`
	UnemploymentRate *float64 `json:"unemployment_rate"`
	Employed         *float64 `json:"employed"`
}

// CrimeRecord is one (city, category) row of the scraped crime table. Years
// maps a year column name (e.g. "2019") to the formatted cell value: either
// "count (rate)", a bare count, "0" for empty count cells, or
// CrimeValueNotFound for empty index cells. Keyed by city text only; no
// county or state is stored.
type CrimeRecord struct {
	City     string            `json:"city"`
	Category string            `json:"category"`
	Years    map[string]string `json:"years"`
}

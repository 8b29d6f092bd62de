package model

// Column names of the merged demographic table. Downstream consumers key on
// these exact strings, so they are fixed here rather than derived.
const (
	ColCounty           = "County"
	ColPopulation       = "Population"
	ColMedianAge        = "Median Age"
	ColUnemploymentRate = "unemployment_rate"
	ColEmployed         = "employed"
	ColCrimeIndex       = "Crime_Index"
)

// MergedRow is one county of the reconciled table. Nil values are rendered
// as blank cells; a county never disappears because a source was missing.
type MergedRow struct {
	County           string   `json:"county"`
	Population       *int64   `json:"population,omitempty"`
	MedianAge        *float64 `json:"median_age,omitempty"`
	UnemploymentRate *float64 `json:"unemployment_rate,omitempty"`
	Employed         *float64 `json:"employed,omitempty"`
	CrimeIndex       *float64 `json:"crime_index,omitempty"`
}

// Value returns the row's numeric value for a named metric column. The
// second return is false when the column is unknown or the cell is null.
func (r MergedRow) Value(col string) (float64, bool) {
	switch col {
	case ColPopulation:
		if r.Population != nil {
			return float64(*r.Population), true
		}
	case ColMedianAge:
		if r.MedianAge != nil {
			return *r.MedianAge, true
		}
	case ColUnemploymentRate:
		if r.UnemploymentRate != nil {
			return *r.UnemploymentRate, true
		}
	case ColEmployed:
		if r.Employed != nil {
			return *r.Employed, true
		}
	case ColCrimeIndex:
		if r.CrimeIndex != nil {
			return *r.CrimeIndex, true
		}
	}
	return 0, false
}

// CrimeFallback records a crime-table city that matched no target area and
// was attached using its raw name as if it were a county. These assignments
// are best-effort and surfaced so a run can be audited.
type CrimeFallback struct {
	City   string `json:"city"`
	County string `json:"county"`
}

// CrimeSummaryRow is the per-city crime-index slice used for the summary
// snapshot: the latest-year index value and the county it was attached to.
type CrimeSummaryRow struct {
	City       string   `json:"city"`
	CrimeIndex *float64 `json:"crime_index"`
	County     string   `json:"county"`
}

// MergedTable is the unification target: one row per county, with Columns
// listing which metric columns were actually populated, in render order.
// Absent inputs (nil employment, nil crime) never materialize columns.
type MergedTable struct {
	Columns        []string          `json:"columns"`
	Rows           []MergedRow       `json:"rows"`
	CrimeSummary   []CrimeSummaryRow `json:"crime_summary,omitempty"`
	CrimeFallbacks []CrimeFallback   `json:"crime_fallbacks,omitempty"`
}

// HasColumn reports whether the merge populated the named column.
func (t *MergedTable) HasColumn(name string) bool {
	for _, c := range t.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// CorrelationMatrix holds pairwise Pearson coefficients over the numeric
// columns of a merged table. Values[i][j] is NaN when fewer than two rows
// had both columns present.
type CorrelationMatrix struct {
	Columns []string    `json:"columns"`
	Values  [][]float64 `json:"values"`
}

// At returns the coefficient for a column pair, or false if either column is
// not part of the matrix.
func (m *CorrelationMatrix) At(col, row string) (float64, bool) {
	ci, ri := -1, -1
	for i, c := range m.Columns {
		if c == col {
			ci = i
		}
		if c == row {
			ri = i
		}
	}
	if ci < 0 || ri < 0 {
		return 0, false
	}
	return m.Values[ri][ci], true
}

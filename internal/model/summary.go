package model

// GrowthSummary is one area's population trend between its first and last
// non-null observations.
type GrowthSummary struct {
	City        string  `json:"city"`
	State       string  `json:"state"`
	County      string  `json:"county"`
	StartYear   int     `json:"start_year"`
	EndYear     int     `json:"end_year"`
	StartValue  float64 `json:"start_value"`
	EndValue    float64 `json:"end_value"`
	CAGR        float64 `json:"cagr"`
	TotalGrowth float64 `json:"total_growth"`
}

// PopulationTrend aggregates per-area growth; Strongest points into Summaries
// at the area with the highest CAGR (first encountered wins ties).
type PopulationTrend struct {
	Summaries []GrowthSummary `json:"summaries"`
	Strongest *GrowthSummary  `json:"strongest,omitempty"`
}

// EmploymentSummary is one area's labor-market trend. CompositeScore weighs
// a rising unemployment rate twice as heavily as employment growth rewards:
// employment CAGR minus two times the unemployment-rate change.
type EmploymentSummary struct {
	City               string  `json:"city"`
	State              string  `json:"state"`
	County             string  `json:"county"`
	StartYear          int     `json:"start_year"`
	EndYear            int     `json:"end_year"`
	StartEmployed      float64 `json:"start_employed"`
	EndEmployed        float64 `json:"end_employed"`
	EmploymentGrowth   float64 `json:"employment_growth"`
	EmploymentCAGR     float64 `json:"employment_cagr"`
	StartUnemployment  float64 `json:"start_unemployment"`
	EndUnemployment    float64 `json:"end_unemployment"`
	UnemploymentChange float64 `json:"unemployment_change"`
	CompositeScore     float64 `json:"composite_score"`
}

// EmploymentTrend aggregates per-area employment summaries; Strongest is the
// highest composite score, first encountered winning ties.
type EmploymentTrend struct {
	Summaries []EmploymentSummary `json:"summaries"`
	Strongest *EmploymentSummary  `json:"strongest,omitempty"`
}

// CrimeTrendSummary is one city's crime-index movement between the first and
// last requested year columns its index row covers. Decrease is start minus
// end, so a positive value means crime fell.
type CrimeTrendSummary struct {
	City       string  `json:"city"`
	County     string  `json:"county"`
	StartYear  string  `json:"start_year"`
	EndYear    string  `json:"end_year"`
	StartIndex float64 `json:"start_index"`
	EndIndex   float64 `json:"end_index"`
	Decrease   float64 `json:"decrease"`
}

// CrimeTrend aggregates per-city index movement; Strongest is the largest
// decrease, first encountered winning ties.
type CrimeTrend struct {
	Summaries []CrimeTrendSummary `json:"summaries"`
	Strongest *CrimeTrendSummary  `json:"strongest,omitempty"`
}

package model

import "time"

// RunManifest records what one analysis run requested, resolved, and wrote.
// It is serialized next to the artifacts and never re-read by the pipeline.
type RunManifest struct {
	ID                   string          `json:"id"`
	StartedAt            time.Time       `json:"started_at"`
	FinishedAt           time.Time       `json:"finished_at"`
	Cities               []CityQuery     `json:"cities"`
	Years                YearRange       `json:"years"`
	Areas                []TargetArea    `json:"areas"`
	UnmatchedCrimeCities []string        `json:"unmatched_crime_cities,omitempty"`
	CrimeFallbacks       []CrimeFallback `json:"crime_fallbacks,omitempty"`
	Artifacts            []string        `json:"artifacts"`
}

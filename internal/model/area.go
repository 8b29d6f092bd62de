package model

import "strings"

// UnresolvedFIPS is the sentinel county code for areas whose county could not
// be matched against the Census county list. Collectors skip these areas.
const UnresolvedFIPS = "000"

// CityQuery is one raw user-requested city before resolution.
type CityQuery struct {
	City  string `json:"city"`
	State string `json:"state"`
}

// Label renders the query as "City, ST" for messages and reports.
func (q CityQuery) Label() string {
	return q.City + ", " + q.State
}

// TargetArea is one resolved geographic entity. All downstream fetches are
// keyed by its FIPS codes; the crime scraper keys on City/State text instead.
type TargetArea struct {
	City       string `json:"city"`
	State      string `json:"state"`
	County     string `json:"county"`
	FIPSState  string `json:"fips_state"`
	FIPSCounty string `json:"fips_county"`
}

// Slug returns the identity key for the area: lowercased city with spaces
// collapsed to underscores, joined to the lowercased state code.
func (a TargetArea) Slug() string {
	city := strings.ReplaceAll(strings.ToLower(a.City), " ", "_")
	return city + "_" + strings.ToLower(a.State)
}

// Resolved reports whether the county FIPS lookup succeeded.
func (a TargetArea) Resolved() bool {
	return a.FIPSCounty != "" && a.FIPSCounty != UnresolvedFIPS
}

// YearRange is an inclusive span of calendar years.
type YearRange struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Years expands the range into individual years in ascending order.
func (r YearRange) Years() []int {
	if r.End < r.Start {
		return nil
	}
	years := make([]int, 0, r.End-r.Start+1)
	for y := r.Start; y <= r.End; y++ {
		years = append(years, y)
	}
	return years
}

package geo

import "fmt"

// Resolution stages, recorded on failures so logs name where resolution
// stopped.
const (
	StageStateLookup       = "state-lookup"
	StageProfileFetch      = "profile-fetch"
	StageBreadcrumb        = "breadcrumb"
	StageBreadcrumbEntries = "breadcrumb-entries"
	StageBreadcrumbLink    = "breadcrumb-link"
)

// ResolutionError reports a city that could not be resolved to a county.
// SpellingHint is set when the profile page returned 404, which almost always
// means the city name is misspelled rather than the source being down.
type ResolutionError struct {
	City         string
	State        string
	Stage        string
	SpellingHint bool
	Err          error
}

func (e *ResolutionError) Error() string {
	msg := fmt.Sprintf("geo: resolve %s, %s failed at %s", e.City, e.State, e.Stage)
	if e.SpellingHint {
		msg += " (city page not found; check the spelling)"
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ResolutionError) Unwrap() error { return e.Err }

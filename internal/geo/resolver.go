package geo

import (
	"context"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/pkg/census"
	"github.com/sunbelt-research/market-cli/pkg/citydata"
)

// Resolver turns (city, state) pairs into TargetAreas. The county name comes
// from the city's directory profile page; its FIPS code is cross-checked
// against the Census county list for the state. A county that cannot be
// matched gets the sentinel FIPS "000" rather than failing the city.
type Resolver struct {
	states     *StateTable
	profiles   *citydata.Client
	census     *census.Client
	countyCity map[string]string
}

// NewResolver wires the static state table and both external clients.
func NewResolver(states *StateTable, profiles *citydata.Client, censusClient *census.Client) *Resolver {
	return &Resolver{
		states:     states,
		profiles:   profiles,
		census:     censusClient,
		countyCity: make(map[string]string),
	}
}

// CountyCities returns the county -> city reverse map accumulated across
// Resolve calls, used by the reconciliation step's fuzzy crime matching.
func (r *Resolver) CountyCities() map[string]string {
	out := make(map[string]string, len(r.countyCity))
	for k, v := range r.countyCity {
		out[k] = v
	}
	return out
}

// Resolve maps one city/state pair to a TargetArea. Failures are
// *ResolutionError; an unmatched county is not a failure and yields the
// sentinel FIPS "000".
func (r *Resolver) Resolve(ctx context.Context, city, state string) (model.TargetArea, error) {
	log := zap.L().With(
		zap.String("component", "resolver"),
		zap.String("city", city),
		zap.String("state", state),
	)

	stateName, ok := r.states.URLName(state)
	if !ok {
		log.Warn("unknown state code", zap.String("stage", StageStateLookup))
		return model.TargetArea{}, &ResolutionError{
			City: city, State: state, Stage: StageStateLookup,
			Err: eris.Errorf("geo: unknown state code %q", state),
		}
	}
	fipsState, _ := r.states.FIPS(state)

	doc, err := r.profiles.Profile(ctx, city, stateName)
	if err != nil {
		spelling := eris.Is(err, citydata.ErrNotFound)
		log.Warn("profile fetch failed",
			zap.String("stage", StageProfileFetch),
			zap.Bool("spelling_hint", spelling),
			zap.Error(err),
		)
		return model.TargetArea{}, &ResolutionError{
			City: city, State: state, Stage: StageProfileFetch,
			SpellingHint: spelling, Err: err,
		}
	}

	county, stage := countyFromBreadcrumb(doc)
	if county == "" {
		log.Warn("county extraction failed", zap.String("stage", stage))
		return model.TargetArea{}, &ResolutionError{
			City: city, State: state, Stage: stage,
			Err: eris.Errorf("geo: no county in profile page for %s, %s", city, state),
		}
	}

	fipsCounty := r.countyFIPS(ctx, log, fipsState, county)

	area := model.TargetArea{
		City:       city,
		State:      strings.ToUpper(strings.TrimSpace(state)),
		County:     county,
		FIPSState:  fipsState,
		FIPSCounty: fipsCounty,
	}
	r.countyCity[county] = city

	log.Info("resolved area",
		zap.String("county", county),
		zap.String("fips", fipsState+"-"+fipsCounty),
	)
	return area, nil
}

// countyFromBreadcrumb extracts the county display name: the link text of
// the third breadcrumb entry. Returns the failed stage when the page does
// not have that shape.
func countyFromBreadcrumb(doc *goquery.Document) (string, string) {
	breadcrumb := doc.Find("ol.breadcrumb").First()
	if breadcrumb.Length() == 0 {
		return "", StageBreadcrumb
	}

	items := breadcrumb.Find("li")
	if items.Length() < 3 {
		return "", StageBreadcrumbEntries
	}

	link := items.Eq(2).Find("a").First()
	if link.Length() == 0 {
		return "", StageBreadcrumbLink
	}

	county := strings.TrimSpace(link.Text())
	if county == "" {
		return "", StageBreadcrumbLink
	}
	return county, ""
}

// countyFIPS matches the scraped county name against the state's Census
// county list. Any failure here degrades to the sentinel code; downstream
// collectors skip sentinel areas instead of crashing.
func (r *Resolver) countyFIPS(ctx context.Context, log *zap.Logger, fipsState, county string) string {
	counties, err := r.census.Counties(ctx, fipsState)
	if err != nil {
		log.Warn("county list fetch failed, using sentinel FIPS", zap.Error(err))
		return model.UnresolvedFIPS
	}
	log.Debug("fetched county list", zap.Int("counties", len(counties)))

	if fips := matchCounty(county, counties); fips != "" {
		return NormalizeFIPSCounty(fips)
	}

	log.Warn("no county match, using sentinel FIPS",
		zap.String("county", county),
		zap.Int("candidates", len(counties)),
	)
	return model.UnresolvedFIPS
}

// matchCounty strips the literal " County" suffix from the query and each
// candidate, tries a case-insensitive exact match, then falls back to the
// first candidate where either name contains the other.
func matchCounty(county string, counties []census.County) string {
	query := cleanCountyName(county)

	for _, c := range counties {
		if cleanCountyName(c.Name) == query {
			return c.FIPS
		}
	}
	for _, c := range counties {
		cand := cleanCountyName(c.Name)
		if strings.Contains(cand, query) || strings.Contains(query, cand) {
			return c.FIPS
		}
	}
	return ""
}

// cleanCountyName lowercases a county name, drops anything after a comma
// (the Census list carries ", State") and removes the " County" suffix.
func cleanCountyName(name string) string {
	name, _, _ = strings.Cut(name, ",")
	name = strings.ReplaceAll(name, " County", "")
	return strings.ToLower(strings.TrimSpace(name))
}

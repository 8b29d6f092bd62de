package main

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sunbelt-research/market-cli/internal/collect"
	"github.com/sunbelt-research/market-cli/internal/config"
	"github.com/sunbelt-research/market-cli/internal/geo"
	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/internal/pipeline"
	"github.com/sunbelt-research/market-cli/internal/report"
	"github.com/sunbelt-research/market-cli/pkg/bls"
	"github.com/sunbelt-research/market-cli/pkg/census"
	"github.com/sunbelt-research/market-cli/pkg/citydata"
)

// buildPipeline wires the clients and stages out of the loaded configuration.
func buildPipeline(cfg *config.Config, charts bool) (*pipeline.Pipeline, error) {
	states, err := geo.LoadStateTable()
	if err != nil {
		return nil, err
	}

	profileMin, profileMax := cfg.CityData.ProfileDelay()
	pageMin, pageMax := cfg.CityData.PageDelay()
	cityClient := citydata.NewClient(
		citydata.WithBaseURL(cfg.CityData.BaseURL),
		citydata.WithRateLimit(cfg.CityData.RateLimit),
		citydata.WithProfileDelay(profileMin, profileMax),
		citydata.WithPageDelay(pageMin, pageMax),
	)
	censusClient := census.NewClient(
		census.WithBaseURL(cfg.Census.BaseURL),
		census.WithAPIKey(cfg.CensusAPIKey),
		census.WithRateLimit(cfg.Census.RateLimit),
	)
	blsClient := bls.NewClient(
		bls.WithBaseURL(cfg.BLS.BaseURL),
		bls.WithAPIKey(cfg.BLSAPIKey),
		bls.WithRateLimit(cfg.BLS.RateLimit),
	)

	return &pipeline.Pipeline{
		Resolver:     geo.NewResolver(states, cityClient, censusClient),
		Demographics: collect.NewDemographicCollector(censusClient),
		Employment:   collect.NewEmploymentCollector(blsClient, cfg.BLS.BatchSize, cfg.BLS.BatchPause()),
		Crime:        collect.NewCrimeCollector(cityClient, states),
		Writer:       report.NewWriter(cfg.Output.Dir),
		Charts:       charts,
	}, nil
}

// parseCityArgs turns "City, ST" arguments into queries.
func parseCityArgs(args []string) ([]model.CityQuery, error) {
	queries := make([]model.CityQuery, 0, len(args))
	for _, arg := range args {
		city, state, ok := strings.Cut(arg, ",")
		if !ok || strings.TrimSpace(city) == "" || len(strings.TrimSpace(state)) != 2 {
			return nil, eris.Errorf(`invalid city %q, want "City, ST"`, arg)
		}
		queries = append(queries, model.CityQuery{
			City:  strings.TrimSpace(city),
			State: strings.TrimSpace(state),
		})
	}
	return pipeline.NormalizeCities(queries), nil
}

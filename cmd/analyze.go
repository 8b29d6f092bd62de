package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/sunbelt-research/market-cli/internal/config"
	"github.com/sunbelt-research/market-cli/internal/model"
	"github.com/sunbelt-research/market-cli/internal/pipeline"
)

var (
	analyzeStartYear int
	analyzeEndYear   int
	analyzeNoCharts  bool
)

var analyzeCmd = &cobra.Command{
	Use:   `analyze "City, ST" ["City, ST"...]`,
	Short: "Run the full market analysis for a set of cities",
	Long: "Resolves each city to its county, collects population, median age,\n" +
		"employment, and crime statistics over the year range, reconciles them into\n" +
		"one per-county table, and writes reports and charts to the output directory.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateKeys(); err != nil {
			return err
		}
		if err := config.ValidateYears(analyzeStartYear, analyzeEndYear, time.Now()); err != nil {
			return err
		}
		cities, err := parseCityArgs(args)
		if err != nil {
			return err
		}

		p, err := buildPipeline(cfg, !analyzeNoCharts)
		if err != nil {
			return err
		}

		result, err := p.Run(cmd.Context(),
			cities,
			model.YearRange{Start: analyzeStartYear, End: analyzeEndYear},
		)
		if err != nil {
			return err
		}

		printRunSummary(cmd, result)
		return nil
	},
}

func printRunSummary(cmd *cobra.Command, result *pipeline.Result) {
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Analyzed %d area(s), %d county row(s)\n", len(result.Areas), len(result.Table.Rows))
	for _, area := range result.Areas {
		fmt.Fprintf(out, "  %s, %s -> %s (FIPS %s-%s)\n",
			area.City, area.State, area.County, area.FIPSState, area.FIPSCounty)
	}

	if s := result.Population.Strongest; s != nil {
		fmt.Fprintf(out, "Strongest population market: %s, %s (CAGR %.2f%%)\n", s.City, s.State, s.CAGR)
	}
	if s := result.Employment.Strongest; s != nil {
		fmt.Fprintf(out, "Strongest employment market: %s, %s (composite %.2f)\n", s.City, s.State, s.CompositeScore)
	}
	if s := result.Crime.Strongest; s != nil {
		fmt.Fprintf(out, "Largest crime-index decrease: %s (%.1f)\n", s.City, s.Decrease)
	}
	if len(result.Manifest.UnmatchedCrimeCities) > 0 {
		fmt.Fprintf(out, "No crime data found for: %v\n", result.Manifest.UnmatchedCrimeCities)
	}
	if len(result.Table.CrimeFallbacks) > 0 {
		fmt.Fprintf(out, "Crime cities matched no target area (raw name used as county):\n")
		for _, f := range result.Table.CrimeFallbacks {
			fmt.Fprintf(out, "  %s -> %s\n", f.City, f.County)
		}
	}
	fmt.Fprintf(out, "Artifacts written to %s\n", cfg.Output.Dir)
}

func init() {
	analyzeCmd.Flags().IntVar(&analyzeStartYear, "start", 2015, "first year of the range")
	analyzeCmd.Flags().IntVar(&analyzeEndYear, "end", time.Now().Year()-2, "last year of the range")
	analyzeCmd.Flags().BoolVar(&analyzeNoCharts, "no-charts", false, "skip chart rendering")
	rootCmd.AddCommand(analyzeCmd)
}

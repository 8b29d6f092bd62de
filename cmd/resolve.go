package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sunbelt-research/market-cli/internal/geo"
)

var resolveCmd = &cobra.Command{
	Use:   `resolve "City, ST" ["City, ST"...]`,
	Short: "Resolve cities to their county and FIPS codes",
	Long: "Runs only the geographic resolution step and prints each city's county\n" +
		"and FIPS identifiers. Useful for checking spellings before a full run.",
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := cfg.ValidateKeys(); err != nil {
			return err
		}
		cities, err := parseCityArgs(args)
		if err != nil {
			return err
		}

		p, err := buildPipeline(cfg, false)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		for _, q := range cities {
			area, err := p.Resolver.Resolve(cmd.Context(), q.City, q.State)
			if err != nil {
				var resErr *geo.ResolutionError
				if errors.As(err, &resErr) && resErr.SpellingHint {
					fmt.Fprintf(out, "%s: not found, check the spelling\n", q.Label())
					continue
				}
				return err
			}
			if !area.Resolved() {
				fmt.Fprintf(out, "%s -> %s (no county FIPS match, will be skipped by collectors)\n",
					q.Label(), area.County)
				continue
			}
			fmt.Fprintf(out, "%s -> %s (FIPS %s-%s)\n",
				q.Label(), area.County, area.FIPSState, area.FIPSCounty)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

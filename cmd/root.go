package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sunbelt-research/market-cli/internal/config"
)

var (
	cfg        *config.Config
	configPath string
	verbose    bool
	outputDir  string
)

var rootCmd = &cobra.Command{
	Use:   "market-cli",
	Short: "County-level market analysis from public data",
	Long: "Resolves cities to counties, pulls demographic, labor-market, and crime\n" +
		"statistics from public sources, and merges them into a per-county market report.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if verbose {
			cfg.Log.Level = "debug"
			cfg.Log.Format = "console"
		}
		if outputDir != "" {
			cfg.Output.Dir = outputDir
		}

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default market.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging to the console")
	rootCmd.PersistentFlags().StringVarP(&outputDir, "output", "o", "", "output directory (default from config)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

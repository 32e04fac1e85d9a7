// Package commands wires the spendify CLI.
package commands

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/spendify/spendify/internal/buildinfo"
	"github.com/spendify/spendify/internal/classify"
	"github.com/spendify/spendify/internal/config"
	"github.com/spendify/spendify/internal/forecast"
	"github.com/spendify/spendify/internal/service"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var cfgFile string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "spendify",
		Short:   "Bank statement analysis, forecasting, and budgeting",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./spendify.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().Float64("balance-tolerance", 0.01, "running balance tolerance in currency units")
	rootCmd.PersistentFlags().String("horizon-policy", string(forecast.HorizonReject), "forecast horizon policy: reject or clamp")
	rootCmd.PersistentFlags().Int64("seed", forecast.DefaultSeed, "forecast model seed")
	rootCmd.PersistentFlags().String("rules", "", "category rules file (YAML)")

	rootCmd.AddCommand(newAnalyzeCommand(&cfgFile, &verbose))
	rootCmd.AddCommand(newForecastCommand(&cfgFile, &verbose))
	rootCmd.AddCommand(newBanksCommand())

	return rootCmd
}

func newLogger(verbose bool) *log.Logger {
	level := log.InfoLevel
	if verbose {
		level = log.DebugLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          "spendify",
		Level:           level,
	})
}

// buildAnalyzer loads configuration, with the command's flags as overrides,
// and assembles the pipeline service.
func buildAnalyzer(cmd *cobra.Command, cfgFile string, verbose bool) (*service.Analyzer, *config.Config, error) {
	cfg, err := config.Build(cfgFile, cmd.Flags())
	if err != nil {
		return nil, nil, err
	}

	rules := classify.DefaultRules()
	if cfg.Classify.RulesFile != "" {
		rules, err = classify.LoadRules(cfg.Classify.RulesFile)
		if err != nil {
			return nil, nil, fmt.Errorf("loading category rules: %w", err)
		}
	}

	analyzer := service.NewAnalyzer(newLogger(verbose),
		service.WithClassifier(classify.New(rules)),
		service.WithNormalizeOptions(cfg.NormalizeOptions()),
		service.WithForecastOptions(cfg.ForecastOptions()),
	)
	return analyzer, cfg, nil
}

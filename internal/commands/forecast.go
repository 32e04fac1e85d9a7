package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spendify/spendify/internal/bank"
	"github.com/spendify/spendify/internal/budget"
	"github.com/spendify/spendify/internal/forecast"
)

func newForecastCommand(cfgFile *string, verbose *bool) *cobra.Command {
	var password string
	var bankCode string
	var days int
	var withBudget bool

	cmd := &cobra.Command{
		Use:   "forecast <statement.pdf>",
		Short: "Project the account balance forward and derive a budget",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			analyzer, _, err := buildAnalyzer(cmd, *cfgFile, *verbose)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading statement: %w", err)
			}

			ledger, err := analyzer.Analyze(data, password, bankCode)
			if err != nil {
				return err
			}

			res, err := analyzer.Forecast(ledger, days)
			if err != nil {
				return err
			}

			if !withBudget {
				return writeJSON(cmd, res)
			}

			plan, err := analyzer.Budget(res)
			if err != nil {
				return err
			}
			out := struct {
				Forecast *forecast.Result `json:"forecast"`
				Budget   *budget.Plan     `json:"budget"`
			}{res, plan}
			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "PDF password, if protected")
	cmd.Flags().StringVarP(&bankCode, "bank", "b", bank.CodeAuto, "bank format code, or auto to detect")
	cmd.Flags().IntVarP(&days, "days", "d", 30, "forecast horizon in days")
	cmd.Flags().BoolVar(&withBudget, "budget", false, "derive a budget plan from the forecast")

	return cmd
}

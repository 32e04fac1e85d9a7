package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/spendify/spendify/internal/bank"
	"github.com/spendify/spendify/internal/statement"
)

func newAnalyzeCommand(cfgFile *string, verbose *bool) *cobra.Command {
	var password string
	var bankCode string
	var summary bool

	cmd := &cobra.Command{
		Use:   "analyze <statement.pdf>",
		Short: "Extract, normalize, and categorize a bank statement",
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

			var out any = ledger
			if summary {
				out = analyzer.Summarize(ledger)
			}
			return writeJSON(cmd, out)
		},
	}

	cmd.Flags().StringVarP(&password, "password", "p", "", "PDF password, if protected")
	cmd.Flags().StringVarP(&bankCode, "bank", "b", bank.CodeAuto, "bank format code, or auto to detect")
	cmd.Flags().BoolVarP(&summary, "summary", "s", false, "print aggregate totals instead of transactions")

	return cmd
}

func newBanksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "banks",
		Short: "List supported bank statement formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			type bankInfo struct {
				Code      string `json:"code"`
				Name      string `json:"name"`
				Protected bool   `json:"usually_protected"`
			}
			var out []bankInfo
			for _, p := range bank.Profiles() {
				out = append(out, bankInfo{
					Code:      p.Code,
					Name:      p.Name,
					Protected: p.UsuallyProtected,
				})
			}
			return writeJSON(cmd, out)
		},
	}
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// ExitCode maps pipeline error kinds to distinct process exit codes so
// scripts can tell a wrong password apart from a malformed statement.
func ExitCode(err error) int {
	switch statement.KindOf(err) {
	case statement.ErrDecryption:
		return 2
	case statement.ErrUnknownBank, statement.ErrUnrecognizedFormat, statement.ErrBankFormatMismatch:
		return 3
	case statement.ErrExtraction, statement.ErrMalformedRow:
		return 4
	default:
		return 1
	}
}

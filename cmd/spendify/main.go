package main

import (
	"os"

	"github.com/spendify/spendify/internal/commands"
)

func main() {
	rootCmd := commands.NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		os.Exit(commands.ExitCode(err))
	}
}

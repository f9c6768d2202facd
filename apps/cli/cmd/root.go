package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	version   = "dev"
	buildTime = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "softcheck",
	Short: "Inspect and report assertion sessions.",
	Long: `softcheck is the companion CLI for the softcheck assertion engine.
Test suites save their assertion sessions as JSON; this tool renders
them as console, JSON, or JUnit reports, archives them in a local
history database, and re-renders on change in watch mode.`,
}

func Execute(v, bt string) {
	version = v
	buildTime = bt
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)
}

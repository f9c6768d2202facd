package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/softcheck/packages/core/config"
	"github.com/abdul-hamid-achik/softcheck/packages/history"
	"github.com/abdul-hamid-achik/softcheck/packages/report"
)

var (
	outputFlag  string
	verboseFlag bool
	noColorFlag bool
	archiveFlag bool
	configFlag  string
)

var reportCmd = &cobra.Command{
	Use:   "report <session.json> [more sessions...]",
	Short: "Render saved assertion sessions",
	Long: `Render one or more saved assertion session files.

Examples:
  softcheck report session.json
  softcheck report --output junit results/*.json
  softcheck report --archive --output json session.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: reportCommand,
}

func init() {
	reportCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, json, junit")
	reportCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	reportCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
	reportCmd.Flags().BoolVar(&archiveFlag, "archive", false, "Also save sessions to the history database")
	reportCmd.Flags().StringVarP(&configFlag, "config", "c", "", "Config file path")
}

func reportCommand(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(configFlag)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	format := outputFlag
	if format == "" && len(cfg.Reporters) > 0 {
		format = cfg.Reporters[0]
	}

	formatter, err := newFormatter(format, cmd, cfg)
	if err != nil {
		return err
	}

	var store *history.Store
	if archiveFlag {
		path := cfg.HistoryPath
		if path == "" {
			path = "softcheck-history.db"
		}
		store, err = history.Open(path)
		if err != nil {
			return err
		}
		defer store.Close()
	}

	failed := false
	for _, path := range args {
		summary, err := report.Load(path)
		if err != nil {
			return err
		}
		if err := formatter.Format(summary); err != nil {
			return err
		}
		if store != nil {
			if err := store.SaveSession(cmd.Context(), summary); err != nil {
				fmt.Fprintf(os.Stderr, "warning: failed to archive %s: %v\n", path, err)
			}
		}
		if !summary.Clean() {
			failed = true
		}
	}

	if failed {
		os.Exit(ExitFailures)
	}
	return nil
}

func newFormatter(format string, cmd *cobra.Command, cfg *config.Config) (report.Formatter, error) {
	switch strings.ToLower(format) {
	case "", "console":
		return report.NewConsoleFormatter(
			report.WithWriter(cmd.OutOrStdout()),
			report.WithVerbose(verboseFlag || cfg.GetVerbose()),
			report.WithNoColor(noColorFlag || cfg.GetNoColor()),
		), nil
	case "json":
		return report.NewJSONFormatter(report.JSONWithWriter(cmd.OutOrStdout())), nil
	case "junit":
		return report.NewJUnitFormatter(report.JUnitWithWriter(cmd.OutOrStdout())), nil
	default:
		return nil, fmt.Errorf("unknown output format: %s", format)
	}
}

package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/softcheck/packages/core/config"
	"github.com/abdul-hamid-achik/softcheck/packages/history"
	"github.com/abdul-hamid-achik/softcheck/packages/report"
)

var (
	historyDBFlag    string
	historyLimitFlag int
	olderThanFlag    time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect archived assertion sessions",
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List archived sessions, most recent first",
	RunE:  historyListCommand,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <session-id>",
	Short: "Show the failures recorded in one session",
	Args:  cobra.ExactArgs(1),
	RunE:  historyShowCommand,
}

var historyPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete sessions older than a cutoff",
	RunE:  historyPruneCommand,
}

func init() {
	historyCmd.PersistentFlags().StringVar(&historyDBFlag, "db", "", "History database path")
	historyListCmd.Flags().IntVarP(&historyLimitFlag, "limit", "n", 20, "Maximum sessions to list")
	historyPruneCmd.Flags().DurationVar(&olderThanFlag, "older-than", 30*24*time.Hour, "Delete sessions older than this")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyPruneCmd)
}

func openHistory() (*history.Store, error) {
	path := historyDBFlag
	if path == "" {
		cfg, err := config.LoadConfig("")
		if err == nil && cfg.HistoryPath != "" {
			path = cfg.HistoryPath
		}
	}
	if path == "" {
		path = "softcheck-history.db"
	}
	return history.Open(path)
}

func historyListCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	sessions, err := store.ListSessions(cmd.Context(), historyLimitFlag)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "no archived sessions")
		return nil
	}

	for _, s := range sessions {
		status := "clean"
		if s.Failed > 0 {
			status = fmt.Sprintf("%d failed", s.Failed)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s  %-30s %s (%d evaluated, %s)\n",
			s.SavedAt.Format("2006-01-02 15:04:05"), s.Name, s.ID, s.Evaluated, status)
	}
	return nil
}

func historyShowCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	sessionID := args[0]
	failures, err := store.SessionFailures(cmd.Context(), sessionID)
	if err != nil {
		return err
	}

	summary := &report.Summary{
		SessionID: sessionID,
		Name:      sessionID,
		Failures:  failures,
	}
	formatter := report.NewConsoleFormatter(
		report.WithWriter(cmd.OutOrStdout()),
		report.WithVerbose(true),
	)
	return formatter.Format(summary)
}

func historyPruneCommand(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	n, err := store.Prune(cmd.Context(), time.Now().Add(-olderThanFlag))
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "pruned %d session(s)\n", n)
	return nil
}

package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/softcheck/packages/core/config"
	"github.com/abdul-hamid-achik/softcheck/packages/report"
)

// WatchDebounceDelay coalesces rapid writes to the same session file.
const WatchDebounceDelay = 300 * time.Millisecond

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Re-render session files as they change",
	Long: `Watch a directory for assertion session files and render each one
as it is written. Useful next to a running test suite that saves a
session JSON per test.

Examples:
  softcheck watch ./results
  softcheck watch --output junit ./results`,
	Args: cobra.ExactArgs(1),
	RunE: watchCommand,
}

func init() {
	watchCmd.Flags().StringVarP(&outputFlag, "output", "o", "", "Output format: console, json, junit")
	watchCmd.Flags().BoolVarP(&verboseFlag, "verbose", "v", false, "Verbose output")
	watchCmd.Flags().BoolVar(&noColorFlag, "no-color", false, "Disable colored output")
}

func watchCommand(cmd *cobra.Command, args []string) error {
	dir := args[0]
	info, err := os.Stat(dir)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return fmt.Errorf("%s is not a directory", dir)
	}

	cfg, err := config.LoadConfig("")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	formatter, err := newFormatter(outputFlag, cmd, cfg)
	if err != nil {
		return err
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating file watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s for session files... (press Ctrl+C to stop)\n", dir)

	// Debounce timers per file for rapid consecutive writes.
	timers := make(map[string]*time.Timer)

	for {
		select {
		case <-cmd.Context().Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if !isSessionFile(event.Name) {
				continue
			}

			path := event.Name
			if t, exists := timers[path]; exists {
				t.Stop()
			}
			timers[path] = time.AfterFunc(WatchDebounceDelay, func() {
				summary, err := report.Load(path)
				if err != nil {
					fmt.Fprintf(os.Stderr, "warning: skipping %s: %v\n", path, err)
					return
				}
				if err := formatter.Format(summary); err != nil {
					fmt.Fprintf(os.Stderr, "warning: rendering %s: %v\n", path, err)
				}
			})
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "warning: watcher error: %v\n", err)
		}
	}
}

func isSessionFile(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".json")
}

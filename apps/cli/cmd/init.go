package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var forceInit bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a starter softcheck config",
	Long: `Write a starter .softcheck.yml in the current directory.

Examples:
  softcheck init
  softcheck init --force`,
	RunE: initCommand,
}

func init() {
	initCmd.Flags().BoolVarP(&forceInit, "force", "f", false, "Overwrite an existing config file")
}

func initCommand(cmd *cobra.Command, args []string) error {
	cwd, err := os.Getwd()
	if err != nil {
		return err
	}

	configFile := filepath.Join(cwd, ".softcheck.yml")
	if !forceInit {
		if _, err := os.Stat(configFile); err == nil {
			return fmt.Errorf("file already exists: %s (use --force to overwrite)", configFile)
		}
	}

	content := map[string]any{
		"timeoutMs":         10000,
		"artifactDir":       "softcheck-artifacts",
		"captureOnHard":     true,
		"captureOnSoft":     false,
		"captureRatePerSec": 2,
		"reporters":         []string{"console"},
		"historyPath":       "softcheck-history.db",
	}

	data, err := yaml.Marshal(content)
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFile, data, 0o644); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", configFile)
	return nil
}

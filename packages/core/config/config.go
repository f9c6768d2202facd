package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the softcheck engine and CLI configuration.
type Config struct {
	TimeoutMs         int      `json:"timeoutMs,omitempty" yaml:"timeoutMs,omitempty"`                 // provider timeout
	ArtifactDir       string   `json:"artifactDir,omitempty" yaml:"artifactDir,omitempty"`             // diagnostic artifacts
	CaptureOnHard     *bool    `json:"captureOnHard,omitempty" yaml:"captureOnHard,omitempty"`
	CaptureOnSoft     *bool    `json:"captureOnSoft,omitempty" yaml:"captureOnSoft,omitempty"`
	CaptureRatePerSec float64  `json:"captureRatePerSec,omitempty" yaml:"captureRatePerSec,omitempty"` // soft-capture throttle
	Reporters         []string `json:"reporters,omitempty" yaml:"reporters,omitempty"`
	HistoryPath       string   `json:"historyPath,omitempty" yaml:"historyPath,omitempty"`             // sqlite session archive
	Verbose           *bool    `json:"verbose,omitempty" yaml:"verbose,omitempty"`
	NoColor           *bool    `json:"noColor,omitempty" yaml:"noColor,omitempty"`
}

// boolPtr returns a pointer to a bool value
func boolPtr(b bool) *bool {
	return &b
}

// BoolPtr is exported version of boolPtr for external use
func BoolPtr(b bool) *bool {
	return &b
}

// getBool returns the value of a bool pointer, or the default if nil
func getBool(b *bool, defaultVal bool) bool {
	if b == nil {
		return defaultVal
	}
	return *b
}

// GetCaptureOnHard returns the hard-capture setting, defaulting to true.
func (c *Config) GetCaptureOnHard() bool {
	return getBool(c.CaptureOnHard, true)
}

// GetCaptureOnSoft returns the soft-capture setting, defaulting to false.
func (c *Config) GetCaptureOnSoft() bool {
	return getBool(c.CaptureOnSoft, false)
}

// GetVerbose returns the verbose setting, defaulting to false.
func (c *Config) GetVerbose() bool {
	return getBool(c.Verbose, false)
}

// GetNoColor returns the no-color setting, defaulting to false.
func (c *Config) GetNoColor() bool {
	return getBool(c.NoColor, false)
}

// ConfigFilenames contains the possible config file names, in discovery
// order.
var ConfigFilenames = []string{
	".softcheck.config.json",
	"softcheck.config.json",
	".softcheck.yml",
	".softcheck.yaml",
	"softcheck.yml",
	"softcheck.yaml",
}

// LoadConfig loads configuration from the specified path, or searches
// the current directory when path is empty.
func LoadConfig(path string) (*Config, error) {
	if path != "" {
		return loadConfigFromFile(path)
	}
	return FindAndLoadConfig(".")
}

// FindAndLoadConfig searches for a config file in the given directory,
// returning defaults when none exists.
func FindAndLoadConfig(dir string) (*Config, error) {
	for _, filename := range ConfigFilenames {
		configPath := filepath.Join(dir, filename)
		if _, err := os.Stat(configPath); err == nil {
			return loadConfigFromFile(configPath)
		}
	}
	return DefaultConfig(), nil
}

func loadConfigFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	config := DefaultConfig()
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yml", ".yaml":
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("parsing %s: %w", path, err)
		}
	}

	return config, nil
}

// Merge merges another config into this one, with other taking
// precedence.
func (c *Config) Merge(other *Config) *Config {
	if other == nil {
		return c
	}

	result := *c // Copy

	if other.TimeoutMs > 0 {
		result.TimeoutMs = other.TimeoutMs
	}
	if other.ArtifactDir != "" {
		result.ArtifactDir = other.ArtifactDir
	}
	if other.CaptureOnHard != nil {
		result.CaptureOnHard = other.CaptureOnHard
	}
	if other.CaptureOnSoft != nil {
		result.CaptureOnSoft = other.CaptureOnSoft
	}
	if other.CaptureRatePerSec > 0 {
		result.CaptureRatePerSec = other.CaptureRatePerSec
	}
	if len(other.Reporters) > 0 {
		result.Reporters = other.Reporters
	}
	if other.HistoryPath != "" {
		result.HistoryPath = other.HistoryPath
	}
	if other.Verbose != nil {
		result.Verbose = other.Verbose
	}
	if other.NoColor != nil {
		result.NoColor = other.NoColor
	}

	return &result
}

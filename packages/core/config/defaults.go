package config

// DefaultConfig returns a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		TimeoutMs:         10000, // 10 seconds
		ArtifactDir:       "softcheck-artifacts",
		CaptureRatePerSec: 2,
		Reporters:         []string{"console"},
		HistoryPath:       "",
	}
}

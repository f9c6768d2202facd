// Package config handles configuration loading for softcheck.
//
// It provides functionality for:
//   - Loading configuration from JSON or YAML config files
//   - Config file discovery in a directory
//   - Default values and merge precedence
package config

// Package report renders assertion session summaries.
//
// Supported output formats:
//   - Console: human-readable colored terminal output
//   - JSON: machine-readable summary, also the on-disk session format
//   - JUnit: JUnit XML for CI integration
//
// Each formatter implements the Formatter interface.
package report

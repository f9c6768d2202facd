package cmd

// Exit codes for the softcheck CLI
const (
	// ExitSuccess indicates the rendered sessions had no failures
	ExitSuccess = 0

	// ExitFailures indicates one or more sessions contained failures
	ExitFailures = 1

	// ExitError indicates an error reading or rendering input
	ExitError = 2
)

package report

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

// Formatter renders one session summary.
type Formatter interface {
	Format(s *Summary) error
}

// formatValue formats a value for display, truncating or summarizing
// large values.
func formatValue(v any, maxLen int) string {
	switch val := v.(type) {
	case []any:
		return fmt.Sprintf("[array with %d items]", len(val))
	case map[string]any:
		return fmt.Sprintf("{object with %d keys}", len(val))
	}
	str := fmt.Sprintf("%v", v)
	if len(str) > maxLen {
		return str[:maxLen] + "..."
	}
	return str
}

// ConsoleFormatter writes a colored human-readable report.
type ConsoleFormatter struct {
	writer  io.Writer
	verbose bool
	noColor bool
}

type ConsoleOption func(*ConsoleFormatter)

func NewConsoleFormatter(opts ...ConsoleOption) *ConsoleFormatter {
	f := &ConsoleFormatter{
		writer: os.Stdout,
	}
	for _, opt := range opts {
		opt(f)
	}
	if f.noColor {
		color.NoColor = true
	}
	return f
}

func WithWriter(w io.Writer) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.writer = w
	}
}

func WithVerbose(v bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.verbose = v
	}
}

func WithNoColor(nc bool) ConsoleOption {
	return func(f *ConsoleFormatter) {
		f.noColor = nc
	}
}

func (f *ConsoleFormatter) Format(s *Summary) error {
	green := color.New(color.FgGreen).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	bold := color.New(color.Bold).SprintFunc()

	name := s.Name
	if name == "" {
		name = s.SessionID
	}
	fmt.Fprintf(f.writer, "\n%s\n\n", bold("Session: "+name))

	if s.Clean() {
		fmt.Fprintf(f.writer, "  %s no failures recorded\n", green("✓"))
	}

	for i, r := range s.Failures {
		fmt.Fprintf(f.writer, "  %s %s\n", red("✗"), r.Description)
		fmt.Fprintf(f.writer, "      Expected: %s\n", formatValue(r.Expected, 100))
		fmt.Fprintf(f.writer, "      Actual:   %s\n", formatValue(r.Actual, 100))
		if r.Context != "" {
			fmt.Fprintf(f.writer, "      Context:  %s\n", formatValue(r.Context, 100))
		}
		if r.Artifact != "" {
			fmt.Fprintf(f.writer, "      Artifact: %s\n", r.Artifact)
		}
		if f.verbose {
			fmt.Fprintf(f.writer, "      At:       %s\n", r.Timestamp.Format("15:04:05.000"))
		}
		if i < len(s.Failures)-1 {
			fmt.Fprintf(f.writer, "\n")
		}
	}

	if f.verbose && s.Stats.Evaluated > 0 {
		fmt.Fprintf(f.writer, "\n  %s %d evaluated, %d passed, %d failed",
			cyan("stats:"), s.Stats.Evaluated, s.Stats.Passed, s.Stats.Failed)
		if s.Stats.TimedOut > 0 {
			fmt.Fprintf(f.writer, ", %d timed out", s.Stats.TimedOut)
		}
		fmt.Fprintf(f.writer, "\n  %s p50 %.1fms, p95 %.1fms, p99 %.1fms\n",
			cyan("timing:"), s.Stats.P50Ms, s.Stats.P95Ms, s.Stats.P99Ms)
	}

	fmt.Fprintf(f.writer, "\n")
	return nil
}

package assertions

import (
	"fmt"
	"strings"
)

// AssertionError is returned when a hard assertion fails. It carries the
// single FailureRecord for that assertion.
type AssertionError struct {
	Record FailureRecord
}

func (e *AssertionError) Error() string {
	return "assertion failed: " + formatRecord(e.Record)
}

// AggregateError is returned by RequireAll when soft failures were
// recorded. It carries every accumulated record in insertion order.
type AggregateError struct {
	Records []FailureRecord
}

func (e *AggregateError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d soft assertion(s) failed:", len(e.Records))
	for i, r := range e.Records {
		fmt.Fprintf(&b, "\n  %d) %s", i+1, formatRecord(r))
	}
	return b.String()
}

func formatRecord(r FailureRecord) string {
	msg := r.Message
	if r.Context != "" {
		msg += " [" + r.Context + "]"
	}
	if r.Artifact != "" {
		msg += " (artifact: " + r.Artifact + ")"
	}
	return msg
}

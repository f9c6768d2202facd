package report

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/softcheck/packages/assertions"
	"github.com/abdul-hamid-achik/softcheck/packages/metrics"
)

// Stats aggregates evaluation counts and latency percentiles for one
// session.
type Stats struct {
	Evaluated int64   `json:"evaluated"`
	Passed    int64   `json:"passed"`
	Failed    int64   `json:"failed"`
	TimedOut  int64   `json:"timedOut"`
	P50Ms     float64 `json:"p50Ms"`
	P95Ms     float64 `json:"p95Ms"`
	P99Ms     float64 `json:"p99Ms"`
}

// Summary is the serializable view of one assertion session. It is the
// unit every formatter renders and what the history store persists.
type Summary struct {
	SessionID string                     `json:"sessionId"`
	Name      string                     `json:"name"`
	StartedAt time.Time                  `json:"startedAt"`
	Stats     Stats                      `json:"stats"`
	Failures  []assertions.FailureRecord `json:"failures"`
}

// FromEngine snapshots an engine's session into a Summary. The metrics
// collector is optional.
func FromEngine(name string, e *assertions.Engine, c *metrics.Collector) *Summary {
	s := &Summary{
		SessionID: e.Session().ID(),
		Name:      name,
		StartedAt: e.Session().StartedAt(),
		Failures:  e.Failures(),
	}
	if c != nil {
		snap := c.Snapshot()
		s.Stats = Stats{
			Evaluated: snap.Evaluated,
			Passed:    snap.Passed,
			Failed:    snap.Failed,
			TimedOut:  snap.TimedOut,
			P50Ms:     float64(snap.P50.Microseconds()) / 1000,
			P95Ms:     float64(snap.P95.Microseconds()) / 1000,
			P99Ms:     float64(snap.P99.Microseconds()) / 1000,
		}
	}
	return s
}

// Clean reports whether the session recorded no failures.
func (s *Summary) Clean() bool {
	return len(s.Failures) == 0
}

// Load reads a Summary from a JSON file.
func Load(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading summary: %w", err)
	}

	var s Summary
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("parsing summary %s: %w", path, err)
	}
	return &s, nil
}

// Save writes the Summary as indented JSON.
func (s *Summary) Save(path string) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Package metrics aggregates assertion evaluation timings so slow
// providers (DOM reads, screenshot waits) show up in reports.
package metrics

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Collector records per-assertion evaluation latencies and outcomes.
// Safe for use from concurrently running engines sharing one collector.
type Collector struct {
	mu sync.Mutex

	evaluated atomic.Int64
	passed    atomic.Int64
	failed    atomic.Int64
	timedOut  atomic.Int64

	// Latencies in microseconds, 1us to 60s, 3 significant digits.
	histogram *hdrhistogram.Histogram
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{
		histogram: hdrhistogram.New(1, 60_000_000, 3),
	}
}

// Record adds one evaluation outcome.
func (c *Collector) Record(duration time.Duration, passed, timedOut bool) {
	c.evaluated.Add(1)
	if passed {
		c.passed.Add(1)
	} else {
		c.failed.Add(1)
	}
	if timedOut {
		c.timedOut.Add(1)
	}

	c.mu.Lock()
	_ = c.histogram.RecordValue(duration.Microseconds())
	c.mu.Unlock()
}

// Snapshot is a point-in-time view of the collector.
type Snapshot struct {
	Evaluated int64
	Passed    int64
	Failed    int64
	TimedOut  int64
	P50       time.Duration
	P95       time.Duration
	P99       time.Duration
	Max       time.Duration
}

// Snapshot returns the current aggregate view.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		Evaluated: c.evaluated.Load(),
		Passed:    c.passed.Load(),
		Failed:    c.failed.Load(),
		TimedOut:  c.timedOut.Load(),
		P50:       time.Duration(c.histogram.ValueAtQuantile(50)) * time.Microsecond,
		P95:       time.Duration(c.histogram.ValueAtQuantile(95)) * time.Microsecond,
		P99:       time.Duration(c.histogram.ValueAtQuantile(99)) * time.Microsecond,
		Max:       time.Duration(c.histogram.Max()) * time.Microsecond,
	}
}

// Reset clears all recorded values.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.evaluated.Store(0)
	c.passed.Store(0)
	c.failed.Store(0)
	c.timedOut.Store(0)
	c.histogram.Reset()
}

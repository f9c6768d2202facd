package assertions

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/abdul-hamid-achik/softcheck/packages/capture"
	"github.com/abdul-hamid-achik/softcheck/packages/compare"
	"github.com/abdul-hamid-achik/softcheck/packages/metrics"
)

// DefaultTimeout bounds how long Check waits for an actual-value
// provider to resolve when the assertion does not set its own timeout.
const DefaultTimeout = 10 * time.Second

// Mode decides what a failed comparison does.
type Mode int

const (
	// Hard raises immediately: Check returns an *AssertionError.
	Hard Mode = iota
	// Soft records the failure in the session and lets the test continue.
	Soft
)

func (m Mode) String() string {
	if m == Soft {
		return "soft"
	}
	return "hard"
}

// Provider is a deferred observation. The engine controls when and
// whether it runs, and bounds it with the assertion's timeout. Providers
// must be read-only: no side effects beyond observation.
type Provider func(ctx context.Context) (any, error)

// Value wraps an already-observed value as a Provider.
func Value(v any) Provider {
	return func(context.Context) (any, error) { return v, nil }
}

// Assertion is a single evaluation request.
type Assertion struct {
	// Description labels what is being checked.
	Description string
	// Expected is the required value, pattern, or composite shape.
	Expected any
	// Actual yields the observed value when invoked.
	Actual Provider
	// Mode selects hard (raise) or soft (defer) failure handling.
	Mode Mode
	// Timeout bounds the provider; zero means the engine default.
	Timeout time.Duration
	// Compare controls the composite walk when Expected is map-shaped.
	Compare compare.Options
	// Context is a short caller-supplied descriptor (element, request)
	// attached to the failure record.
	Context string
	// Capture overrides the engine's capture policy for this assertion.
	Capture *bool
}

// Engine evaluates assertions against one Session. One engine per
// logical test case; see the package comment.
type Engine struct {
	session       *Session
	timeout       time.Duration
	capturer      *capture.Capturer
	captureOnHard bool
	captureOnSoft bool
	collector     *metrics.Collector
}

// Option configures an Engine.
type Option func(*Engine)

// WithTimeout sets the default provider timeout.
func WithTimeout(d time.Duration) Option {
	return func(e *Engine) {
		e.timeout = d
	}
}

// WithCapturer installs a diagnostic capturer. Capture defaults to on
// for hard failures and off for soft ones.
func WithCapturer(c *capture.Capturer) Option {
	return func(e *Engine) {
		e.capturer = c
	}
}

// WithCaptureOnSoft enables or disables capture for soft failures.
func WithCaptureOnSoft(on bool) Option {
	return func(e *Engine) {
		e.captureOnSoft = on
	}
}

// WithCaptureOnHard enables or disables capture for hard failures.
func WithCaptureOnHard(on bool) Option {
	return func(e *Engine) {
		e.captureOnHard = on
	}
}

// WithCollector records evaluation timings into a metrics collector.
func WithCollector(c *metrics.Collector) Option {
	return func(e *Engine) {
		e.collector = c
	}
}

// New returns a fresh engine with its own empty session. Construct one
// per test case; never share a singleton across tests.
func New(opts ...Option) *Engine {
	e := &Engine{
		session:       NewSession(),
		timeout:       DefaultTimeout,
		captureOnHard: true,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Session returns the engine's session.
func (e *Engine) Session() *Session {
	return e.session
}

// Check evaluates one assertion. A passing assertion returns nil with no
// side effects. A failing hard assertion returns an *AssertionError; a
// failing soft assertion appends to the session and returns nil. When
// the surrounding test is cancelled, the in-flight provider wait is
// abandoned and the context error is returned without recording a
// failure — an abandoned assertion is not a failure.
func (e *Engine) Check(ctx context.Context, a Assertion) error {
	if a.Actual == nil {
		return fmt.Errorf("assertion %q has no actual-value provider", a.Description)
	}

	timeout := a.Timeout
	if timeout <= 0 {
		timeout = e.timeout
	}

	start := time.Now()
	actual, resolveErr := resolve(ctx, a.Actual, timeout)
	elapsed := time.Since(start)

	if ctx.Err() != nil {
		// Cancelled from outside; abandon without recording.
		return ctx.Err()
	}

	var passed bool
	var msg string
	timedOut := false

	switch {
	case resolveErr == context.DeadlineExceeded:
		timedOut = true
		msg = fmt.Sprintf("timed out after %v waiting for actual value", timeout)
	case resolveErr != nil:
		msg = fmt.Sprintf("reading actual value: %v", resolveErr)
	default:
		passed, msg = compare.Compare(actual, a.Expected, a.Compare)
	}

	if e.collector != nil {
		e.collector.Record(elapsed, passed, timedOut)
	}
	if passed {
		return nil
	}

	rec := FailureRecord{
		Description: a.Description,
		Expected:    a.Expected,
		Actual:      actual,
		Message:     fmt.Sprintf("%s: %s", a.Description, msg),
		Context:     a.Context,
		Timestamp:   time.Now(),
	}
	if timedOut {
		rec.Context = appendContext(rec.Context, "reason: timeout")
	}

	e.captureInto(ctx, &rec, a)

	if a.Mode == Hard {
		return &AssertionError{Record: rec}
	}
	e.session.append(rec)
	return nil
}

// RequireAll returns an *AggregateError listing every recorded soft
// failure in insertion order, or nil when none were recorded. It does
// not consume the records: repeated calls see the same set until Clear.
func (e *Engine) RequireAll() error {
	failures := e.session.Failures()
	if len(failures) == 0 {
		return nil
	}
	return &AggregateError{Records: failures}
}

// Failures returns a read-only snapshot of the session's soft failures.
func (e *Engine) Failures() []FailureRecord {
	return e.session.Failures()
}

// Clear resets the session.
func (e *Engine) Clear() {
	e.session.Clear()
}

// resolve runs the provider bounded by timeout. The provider receives
// the deadline-bearing context; a provider that honors it returns early,
// one that does not is abandoned to finish in the background.
func resolve(ctx context.Context, p Provider, timeout time.Duration) (any, error) {
	rctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	type outcome struct {
		value any
		err   error
	}
	done := make(chan outcome, 1)

	go func() {
		v, err := p(rctx)
		done <- outcome{v, err}
	}()

	select {
	case out := <-done:
		if out.err != nil && out.err == rctx.Err() {
			// Provider surfaced the context error itself; normalize so
			// timeout classification does not depend on provider style.
			return nil, normalizeCtxErr(ctx)
		}
		return out.value, out.err
	case <-rctx.Done():
		return nil, normalizeCtxErr(ctx)
	}
}

// normalizeCtxErr maps a done bounded context to either the parent's
// cancellation (abandon) or a deadline (timeout failure).
func normalizeCtxErr(parent context.Context) error {
	if parent.Err() != nil {
		return parent.Err()
	}
	return context.DeadlineExceeded
}

func (e *Engine) captureInto(ctx context.Context, rec *FailureRecord, a Assertion) {
	if e.capturer == nil {
		return
	}

	want := e.captureOnHard
	if a.Mode == Soft {
		want = e.captureOnSoft
	}
	if a.Capture != nil {
		want = *a.Capture
	}
	if !want {
		return
	}

	result := e.capturer.Screenshot(ctx, a.Description, a.Mode == Soft)
	if result.Ok {
		rec.Artifact = result.Artifact
		return
	}

	// Capture failure is logged and swallowed, never propagated.
	fmt.Fprintf(os.Stderr, "warning: diagnostic capture for %q unavailable: %s\n", a.Description, result.Reason)
	if rec.Context == "" {
		rec.Context = "unavailable"
	}
}

func appendContext(existing, extra string) string {
	if existing == "" {
		return extra
	}
	return existing + "; " + extra
}

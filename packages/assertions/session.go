package assertions

import (
	"time"

	"github.com/google/uuid"
)

// FailureRecord describes one failed comparison. Records are exclusively
// owned by the session that produced them and are held in insertion
// order for the lifetime of the current test scope.
type FailureRecord struct {
	Description string    `json:"description"`
	Expected    any       `json:"expected"`
	Actual      any       `json:"actual"`
	Message     string    `json:"message"`
	Context     string    `json:"context,omitempty"`
	Artifact    string    `json:"artifact,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// Session is the per-test-case accumulation scope for soft failures.
// It is mutated only by the single test goroutine that owns its engine;
// no synchronization is needed by construction.
type Session struct {
	id       string
	started  time.Time
	failures []FailureRecord
}

// NewSession creates an empty session with a fresh id.
func NewSession() *Session {
	return &Session{
		id:      uuid.New().String(),
		started: time.Now(),
	}
}

// ID returns the session's unique id.
func (s *Session) ID() string {
	return s.id
}

// StartedAt returns when the session was created.
func (s *Session) StartedAt() time.Time {
	return s.started
}

func (s *Session) append(r FailureRecord) {
	s.failures = append(s.failures, r)
}

// Failures returns a read-only snapshot of the recorded soft failures in
// insertion order.
func (s *Session) Failures() []FailureRecord {
	out := make([]FailureRecord, len(s.failures))
	copy(out, s.failures)
	return out
}

// Clear resets the session to empty. Must be called between logical test
// cases if the owning engine is reused.
func (s *Session) Clear() {
	s.failures = s.failures[:0]
}

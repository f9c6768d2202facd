package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abdul-hamid-achik/softcheck/packages/assertions"
	"github.com/abdul-hamid-achik/softcheck/packages/report"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func sampleSummary(id, name string, failures ...string) *report.Summary {
	s := &report.Summary{
		SessionID: id,
		Name:      name,
		StartedAt: time.Now().Add(-time.Minute),
		Stats: report.Stats{
			Evaluated: int64(len(failures) + 1),
			Passed:    1,
			Failed:    int64(len(failures)),
		},
	}
	for _, desc := range failures {
		s.Failures = append(s.Failures, assertions.FailureRecord{
			Description: desc,
			Expected:    3,
			Actual:      2,
			Message:     desc + ": expected 3, got 2",
			Timestamp:   time.Now(),
		})
	}
	return s
}

func TestStore_SaveAndList(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, sampleSummary("s1", "login", "a", "b")))
	require.NoError(t, store.SaveSession(ctx, sampleSummary("s2", "checkout")))

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	byID := map[string]SessionRow{}
	for _, s := range sessions {
		byID[s.ID] = s
	}
	assert.Equal(t, "login", byID["s1"].Name)
	assert.Equal(t, int64(2), byID["s1"].Failed)
	assert.Equal(t, int64(0), byID["s2"].Failed)
}

func TestStore_FailuresPreserveOrder(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, sampleSummary("s1", "login", "first", "second", "third")))

	failures, err := store.SessionFailures(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, failures, 3)
	assert.Equal(t, "first", failures[0].Description)
	assert.Equal(t, "second", failures[1].Description)
	assert.Equal(t, "third", failures[2].Description)

	// Expected/actual survive the JSON round trip as numbers.
	assert.Equal(t, float64(3), failures[0].Expected)
	assert.Equal(t, float64(2), failures[0].Actual)
}

func TestStore_SaveIsIdempotentPerSession(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, sampleSummary("s1", "login", "a")))
	require.NoError(t, store.SaveSession(ctx, sampleSummary("s1", "login", "a", "b")))

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	failures, err := store.SessionFailures(ctx, "s1")
	require.NoError(t, err)
	assert.Len(t, failures, 2)
}

func TestStore_Prune(t *testing.T) {
	store := openStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveSession(ctx, sampleSummary("old", "old run", "a")))

	n, err := store.Prune(ctx, time.Now().Add(time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	sessions, err := store.ListSessions(ctx, 10)
	require.NoError(t, err)
	assert.Empty(t, sessions)
}

func TestStore_UnknownSessionHasNoFailures(t *testing.T) {
	store := openStore(t)
	failures, err := store.SessionFailures(context.Background(), "nope")
	require.NoError(t, err)
	assert.Empty(t, failures)
}

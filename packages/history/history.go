// Package history persists assertion session summaries to SQLite so
// failures can be inspected after the run that produced them.
package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/softcheck/packages/assertions"
	"github.com/abdul-hamid-achik/softcheck/packages/report"
)

const schema = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	started_at TIMESTAMP NOT NULL,
	saved_at   TIMESTAMP NOT NULL,
	evaluated  INTEGER NOT NULL,
	passed     INTEGER NOT NULL,
	failed     INTEGER NOT NULL,
	timed_out  INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS failures (
	session_id  TEXT NOT NULL REFERENCES sessions(id) ON DELETE CASCADE,
	seq         INTEGER NOT NULL,
	description TEXT NOT NULL,
	expected    TEXT,
	actual      TEXT,
	message     TEXT NOT NULL,
	context     TEXT,
	artifact    TEXT,
	timestamp   TIMESTAMP NOT NULL,
	PRIMARY KEY (session_id, seq)
);
`

// Store is a SQLite-backed session archive.
type Store struct {
	db           *sql.DB
	queryTimeout time.Duration
}

// Open opens (creating if needed) the store at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("connecting to history database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}

	return &Store{db: db, queryTimeout: 30 * time.Second}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// SaveSession persists a summary and its failures in insertion order.
func (s *Store) SaveSession(ctx context.Context, sum *report.Summary) error {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO sessions (id, name, started_at, saved_at, evaluated, passed, failed, timed_out)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		sum.SessionID, sum.Name, sum.StartedAt, time.Now(),
		sum.Stats.Evaluated, sum.Stats.Passed, sum.Stats.Failed, sum.Stats.TimedOut)
	if err != nil {
		return fmt.Errorf("saving session: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM failures WHERE session_id = ?`, sum.SessionID); err != nil {
		return fmt.Errorf("clearing old failures: %w", err)
	}

	for i, r := range sum.Failures {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO failures (session_id, seq, description, expected, actual, message, context, artifact, timestamp)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			sum.SessionID, i, r.Description, asJSON(r.Expected), asJSON(r.Actual),
			r.Message, r.Context, r.Artifact, r.Timestamp)
		if err != nil {
			return fmt.Errorf("saving failure %d: %w", i, err)
		}
	}

	return tx.Commit()
}

// SessionRow is one row of the session listing.
type SessionRow struct {
	ID        string
	Name      string
	StartedAt time.Time
	SavedAt   time.Time
	Evaluated int64
	Passed    int64
	Failed    int64
	TimedOut  int64
}

// ListSessions returns up to limit sessions, most recent first.
func (s *Store) ListSessions(ctx context.Context, limit int) ([]SessionRow, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	if limit <= 0 {
		limit = 50
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, started_at, saved_at, evaluated, passed, failed, timed_out
		 FROM sessions ORDER BY saved_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing sessions: %w", err)
	}
	defer rows.Close()

	var out []SessionRow
	for rows.Next() {
		var r SessionRow
		if err := rows.Scan(&r.ID, &r.Name, &r.StartedAt, &r.SavedAt,
			&r.Evaluated, &r.Passed, &r.Failed, &r.TimedOut); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// SessionFailures returns a session's failure records in their original
// insertion order.
func (s *Store) SessionFailures(ctx context.Context, sessionID string) ([]assertions.FailureRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	rows, err := s.db.QueryContext(ctx,
		`SELECT description, expected, actual, message, context, artifact, timestamp
		 FROM failures WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("loading failures: %w", err)
	}
	defer rows.Close()

	var out []assertions.FailureRecord
	for rows.Next() {
		var r assertions.FailureRecord
		var expected, actual, failCtx, artifact sql.NullString
		if err := rows.Scan(&r.Description, &expected, &actual, &r.Message,
			&failCtx, &artifact, &r.Timestamp); err != nil {
			return nil, fmt.Errorf("scanning failure: %w", err)
		}
		r.Expected = fromJSON(expected.String)
		r.Actual = fromJSON(actual.String)
		r.Context = failCtx.String
		r.Artifact = artifact.String
		out = append(out, r)
	}
	return out, rows.Err()
}

// Prune deletes sessions saved before the cutoff and returns how many
// were removed.
func (s *Store) Prune(ctx context.Context, before time.Time) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, s.queryTimeout)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE saved_at < ?`, before)
	if err != nil {
		return 0, fmt.Errorf("pruning sessions: %w", err)
	}
	return res.RowsAffected()
}

func asJSON(v any) string {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%q", fmt.Sprintf("%v", v))
	}
	return string(data)
}

func fromJSON(s string) any {
	if s == "" {
		return nil
	}
	var v any
	if err := json.Unmarshal([]byte(s), &v); err != nil {
		return s
	}
	return v
}

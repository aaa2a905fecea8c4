package eventlog

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	// Import the SQLite driver.
	_ "modernc.org/sqlite"

	"github.com/sky-flux/mastery"
)

const schema = `
CREATE TABLE IF NOT EXISTS batches (
	id         TEXT PRIMARY KEY,
	source     TEXT NOT NULL,
	created_at INTEGER NOT NULL,
	events     INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS events (
	batch_id   TEXT NOT NULL REFERENCES batches(id),
	learner_id INTEGER NOT NULL,
	time       INTEGER NOT NULL,
	response   INTEGER NOT NULL,
	state      INTEGER NOT NULL,
	censored   INTEGER NOT NULL,
	active     INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_events_batch ON events (batch_id, learner_id, time);
`

// Batch describes one imported event log.
type Batch struct {
	ID        string
	Source    string
	CreatedAt time.Time
	Events    int
}

// Store keeps imported event logs in a SQLite database.
type Store struct {
	db *sql.DB
}

// OpenStore opens (creating if needed) the SQLite database at path.
// Use ":memory:" for a throwaway store.
func OpenStore(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("eventlog: database path required")
	}

	// modernc.org/sqlite takes pragmas as _pragma= query parameters.
	db, err := sql.Open("sqlite", path+"?_pragma=busy_timeout(10000)&_pragma=journal_mode(WAL)")
	if err != nil {
		return nil, errors.Wrapf(err, "eventlog: open %s", path)
	}
	// One connection keeps ":memory:" databases alive across calls and
	// serialises writers.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "eventlog: create schema")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// ImportEvents stores events as a new batch and returns it.
func (s *Store) ImportEvents(ctx context.Context, source string, events []mastery.Event) (Batch, error) {
	b := Batch{
		ID:        uuid.NewString(),
		Source:    source,
		CreatedAt: time.Now().UTC(),
		Events:    len(events),
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Batch{}, errors.Wrap(err, "eventlog: begin import")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO batches (id, source, created_at, events) VALUES (?, ?, ?, ?)",
		b.ID, b.Source, b.CreatedAt.UnixNano(), b.Events,
	); err != nil {
		return Batch{}, errors.Wrap(err, "eventlog: insert batch")
	}

	stmt, err := tx.PrepareContext(ctx,
		"INSERT INTO events (batch_id, learner_id, time, response, state, censored, active) VALUES (?, ?, ?, ?, ?, ?, ?)")
	if err != nil {
		return Batch{}, errors.Wrap(err, "eventlog: prepare insert")
	}
	defer stmt.Close()

	for i, e := range events {
		if _, err := stmt.ExecContext(ctx,
			b.ID, e.LearnerID, e.Time, e.Response, e.State, e.Censored, e.Active,
		); err != nil {
			return Batch{}, errors.Wrapf(err, "eventlog: insert event %d", i)
		}
	}

	if err := tx.Commit(); err != nil {
		return Batch{}, errors.Wrap(err, "eventlog: commit import")
	}
	return b, nil
}

// LoadEvents returns the events of a batch ordered by learner, time and
// import order.
func (s *Store) LoadEvents(ctx context.Context, batchID string) ([]mastery.Event, error) {
	var n int
	err := s.db.QueryRowContext(ctx, "SELECT events FROM batches WHERE id = ?", batchID).Scan(&n)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, errors.Wrapf(ErrBatchNotFound, "id %s", batchID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "eventlog: find batch")
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT learner_id, time, response, state, censored, active
		FROM events
		WHERE batch_id = ?
		ORDER BY learner_id, time, rowid`, batchID)
	if err != nil {
		return nil, errors.Wrap(err, "eventlog: query events")
	}
	defer rows.Close()

	events := make([]mastery.Event, 0, n)
	for rows.Next() {
		var e mastery.Event
		if err := rows.Scan(&e.LearnerID, &e.Time, &e.Response, &e.State, &e.Censored, &e.Active); err != nil {
			return nil, errors.Wrap(err, "eventlog: scan event")
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "eventlog: read events")
	}
	return events, nil
}

// Batches lists every stored batch, oldest first.
func (s *Store) Batches(ctx context.Context) ([]Batch, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, source, created_at, events FROM batches ORDER BY created_at, rowid")
	if err != nil {
		return nil, errors.Wrap(err, "eventlog: query batches")
	}
	defer rows.Close()

	var out []Batch
	for rows.Next() {
		var (
			b    Batch
			nano int64
		)
		if err := rows.Scan(&b.ID, &b.Source, &nano, &b.Events); err != nil {
			return nil, errors.Wrap(err, "eventlog: scan batch")
		}
		b.CreatedAt = time.Unix(0, nano).UTC()
		out = append(out, b)
	}
	return out, rows.Err()
}

// LatestBatch returns the most recently imported batch.
func (s *Store) LatestBatch(ctx context.Context) (Batch, error) {
	batches, err := s.Batches(ctx)
	if err != nil {
		return Batch{}, err
	}
	if len(batches) == 0 {
		return Batch{}, ErrBatchNotFound
	}
	return batches[len(batches)-1], nil
}

// SPDX-License-Identifier: MIT
// Package runlog persists training progress events to a SQL database so runs
// can be compared after the fact. Only metrics are stored; weights are not.
//
// The caller owns the *sql.DB and registers the driver (for example with a
// blank import of github.com/go-sql-driver/mysql or modernc.org/sqlite).
package runlog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/katalvlaran/deepbelief/progress"
)

// Dialect selects the DDL flavour used by Open.
type Dialect string

// Supported dialects; the values double as database/sql driver names.
const (
	MySQL  Dialect = "mysql"
	SQLite Dialect = "sqlite"
)

// TableName is the table Open creates.
const TableName = "training_events"

var (
	// ErrUnknownDialect indicates a dialect other than MySQL or SQLite.
	ErrUnknownDialect = errors.New("runlog: unknown dialect")
	// ErrEmptyRunID indicates an empty run identifier.
	ErrEmptyRunID = errors.New("runlog: run id must not be empty")
	// ErrNilDB indicates a nil database handle.
	ErrNilDB = errors.New("runlog: db must not be nil")
)

var schemas = map[Dialect]string{
	MySQL: `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	id          BIGINT AUTO_INCREMENT PRIMARY KEY,
	run_id      VARCHAR(64) NOT NULL,
	kind        INT NOT NULL,
	layer       INT NOT NULL,
	seq         INT NOT NULL,
	rec_error   DOUBLE NOT NULL,
	duration_ns BIGINT NOT NULL,
	recorded_at DATETIME(6) NOT NULL,
	INDEX idx_training_events_run (run_id, id)
)`,
	SQLite: `CREATE TABLE IF NOT EXISTS ` + TableName + ` (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	run_id      TEXT NOT NULL,
	kind        INTEGER NOT NULL,
	layer       INTEGER NOT NULL,
	seq         INTEGER NOT NULL,
	rec_error   REAL NOT NULL,
	duration_ns INTEGER NOT NULL,
	recorded_at TIMESTAMP NOT NULL
)`,
}

const (
	insertEvent = `INSERT INTO ` + TableName +
		` (run_id, kind, layer, seq, rec_error, duration_ns, recorded_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
	selectEvents = `SELECT kind, layer, seq, rec_error, duration_ns FROM ` + TableName +
		` WHERE run_id = ? ORDER BY id`
)

// ParseDialect maps a driver name to its Dialect.
func ParseDialect(name string) (Dialect, error) {
	d := Dialect(name)
	if _, ok := schemas[d]; !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownDialect, name)
	}

	return d, nil
}

// Store writes and reads training events.
type Store struct {
	db      *sql.DB
	dialect Dialect
	log     logrus.FieldLogger

	mu   sync.Mutex
	errs error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used to report failed writes.
// Defaults to a logrus logger at Warn level.
func WithLogger(l logrus.FieldLogger) Option {
	if l == nil {
		panic("runlog: WithLogger: logger must not be nil")
	}

	return func(s *Store) { s.log = l }
}

// Open creates the events table if needed and returns a Store backed by db.
func Open(ctx context.Context, db *sql.DB, dialect Dialect, opts ...Option) (*Store, error) {
	if db == nil {
		return nil, ErrNilDB
	}
	ddl, ok := schemas[dialect]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownDialect, string(dialect))
	}
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return nil, fmt.Errorf("runlog: create %s: %w", TableName, err)
	}

	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)
	s := &Store{db: db, dialect: dialect, log: l}
	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Dialect returns the dialect the store was opened with.
func (s *Store) Dialect() Dialect { return s.dialect }

// Record inserts a single event under runID.
func (s *Store) Record(ctx context.Context, runID string, e progress.Event) error {
	if runID == "" {
		return ErrEmptyRunID
	}
	_, err := s.db.ExecContext(ctx, insertEvent,
		runID, int(e.Kind), e.Layer, e.Sequence, e.Error, e.Duration.Nanoseconds(), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("runlog: insert %s: %w", e.Kind, err)
	}

	return nil
}

// Observer returns a progress.Observer that records every event under runID.
// Notify cannot fail, so write errors are logged and collected; see Err.
func (s *Store) Observer(runID string) progress.Observer {
	return progress.ObserverFunc(func(e progress.Event) {
		if err := s.Record(context.Background(), runID, e); err != nil {
			s.log.WithFields(logrus.Fields{"run": runID, "kind": e.Kind.String()}).WithError(err).Warn("history write failed")
			s.mu.Lock()
			s.errs = multierr.Append(s.errs, err)
			s.mu.Unlock()
		}
	})
}

// Err returns every write error collected by observers, combined, or nil.
func (s *Store) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.errs
}

// Events returns the events of runID in insertion order.
func (s *Store) Events(ctx context.Context, runID string) ([]progress.Event, error) {
	if runID == "" {
		return nil, ErrEmptyRunID
	}
	rows, err := s.db.QueryContext(ctx, selectEvents, runID)
	if err != nil {
		return nil, fmt.Errorf("runlog: query %s: %w", runID, err)
	}
	defer rows.Close()

	events := []progress.Event{}
	for rows.Next() {
		var (
			kind, layer, seq int
			recErr           float64
			durationNS       int64
		)
		if err := rows.Scan(&kind, &layer, &seq, &recErr, &durationNS); err != nil {
			return nil, fmt.Errorf("runlog: scan: %w", err)
		}
		events = append(events, progress.Event{
			Kind:     progress.Kind(kind),
			Layer:    layer,
			Sequence: seq,
			Error:    recErr,
			Duration: time.Duration(durationNS),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("runlog: rows: %w", err)
	}

	return events, nil
}

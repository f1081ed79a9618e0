// SPDX-License-Identifier: MIT
package runlog_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/deepbelief/matrix"
	"github.com/katalvlaran/deepbelief/progress"
	"github.com/katalvlaran/deepbelief/rbm"
	"github.com/katalvlaran/deepbelief/rng"
	"github.com/katalvlaran/deepbelief/runlog"
)

func openDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestParseDialect(t *testing.T) {
	t.Parallel()
	for _, name := range []string{"mysql", "sqlite"} {
		d, err := runlog.ParseDialect(name)
		require.NoError(t, err)
		require.Equal(t, runlog.Dialect(name), d)
	}
	_, err := runlog.ParseDialect("postgres")
	require.ErrorIs(t, err, runlog.ErrUnknownDialect)
}

func TestOpen_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	_, err := runlog.Open(ctx, nil, runlog.SQLite)
	require.ErrorIs(t, err, runlog.ErrNilDB)
	_, err = runlog.Open(ctx, openDB(t), runlog.Dialect("oracle"))
	require.ErrorIs(t, err, runlog.ErrUnknownDialect)
	require.Panics(t, func() { runlog.WithLogger(nil) })
}

func TestStore_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	store, err := runlog.Open(ctx, db, runlog.SQLite)
	require.NoError(t, err)
	require.Equal(t, runlog.SQLite, store.Dialect())

	// a second Open on the same database is a no-op
	_, err = runlog.Open(ctx, db, runlog.SQLite)
	require.NoError(t, err)

	want := []progress.Event{
		{Kind: progress.EpochEnd, Layer: 0, Sequence: 0, Error: 12.5, Duration: 3 * time.Millisecond},
		{Kind: progress.EpochEnd, Layer: 0, Sequence: 1, Error: 0.1 + 0.2, Duration: time.Microsecond},
		{Kind: progress.TrainEnd, Layer: progress.NoLayer, Sequence: 2, Error: 0.3, Duration: time.Second},
	}
	a := store.Observer("run-a")
	b := store.Observer("run-b")
	for i, e := range want {
		a.Notify(e)
		if i == 0 {
			b.Notify(progress.Event{Kind: progress.StackEnd, Layer: 1, Sequence: 2, Error: 7})
		}
	}
	require.NoError(t, store.Err())

	got, err := store.Events(ctx, "run-a")
	require.NoError(t, err)
	require.Equal(t, want, got)

	got, err = store.Events(ctx, "run-b")
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, progress.StackEnd, got[0].Kind)

	got, err = store.Events(ctx, "run-c")
	require.NoError(t, err)
	require.Empty(t, got)

	_, err = store.Events(ctx, "")
	require.ErrorIs(t, err, runlog.ErrEmptyRunID)
	require.ErrorIs(t, store.Record(ctx, "", want[0]), runlog.ErrEmptyRunID)
}

func TestStore_RecordsTraining(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store, err := runlog.Open(ctx, openDB(t), runlog.SQLite)
	require.NoError(t, err)

	r, err := rbm.New(4, 2, rbm.WithSource(rng.New(1)), rbm.WithObserver(store.Observer("train")))
	require.NoError(t, err)
	data, err := matrix.NewDenseFrom([][]float64{{1, 1, 0, 0}, {0, 0, 1, 1}})
	require.NoError(t, err)
	final, err := r.Train(data, 5)
	require.NoError(t, err)

	events, err := store.Events(ctx, "train")
	require.NoError(t, err)
	require.Len(t, events, 6)
	for i, e := range events[:5] {
		require.Equal(t, progress.EpochEnd, e.Kind)
		require.Equal(t, i, e.Sequence)
	}
	last := events[5]
	require.Equal(t, progress.TrainEnd, last.Kind)
	require.Equal(t, 5, last.Sequence)
	require.Equal(t, final, last.Error)
}

func TestObserver_CollectsWriteErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	db := openDB(t)
	logger, hook := logtest.NewNullLogger()
	store, err := runlog.Open(ctx, db, runlog.SQLite, runlog.WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, db.Close())

	obs := store.Observer("closed")
	obs.Notify(progress.Event{Kind: progress.EpochEnd})
	obs.Notify(progress.Event{Kind: progress.TrainEnd})

	require.Error(t, store.Err())
	require.Len(t, hook.AllEntries(), 2)
	entry := hook.LastEntry()
	require.Equal(t, logrus.WarnLevel, entry.Level)
	require.Equal(t, "history write failed", entry.Message)
	require.Equal(t, "closed", entry.Data["run"])
	require.Equal(t, "train_end", entry.Data["kind"])
}

// SPDX-License-Identifier: MIT
// Command dbn pretrains a Deep Belief Network on optdigits-style bitmaps,
// prints reconstructions of the first samples and a few daydreams.
//
// Configuration comes from flags, which override DBN_* environment
// variables, which override a .env file in the working directory.
// With -history-dsn set, every training event is also written to a MySQL
// or SQLite database.
package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/sirupsen/logrus"
	_ "modernc.org/sqlite"

	"github.com/katalvlaran/deepbelief/dataset"
	"github.com/katalvlaran/deepbelief/dbn"
	"github.com/katalvlaran/deepbelief/matrix"
	"github.com/katalvlaran/deepbelief/progress"
	"github.com/katalvlaran/deepbelief/rng"
	"github.com/katalvlaran/deepbelief/runlog"
)

const (
	// reconstructed is the number of samples echoed after training.
	reconstructed = 2
	// reportEvery throttles the console epoch reports.
	reportEvery = 10
)

func main() {
	lookup, err := envLookup(".env")
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	cfg, err := parseConfig(os.Args[1:], lookup, os.Stderr)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	log.SetLevel(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, os.Stdout); err != nil {
		log.WithError(err).Fatal("dbn failed")
	}
}

func run(ctx context.Context, cfg config, log *logrus.Logger, out io.Writer) error {
	src := rng.NewTimeSeeded()
	if cfg.Seed != 0 {
		src = rng.New(cfg.Seed)
	}

	data, err := dataset.ParseFile(cfg.Data, cfg.Layers[0])
	if err != nil {
		return err
	}
	if cfg.Take > 0 && cfg.Take < data.Rows() {
		if data, err = matrix.Submatrix(data, 0, 0, cfg.Take, 0); err != nil {
			return err
		}
	}
	log.WithFields(logrus.Fields{"samples": data.Rows(), "width": data.Cols()}).Info("dataset loaded")

	obs := consoleObserver(log)
	var store *runlog.Store
	if cfg.HistoryDSN != "" {
		var closeDB func() error
		store, closeDB, err = openHistory(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer closeDB()
		runID := fmt.Sprintf("run-%d", time.Now().UnixNano())
		obs = progress.Multi(obs, store.Observer(runID))
		log.WithField("run", runID).Info("recording training history")
	}

	net, err := dbn.New(cfg.Layers,
		dbn.WithLearningRate(cfg.LearningRate),
		dbn.WithSource(src),
		dbn.WithObserver(obs),
		dbn.WithLogger(log),
		dbn.WithSchedule(cfg.Schedule),
	)
	if err != nil {
		return err
	}

	if _, err := net.TrainAllContext(ctx, data, cfg.Epochs, cfg.Multiplier); err != nil {
		return err
	}
	if store != nil {
		if err := store.Err(); err != nil {
			log.WithError(err).Warn("some history writes failed")
		}
	}

	n := reconstructed
	if data.Rows() < n {
		n = data.Rows()
	}
	head, err := matrix.Submatrix(data, 0, 0, n, 0)
	if err != nil {
		return err
	}
	rec, err := net.Reconstruct(head)
	if err != nil {
		return err
	}
	for i := 0; i < n; i++ {
		fmt.Fprintf(out, "\nsample %d:", i)
		if err := printRow(out, head, i, cfg.Cols); err != nil {
			return err
		}
		fmt.Fprintf(out, "\nreconstruction %d:", i)
		if err := printRow(out, rec, i, cfg.Cols); err != nil {
			return err
		}
	}

	if cfg.Dreams > 0 {
		dreams, err := net.DayDream(cfg.Dreams)
		if err != nil {
			return err
		}
		for i := 0; i < dreams.Rows(); i++ {
			fmt.Fprintf(out, "\ndream %d:", i)
			if err := printRow(out, dreams, i, cfg.Cols); err != nil {
				return err
			}
		}
	}
	fmt.Fprintln(out)

	return nil
}

func printRow(out io.Writer, m *matrix.Dense, i, cols int) error {
	row, err := m.Row(i)
	if err != nil {
		return err
	}

	return dataset.PrintMap(out, row, cols)
}

// consoleObserver reports every reportEvery-th epoch at Info level; layer and
// stack summaries are logged by the network itself.
func consoleObserver(log logrus.FieldLogger) progress.Observer {
	return progress.ObserverFunc(func(e progress.Event) {
		if e.Kind != progress.EpochEnd || e.Sequence%reportEvery != 0 {
			return
		}
		log.WithFields(logrus.Fields{
			"layer":   e.Layer,
			"epoch":   e.Sequence,
			"error":   e.Error,
			"elapsed": e.Duration,
		}).Info("epoch")
	})
}

func openHistory(ctx context.Context, cfg config, log logrus.FieldLogger) (*runlog.Store, func() error, error) {
	dialect, err := runlog.ParseDialect(cfg.HistoryDriver)
	if err != nil {
		return nil, nil, err
	}
	db, err := sql.Open(cfg.HistoryDriver, cfg.HistoryDSN)
	if err != nil {
		return nil, nil, fmt.Errorf("open history: %w", err)
	}
	store, err := runlog.Open(ctx, db, dialect, runlog.WithLogger(log))
	if err != nil {
		_ = db.Close()
		return nil, nil, err
	}

	return store, db.Close, nil
}

// SPDX-License-Identifier: MIT
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/katalvlaran/deepbelief/dbn"
)

// envPrefix prefixes every environment override, e.g. DBN_EPOCHS.
const envPrefix = "DBN_"

var errBadLayers = errors.New("layers must be a comma-separated list of at least two positive sizes")

type config struct {
	Data          string
	Layers        []int
	LearningRate  float64
	Epochs        int
	Multiplier    int
	Take          int
	Dreams        int
	Cols          int
	Seed          int64
	Schedule      dbn.Schedule
	LogLevel      logrus.Level
	HistoryDSN    string
	HistoryDriver string
}

func defaultConfig() config {
	return config{
		Data:          "data/optdigits-orig.tra",
		Layers:        []int{1024, 50, 16},
		LearningRate:  0.3,
		Epochs:        150,
		Multiplier:    5,
		Take:          100,
		Dreams:        10,
		Cols:          32,
		Schedule:      dbn.Geometric,
		LogLevel:      logrus.InfoLevel,
		HistoryDriver: "sqlite",
	}
}

// lookupFunc reports the value of an environment key.
type lookupFunc func(key string) (string, bool)

// envLookup layers the process environment over the .env file at path.
// A missing file is not an error.
func envLookup(path string) (lookupFunc, error) {
	file, err := godotenv.Read(path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}

	return func(key string) (string, bool) {
		if v, ok := os.LookupEnv(key); ok {
			return v, true
		}
		v, ok := file[key]
		return v, ok
	}, nil
}

// parseConfig resolves defaults, then environment, then flags.
func parseConfig(args []string, lookup lookupFunc, out io.Writer) (config, error) {
	cfg := defaultConfig()
	var errs error

	env := func(name string, set func(string) error) {
		v, ok := lookup(envPrefix + name)
		if !ok || v == "" {
			return
		}
		if err := set(v); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("%s%s=%q: %w", envPrefix, name, v, err))
		}
	}
	env("DATA", func(v string) error { cfg.Data = v; return nil })
	env("LAYERS", func(v string) (err error) { cfg.Layers, err = parseLayers(v); return })
	env("LR", func(v string) (err error) { cfg.LearningRate, err = strconv.ParseFloat(v, 64); return })
	env("EPOCHS", func(v string) (err error) { cfg.Epochs, err = strconv.Atoi(v); return })
	env("MULTIPLIER", func(v string) (err error) { cfg.Multiplier, err = strconv.Atoi(v); return })
	env("TAKE", func(v string) (err error) { cfg.Take, err = strconv.Atoi(v); return })
	env("DREAMS", func(v string) (err error) { cfg.Dreams, err = strconv.Atoi(v); return })
	env("COLS", func(v string) (err error) { cfg.Cols, err = strconv.Atoi(v); return })
	env("SEED", func(v string) (err error) { cfg.Seed, err = strconv.ParseInt(v, 10, 64); return })
	env("SCHEDULE", func(v string) (err error) { cfg.Schedule, err = dbn.ParseSchedule(v); return })
	env("LOG_LEVEL", func(v string) (err error) { cfg.LogLevel, err = logrus.ParseLevel(v); return })
	env("HISTORY_DSN", func(v string) error { cfg.HistoryDSN = v; return nil })
	env("HISTORY_DRIVER", func(v string) error { cfg.HistoryDriver = v; return nil })
	if errs != nil {
		return cfg, errs
	}

	fset := flag.NewFlagSet("dbn", flag.ContinueOnError)
	fset.SetOutput(out)
	layers := fset.String("layers", joinLayers(cfg.Layers), "comma-separated layer sizes, visible first")
	schedule := fset.String("schedule", cfg.Schedule.String(), "per-layer epoch schedule: geometric or linear")
	level := fset.String("log-level", cfg.LogLevel.String(), "logrus level: debug, info, warn, error")
	fset.StringVar(&cfg.Data, "data", cfg.Data, "path to the optdigits-style bitmap file")
	fset.Float64Var(&cfg.LearningRate, "lr", cfg.LearningRate, "learning rate of every layer")
	fset.IntVar(&cfg.Epochs, "epochs", cfg.Epochs, "epochs of the bottom layer")
	fset.IntVar(&cfg.Multiplier, "multiplier", cfg.Multiplier, "epoch multiplier for higher layers")
	fset.IntVar(&cfg.Take, "take", cfg.Take, "train on the first N samples (0 = all)")
	fset.IntVar(&cfg.Dreams, "dreams", cfg.Dreams, "number of daydream samples to print")
	fset.IntVar(&cfg.Cols, "cols", cfg.Cols, "pixels per printed bitmap line")
	fset.Int64Var(&cfg.Seed, "seed", cfg.Seed, "random seed (0 = time seeded)")
	fset.StringVar(&cfg.HistoryDSN, "history-dsn", cfg.HistoryDSN, "training history database DSN (empty = disabled)")
	fset.StringVar(&cfg.HistoryDriver, "history-driver", cfg.HistoryDriver, "training history driver: mysql or sqlite")
	if err := fset.Parse(args); err != nil {
		return cfg, err
	}

	var err error
	if cfg.Layers, err = parseLayers(*layers); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("-layers %q: %w", *layers, err))
	}
	if cfg.Schedule, err = dbn.ParseSchedule(*schedule); err != nil {
		errs = multierr.Append(errs, err)
	}
	if cfg.LogLevel, err = logrus.ParseLevel(*level); err != nil {
		errs = multierr.Append(errs, err)
	}
	if cfg.Epochs < 0 || cfg.Multiplier < 0 || cfg.Take < 0 || cfg.Dreams < 0 || cfg.Cols <= 0 {
		errs = multierr.Append(errs, errors.New("epochs, multiplier, take and dreams must be >= 0 and cols > 0"))
	}

	return cfg, errs
}

func parseLayers(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return nil, errBadLayers
	}
	sizes := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || n <= 0 {
			return nil, errBadLayers
		}
		sizes[i] = n
	}

	return sizes, nil
}

func joinLayers(sizes []int) string {
	parts := make([]string, len(sizes))
	for i, n := range sizes {
		parts[i] = strconv.Itoa(n)
	}

	return strings.Join(parts, ",")
}

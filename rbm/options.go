// SPDX-License-Identifier: MIT
// Package: rbm
//
// Functional configuration for New:
//   - documented defaults (constants),
//   - WithX constructors that panic on nonsensical values (programmer error),
//   - gatherOptions, the single place defaults are applied.

package rbm

import (
	"math"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/deepbelief/progress"
	"github.com/katalvlaran/deepbelief/rng"
)

// ---------- Defaults (single source of truth) ----------

const (
	// DefaultLearningRate is the CD-1 step size.
	DefaultLearningRate = 0.1

	// DefaultInitScale multiplies the N(0,1) draws of the initial weights.
	DefaultInitScale = 0.1
)

// ---------- Internal panic messages (no magic strings) ----------

const (
	panicLearningRateInvalid = "rbm: WithLearningRate: learning rate must be finite and > 0"
	panicInitScaleInvalid    = "rbm: WithInitScale: scale must be finite and >= 0"
	panicSourceNil           = "rbm: WithSource: source must not be nil"
	panicObserverNil         = "rbm: WithObserver: observer must not be nil"
	panicLoggerNil           = "rbm: WithLogger: logger must not be nil"
)

// Option configures an RBM.
type Option func(*options)

type options struct {
	learningRate float64
	initScale    float64
	src          rng.Source
	obs          progress.Observer
	log          logrus.FieldLogger
}

// WithLearningRate sets the CD-1 step size.
// Panics when lr is NaN, ±Inf or not strictly positive.
func WithLearningRate(lr float64) Option {
	if math.IsNaN(lr) || math.IsInf(lr, 0) || lr <= 0 {
		panic(panicLearningRateInvalid)
	}

	return func(o *options) { o.learningRate = lr }
}

// WithInitScale sets the scale of the initial Gaussian weights.
func WithInitScale(s float64) Option {
	if math.IsNaN(s) || math.IsInf(s, 0) || s < 0 {
		panic(panicInitScaleInvalid)
	}

	return func(o *options) { o.initScale = s }
}

// WithSource injects the random source used for initialization and sampling.
// Defaults to rng.Default().
func WithSource(src rng.Source) Option {
	if src == nil {
		panic(panicSourceNil)
	}

	return func(o *options) { o.src = src }
}

// WithObserver subscribes obs to epoch and training-completion events.
func WithObserver(obs progress.Observer) Option {
	if obs == nil {
		panic(panicObserverNil)
	}

	return func(o *options) { o.obs = obs }
}

// WithLogger sets the structured logger. Epochs are logged at Debug, completed
// runs at Info.
func WithLogger(log logrus.FieldLogger) Option {
	if log == nil {
		panic(panicLoggerNil)
	}

	return func(o *options) { o.log = log }
}

// DefaultLogger returns the logger used when none is injected: logrus on
// stderr at Warn level, so training is silent unless something goes wrong.
func DefaultLogger() *logrus.Logger {
	l := logrus.New()
	l.SetLevel(logrus.WarnLevel)

	return l
}

// gatherOptions applies user setters on top of the defaults (last writer wins).
func gatherOptions(user ...Option) options {
	o := options{
		learningRate: DefaultLearningRate,
		initScale:    DefaultInitScale,
		obs:          progress.Discard,
	}
	for _, opt := range user {
		opt(&o)
	}
	if o.src == nil {
		o.src = rng.Default()
	}
	if o.log == nil {
		o.log = DefaultLogger()
	}

	return o
}

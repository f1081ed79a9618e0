// SPDX-License-Identifier: MIT

package dbn

import (
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/deepbelief/progress"
	"github.com/katalvlaran/deepbelief/rbm"
	"github.com/katalvlaran/deepbelief/rng"
)

const (
	panicSourceNil   = "dbn: WithSource: source must not be nil"
	panicObserverNil = "dbn: WithObserver: observer must not be nil"
	panicLoggerNil   = "dbn: WithLogger: logger must not be nil"
	panicSchedule    = "dbn: WithSchedule: unknown schedule"
)

// Option configures a Network.
type Option func(*options)

type options struct {
	rbmOpts  []rbm.Option
	src      rng.Source
	obs      progress.Observer
	log      logrus.FieldLogger
	schedule Schedule
}

// WithLearningRate sets the learning rate of every layer (default rbm.DefaultLearningRate).
// Panics like rbm.WithLearningRate.
func WithLearningRate(lr float64) Option {
	opt := rbm.WithLearningRate(lr)

	return func(o *options) { o.rbmOpts = append(o.rbmOpts, opt) }
}

// WithSource injects the random source shared by every layer and by DayDream.
func WithSource(src rng.Source) Option {
	if src == nil {
		panic(panicSourceNil)
	}

	return func(o *options) { o.src = src }
}

// WithObserver subscribes obs to the events of every layer (tagged with the
// layer index) and to the stack's own LayerEnd/StackEnd events.
func WithObserver(obs progress.Observer) Option {
	if obs == nil {
		panic(panicObserverNil)
	}

	return func(o *options) { o.obs = obs }
}

// WithLogger sets the logger; each layer logs with a "layer" field.
func WithLogger(log logrus.FieldLogger) Option {
	if log == nil {
		panic(panicLoggerNil)
	}

	return func(o *options) { o.log = log }
}

// WithSchedule picks the epoch growth policy used by TrainAll (default Geometric).
func WithSchedule(s Schedule) Option {
	if s != Geometric && s != Linear {
		panic(fmt.Sprintf("%s %d", panicSchedule, int(s)))
	}

	return func(o *options) { o.schedule = s }
}

func gatherOptions(user ...Option) options {
	o := options{
		obs:      progress.Discard,
		schedule: Geometric,
	}
	for _, opt := range user {
		opt(&o)
	}
	if o.src == nil {
		o.src = rng.Default()
	}
	if o.log == nil {
		o.log = rbm.DefaultLogger()
	}

	return o
}

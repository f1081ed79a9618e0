// SPDX-License-Identifier: MIT
// Package dbn stacks Restricted Boltzmann Machines into a Deep Belief Network.
//
// Layer i is an RBM with sizes[i] visible and sizes[i+1] hidden units. Data is
// encoded bottom-up through GetHiddenLayer and decoded top-down through
// GetVisibleLayer. Training is greedy and layer-wise: every layer learns on
// the hidden representation produced by the layer below, strictly in order.
package dbn

import (
	"context"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/katalvlaran/deepbelief/matrix"
	"github.com/katalvlaran/deepbelief/progress"
	"github.com/katalvlaran/deepbelief/rbm"
	"github.com/katalvlaran/deepbelief/rng"
)

const (
	opNew       = "New"
	opEncode    = "Encode"
	opDecode    = "Decode"
	opDayDream  = "DayDream"
	opTrain     = "Train"
	opTrainAll  = "TrainAll"
	opLayer     = "Layer"
	minLayerLen = 2
)

// Task is the handle of a background training run.
type Task = rbm.Task

// Network is a stack of RBMs.
type Network struct {
	sizes    []int
	layers   []*rbm.RBM
	schedule Schedule

	src rng.Source
	obs progress.Observer
	log logrus.FieldLogger
}

// New builds an untrained network for the given layer sizes
// (visible size first, top hidden size last).
//
// Errors:
//   - ErrDimensionMismatch when fewer than two sizes are given.
//   - ErrInvalidShape for every non-positive size, all reported together.
func New(layerSizes []int, opts ...Option) (*Network, error) {
	if len(layerSizes) < minLayerLen {
		return nil, dbnErrorf(opNew, fmt.Errorf("%d layer sizes, need at least %d: %w", len(layerSizes), minLayerLen, ErrDimensionMismatch))
	}
	var bad error
	for i, s := range layerSizes {
		if s <= 0 {
			bad = multierr.Append(bad, fmt.Errorf("size[%d]=%d: %w", i, s, ErrInvalidShape))
		}
	}
	if bad != nil {
		return nil, dbnErrorf(opNew, bad)
	}

	o := gatherOptions(opts...)
	n := &Network{
		sizes:    append([]int(nil), layerSizes...),
		layers:   make([]*rbm.RBM, len(layerSizes)-1),
		schedule: o.schedule,
		src:      o.src,
		obs:      o.obs,
		log:      o.log,
	}
	for i := range n.layers {
		layerOpts := append(append([]rbm.Option(nil), o.rbmOpts...),
			rbm.WithSource(o.src),
			rbm.WithObserver(progress.Relayer(i, o.obs)),
			rbm.WithLogger(o.log.WithField("layer", i)),
		)
		r, err := rbm.New(layerSizes[i], layerSizes[i+1], layerOpts...)
		if err != nil {
			return nil, dbnErrorf(opNew, err)
		}
		n.layers[i] = r
	}

	return n, nil
}

// Depth returns the number of RBMs in the stack.
func (n *Network) Depth() int { return len(n.layers) }

// Sizes returns a copy of the layer sizes.
func (n *Network) Sizes() []int { return append([]int(nil), n.sizes...) }

// Schedule returns the epoch policy used by TrainAll.
func (n *Network) Schedule() Schedule { return n.schedule }

// Layer returns the i-th RBM (0 is the bottom).
func (n *Network) Layer(i int) (*rbm.RBM, error) {
	if err := n.checkLayer(i); err != nil {
		return nil, dbnErrorf(opLayer, err)
	}

	return n.layers[i], nil
}

func (n *Network) checkLayer(i int) error {
	if i < 0 || i >= len(n.layers) {
		return fmt.Errorf("layer %d of %d: %w", i, len(n.layers), ErrLayerOutOfRange)
	}

	return nil
}

// Encode chains GetHiddenLayer bottom to top
// (N × sizes[0] → N × sizes[Depth()]).
func (n *Network) Encode(data matrix.Matrix) (*matrix.Dense, error) {
	cur := data
	var out *matrix.Dense
	for _, l := range n.layers {
		h, err := l.GetHiddenLayer(cur)
		if err != nil {
			return nil, dbnErrorf(opEncode, err)
		}
		cur, out = h, h
	}

	return out, nil
}

// Decode chains GetVisibleLayer top to bottom
// (N × sizes[Depth()] → N × sizes[0]).
func (n *Network) Decode(data matrix.Matrix) (*matrix.Dense, error) {
	cur := data
	var out *matrix.Dense
	for i := len(n.layers) - 1; i >= 0; i-- {
		v, err := n.layers[i].GetVisibleLayer(cur)
		if err != nil {
			return nil, dbnErrorf(opDecode, err)
		}
		cur, out = v, v
	}

	return out, nil
}

// Reconstruct is Decode(Encode(data)).
func (n *Network) Reconstruct(data matrix.Matrix) (*matrix.Dense, error) {
	h, err := n.Encode(data)
	if err != nil {
		return nil, err
	}

	return n.Decode(h)
}

// DayDream reconstructs k random boolean bottom-layer samples.
// Errors: rbm.ErrInvalidSamples when k <= 0.
func (n *Network) DayDream(k int) (*matrix.Dense, error) {
	if k <= 0 {
		return nil, dbnErrorf(opDayDream, rbm.ErrInvalidSamples)
	}
	raw, err := rng.UniformBoolMatrix(n.src, k, n.sizes[0])
	if err != nil {
		return nil, dbnErrorf(opDayDream, err)
	}

	return n.Reconstruct(raw)
}

// Train trains one layer for epochs epochs and returns that layer's hidden
// encoding of data, ready to feed the layer above, together with the final
// reconstruction error. A LayerEnd event follows the run.
//
// Errors: ErrLayerOutOfRange, rbm.ErrInvalidEpochs, ErrDimensionMismatch.
func (n *Network) Train(data matrix.Matrix, epochs, layer int) (*matrix.Dense, float64, error) {
	return n.TrainContext(context.Background(), data, epochs, layer)
}

// TrainContext is Train with cancellation between epochs.
func (n *Network) TrainContext(ctx context.Context, data matrix.Matrix, epochs, layer int) (*matrix.Dense, float64, error) {
	if err := n.checkLayer(layer); err != nil {
		return nil, 0, dbnErrorf(opTrain, err)
	}
	l := n.layers[layer]

	started := time.Now()
	recErr, err := l.TrainContext(ctx, data, epochs)
	if err != nil {
		return nil, recErr, dbnErrorf(opTrain, err)
	}
	elapsed := time.Since(started)
	n.obs.Notify(progress.Event{
		Kind:     progress.LayerEnd,
		Layer:    layer,
		Sequence: layer,
		Error:    recErr,
		Duration: elapsed,
	})
	n.log.WithFields(logrus.Fields{"layer": layer, "epochs": epochs, "error": recErr, "elapsed": elapsed}).Info("layer trained")

	hidden, err := l.GetHiddenLayer(data)
	if err != nil {
		return nil, recErr, dbnErrorf(opTrain, err)
	}

	return hidden, recErr, nil
}

// TrainAll pretrains every layer bottom-up, feeding each layer's hidden
// encoding to the next. The epoch count of layer i is
// Schedule().Epochs(epochs, multiplier, i). Returns the top layer's error;
// a StackEnd event follows the run.
//
// Errors: ErrInvalidMultiplier, ErrEpochOverflow, plus everything Train returns.
func (n *Network) TrainAll(data matrix.Matrix, epochs, multiplier int) (float64, error) {
	return n.TrainAllContext(context.Background(), data, epochs, multiplier)
}

// TrainAllContext is TrainAll with cancellation between epochs.
func (n *Network) TrainAllContext(ctx context.Context, data matrix.Matrix, epochs, multiplier int) (float64, error) {
	if multiplier < 0 {
		return 0, dbnErrorf(opTrainAll, fmt.Errorf("%d: %w", multiplier, ErrInvalidMultiplier))
	}

	started := time.Now()
	cur := data
	var recErr float64
	for i := range n.layers {
		layerEpochs, err := n.schedule.Epochs(epochs, multiplier, i)
		if err != nil {
			return recErr, dbnErrorf(opTrainAll, err)
		}
		hidden, e, err := n.TrainContext(ctx, cur, layerEpochs, i)
		if err != nil {
			return e, dbnErrorf(opTrainAll, err)
		}
		cur, recErr = hidden, e
	}

	elapsed := time.Since(started)
	n.obs.Notify(progress.Event{
		Kind:     progress.StackEnd,
		Layer:    len(n.layers) - 1,
		Sequence: len(n.layers),
		Error:    recErr,
		Duration: elapsed,
	})
	n.log.WithFields(logrus.Fields{"depth": len(n.layers), "schedule": n.schedule.String(), "error": recErr, "elapsed": elapsed}).Info("stack trained")

	return recErr, nil
}

// TrainAsync runs Train in the background. The hidden encoding is not
// returned; fetch it from Layer(layer) once the task is done.
func (n *Network) TrainAsync(ctx context.Context, data matrix.Matrix, epochs, layer int) *Task {
	return rbm.Go(func() (float64, error) {
		_, e, err := n.TrainContext(ctx, data, epochs, layer)
		return e, err
	})
}

// TrainAllAsync runs TrainAll in the background.
func (n *Network) TrainAllAsync(ctx context.Context, data matrix.Matrix, epochs, multiplier int) *Task {
	return rbm.Go(func() (float64, error) {
		return n.TrainAllContext(ctx, data, epochs, multiplier)
	})
}

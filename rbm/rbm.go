// SPDX-License-Identifier: MIT
// Package rbm implements a binary Restricted Boltzmann Machine trained with
// one-step Contrastive Divergence (CD-1).
//
// Layout:
//   - The weight matrix is (numVisible+1) × (numHidden+1). Row 0 and column 0
//     hold the hidden and visible biases; every input is augmented with a
//     leading column of ones before it meets the weights.
//   - Sampling compares logistic probabilities against independent uniform
//     draws from the injected rng.Source.
//
// Concurrency:
//   - Inference methods take a read lock and may run concurrently.
//   - Training runs are serialized; each epoch updates the weights under the
//     write lock, and events are delivered with no lock held, so observers
//     may call Weights or any inference method on the same machine.
package rbm

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/deepbelief/activation"
	"github.com/katalvlaran/deepbelief/matrix"
	"github.com/katalvlaran/deepbelief/progress"
	"github.com/katalvlaran/deepbelief/rng"
)

const (
	opNew       = "New"
	opHidden    = "GetHiddenLayer"
	opVisible   = "GetVisibleLayer"
	opDayDream  = "DayDream"
	opTrain     = "Train"
	biasUnit    = 1.0
	biasInitial = 0.0
)

// RBM is a Restricted Boltzmann Machine with binary visible and hidden units.
type RBM struct {
	trainMu      sync.Mutex   // one training run at a time
	mu           sync.RWMutex // guards weights
	numVisible   int
	numHidden    int
	learningRate float64
	weights      *matrix.Dense // (numVisible+1) × (numHidden+1)

	src rng.Source
	obs progress.Observer
	log logrus.FieldLogger
}

// New builds an untrained RBM with numVisible visible and numHidden hidden units.
// Initial weights are initScale·N(0,1); the bias row and column start at zero.
//
// Errors:
//   - ErrInvalidShape when either count is not positive.
func New(numVisible, numHidden int, opts ...Option) (*RBM, error) {
	if numVisible <= 0 || numHidden <= 0 {
		return nil, rbmErrorf(opNew, fmt.Errorf("%d×%d: %w", numVisible, numHidden, ErrInvalidShape))
	}
	o := gatherOptions(opts...)

	w, err := rng.GaussianMatrix(o.src, numVisible, numHidden)
	if err != nil {
		return nil, rbmErrorf(opNew, err)
	}
	if w, err = matrix.Scale(w, o.initScale); err != nil {
		return nil, rbmErrorf(opNew, err)
	}
	if w, err = matrix.InsertRow(w, biasInitial); err != nil {
		return nil, rbmErrorf(opNew, err)
	}
	if w, err = matrix.InsertCol(w, biasInitial); err != nil {
		return nil, rbmErrorf(opNew, err)
	}

	return &RBM{
		numVisible:   numVisible,
		numHidden:    numHidden,
		learningRate: o.learningRate,
		weights:      w,
		src:          o.src,
		obs:          o.obs,
		log:          o.log,
	}, nil
}

// NumVisible returns the number of visible units (without bias).
func (r *RBM) NumVisible() int { return r.numVisible }

// NumHidden returns the number of hidden units (without bias).
func (r *RBM) NumHidden() int { return r.numHidden }

// LearningRate returns the CD-1 step size.
func (r *RBM) LearningRate() float64 { return r.learningRate }

// Weights returns a copy of the augmented weight matrix.
func (r *RBM) Weights() *matrix.Dense {
	r.mu.RLock()
	defer r.mu.RUnlock()
	w, _ := matrix.CloneDense(r.weights) // never nil

	return w
}

// sample turns a probability matrix into {0,1} states against fresh uniforms.
func (r *RBM) sample(probs *matrix.Dense) (*matrix.Dense, error) {
	u, err := rng.UniformMatrix(r.src, probs.Rows(), probs.Cols())
	if err != nil {
		return nil, err
	}

	return matrix.Greater(probs, u)
}

// propagate pushes data (N × width) through w after bias augmentation and
// returns the sampled states without the bias column.
func (r *RBM) propagate(data matrix.Matrix, w *matrix.Dense) (*matrix.Dense, error) {
	aug, err := matrix.InsertCol(data, biasUnit)
	if err != nil {
		return nil, err
	}
	act, err := matrix.Mul(aug, w)
	if err != nil {
		return nil, err
	}
	probs, err := activation.LogisticMatrix(act)
	if err != nil {
		return nil, err
	}
	states, err := r.sample(probs)
	if err != nil {
		return nil, err
	}

	return matrix.RemoveFirstCol(states)
}

func (r *RBM) hidden(data matrix.Matrix) (*matrix.Dense, error) {
	if err := checkWidth(opHidden, data, r.numVisible); err != nil {
		return nil, err
	}
	h, err := r.propagate(data, r.weights)
	if err != nil {
		return nil, rbmErrorf(opHidden, err)
	}

	return h, nil
}

func (r *RBM) visible(data matrix.Matrix) (*matrix.Dense, error) {
	if err := checkWidth(opVisible, data, r.numHidden); err != nil {
		return nil, err
	}
	wt, err := matrix.Transpose(r.weights)
	if err != nil {
		return nil, rbmErrorf(opVisible, err)
	}
	v, err := r.propagate(data, wt)
	if err != nil {
		return nil, rbmErrorf(opVisible, err)
	}

	return v, nil
}

// GetHiddenLayer samples binary hidden states for each row of data
// (N × numVisible → N × numHidden).
// Errors: ErrDimensionMismatch, matrix.ErrNilMatrix.
func (r *RBM) GetHiddenLayer(data matrix.Matrix) (*matrix.Dense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.hidden(data)
}

// GetVisibleLayer samples binary visible states for each row of data
// (N × numHidden → N × numVisible) through the transposed weights.
// Errors: ErrDimensionMismatch, matrix.ErrNilMatrix.
func (r *RBM) GetVisibleLayer(data matrix.Matrix) (*matrix.Dense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.visible(data)
}

// Reconstruct is GetVisibleLayer(GetHiddenLayer(data)) against one weight snapshot.
func (r *RBM) Reconstruct(data matrix.Matrix) (*matrix.Dense, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, err := r.hidden(data)
	if err != nil {
		return nil, err
	}

	return r.visible(h)
}

// DayDream draws k visible samples (k × numVisible) from the model.
//
// Row 0 is seeded with random boolean visible units, later rows with ones;
// each row then takes one stochastic step: a hidden sample with the hidden
// bias forced on, followed by a visible sample written back in place.
//
// Errors: ErrInvalidSamples when k <= 0.
func (r *RBM) DayDream(k int) (*matrix.Dense, error) {
	if k <= 0 {
		return nil, rbmErrorf(opDayDream, ErrInvalidSamples)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	data, err := matrix.NewOnes(k, r.numVisible+1)
	if err != nil {
		return nil, rbmErrorf(opDayDream, err)
	}
	seed, err := rng.UniformBoolMatrix(r.src, 1, r.numVisible)
	if err != nil {
		return nil, rbmErrorf(opDayDream, err)
	}
	if err = data.SetSubmatrix(0, 1, seed); err != nil {
		return nil, rbmErrorf(opDayDream, err)
	}
	wt, err := matrix.Transpose(r.weights)
	if err != nil {
		return nil, rbmErrorf(opDayDream, err)
	}

	for i := 0; i < k; i++ {
		row, err := data.Row(i)
		if err != nil {
			return nil, rbmErrorf(opDayDream, err)
		}
		hStates, err := r.step(matrix.Vector(row), r.weights, r.numHidden+1)
		if err != nil {
			return nil, rbmErrorf(opDayDream, err)
		}
		hStates[0] = biasUnit
		vStates, err := r.step(hStates, wt, r.numVisible+1)
		if err != nil {
			return nil, rbmErrorf(opDayDream, err)
		}
		if err = data.SetRowVector(i, 0, vStates); err != nil {
			return nil, rbmErrorf(opDayDream, err)
		}
	}

	return matrix.RemoveFirstCol(data)
}

// step samples one augmented state row: logistic(x·w) > U(width).
func (r *RBM) step(x matrix.Vector, w *matrix.Dense, width int) (matrix.Vector, error) {
	act, err := matrix.VecMul(x, w)
	if err != nil {
		return nil, err
	}

	return activation.LogisticVector(act).Greater(rng.UniformVector(r.src, width))
}

// Train runs exactly maxEpochs CD-1 epochs over data (N × numVisible) and
// returns the reconstruction error of the last epoch (0 when maxEpochs == 0).
// An EpochEnd event follows every epoch and a TrainEnd event the whole run.
//
// Errors: ErrInvalidEpochs, ErrDimensionMismatch, matrix.ErrNilMatrix.
func (r *RBM) Train(data matrix.Matrix, maxEpochs int) (float64, error) {
	return r.TrainContext(context.Background(), data, maxEpochs)
}

// TrainAsync starts Train in the background under ctx and returns its handle.
func (r *RBM) TrainAsync(ctx context.Context, data matrix.Matrix, maxEpochs int) *Task {
	return Go(func() (float64, error) { return r.TrainContext(ctx, data, maxEpochs) })
}

// TrainContext is Train with cancellation: ctx is checked before every epoch.
// A cancelled run returns the error of the last completed epoch together
// with ctx.Err(), and emits no TrainEnd event.
func (r *RBM) TrainContext(ctx context.Context, data matrix.Matrix, maxEpochs int) (float64, error) {
	if maxEpochs < 0 {
		return 0, rbmErrorf(opTrain, fmt.Errorf("%d: %w", maxEpochs, ErrInvalidEpochs))
	}
	if err := checkWidth(opTrain, data, r.numVisible); err != nil {
		return 0, err
	}

	r.trainMu.Lock()
	defer r.trainMu.Unlock()

	aug, err := matrix.InsertCol(data, biasUnit)
	if err != nil {
		return 0, rbmErrorf(opTrain, err)
	}
	augT, err := matrix.Transpose(aug)
	if err != nil {
		return 0, rbmErrorf(opTrain, err)
	}

	var recErr float64
	started := time.Now()
	for epoch := 0; epoch < maxEpochs; epoch++ {
		if err = ctx.Err(); err != nil {
			r.log.WithFields(logrus.Fields{"epoch": epoch, "error": recErr}).Warn("training cancelled")
			return recErr, rbmErrorf(opTrain, err)
		}
		t0 := time.Now()
		r.mu.Lock()
		recErr, err = r.epoch(aug, augT)
		r.mu.Unlock()
		if err != nil {
			return recErr, rbmErrorf(opTrain, err)
		}
		elapsed := time.Since(t0)
		r.obs.Notify(progress.Event{
			Kind:     progress.EpochEnd,
			Layer:    progress.NoLayer,
			Sequence: epoch,
			Error:    recErr,
			Duration: elapsed,
		})
		r.log.WithFields(logrus.Fields{"epoch": epoch, "error": recErr, "elapsed": elapsed}).Debug("epoch complete")
	}

	total := time.Since(started)
	r.obs.Notify(progress.Event{
		Kind:     progress.TrainEnd,
		Layer:    progress.NoLayer,
		Sequence: maxEpochs,
		Error:    recErr,
		Duration: total,
	})
	r.log.WithFields(logrus.Fields{"epochs": maxEpochs, "error": recErr, "elapsed": total}).Info("training complete")

	return recErr, nil
}

// epoch performs one CD-1 update of r.weights and returns the reconstruction
// error Σ(data − negVisibleProbs)². aug is the bias-augmented batch and augT
// its transpose. Caller holds the write lock.
func (r *RBM) epoch(aug, augT *matrix.Dense) (float64, error) {
	n := float64(aug.Rows())

	// positive phase
	posAct, err := matrix.Mul(aug, r.weights)
	if err != nil {
		return 0, err
	}
	posProbs, err := activation.LogisticMatrix(posAct)
	if err != nil {
		return 0, err
	}
	posStates, err := r.sample(posProbs)
	if err != nil {
		return 0, err
	}
	posAssoc, err := matrix.Mul(augT, posProbs)
	if err != nil {
		return 0, err
	}

	// negative phase (one reconstruction step)
	wt, err := matrix.Transpose(r.weights)
	if err != nil {
		return 0, err
	}
	negVisAct, err := matrix.Mul(posStates, wt)
	if err != nil {
		return 0, err
	}
	negVisProbs, err := activation.LogisticMatrix(negVisAct)
	if err != nil {
		return 0, err
	}
	if negVisProbs, err = matrix.SetCol(negVisProbs, 0, biasUnit); err != nil {
		return 0, err
	}
	negHidAct, err := matrix.Mul(negVisProbs, r.weights)
	if err != nil {
		return 0, err
	}
	negHidProbs, err := activation.LogisticMatrix(negHidAct)
	if err != nil {
		return 0, err
	}
	negVisT, err := matrix.Transpose(negVisProbs)
	if err != nil {
		return 0, err
	}
	negAssoc, err := matrix.Mul(negVisT, negHidProbs)
	if err != nil {
		return 0, err
	}

	// W ← W + lr·(pos − neg)/N
	delta, err := matrix.Sub(posAssoc, negAssoc)
	if err != nil {
		return 0, err
	}
	if delta, err = matrix.Divide(delta, n); err != nil {
		return 0, err
	}
	if delta, err = matrix.Scale(delta, r.learningRate); err != nil {
		return 0, err
	}
	w, err := matrix.Add(r.weights, delta)
	if err != nil {
		return 0, err
	}
	r.weights = w

	// reconstruction error
	diff, err := matrix.Sub(aug, negVisProbs)
	if err != nil {
		return 0, err
	}
	sq, err := matrix.Pow(diff, 2)
	if err != nil {
		return 0, err
	}

	return matrix.Sum(sq)
}

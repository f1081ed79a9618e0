// SPDX-License-Identifier: MIT

package rbm

import (
	"fmt"

	"github.com/sourcegraph/conc"
)

// Task is the handle of a training run started in the background.
// Errors and panics of the run are delivered through Wait instead of being
// dropped.
type Task struct {
	done   chan struct{}
	result float64
	err    error
}

// Go runs fn on a new goroutine and returns its handle. A panic inside fn is
// recovered and reported as the task error.
func Go(fn func() (float64, error)) *Task {
	t := &Task{done: make(chan struct{})}
	var wg conc.WaitGroup
	wg.Go(func() { t.result, t.err = fn() })
	go func() {
		defer close(t.done)
		if rec := wg.WaitAndRecover(); rec != nil {
			t.err = fmt.Errorf("rbm: training panicked: %w", rec.AsError())
		}
	}()

	return t
}

// Done is closed once the run has finished.
func (t *Task) Done() <-chan struct{} { return t.done }

// Wait blocks until the run finishes and returns its final reconstruction
// error.
func (t *Task) Wait() (float64, error) {
	<-t.done

	return t.result, t.err
}

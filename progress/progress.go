// SPDX-License-Identifier: MIT
// Package progress carries training notifications from the RBM engine to
// whoever is listening: a console reporter, a history store, a test.
//
// The engine never performs I/O itself. It calls Observer.Notify
// synchronously on the training goroutine after every epoch and at the end
// of every training run; observers that do slow work should hand events off
// (see Channel).
package progress

import (
	"fmt"
	"sync"
	"time"
)

// Kind identifies the point in training an Event was emitted at.
type Kind int

const (
	// EpochEnd follows every completed CD-1 epoch. Sequence is the 0-based epoch.
	EpochEnd Kind = iota + 1
	// TrainEnd follows a single RBM training run. Sequence is the epoch count.
	TrainEnd
	// LayerEnd follows training one layer of a stack. Sequence is the layer index.
	LayerEnd
	// StackEnd follows greedy training of a whole stack. Sequence is the depth.
	StackEnd
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case EpochEnd:
		return "epoch_end"
	case TrainEnd:
		return "train_end"
	case LayerEnd:
		return "layer_end"
	case StackEnd:
		return "stack_end"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// NoLayer marks events raised by an RBM that is not part of a stack.
const NoLayer = -1

// Event is a single training notification.
type Event struct {
	Kind     Kind
	Layer    int           // stack layer, NoLayer for a bare RBM
	Sequence int           // see Kind
	Error    float64       // reconstruction error at this point
	Duration time.Duration // time spent in the epoch / run
}

// Observer receives training events.
type Observer interface {
	Notify(e Event)
}

// ObserverFunc adapts a plain function to Observer.
type ObserverFunc func(e Event)

// Notify calls f(e).
func (f ObserverFunc) Notify(e Event) { f(e) }

// Discard drops every event.
var Discard Observer = ObserverFunc(func(Event) {})

type multi []Observer

func (m multi) Notify(e Event) {
	for _, o := range m {
		o.Notify(e)
	}
}

// Multi fans every event out to obs in order. Nil observers are skipped.
func Multi(obs ...Observer) Observer {
	out := make(multi, 0, len(obs))
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	if len(out) == 0 {
		return Discard
	}
	if len(out) == 1 {
		return out[0]
	}

	return out
}

// Channel returns an Observer that sends each event on ch. The send blocks
// when ch is full; size the buffer for the expected burst (an epoch count is
// a good bound). The caller owns ch and closes it after training returns.
func Channel(ch chan<- Event) Observer {
	return ObserverFunc(func(e Event) { ch <- e })
}

// Recorder keeps every event it sees. Safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Notify appends e.
func (r *Recorder) Notify(e Event) {
	r.mu.Lock()
	r.events = append(r.events, e)
	r.mu.Unlock()
}

// Events returns a copy of the recorded events in arrival order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Event, len(r.events))
	copy(out, r.events)

	return out
}

// Filter returns the recorded events of kind k in arrival order.
func (r *Recorder) Filter(k Kind) []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Event
	for _, e := range r.events {
		if e.Kind == k {
			out = append(out, e)
		}
	}

	return out
}

// Last returns the most recent event of kind k.
func (r *Recorder) Last(k Kind) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Kind == k {
			return r.events[i], true
		}
	}

	return Event{}, false
}

// Reset drops everything recorded so far.
func (r *Recorder) Reset() {
	r.mu.Lock()
	r.events = nil
	r.mu.Unlock()
}

// Relayer returns an Observer that rewrites the Layer of every event to
// layer before passing it to next. Stacks use it to tag per-RBM events.
func Relayer(layer int, next Observer) Observer {
	return ObserverFunc(func(e Event) {
		e.Layer = layer
		next.Notify(e)
	})
}

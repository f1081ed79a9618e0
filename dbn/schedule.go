// SPDX-License-Identifier: MIT

package dbn

import (
	"fmt"
	"math"
)

// Schedule decides how many epochs each layer gets during TrainAll.
// Deeper layers train longer under both policies.
type Schedule int

const (
	// Geometric multiplies the epoch count by the multiplier after every
	// layer: layer i trains epochs·multiplierⁱ epochs.
	Geometric Schedule = iota
	// Linear adds epochs·multiplier per layer: layer i trains
	// epochs + epochs·i·multiplier epochs.
	Linear
)

// String implements fmt.Stringer.
func (s Schedule) String() string {
	switch s {
	case Geometric:
		return "geometric"
	case Linear:
		return "linear"
	default:
		return fmt.Sprintf("schedule(%d)", int(s))
	}
}

// ParseSchedule maps "geometric" or "linear" onto a Schedule.
func ParseSchedule(name string) (Schedule, error) {
	switch name {
	case "geometric":
		return Geometric, nil
	case "linear":
		return Linear, nil
	default:
		return 0, fmt.Errorf("dbn: unknown schedule %q: %w", name, ErrInvalidSchedule)
	}
}

// Epochs returns the epoch count of the given layer.
// Errors: ErrEpochOverflow when the count does not fit in an int.
func (s Schedule) Epochs(epochs, multiplier, layer int) (int, error) {
	switch {
	case layer <= 0 || epochs <= 0:
		return epochs, nil
	case multiplier <= 0 && s == Linear:
		return epochs, nil
	case multiplier <= 0:
		return 0, nil
	}
	overflow := func() (int, error) {
		return 0, fmt.Errorf("dbn: %s epochs(%d, %d, %d): %w", s, epochs, multiplier, layer, ErrEpochOverflow)
	}

	if s == Linear {
		step, ok := mulInt(layer, multiplier)
		if !ok {
			return overflow()
		}
		if step, ok = mulInt(epochs, step); !ok || step > math.MaxInt-epochs {
			return overflow()
		}
		return epochs + step, nil
	}
	n := epochs
	for i := 0; i < layer; i++ {
		var ok bool
		if n, ok = mulInt(n, multiplier); !ok {
			return overflow()
		}
	}

	return n, nil
}

// mulInt multiplies two positive ints, reporting false on overflow.
func mulInt(a, b int) (int, bool) {
	if a > math.MaxInt/b {
		return 0, false
	}

	return a * b, true
}

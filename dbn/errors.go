// SPDX-License-Identifier: MIT

package dbn

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/deepbelief/rbm"
)

var (
	// ErrDimensionMismatch indicates a layer-size list with fewer than two
	// entries, or samples of the wrong width.
	ErrDimensionMismatch = rbm.ErrDimensionMismatch

	// ErrInvalidShape indicates a non-positive layer size.
	ErrInvalidShape = rbm.ErrInvalidShape

	// ErrLayerOutOfRange indicates a layer index outside [0, Depth()).
	ErrLayerOutOfRange = errors.New("dbn: layer index out of range")

	// ErrInvalidMultiplier indicates a negative epoch multiplier.
	ErrInvalidMultiplier = errors.New("dbn: epoch multiplier must be >= 0")

	// ErrEpochOverflow indicates a per-layer epoch count that does not fit in an int.
	ErrEpochOverflow = errors.New("dbn: epoch count overflows int")

	// ErrInvalidSchedule indicates an unknown schedule name.
	ErrInvalidSchedule = errors.New("dbn: invalid schedule")
)

func dbnErrorf(op string, err error) error {
	return fmt.Errorf("dbn: %s: %w", op, err)
}

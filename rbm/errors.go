// SPDX-License-Identifier: MIT

package rbm

import (
	"errors"
	"fmt"

	"github.com/katalvlaran/deepbelief/matrix"
)

var (
	// ErrInvalidShape indicates a non-positive visible or hidden unit count.
	ErrInvalidShape = errors.New("rbm: unit counts must be > 0")

	// ErrDimensionMismatch indicates input samples whose width differs from the
	// layer they are fed to. It is the matrix sentinel, so errors.Is matches
	// either name.
	ErrDimensionMismatch = matrix.ErrDimensionMismatch

	// ErrInvalidEpochs indicates a negative epoch count.
	ErrInvalidEpochs = errors.New("rbm: epochs must be >= 0")

	// ErrInvalidSamples indicates a non-positive DayDream sample count.
	ErrInvalidSamples = errors.New("rbm: sample count must be > 0")
)

// rbmErrorf tags err with the failing operation, keeping it matchable via errors.Is.
func rbmErrorf(op string, err error) error {
	return fmt.Errorf("rbm: %s: %w", op, err)
}

// checkWidth verifies data is non-nil and exactly want columns wide.
func checkWidth(op string, data matrix.Matrix, want int) error {
	if err := matrix.ValidateNotNil(data); err != nil {
		return rbmErrorf(op, err)
	}
	if data.Cols() != want {
		return rbmErrorf(op, fmt.Errorf("width %d, want %d: %w", data.Cols(), want, ErrDimensionMismatch))
	}

	return nil
}

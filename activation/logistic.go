// SPDX-License-Identifier: MIT
// Package activation provides the logistic transform used by every
// probability computation of the RBM engine, for scalars, vectors and
// matrices.
package activation

import (
	"fmt"
	"math"

	"github.com/katalvlaran/deepbelief/matrix"
)

// Logistic returns 1/(1+e^{-x}).
func Logistic(x float64) float64 {
	return 1 / (1 + math.Exp(-x))
}

// LogisticMatrix maps Logistic over m (row-parallel for tall matrices).
// Errors: matrix.ErrNilMatrix.
func LogisticMatrix(m matrix.Matrix) (*matrix.Dense, error) {
	res, err := matrix.Apply(m, Logistic)
	if err != nil {
		return nil, fmt.Errorf("activation: %w", err)
	}

	return res, nil
}

// LogisticVector maps Logistic over v.
func LogisticVector(v matrix.Vector) matrix.Vector {
	return v.Apply(Logistic)
}

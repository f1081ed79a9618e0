// SPDX-License-Identifier: MIT
// Package: rng
//
// Purpose:
//   - Fill matrices and vectors with independent draws from a Source.
//
// Determinism & Performance:
//   - Rows are generated through matrix.ForEachRow; every element is its own
//     draw, so with a Locked source the set of values drawn is exactly r*c
//     regardless of scheduling. Their placement is only reproducible when the
//     matrix stays below matrix.ParallelRowThreshold rows.

package rng

import (
	"fmt"

	"github.com/katalvlaran/deepbelief/matrix"
)

const (
	opUniformMatrix     = "UniformMatrix"
	opGaussianMatrix    = "GaussianMatrix"
	opUniformBoolMatrix = "UniformBoolMatrix"
)

// fill allocates an r×c matrix and sets every cell from draw.
func fill(op string, rows, cols int, draw func() float64) (*matrix.Dense, error) {
	m, err := matrix.NewDense(rows, cols)
	if err != nil {
		return nil, fmt.Errorf("rng: %s(%d,%d): %w", op, rows, cols, err)
	}
	err = matrix.ForEachRowErr(rows, func(i int) error {
		row := make(matrix.Vector, cols)
		for j := range row {
			row[j] = draw()
		}
		return m.SetRowVector(i, 0, row)
	})
	if err != nil {
		return nil, fmt.Errorf("rng: %s: %w", op, err)
	}

	return m, nil
}

// UniformMatrix returns an r×c matrix of U[0,1) draws.
// Errors: matrix.ErrInvalidDimensions for non-positive sizes.
func UniformMatrix(src Source, rows, cols int) (*matrix.Dense, error) {
	return fill(opUniformMatrix, rows, cols, src.Uniform)
}

// GaussianMatrix returns an r×c matrix of N(0,1) draws.
func GaussianMatrix(src Source, rows, cols int) (*matrix.Dense, error) {
	return fill(opGaussianMatrix, rows, cols, src.Gaussian)
}

// UniformBoolMatrix returns an r×c matrix of {0,1} values, each the integer
// part of 2·u for a uniform draw u.
func UniformBoolMatrix(src Source, rows, cols int) (*matrix.Dense, error) {
	return fill(opUniformBoolMatrix, rows, cols, func() float64 {
		return boolDraw(src)
	})
}

// UniformVector returns n U[0,1) draws (n <= 0 yields an empty vector).
func UniformVector(src Source, n int) matrix.Vector {
	if n <= 0 {
		return matrix.Vector{}
	}
	v := make(matrix.Vector, n)
	for i := range v {
		v[i] = src.Uniform()
	}

	return v
}

// boolDraw maps one uniform draw onto {0,1}.
func boolDraw(src Source) float64 {
	return float64(int(2 * src.Uniform()))
}

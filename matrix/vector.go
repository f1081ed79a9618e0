// SPDX-License-Identifier: MIT
// Package: matrix
//
// Vector is the 1-D specialization of Dense: a plain float64 slice with
// value-returning arithmetic. It converts to and from single-row/single-column
// matrices so row samplers can reuse the matrix kernels.

package matrix

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

const (
	opVectorFrom = "VectorFrom"
	opVector     = "Vector"
)

// Vector is a dense real vector of length Len().
type Vector []float64

// NewVector returns a zero vector of length n (n >= 0).
func NewVector(n int) Vector { return make(Vector, n) }

// OnesVector returns a vector of length n filled with 1.
func OnesVector(n int) Vector {
	v := make(Vector, n)
	for i := range v {
		v[i] = 1
	}

	return v
}

// VectorFrom derives a vector from a matrix that has exactly one column or one row.
// A single column wins when both apply, so a 1×1 matrix is read as a column
// (the documented ambiguity). Any other shape returns ErrDimensionMismatch.
// Complexity: O(max(r,c)).
func VectorFrom(m Matrix) (Vector, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opVectorFrom, err)
	}
	var n int
	var at func(k int) (float64, error)
	switch {
	case m.Cols() == 1:
		n = m.Rows()
		at = func(k int) (float64, error) { return m.At(k, 0) }
	case m.Rows() == 1:
		n = m.Cols()
		at = func(k int) (float64, error) { return m.At(0, k) }
	default:
		return nil, matrixErrorf(opVectorFrom, fmt.Errorf("%dx%d is not a one-liner: %w", m.Rows(), m.Cols(), ErrDimensionMismatch))
	}

	v := make(Vector, n)
	for k := 0; k < n; k++ {
		x, err := at(k)
		if err != nil {
			return nil, matrixErrorf(opVectorFrom, err)
		}
		v[k] = x
	}

	return v, nil
}

// Len returns the number of elements.
func (v Vector) Len() int { return len(v) }

// At returns v[i] or ErrOutOfRange.
func (v Vector) At(i int) (float64, error) {
	if i < 0 || i >= len(v) {
		return 0, fmt.Errorf("Vector.At(%d): %w", i, ErrOutOfRange)
	}

	return v[i], nil
}

// Set assigns v[i] = x or returns ErrOutOfRange.
func (v Vector) Set(i int, x float64) error {
	if i < 0 || i >= len(v) {
		return fmt.Errorf("Vector.Set(%d): %w", i, ErrOutOfRange)
	}
	v[i] = x

	return nil
}

// Clone returns an independent copy.
func (v Vector) Clone() Vector {
	out := make(Vector, len(v))
	copy(out, v)

	return out
}

// AsRow returns a 1×n Dense copy of v.
func (v Vector) AsRow() *Dense {
	return &Dense{r: 1, c: len(v), data: []float64(v.Clone())}
}

// AsCol returns an n×1 Dense copy of v.
func (v Vector) AsCol() *Dense {
	return &Dense{r: len(v), c: 1, data: []float64(v.Clone())}
}

// sameLen reports ErrDimensionMismatch for vectors of different length.
func sameLen(op string, u, w Vector) error {
	if len(u) != len(w) {
		return matrixErrorf(opVector+"."+op, ErrDimensionMismatch)
	}

	return nil
}

// Add returns v + w.
func (v Vector) Add(w Vector) (Vector, error) {
	if err := sameLen("Add", v, w); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	floats.AddTo(out, v, w)

	return out, nil
}

// Sub returns v - w.
func (v Vector) Sub(w Vector) (Vector, error) {
	if err := sameLen("Sub", v, w); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	floats.SubTo(out, v, w)

	return out, nil
}

// Scale returns s*v.
func (v Vector) Scale(s float64) Vector {
	out := make(Vector, len(v))
	floats.ScaleTo(out, s, v)

	return out
}

// Divide returns v/s; s == 0 yields a zero vector of the same length.
func (v Vector) Divide(s float64) Vector {
	if s == 0 {
		return make(Vector, len(v))
	}

	return v.Scale(1 / s)
}

// Dot returns Σ v[i]*w[i].
func (v Vector) Dot(w Vector) (float64, error) {
	if err := sameLen("Dot", v, w); err != nil {
		return 0, err
	}

	return floats.Dot(v, w), nil
}

// Norm2 returns the Euclidean norm.
func (v Vector) Norm2() float64 { return floats.Norm(v, 2) }

// Normalize returns v/‖v‖₂; a zero vector stays zero.
func (v Vector) Normalize() Vector { return v.Divide(v.Norm2()) }

// Greater returns out[i] = 1 if v[i] > w[i], else 0.
func (v Vector) Greater(w Vector) (Vector, error) {
	if err := sameLen("Greater", v, w); err != nil {
		return nil, err
	}
	out := make(Vector, len(v))
	for i := range v {
		out[i] = boolToFloat(v[i] > w[i])
	}

	return out, nil
}

// Less returns out[i] = 1 if v[i] < w[i], else 0.
func (v Vector) Less(w Vector) (Vector, error) {
	if err := sameLen("Less", v, w); err != nil {
		return nil, err
	}

	return w.Greater(v)
}

// Outer returns the len(v)×len(w) matrix v·wᵀ.
// Errors: ErrInvalidDimensions for empty operands.
func (v Vector) Outer(w Vector) (*Dense, error) {
	res, err := NewDense(len(v), len(w))
	if err != nil {
		return nil, matrixErrorf(opVector+".Outer", err)
	}
	cols := len(w)
	ForEachRow(len(v), func(i int) {
		floats.ScaleTo(res.data[i*cols:(i+1)*cols], v[i], w)
	})

	return res, nil
}

// Apply returns f mapped over v.
func (v Vector) Apply(f func(x float64) float64) Vector {
	out := make(Vector, len(v))
	for i, x := range v {
		out[i] = f(x)
	}

	return out
}

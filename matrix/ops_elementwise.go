// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Element-wise comparison, mapping and reduction kernels.
//   - Greater/Less are the stochastic binarization primitive: comparing a
//     probability matrix against an independent uniform matrix yields a
//     {0,1} state matrix.
//
// Determinism & Performance:
//   - Each output cell depends only on the same cell of the inputs, so rows are
//     processed in parallel (ForEachRow) without changing results.
//   - Dense fast-path operates on flat row-major buffers; the generic path reads
//     through At once via denseOf.

package matrix

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

const (
	opGreater  = "Greater"
	opLess     = "Less"
	opApply    = "Apply"
	opSum      = "Sum"
	opEqual    = "Equal"
	opAllClose = "AllClose"
)

// boolToFloat maps a comparison outcome onto the {0.0, 1.0} state alphabet.
func boolToFloat(b bool) float64 {
	if b {
		return 1.0
	}

	return 0.0
}

// Greater returns a same-shape matrix with out[i,j] = 1 if a[i,j] > b[i,j], else 0.
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b).
//   - Stage 2: materialize operands as *Dense (no copy for *Dense inputs).
//   - Stage 3: row-parallel strict comparison.
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func Greater(a, b Matrix) (*Dense, error) {
	return compare(a, b, opGreater)
}

// Less returns out[i,j] = 1 if a[i,j] < b[i,j], else 0. Less(a,b) == Greater(b,a).
// Complexity: Time O(r*c), Space O(r*c).
func Less(a, b Matrix) (*Dense, error) {
	return compare(b, a, opLess)
}

// compare implements Greater with a caller-supplied operation tag.
func compare(a, b Matrix, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	da, err := denseOf(a)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}
	db, err := denseOf(b)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	res := &Dense{r: da.r, c: da.c, data: make([]float64, len(da.data))}
	cols := da.c
	ForEachRow(da.r, func(i int) {
		for j := i * cols; j < (i+1)*cols; j++ {
			res.data[j] = boolToFloat(da.data[j] > db.data[j])
		}
	})

	return res, nil
}

// Apply returns a fresh matrix with out[i,j] = f(m[i,j]).
// f must be pure: rows are evaluated concurrently.
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c), Space O(r*c).
func Apply(m Matrix, f func(v float64) float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opApply, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opApply, err)
	}

	res := &Dense{r: src.r, c: src.c, data: make([]float64, len(src.data))}
	cols := src.c
	ForEachRow(src.r, func(i int) {
		for j := i * cols; j < (i+1)*cols; j++ {
			res.data[j] = f(src.data[j])
		}
	})

	return res, nil
}

// Sum returns the total of all elements.
// Complexity: Time O(r*c), Space O(1) beyond the generic-path copy.
func Sum(m Matrix) (float64, error) {
	if err := ValidateNotNil(m); err != nil {
		return 0, matrixErrorf(opSum, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return 0, matrixErrorf(opSum, err)
	}

	return floats.Sum(src.data), nil
}

// Equal reports whether a and b have the same shape and bitwise-equal elements.
// Errors: ErrNilMatrix.
// Complexity: Time O(r*c).
func Equal(a, b Matrix) (bool, error) {
	if err := ValidateNotNil(a); err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	if err := ValidateNotNil(b); err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	if a.Rows() != b.Rows() || a.Cols() != b.Cols() {
		return false, nil
	}
	da, err := denseOf(a)
	if err != nil {
		return false, matrixErrorf(opEqual, err)
	}
	db, err := denseOf(b)
	if err != nil {
		return false, matrixErrorf(opEqual, err)
	}

	return floats.Equal(da.data, db.data), nil
}

// AllClose checks element-wise |a-b| ≤ atol + rtol*|b| for identical shapes.
// Returns (true,nil) if all elements satisfy the relation; (false,nil) otherwise.
// NaN != anything; +Inf equals +Inf; -Inf equals -Inf.
//
// Policy:
//   - a and b must be non-nil and have identical shapes.
//   - rtol, atol are treated as |rtol|, |atol|; NaN/Inf tolerances → ErrNaNInf.
//
// Complexity: Time O(r*c). Space O(1).
func AllClose(a, b Matrix, rtol, atol float64) (bool, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := validateTol(rtol); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	if err := validateTol(atol); err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	rtol, atol = math.Abs(rtol), math.Abs(atol)

	da, err := denseOf(a)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	db, err := denseOf(b)
	if err != nil {
		return false, matrixErrorf(opAllClose, err)
	}
	for idx, av := range da.data {
		bv := db.data[idx]
		if av == bv { // covers ±Inf == ±Inf
			continue
		}
		if math.IsNaN(av) || math.IsNaN(bv) || math.IsInf(av, 0) || math.IsInf(bv, 0) {
			return false, nil
		}
		if math.Abs(av-bv) > atol+rtol*math.Abs(bv) {
			return false, nil
		}
	}

	return true, nil
}

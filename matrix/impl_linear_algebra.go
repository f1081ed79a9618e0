// SPDX-License-Identifier: MIT
// Package matrix provides universal operations on any Matrix implementation,
// including element-wise addition, subtraction, matrix multiplication,
// transpose, and scalar arithmetic. All functions perform strict
// fail-fast validation and return clear errors on dimension mismatches.
//
// Purpose:
//   - Declare the canonical linear-algebra kernels used by the RBM engine.
//   - Define operation tags and shared constants for determinism and error reporting.
//
// Notes:
//   - Every kernel allocates a fresh *Dense; operands are never mutated.
//   - All kernels use central validators and wrap failures via matrixErrorf.

package matrix

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// ZeroSum is the initial accumulator value for dot products and sums.
const ZeroSum = 0.0

// Operation name constants for unified error wrapping and reducing magic strings.
const (
	opAdd       = "Add"
	opSub       = "Sub"
	opMul       = "Mul"
	opMulSafe   = "MulSafe"
	opTranspose = "Transpose"
	opScale     = "Scale"
	opAddScalar = "AddScalar"
	opDivide    = "Divide"
	opPow       = "Pow"
	opMatVec    = "MatVec"
	opVecMul    = "VecMul"
)

// matrixErrorf wraps err with an operation tag, preserving the original error via %w.
// The wrapper keeps a stable "Op: underlying" shape for uniform reporting.
// Use only when err != nil to avoid creating a non-nil wrapper around a nil cause.
// Complexity: O(1).
func matrixErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}

// denseOf returns m itself when it is a *Dense, otherwise a *Dense copy read
// through the bounds-checked At accessor (row-parallel).
// The returned matrix must be treated as read-only by callers.
// Complexity: O(1) for *Dense, O(r*c) otherwise.
func denseOf(m Matrix) (*Dense, error) {
	if d, ok := m.(*Dense); ok {
		return d, nil
	}
	res, err := NewDense(m.Rows(), m.Cols())
	if err != nil {
		return nil, err
	}
	cols := res.c
	err = ForEachRowErr(res.r, func(i int) error {
		for j := 0; j < cols; j++ {
			v, e := m.At(i, j)
			if e != nil {
				return fmt.Errorf("At(%d,%d): %w", i, j, e)
			}
			res.data[i*cols+j] = v
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return res, nil
}

// addSub computes elementwise out = a + sign*b for sign ∈ {+1, -1}.
// Inputs must have identical shapes. A fresh Dense is allocated; operands are not mutated.
//
// Implementation:
//   - Stage 1: ValidateBinarySameShape(a, b). Allocate result Dense(rows, cols).
//   - Stage 2: Fast-path if both are *Dense - gonum floats.AddTo/SubTo over the flat buffers.
//     Otherwise, fallback At reads with fixed i→j order (row-parallel).
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the new result.
func addSub(a, b Matrix, sign float64, opTag string) (*Dense, error) {
	if err := ValidateBinarySameShape(a, b); err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	rows, cols := a.Rows(), a.Cols()
	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	// Fast path: *Dense with *Dense → single flat pass.
	if da, okA := a.(*Dense); okA {
		if db, okB := b.(*Dense); okB {
			if sign > 0 {
				floats.AddTo(res.data, da.data, db.data)
			} else {
				floats.SubTo(res.data, da.data, db.data)
			}
			return res, nil
		}
	}

	// Fallback: interface path with fixed i→j order inside each row.
	err = ForEachRowErr(rows, func(i int) error {
		var av, bv float64
		var e error
		for j := 0; j < cols; j++ {
			if av, e = a.At(i, j); e != nil {
				return fmt.Errorf("At(%d,%d): %w", i, j, e)
			}
			if bv, e = b.At(i, j); e != nil {
				return fmt.Errorf("At(%d,%d): %w", i, j, e)
			}
			res.data[i*cols+j] = av + sign*bv
		}
		return nil
	})
	if err != nil {
		return nil, matrixErrorf(opTag, err)
	}

	return res, nil
}

// Add computes the element-wise sum C = A + B and returns a fresh Dense result.
// Errors: ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
// Complexity: Time O(r*c), Space O(r*c).
func Add(a, b Matrix) (*Dense, error) { return addSub(a, b, +1, opAdd) }

// Sub computes the element-wise difference C = A - B and returns a fresh Dense result.
// Errors: ErrNilMatrix (nil input), ErrDimensionMismatch (shape mismatch).
// Complexity: Time O(r*c), Space O(r*c).
func Sub(a, b Matrix) (*Dense, error) { return addSub(a, b, -1, opSub) }

// Mul performs standard matrix multiplication C = A × B (no aliasing).
// Implementation:
//   - Stage 1: Validate A,B (not nil) and inner dimensions (A.Cols == B.Rows).
//   - Stage 2: If A and B are *Dense, run the optimized kernel: rows of C are
//     computed in parallel, each as Σ_k A[i,k]·B[k,:] over re-sliced flat rows
//     (no per-element bounds checks, zero A[i,k] skipped).
//     Otherwise delegate to MulSafe.
//
// Behavior highlights:
//   - Both paths accumulate every C[i,j] over k in ascending order with explicit
//     rounding after each product, so they agree to full double precision.
//
// Errors:
//   - ErrNilMatrix (nil input), ErrDimensionMismatch (inner mismatch).
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
//
// AI-Hints:
//   - Keep operands as *Dense to stay on the optimized path; MulSafe is the reference.
func Mul(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	da, okA := a.(*Dense)
	db, okB := b.(*Dense)
	if !okA || !okB {
		return MulSafe(a, b)
	}

	aCols, bCols := da.c, db.c
	res, err := NewDense(da.r, bCols)
	if err != nil {
		return nil, matrixErrorf(opMul, err)
	}
	ForEachRow(da.r, func(i int) {
		rowA := da.data[i*aCols : (i+1)*aCols]
		rowR := res.data[i*bCols : (i+1)*bCols]
		for k, av := range rowA {
			if av == 0 {
				continue // skip zero for performance
			}
			rowB := db.data[k*bCols : (k+1)*bCols]
			rowB = rowB[:len(rowR)] // hint for bounds-check elimination
			for j, bv := range rowB {
				rowR[j] += float64(av * bv) // explicit rounding: no fused multiply-add
			}
		}
	})

	return res, nil
}

// MulSafe is the bounds-checked reference product C = A × B.
// Implementation:
//   - Stage 1: Validate inputs.
//   - Stage 2: rows of C in parallel; each cell via i→j→k with At reads and
//     zero-skip on A[i,k].
//
// Errors:
//   - ErrNilMatrix, ErrDimensionMismatch, or any At failure of a custom Matrix.
//
// Complexity:
//   - Time O(r*n*c), Space O(r*c).
func MulSafe(a, b Matrix) (*Dense, error) {
	if err := ValidateMulCompatible(a, b); err != nil {
		return nil, matrixErrorf(opMulSafe, err)
	}

	aRows, aCols, bCols := a.Rows(), a.Cols(), b.Cols()
	res, err := NewDense(aRows, bCols)
	if err != nil {
		return nil, matrixErrorf(opMulSafe, err)
	}
	err = ForEachRowErr(aRows, func(i int) error {
		var av, bv, current float64
		var e error
		for j := 0; j < bCols; j++ {
			current = ZeroSum
			for k := 0; k < aCols; k++ {
				if av, e = a.At(i, k); e != nil {
					return fmt.Errorf("At(%d,%d): %w", i, k, e)
				}
				if av == 0 {
					continue // skip zero for performance
				}
				if bv, e = b.At(k, j); e != nil {
					return fmt.Errorf("At(%d,%d): %w", k, j, e)
				}
				current += float64(av * bv) // explicit rounding: no fused multiply-add
			}
			if e = res.Set(i, j, current); e != nil {
				return fmt.Errorf("Set(%d,%d): %w", i, j, e)
			}
		}
		return nil
	})
	if err != nil {
		return nil, matrixErrorf(opMulSafe, err)
	}

	return res, nil
}

// Transpose returns a new matrix with rows and columns swapped (mᵀ).
// Input is validated non-nil; the original matrix is never mutated.
//
// Implementation:
//   - Stage 1: ValidateNotNil(m). Allocate Dense(cols, rows).
//   - Stage 2: Source rows in parallel; data[i*cols + j] → res.data[j*rows + i].
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for the returned matrix.
func Transpose(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}

	rows, cols := src.r, src.c
	res, err := NewDense(cols, rows) // dims flipped
	if err != nil {
		return nil, matrixErrorf(opTranspose, err)
	}
	ForEachRow(rows, func(i int) {
		base := i * cols
		for j := 0; j < cols; j++ {
			res.data[j*rows+i] = src.data[base+j]
		}
	})

	return res, nil
}

// Scale returns alpha*m as a fresh Dense.
// Complexity: Time O(r*c), Space O(r*c).
func Scale(m Matrix, alpha float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opScale, err)
	}
	res := &Dense{r: src.r, c: src.c, data: make([]float64, len(src.data))}
	floats.ScaleTo(res.data, alpha, src.data)

	return res, nil
}

// AddScalar returns m + s (s added to every element) as a fresh Dense.
// Complexity: Time O(r*c), Space O(r*c).
func AddScalar(m Matrix, s float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opAddScalar, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opAddScalar, err)
	}
	res := src.clone()
	floats.AddConst(s, res.data)

	return res, nil
}

// Divide returns m / s.
// Policy: s == 0 is a silent no-op, the result is an independent copy of m
// (no error, no Inf). Otherwise it is Scale(m, 1/s).
// Complexity: Time O(r*c), Space O(r*c).
func Divide(m Matrix, s float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opDivide, err)
	}
	if s == 0 {
		src, err := denseOf(m)
		if err != nil {
			return nil, matrixErrorf(opDivide, err)
		}
		return src.clone(), nil
	}

	return Scale(m, 1/s)
}

// Pow raises every element to the power s.
// s == 2 is special-cased as an exact elementwise square (v*v); other
// exponents go through math.Pow. Rows are processed in parallel.
// Complexity: Time O(r*c), Space O(r*c).
func Pow(m Matrix, s float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opPow, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opPow, err)
	}

	res := &Dense{r: src.r, c: src.c, data: make([]float64, len(src.data))}
	cols := src.c
	if s == 2 {
		ForEachRow(src.r, func(i int) {
			for j := i * cols; j < (i+1)*cols; j++ {
				v := src.data[j]
				res.data[j] = v * v
			}
		})
		return res, nil
	}
	ForEachRow(src.r, func(i int) {
		for j := i * cols; j < (i+1)*cols; j++ {
			res.data[j] = math.Pow(src.data[j], s)
		}
	})

	return res, nil
}

// MatVec computes y = m·x for a column vector x (len(x) == m.Cols()).
// Complexity: Time O(r*c), Space O(r).
func MatVec(m Matrix, x Vector) (Vector, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	if err := ValidateVecLen(x, m.Cols()); err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}
	prod, err := Mul(m, x.AsCol())
	if err != nil {
		return nil, matrixErrorf(opMatVec, err)
	}

	return Vector(prod.data), nil
}

// VecMul computes y = xᵀ·m for a row vector x (len(x) == m.Rows()).
// This is the shape used when a single visible/hidden state row is pushed
// through a weight matrix.
// Complexity: Time O(r*c), Space O(c).
func VecMul(x Vector, m Matrix) (Vector, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opVecMul, err)
	}
	if err := ValidateVecLen(x, m.Rows()); err != nil {
		return nil, matrixErrorf(opVecMul, err)
	}
	prod, err := Mul(x.AsRow(), m)
	if err != nil {
		return nil, matrixErrorf(opVecMul, err)
	}

	return Vector(prod.data), nil
}

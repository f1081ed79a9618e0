// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Copy-based structural edits: windows (Submatrix), bias augmentation
//     (InsertRow/InsertCol prepend a constant row/column), bias removal
//     (RemoveFirstCol) and constant row/column overwrites (SetRow/SetCol).
//
// Design:
//   - Every edit returns a new *Dense; the operand is never touched.
//   - Row-wise copies fan out through ForEachRow.

package matrix

const (
	opSubmatrix      = "Submatrix"
	opInsertRow      = "InsertRow"
	opInsertCol      = "InsertCol"
	opRemoveFirstCol = "RemoveFirstCol"
	opSetRow         = "SetRow"
	opSetCol         = "SetCol"
)

// Submatrix copies the window starting at (r0, c0) with the given size.
// MAIN DESCRIPTION:
//   - rows == 0 means "to the last row"; cols == 0 means "to the last column".
//
// Implementation:
//   - Stage 1: resolve zero sizes against the operand shape.
//   - Stage 2: ValidateWindow.
//   - Stage 3: row-parallel contiguous copies.
//
// Errors:
//   - ErrNilMatrix, ErrBadShape (negative size or window past the edge).
//
// Complexity:
//   - Time O(rows*cols), Space O(rows*cols).
func Submatrix(m Matrix, r0, c0, rows, cols int) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSubmatrix, err)
	}
	if rows == 0 {
		rows = m.Rows() - r0
	}
	if cols == 0 {
		cols = m.Cols() - c0
	}
	if err := ValidateWindow(m, r0, c0, rows, cols); err != nil {
		return nil, matrixErrorf(opSubmatrix, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opSubmatrix, err)
	}

	res, err := NewDense(rows, cols)
	if err != nil {
		return nil, matrixErrorf(opSubmatrix, err)
	}
	ForEachRow(rows, func(i int) {
		from := (r0+i)*src.c + c0
		copy(res.data[i*cols:(i+1)*cols], src.data[from:from+cols])
	})

	return res, nil
}

// InsertRow prepends a row filled with v; existing rows shift down by one.
// Result shape: (r+1) × c.
// Complexity: Time O(r*c), Space O((r+1)*c).
func InsertRow(m Matrix, v float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opInsertRow, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opInsertRow, err)
	}

	res, err := NewDense(src.r+1, src.c)
	if err != nil {
		return nil, matrixErrorf(opInsertRow, err)
	}
	for j := 0; j < src.c; j++ {
		res.data[j] = v // row 0 is the new constant row
	}
	copy(res.data[src.c:], src.data) // rows are contiguous: one block copy

	return res, nil
}

// InsertCol prepends a column filled with v; existing columns shift right by one.
// Result shape: r × (c+1). This is the bias augmentation used before every
// product with an RBM weight matrix (v == 1).
// Complexity: Time O(r*c), Space O(r*(c+1)).
func InsertCol(m Matrix, v float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opInsertCol, err)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opInsertCol, err)
	}

	w := src.c + 1
	res, err := NewDense(src.r, w)
	if err != nil {
		return nil, matrixErrorf(opInsertCol, err)
	}
	ForEachRow(src.r, func(i int) {
		res.data[i*w] = v
		copy(res.data[i*w+1:(i+1)*w], src.data[i*src.c:(i+1)*src.c])
	})

	return res, nil
}

// RemoveFirstCol drops column 0 (the bias column after sampling).
// Result shape: r × (c-1).
// Errors: ErrNilMatrix, ErrBadShape when c < 2 (the result would be empty).
// Complexity: Time O(r*c), Space O(r*(c-1)).
func RemoveFirstCol(m Matrix) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opRemoveFirstCol, err)
	}
	if m.Cols() < 2 {
		return nil, matrixErrorf(opRemoveFirstCol, ErrBadShape)
	}

	return Submatrix(m, 0, 1, 0, 0)
}

// SetRow returns a copy of m with every element of row i set to v.
// Errors: ErrNilMatrix, ErrOutOfRange.
// Complexity: Time O(r*c), Space O(r*c).
func SetRow(m Matrix, i int, v float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSetRow, err)
	}
	if i < 0 || i >= m.Rows() {
		return nil, matrixErrorf(opSetRow, ErrOutOfRange)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opSetRow, err)
	}

	res := src.clone()
	row := res.data[i*res.c : (i+1)*res.c]
	for j := range row {
		row[j] = v
	}

	return res, nil
}

// SetCol returns a copy of m with every element of column j set to v.
// The RBM negative phase uses SetCol(negVisibleProbs, 0, 1) to clamp the bias unit.
// Errors: ErrNilMatrix, ErrOutOfRange.
// Complexity: Time O(r*c), Space O(r*c).
func SetCol(m Matrix, j int, v float64) (*Dense, error) {
	if err := ValidateNotNil(m); err != nil {
		return nil, matrixErrorf(opSetCol, err)
	}
	if j < 0 || j >= m.Cols() {
		return nil, matrixErrorf(opSetCol, ErrOutOfRange)
	}
	src, err := denseOf(m)
	if err != nil {
		return nil, matrixErrorf(opSetCol, err)
	}

	res := src.clone()
	for i := 0; i < res.r; i++ {
		res.data[i*res.c+j] = v
	}

	return res, nil
}

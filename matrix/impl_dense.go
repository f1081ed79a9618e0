// SPDX-License-Identifier: MIT

// Package matrix - Dense storage (row-major) & safe accessors.
//
// Purpose:
//   - Provide a cache-friendly row-major buffer with the explicit index formula i*cols + j.
//   - Guarantee safety at the public surface: At/Set return errors instead of panicking.
//   - Keep values independent: constructors and Clone never alias storage.
//   - Support in-place block writes (SetSubmatrix, SetRowVector) for samplers that
//     fill a result row by row.
//
// AI-Hints:
//   - Prefer fast-paths on *Dense in hot algebra (see impl_linear_algebra.go): operate on the flat data slice directly.
//   - Use NewDenseFrom to ingest [][]float64 sample batches; ragged input is rejected.
//
// Complexity quicksheet:
//   - NewDense: O(r*c) zero-init; At/Set: O(1); Clone: O(r*c); Row: O(c).

package matrix

import (
	"fmt"
	"strings"
)

// ---------- error context tags ----------

const (
	ctxAt        = "At"           // method tag used in error wrappers
	ctxSet       = "Set"          // method tag used in error wrappers
	ctxRow       = "Row"          // method tag used in error wrappers
	ctxFrom      = "NewDenseFrom" // ctor tag for NewDenseFrom
	ctxSetBlock  = "SetSubmatrix" // method tag for block writes
	ctxSetRowVec = "SetRowVector" // method tag for row writes
)

// ---------- Formatting literals  ----------
const (
	_fmtRowOpen  = "["
	_fmtRowClose = "]\n"
	_fmtSep      = ", "
)

// denseErrorf wraps an error with a uniform Dense context and callsite indices.
// Format: "Dense.<method>(row,col): %w"; preserves the sentinel for errors.Is.
// Complexity: O(1).
func denseErrorf(method string, row, col int, err error) error {
	return fmt.Errorf("Dense.%s(%d,%d): %w", method, row, col, err)
}

// Dense is a concrete row-major matrix.
//   - r,c hold dimensions (rows = height, cols = width).
//   - data is a flat buffer of length r*c in row-major order (offset = i*c + j).
type Dense struct {
	r, c int       // row and column counts (>0 for every public constructor)
	data []float64 // contiguous row-major storage (len == r*c)
}

// Compile-time assertions for interface & fmt.Stringer conformance.
var (
	_ Matrix       = (*Dense)(nil) // *Dense implements our public Matrix interface
	_ fmt.Stringer = (*Dense)(nil)
)

// NewDense creates an r×c zero matrix using row-major storage.
// MAIN DESCRIPTION:
//   - Public constructor for Dense with strict shape validation.
//
// Implementation:
//   - Stage 1: validate rows>0 && cols>0; else ErrInvalidDimensions.
//   - Stage 2: allocate zero-filled buffer.
//
// Behavior highlights:
//   - No panics on user errors; returns sentinel errors.
//   - Public constructor forbids empty dimensions to avoid accidental 0×0 matrices.
//
// Errors:
//   - ErrInvalidDimensions (shape contract violation).
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDense(rows, cols int) (*Dense, error) {
	// Validate shape.
	if rows <= 0 || cols <= 0 {
		return nil, ErrInvalidDimensions
	}
	// Allocate a contiguous flat buffer; make() zero-fills it deterministically.
	buf := make([]float64, rows*cols)

	return &Dense{r: rows, c: cols, data: buf}, nil
}

// NewDenseFrom copies a jagged [][]float64 into a fresh Dense.
// MAIN DESCRIPTION:
//   - Ingest a sample batch (one row per example) with the width invariant enforced.
//
// Implementation:
//   - Stage 1: reject empty input (ErrInvalidDimensions).
//   - Stage 2: width is len(rows[0]); every row must match (ErrDimensionMismatch).
//   - Stage 3: copy row by row into the flat buffer.
//
// Behavior highlights:
//   - The result never aliases the input slices.
//
// Complexity:
//   - Time O(r*c), Space O(r*c).
func NewDenseFrom(rows [][]float64) (*Dense, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s: %w", ctxFrom, ErrInvalidDimensions)
	}
	width := len(rows[0])
	res, err := NewDense(len(rows), width)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ctxFrom, err)
	}
	for i, row := range rows {
		if len(row) != width { // every row has identical width
			return nil, fmt.Errorf("%s: row %d has width %d, want %d: %w", ctxFrom, i, len(row), width, ErrDimensionMismatch)
		}
		copy(res.data[i*width:(i+1)*width], row)
	}

	return res, nil
}

// Rows returns the row count. No side effects.
// Complexity: O(1).
func (m *Dense) Rows() int { return m.r }

// Cols returns the column count. No side effects.
// Complexity: O(1).
func (m *Dense) Cols() int { return m.c }

// Shape packs Rows() and Cols() into a single call for convenience.
// Complexity: O(1).
func (m *Dense) Shape() (rows, cols int) { return m.r, m.c }

// indexOf computes the row-major offset or returns ErrOutOfRange.
// Public methods (At/Set) wrap the sentinel with coordinates and method name.
// Complexity: O(1).
func (m *Dense) indexOf(row, col int) (int, error) {
	if row < 0 || row >= m.r {
		return 0, ErrOutOfRange
	}
	if col < 0 || col >= m.c {
		return 0, ErrOutOfRange
	}

	// Row-major offset: i*c + j.
	return row*m.c + col, nil
}

// At returns the value at (row, col) or ErrOutOfRange.
// Never panics on out-of-range; returns a wrapped sentinel error.
// Complexity: O(1).
func (m *Dense) At(row, col int) (float64, error) {
	off, err := m.indexOf(row, col)
	if err != nil {
		return 0, denseErrorf(ctxAt, row, col, err) // wrap with context
	}

	return m.data[off], nil
}

// Set stores v at (row, col) or returns ErrOutOfRange.
// Complexity: O(1).
func (m *Dense) Set(row, col int, v float64) error {
	off, err := m.indexOf(row, col)
	if err != nil {
		return denseErrorf(ctxSet, row, col, err) // wrap with context
	}
	m.data[off] = v // direct flat write

	return nil
}

// Clone returns a deep copy (new buffer). The dynamic type is *Dense.
// Complexity: O(r*c).
func (m *Dense) Clone() Matrix {
	return m.clone()
}

// clone is the typed variant of Clone used by kernels that must return *Dense.
func (m *Dense) clone() *Dense {
	cp := make([]float64, len(m.data)) // allocate same length
	copy(cp, m.data)                   // deep copy

	return &Dense{r: m.r, c: m.c, data: cp}
}

// Row returns a copy of row i.
// Errors: ErrOutOfRange when i is outside [0, Rows()).
// Complexity: O(c).
func (m *Dense) Row(i int) ([]float64, error) {
	if i < 0 || i >= m.r {
		return nil, denseErrorf(ctxRow, i, 0, ErrOutOfRange)
	}
	out := make([]float64, m.c)
	copy(out, m.data[i*m.c:(i+1)*m.c])

	return out, nil
}

// ToArray materializes the matrix as an independent [][]float64.
// Complexity: O(r*c).
func (m *Dense) ToArray() [][]float64 {
	out := make([][]float64, m.r)
	for i := 0; i < m.r; i++ {
		out[i] = make([]float64, m.c)
		copy(out[i], m.data[i*m.c:(i+1)*m.c])
	}

	return out
}

// Fill overwrites every element with v in-place.
// Complexity: O(r*c).
func (m *Dense) Fill(v float64) {
	for i := range m.data {
		m.data[i] = v
	}
}

// SetSubmatrix writes src into m with its top-left corner at (r0, c0).
// MAIN DESCRIPTION:
//   - In-place block write; the only structural mutation of an existing Dense.
//
// Implementation:
//   - Stage 1: validate the window [r0, r0+src.Rows()) × [c0, c0+src.Cols()).
//   - Stage 2: copy src row by row (fast path) or via At (generic path).
//
// Errors:
//   - ErrNilMatrix (src nil), ErrBadShape (window outside m).
//
// Complexity:
//   - Time O(src.Rows()*src.Cols()), Space O(1).
func (m *Dense) SetSubmatrix(r0, c0 int, src Matrix) error {
	if err := ValidateNotNil(src); err != nil {
		return denseErrorf(ctxSetBlock, r0, c0, err)
	}
	if err := ValidateWindow(m, r0, c0, src.Rows(), src.Cols()); err != nil {
		return denseErrorf(ctxSetBlock, r0, c0, err)
	}

	rows, cols := src.Rows(), src.Cols()
	// Fast path: contiguous row copies.
	if ds, ok := src.(*Dense); ok {
		for i := 0; i < rows; i++ {
			copy(m.data[(r0+i)*m.c+c0:(r0+i)*m.c+c0+cols], ds.data[i*cols:(i+1)*cols])
		}
		return nil
	}

	// Fallback: generic reads, direct writes (window already validated).
	var v float64
	var err error
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			if v, err = src.At(i, j); err != nil {
				return denseErrorf(ctxSetBlock, i, j, err)
			}
			m.data[(r0+i)*m.c+c0+j] = v
		}
	}

	return nil
}

// SetRowVector writes v into row i starting at column c0.
// Errors: ErrOutOfRange (bad row), ErrBadShape (v does not fit).
// Complexity: O(len(v)).
func (m *Dense) SetRowVector(i, c0 int, v Vector) error {
	if i < 0 || i >= m.r {
		return denseErrorf(ctxSetRowVec, i, c0, ErrOutOfRange)
	}
	if c0 < 0 || c0+len(v) > m.c {
		return denseErrorf(ctxSetRowVec, i, c0, ErrBadShape)
	}
	copy(m.data[i*m.c+c0:i*m.c+c0+len(v)], v)

	return nil
}

// String HUMAN-READABLE dump of rows for diagnostics.
// Implementation:
//   - Stage 1: iterate rows/cols deterministically.
//   - Stage 2: write values into strings.Builder with standard delimiters.
//
// Complexity:
//   - Time O(r*c), Space O(r*c) for formatting.
func (m *Dense) String() string {
	var b strings.Builder
	var i, j, base int
	for i = 0; i < m.r; i++ { // iterate rows deterministically
		b.WriteString(_fmtRowOpen) // open row
		base = i * m.c
		for j = 0; j < m.c; j++ { // iterate cols
			b.WriteString(fmt.Sprintf("%g", m.data[base+j]))
			if j+1 < m.c {
				b.WriteString(_fmtSep) // separate values with comma + space
			}
		}
		b.WriteString(_fmtRowClose) // close row
	}

	return b.String()
}

// Do visits each element (i,j) in row-major order and calls f(i,j,v).
// Read-only visitor; stops early when f returns false.
// Complexity: O(r*c), Space O(1).
func (m *Dense) Do(f func(i, j int, v float64) bool) {
	var i, j, base int // predeclare loop counters and base offset

	for i = 0; i < m.r; i++ { // iterate rows deterministically
		base = i * m.c            // compute flat base offset for row i
		for j = 0; j < m.c; j++ { // iterate columns
			if !f(i, j, m.data[base+j]) { // stop if the callback says so
				return
			}
		}
	}
}

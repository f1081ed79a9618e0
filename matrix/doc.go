// Package matrix offers the dense real-valued algebra used by the RBM engine.
//
// The matrix package provides:
//
//   - Dense: a row-major float64 matrix with bounds-checked At/Set.
//   - Vector: the 1-D specialization, convertible to/from one-row and
//     one-column matrices.
//   - Kernels: Add, Sub, Mul (optimized) and MulSafe (reference), Scale,
//     AddScalar, Divide, Pow, Transpose, Greater/Less, Apply, Sum.
//   - Structural edits: Submatrix, InsertRow, InsertCol, RemoveFirstCol,
//     SetRow, SetCol.
//
// Every kernel allocates its result; operands are never mutated. Row-wise
// kernels fan out across GOMAXPROCS workers once a matrix has at least
// ParallelRowThreshold rows.
//
// Shape errors are reported with sentinels (ErrDimensionMismatch,
// ErrBadShape, ...) that callers match with errors.Is.
package matrix

// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the linear-algebra kernels.
//
// Coverage:
//   - Add/Sub fast path vs generic path, shape mismatches.
//   - Mul vs MulSafe bitwise equality (dense and sparse operands) and an
//     independent gonum/mat oracle.
//   - Transpose involution, Scale/AddScalar/Divide/Pow, MatVec/VecMul.

package matrix_test

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/deepbelief/matrix"
)

const (
	rtolTight = 1e-12
	atolTight = 1e-12
)

// toGonum copies a matrix into a gonum *mat.Dense for oracle comparisons.
func toGonum(t *testing.T, m matrix.Matrix) *mat.Dense {
	t.Helper()
	r, c := m.Rows(), m.Cols()
	data := make([]float64, 0, r*c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			data = append(data, MustAt(t, m, i, j))
		}
	}

	return mat.NewDense(r, c, data)
}

// fromGonum converts a gonum matrix back into *matrix.Dense.
func fromGonum(t *testing.T, g mat.Matrix) *matrix.Dense {
	t.Helper()
	r, c := g.Dims()
	d := MustDense(t, r, c)
	for i := 0; i < r; i++ {
		for j := 0; j < c; j++ {
			MustSet(t, d, i, j, g.At(i, j))
		}
	}

	return d
}

func TestAddSub_Basic(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 2, []float64{1, 2, 3, 4})
	b := NewFilledDense(t, 2, 2, []float64{10, 20, 30, 40})

	sum, err := matrix.Add(a, b)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{11, 22}, {33, 44}}, sum)

	diff, err := matrix.Sub(b, a)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{9, 18}, {27, 36}}, diff)

	// generic path agrees with the fast path
	slow, err := matrix.Add(hide{a}, hide{b})
	require.NoError(t, err)
	ok, err := matrix.Equal(sum, slow)
	require.NoError(t, err)
	require.True(t, ok)

	// operands untouched
	CompareExact(t, [][]float64{{1, 2}, {3, 4}}, a)
}

func TestAddSub_Errors(t *testing.T) {
	t.Parallel()
	a := MustDense(t, 2, 2)
	b := MustDense(t, 2, 3)
	_, err := matrix.Add(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Sub(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Add(nil, a)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestMul_SmallKnown(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	b := NewFilledDense(t, 3, 2, []float64{7, 8, 9, 10, 11, 12})
	got, err := matrix.Mul(a, b)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{58, 64}, {139, 154}}, got)
}

func TestMul_DimensionMismatch(t *testing.T) {
	t.Parallel()
	a := MustDense(t, 2, 3)
	b := MustDense(t, 2, 3)
	_, err := matrix.Mul(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.MulSafe(a, b)
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.Mul(a, nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

// TestMul_MatchesMulSafe checks the optimized and reference products agree
// bitwise, on both sides of the parallel threshold and with sparse operands.
func TestMul_MatchesMulSafe(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name    string
		r, n, c int
		sparse  bool
	}{
		{"tiny", 1, 1, 1, false},
		{"rect", 3, 7, 5, false},
		{"sparse", 9, 4, 6, true},
		{"parallel", matrix.ParallelRowThreshold + 13, 17, 11, false},
		{"parallel-sparse", 2 * matrix.ParallelRowThreshold, 9, 21, true},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			var a, b *matrix.Dense
			if tc.sparse {
				a = SparseFilledDense(t, tc.r, tc.n, 11)
				b = SparseFilledDense(t, tc.n, tc.c, 12)
			} else {
				a = RandFilledDense(t, tc.r, tc.n, 21)
				b = RandFilledDense(t, tc.n, tc.c, 22)
			}
			fast, err := matrix.Mul(a, b)
			require.NoError(t, err)
			safe, err := matrix.MulSafe(a, b)
			require.NoError(t, err)
			generic, err := matrix.Mul(hide{a}, b) // delegates to MulSafe
			require.NoError(t, err)

			ok, err := matrix.Equal(fast, safe)
			require.NoError(t, err)
			require.True(t, ok, "Mul and MulSafe differ")
			ok, err = matrix.Equal(fast, generic)
			require.NoError(t, err)
			require.True(t, ok, "Mul fast and generic paths differ")

			var oracle mat.Dense
			oracle.Mul(toGonum(t, a), toGonum(t, b))
			CompareClose(t, fast, fromGonum(t, &oracle), rtolTight, atolTight)
		})
	}
}

func TestTranspose(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})
	at, err := matrix.Transpose(a)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 4}, {2, 5}, {3, 6}}, at)

	big := RandFilledDense(t, matrix.ParallelRowThreshold+5, 7, 3)
	bt, err := matrix.Transpose(big)
	require.NoError(t, err)
	btt, err := matrix.Transpose(bt)
	require.NoError(t, err)
	ok, err := matrix.Equal(big, btt)
	require.NoError(t, err)
	require.True(t, ok)

	_, err = matrix.Transpose(nil)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

func TestScalarKernels(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 2, 2, []float64{1, -2, 3, 0.5})

	s, err := matrix.Scale(a, 2)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{2, -4}, {6, 1}}, s)

	p, err := matrix.AddScalar(a, 1)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{2, -1}, {4, 1.5}}, p)

	d, err := matrix.Divide(a, 2)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{0.5, -1}, {1.5, 0.25}}, d)

	sq, err := matrix.Pow(a, 2)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 4}, {9, 0.25}}, sq)

	cube, err := matrix.Pow(hide{a}, 3)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, -8}, {27, 0.125}}, cube)

	CompareExact(t, [][]float64{{1, -2}, {3, 0.5}}, a)
}

// TestDivide_ByZero verifies the no-op policy: an independent copy, no error.
func TestDivide_ByZero(t *testing.T) {
	t.Parallel()
	a := NewFilledDense(t, 1, 3, []float64{1, 2, 3})
	d, err := matrix.Divide(a, 0)
	require.NoError(t, err)
	CompareExact(t, [][]float64{{1, 2, 3}}, d)

	MustSet(t, d, 0, 0, 42)
	require.Equal(t, 1.0, MustAt(t, a, 0, 0))
}

func TestMatVecAndVecMul(t *testing.T) {
	t.Parallel()
	m := NewFilledDense(t, 2, 3, []float64{1, 2, 3, 4, 5, 6})

	y, err := matrix.MatVec(m, matrix.Vector{1, 0, 1})
	require.NoError(t, err)
	require.Equal(t, matrix.Vector{4, 10}, y)

	z, err := matrix.VecMul(matrix.Vector{1, 1}, m)
	require.NoError(t, err)
	require.Equal(t, matrix.Vector{5, 7, 9}, z)

	_, err = matrix.MatVec(m, matrix.Vector{1, 2})
	require.ErrorIs(t, err, matrix.ErrDimensionMismatch)
	_, err = matrix.VecMul(nil, m)
	require.ErrorIs(t, err, matrix.ErrNilMatrix)
}

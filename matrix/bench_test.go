// SPDX-License-Identifier: MIT
// Package matrix_test contains micro-benchmarks for the hot kernels.
//
// Notes:
//   - Sinks prevent the compiler from eliding results.
//   - Shapes mirror an RBM step: batch × (visible+1) times (visible+1) × (hidden+1).

package matrix_test

import (
	"testing"

	"github.com/katalvlaran/deepbelief/matrix"
)

var (
	sinkM *matrix.Dense
	sinkF float64
)

func benchMul(b *testing.B, r, n, c int, mul func(a, b matrix.Matrix) (*matrix.Dense, error)) {
	A := mustDense(b, r, n)
	B := mustDense(b, n, c)
	fillDenseRand(b, A, 1)
	fillDenseRand(b, B, 2)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := mul(A, B)
		if err != nil {
			b.Fatal(err)
		}
		sinkM = res
	}
}

func BenchmarkMul_256x785x101(b *testing.B)     { benchMul(b, 256, 785, 101, matrix.Mul) }
func BenchmarkMulSafe_256x785x101(b *testing.B) { benchMul(b, 256, 785, 101, matrix.MulSafe) }
func BenchmarkMul_32x65x33(b *testing.B)        { benchMul(b, 32, 65, 33, matrix.Mul) }

func BenchmarkGreater_1024x785(b *testing.B) {
	P := mustDense(b, 1024, 785)
	U := mustDense(b, 1024, 785)
	fillDenseRand(b, P, 3)
	fillDenseRand(b, U, 4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := matrix.Greater(P, U)
		if err != nil {
			b.Fatal(err)
		}
		sinkM = res
	}
}

func BenchmarkInsertCol_1024x784(b *testing.B) {
	M := mustDense(b, 1024, 784)
	fillDenseRand(b, M, 5)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		res, err := matrix.InsertCol(M, 1)
		if err != nil {
			b.Fatal(err)
		}
		sinkM = res
	}
}

func BenchmarkSum_1024x785(b *testing.B) {
	M := mustDense(b, 1024, 785)
	fillDenseRand(b, M, 6)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		s, err := matrix.Sum(M)
		if err != nil {
			b.Fatal(err)
		}
		sinkF = s
	}
}

// SPDX-License-Identifier: MIT
package rng_test

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deepbelief/matrix"
	"github.com/katalvlaran/deepbelief/rng"
)

// countingSource counts Uniform draws and hands out increasing values, so a
// lost or duplicated draw shows up as a wrong count or a repeated value.
type countingSource struct {
	mu sync.Mutex
	n  int
}

func (c *countingSource) Uniform() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n++
	return float64(c.n)
}

func (c *countingSource) Gaussian() float64 { return c.Uniform() }

func TestLocked_SeedReproducible(t *testing.T) {
	t.Parallel()
	a, b := rng.New(42), rng.New(42)
	for i := 0; i < 100; i++ {
		ua, ub := a.Uniform(), b.Uniform()
		require.Equal(t, ua, ub)
		require.GreaterOrEqual(t, ua, 0.0)
		require.Less(t, ua, 1.0)
		require.Equal(t, a.Gaussian(), b.Gaussian())
	}
}

func TestLocked_ConcurrentDraws(t *testing.T) {
	t.Parallel()
	const goroutines, per = 16, 500
	src := rng.New(7)
	var wg sync.WaitGroup
	out := make([][]float64, goroutines)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			for i := 0; i < per; i++ {
				out[g] = append(out[g], src.Uniform())
			}
		}(g)
	}
	wg.Wait()

	// The concurrent draws are exactly the first goroutines*per values of the
	// same seeded stream.
	ref := rng.New(7)
	want := make(map[float64]int, goroutines*per)
	for i := 0; i < goroutines*per; i++ {
		want[ref.Uniform()]++
	}
	for _, vals := range out {
		require.Len(t, vals, per)
		for _, v := range vals {
			want[v]--
		}
	}
	for v, n := range want {
		require.Zero(t, n, "value %v drawn a wrong number of times", v)
	}
}

func TestGaussian_Moments(t *testing.T) {
	t.Parallel()
	src := rng.New(1)
	const n = 20000
	var sum, sumSq float64
	for i := 0; i < n; i++ {
		g := src.Gaussian()
		require.False(t, math.IsNaN(g) || math.IsInf(g, 0))
		sum += g
		sumSq += g * g
	}
	mean := sum / n
	variance := sumSq/n - mean*mean
	require.InDelta(t, 0, mean, 0.05)
	require.InDelta(t, 1, variance, 0.05)
}

func TestGenerators_ShapesAndRanges(t *testing.T) {
	t.Parallel()
	src := rng.New(3)
	rows := matrix.ParallelRowThreshold + 7

	u, err := rng.UniformMatrix(src, rows, 5)
	require.NoError(t, err)
	require.Equal(t, rows, u.Rows())
	require.Equal(t, 5, u.Cols())
	u.Do(func(_, _ int, v float64) bool {
		require.True(t, v >= 0 && v < 1)
		return true
	})

	b, err := rng.UniformBoolMatrix(src, rows, 3)
	require.NoError(t, err)
	b.Do(func(_, _ int, v float64) bool {
		require.True(t, v == 0 || v == 1)
		return true
	})

	g, err := rng.GaussianMatrix(src, 2, 2)
	require.NoError(t, err)
	require.Equal(t, 2, g.Rows())

	v := rng.UniformVector(src, 4)
	require.Len(t, v, 4)
	require.Empty(t, rng.UniformVector(src, 0))

	_, err = rng.UniformMatrix(src, 0, 3)
	require.ErrorIs(t, err, matrix.ErrInvalidDimensions)
}

// TestGenerators_ParallelNoLostDraws checks a row-parallel fill issues exactly
// one draw per element.
func TestGenerators_ParallelNoLostDraws(t *testing.T) {
	t.Parallel()
	src := &countingSource{}
	rows, cols := 4*matrix.ParallelRowThreshold, 9
	m, err := rng.UniformMatrix(src, rows, cols)
	require.NoError(t, err)
	require.Equal(t, rows*cols, src.n)

	seen := make(map[float64]bool, rows*cols)
	m.Do(func(_, _ int, v float64) bool {
		require.False(t, seen[v], "duplicate draw %v", v)
		seen[v] = true
		return true
	})
	require.Len(t, seen, rows*cols)
}

func TestConstantAndSequence(t *testing.T) {
	t.Parallel()
	c := rng.Constant(0.3)
	require.Equal(t, 0.3, c.Uniform())
	require.Equal(t, 0.0, c.Gaussian())

	m, err := rng.UniformBoolMatrix(rng.Constant(0.6), 2, 2)
	require.NoError(t, err)
	m.Do(func(_, _ int, v float64) bool {
		require.Equal(t, 1.0, v)
		return true
	})

	s := rng.Sequence(0.1, 0.2)
	require.Equal(t, []float64{0.1, 0.2, 0.1}, []float64{s.Uniform(), s.Gaussian(), s.Uniform()})
	require.Equal(t, 0.0, rng.Sequence().Uniform())
}

func TestDefault_Shared(t *testing.T) {
	t.Parallel()
	require.Same(t, rng.Default(), rng.Default())
}

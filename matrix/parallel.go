// SPDX-License-Identifier: MIT
// Package: matrix
//
// Purpose:
//   - Row-parallel fan-out shared by every row-wise kernel (Mul, Greater, Apply,
//     Pow, structural edits) and by the random matrix generators in package rng.
//   - Work is split into contiguous row blocks, one task per block, executed by a
//     bounded worker pool. No per-element goroutines.
//
// Determinism:
//   - Each output row is written by exactly one task, so results do not depend on
//     scheduling as long as fn(i) only touches row i of its output.

package matrix

import (
	"runtime"

	"github.com/sourcegraph/conc/pool"
)

// ParallelRowThreshold is the minimum number of rows before a kernel fans out.
// Smaller operands run inline on the calling goroutine.
const ParallelRowThreshold = 64

// workers reports the fan-out width (GOMAXPROCS, at least 1).
func workers() int {
	if n := runtime.GOMAXPROCS(0); n > 1 {
		return n
	}

	return 1
}

// rowBlocks splits [0, rows) into at most n contiguous half-open blocks.
// Complexity: O(n).
func rowBlocks(rows, n int) [][2]int {
	if n > rows {
		n = rows
	}
	size := (rows + n - 1) / n // ceil(rows/n)
	blocks := make([][2]int, 0, n)
	for lo := 0; lo < rows; lo += size {
		hi := lo + size
		if hi > rows {
			hi = rows
		}
		blocks = append(blocks, [2]int{lo, hi})
	}

	return blocks
}

// ForEachRow calls fn(i) for every i in [0, rows), fanning out over row blocks
// when rows >= ParallelRowThreshold.
// Contract: fn(i) must only write state owned by row i.
// Complexity: O(rows) calls; wall time divided by the worker count.
func ForEachRow(rows int, fn func(i int)) {
	w := workers()
	if rows < ParallelRowThreshold || w == 1 {
		for i := 0; i < rows; i++ {
			fn(i)
		}
		return
	}

	p := pool.New().WithMaxGoroutines(w)
	for _, b := range rowBlocks(rows, w) {
		lo, hi := b[0], b[1]
		p.Go(func() {
			for i := lo; i < hi; i++ {
				fn(i)
			}
		})
	}
	p.Wait()
}

// ForEachRowErr is ForEachRow for callbacks that can fail (generic At/Set paths).
// The first error stops the failing block; other blocks run to completion and
// the first observed error is returned.
func ForEachRowErr(rows int, fn func(i int) error) error {
	w := workers()
	if rows < ParallelRowThreshold || w == 1 {
		for i := 0; i < rows; i++ {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	p := pool.New().WithErrors().WithFirstError().WithMaxGoroutines(w)
	for _, b := range rowBlocks(rows, w) {
		lo, hi := b[0], b[1]
		p.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return p.Wait()
}

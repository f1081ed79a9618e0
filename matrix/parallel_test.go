// SPDX-License-Identifier: MIT
// Package matrix_test contains unit tests for the row fan-out helpers.

package matrix_test

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/katalvlaran/deepbelief/matrix"
)

// TestForEachRow_VisitsEveryRowOnce runs below and above the threshold.
func TestForEachRow_VisitsEveryRowOnce(t *testing.T) {
	t.Parallel()
	for _, rows := range []int{0, 1, matrix.ParallelRowThreshold - 1, 10 * matrix.ParallelRowThreshold} {
		hits := make([]int32, rows)
		matrix.ForEachRow(rows, func(i int) { atomic.AddInt32(&hits[i], 1) })
		for i, h := range hits {
			require.Equal(t, int32(1), h, "rows=%d row=%d", rows, i)
		}
	}
}

func TestForEachRowErr(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	for _, rows := range []int{5, 4 * matrix.ParallelRowThreshold} {
		err := matrix.ForEachRowErr(rows, func(i int) error {
			if i == rows-1 {
				return boom
			}
			return nil
		})
		require.ErrorIs(t, err, boom, "rows=%d", rows)

		var n int64
		err = matrix.ForEachRowErr(rows, func(int) error {
			atomic.AddInt64(&n, 1)
			return nil
		})
		require.NoError(t, err)
		require.Equal(t, int64(rows), n)
	}
}

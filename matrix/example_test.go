// SPDX-License-Identifier: MIT
package matrix_test

import (
	"fmt"

	"github.com/katalvlaran/deepbelief/matrix"
)

// ExampleInsertCol shows the bias augmentation applied before a weight product.
func ExampleInsertCol() {
	data, _ := matrix.NewDenseFrom([][]float64{{0, 1}, {1, 0}})
	aug, _ := matrix.InsertCol(data, 1)
	fmt.Print(aug)
	// Output:
	// [1, 0, 1]
	// [1, 1, 0]
}

// ExampleGreater shows stochastic binarization against a fixed threshold.
func ExampleGreater() {
	probs, _ := matrix.NewDenseFrom([][]float64{{0.2, 0.7, 0.9}})
	u, _ := matrix.NewConstant(1, 3, 0.5)
	states, _ := matrix.Greater(probs, u)
	fmt.Print(states)
	// Output:
	// [0, 1, 1]
}

package model

import "math/rand"

// separable returns n rows where the label is 1 iff x0 + x1 > 1. The third
// column is noise.
func separable(n int, seed int64) ([][]float64, []int) {
	r := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		a, b := r.Float64(), r.Float64()
		X[i] = []float64{a, b, r.Float64()}
		if a+b > 1 {
			y[i] = 1
		}
	}
	return X, y
}

package stats

import "math"

// Mean computes the average of a slice.
func Mean(x []float64) float64 {
	n := len(x)
	if n == 0 {
		return 0
	}
	return Sum(x) / float64(n)
}

// Sum returns the sum of all elements in the slice.
func Sum(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v
	}
	return s
}

// MinMax returns the minimum and maximum values in the slice.
func MinMax(x []float64) (float64, float64) {
	if len(x) == 0 {
		return 0, 0
	}
	min, max := x[0], x[0]
	for i := 1; i < len(x); i++ {
		if x[i] < min {
			min = x[i]
		} else if x[i] > max {
			max = x[i]
		}
	}
	return min, max
}

// AllFinite reports whether every value of every row is a finite number.
// It returns the first offending row and column otherwise.
func AllFinite(X [][]float64) (ok bool, row, col int) {
	for i, r := range X {
		for j, v := range r {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				return false, i, j
			}
		}
	}
	return true, -1, -1
}

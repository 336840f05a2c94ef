package nn

import "math"

// BCE returns the mean binary cross-entropy of yPred against yTrue and its
// gradient with respect to the logits (yPred must be sigmoid outputs).
func BCE(yTrue, yPred []float64) (float64, []float64) {
	n := len(yTrue)
	s := 0.0
	grad := make([]float64, n)

	for i := 0; i < n; i++ {
		p := math.Min(math.Max(yPred[i], 1e-12), 1-1e-12)
		y := yTrue[i]
		s += -(y*math.Log(p) + (1-y)*math.Log(1-p))
		grad[i] = (yPred[i] - y) / float64(n)
	}
	return s / float64(n), grad
}

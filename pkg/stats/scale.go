package stats

import (
	"errors"
	"math"
)

// StandardScaler standardizes each column to zero mean and unit variance
// using the population standard deviation. Constant columns keep a unit
// divisor so they map to zero.
type StandardScaler struct {
	Mean   []float64
	Std    []float64
	Fitted bool
}

func NewStandardScaler() *StandardScaler { return &StandardScaler{} }

func (s *StandardScaler) Fit(X [][]float64) error {
	if len(X) == 0 {
		return errors.New("scaler: empty X")
	}
	r, c := len(X), len(X[0])
	for i := range X {
		if len(X[i]) != c {
			return errors.New("scaler: inconsistent number of features in X rows")
		}
	}
	s.Mean = make([]float64, c)
	s.Std = make([]float64, c)
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		for i := 0; i < r; i++ {
			col[i] = X[i][j]
		}
		s.Mean[j] = Mean(col)
		v := 0.0
		for _, x := range col {
			d := x - s.Mean[j]
			v += d * d
		}
		s.Std[j] = math.Sqrt(v / float64(r))
		if s.Std[j] == 0 {
			s.Std[j] = 1
		}
	}
	s.Fitted = true
	return nil
}

// Transform returns a scaled copy of X. An unfitted scaler returns X as is.
func (s *StandardScaler) Transform(X [][]float64) [][]float64 {
	if !s.Fitted {
		return X
	}
	Y := make([][]float64, len(X))
	for i, x := range X {
		row := make([]float64, len(x))
		for j, v := range x {
			row[j] = (v - s.Mean[j]) / s.Std[j]
		}
		Y[i] = row
	}
	return Y
}

func (s *StandardScaler) FitTransform(X [][]float64) ([][]float64, error) {
	if err := s.Fit(X); err != nil {
		return nil, err
	}
	return s.Transform(X), nil
}

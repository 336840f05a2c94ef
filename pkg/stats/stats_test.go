package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMeanSumMinMax(t *testing.T) {
	x := []float64{3, -1, 4, 1, 5}
	assert.Equal(t, 12.0, Sum(x))
	assert.InDelta(t, 2.4, Mean(x), 1e-12)
	lo, hi := MinMax(x)
	assert.Equal(t, -1.0, lo)
	assert.Equal(t, 5.0, hi)
	assert.Equal(t, 0.0, Mean(nil))
}

func TestAllFinite(t *testing.T) {
	ok, _, _ := AllFinite([][]float64{{1, 2}, {3, 4}})
	assert.True(t, ok)

	ok, r, c := AllFinite([][]float64{{1, 2}, {3, math.NaN()}})
	assert.False(t, ok)
	assert.Equal(t, 1, r)
	assert.Equal(t, 1, c)

	ok, r, c = AllFinite([][]float64{{math.Inf(1)}})
	assert.False(t, ok)
	assert.Equal(t, 0, r)
	assert.Equal(t, 0, c)
}

func TestStandardScaler(t *testing.T) {
	X := [][]float64{{1, 10, 7}, {2, 20, 7}, {3, 30, 7}}
	s := NewStandardScaler()

	Y, err := s.FitTransform(X)
	require.NoError(t, err)
	assert.Equal(t, []float64{2, 20, 7}, s.Mean)

	for j := 0; j < 2; j++ {
		col := []float64{Y[0][j], Y[1][j], Y[2][j]}
		assert.InDelta(t, 0, Mean(col), 1e-12)
		v := 0.0
		for _, c := range col {
			v += c * c
		}
		assert.InDelta(t, 1, v/3, 1e-12)
	}
	// constant column maps to zero
	assert.Equal(t, []float64{0, 0, 0}, []float64{Y[0][2], Y[1][2], Y[2][2]})
	// input untouched
	assert.Equal(t, 1.0, X[0][0])
}

func TestStandardScalerErrors(t *testing.T) {
	s := NewStandardScaler()
	assert.Error(t, s.Fit(nil))
	assert.Error(t, s.Fit([][]float64{{1, 2}, {3}}))

	X := [][]float64{{5}}
	assert.Equal(t, X, s.Transform(X), "unfitted scaler is a no-op")
}

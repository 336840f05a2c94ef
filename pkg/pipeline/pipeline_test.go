package pipeline

import (
	"math/rand"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/stats"
)

// wideScale returns rows whose two informative columns differ in scale by
// four orders of magnitude.
func wideScale(n int, seed int64) ([][]float64, []int) {
	r := rand.New(rand.NewSource(seed))
	X := make([][]float64, n)
	y := make([]int, n)
	for i := range X {
		a, b := r.Float64(), r.Float64()
		X[i] = []float64{a * 10000, b}
		if a+b > 1 {
			y[i] = 1
		}
	}
	return X, y
}

func TestScaledLogisticFitsUnscaledData(t *testing.T) {
	X, y := wideScale(600, 1)
	p := NewScaledLogistic(model.WithMaxIter(200))
	require.NoError(t, p.Fit(X, y))

	assert.Greater(t, model.Accuracy(y, p.Predict(X)), 0.9)

	scaler := p.Steps[0].(*stats.StandardScaler)
	require.True(t, scaler.Fitted)
	assert.InDelta(t, 5000, scaler.Mean[0], 500)
}

func TestPipelineWithoutFinal(t *testing.T) {
	p := &Pipeline{}
	assert.Error(t, p.Fit([][]float64{{1}}, []int{0}))
}

func TestPipelineSaveLoad(t *testing.T) {
	X, y := wideScale(200, 2)
	p := NewScaledLogistic(model.WithMaxIter(30))
	require.NoError(t, p.Fit(X, y))

	path := filepath.Join(t.TempDir(), "logistic_model"+model.ModelExt)
	require.NoError(t, model.Save(path, p))

	back, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, p.PredictProba(X), back.PredictProba(X))
}

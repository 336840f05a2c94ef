package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomForestLearnsBoundary(t *testing.T) {
	X, y := separable(600, 4)
	Xt, yt := separable(200, 5)

	rf := NewRandomForest(WithNEstimators(30), WithForestMaxDepth(8))
	require.NoError(t, rf.Fit(X, y))
	require.Len(t, rf.Trees, 30)

	assert.Greater(t, Accuracy(yt, rf.Predict(Xt)), 0.85)
	for _, p := range rf.PredictProba(Xt) {
		assert.GreaterOrEqual(t, p, 0.0)
		assert.LessOrEqual(t, p, 1.0)
	}
}

func TestRandomForestIsReproducible(t *testing.T) {
	X, y := separable(300, 6)

	a := NewRandomForest(WithNEstimators(10), WithForestRandomState(42))
	b := NewRandomForest(WithNEstimators(10), WithForestRandomState(42))
	require.NoError(t, a.Fit(X, y))
	require.NoError(t, b.Fit(X, y))

	assert.Equal(t, a.PredictProba(X), b.PredictProba(X))
	assert.Equal(t, a.FeatureImportances(), b.FeatureImportances())
}

func TestRandomForestImportances(t *testing.T) {
	X, y := separable(500, 7)
	rf := NewRandomForest(WithNEstimators(20), WithForestMaxFeatures(MaxFeaturesAll))
	require.NoError(t, rf.Fit(X, y))

	imp := rf.FeatureImportances()
	require.Len(t, imp, 3)
	sum := 0.0
	for _, v := range imp {
		sum += v
	}
	assert.InDelta(t, 1.0, sum, 1e-9)
	assert.Less(t, imp[2], imp[0])
	assert.Less(t, imp[2], imp[1])
}

func TestRandomForestOptionsValidation(t *testing.T) {
	X, y := separable(20, 8)

	assert.Error(t, NewRandomForest(WithNEstimators(0)).Fit(X, y))
	assert.Error(t, NewRandomForest(WithForestMaxFeatures("half")).Fit(X, y))
	assert.Error(t, NewRandomForest(WithForestCriterion("mse")).Fit(X, y))
	assert.Error(t, NewRandomForest().Fit(X, y[:5]))
}

func TestResolveMaxFeatures(t *testing.T) {
	cases := map[string]int{
		MaxFeaturesAuto: 4,
		MaxFeaturesSqrt: 4,
		MaxFeaturesLog2: 4,
		MaxFeaturesAll:  19,
	}
	for s, want := range cases {
		got, err := resolveMaxFeatures(s, 19)
		require.NoError(t, err, s)
		assert.Equal(t, want, got, s)
	}
}

package report

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
)

func requireFile(t *testing.T, path string) {
	t.Helper()
	fi, err := os.Stat(path)
	require.NoError(t, err, path)
	assert.Greater(t, fi.Size(), int64(0), path)
}

func TestWriteEDA(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, data.GenerateSample(&buf, 300, 1))
	ds, err := data.ReadDataset(&buf, data.DefaultSchema())
	require.NoError(t, err)

	dir := filepath.Join(t.TempDir(), "images", "eda")
	require.NoError(t, WriteEDA(dir, ds, data.DefaultSchema()))

	for _, name := range []string{ChurnDistribution, CustomerAgeDistribution, MaritalStatus, TotalTransDistribution, Heatmap} {
		requireFile(t, filepath.Join(dir, name))
	}
}

func TestROC(t *testing.T) {
	fpr, tpr, auc, err := ROC([]float64{0.1, 0.4, 0.35, 0.8}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 0.75, auc, 1e-12)
	assert.Equal(t, 0.0, fpr[0])
	assert.Equal(t, 1.0, fpr[len(fpr)-1])
	assert.Equal(t, 1.0, tpr[len(tpr)-1])

	_, _, auc, err = ROC([]float64{0.1, 0.2, 0.8, 0.9}, []int{0, 0, 1, 1})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, auc, 1e-12)

	_, _, _, err = ROC([]float64{0.1, 0.2}, []int{1, 1})
	assert.Error(t, err)
}

func TestWriteResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "images", "results")
	yTrue := []int{0, 0, 1, 1, 0, 1}
	yPred := []int{0, 1, 1, 1, 0, 0}
	rep, err := model.NewClassificationReport(yTrue, yPred)
	require.NoError(t, err)

	require.NoError(t, WriteClassificationImage(filepath.Join(dir, RFResults), "Random Forest", rep, rep))
	requireFile(t, filepath.Join(dir, RFResults))

	aucs, err := WriteROC(filepath.Join(dir, ROCCurve),
		Curve{Name: "Random Forest", Scores: []float64{0.1, 0.6, 0.7, 0.9, 0.2, 0.4}, Labels: yTrue},
		Curve{Name: "Logistic Regression", Scores: []float64{0.3, 0.2, 0.6, 0.5, 0.1, 0.4}, Labels: yTrue},
	)
	require.NoError(t, err)
	require.Len(t, aucs, 2)
	requireFile(t, filepath.Join(dir, ROCCurve))

	names := []string{"a", "b", "c"}
	require.NoError(t, WriteFeatureImportance(filepath.Join(dir, FeatureImportance), names, []float64{0.2, 0.5, 0.3}))
	requireFile(t, filepath.Join(dir, FeatureImportance))

	assert.Error(t, WriteFeatureImportance(filepath.Join(dir, FeatureImportance), names, []float64{1}))
}

func TestSortedImportances(t *testing.T) {
	assert.Equal(t, []int{1, 3, 0, 2}, SortedImportances([]float64{0.1, 0.5, 0.1, 0.3}))
}

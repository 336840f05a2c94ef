package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveStage(t *testing.T) {
	m := New()
	m.ObserveStage("load", time.Now(), nil)
	m.ObserveStage("train", time.Now(), errors.New("boom"))
	m.ObserveStage("train", time.Now(), errors.New("boom"))

	assert.Equal(t, 0.0, testutil.ToFloat64(m.StageErrors.WithLabelValues("load")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.StageErrors.WithLabelValues("train")))
	assert.GreaterOrEqual(t, testutil.ToFloat64(m.StageDuration.WithLabelValues("load")), 0.0)
}

func TestWriteTextfile(t *testing.T) {
	m := New()
	m.SetScore("random_forest", "test", "accuracy", 0.93)
	m.Rows.Set(10127)

	path := filepath.Join(t.TempDir(), "metrics", "churn.prom")
	require.NoError(t, m.WriteTextfile(path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(b)
	assert.True(t, strings.Contains(out, `churn_model_score{metric="accuracy",model="random_forest",partition="test"} 0.93`), out)
	assert.True(t, strings.Contains(out, "churn_dataset_rows 10127"), out)
	assert.True(t, strings.Contains(out, "churn_last_run_timestamp_seconds"), out)
}

func TestSeparateRegistries(t *testing.T) {
	a, b := New(), New()
	a.Rows.Set(1)
	b.Rows.Set(2)
	assert.Equal(t, 1.0, testutil.ToFloat64(a.Rows))
	assert.Equal(t, 2.0, testutil.ToFloat64(b.Rows))
}

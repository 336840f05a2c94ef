package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(root *cobra.Command, args ...string) (string, error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(append([]string{"--no-color"}, args...))
	err := root.ExecuteContext(context.Background())
	return buf.String(), err
}

// writeConfig generates a small dataset under a temp dir and a config file
// that keeps every output inside it.
func writeConfig(t *testing.T) (cfgPath, root string) {
	t.Helper()
	root = t.TempDir()
	dataPath := filepath.Join(root, "data", "bank_data.csv")

	_, err := executeCommand(NewRootCmd(), "sample", "--rows", "300", "--seed", "5", "--out", dataPath)
	require.NoError(t, err)

	cfg := fmt.Sprintf(`dataPath: %[1]s/data/bank_data.csv
paths:
  edaDir: %[1]s/images/eda
  resultsDir: %[1]s/images/results
  modelsDir: %[1]s/models
  logFile: %[1]s/logs/churn_library.log
  metricsFile: %[1]s/metrics/churn.prom
  runsDB: %[1]s/models/runs.db
forest:
  folds: 2
  workers: 2
  grid:
    n_estimators: [8]
    max_features: [sqrt]
    max_depth: [4]
    criterion: [gini]
logistic:
  maxIter: 60
`, root)
	cfgPath = filepath.Join(root, "churn.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))
	return cfgPath, root
}

func TestRootHelp(t *testing.T) {
	out, err := executeCommand(NewRootCmd(), "--help")
	require.NoError(t, err)
	for _, sub := range []string{"run", "verify", "sample", "history"} {
		assert.Contains(t, out, sub)
	}
}

func TestSampleWritesRows(t *testing.T) {
	out := filepath.Join(t.TempDir(), "nested", "sample.csv")
	stdout, err := executeCommand(NewRootCmd(), "sample", "--rows", "25", "--out", out)
	require.NoError(t, err)
	assert.Contains(t, stdout, "wrote 25 rows")

	b, err := os.ReadFile(out)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	assert.Len(t, lines, 26)
}

func TestSampleRejectsNonPositiveRows(t *testing.T) {
	_, err := executeCommand(NewRootCmd(), "sample", "--rows", "0", "--out", filepath.Join(t.TempDir(), "x.csv"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rows must be positive")
}

func TestRunThenHistory(t *testing.T) {
	cfgPath, root := writeConfig(t)

	out, err := executeCommand(NewRootCmd(), "run", "--config", cfgPath, "--log-level", "warn")
	require.NoError(t, err)
	assert.Contains(t, out, "Random Forest results")
	assert.Contains(t, out, "Logistic Regression results")
	assert.Contains(t, out, "weighted avg")
	assert.Contains(t, out, "done")
	assert.FileExists(t, filepath.Join(root, "models", "rfc_model.gob"))
	assert.FileExists(t, filepath.Join(root, "models", "logistic_model.gob"))

	out, err = executeCommand(NewRootCmd(), "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "rows=300")
	assert.Contains(t, out, "ok")
	assert.Contains(t, out, "best forest:")
}

func TestHistoryEmpty(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	out, err := executeCommand(NewRootCmd(), "history", "--config", cfgPath)
	require.NoError(t, err)
	assert.Contains(t, out, "no runs recorded")
}

func TestRunMissingData(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := executeCommand(NewRootCmd(), "run", "--config", cfgPath, "--data", "/nonexistent/bank.csv", "--log-level", "disabled")
	require.Error(t, err)
}

func TestRunInvalidLogLevel(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	_, err := executeCommand(NewRootCmd(), "run", "--config", cfgPath, "--log-level", "loud")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestVerify(t *testing.T) {
	cfgPath, root := writeConfig(t)

	out, err := executeCommand(NewRootCmd(), "verify", "--config", cfgPath)
	require.NoError(t, err)
	for _, name := range []string{"import_data", "perform_eda", "encoder_helper", "perform_feature_engineering", "train_models"} {
		assert.Contains(t, out, "PASS "+name)
	}
	assert.NotContains(t, out, "FAIL")

	b, err := os.ReadFile(filepath.Join(root, "logs", "churn_library.log"))
	require.NoError(t, err)
	assert.Contains(t, string(b), " - root - INFO - Testing import_data: SUCCESS")
}

func TestVerifyReportsFailures(t *testing.T) {
	cfgPath, _ := writeConfig(t)
	out, err := executeCommand(NewRootCmd(), "verify", "--config", cfgPath, "--data", "/nonexistent/bank.csv", "--logger-name", "churn")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "checks failed")
	assert.Contains(t, out, "FAIL import_data")
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("split:\n  testSize: 2\n"), 0o644))
	_, err := executeCommand(NewRootCmd(), "history", "--config", path)
	require.Error(t, err)
}

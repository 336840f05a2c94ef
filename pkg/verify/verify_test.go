package verify

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/config"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
)

var lineFormat = regexp.MustCompile(`^\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2} - root - (INFO|ERROR) - Testing \S+`)

func harnessConfig(t *testing.T) config.Config {
	t.Helper()
	root := t.TempDir()
	path := filepath.Join(root, "data", "bank_data.csv")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	var buf bytes.Buffer
	require.NoError(t, data.GenerateSample(&buf, 250, 3))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	cfg := config.Default()
	cfg.DataPath = path
	cfg.Paths = config.Paths{
		EDADir:      filepath.Join(root, "images", "eda"),
		ResultsDir:  filepath.Join(root, "images", "results"),
		ModelsDir:   filepath.Join(root, "models"),
		LogFile:     filepath.Join(root, "logs", "churn_library.log"),
		MetricsFile: filepath.Join(root, "metrics", "churn.prom"),
		RunsDB:      filepath.Join(root, "models", "runs.db"),
	}
	cfg.Forest.Grid = model.ParamGrid{
		NEstimators: []int{5},
		MaxFeatures: []string{model.MaxFeaturesAuto},
		MaxDepth:    []int{4},
		Criterion:   []string{model.CriterionEntropy},
	}
	cfg.Forest.Folds = 2
	cfg.Logistic.MaxIter = 50
	return cfg
}

func TestRunAllChecksPass(t *testing.T) {
	cfg := harnessConfig(t)
	f, err := OpenLog(cfg.Paths.LogFile)
	require.NoError(t, err)

	sum := Run(context.Background(), cfg, NewLogger(f, DefaultLoggerName))
	require.NoError(t, f.Close())

	for _, c := range sum.Checks {
		assert.True(t, c.Passed(), "%s: err=%v failures=%d", c.Name, c.Err, c.Failures)
	}
	assert.True(t, sum.OK())
	assert.Len(t, sum.Checks, 6)

	b, err := os.ReadFile(cfg.Paths.LogFile)
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	for _, l := range lines {
		assert.Regexp(t, lineFormat, l)
	}
	log := string(b)
	for _, want := range []string{
		"INFO - Testing import_data: SUCCESS",
		"ERROR - Testing import_data: The file wasn't found",
		"INFO - Testing perform_eda: SUCCESS",
		"INFO - Testing encoder_helper: SUCCESS",
		"INFO - Testing perform_feature_engineering: SUCCESS",
		"INFO - Testing train_models: SUCCESS",
	} {
		assert.Contains(t, log, want)
	}
}

func TestRunContinuesAfterFailures(t *testing.T) {
	cfg := harnessConfig(t)
	cfg.DataPath = filepath.Join(t.TempDir(), "data", "absent.csv")

	var buf bytes.Buffer
	sum := Run(context.Background(), cfg, NewLogger(&buf, DefaultLoggerName))

	require.Len(t, sum.Checks, 6)
	assert.False(t, sum.OK())
	assert.ErrorIs(t, sum.Checks[0].Err, churnerr.ErrNotFound)
	assert.True(t, sum.Checks[1].Passed(), "missing-file check expects NotFound")
	for _, c := range sum.Checks[2:] {
		assert.ErrorIs(t, c.Err, errSkipped, c.Name)
	}
	assert.Equal(t, 5, sum.Failed())
	assert.Contains(t, buf.String(), "ERROR - Testing train_models: "+errSkipped.Error())
}

func TestOpenLogTruncates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "churn_library.log")
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("old run\n"), 0o644))

	f, err := OpenLog(path)
	require.NoError(t, err)
	l := NewLogger(f, "churn")
	l.Info().Msg("Testing import_data: SUCCESS")
	require.NoError(t, f.Close())

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(b), "old run")
	assert.Contains(t, string(b), " - churn - INFO - Testing import_data: SUCCESS")
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "The file wasn't found", Describe(churnerr.Wrap(churnerr.NotFound, "op", os.ErrNotExist)))
	assert.Equal(t, "KeyNotFound: x: KeyNotFound: value", Describe(churnerr.New(churnerr.KeyNotFound, "x", "value")))
	assert.Equal(t, "boom", Describe(errors.New("boom")))
}

package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	c := Default()
	require.NoError(t, c.Validate())

	assert.Equal(t, "./data/bank_data.csv", c.DataPath)
	assert.Equal(t, 0.3, c.Split.TestSize)
	assert.Equal(t, int64(42), c.Split.Seed)
	assert.Equal(t, 5, c.Forest.Folds)
	assert.Len(t, c.Forest.Grid.Candidates(), 24)
	assert.Equal(t, 1000, c.Logistic.MaxIter)
	assert.Equal(t, "./logs/churn_library.log", c.Paths.LogFile)
	assert.Len(t, c.Schema.FeatureNames(), 19)
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		yaml     string
		wantErr  bool
		validate func(t *testing.T, c Config)
	}{
		{
			name: "empty file keeps defaults",
			yaml: "",
			validate: func(t *testing.T, c Config) {
				assert.Equal(t, Default(), c)
			},
		},
		{
			name: "overrides",
			yaml: `
dataPath: /tmp/customers.csv
split:
  testSize: 0.25
forest:
  folds: 3
  grid:
    n_estimators: [10]
    max_depth: [3]
logistic:
  maxIter: 50
`,
			validate: func(t *testing.T, c Config) {
				assert.Equal(t, "/tmp/customers.csv", c.DataPath)
				assert.Equal(t, 0.25, c.Split.TestSize)
				assert.Equal(t, int64(42), c.Split.Seed)
				assert.Equal(t, 3, c.Forest.Folds)
				assert.Equal(t, []int{10}, c.Forest.Grid.NEstimators)
				assert.Len(t, c.Forest.Grid.Candidates(), 4)
				assert.Equal(t, 50, c.Logistic.MaxIter)
			},
		},
		{name: "bad test size", yaml: "split:\n  testSize: 1.5\n", wantErr: true},
		{name: "one fold", yaml: "forest:\n  folds: 1\n", wantErr: true},
		{name: "empty grid", yaml: "forest:\n  grid:\n    criterion: []\n", wantErr: true},
		{name: "not yaml", yaml: "split: [", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "churn.yaml")
			require.NoError(t, os.WriteFile(path, []byte(tt.yaml), 0o644))

			c, err := Load(path)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			if tt.validate != nil {
				tt.validate(t, c)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)

	c, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

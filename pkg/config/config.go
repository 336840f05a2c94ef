// Package config loads the churn pipeline settings from YAML. Every field
// has a default, so an empty or absent file reproduces the standard run.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
)

type Config struct {
	DataPath string      `yaml:"dataPath"`
	Paths    Paths       `yaml:"paths"`
	Schema   data.Schema `yaml:"schema"`

	Split struct {
		TestSize float64 `yaml:"testSize"`
		Seed     int64   `yaml:"seed"`
	} `yaml:"split"`

	Forest struct {
		Grid    model.ParamGrid `yaml:"grid"`
		Folds   int             `yaml:"folds"`
		Workers int             `yaml:"workers"`
	} `yaml:"forest"`

	Logistic struct {
		MaxIter      int     `yaml:"maxIter"`
		C            float64 `yaml:"c"`
		LearningRate float64 `yaml:"learningRate"`
		BatchSize    int     `yaml:"batchSize"`
	} `yaml:"logistic"`
}

// Paths are the output locations. Directories are created on demand.
type Paths struct {
	EDADir      string `yaml:"edaDir"`
	ResultsDir  string `yaml:"resultsDir"`
	ModelsDir   string `yaml:"modelsDir"`
	LogFile     string `yaml:"logFile"`
	MetricsFile string `yaml:"metricsFile"`
	RunsDB      string `yaml:"runsDB"`
}

// Default returns the standard run: bank_data.csv, 30% test split at seed
// 42, the 24-candidate forest grid and a C=1 logistic regression.
func Default() Config {
	var c Config
	c.DataPath = "./data/bank_data.csv"
	c.Paths = Paths{
		EDADir:      "./images/eda",
		ResultsDir:  "./images/results",
		ModelsDir:   "./models",
		LogFile:     "./logs/churn_library.log",
		MetricsFile: "./metrics/churn.prom",
		RunsDB:      "./models/runs.db",
	}
	c.Schema = data.DefaultSchema()
	c.Split.TestSize = 0.3
	c.Split.Seed = 42
	c.Forest.Grid = model.DefaultParamGrid()
	c.Forest.Folds = 5
	c.Forest.Workers = 1
	c.Logistic.MaxIter = 1000
	c.Logistic.C = 1
	c.Logistic.LearningRate = 0.1
	c.Logistic.BatchSize = 256
	return c
}

// Load reads path over the defaults. An empty path returns Default().
func Load(path string) (Config, error) {
	c := Default()
	if path == "" {
		return c, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(b, &c); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}
	if err := c.Validate(); err != nil {
		return Config{}, fmt.Errorf("configuration validation failed: %w", err)
	}
	return c, nil
}

func (c *Config) Validate() error {
	if c.DataPath == "" {
		return fmt.Errorf("data path cannot be empty")
	}
	if c.Schema.LabelSource == "" || c.Schema.Label == "" {
		return fmt.Errorf("schema label columns cannot be empty")
	}
	if len(c.Schema.Numeric)+len(c.Schema.Categorical) == 0 {
		return fmt.Errorf("schema must name at least one feature column")
	}
	if c.Split.TestSize <= 0 || c.Split.TestSize >= 1 {
		return fmt.Errorf("test size must be between 0 and 1, got %f", c.Split.TestSize)
	}
	if c.Forest.Folds < 2 {
		return fmt.Errorf("cross-validation needs at least 2 folds, got %d", c.Forest.Folds)
	}
	if len(c.Forest.Grid.Candidates()) == 0 {
		return fmt.Errorf("forest grid has no candidates")
	}
	for _, n := range c.Forest.Grid.NEstimators {
		if n <= 0 {
			return fmt.Errorf("n_estimators must be positive, got %d", n)
		}
	}
	if c.Logistic.MaxIter <= 0 {
		return fmt.Errorf("logistic max iterations must be positive, got %d", c.Logistic.MaxIter)
	}
	if c.Logistic.C < 0 {
		return fmt.Errorf("logistic C cannot be negative, got %f", c.Logistic.C)
	}
	if c.Logistic.LearningRate <= 0 {
		return fmt.Errorf("logistic learning rate must be positive, got %f", c.Logistic.LearningRate)
	}
	return nil
}

// Package verify exercises each pipeline stage and logs a SUCCESS or
// ERROR line per assertion. A failing check is logged and the run moves
// on; nothing here returns an error.
package verify

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churn"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/config"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/report"
)

// Check names, matching the pipeline stages they exercise.
const (
	CheckImport          = "import_data"
	CheckEDA             = "perform_eda"
	CheckEncoder         = "encoder_helper"
	CheckFeatureEngineer = "perform_feature_engineering"
	CheckTrainModels     = "train_models"
)

// missingInputDirectory replaces the data directory for the not-found check.
const missingInputDirectory = "n0_data"

// CheckResult is the outcome of one check.
type CheckResult struct {
	Name     string
	Err      error // stage error, nil when the stage ran
	Failures int   // failed assertions after the stage ran
}

func (r CheckResult) Passed() bool { return r.Err == nil && r.Failures == 0 }

type Summary struct {
	Checks []CheckResult
}

func (s Summary) Failed() int {
	n := 0
	for _, c := range s.Checks {
		if !c.Passed() {
			n++
		}
	}
	return n
}

func (s Summary) OK() bool { return s.Failed() == 0 }

type check struct {
	log    zerolog.Logger
	result CheckResult
}

func (c *check) success() {
	c.log.Info().Msgf("Testing %s: SUCCESS", c.result.Name)
}

// expect logs pass when ok, otherwise fail at ERROR level.
func (c *check) expect(ok bool, pass, fail string) {
	if ok {
		c.log.Info().Msgf("Testing %s: %s", c.result.Name, pass)
		return
	}
	c.result.Failures++
	c.log.Error().Msgf("Testing %s: %s", c.result.Name, fail)
}

func (c *check) fail(err error) {
	c.result.Err = err
	c.log.Error().Msgf("Testing %s: %s", c.result.Name, Describe(err))
}

// Describe renders a stage error for the log by its kind.
func Describe(err error) string {
	switch k := churnerr.KindOf(err); k {
	case churnerr.NotFound:
		return "The file wasn't found"
	case churnerr.Unknown:
		return err.Error()
	default:
		return fmt.Sprintf("%s: %v", k, err)
	}
}

var errSkipped = errors.New("input from an earlier check is missing")

func fileExists(path string) bool {
	fi, err := os.Stat(path)
	return err == nil && !fi.IsDir() && fi.Size() > 0
}

// Run executes every check against cfg in order. Artifacts go to the paths
// in cfg, the same places a pipeline run writes them.
func Run(ctx context.Context, cfg config.Config, log zerolog.Logger) Summary {
	var sum Summary
	add := func(c *check) { sum.Checks = append(sum.Checks, c.result) }
	newCheck := func(name string) *check { return &check{log: log, result: CheckResult{Name: name}} }

	// import_data on the configured path
	c := newCheck(CheckImport)
	ds, err := churn.ImportData(cfg.DataPath, cfg.Schema)
	if err != nil {
		c.fail(err)
	} else {
		c.success()
		c.expect(ds.Nrow() > 0 && ds.Ncol() > 0,
			"The file appear to has rows and columns",
			"The file doesn't appear to have rows and columns")
	}
	add(c)

	// import_data on a path that does not exist must report NotFound
	c = newCheck(CheckImport + " (missing file)")
	missing := filepath.Join(filepath.Dir(filepath.Dir(cfg.DataPath)), missingInputDirectory, filepath.Base(cfg.DataPath))
	if _, err := churn.ImportData(missing, cfg.Schema); err != nil {
		c.log.Error().Msgf("Testing %s: %s", CheckImport, Describe(err))
		c.expect(errors.Is(err, churnerr.ErrNotFound),
			"missing file reported as not found",
			"missing file reported as "+churnerr.KindOf(err).String())
	} else {
		c.expect(false, "", "missing file was loaded")
	}
	add(c)

	c = newCheck(CheckEDA)
	if ds == nil {
		c.fail(errSkipped)
	} else if err := churn.PerformEDA(ds, cfg.Schema, cfg.Paths.EDADir); err != nil {
		c.fail(err)
	} else {
		c.success()
		c.expect(ds.Nrow() > 0 && ds.Ncol() > 0,
			"The file has elements in rows and columns",
			"The file doesn't appear to have elements rows and columns")
		labels, lerr := ds.Labels(cfg.Schema.Label)
		c.expect(lerr == nil && validLabels(labels), "No null value", "null value exist")
		c.expect(fileExists(filepath.Join(cfg.Paths.EDADir, report.ChurnDistribution)),
			"path exists", "path not exists")
	}
	add(c)

	c = newCheck(CheckEncoder)
	if ds == nil {
		c.fail(errSkipped)
	} else if table, err := churn.EncoderHelper(ds, cfg.Schema); err != nil {
		c.fail(err)
	} else {
		c.success()
		c.expect(ds.Nrow() > 0 && encodedColumnsPresent(ds, cfg.Schema),
			"The file appear to has rows and columns with churn values",
			"The file doesn't have rows and columns with churn values")
		c.expect(len(cfg.Schema.Categorical) > 0 && len(table.Columns) == len(cfg.Schema.Categorical),
			"Columns with categorical values are listed",
			"Columns with categorical values are not listed")
	}
	add(c)

	c = newCheck(CheckFeatureEngineer)
	var feats *churn.Features
	if ds == nil {
		c.fail(errSkipped)
	} else if feats, err = churn.PerformFeatureEngineering(ds, cfg.Schema, cfg.Split.TestSize, cfg.Split.Seed); err != nil {
		c.fail(err)
	} else {
		s := feats.Split
		c.success()
		c.expect(len(s.XTrain) > 0 && len(s.YTrain) > 0 && len(s.XTest) > 0 && len(s.YTest) > 0,
			"Data splited to train and test",
			"No data in train and test set")
		_, cols := feats.Matrix.Dims()
		c.expect(cols == len(cfg.Schema.FeatureNames()),
			fmt.Sprintf("Feature matrix has %d columns", cols),
			fmt.Sprintf("Feature matrix has %d columns, want %d", cols, len(cfg.Schema.FeatureNames())))
	}
	add(c)

	c = newCheck(CheckTrainModels)
	if feats == nil {
		c.fail(errSkipped)
	} else if _, _, err := churn.TrainModels(ctx, feats.Split, feats.Matrix.Columns, cfg); err != nil {
		c.fail(err)
	} else {
		c.success()
		for _, name := range []string{report.RFResults, report.LogisticResults, report.ROCCurve, report.FeatureImportance} {
			c.expect(fileExists(filepath.Join(cfg.Paths.ResultsDir, name)),
				name+" path exists", name+" path not exists")
		}
		for _, name := range []string{churn.ForestFile, churn.LogisticFile} {
			c.expect(fileExists(filepath.Join(cfg.Paths.ModelsDir, name)),
				name+" path exists", name+" path not exists")
		}
	}
	add(c)

	return sum
}

func validLabels(labels []int) bool {
	for _, l := range labels {
		if l != 0 && l != 1 {
			return false
		}
	}
	return len(labels) > 0
}

func encodedColumnsPresent(ds *data.Dataset, schema data.Schema) bool {
	for _, c := range schema.Categorical {
		if !ds.Has(data.EncodedName(c)) {
			return false
		}
	}
	return true
}

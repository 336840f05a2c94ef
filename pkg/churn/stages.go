// Package churn wires the pipeline stages together: load, EDA, encoding,
// split, training, evaluation and persistence. Each stage is exported so
// the verification harness can exercise it on its own; Run chains them.
package churn

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/rs/zerolog"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/config"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/dataprep"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/loader"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/pipeline"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/report"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/stats"
)

// Model names used in reports, plots and metrics.
const (
	ForestName   = "Random Forest"
	LogisticName = "Logistic Regression"
)

// Serialized model file names inside the models directory.
var (
	ForestFile   = "rfc_model" + model.ModelExt
	LogisticFile = "logistic_model" + model.ModelExt
)

// ImportData loads the customer CSV and derives the label column.
func ImportData(path string, schema data.Schema) (*data.Dataset, error) {
	return data.LoadDataset(path, schema)
}

// PerformEDA writes the exploratory charts into dir.
func PerformEDA(ds *data.Dataset, schema data.Schema, dir string) error {
	return report.WriteEDA(dir, ds, schema)
}

// EncoderHelper adds one mean-churn column per categorical column.
func EncoderHelper(ds *data.Dataset, schema data.Schema) (*dataprep.CategoryMeanTable, error) {
	return dataprep.EncodeCategories(ds, schema)
}

// Features is the encoded feature matrix, its labels and their split.
type Features struct {
	Matrix *dataprep.FeatureMatrix
	Labels []int
	Split  loader.Split
}

// PerformFeatureEngineering encodes ds, projects it onto the schema's
// feature columns and splits rows into train and test partitions.
func PerformFeatureEngineering(ds *data.Dataset, schema data.Schema, testSize float64, seed int64) (*Features, error) {
	fm, err := dataprep.EncodeFeatures(ds, schema)
	if err != nil {
		return nil, err
	}
	y, err := ds.Labels(schema.Label)
	if err != nil {
		return nil, err
	}
	if err := ValidateXY(fm.Rows, y); err != nil {
		return nil, err
	}
	split, err := loader.TrainTestSplit(fm.Rows, y, testSize, seed)
	if err != nil {
		return nil, err
	}
	return &Features{Matrix: fm, Labels: y, Split: split}, nil
}

// ValidateXY checks that X and y can be fed to a classifier: one label per
// row, rectangular X and only finite values.
func ValidateXY(X [][]float64, y []int) error {
	const op = "churn.ValidateXY"
	if len(X) != len(y) {
		return churnerr.New(churnerr.ShapeMismatch, op, "%d feature rows vs %d labels", len(X), len(y))
	}
	for i := range X {
		if len(X[i]) != len(X[0]) {
			return churnerr.New(churnerr.ShapeMismatch, op, "row %d has %d features, want %d", i, len(X[i]), len(X[0]))
		}
	}
	if ok, r, c := stats.AllFinite(X); !ok {
		return churnerr.New(churnerr.InvalidFeatureValue, op, "row %d column %d is %v", r, c, X[r][c])
	}
	for i, v := range y {
		if v != 0 && v != 1 {
			return churnerr.New(churnerr.InvalidFeatureValue, op, "label %d is %d, want 0 or 1", i, v)
		}
	}
	return nil
}

// Models are the fitted classifiers of one run.
type Models struct {
	Forest   *model.RandomForest
	Logistic *pipeline.Pipeline
	Grid     *model.GridResult
}

// Train fits the scaled logistic regression and grid-searches the random
// forest on the training partition.
func Train(ctx context.Context, split loader.Split, cfg config.Config) (*Models, error) {
	if err := ValidateXY(split.XTrain, split.YTrain); err != nil {
		return nil, err
	}
	if err := ValidateXY(split.XTest, split.YTest); err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)

	lr := pipeline.NewScaledLogistic(
		model.WithMaxIter(cfg.Logistic.MaxIter),
		model.WithC(cfg.Logistic.C),
		model.WithLearningRate(cfg.Logistic.LearningRate),
		model.WithBatchSize(cfg.Logistic.BatchSize),
	)
	if err := lr.Fit(split.XTrain, split.YTrain); err != nil {
		return nil, fmt.Errorf("logistic regression: %w", err)
	}
	log.Info().
		Float64("score", model.Accuracy(split.YTest, lr.Predict(split.XTest))).
		Msg("logistic pipeline test accuracy")

	gs := model.NewGridSearch(cfg.Forest.Grid, cfg.Split.Seed)
	gs.Folds = cfg.Forest.Folds
	gs.Workers = cfg.Forest.Workers
	res, err := gs.Fit(ctx, split.XTrain, split.YTrain)
	if err != nil {
		return nil, err
	}
	log.Info().
		Stringer("params", res.BestParams).
		Float64("cv_score", res.BestScore).
		Int("candidates", len(res.Scores)).
		Msg("grid search complete")

	return &Models{Forest: res.Best, Logistic: lr, Grid: res}, nil
}

// ModelEval holds one model's predictions and scores on both partitions.
type ModelEval struct {
	Name       string
	TrainPred  []int
	TestPred   []int
	TestProba  []float64
	Train      model.ClassificationReport
	Test       model.ClassificationReport
	AUC        float64
	Importance []float64 // nil for models without importances
}

type Evaluation struct {
	Forest   ModelEval
	Logistic ModelEval
}

// Evaluate scores both models on the train and test partitions.
func Evaluate(m *Models, split loader.Split) (*Evaluation, error) {
	forest, err := evaluate(ForestName, m.Forest, split)
	if err != nil {
		return nil, err
	}
	forest.Importance = m.Forest.FeatureImportances()

	logistic, err := evaluate(LogisticName, m.Logistic, split)
	if err != nil {
		return nil, err
	}
	return &Evaluation{Forest: forest, Logistic: logistic}, nil
}

func evaluate(name string, c model.Classifier, split loader.Split) (ModelEval, error) {
	e := ModelEval{
		Name:      name,
		TrainPred: c.Predict(split.XTrain),
		TestPred:  c.Predict(split.XTest),
		TestProba: c.PredictProba(split.XTest),
	}

	var err error
	if e.Train, err = model.NewClassificationReport(split.YTrain, e.TrainPred); err != nil {
		return e, err
	}
	if e.Test, err = model.NewClassificationReport(split.YTest, e.TestPred); err != nil {
		return e, err
	}
	if _, _, auc, err := report.ROC(e.TestProba, split.YTest); err == nil {
		e.AUC = auc
	}
	return e, nil
}

// WriteResults renders both classification reports, the shared ROC chart
// and the forest's feature importances into dir.
func WriteResults(dir string, ev *Evaluation, split loader.Split, features []string) error {
	if err := report.WriteClassificationImage(filepath.Join(dir, report.RFResults), ForestName, ev.Forest.Train, ev.Forest.Test); err != nil {
		return err
	}
	if err := report.WriteClassificationImage(filepath.Join(dir, report.LogisticResults), LogisticName, ev.Logistic.Train, ev.Logistic.Test); err != nil {
		return err
	}
	if _, err := report.WriteROC(filepath.Join(dir, report.ROCCurve),
		report.Curve{Name: ForestName, Scores: ev.Forest.TestProba, Labels: split.YTest},
		report.Curve{Name: LogisticName, Scores: ev.Logistic.TestProba, Labels: split.YTest},
	); err != nil {
		return err
	}
	return report.WriteFeatureImportance(filepath.Join(dir, report.FeatureImportance), features, ev.Forest.Importance)
}

// SaveModels serializes both models into dir, replacing earlier files.
func SaveModels(dir string, m *Models) error {
	if err := model.Save(filepath.Join(dir, ForestFile), m.Forest); err != nil {
		return err
	}
	return model.Save(filepath.Join(dir, LogisticFile), m.Logistic)
}

// TrainModels trains both models, writes their result images and saves
// them.
func TrainModels(ctx context.Context, split loader.Split, features []string, cfg config.Config) (*Models, *Evaluation, error) {
	m, err := Train(ctx, split, cfg)
	if err != nil {
		return nil, nil, err
	}
	ev, err := Evaluate(m, split)
	if err != nil {
		return nil, nil, err
	}
	if err := WriteResults(cfg.Paths.ResultsDir, ev, split, features); err != nil {
		return nil, nil, err
	}
	if err := SaveModels(cfg.Paths.ModelsDir, m); err != nil {
		return nil, nil, err
	}
	return m, ev, nil
}

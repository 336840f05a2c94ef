package churn

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/config"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/metrics"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/store"
)

// Stage names, used in errors, logs and metrics.
const (
	StageLoad     = "load"
	StageEDA      = "eda"
	StageFeatures = "features"
	StageTrain    = "train"
	StageEvaluate = "evaluate"
	StageReport   = "report"
	StagePersist  = "persist"
)

// Result is everything one run produced.
type Result struct {
	RunID    string
	Rows     int
	Features *Features
	Models   *Models
	Eval     *Evaluation
}

// Run executes the full pipeline described by cfg. The first failing stage
// stops the run; its error is returned prefixed with the stage name and
// keeps its churnerr kind. Metrics and the run record are written either
// way.
func Run(ctx context.Context, cfg config.Config) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := zerolog.Ctx(ctx)
	m := metrics.New()
	res := &Result{RunID: store.NewRunID()}
	began := time.Now()

	stage := func(name string, fn func() error) error {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		start := time.Now()
		err := fn()
		m.ObserveStage(name, start, err)
		if err != nil {
			log.Error().Err(err).Str("stage", name).Msg("stage failed")
			return fmt.Errorf("%s: %w", name, err)
		}
		log.Info().Str("stage", name).Dur("took", time.Since(start)).Msg("stage complete")
		return nil
	}

	var ds *data.Dataset
	err := stage(StageLoad, func() (err error) {
		ds, err = ImportData(cfg.DataPath, cfg.Schema)
		return err
	})
	if err == nil {
		res.Rows = ds.Nrow()
		m.Rows.Set(float64(res.Rows))
		err = stage(StageEDA, func() error { return PerformEDA(ds, cfg.Schema, cfg.Paths.EDADir) })
	}
	if err == nil {
		err = stage(StageFeatures, func() (err error) {
			res.Features, err = PerformFeatureEngineering(ds, cfg.Schema, cfg.Split.TestSize, cfg.Split.Seed)
			return err
		})
	}
	if err == nil {
		err = stage(StageTrain, func() (err error) {
			res.Models, err = Train(ctx, res.Features.Split, cfg)
			return err
		})
	}
	if err == nil {
		err = stage(StageEvaluate, func() (err error) {
			res.Eval, err = Evaluate(res.Models, res.Features.Split)
			return err
		})
	}
	if err == nil {
		err = stage(StageReport, func() error {
			return WriteResults(cfg.Paths.ResultsDir, res.Eval, res.Features.Split, res.Features.Matrix.Columns)
		})
	}
	if err == nil {
		err = stage(StagePersist, func() error { return SaveModels(cfg.Paths.ModelsDir, res.Models) })
	}

	if res.Eval != nil {
		recordScores(m, res.Eval)
		m.CVScore.Set(res.Models.Grid.BestScore)
	}
	if werr := m.WriteTextfile(cfg.Paths.MetricsFile); werr != nil {
		log.Warn().Err(werr).Msg("metrics not written")
	}
	if rerr := record(cfg, res, began, err); rerr != nil {
		log.Warn().Err(rerr).Msg("run history not written")
	}

	if err != nil {
		return nil, err
	}
	return res, nil
}

func recordScores(m *metrics.Metrics, ev *Evaluation) {
	for _, e := range []ModelEval{ev.Forest, ev.Logistic} {
		name := metricName(e.Name)
		m.SetScore(name, "train", "accuracy", e.Train.Accuracy)
		m.SetScore(name, "test", "accuracy", e.Test.Accuracy)
		m.SetScore(name, "test", "f1_weighted", e.Test.Weighted.F1)
		m.SetScore(name, "test", "auc", e.AUC)
	}
}

func metricName(model string) string {
	switch model {
	case ForestName:
		return "random_forest"
	case LogisticName:
		return "logistic_regression"
	}
	return model
}

func record(cfg config.Config, res *Result, began time.Time, runErr error) error {
	st, err := store.Open(cfg.Paths.RunsDB)
	if err != nil {
		return err
	}
	defer st.Close()

	r := store.Run{
		ID:        res.RunID,
		StartedAt: began.UTC(),
		Duration:  time.Since(began),
		DataPath:  cfg.DataPath,
		Rows:      res.Rows,
		Scores:    map[string]float64{},
	}
	if res.Features != nil {
		r.Features = res.Features.Matrix.Columns
	}
	if res.Models != nil {
		r.BestGrid = res.Models.Grid.BestParams.String()
		r.CVScore = res.Models.Grid.BestScore
	}
	if res.Eval != nil {
		for _, e := range []ModelEval{res.Eval.Forest, res.Eval.Logistic} {
			name := metricName(e.Name)
			r.Scores[name+"_train_accuracy"] = e.Train.Accuracy
			r.Scores[name+"_test_accuracy"] = e.Test.Accuracy
			r.Scores[name+"_auc"] = e.AUC
		}
	}
	if runErr != nil {
		r.Err = runErr.Error()
	}
	_, err = st.Put(r)
	return err
}

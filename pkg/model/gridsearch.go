package model

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/loader"
)

// ForestParams is one point of a random forest hyperparameter grid.
type ForestParams struct {
	NEstimators int    `json:"n_estimators"`
	MaxFeatures string `json:"max_features"`
	MaxDepth    int    `json:"max_depth"`
	Criterion   string `json:"criterion"`
}

func (p ForestParams) String() string {
	return fmt.Sprintf("criterion=%s max_depth=%d max_features=%s n_estimators=%d",
		p.Criterion, p.MaxDepth, p.MaxFeatures, p.NEstimators)
}

// NewForest builds an unfitted forest with these parameters.
func (p ForestParams) NewForest(seed int64) *RandomForest {
	return NewRandomForest(
		WithNEstimators(p.NEstimators),
		WithForestMaxFeatures(p.MaxFeatures),
		WithForestMaxDepth(p.MaxDepth),
		WithForestCriterion(p.Criterion),
		WithForestRandomState(seed),
	)
}

// ParamGrid lists the values tried for each hyperparameter.
type ParamGrid struct {
	NEstimators []int    `yaml:"n_estimators"`
	MaxFeatures []string `yaml:"max_features"`
	MaxDepth    []int    `yaml:"max_depth"`
	Criterion   []string `yaml:"criterion"`
}

// DefaultParamGrid is the 24-candidate grid used for the churn forest.
func DefaultParamGrid() ParamGrid {
	return ParamGrid{
		NEstimators: []int{200, 500},
		MaxFeatures: []string{MaxFeaturesAuto, MaxFeaturesSqrt},
		MaxDepth:    []int{4, 5, 100},
		Criterion:   []string{CriterionGini, CriterionEntropy},
	}
}

// Candidates enumerates the grid with parameter names in alphabetical order
// (criterion, max_depth, max_features, n_estimators), the last varying
// fastest.
func (g ParamGrid) Candidates() []ForestParams {
	var out []ForestParams
	for _, c := range g.Criterion {
		for _, d := range g.MaxDepth {
			for _, f := range g.MaxFeatures {
				for _, n := range g.NEstimators {
					out = append(out, ForestParams{NEstimators: n, MaxFeatures: f, MaxDepth: d, Criterion: c})
				}
			}
		}
	}
	return out
}

// CandidateScore is the cross-validated accuracy of one candidate.
type CandidateScore struct {
	Params     ForestParams
	FoldScores []float64
	Mean       float64
}

// GridResult is the outcome of a grid search. Best is refitted on the full
// training set.
type GridResult struct {
	Best       *RandomForest
	BestParams ForestParams
	BestScore  float64
	Scores     []CandidateScore
}

// GridSearch runs exhaustive cross-validated search over a forest grid.
type GridSearch struct {
	Grid        ParamGrid
	Folds       int
	RandomState int64
	Workers     int // concurrent fold fits; each forest also fans out over trees
}

// NewGridSearch returns a 5-fold search over grid.
func NewGridSearch(grid ParamGrid, seed int64) *GridSearch {
	return &GridSearch{Grid: grid, Folds: 5, RandomState: seed, Workers: 1}
}

type foldJob struct {
	cand, fold int
}

// Fit scores every candidate with stratified k-fold accuracy and refits the
// best on all of X. Ties keep the earliest candidate. ctx is checked before
// each fold fit.
func (g *GridSearch) Fit(ctx context.Context, X [][]float64, y []int) (*GridResult, error) {
	cands := g.Grid.Candidates()
	if len(cands) == 0 {
		return nil, errors.New("gridsearch: empty parameter grid")
	}
	if len(X) != len(y) {
		return nil, errors.New("gridsearch: X and y length mismatch")
	}
	if g.Folds < 2 || g.Folds > len(X) {
		return nil, fmt.Errorf("gridsearch: %d folds for %d rows", g.Folds, len(X))
	}

	folds := loader.StratifiedKFold(y, g.Folds)
	scores := make([][]float64, len(cands))
	for i := range scores {
		scores[i] = make([]float64, g.Folds)
	}

	jobs := make(chan foldJob)
	errCh := make(chan error, 1)
	var wg sync.WaitGroup

	workers := max(g.Workers, 1)
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for job := range jobs {
				acc, err := g.scoreFold(X, y, cands[job.cand], folds[job.fold])
				if err != nil {
					select {
					case errCh <- fmt.Errorf("gridsearch: %s fold %d: %w", cands[job.cand], job.fold, err):
					default:
					}
					continue
				}
				scores[job.cand][job.fold] = acc
			}
		}()
	}

	var ctxErr error
feed:
	for c := range cands {
		for f := range folds {
			if err := ctx.Err(); err != nil {
				ctxErr = err
				break feed
			}
			select {
			case <-ctx.Done():
				ctxErr = ctx.Err()
				break feed
			case err := <-errCh:
				ctxErr = err
				break feed
			case jobs <- foldJob{cand: c, fold: f}:
			}
		}
	}
	close(jobs)
	wg.Wait()

	if ctxErr != nil {
		return nil, ctxErr
	}
	select {
	case err := <-errCh:
		return nil, err
	default:
	}

	res := &GridResult{BestScore: -1}
	for i, c := range cands {
		mean := 0.0
		for _, s := range scores[i] {
			mean += s
		}
		mean /= float64(g.Folds)
		res.Scores = append(res.Scores, CandidateScore{Params: c, FoldScores: scores[i], Mean: mean})
		if mean > res.BestScore {
			res.BestScore = mean
			res.BestParams = c
		}
	}

	res.Best = res.BestParams.NewForest(g.RandomState)
	if err := res.Best.Fit(X, y); err != nil {
		return nil, fmt.Errorf("gridsearch: refit %s: %w", res.BestParams, err)
	}
	return res, nil
}

func (g *GridSearch) scoreFold(X [][]float64, y []int, p ForestParams, test []int) (float64, error) {
	train := loader.Complement(len(X), test)

	XTrain, yTrain := gather(X, y, train)
	XTest, yTest := gather(X, y, test)

	rf := p.NewForest(g.RandomState)
	if err := rf.Fit(XTrain, yTrain); err != nil {
		return 0, err
	}
	return Accuracy(yTest, rf.Predict(XTest)), nil
}

func gather(X [][]float64, y []int, idx []int) ([][]float64, []int) {
	Xs := make([][]float64, len(idx))
	ys := make([]int, len(idx))
	for k, i := range idx {
		Xs[k] = X[i]
		ys[k] = y[i]
	}
	return Xs, ys
}

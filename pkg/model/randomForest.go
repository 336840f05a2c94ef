package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"sync"
)

// Feature sampling strategies for RandomForest.MaxFeatures.
const (
	MaxFeaturesAuto = "auto" // same as sqrt for classification
	MaxFeaturesSqrt = "sqrt"
	MaxFeaturesLog2 = "log2"
	MaxFeaturesAll  = "all"
)

// RandomForest for binary classification with probability averaging.
type RandomForest struct {
	// Hyperparameters / options
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     string
	Criterion       string
	Bootstrap       bool
	RandomState     int64

	// Internal state
	Trees    []*DecisionTreeClassifier
	Features int
}

// RandomForestOption functional config for RandomForest
type RandomForestOption func(*RandomForest)

func WithNEstimators(n int) RandomForestOption { return func(rf *RandomForest) { rf.NEstimators = n } }
func WithBootstrap(b bool) RandomForestOption  { return func(rf *RandomForest) { rf.Bootstrap = b } }
func WithForestMaxDepth(d int) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxDepth = d }
}
func WithForestMaxFeatures(s string) RandomForestOption {
	return func(rf *RandomForest) { rf.MaxFeatures = s }
}
func WithForestCriterion(c string) RandomForestOption {
	return func(rf *RandomForest) { rf.Criterion = c }
}
func WithForestRandomState(seed int64) RandomForestOption {
	return func(rf *RandomForest) { rf.RandomState = seed }
}

// NewRandomForest initializes the forest with sensible defaults.
func NewRandomForest(opts ...RandomForestOption) *RandomForest {
	rf := &RandomForest{
		NEstimators:     100,
		MinSamplesSplit: 2,
		MinSamplesLeaf:  1,
		MaxFeatures:     MaxFeaturesSqrt,
		Criterion:       CriterionGini,
		Bootstrap:       true,
		RandomState:     42,
	}
	for _, o := range opts {
		o(rf)
	}
	return rf
}

// resolveMaxFeatures turns a strategy into a feature count for p features.
func resolveMaxFeatures(strategy string, p int) (int, error) {
	switch strategy {
	case MaxFeaturesAuto, MaxFeaturesSqrt:
		return max(1, int(math.Sqrt(float64(p)))), nil
	case MaxFeaturesLog2:
		return max(1, int(math.Log2(float64(p)))), nil
	case MaxFeaturesAll, "":
		return p, nil
	}
	return 0, fmt.Errorf("randomforest: unknown max features strategy %q", strategy)
}

// Fit trains the random forest. Each tree gets its own generator seeded
// from RandomState and its index, so the fit is reproducible regardless of
// goroutine scheduling.
func (rf *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("randomforest: empty X")
	}
	n := len(X)
	if len(y) != n {
		return errors.New("randomforest: X and y length mismatch")
	}
	if rf.NEstimators <= 0 {
		return errors.New("randomforest: NEstimators must be positive")
	}
	p := len(X[0])
	k, err := resolveMaxFeatures(rf.MaxFeatures, p)
	if err != nil {
		return err
	}

	rf.Features = p
	rf.Trees = make([]*DecisionTreeClassifier, rf.NEstimators)
	errs := make([]error, rf.NEstimators)

	sem := make(chan struct{}, runtime.GOMAXPROCS(0))
	var wg sync.WaitGroup
	for i := 0; i < rf.NEstimators; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(idx int) {
			defer wg.Done()
			defer func() { <-sem }()

			seed := rf.RandomState + int64(idx)
			treeRand := rand.New(rand.NewSource(seed))

			// Bootstrap sampling: an index slice, not a copy of the data.
			sample := make([]int, n)
			for j := range sample {
				if rf.Bootstrap {
					sample[j] = treeRand.Intn(n)
				} else {
					sample[j] = j
				}
			}

			tree := NewDecisionTreeClassifier(
				WithMaxDepth(rf.MaxDepth),
				WithMinSamplesSplit(rf.MinSamplesSplit),
				WithMinSamplesLeaf(rf.MinSamplesLeaf),
				WithMaxFeatures(k),
				WithCriterion(rf.Criterion),
				WithRandomState(seed),
			)
			if err := tree.FitSample(X, y, sample); err != nil {
				errs[idx] = err
				return
			}
			rf.Trees[idx] = tree
		}(i)
	}
	wg.Wait()

	return errors.Join(errs...)
}

// PredictProba returns p(y=1) for each row, averaged over all trees.
func (rf *RandomForest) PredictProba(X [][]float64) []float64 {
	out := make([]float64, len(X))
	if len(rf.Trees) == 0 {
		return out
	}

	// Fan out over row chunks.
	var wg sync.WaitGroup
	workers := runtime.GOMAXPROCS(0)
	rowsPerWorker := (len(X) + workers - 1) / workers
	for w := 0; w < workers; w++ {
		start := w * rowsPerWorker
		end := min(start+rowsPerWorker, len(X))
		if start >= end {
			continue
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				sum := 0.0
				for _, t := range rf.Trees {
					sum += t.ClassProba(X[i], 1)
				}
				out[i] = sum / float64(len(rf.Trees))
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

// Predict returns the class with the highest averaged probability. Ties go
// to class 0.
func (rf *RandomForest) Predict(X [][]float64) []int {
	proba := rf.PredictProba(X)
	out := make([]int, len(proba))
	for i, p := range proba {
		if p > 0.5 {
			out[i] = 1
		}
	}
	return out
}

// FeatureImportances averages the normalized importances of all trees.
func (rf *RandomForest) FeatureImportances() []float64 {
	out := make([]float64, rf.Features)
	if len(rf.Trees) == 0 {
		return out
	}
	for _, t := range rf.Trees {
		for j, v := range t.FeatureImportances() {
			out[j] += v
		}
	}
	total := 0.0
	for _, v := range out {
		total += v
	}
	if total == 0 {
		return out
	}
	for j := range out {
		out[j] /= total
	}
	return out
}

type forestSnapshot struct {
	NEstimators     int
	MaxDepth        int
	MinSamplesSplit int
	MinSamplesLeaf  int
	MaxFeatures     string
	Criterion       string
	Bootstrap       bool
	RandomState     int64
	Features        int
	Trees           [][]byte
}

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (rf *RandomForest) MarshalBinary() ([]byte, error) {
	s := forestSnapshot{
		NEstimators:     rf.NEstimators,
		MaxDepth:        rf.MaxDepth,
		MinSamplesSplit: rf.MinSamplesSplit,
		MinSamplesLeaf:  rf.MinSamplesLeaf,
		MaxFeatures:     rf.MaxFeatures,
		Criterion:       rf.Criterion,
		Bootstrap:       rf.Bootstrap,
		RandomState:     rf.RandomState,
		Features:        rf.Features,
		Trees:           make([][]byte, len(rf.Trees)),
	}
	for i, t := range rf.Trees {
		b, err := t.MarshalBinary()
		if err != nil {
			return nil, fmt.Errorf("randomforest: tree %d: %w", i, err)
		}
		s.Trees[i] = b
	}
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (rf *RandomForest) UnmarshalBinary(data []byte) error {
	var s forestSnapshot
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(&s); err != nil {
		return err
	}
	trees := make([]*DecisionTreeClassifier, len(s.Trees))
	for i, b := range s.Trees {
		trees[i] = &DecisionTreeClassifier{}
		if err := trees[i].UnmarshalBinary(b); err != nil {
			return fmt.Errorf("randomforest: tree %d: %w", i, err)
		}
	}
	*rf = RandomForest{
		NEstimators:     s.NEstimators,
		MaxDepth:        s.MaxDepth,
		MinSamplesSplit: s.MinSamplesSplit,
		MinSamplesLeaf:  s.MinSamplesLeaf,
		MaxFeatures:     s.MaxFeatures,
		Criterion:       s.Criterion,
		Bootstrap:       s.Bootstrap,
		RandomState:     s.RandomState,
		Features:        s.Features,
		Trees:           trees,
	}
	return nil
}

package loader

import (
	"math"
	"math/rand"
	"sort"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
)

// Split holds the train and test partitions of a labeled matrix.
type Split struct {
	XTrain, XTest [][]float64
	YTrain, YTest []int
}

// TrainTestSplit shuffles rows with a generator seeded by seed and puts
// ceil(n*testRatio) of them in the test partition. Rows are shared, not
// copied. The same input and seed always give the same partition.
func TrainTestSplit(X [][]float64, y []int, testRatio float64, seed int64) (Split, error) {
	const op = "loader.TrainTestSplit"
	n := len(X)
	if len(y) != n {
		return Split{}, churnerr.New(churnerr.ShapeMismatch, op, "X has %d rows, y has %d", n, len(y))
	}
	if testRatio <= 0 || testRatio >= 1 {
		return Split{}, churnerr.New(churnerr.InvalidFeatureValue, op, "test ratio %v outside (0, 1)", testRatio)
	}
	nTest := int(math.Ceil(float64(n) * testRatio))
	if n > 0 && (nTest == 0 || nTest == n) {
		return Split{}, churnerr.New(churnerr.ShapeMismatch, op, "%d rows cannot be split with ratio %v", n, testRatio)
	}

	indices := rand.New(rand.NewSource(seed)).Perm(n)
	s := Split{
		XTrain: make([][]float64, 0, n-nTest),
		XTest:  make([][]float64, 0, nTest),
		YTrain: make([]int, 0, n-nTest),
		YTest:  make([]int, 0, nTest),
	}
	for i, idx := range indices {
		if i < nTest {
			s.XTest = append(s.XTest, X[idx])
			s.YTest = append(s.YTest, y[idx])
		} else {
			s.XTrain = append(s.XTrain, X[idx])
			s.YTrain = append(s.YTrain, y[idx])
		}
	}
	return s, nil
}

// StratifiedKFold yields k test folds of row indices without shuffling.
// Rows of each class are dealt round-robin across folds in row order, so
// every fold keeps roughly the overall class balance.
func StratifiedKFold(y []int, k int) [][]int {
	byClass := map[int][]int{}
	var classes []int
	for i, label := range y {
		if _, ok := byClass[label]; !ok {
			classes = append(classes, label)
		}
		byClass[label] = append(byClass[label], i)
	}
	sort.Ints(classes)

	folds := make([][]int, k)
	next := 0
	for _, c := range classes {
		for _, idx := range byClass[c] {
			folds[next%k] = append(folds[next%k], idx)
			next++
		}
	}
	for _, f := range folds {
		sort.Ints(f)
	}
	return folds
}

// Complement returns the indices in [0, n) absent from fold.
func Complement(n int, fold []int) []int {
	in := make([]bool, n)
	for _, i := range fold {
		in[i] = true
	}
	out := make([]int, 0, n-len(fold))
	for i := 0; i < n; i++ {
		if !in[i] {
			out = append(out, i)
		}
	}
	return out
}

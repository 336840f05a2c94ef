package model

import (
	"bytes"
	"encoding/gob"
	"errors"
	"math"
	"math/rand"
	"runtime"
	"sync"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/nn"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/optim"
)

// LogisticRegression (binary) with sigmoid and an L2 penalty, trained by
// mini-batch gradient descent.
type LogisticRegression struct {
	W           []float64 // weights
	B           float64   // bias
	Lr          float64
	MaxIter     int     // epochs over the training set
	BatchSize   int     // 0 => full batch
	C           float64 // inverse regularization strength; 0 disables the penalty
	Tol         float64 // stop when the epoch loss improves by less than Tol
	RandomState int64
	NIter       int // epochs actually run by the last Fit
}

// LogisticOption functional config for LogisticRegression
type LogisticOption func(*LogisticRegression)

func WithLearningRate(lr float64) LogisticOption {
	return func(m *LogisticRegression) { m.Lr = lr }
}
func WithMaxIter(n int) LogisticOption   { return func(m *LogisticRegression) { m.MaxIter = n } }
func WithBatchSize(n int) LogisticOption { return func(m *LogisticRegression) { m.BatchSize = n } }
func WithC(c float64) LogisticOption     { return func(m *LogisticRegression) { m.C = c } }
func WithTol(tol float64) LogisticOption { return func(m *LogisticRegression) { m.Tol = tol } }

// NewLogisticRegression returns a model with C=1 and 1000 epochs.
func NewLogisticRegression(opts ...LogisticOption) *LogisticRegression {
	m := &LogisticRegression{
		Lr:          0.1,
		MaxIter:     1000,
		BatchSize:   256,
		C:           1.0,
		Tol:         1e-6,
		RandomState: 42,
	}
	for _, o := range opts {
		o(m)
	}
	return m
}

// PredictProba returns p(y=1) for each row of X, parallelized over row
// chunks.
func (m *LogisticRegression) PredictProba(X [][]float64) []float64 {
	if len(X) == 0 {
		return nil
	}
	out := make([]float64, len(X))
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
				out[i] = nn.Sigmoid(m.logit(X[i]))
			}
		}(start, end)
	}
	wg.Wait()
	return out
}

func (m *LogisticRegression) logit(row []float64) float64 {
	sum := m.B
	for j, v := range row {
		sum += m.W[j] * v
	}
	return sum
}

// Predict returns class labels using a 0.5 probability threshold.
func (m *LogisticRegression) Predict(X [][]float64) []int {
	return BinaryPredFromProba(m.PredictProba(X), 0.5)
}

// Fit trains the model. Weights start from small seeded noise, so repeated
// fits on the same data agree.
func (m *LogisticRegression) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return errors.New("logistic: empty X")
	}
	if len(y) != len(X) {
		return errors.New("logistic: X and y length mismatch")
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return errors.New("logistic: inconsistent number of features in X rows")
		}
	}

	rnd := rand.New(rand.NewSource(m.RandomState))
	m.W = make([]float64, p)
	for i := range m.W {
		m.W[i] = rnd.NormFloat64() * 0.01
	}
	m.B = 0

	yf := make([]float64, len(y))
	for i, v := range y {
		yf[i] = float64(v)
	}

	// Penalty 0.5*||w||^2 / (C*n) keeps the objective on the mean-loss scale.
	var l2 float64
	if m.C > 0 {
		l2 = 1 / (m.C * float64(len(X)))
	}

	opt := optim.NewSGD(m.Lr)
	prev := math.Inf(1)
	m.NIter = 0
	for ep := 0; ep < m.MaxIter; ep++ {
		batches, stop := data.Batches(X, yf, m.BatchSize)
		for batch := range batches {
			proba := m.PredictProba(batch.X)
			_, dy := nn.BCE(batch.Y, proba)

			gW := make([]float64, p)
			gb := 0.0
			for i, row := range batch.X {
				d := dy[i]
				for j, xij := range row {
					gW[j] += d * xij
				}
				gb += d
			}
			for j := range gW {
				gW[j] += l2 * m.W[j]
			}

			opt.Step(m.W, gW)
			m.B -= m.Lr * gb
		}
		stop()
		m.NIter = ep + 1

		loss := m.objective(X, yf, l2)
		if math.IsNaN(loss) {
			return errors.New("logistic: loss diverged")
		}
		if prev-loss < m.Tol && prev >= loss {
			break
		}
		prev = loss
	}
	return nil
}

func (m *LogisticRegression) objective(X [][]float64, y []float64, l2 float64) float64 {
	loss, _ := nn.BCE(y, m.PredictProba(X))
	reg := 0.0
	for _, w := range m.W {
		reg += w * w
	}
	return loss + 0.5*l2*reg
}

// logisticSnapshot drops the methods of LogisticRegression so gob encodes
// its fields instead of calling MarshalBinary again.
type logisticSnapshot LogisticRegression

// MarshalBinary implements encoding.BinaryMarshaler using gob.
func (m *LogisticRegression) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode((*logisticSnapshot)(m)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (m *LogisticRegression) UnmarshalBinary(data []byte) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode((*logisticSnapshot)(m))
}

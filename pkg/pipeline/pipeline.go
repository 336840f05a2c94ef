package pipeline

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/stats"
)

func init() {
	gob.Register(&stats.StandardScaler{})
	gob.Register(&model.LogisticRegression{})
	gob.Register(&model.RandomForest{})
}

// Pipeline chains preprocessing steps in front of a final classifier. Each
// step is fitted on the output of the previous one; prediction replays the
// fitted steps.
type Pipeline struct {
	Steps []model.Transformer
	Final model.Classifier
}

var _ model.Classifier = (*Pipeline)(nil)

func NewPipeline(final model.Classifier, steps ...model.Transformer) *Pipeline {
	return &Pipeline{Steps: steps, Final: final}
}

// NewScaledLogistic standardizes features before a logistic regression.
func NewScaledLogistic(opts ...model.LogisticOption) *Pipeline {
	return NewPipeline(model.NewLogisticRegression(opts...), stats.NewStandardScaler())
}

func (p *Pipeline) Fit(X [][]float64, y []int) error {
	if p.Final == nil {
		return errors.New("pipeline: no final estimator")
	}
	for i, step := range p.Steps {
		if err := step.Fit(X); err != nil {
			return fmt.Errorf("pipeline: step %d: %w", i, err)
		}
		X = step.Transform(X)
	}
	return p.Final.Fit(X, y)
}

func (p *Pipeline) Transform(X [][]float64) [][]float64 {
	for _, step := range p.Steps {
		X = step.Transform(X)
	}
	return X
}

func (p *Pipeline) Predict(X [][]float64) []int {
	return p.Final.Predict(p.Transform(X))
}

func (p *Pipeline) PredictProba(X [][]float64) []float64 {
	return p.Final.PredictProba(p.Transform(X))
}

type pipelineSnapshot Pipeline

// MarshalBinary implements encoding.BinaryMarshaler using gob. Steps and
// the final estimator must be types registered in init.
func (p *Pipeline) MarshalBinary() ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode((*pipelineSnapshot)(p)); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	return buf.Bytes(), nil
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler using gob.
func (p *Pipeline) UnmarshalBinary(data []byte) error {
	if err := gob.NewDecoder(bytes.NewReader(data)).Decode((*pipelineSnapshot)(p)); err != nil {
		return fmt.Errorf("pipeline: %w", err)
	}
	return nil
}

// Load reads a pipeline written by model.Save.
func Load(path string) (*Pipeline, error) {
	p := &Pipeline{}
	if err := model.Load(path, p); err != nil {
		return nil, err
	}
	return p, nil
}

// Package metrics collects run metrics for the churn pipeline and writes
// them in the Prometheus text format, ready for the node exporter's
// textfile collector.
package metrics

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	registry *prometheus.Registry

	StageDuration *prometheus.GaugeVec // seconds spent per stage
	StageErrors   *prometheus.CounterVec
	ModelScore    *prometheus.GaugeVec // model, partition, metric
	CVScore       prometheus.Gauge     // best grid-search mean accuracy
	Rows          prometheus.Gauge
	LastRun       prometheus.Gauge // unix seconds
}

// New registers the pipeline metrics on a private registry.
func New() *Metrics {
	return NewWithRegistry(prometheus.NewRegistry())
}

func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		registry: reg,
		StageDuration: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "churn_stage_duration_seconds",
			Help: "Wall time of each pipeline stage in the last run",
		}, []string{"stage"}),
		StageErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "churn_stage_errors_total",
			Help: "Stage failures",
		}, []string{"stage"}),
		ModelScore: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "churn_model_score",
			Help: "Evaluation scores of the fitted models",
		}, []string{"model", "partition", "metric"}),
		CVScore: factory.NewGauge(prometheus.GaugeOpts{
			Name: "churn_grid_search_best_score",
			Help: "Mean cross-validated accuracy of the best forest candidate",
		}),
		Rows: factory.NewGauge(prometheus.GaugeOpts{
			Name: "churn_dataset_rows",
			Help: "Rows in the loaded dataset",
		}),
		LastRun: factory.NewGauge(prometheus.GaugeOpts{
			Name: "churn_last_run_timestamp_seconds",
			Help: "Completion time of the last run",
		}),
	}
}

// ObserveStage records the duration of stage since start, and a failure
// when err is non-nil.
func (m *Metrics) ObserveStage(stage string, start time.Time, err error) {
	m.StageDuration.WithLabelValues(stage).Set(time.Since(start).Seconds())
	if err != nil {
		m.StageErrors.WithLabelValues(stage).Inc()
	}
}

func (m *Metrics) SetScore(model, partition, metric string, v float64) {
	m.ModelScore.WithLabelValues(model, partition, metric).Set(v)
}

func (m *Metrics) Gatherer() prometheus.Gatherer { return m.registry }

// WriteTextfile writes every metric to path atomically.
func (m *Metrics) WriteTextfile(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	m.LastRun.SetToCurrentTime()
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("metrics: write %s: %w", path, err)
	}
	return nil
}

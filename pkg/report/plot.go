// Package report renders churn artifacts: EDA charts, classification
// report images, ROC curves and feature importances.
package report

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/vg"
)

// Artifact file names.
const (
	ChurnDistribution       = "churn_distribution.png"
	CustomerAgeDistribution = "customer_age_distribution.png"
	MaritalStatus           = "marital_status_distribution.png"
	TotalTransDistribution  = "total_transaction_distribution.png"
	Heatmap                 = "heatmap.png"

	RFResults         = "rf_results.png"
	LogisticResults   = "logistic_results.png"
	ROCCurve          = "roc_curve_result.png"
	FeatureImportance = "feature_importance.png"
)

var (
	barColor  = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	lineColor = color.RGBA{R: 255, G: 127, B: 14, A: 255}
	series    = []color.RGBA{
		{R: 31, G: 119, B: 180, A: 255},
		{R: 255, G: 127, B: 14, A: 255},
		{R: 44, G: 160, B: 44, A: 255},
		{R: 214, G: 39, B: 40, A: 255},
	}
)

// save writes p to path as PNG, creating the parent directory and
// replacing any existing file.
func save(p *plot.Plot, w, h vg.Length, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("report: %w", err)
	}
	if err := p.Save(w, h, path); err != nil {
		return fmt.Errorf("report: save %s: %w", path, err)
	}
	return nil
}

package report

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/model"
)

// WriteClassificationImage renders the train and test reports of one model
// as monospace text.
func WriteClassificationImage(path, name string, train, test model.ClassificationReport) error {
	lines := []string{name + " Train"}
	lines = append(lines, strings.Split(strings.TrimRight(train.String(), "\n"), "\n")...)
	lines = append(lines, "", name+" Test")
	lines = append(lines, strings.Split(strings.TrimRight(test.String(), "\n"), "\n")...)

	n := len(lines)
	xy := make(plotter.XYs, n)
	for i := range lines {
		xy[i] = plotter.XY{X: 0, Y: float64(n - i)}
	}
	labels, err := plotter.NewLabels(plotter.XYLabels{XYs: xy, Labels: lines})
	if err != nil {
		return fmt.Errorf("report: %s: %w", name, err)
	}
	for i := range labels.TextStyle {
		labels.TextStyle[i].Font.Variant = "Mono"
		labels.TextStyle[i].Font.Size = vg.Points(10)
		labels.TextStyle[i].YAlign = draw.YCenter
	}

	p := plot.New()
	p.HideAxes()
	p.Add(labels)
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, float64(n+1)
	return save(p, 5*vg.Inch, 5*vg.Inch, path)
}

// Curve is one classifier's scores on a labeled set.
type Curve struct {
	Name   string
	Scores []float64 // p(y=1)
	Labels []int
}

// ROC returns the false and true positive rates over every distinct score
// cutoff, from (0,0) to (1,1), and the trapezoidal area under the curve.
func ROC(scores []float64, labels []int) (fpr, tpr []float64, auc float64, err error) {
	if len(scores) != len(labels) {
		return nil, nil, 0, fmt.Errorf("roc: %d scores for %d labels", len(scores), len(labels))
	}
	pos, neg := 0, 0
	for _, l := range labels {
		if l == 1 {
			pos++
		} else {
			neg++
		}
	}
	if pos == 0 || neg == 0 {
		return nil, nil, 0, errors.New("roc: need both classes")
	}

	sorted := append([]float64(nil), scores...)
	idx := make([]int, len(sorted))
	floats.Argsort(sorted, idx)
	classes := make([]bool, len(idx))
	for k, i := range idx {
		classes[k] = labels[i] == 1
	}

	tpr, fpr, _ = stat.ROC(nil, sorted, classes, nil)
	auc = integrate.Trapezoidal(fpr, tpr)
	return fpr, tpr, auc, nil
}

// WriteROC plots the ROC curve of each model on one chart and returns the
// AUC of each curve in argument order.
func WriteROC(path string, curves ...Curve) ([]float64, error) {
	p := plot.New()
	p.Title.Text = "ROC"
	p.X.Label.Text = "False Positive Rate"
	p.Y.Label.Text = "True Positive Rate"
	p.X.Min, p.X.Max = 0, 1
	p.Y.Min, p.Y.Max = 0, 1
	p.Legend.Top = false
	p.Legend.Left = false

	aucs := make([]float64, len(curves))
	for i, c := range curves {
		fpr, tpr, auc, err := ROC(c.Scores, c.Labels)
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", c.Name, err)
		}
		aucs[i] = auc

		xys := make(plotter.XYs, len(fpr))
		for k := range fpr {
			xys[k] = plotter.XY{X: fpr[k], Y: tpr[k]}
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, fmt.Errorf("report: %s: %w", c.Name, err)
		}
		l.Color = series[i%len(series)]
		l.LineStyle.Width = vg.Points(2)
		p.Add(l)
		p.Legend.Add(fmt.Sprintf("%s (AUC = %.2f)", c.Name, auc), l)
	}

	diag, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: 1, Y: 1}})
	if err != nil {
		return nil, err
	}
	diag.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(4)}
	p.Add(diag)

	return aucs, save(p, 15*vg.Inch, 8*vg.Inch, path)
}

// WriteFeatureImportance plots importances sorted in descending order.
func WriteFeatureImportance(path string, names []string, importances []float64) error {
	if len(names) != len(importances) {
		return fmt.Errorf("report: %d names for %d importances", len(names), len(importances))
	}
	if len(names) == 0 {
		return errors.New("report: no features")
	}
	order := SortedImportances(importances)

	vals := make(plotter.Values, len(order))
	labels := make([]string, len(order))
	for k, j := range order {
		vals[k] = importances[j]
		labels[k] = names[j]
	}

	p := plot.New()
	p.Title.Text = "Feature Importance"
	p.Y.Label.Text = "Importance"

	b, err := plotter.NewBarChart(vals, vg.Points(20))
	if err != nil {
		return fmt.Errorf("report: importances: %w", err)
	}
	b.Color = barColor
	p.Add(b)
	p.NominalX(labels...)
	p.X.Tick.Label.Rotation = math.Pi / 2
	p.X.Tick.Label.XAlign = draw.XRight
	p.X.Tick.Label.YAlign = draw.YCenter

	return save(p, 20*vg.Inch, 5*vg.Inch, path)
}

// SortedImportances returns feature indices by decreasing importance. Equal
// importances keep their original order.
func SortedImportances(importances []float64) []int {
	neg := make([]float64, len(importances))
	for i, v := range importances {
		neg[i] = -v
	}
	idx := make([]int, len(neg))
	floats.Argsort(neg, idx)
	for lo := 0; lo < len(idx); {
		hi := lo + 1
		for hi < len(idx) && neg[hi] == neg[lo] {
			hi++
		}
		slices.Sort(idx[lo:hi])
		lo = hi
	}
	return idx
}

package model

import (
	"fmt"
	"strings"
)

// Accuracy returns the share of matching labels.
func Accuracy(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	c := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			c++
		}
	}
	return float64(c) / float64(len(yTrue))
}

// BinaryPredFromProba thresholds probabilities into 0/1 labels.
func BinaryPredFromProba(proba []float64, threshold float64) []int {
	out := make([]int, len(proba))
	for i, p := range proba {
		if p >= threshold {
			out[i] = 1
		} else {
			out[i] = 0
		}
	}
	return out
}

// PrecisionRecallF1 scores predictions for the given positive label.
func PrecisionRecallF1(yTrue []int, yPred []int, positive int) (prec, rec, f1 float64) {
	tp, fp, fn := 0, 0, 0
	for i := range yTrue {
		switch {
		case yPred[i] == positive && yTrue[i] == positive:
			tp++
		case yPred[i] == positive:
			fp++
		case yTrue[i] == positive:
			fn++
		}
	}
	if tp+fp > 0 {
		prec = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		rec = float64(tp) / float64(tp+fn)
	}
	if prec+rec > 0 {
		f1 = 2 * prec * rec / (prec + rec)
	}
	return
}

// ClassScores is one row of a classification report.
type ClassScores struct {
	Label     string
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// ClassificationReport summarizes per-class precision, recall and F1 along
// with accuracy and macro/weighted averages.
type ClassificationReport struct {
	Classes  []ClassScores
	Accuracy float64
	Macro    ClassScores
	Weighted ClassScores
}

// NewClassificationReport scores yPred against yTrue over the union of
// labels seen in either slice.
func NewClassificationReport(yTrue, yPred []int) (ClassificationReport, error) {
	if len(yTrue) != len(yPred) {
		return ClassificationReport{}, fmt.Errorf("report: %d labels vs %d predictions", len(yTrue), len(yPred))
	}
	labels := uniqueSorted(append(append([]int(nil), yTrue...), yPred...))

	r := ClassificationReport{
		Accuracy: Accuracy(yTrue, yPred),
		Macro:    ClassScores{Label: "macro avg", Support: len(yTrue)},
		Weighted: ClassScores{Label: "weighted avg", Support: len(yTrue)},
	}
	for _, l := range labels {
		p, rc, f := PrecisionRecallF1(yTrue, yPred, l)
		support := 0
		for _, v := range yTrue {
			if v == l {
				support++
			}
		}
		r.Classes = append(r.Classes, ClassScores{Label: fmt.Sprint(l), Precision: p, Recall: rc, F1: f, Support: support})
	}

	if n := float64(len(r.Classes)); n > 0 {
		for _, c := range r.Classes {
			r.Macro.Precision += c.Precision / n
			r.Macro.Recall += c.Recall / n
			r.Macro.F1 += c.F1 / n
			if len(yTrue) > 0 {
				w := float64(c.Support) / float64(len(yTrue))
				r.Weighted.Precision += c.Precision * w
				r.Weighted.Recall += c.Recall * w
				r.Weighted.F1 += c.F1 * w
			}
		}
	}
	return r, nil
}

// String renders the report in the familiar fixed-width layout.
func (r ClassificationReport) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%12s %10s %10s %10s %10s\n\n", "", "precision", "recall", "f1-score", "support")
	for _, c := range r.Classes {
		fmt.Fprintf(&b, "%12s %10.2f %10.2f %10.2f %10d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	b.WriteString("\n")
	fmt.Fprintf(&b, "%12s %10s %10s %10.2f %10d\n", "accuracy", "", "", r.Accuracy, r.Macro.Support)
	for _, c := range []ClassScores{r.Macro, r.Weighted} {
		fmt.Fprintf(&b, "%12s %10.2f %10.2f %10.2f %10d\n", c.Label, c.Precision, c.Recall, c.F1, c.Support)
	}
	return b.String()
}

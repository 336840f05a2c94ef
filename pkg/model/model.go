package model

// Classifier is a binary supervised model over numeric rows.
type Classifier interface {
	Fit(X [][]float64, y []int) error
	Predict(X [][]float64) []int
	PredictProba(X [][]float64) []float64 // returns p(y=1)
}

// Transformer is for preprocessing steps (fit on train, transform both).
type Transformer interface {
	Fit(X [][]float64) error
	Transform(X [][]float64) [][]float64
}

var (
	_ Classifier = (*RandomForest)(nil)
	_ Classifier = (*LogisticRegression)(nil)
)

package dataprep

import (
	"slices"

	"gonum.org/v1/gonum/mat"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
)

// FeatureMatrix is a row-major numeric table with named columns.
type FeatureMatrix struct {
	Columns []string
	Rows    [][]float64
}

// Project copies the named columns of ds, in the given order, into a
// FeatureMatrix. An absent column is a SchemaMismatch.
func Project(ds *data.Dataset, columns []string) (*FeatureMatrix, error) {
	cols := make([][]float64, len(columns))
	for j, name := range columns {
		if !ds.Has(name) {
			return nil, churnerr.New(churnerr.SchemaMismatch, "dataprep.Project", "column %q not found", name)
		}
		v, err := ds.Floats(name)
		if err != nil {
			return nil, err
		}
		cols[j] = v
	}

	rows := make([][]float64, ds.Nrow())
	for i := range rows {
		row := make([]float64, len(columns))
		for j := range columns {
			row[j] = cols[j][i]
		}
		rows[i] = row
	}
	return &FeatureMatrix{Columns: append([]string(nil), columns...), Rows: rows}, nil
}

// Dims returns the number of rows and columns.
func (m *FeatureMatrix) Dims() (r, c int) { return len(m.Rows), len(m.Columns) }

// Column returns a copy of the named column.
func (m *FeatureMatrix) Column(name string) ([]float64, bool) {
	j := slices.Index(m.Columns, name)
	if j < 0 {
		return nil, false
	}
	out := make([]float64, len(m.Rows))
	for i, row := range m.Rows {
		out[i] = row[j]
	}
	return out, true
}

// Select returns a FeatureMatrix restricted to the named columns.
func (m *FeatureMatrix) Select(names []string) (*FeatureMatrix, error) {
	idx := make([]int, len(names))
	for k, name := range names {
		j := slices.Index(m.Columns, name)
		if j < 0 {
			return nil, churnerr.New(churnerr.SchemaMismatch, "dataprep.Select", "column %q not found", name)
		}
		idx[k] = j
	}
	return &FeatureMatrix{Columns: append([]string(nil), names...), Rows: FeatureSelect(m.Rows, idx)}, nil
}

// Dense copies the matrix into a gonum dense matrix.
func (m *FeatureMatrix) Dense() *mat.Dense {
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return &mat.Dense{}
	}
	d := mat.NewDense(r, c, nil)
	for i, row := range m.Rows {
		d.SetRow(i, row)
	}
	return d
}

// FeatureSelect selects columns by indices.
func FeatureSelect(X [][]float64, indices []int) [][]float64 {
	out := make([][]float64, len(X))
	for i, row := range X {
		selected := make([]float64, len(indices))
		for j, idx := range indices {
			selected[j] = row[idx]
		}
		out[i] = selected
	}
	return out
}

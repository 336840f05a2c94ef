package dataprep

import (
	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/data"
	"github.com/Shamima085/Predict-Customer-Churn/pkg/stats"
)

// CategoryMeanTable maps each categorical value to the mean label of the
// rows holding it, per column.
type CategoryMeanTable struct {
	Columns []string
	Means   map[string]map[string]float64
}

// FitCategoryMeans computes the per-value label means of every column in
// categories. The table is rebuilt from scratch on each call.
func FitCategoryMeans(ds *data.Dataset, label string, categories []string) (*CategoryMeanTable, error) {
	y, err := ds.Labels(label)
	if err != nil {
		return nil, err
	}

	t := &CategoryMeanTable{
		Columns: append([]string(nil), categories...),
		Means:   make(map[string]map[string]float64, len(categories)),
	}
	for _, c := range categories {
		values, err := ds.Strings(c)
		if err != nil {
			return nil, err
		}
		groups := make(map[string][]float64)
		for i, v := range values {
			groups[v] = append(groups[v], float64(y[i]))
		}
		means := make(map[string]float64, len(groups))
		for v, g := range groups {
			means[v] = stats.Mean(g)
		}
		t.Means[c] = means
	}
	return t, nil
}

// Lookup returns the mean label for value in column.
func (t *CategoryMeanTable) Lookup(column, value string) (float64, error) {
	means, ok := t.Means[column]
	if !ok {
		return 0, churnerr.New(churnerr.SchemaMismatch, "dataprep.Lookup", "column %q was not fitted", column)
	}
	m, ok := means[value]
	if !ok {
		return 0, churnerr.New(churnerr.KeyNotFound, "dataprep.Lookup", "value %q unseen in column %q", value, column)
	}
	return m, nil
}

// Apply writes one <column>_Churn column per fitted column, in fitted
// order. Unseen values fail with KeyNotFound; nothing is imputed.
func (t *CategoryMeanTable) Apply(ds *data.Dataset) error {
	for _, c := range t.Columns {
		values, err := ds.Strings(c)
		if err != nil {
			return err
		}
		encoded := make([]float64, len(values))
		for i, v := range values {
			if encoded[i], err = t.Lookup(c, v); err != nil {
				return err
			}
		}
		if err := ds.SetFloats(data.EncodedName(c), encoded); err != nil {
			return err
		}
	}
	return nil
}

// EncodeCategories replaces every categorical column of schema with its
// mean-churn column, computed on ds itself.
func EncodeCategories(ds *data.Dataset, schema data.Schema) (*CategoryMeanTable, error) {
	t, err := FitCategoryMeans(ds, schema.Label, schema.Categorical)
	if err != nil {
		return nil, err
	}
	if err := t.Apply(ds); err != nil {
		return nil, err
	}
	return t, nil
}

// EncodeFeatures encodes ds and projects it onto the schema's feature
// columns.
func EncodeFeatures(ds *data.Dataset, schema data.Schema) (*FeatureMatrix, error) {
	if _, err := EncodeCategories(ds, schema); err != nil {
		return nil, err
	}
	return Project(ds, schema.FeatureNames())
}

// FrequencyEncode returns each distinct value's share of data, in order of
// first appearance.
func FrequencyEncode(values []string) (order []string, freq map[string]float64) {
	freq = map[string]float64{}
	for _, v := range values {
		if _, ok := freq[v]; !ok {
			order = append(order, v)
		}
		freq[v]++
	}
	for k := range freq {
		freq[k] /= float64(len(values))
	}
	return order, freq
}

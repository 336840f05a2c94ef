package data

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
)

// Dataset is the in-memory customer table. Columns are added in place by
// the loader (label) and the encoder (mean-churn columns).
type Dataset struct {
	df dataframe.DataFrame
}

// LoadDataset reads the CSV at path and derives the label column described
// by schema.
func LoadDataset(path string, schema Schema) (*Dataset, error) {
	const op = "data.LoadDataset"
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, churnerr.Wrap(churnerr.NotFound, op, err)
		}
		return nil, churnerr.Wrap(churnerr.MalformedInput, op, err)
	}
	defer f.Close()
	return ReadDataset(f, schema)
}

// ReadDataset parses CSV from r. Categorical and label source columns are
// kept as strings regardless of how their values look.
func ReadDataset(r io.Reader, schema Schema) (*Dataset, error) {
	const op = "data.ReadDataset"

	types := map[string]series.Type{schema.LabelSource: series.String}
	for _, c := range schema.Categorical {
		types[c] = series.String
	}
	df := dataframe.ReadCSV(r,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(true),
		dataframe.WithTypes(types),
	)
	if df.Err != nil {
		return nil, churnerr.Wrap(churnerr.MalformedInput, op, df.Err)
	}
	if df.Nrow() == 0 || df.Ncol() == 0 {
		return nil, churnerr.New(churnerr.MalformedInput, op, "empty table (%d rows, %d columns)", df.Nrow(), df.Ncol())
	}

	ds := &Dataset{df: df}
	if err := ds.deriveLabel(schema); err != nil {
		return nil, err
	}
	return ds, nil
}

// deriveLabel maps the retained status to 0 and every other status to 1.
func (d *Dataset) deriveLabel(schema Schema) error {
	status, err := d.Strings(schema.LabelSource)
	if err != nil {
		return err
	}
	labels := make([]int, len(status))
	for i, s := range status {
		if s != schema.RetainedValue {
			labels[i] = 1
		}
	}
	d.df = d.df.Mutate(series.New(labels, series.Int, schema.Label))
	return d.df.Err
}

// Nrow returns the number of customers.
func (d *Dataset) Nrow() int { return d.df.Nrow() }

// Ncol returns the number of columns.
func (d *Dataset) Ncol() int { return d.df.Ncol() }

// Names returns the column names in table order.
func (d *Dataset) Names() []string { return d.df.Names() }

// Has reports whether the named column exists.
func (d *Dataset) Has(name string) bool { return slices.Contains(d.df.Names(), name) }

// Frame exposes the underlying dataframe for read-only use.
func (d *Dataset) Frame() dataframe.DataFrame { return d.df }

func (d *Dataset) col(op, name string) (series.Series, error) {
	if !d.Has(name) {
		return series.Series{}, churnerr.New(churnerr.SchemaMismatch, op, "column %q not found", name)
	}
	return d.df.Col(name), nil
}

// Strings returns the named column rendered as strings.
func (d *Dataset) Strings(name string) ([]string, error) {
	s, err := d.col("data.Strings", name)
	if err != nil {
		return nil, err
	}
	return s.Records(), nil
}

// Floats returns the named column as float64. Values that do not parse
// come back as NaN; callers that feed models must reject them.
func (d *Dataset) Floats(name string) ([]float64, error) {
	s, err := d.col("data.Floats", name)
	if err != nil {
		return nil, err
	}
	return s.Float(), nil
}

// Labels returns the named 0/1 label column.
func (d *Dataset) Labels(name string) ([]int, error) {
	const op = "data.Labels"
	s, err := d.col(op, name)
	if err != nil {
		return nil, err
	}
	out, err := s.Int()
	if err != nil {
		return nil, churnerr.Wrap(churnerr.InvalidFeatureValue, op, err)
	}
	return out, nil
}

// SetFloats adds or replaces a float column.
func (d *Dataset) SetFloats(name string, values []float64) error {
	if len(values) != d.Nrow() {
		return churnerr.New(churnerr.ShapeMismatch, "data.SetFloats",
			"column %q has %d values, table has %d rows", name, len(values), d.Nrow())
	}
	df := d.df.Mutate(series.New(values, series.Float, name))
	if df.Err != nil {
		return fmt.Errorf("data.SetFloats %q: %w", name, df.Err)
	}
	d.df = df
	return nil
}

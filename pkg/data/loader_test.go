package data

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Shamima085/Predict-Customer-Churn/pkg/churnerr"
)

const tinyCSV = `Attrition_Flag,Gender,Customer_Age
Existing Customer,M,45
Attrited Customer,F,49
Existing Customer,F,51
Attrited Customer,M,40
`

func TestReadDatasetDerivesLabel(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(tinyCSV), DefaultSchema())
	require.NoError(t, err)

	assert.Equal(t, 4, ds.Nrow())
	assert.Equal(t, 4, ds.Ncol())
	assert.True(t, ds.Has("Churn"))

	labels, err := ds.Labels("Churn")
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 0, 1}, labels)

	status, err := ds.Strings("Attrition_Flag")
	require.NoError(t, err)
	for i, s := range status {
		assert.Equal(t, s == "Existing Customer", labels[i] == 0, "row %d", i)
	}
}

func TestLoadDatasetMissingFile(t *testing.T) {
	_, err := LoadDataset(filepath.Join(t.TempDir(), "nope.csv"), DefaultSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, churnerr.ErrNotFound)
}

func TestLoadDatasetFromDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bank.csv")
	require.NoError(t, os.WriteFile(path, []byte(tinyCSV), 0o644))

	ds, err := LoadDataset(path, DefaultSchema())
	require.NoError(t, err)
	assert.Equal(t, 4, ds.Nrow())
}

func TestReadDatasetMalformed(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"empty", ""},
		{"header only", "Attrition_Flag,Gender\n"},
		{"ragged rows", "Attrition_Flag,Gender\nExisting Customer,M,extra\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ReadDataset(strings.NewReader(tt.in), DefaultSchema())
			require.Error(t, err)
			assert.ErrorIs(t, err, churnerr.ErrMalformedInput)
		})
	}
}

func TestReadDatasetWithoutStatusColumn(t *testing.T) {
	_, err := ReadDataset(strings.NewReader("Gender,Customer_Age\nM,40\n"), DefaultSchema())
	require.Error(t, err)
	assert.ErrorIs(t, err, churnerr.ErrSchemaMismatch)
}

func TestSetFloatsReplacesColumn(t *testing.T) {
	ds, err := ReadDataset(strings.NewReader(tinyCSV), DefaultSchema())
	require.NoError(t, err)

	require.NoError(t, ds.SetFloats("Gender_Churn", []float64{1, 2, 3, 4}))
	require.NoError(t, ds.SetFloats("Gender_Churn", []float64{4, 3, 2, 1}))
	assert.Equal(t, 5, ds.Ncol())

	got, err := ds.Floats("Gender_Churn")
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 3, 2, 1}, got)

	err = ds.SetFloats("short", []float64{1})
	assert.ErrorIs(t, err, churnerr.ErrShapeMismatch)
}

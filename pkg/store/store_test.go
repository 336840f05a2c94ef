package store

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTemp(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "models", "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestOpenCreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "runs.db")
	s, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, s.Close())
	_, err = os.Stat(path)
	assert.NoError(t, err)
	assert.NoError(t, s.Close(), "closing twice is fine")
}

func TestPutGetList(t *testing.T) {
	s := openTemp(t)

	first := Run{StartedAt: time.Unix(100, 0).UTC(), Rows: 10, Scores: map[string]float64{"rf_test_accuracy": 0.9}}
	id1, err := s.Put(first)
	require.NoError(t, err)
	require.NotEmpty(t, id1)

	time.Sleep(2 * time.Millisecond)
	id2, err := s.Put(Run{Rows: 20, BestGrid: "criterion=gini"})
	require.NoError(t, err)

	got, err := s.Get(id1)
	require.NoError(t, err)
	assert.Equal(t, 10, got.Rows)
	assert.Equal(t, 0.9, got.Scores["rf_test_accuracy"])
	assert.True(t, first.StartedAt.Equal(got.StartedAt))

	runs, err := s.List()
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, id1, runs[0].ID)
	assert.Equal(t, id2, runs[1].ID)

	latest, err := s.Latest()
	require.NoError(t, err)
	assert.Equal(t, id2, latest.ID)
}

func TestMissingRun(t *testing.T) {
	s := openTemp(t)
	_, err := s.Latest()
	assert.True(t, IsNotFound(err))
	_, err = s.Get("nope")
	assert.True(t, IsNotFound(err))
}

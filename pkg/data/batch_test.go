package data

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBatchesKeepsOrderAndRemainder(t *testing.T) {
	X := [][]float64{{1}, {2}, {3}, {4}, {5}}
	y := []float64{0, 1, 0, 1, 1}

	out, stop := Batches(X, y, 2)
	defer stop()

	var sizes []int
	var seen []float64
	for b := range out {
		sizes = append(sizes, len(b.Y))
		for _, row := range b.X {
			seen = append(seen, row[0])
		}
	}
	assert.Equal(t, []int{2, 2, 1}, sizes)
	assert.Equal(t, []float64{1, 2, 3, 4, 5}, seen)
}

func TestBatchesFullBatch(t *testing.T) {
	out, stop := Batches([][]float64{{1}, {2}, {3}}, []float64{0, 0, 1}, 0)
	defer stop()

	n := 0
	for b := range out {
		assert.Len(t, b.X, 3)
		n++
	}
	assert.Equal(t, 1, n)
}

func TestBatchesStopEarly(t *testing.T) {
	X := make([][]float64, 100)
	y := make([]float64, 100)
	for i := range X {
		X[i] = []float64{float64(i)}
	}
	out, stop := Batches(X, y, 10)
	<-out
	stop()
	stop()
	// the channel closes once the batcher sees done
	for range out {
	}
}

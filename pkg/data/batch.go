package data

// Sample represents a single training row.
type Sample struct {
	X []float64
	Y float64
}

// Batch represents a collection of training rows.
type Batch struct {
	X [][]float64
	Y []float64
}

// Batcher reads from a Sample channel and emits mini-batches of batchSize.
// The last batch may be smaller. Close the returned done chan to stop early.
func Batcher(in <-chan Sample, batchSize int, out chan<- Batch) (done chan struct{}) {
	done = make(chan struct{})

	go func() {
		defer close(out)

		var X [][]float64
		var Y []float64

		for {
			select {
			case <-done:
				return

			case s, ok := <-in:
				if !ok {
					// flush the remainder
					if len(Y) > 0 {
						select {
						case out <- Batch{X: X, Y: Y}:
						case <-done:
						}
					}
					return
				}

				X = append(X, s.X)
				Y = append(Y, s.Y)

				if len(Y) == batchSize {
					select {
					case out <- Batch{X: X, Y: Y}:
					case <-done:
						return
					}
					X = nil
					Y = nil
				}
			}
		}
	}()

	return done
}

// Batches streams X and y in row order as mini-batches. A batchSize <= 0
// yields a single full batch. The returned stop func releases the
// goroutines if the caller abandons the channel; it is safe to call after
// the channel is drained.
func Batches(X [][]float64, y []float64, batchSize int) (<-chan Batch, func()) {
	if batchSize <= 0 {
		batchSize = len(X)
	}
	samples := make(chan Sample)
	out := make(chan Batch)
	done := Batcher(samples, batchSize, out)

	go func() {
		defer close(samples)
		for i := range X {
			select {
			case samples <- Sample{X: X[i], Y: y[i]}:
			case <-done:
				return
			}
		}
	}()

	stopped := false
	return out, func() {
		if !stopped {
			stopped = true
			close(done)
		}
	}
}

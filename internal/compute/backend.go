package compute

import "fmt"

// Backend executes batched numeric primitives over flat float64 storage.
type Backend interface {
	Name() string
	Available() bool

	// Fill sets every element of dst to v.
	Fill(dst []float64, v float64)

	// Copy copies src into dst. Slices must have equal length.
	Copy(dst, src []float64)

	// Axpy computes y[i] += alpha*x[i].
	Axpy(alpha float64, x, y []float64)

	// MatVecInc computes y += W·x for each of batch copies of x and y.
	// W is rows x cols, shared across the batch; x is batch*cols and
	// y is batch*rows, batch-major.
	MatVecInc(w []float64, rows, cols int, x, y []float64, batch int)

	Cleanup()
}

// Select returns the named backend, or the auto-selected one for "".
func Select(name string) (Backend, error) {
	switch name {
	case "":
		return Auto(), nil
	case "cpu":
		return NewCPUBackend(), nil
	case "parallel":
		return NewParallelBackend(), nil
	default:
		return nil, fmt.Errorf("unknown compute backend: %s", name)
	}
}

// Auto selects the best available backend.
func Auto() Backend {
	par := NewParallelBackend()
	if par.Available() {
		return par
	}
	return NewCPUBackend()
}

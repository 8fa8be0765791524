package compute

import (
	"runtime"
	"sync"
)

// parallelThreshold is the element count below which chunking across
// goroutines costs more than it saves.
const parallelThreshold = 4096

// ParallelBackend chunks large batched operations across goroutines and
// falls back to serial execution for small work.
type ParallelBackend struct {
	serial  *CPUBackend
	workers int
}

func NewParallelBackend() *ParallelBackend {
	return &ParallelBackend{
		serial:  NewCPUBackend(),
		workers: runtime.GOMAXPROCS(0),
	}
}

func (b *ParallelBackend) Name() string    { return "parallel" }
func (b *ParallelBackend) Available() bool { return b.workers > 1 }
func (b *ParallelBackend) Cleanup()        {}

func (b *ParallelBackend) Fill(dst []float64, v float64) {
	b.chunked(len(dst), func(lo, hi int) {
		b.serial.Fill(dst[lo:hi], v)
	})
}

func (b *ParallelBackend) Copy(dst, src []float64) {
	b.chunked(len(dst), func(lo, hi int) {
		copy(dst[lo:hi], src[lo:hi])
	})
}

func (b *ParallelBackend) Axpy(alpha float64, x, y []float64) {
	b.chunked(len(y), func(lo, hi int) {
		b.serial.Axpy(alpha, x[lo:hi], y[lo:hi])
	})
}

func (b *ParallelBackend) MatVecInc(w []float64, rows, cols int, x, y []float64, batch int) {
	if batch*rows*cols < parallelThreshold || batch < 2 {
		matVecRange(w, rows, cols, x, y, 0, batch)
		return
	}

	var wg sync.WaitGroup
	per := (batch + b.workers - 1) / b.workers
	for lo := 0; lo < batch; lo += per {
		hi := min(lo+per, batch)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			matVecRange(w, rows, cols, x, y, lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

// chunked splits an elementwise operation of size n into worker ranges.
func (b *ParallelBackend) chunked(n int, fn func(lo, hi int)) {
	if n < parallelThreshold {
		fn(0, n)
		return
	}

	var wg sync.WaitGroup
	per := (n + b.workers - 1) / b.workers
	for lo := 0; lo < n; lo += per {
		hi := min(lo+per, n)
		wg.Add(1)
		go func(lo, hi int) {
			defer wg.Done()
			fn(lo, hi)
		}(lo, hi)
	}
	wg.Wait()
}

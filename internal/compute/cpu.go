package compute

// CPUBackend is the serial fallback. Always available.
type CPUBackend struct{}

func NewCPUBackend() *CPUBackend { return &CPUBackend{} }

func (b *CPUBackend) Name() string    { return "cpu" }
func (b *CPUBackend) Available() bool { return true }
func (b *CPUBackend) Cleanup()        {}

func (b *CPUBackend) Fill(dst []float64, v float64) {
	for i := range dst {
		dst[i] = v
	}
}

func (b *CPUBackend) Copy(dst, src []float64) {
	copy(dst, src)
}

func (b *CPUBackend) Axpy(alpha float64, x, y []float64) {
	for i := range y {
		y[i] += alpha * x[i]
	}
}

func (b *CPUBackend) MatVecInc(w []float64, rows, cols int, x, y []float64, batch int) {
	matVecRange(w, rows, cols, x, y, 0, batch)
}

// matVecRange computes the batch slice [lo, hi) of y += W·x. Shared by the
// serial and parallel backends.
func matVecRange(w []float64, rows, cols int, x, y []float64, lo, hi int) {
	for b := lo; b < hi; b++ {
		xb := x[b*cols : (b+1)*cols]
		yb := y[b*rows : (b+1)*rows]
		for r := 0; r < rows; r++ {
			wr := w[r*cols : (r+1)*cols]
			sum := 0.0
			for c, xv := range xb {
				sum += wr[c] * xv
			}
			yb[r] += sum
		}
	}
}

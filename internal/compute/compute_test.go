package compute

import (
	"math"
	"math/rand"
	"testing"
)

func TestSelect(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"", "", false},
		{"cpu", "cpu", false},
		{"parallel", "parallel", false},
		{"gpu", "", true},
	}

	for _, tt := range tests {
		b, err := Select(tt.name)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Select(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Errorf("Select(%q): %v", tt.name, err)
			continue
		}
		if tt.want != "" && b.Name() != tt.want {
			t.Errorf("Select(%q) = %s", tt.name, b.Name())
		}
	}
}

func TestCPUPrimitives(t *testing.T) {
	b := NewCPUBackend()

	dst := make([]float64, 4)
	b.Fill(dst, 2.5)
	for i, v := range dst {
		if v != 2.5 {
			t.Errorf("fill element %d: got %g", i, v)
		}
	}

	src := []float64{1, 2, 3, 4}
	b.Copy(dst, src)
	for i := range src {
		if dst[i] != src[i] {
			t.Errorf("copy element %d: got %g, want %g", i, dst[i], src[i])
		}
	}

	y := []float64{10, 10, 10, 10}
	b.Axpy(2, src, y)
	want := []float64{12, 14, 16, 18}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("axpy element %d: got %g, want %g", i, y[i], want[i])
		}
	}
}

func TestMatVecInc(t *testing.T) {
	b := NewCPUBackend()

	// [[1 2] [3 4]] · [1 1] = [3 7], batched twice.
	w := []float64{1, 2, 3, 4}
	x := []float64{1, 1, 2, 0}
	y := []float64{0, 0, 10, 10}
	b.MatVecInc(w, 2, 2, x, y, 2)

	want := []float64{3, 7, 12, 16}
	for i := range want {
		if y[i] != want[i] {
			t.Errorf("element %d: got %g, want %g", i, y[i], want[i])
		}
	}
}

func TestParallelMatchesSerial(t *testing.T) {
	serial := NewCPUBackend()
	par := NewParallelBackend()
	rng := rand.New(rand.NewSource(11))

	const rows, cols, batch = 16, 16, 64
	w := randSlice(rng, rows*cols)
	x := randSlice(rng, batch*cols)
	y1 := randSlice(rng, batch*rows)
	y2 := append([]float64(nil), y1...)

	serial.MatVecInc(w, rows, cols, x, y1, batch)
	par.MatVecInc(w, rows, cols, x, y2, batch)

	for i := range y1 {
		if math.Abs(y1[i]-y2[i]) > 1e-12 {
			t.Fatalf("element %d diverges: serial %g, parallel %g", i, y1[i], y2[i])
		}
	}
}

func TestParallelElementwiseLarge(t *testing.T) {
	par := NewParallelBackend()
	n := parallelThreshold * 3

	dst := make([]float64, n)
	par.Fill(dst, 1.5)
	for i, v := range dst {
		if v != 1.5 {
			t.Fatalf("fill element %d: got %g", i, v)
		}
	}

	src := make([]float64, n)
	for i := range src {
		src[i] = float64(i)
	}
	par.Copy(dst, src)
	par.Axpy(1, src, dst)
	for i := range dst {
		if dst[i] != 2*float64(i) {
			t.Fatalf("element %d: got %g, want %g", i, dst[i], 2*float64(i))
		}
	}
}

func randSlice(rng *rand.Rand, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = rng.NormFloat64()
	}
	return out
}

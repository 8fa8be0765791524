package model

import (
	"errors"
	"fmt"
	"math/rand"
	"testing"
)

func TestShape(t *testing.T) {
	tests := []struct {
		shape               Shape
		rows, rowSize, size int
		sig                 string
	}{
		{Shape{}, 1, 1, 1, "scalar"},
		{Shape{5}, 5, 1, 5, "5"},
		{Shape{3, 4}, 3, 4, 12, "3x4"},
		{Shape{2, 3, 4}, 2, 12, 24, "2x3x4"},
	}

	for _, tt := range tests {
		t.Run(tt.sig, func(t *testing.T) {
			if got := tt.shape.Rows(); got != tt.rows {
				t.Errorf("rows = %d, want %d", got, tt.rows)
			}
			if got := tt.shape.RowSize(); got != tt.rowSize {
				t.Errorf("row size = %d, want %d", got, tt.rowSize)
			}
			if got := tt.shape.Size(); got != tt.size {
				t.Errorf("size = %d, want %d", got, tt.size)
			}
			if got := tt.shape.Signature(); got != tt.sig {
				t.Errorf("signature = %q, want %q", got, tt.sig)
			}
		})
	}
}

func TestSignalIdentityIsPointer(t *testing.T) {
	a := NewSignal("x", Shape{2})
	b := NewSignal("x", Shape{2})
	set := map[*Signal]bool{a: true}
	if set[b] {
		t.Error("signals with equal names must remain distinct state")
	}
}

func TestNewModelInstallsTime(t *testing.T) {
	m := New(0.001)
	if m.Time == nil || len(m.Time.Shape) != 0 {
		t.Fatalf("time must be a scalar signal, got %v", m.Time)
	}
	if len(m.Operators) != 1 || m.Operators[0].Kind != KindTimeUpdate {
		t.Errorf("expected a single time update operator, got %v", m.Operators)
	}
}

func TestAddOperatorAssignsIndices(t *testing.T) {
	m := New(0.001)
	a := m.AddOperator(Reset(NewSignal("a", Shape{1}), 0))
	b := m.AddOperator(Reset(NewSignal("b", Shape{1}), 0))
	if a.Index() >= b.Index() {
		t.Errorf("declaration order not preserved: %d, %d", a.Index(), b.Index())
	}
}

func TestOperatorAccessSets(t *testing.T) {
	src := NewSignal("src", Shape{2})
	dst := NewSignal("dst", Shape{2})
	w := NewTrainable("w", Shape{2, 2}, make([]float64, 4))
	y := NewSignal("y", Shape{2})

	tests := []struct {
		name                      string
		op                        *Operator
		reads, writes, sets, incs int
	}{
		{"reset", Reset(dst, 1.5), 0, 0, 1, 0},
		{"copy", Copy(src, dst), 1, 1, 0, 0},
		{"dot_inc", DotInc(w, src, y), 2, 0, 0, 1},
		{"func", Func(func(float64, []float64, *rand.Rand) []float64 {
			return nil
		}, []*Signal{src}, dst), 1, 1, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.op.Reads) != tt.reads || len(tt.op.Writes) != tt.writes ||
				len(tt.op.Sets) != tt.sets || len(tt.op.Incs) != tt.incs {
				t.Errorf("access sets r=%d w=%d s=%d i=%d, want r=%d w=%d s=%d i=%d",
					len(tt.op.Reads), len(tt.op.Writes), len(tt.op.Sets), len(tt.op.Incs),
					tt.reads, tt.writes, tt.sets, tt.incs)
			}
		})
	}
}

func TestShapeSignatureBucketsCompatibleOps(t *testing.T) {
	a, b := NewSignal("a", Shape{3}), NewSignal("b", Shape{3})
	c, d := NewSignal("c", Shape{3}), NewSignal("d", Shape{4})

	if Copy(a, b).ShapeSignature() != Copy(b, c).ShapeSignature() {
		t.Error("same-shape copies must share a signature")
	}
	if Copy(a, b).ShapeSignature() == Copy(a, d).ShapeSignature() {
		t.Error("different output shapes must not share a signature")
	}
	if Copy(a, b).ShapeSignature() == Reset(b, 0).ShapeSignature() {
		t.Error("signatures must distinguish access roles")
	}
}

func TestCompileErrorUnwraps(t *testing.T) {
	err := &CompileError{Stage: "planner", Wrapped: fmt.Errorf("x: %w", ErrDependencyCycle)}
	if !errors.Is(err, ErrDependencyCycle) {
		t.Error("compile errors must unwrap to their sentinel")
	}
	if err.Error() != "planner: x: "+ErrDependencyCycle.Error() {
		t.Errorf("unexpected message: %s", err.Error())
	}
}

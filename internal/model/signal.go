package model

import (
	"fmt"
	"strings"
)

// Shape describes the extent of a signal. An empty shape is a scalar.
// The first dimension is the concatenation axis when signals are packed
// into shared base buffers; the trailing dimensions form the row shape.
type Shape []int

// Rows returns the extent along the concatenation axis.
func (s Shape) Rows() int {
	if len(s) == 0 {
		return 1
	}
	return s[0]
}

// RowSize returns the number of elements in one row.
func (s Shape) RowSize() int {
	size := 1
	for _, d := range s[min(1, len(s)):] {
		size *= d
	}
	return size
}

// Size returns the total number of elements.
func (s Shape) Size() int {
	return s.Rows() * s.RowSize()
}

// Row returns the trailing dimensions (the shape of one row).
func (s Shape) Row() Shape {
	if len(s) <= 1 {
		return Shape{}
	}
	return s[1:]
}

// Signature returns a stable string form used to bucket compatible shapes.
func (s Shape) Signature() string {
	if len(s) == 0 {
		return "scalar"
	}
	parts := make([]string, len(s))
	for i, d := range s {
		parts[i] = fmt.Sprintf("%d", d)
	}
	return strings.Join(parts, "x")
}

// DType identifies the element type requested for backend storage.
type DType int

const (
	Float64 DType = iota
	Float32
)

func (d DType) String() string {
	switch d {
	case Float32:
		return "float32"
	default:
		return "float64"
	}
}

// Signal is a named logical region of simulation state. Identity is the
// pointer; two signals with the same name are still distinct state.
type Signal struct {
	Name      string
	Shape     Shape
	Trainable bool

	// Init holds the initial value (length Shape.Size()), or nil for zeros.
	Init []float64
}

// NewSignal creates an untrainable signal initialized to zero.
func NewSignal(name string, shape Shape) *Signal {
	return &Signal{Name: name, Shape: shape}
}

// NewTrainable creates a trainable signal with the given initial value.
// Trainable signals persist as addressable storage across builds and may be
// overwritten by an external optimization collaborator between runs.
func NewTrainable(name string, shape Shape, init []float64) *Signal {
	return &Signal{Name: name, Shape: shape, Trainable: true, Init: init}
}

func (s *Signal) String() string {
	return fmt.Sprintf("Signal<%s %s>", s.Name, s.Shape.Signature())
}

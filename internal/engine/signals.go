package engine

import (
	"fmt"

	"github.com/san-kum/simgraph/internal/compute"
	"github.com/san-kum/simgraph/internal/layout"
	"github.com/san-kum/simgraph/internal/model"
)

// Values holds the loop-carried mutable contents of the base buffers, plus
// the step counter and derived time. Ownership is value-to-value across
// iterations: exactly one writer per signal per step, no aliased concurrent
// mutation.
type Values struct {
	// Data maps each base buffer to its storage. Trainable buffers hold one
	// copy (shared across the batch); ordinary state holds batch copies,
	// batch-major.
	Data map[layout.BufferKey][]float64

	// Step counts completed plus in-progress steps, 1-indexed at the point
	// operators observe "current time".
	Step int64

	// Time is Step times dt.
	Time float64
}

// Table gives builders read/write access to signal values through their
// views. It is bound once per compiled graph and never mutated.
type Table struct {
	Layout  *layout.Layout
	Batch   int
	Dt      float64
	Backend compute.Backend
}

// View resolves a signal to its view descriptor.
func (t *Table) View(s *model.Signal) (layout.View, error) {
	v, ok := t.Layout.Views[s]
	if !ok {
		return layout.View{}, fmt.Errorf("simgraph: signal %q has no view", s.Name)
	}
	return v, nil
}

// Slice returns an aliasing slice over batch copy b of the signal's storage.
// Trainable signals have a single copy shared across the batch; b is ignored.
func (t *Table) Slice(vals *Values, s *model.Signal, b int) []float64 {
	v := t.Layout.Views[s]
	data := vals.Data[v.Key]
	if v.Key.Trainable {
		return data[v.Offset : v.Offset+v.Size()]
	}
	stride := t.Layout.Buffers[v.Key].Size()
	off := b*stride + v.Offset
	return data[off : off+v.Size()]
}

// Gather returns a forced copy of the signal's current value: batch*size
// elements for ordinary state, size elements for trainable state. The copy
// guarantees the value survives the next step's writes to the same storage.
func (t *Table) Gather(vals *Values, s *model.Signal) []float64 {
	v := t.Layout.Views[s]
	if v.Key.Trainable {
		out := make([]float64, v.Size())
		t.Backend.Copy(out, t.Slice(vals, s, 0))
		return out
	}
	out := make([]float64, t.Batch*v.Size())
	for b := 0; b < t.Batch; b++ {
		t.Backend.Copy(out[b*v.Size():(b+1)*v.Size()], t.Slice(vals, s, b))
	}
	return out
}

// Raw returns an aliasing slice over batch copy b of an entire base buffer.
// Builders use it to act on merged contiguous runs of views.
func (t *Table) Raw(vals *Values, key layout.BufferKey, b int) []float64 {
	data := vals.Data[key]
	size := t.Layout.Buffers[key].Size()
	if key.Trainable {
		return data
	}
	return data[b*size : (b+1)*size]
}

// Scatter writes src into the signal's storage. A src of view size
// broadcasts across the batch; a src of batch*size scatters per copy.
// With inc set, values accumulate instead of overwriting.
func (t *Table) Scatter(vals *Values, s *model.Signal, src []float64, inc bool) error {
	v := t.Layout.Views[s]
	size := v.Size()
	broadcast := len(src) == size
	if !broadcast && len(src) != t.Batch*size {
		return fmt.Errorf("simgraph: scatter into %q: got %d elements, want %d or %d",
			s.Name, len(src), size, t.Batch*size)
	}

	copies := t.Batch
	if v.Key.Trainable {
		copies = 1
	}
	for b := 0; b < copies; b++ {
		row := src
		if !broadcast {
			row = src[b*size : (b+1)*size]
		}
		dst := t.Slice(vals, s, b)
		if inc {
			t.Backend.Axpy(1, row, dst)
		} else {
			t.Backend.Copy(dst, row)
		}
	}
	return nil
}

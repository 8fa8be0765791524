package layout

import (
	"fmt"

	"github.com/san-kum/simgraph/internal/model"
)

// BufferKey identifies a base buffer: element type, row shape signature, and
// mutability class. Trainable buffers persist as addressable named storage
// across builds; ordinary simulation state is transient and re-initialized
// at each fresh build.
type BufferKey struct {
	DType     model.DType
	RowSig    string
	Trainable bool
}

func (k BufferKey) String() string {
	class := "state"
	if k.Trainable {
		class = "trainable"
	}
	row := k.RowSig
	if row == "" {
		row = "1"
	}
	return fmt.Sprintf("%s_%s_%s", k.DType, row, class)
}

// View locates one signal inside a base buffer: an element offset into one
// batch copy plus the signal's own shape. A view's extent never exceeds its
// buffer's extent.
type View struct {
	Key    BufferKey
	Offset int
	Shape  model.Shape
}

// Size returns the view extent in elements.
func (v View) Size() int { return v.Shape.Size() }

// Buffer is one shared physical storage region. Signals mapped to the same
// key are concatenated along the first axis in optimized order.
type Buffer struct {
	Key     BufferKey
	Rows    int
	RowSize int

	// Init is the unbatched initial content, Rows*RowSize elements.
	Init []float64
}

// Size returns the unbatched element count.
func (b *Buffer) Size() int { return b.Rows * b.RowSize }

// Layout is the sole source of truth mapping Signal to View. It owns the
// buffer initial-content table for the lifetime of one compiled graph.
type Layout struct {
	Buffers map[BufferKey]*Buffer
	Views   map[*model.Signal]View

	// Keys lists buffer keys in first-allocation order for deterministic
	// iteration.
	Keys []BufferKey
}

// Allocate packs the ordered signals into base buffers. Every signal resolves
// to exactly one view or allocation fails: a shape or initial-value
// contradiction is a programming error in the upstream model.
func Allocate(sigs []*model.Signal, dtype model.DType) (*Layout, error) {
	l := &Layout{
		Buffers: make(map[BufferKey]*Buffer),
		Views:   make(map[*model.Signal]View),
	}

	for _, s := range sigs {
		if s.Shape.Size() <= 0 {
			return nil, allocErr("signal %q has empty shape %v", s.Name, s.Shape)
		}
		if s.Init != nil && len(s.Init) != s.Shape.Size() {
			return nil, allocErr("signal %q: initial value has %d elements, shape %s needs %d",
				s.Name, len(s.Init), s.Shape.Signature(), s.Shape.Size())
		}
		if _, dup := l.Views[s]; dup {
			return nil, allocErr("signal %q allocated twice", s.Name)
		}

		key := BufferKey{DType: dtype, RowSig: s.Shape.Row().Signature(), Trainable: s.Trainable}
		buf, ok := l.Buffers[key]
		if !ok {
			buf = &Buffer{Key: key, RowSize: s.Shape.RowSize()}
			l.Buffers[key] = buf
			l.Keys = append(l.Keys, key)
		}
		if buf.RowSize != s.Shape.RowSize() {
			return nil, allocErr("signal %q: row size %d incompatible with buffer %s row size %d",
				s.Name, s.Shape.RowSize(), key, buf.RowSize)
		}

		offset := buf.Size()
		buf.Rows += s.Shape.Rows()
		buf.Init = append(buf.Init, make([]float64, s.Shape.Size())...)
		if s.Init != nil {
			copy(buf.Init[offset:], s.Init)
		}

		l.Views[s] = View{Key: key, Offset: offset, Shape: s.Shape}
	}

	return l, nil
}

func allocErr(format string, args ...any) error {
	return &model.CompileError{
		Stage:   "allocator",
		Wrapped: fmt.Errorf("%w: %s", model.ErrAllocation, fmt.Sprintf(format, args...)),
	}
}

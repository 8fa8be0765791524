package model

import (
	"fmt"
	"math/rand"
	"strings"
)

// Kind tags the numeric behavior an operator performs. The engine dispatches
// on the kind through an explicit builder registry, never by inspecting the
// operator itself.
type Kind int

const (
	// KindTimeUpdate advances the time signal. It is handled directly by the
	// simulation loop and never appears in a plan.
	KindTimeUpdate Kind = iota

	// KindReset initializes its target signals to a constant each step.
	KindReset

	// KindCopy overwrites a destination signal with a source signal.
	KindCopy

	// KindDotInc increments a destination with a matrix-vector product.
	KindDotInc

	// KindFunc evaluates a user step function and writes its output. Func
	// operators are side-effecting: they must run every step even if their
	// output is never read.
	KindFunc
)

func (k Kind) String() string {
	switch k {
	case KindTimeUpdate:
		return "time_update"
	case KindReset:
		return "reset"
	case KindCopy:
		return "copy"
	case KindDotInc:
		return "dot_inc"
	case KindFunc:
		return "func"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// StepFunc is the payload of a KindFunc operator. It receives the current
// simulation time (1-indexed step times dt), the concatenated values of the
// operator's read signals (nil for a zero-input source) and a per-operator
// random source, and returns one output row per call.
type StepFunc func(t float64, x []float64, rng *rand.Rand) []float64

// Operator is a computation node. It declares the signals it reads, writes
// (overwrites), sets (initializes) and increments. Dependency edges are
// derived implicitly: B depends on A if B reads or increments a signal that
// A writes or sets.
type Operator struct {
	Kind   Kind
	Reads  []*Signal
	Writes []*Signal
	Sets   []*Signal
	Incs   []*Signal

	// Value is the constant written by KindReset.
	Value float64

	// Fn is the step function of a KindFunc operator.
	Fn StepFunc

	// index records declaration order for deterministic plan tie-breaking.
	index int
}

// Index returns the operator's declaration order within its model.
func (op *Operator) Index() int { return op.index }

// All returns every signal the operator touches, reads first.
func (op *Operator) All() []*Signal {
	out := make([]*Signal, 0, len(op.Reads)+len(op.Writes)+len(op.Sets)+len(op.Incs))
	out = append(out, op.Reads...)
	out = append(out, op.Sets...)
	out = append(out, op.Incs...)
	out = append(out, op.Writes...)
	return out
}

// ShapeSignature returns a stable key describing the shapes the operator
// touches. Two operators of the same kind with equal signatures are
// structurally compatible and may share a merge group.
func (op *Operator) ShapeSignature() string {
	var b strings.Builder
	section := func(tag string, sigs []*Signal) {
		b.WriteString(tag)
		for _, s := range sigs {
			b.WriteByte(':')
			b.WriteString(s.Shape.Signature())
		}
		b.WriteByte(';')
	}
	section("r", op.Reads)
	section("s", op.Sets)
	section("i", op.Incs)
	section("w", op.Writes)
	return b.String()
}

func (op *Operator) String() string {
	return fmt.Sprintf("Operator<%s #%d>", op.Kind, op.index)
}

// TimeUpdate creates the operator that advances the time signal.
func TimeUpdate(time *Signal) *Operator {
	return &Operator{Kind: KindTimeUpdate, Writes: []*Signal{time}}
}

// Reset creates an operator that sets dst to a constant at every step.
func Reset(dst *Signal, value float64) *Operator {
	return &Operator{Kind: KindReset, Sets: []*Signal{dst}, Value: value}
}

// Copy creates an operator that overwrites dst with src.
func Copy(src, dst *Signal) *Operator {
	return &Operator{Kind: KindCopy, Reads: []*Signal{src}, Writes: []*Signal{dst}}
}

// DotInc creates an operator computing y += W·x. W is typically trainable.
func DotInc(w, x, y *Signal) *Operator {
	return &Operator{Kind: KindDotInc, Reads: []*Signal{w, x}, Incs: []*Signal{y}}
}

// Func creates an operator evaluating fn each step and writing its output.
// A Func with an empty read set is a candidate zero-input source.
func Func(fn StepFunc, reads []*Signal, out *Signal) *Operator {
	return &Operator{Kind: KindFunc, Fn: fn, Reads: reads, Writes: []*Signal{out}}
}

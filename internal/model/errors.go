package model

import "errors"

// Domain errors for compilation and simulation. Every error here indicates a
// construction-time contract violation by the caller or upstream model, so
// propagation is immediate; there is no retry layer.
var (
	// ErrDependencyCycle indicates a cycle between signal writers, which has
	// no valid plan.
	ErrDependencyCycle = errors.New("simgraph: dependency cycle between operators")

	// ErrAllocation indicates a signal cannot be placed into any compatible
	// base buffer.
	ErrAllocation = errors.New("simgraph: signal cannot be placed into a compatible base buffer")

	// ErrLookup indicates adjustable buffers were requested with reuse
	// before they were created.
	ErrLookup = errors.New("simgraph: adjustable buffers requested with reuse before creation")

	// ErrUnknownKind indicates no builder is registered for an operator kind.
	ErrUnknownKind = errors.New("simgraph: no builder registered for operator kind")

	// ErrStepBounds indicates a run request beyond the unrolled replica count.
	ErrStepBounds = errors.New("simgraph: step count exceeds unrolled replica count")
)

// CompileError wraps an error with the pipeline stage it occurred in.
type CompileError struct {
	Stage   string
	Wrapped error
}

func (e *CompileError) Error() string {
	return e.Stage + ": " + e.Wrapped.Error()
}

func (e *CompileError) Unwrap() error {
	return e.Wrapped
}

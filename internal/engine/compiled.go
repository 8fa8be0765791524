package engine

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/simgraph/internal/compute"
	"github.com/san-kum/simgraph/internal/layout"
	"github.com/san-kum/simgraph/internal/model"
	"github.com/san-kum/simgraph/internal/plan"
)

// BuildResult is what a kind builder emits for one merge group and one
// simulated step (or one unrolled replica): the batched step computation,
// and whether it has side effects that must be ordered before the iteration
// advance even when its output is unread.
type BuildResult struct {
	Step       Computation
	SideEffect bool
}

// KindBuilder is the per-kind builder capability: a one-time pre-build phase
// for setup independent of the timestep, and a per-step build phase emitting
// computation against the signal views.
type KindBuilder interface {
	PreBuild(g *plan.Group, t *Table, rng *rand.Rand) error
	Build(g *plan.Group, t *Table) (BuildResult, error)
}

// BuilderFactory creates a fresh builder instance; each merge group of a
// compiled graph gets its own, so pre-built state never bleeds across groups
// or graphs.
type BuilderFactory func() KindBuilder

// Registry resolves operator kinds to builder factories. Dispatch is always
// through this table, never by inspecting operator internals.
type Registry interface {
	Lookup(k model.Kind) (BuilderFactory, bool)
}

// Options configures compilation.
type Options struct {
	// StepBlocks is the number of timesteps the loop is compiled for.
	// Zero means an unbounded repeated construct; required when unrolling.
	StepBlocks int

	// Unroll statically replicates the step computation StepBlocks times,
	// trading compile time and program size for execution speed.
	Unroll bool

	// BatchSize is the number of simultaneous simulations. Defaults to 1.
	BatchSize int

	// DType is the requested element type for backend storage.
	DType model.DType

	// Seed drives builder randomness; equal seeds give identical builds.
	Seed int64

	// Backend names the compute backend ("cpu", "parallel", "" = auto).
	Backend string

	// Passes overrides the layout optimizer pass count. Zero means default.
	Passes int
}

// CompiledGraph is the immutable product of compilation: the plan, the
// signal layout, and everything needed to build simulation instances.
// Mutable loop-carried state lives in Simulation, never here. The one
// exception is the adjustable-buffer table, which by contract persists as
// addressable named storage across builds.
type CompiledGraph struct {
	Model  *model.Model
	Plan   plan.Plan
	Layout *layout.Layout
	Opts   Options

	registry Registry
	backend  compute.Backend
	table    *Table

	// adjustable holds the trainable base buffers, created on first use and
	// shared by every simulation built from this graph.
	adjustable map[layout.BufferKey][]float64
}

// Compile runs the full pipeline: dependency filter, greedy planner, signal
// layout optimizer, buffer allocator. It fails fatally on a dependency cycle
// or an unsatisfiable allocation, and up front when a group's kind has no
// registered builder.
func Compile(m *model.Model, reg Registry, opts Options) (*CompiledGraph, error) {
	if opts.BatchSize <= 0 {
		opts.BatchSize = 1
	}
	if opts.Unroll && opts.StepBlocks <= 0 {
		return nil, fmt.Errorf("simgraph: unroll requires a positive step block count")
	}
	if m.Dt <= 0 {
		return nil, fmt.Errorf("simgraph: model dt must be positive, got %f", m.Dt)
	}

	ops := plan.Filter(m)
	p, err := plan.Greedy(ops)
	if err != nil {
		return nil, err
	}

	for _, g := range p {
		if _, ok := reg.Lookup(g.Kind); !ok {
			return nil, &model.CompileError{
				Stage:   "compile",
				Wrapped: fmt.Errorf("%w: %s", model.ErrUnknownKind, g.Kind),
			}
		}
	}

	sigs := layout.OrderSignals(p, m.Signals, opts.Passes)
	lay, err := layout.Allocate(sigs, opts.DType)
	if err != nil {
		return nil, err
	}

	backend, err := compute.Select(opts.Backend)
	if err != nil {
		return nil, err
	}

	g := &CompiledGraph{
		Model:    m,
		Plan:     p,
		Layout:   lay,
		Opts:     opts,
		registry: reg,
		backend:  backend,
	}
	g.table = &Table{Layout: lay, Batch: opts.BatchSize, Dt: m.Dt, Backend: backend}
	return g, nil
}

// Table exposes the bound signal-view table.
func (g *CompiledGraph) Table() *Table { return g.table }

// AdjustableBuffers returns the trainable base buffers as addressable
// storage, keyed by buffer key, for an external training collaborator to
// read or overwrite between runs. With reuse set, it resolves to the exact
// handles of a prior non-reuse call, or fails with ErrLookup if none exists.
func (g *CompiledGraph) AdjustableBuffers(reuse bool) (map[layout.BufferKey][]float64, error) {
	if reuse {
		if g.adjustable == nil {
			return nil, model.ErrLookup
		}
		return g.adjustable, nil
	}

	g.adjustable = make(map[layout.BufferKey][]float64)
	for _, key := range g.Layout.Keys {
		if !key.Trainable {
			continue
		}
		buf := g.Layout.Buffers[key]
		data := make([]float64, buf.Size())
		copy(data, buf.Init)
		g.adjustable[key] = data
	}
	return g.adjustable, nil
}

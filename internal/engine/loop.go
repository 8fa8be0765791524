package engine

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/san-kum/simgraph/internal/layout"
	"github.com/san-kum/simgraph/internal/model"
)

// LoopState tracks the simulation loop lifecycle.
type LoopState int

const (
	// Building: the loop representation is constructed, nothing has run.
	Building LoopState = iota
	// Running: the loop is being driven forward against loop-carried state.
	Running
	// Complete: terminal; all unrolled replicas have been consumed.
	Complete
)

func (s LoopState) String() string {
	switch s {
	case Building:
		return "building"
	case Running:
		return "running"
	case Complete:
		return "complete"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Result is what one Run call produces: per-step probe captures and the
// updated loop-carried buffer state.
type Result struct {
	Steps int

	// Probes holds, per observation point, one captured value per step.
	Probes [][][]float64

	// Buffers is the live buffer state after the run.
	Buffers map[layout.BufferKey][]float64

	Elapsed time.Duration
}

// Simulation owns the loop-carried mutable handles (buffer contents, step
// counter, probe buffers) for the duration of one simulation instance.
type Simulation struct {
	graph  *CompiledGraph
	vals   *Values
	rng    *rand.Rand
	builds []groupBuild
	prog   *Program
	state  LoopState

	// replicaStarts bounds each unrolled replica's node range;
	// len(replicaStarts) == StepBlocks+1. Nil for the bounded loop.
	replicaStarts []NodeID

	// consumed counts unrolled replicas already executed.
	consumed int
}

// NewSimulation builds a fresh simulation instance: transient buffers are
// re-initialized, trainable buffers bind to the graph's persistent
// adjustable storage, every group is pre-built once, and the step program is
// assembled (one replica per step block when unrolling, a single reusable
// iteration otherwise).
func (g *CompiledGraph) NewSimulation() (*Simulation, error) {
	adj, err := g.AdjustableBuffers(g.adjustable != nil)
	if err != nil {
		return nil, err
	}

	vals := &Values{Data: make(map[layout.BufferKey][]float64, len(g.Layout.Keys))}
	for _, key := range g.Layout.Keys {
		if key.Trainable {
			vals.Data[key] = adj[key]
			continue
		}
		buf := g.Layout.Buffers[key]
		data := make([]float64, g.Opts.BatchSize*buf.Size())
		for b := 0; b < g.Opts.BatchSize; b++ {
			copy(data[b*buf.Size():], buf.Init)
		}
		vals.Data[key] = data
	}

	sim := &Simulation{
		graph: g,
		vals:  vals,
		rng:   rand.New(rand.NewSource(g.Opts.Seed)),
		state: Building,
	}

	// Pre-build phase: once per compiled graph, per group, in plan order.
	for _, grp := range g.Plan {
		factory, ok := g.registry.Lookup(grp.Kind)
		if !ok {
			return nil, &model.CompileError{
				Stage:   "build",
				Wrapped: fmt.Errorf("%w: %s", model.ErrUnknownKind, grp.Kind),
			}
		}
		b := factory()
		if err := b.PreBuild(grp, g.table, sim.rng); err != nil {
			return nil, fmt.Errorf("simgraph: pre-build %s: %w", grp, err)
		}
		sim.builds = append(sim.builds, groupBuild{group: grp, builder: b})
	}

	prog := &Program{}
	if g.Opts.Unroll {
		sim.replicaStarts = make([]NodeID, 0, g.Opts.StepBlocks+1)
		prev := NodeID(-1)
		for n := 0; n < g.Opts.StepBlocks; n++ {
			sim.replicaStarts = append(sim.replicaStarts, NodeID(prog.Len()))
			prev, err = sim.buildIteration(prog, prev)
			if err != nil {
				return nil, err
			}
		}
		sim.replicaStarts = append(sim.replicaStarts, NodeID(prog.Len()))
	} else {
		if _, err := sim.buildIteration(prog, -1); err != nil {
			return nil, err
		}
	}
	sim.prog = prog
	return sim, nil
}

// State reports the loop lifecycle state.
func (sim *Simulation) State() LoopState { return sim.state }

// Step returns the number of completed timesteps.
func (sim *Simulation) Step() int64 { return sim.vals.Step }

// Values exposes the loop-carried buffer state.
func (sim *Simulation) Values() *Values { return sim.vals }

// Run advances the loop by the given number of steps and returns the probe
// captures for exactly those steps. For an unrolled loop the total steps
// across all Run calls must not exceed the compiled replica count.
func (sim *Simulation) Run(steps int) (*Result, error) {
	if steps <= 0 {
		return nil, fmt.Errorf("simgraph: steps must be positive, got %d", steps)
	}
	if sim.state == Complete {
		return nil, model.ErrStepBounds
	}

	g := sim.graph
	ex := &Exec{
		Values:    sim.vals,
		feeds:     sim.precomputeFeeds(steps),
		probeRows: make([][][]float64, len(g.Model.Probes)),
	}

	start := time.Now()
	sim.state = Running

	if g.Opts.Unroll {
		if sim.consumed+steps > g.Opts.StepBlocks {
			return nil, model.ErrStepBounds
		}
		lo := sim.replicaStarts[sim.consumed]
		hi := sim.replicaStarts[sim.consumed+steps]
		if err := sim.prog.ExecuteRange(ex, lo, hi); err != nil {
			return nil, err
		}
		sim.consumed += steps
		if sim.consumed == g.Opts.StepBlocks {
			sim.state = Complete
		}
	} else {
		// The bounded repeated construct: re-execute the same compiled step
		// computation until the externally supplied stop counter is reached.
		stop := sim.vals.Step + int64(steps)
		for sim.vals.Step < stop {
			if err := sim.prog.Execute(ex); err != nil {
				return nil, err
			}
		}
	}

	return &Result{
		Steps:   steps,
		Probes:  ex.probeRows,
		Buffers: sim.vals.Data,
		Elapsed: time.Since(start),
	}, nil
}

// precomputeFeeds evaluates every hoisted zero-input source for the steps
// about to run. Step counters are 1-indexed at the point operators observe
// time, so row j of a feed is the source value at (current+j+1)*dt.
func (sim *Simulation) precomputeFeeds(steps int) [][][]float64 {
	m := sim.graph.Model
	feeds := make([][][]float64, len(m.Sources))
	for i, src := range m.Sources {
		rows := make([][]float64, steps)
		for j := 0; j < steps; j++ {
			t := float64(sim.vals.Step+int64(j)+1) * m.Dt
			rows[j] = src.Fn(t, nil, sim.rng)
		}
		feeds[i] = rows
	}
	return feeds
}

package engine

import (
	"fmt"

	"github.com/san-kum/simgraph/internal/plan"
)

// groupBuild pairs a merge group with its instantiated, pre-built builder.
type groupBuild struct {
	group   *plan.Group
	builder KindBuilder
}

// buildIteration appends the computation for one timestep to the program and
// returns the iteration's advance node. The node layout per iteration:
//
//	step      increment the step counter, scatter time (after prev advance)
//	feed      scatter precomputed source input for this iteration
//	groups    one node per merge group, chained in plan order
//	probes    forced-copy reads of each observed signal
//	advance   pure ordering node, after side effects and probe reads
//
// The advance edge is what keeps step k+1's writes ordered after step k's
// side effects and probe reads.
func (sim *Simulation) buildIteration(prog *Program, prev NodeID) (NodeID, error) {
	t := sim.graph.table
	m := sim.graph.Model

	var root []NodeID
	if prev >= 0 {
		root = []NodeID{prev}
	}

	stepNode := prog.Add("step", root, func(ex *Exec) error {
		ex.Values.Step++
		ex.Values.Time = float64(ex.Values.Step) * t.Dt
		return t.Scatter(ex.Values, m.Time, []float64{ex.Values.Time}, false)
	})

	last := stepNode
	for i, src := range m.Sources {
		i := i
		out := src.Writes[0]
		last = prog.Add(fmt.Sprintf("feed:%s", out.Name), []NodeID{last}, func(ex *Exec) error {
			return t.Scatter(ex.Values, out, ex.feeds[i][ex.Row], false)
		})
	}

	// Build phase: one batched node per merge group, in plan order. Within a
	// step, a signal read by a later group reflects all earlier writes.
	var sideEffects []NodeID
	for _, gb := range sim.builds {
		res, err := gb.builder.Build(gb.group, t)
		if err != nil {
			return 0, fmt.Errorf("simgraph: build %s: %w", gb.group, err)
		}
		last = prog.Add(gb.group.String(), []NodeID{last}, res.Step)
		if res.SideEffect {
			sideEffects = append(sideEffects, last)
		}
	}

	// Probe reads come after all groups and gather forced copies, so the
	// captured value is the post-step value and cannot be overwritten by the
	// next iteration before it is consumed.
	probeNodes := make([]NodeID, len(m.Probes))
	for pi, p := range m.Probes {
		pi, p := pi, p
		probeNodes[pi] = prog.Add(fmt.Sprintf("probe:%s", p.Name), []NodeID{last}, func(ex *Exec) error {
			ex.probeRows[pi] = append(ex.probeRows[pi], t.Gather(ex.Values, p.Target))
			return nil
		})
	}

	gate := append(append([]NodeID{last}, sideEffects...), probeNodes...)
	advance := prog.Add("advance", gate, func(ex *Exec) error {
		ex.Row++
		return nil
	})
	return advance, nil
}

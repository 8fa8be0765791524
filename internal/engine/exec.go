package engine

import (
	"fmt"
	"sort"
)

// Exec is the run-local execution state threaded through the step program:
// the buffer values, the iteration index within the current run, the
// precomputed source input rows, and the probe rows captured so far.
type Exec struct {
	Values *Values

	// Row is the iteration index within the current Run call.
	Row int

	// feeds holds precomputed zero-input source data, one row per iteration.
	feeds [][][]float64

	// probeRows accumulates captured probe values, one slice per probe.
	probeRows [][][]float64
}

// Computation is one unit of emitted step work.
type Computation func(*Exec) error

// NodeID names a node of the emitted step program.
type NodeID int

type execNode struct {
	id    NodeID
	label string
	after []NodeID
	run   Computation
}

// Program is the emitted representation of one or more timesteps: nodes of
// computation with explicit happens-before edges. Ordering is declarative;
// the executor may run nodes in any order satisfying the edges, and does so
// deterministically.
type Program struct {
	nodes []*execNode
}

// Add appends a node that must run after the given nodes. It returns the new
// node's id for use in later edges. A nil run is a pure ordering node.
func (p *Program) Add(label string, after []NodeID, run Computation) NodeID {
	id := NodeID(len(p.nodes))
	p.nodes = append(p.nodes, &execNode{
		id:    id,
		label: label,
		after: append([]NodeID(nil), after...),
		run:   run,
	})
	return id
}

// Len returns the number of nodes.
func (p *Program) Len() int { return len(p.nodes) }

// Execute runs every node once, in an order satisfying the happens-before
// edges, lowest id first among ready nodes. An unsatisfiable edge set is a
// construction bug and fails immediately.
func (p *Program) Execute(ex *Exec) error {
	return p.ExecuteRange(ex, 0, NodeID(len(p.nodes)))
}

// ExecuteRange runs the nodes with lo <= id < hi. Edges pointing before lo
// are treated as already satisfied; this is how a partially-consumed
// unrolled loop replays only its remaining replicas.
func (p *Program) ExecuteRange(ex *Exec, lo, hi NodeID) error {
	if lo < 0 || hi > NodeID(len(p.nodes)) || lo > hi {
		return fmt.Errorf("simgraph: node range [%d,%d) out of bounds", lo, hi)
	}

	indegree := make(map[NodeID]int)
	dependents := make(map[NodeID][]NodeID)
	var ready []NodeID
	for _, n := range p.nodes[lo:hi] {
		deg := 0
		for _, a := range n.after {
			if a >= lo && a < hi {
				deg++
				dependents[a] = append(dependents[a], n.id)
			}
		}
		indegree[n.id] = deg
		if deg == 0 {
			ready = append(ready, n.id)
		}
	}

	done := 0
	for len(ready) > 0 {
		sort.Slice(ready, func(i, j int) bool { return ready[i] < ready[j] })
		id := ready[0]
		ready = ready[1:]

		n := p.nodes[id]
		if n.run != nil {
			if err := n.run(ex); err != nil {
				return fmt.Errorf("simgraph: node %q: %w", n.label, err)
			}
		}
		done++

		for _, dep := range dependents[id] {
			indegree[dep]--
			if indegree[dep] == 0 {
				ready = append(ready, dep)
			}
		}
	}

	if done != int(hi-lo) {
		return fmt.Errorf("simgraph: step program has unsatisfiable ordering edges (%d of %d nodes ran)",
			done, hi-lo)
	}
	return nil
}

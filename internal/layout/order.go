package layout

import (
	"github.com/san-kum/simgraph/internal/model"
	"github.com/san-kum/simgraph/internal/plan"
)

// DefaultPasses bounds the layout improvement loop. The optimizer converges
// to a local optimum; more passes buy little beyond this.
const DefaultPasses = 10

// OrderSignals produces a total order over the signals referenced by the
// plan, placing signals accessed by the same group in runs that are as
// contiguous as possible. It runs a bounded number of improvement passes:
// each pass walks the groups in plan order and pulls a group's signals
// together whenever doing so raises the global contiguity score. Signals the
// plan never touches keep their relative order at the tail.
func OrderSignals(p plan.Plan, all []*model.Signal, passes int) []*model.Signal {
	if passes <= 0 {
		passes = DefaultPasses
	}

	order := initialOrder(p, all)
	access := make([][]*model.Signal, len(p))
	for i, g := range p {
		access[i] = g.Signals()
	}

	for pass := 0; pass < passes; pass++ {
		improved := false
		for _, sigs := range access {
			if len(sigs) < 2 {
				continue
			}
			candidate := pullTogether(order, sigs)
			if score(candidate, access) > score(order, access) {
				order = candidate
				improved = true
			}
		}
		if !improved {
			break
		}
	}
	return order
}

// initialOrder lists plan-referenced signals in first-access order, then
// appends the remaining model signals in declaration order.
func initialOrder(p plan.Plan, all []*model.Signal) []*model.Signal {
	seen := make(map[*model.Signal]bool)
	var order []*model.Signal
	for _, g := range p {
		for _, s := range g.Signals() {
			if !seen[s] {
				seen[s] = true
				order = append(order, s)
			}
		}
	}
	for _, s := range all {
		if !seen[s] {
			seen[s] = true
			order = append(order, s)
		}
	}
	return order
}

// pullTogether moves the given signals into one run starting at the earliest
// position any of them currently occupies, preserving relative order among
// both the moved and unmoved signals.
func pullTogether(order []*model.Signal, sigs []*model.Signal) []*model.Signal {
	member := make(map[*model.Signal]bool, len(sigs))
	for _, s := range sigs {
		member[s] = true
	}

	first := -1
	var moved, rest []*model.Signal
	for i, s := range order {
		if member[s] {
			if first < 0 {
				first = i
			}
			moved = append(moved, s)
		} else {
			rest = append(rest, s)
		}
	}
	if first < 0 {
		return order
	}

	out := make([]*model.Signal, 0, len(order))
	out = append(out, rest[:min(first, len(rest))]...)
	out = append(out, moved...)
	out = append(out, rest[min(first, len(rest)):]...)
	return out
}

// score counts, over all groups, the accessed-signal pairs that sit in
// adjacent positions of the global order. Higher means fewer gather/scatter
// breaks when a group's batched operation executes.
func score(order []*model.Signal, access [][]*model.Signal) int {
	pos := make(map[*model.Signal]int, len(order))
	for i, s := range order {
		pos[s] = i
	}

	total := 0
	for _, sigs := range access {
		used := make([]int, 0, len(sigs))
		for _, s := range sigs {
			used = append(used, pos[s])
		}
		for i := range used {
			for j := range used {
				if used[j]-used[i] == 1 {
					total++
				}
			}
		}
	}
	return total
}

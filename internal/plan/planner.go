package plan

import (
	"fmt"
	"sort"

	"github.com/san-kum/simgraph/internal/model"
)

// Group is an ordered set of operators of identical kind and compatible
// shapes, scheduled to execute as one batched step. No two operators in a
// group have a dependency edge between them.
type Group struct {
	Kind model.Kind
	Ops  []*model.Operator
}

// Plan is the ordered sequence of merge groups. The total order constrains
// cross-group boundaries only; groups are internally unordered.
type Plan []*Group

// Signals returns the signals accessed by the group, reads first, in
// operator order, without duplicates.
func (g *Group) Signals() []*model.Signal {
	seen := make(map[*model.Signal]bool)
	var out []*model.Signal
	for _, op := range g.Ops {
		for _, s := range op.All() {
			if !seen[s] {
				seen[s] = true
				out = append(out, s)
			}
		}
	}
	return out
}

func (g *Group) String() string {
	return fmt.Sprintf("Group<%s x%d>", g.Kind, len(g.Ops))
}

// Greedy partitions the filtered operator set into a dependency-valid plan by
// greedy topological grouping: repeatedly select the dependency-ready
// operators (all producers already scheduled), bucket them by
// (kind, shape signature), and emit one group per non-empty bucket.
// Ties between buckets break deterministically by kind then declaration
// order, so the same model always yields the same plan.
//
// A dependency cycle leaves operators that never become ready; that is a
// model-correctness defect and fails with ErrDependencyCycle.
func Greedy(ops []*model.Operator) (Plan, error) {
	deps := dependencies(ops)

	scheduled := make(map[*model.Operator]bool, len(ops))
	remaining := make([]*model.Operator, len(ops))
	copy(remaining, ops)

	var p Plan
	for len(remaining) > 0 {
		var ready, blocked []*model.Operator
		for _, op := range remaining {
			ok := true
			for dep := range deps[op] {
				if !scheduled[dep] {
					ok = false
					break
				}
			}
			if ok {
				ready = append(ready, op)
			} else {
				blocked = append(blocked, op)
			}
		}

		if len(ready) == 0 {
			return nil, &model.CompileError{
				Stage:   "planner",
				Wrapped: model.ErrDependencyCycle,
			}
		}

		for _, g := range bucket(ready) {
			p = append(p, g)
			for _, op := range g.Ops {
				scheduled[op] = true
			}
		}
		remaining = blocked
	}

	return p, nil
}

// dependencies derives the implicit edge set: op B depends on op A when B
// reads or increments a signal that A writes or sets.
func dependencies(ops []*model.Operator) map[*model.Operator]map[*model.Operator]bool {
	producers := make(map[*model.Signal][]*model.Operator)
	for _, op := range ops {
		for _, s := range op.Writes {
			producers[s] = append(producers[s], op)
		}
		for _, s := range op.Sets {
			producers[s] = append(producers[s], op)
		}
	}

	deps := make(map[*model.Operator]map[*model.Operator]bool, len(ops))
	for _, op := range ops {
		set := make(map[*model.Operator]bool)
		for _, s := range append(append([]*model.Signal{}, op.Reads...), op.Incs...) {
			for _, prod := range producers[s] {
				if prod != op {
					set[prod] = true
				}
			}
		}
		deps[op] = set
	}
	return deps
}

// bucket splits ready operators into merge groups by (kind, shape signature),
// ordered by kind identity then by the earliest declaration index in the
// bucket. Operators inside a bucket keep declaration order.
func bucket(ready []*model.Operator) []*Group {
	type key struct {
		kind model.Kind
		sig  string
	}
	buckets := make(map[key][]*model.Operator)
	for _, op := range ready {
		k := key{op.Kind, op.ShapeSignature()}
		buckets[k] = append(buckets[k], op)
	}

	groups := make([]*Group, 0, len(buckets))
	for k, ops := range buckets {
		sort.Slice(ops, func(i, j int) bool { return ops[i].Index() < ops[j].Index() })
		groups = append(groups, &Group{Kind: k.kind, Ops: ops})
	}
	sort.Slice(groups, func(i, j int) bool {
		if groups[i].Kind != groups[j].Kind {
			return groups[i].Kind < groups[j].Kind
		}
		return groups[i].Ops[0].Index() < groups[j].Ops[0].Index()
	})
	return groups
}

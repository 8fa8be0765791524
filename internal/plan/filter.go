package plan

import "github.com/san-kum/simgraph/internal/model"

// Filter removes the operators that execute outside the per-step plan:
// the time-update operator (the loop advances the step counter itself, so
// the counter is never layout-optimized away from its execution context)
// and zero-input sources whose evaluation has been hoisted before the loop.
func Filter(m *model.Model) []*model.Operator {
	hoisted := make(map[*model.Operator]bool, len(m.Sources))
	for _, src := range m.Sources {
		if src.Kind == model.KindFunc && len(src.Reads) == 0 {
			hoisted[src] = true
		}
	}

	ops := make([]*model.Operator, 0, len(m.Operators))
	for _, op := range m.Operators {
		if op.Kind == model.KindTimeUpdate || hoisted[op] {
			continue
		}
		ops = append(ops, op)
	}
	return ops
}

package builder

import (
	"math/rand"
	"sort"

	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/layout"
	"github.com/san-kum/simgraph/internal/plan"
)

// fillRun is a contiguous stretch of one base buffer set to a single value.
type fillRun struct {
	key    layout.BufferKey
	offset int
	length int
	value  float64
}

// resetBuilder batches KindReset operators. Pre-build merges targets that
// the layout optimizer placed contiguously (and that share a constant) into
// single fill runs, so a well-laid-out group becomes a handful of fills
// instead of one per operator.
type resetBuilder struct {
	runs []fillRun
}

func (b *resetBuilder) PreBuild(g *plan.Group, t *engine.Table, _ *rand.Rand) error {
	type target struct {
		view  layout.View
		value float64
	}
	targets := make([]target, 0, len(g.Ops))
	for _, op := range g.Ops {
		for _, s := range op.Sets {
			v, err := t.View(s)
			if err != nil {
				return err
			}
			targets = append(targets, target{view: v, value: op.Value})
		}
	}
	sort.Slice(targets, func(i, j int) bool {
		if targets[i].view.Key != targets[j].view.Key {
			return targets[i].view.Key.String() < targets[j].view.Key.String()
		}
		return targets[i].view.Offset < targets[j].view.Offset
	})

	for _, tg := range targets {
		n := len(b.runs)
		if n > 0 {
			prev := &b.runs[n-1]
			if prev.key == tg.view.Key && prev.value == tg.value &&
				prev.offset+prev.length == tg.view.Offset {
				prev.length += tg.view.Size()
				continue
			}
		}
		b.runs = append(b.runs, fillRun{
			key:    tg.view.Key,
			offset: tg.view.Offset,
			length: tg.view.Size(),
			value:  tg.value,
		})
	}
	return nil
}

func (b *resetBuilder) Build(_ *plan.Group, t *engine.Table) (engine.BuildResult, error) {
	runs := b.runs
	return engine.BuildResult{
		Step: func(ex *engine.Exec) error {
			for _, r := range runs {
				for bi := 0; bi < t.Batch; bi++ {
					raw := t.Raw(ex.Values, r.key, bi)
					t.Backend.Fill(raw[r.offset:r.offset+r.length], r.value)
				}
			}
			return nil
		},
	}, nil
}

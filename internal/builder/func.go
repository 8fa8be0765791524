package builder

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/model"
	"github.com/san-kum/simgraph/internal/plan"
)

// funcBuilder handles KindFunc operators that survived filtering (those with
// inputs, evaluated inside the loop). Each operator gets its own random
// source derived from the build rng, so builds with equal seeds are
// identical. Func groups are side-effecting: their node must execute every
// step even when the output is never read.
type funcBuilder struct {
	ops  []*model.Operator
	rngs []*rand.Rand
}

func (b *funcBuilder) PreBuild(g *plan.Group, t *engine.Table, rng *rand.Rand) error {
	for _, op := range g.Ops {
		if op.Fn == nil {
			return fmt.Errorf("func: operator %s has no step function", op)
		}
		if _, err := t.View(op.Writes[0]); err != nil {
			return err
		}
		b.ops = append(b.ops, op)
		b.rngs = append(b.rngs, rand.New(rand.NewSource(rng.Int63())))
	}
	return nil
}

func (b *funcBuilder) Build(_ *plan.Group, t *engine.Table) (engine.BuildResult, error) {
	ops, rngs := b.ops, b.rngs
	return engine.BuildResult{
		SideEffect: true,
		Step: func(ex *engine.Exec) error {
			for i, op := range ops {
				if len(op.Reads) == 0 {
					out := op.Fn(ex.Values.Time, nil, rngs[i])
					if err := t.Scatter(ex.Values, op.Writes[0], out, false); err != nil {
						return err
					}
					continue
				}
				for bi := 0; bi < t.Batch; bi++ {
					var x []float64
					for _, in := range op.Reads {
						x = append(x, t.Slice(ex.Values, in, bi)...)
					}
					out := op.Fn(ex.Values.Time, x, rngs[i])
					t.Backend.Copy(t.Slice(ex.Values, op.Writes[0], bi), out)
				}
			}
			return nil
		},
	}, nil
}

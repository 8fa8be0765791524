package builder

import (
	"math/rand"

	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/model"
	"github.com/san-kum/simgraph/internal/plan"
)

// copyBuilder batches KindCopy operators: dst is overwritten with src
// through the view table, one batched copy per operator.
type copyBuilder struct {
	pairs [][2]*model.Signal
}

func (b *copyBuilder) PreBuild(g *plan.Group, t *engine.Table, _ *rand.Rand) error {
	for _, op := range g.Ops {
		src, dst := op.Reads[0], op.Writes[0]
		if _, err := t.View(src); err != nil {
			return err
		}
		if _, err := t.View(dst); err != nil {
			return err
		}
		b.pairs = append(b.pairs, [2]*model.Signal{src, dst})
	}
	return nil
}

func (b *copyBuilder) Build(_ *plan.Group, t *engine.Table) (engine.BuildResult, error) {
	pairs := b.pairs
	return engine.BuildResult{
		Step: func(ex *engine.Exec) error {
			for _, p := range pairs {
				for bi := 0; bi < t.Batch; bi++ {
					t.Backend.Copy(t.Slice(ex.Values, p[1], bi), t.Slice(ex.Values, p[0], bi))
				}
			}
			return nil
		},
	}, nil
}

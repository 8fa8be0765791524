package builder

import (
	"fmt"
	"math/rand"

	"github.com/san-kum/simgraph/internal/engine"
	"github.com/san-kum/simgraph/internal/model"
	"github.com/san-kum/simgraph/internal/plan"
)

// dotIncBuilder batches KindDotInc operators: y += W·x per operator, with W
// shared across the batch when trainable.
type dotIncBuilder struct {
	ops []dotOp
}

type dotOp struct {
	w, x, y    *model.Signal
	rows, cols int
}

func (b *dotIncBuilder) PreBuild(g *plan.Group, t *engine.Table, _ *rand.Rand) error {
	for _, op := range g.Ops {
		w, x, y := op.Reads[0], op.Reads[1], op.Incs[0]
		if len(w.Shape) != 2 {
			return fmt.Errorf("dot_inc: weights %q must be 2-d, got %s", w.Name, w.Shape.Signature())
		}
		rows, cols := w.Shape[0], w.Shape[1]
		if x.Shape.Size() != cols {
			return fmt.Errorf("dot_inc: input %q has %d elements, weights %q need %d",
				x.Name, x.Shape.Size(), w.Name, cols)
		}
		if y.Shape.Size() != rows {
			return fmt.Errorf("dot_inc: output %q has %d elements, weights %q produce %d",
				y.Name, y.Shape.Size(), w.Name, rows)
		}
		for _, s := range []*model.Signal{w, x, y} {
			if _, err := t.View(s); err != nil {
				return err
			}
		}
		b.ops = append(b.ops, dotOp{w: w, x: x, y: y, rows: rows, cols: cols})
	}
	return nil
}

func (b *dotIncBuilder) Build(_ *plan.Group, t *engine.Table) (engine.BuildResult, error) {
	ops := b.ops
	return engine.BuildResult{
		Step: func(ex *engine.Exec) error {
			for _, op := range ops {
				for bi := 0; bi < t.Batch; bi++ {
					t.Backend.MatVecInc(
						t.Slice(ex.Values, op.w, bi), op.rows, op.cols,
						t.Slice(ex.Values, op.x, bi), t.Slice(ex.Values, op.y, bi), 1)
				}
			}
			return nil
		},
	}, nil
}

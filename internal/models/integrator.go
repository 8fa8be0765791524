package models

import (
	"math/rand"

	"github.com/san-kum/simgraph/internal/model"
)

// NewIntegrator builds a single accumulator: a constant source is scaled by
// dt and added to a state signal that is never reset, so the probed value
// ramps linearly with simulated time.
func NewIntegrator(dt float64) *model.Model {
	m := model.New(dt)

	u := m.AddSignal(model.NewSignal("u", model.Shape{1}))
	acc := m.AddSignal(model.NewSignal("acc", model.Shape{1}))
	gain := m.AddSignal(model.NewTrainable("gain", model.Shape{1, 1}, []float64{dt}))

	m.AddSource(model.Func(func(float64, []float64, *rand.Rand) []float64 {
		return []float64{1}
	}, nil, u))

	m.AddOperator(model.DotInc(gain, u, acc))

	m.AddProbe("acc", acc)
	return m
}

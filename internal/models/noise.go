package models

import (
	"math/rand"

	"github.com/san-kum/simgraph/internal/model"
)

// NewNoise builds a gaussian noise source smoothed by an in-loop Func that
// halves its input. Exercises the side-effecting Func path and the seeded
// per-operator random sources.
func NewNoise(dt float64) *model.Model {
	m := model.New(dt)

	u := m.AddSignal(model.NewSignal("u", model.Shape{1}))
	y := m.AddSignal(model.NewSignal("y", model.Shape{1}))

	m.AddSource(model.Func(func(_ float64, _ []float64, rng *rand.Rand) []float64 {
		return []float64{rng.NormFloat64()}
	}, nil, u))

	m.AddOperator(model.Func(func(_ float64, x []float64, _ *rand.Rand) []float64 {
		return []float64{x[0] / 2}
	}, []*model.Signal{u}, y))

	m.AddProbe("y", y)
	return m
}

package models

import (
	"math"
	"math/rand"

	"github.com/san-kum/simgraph/internal/model"
)

// NewFeedforward builds a two-unit feedforward network: a sine source feeds
// a hidden signal through a trainable weight matrix. The hidden signal is
// reset and re-driven every step, so probing it shows the weighted input.
func NewFeedforward(dt float64) *model.Model {
	m := model.New(dt)

	u := m.AddSignal(model.NewSignal("u", model.Shape{2}))
	h := m.AddSignal(model.NewSignal("h", model.Shape{2}))
	w := m.AddSignal(model.NewTrainable("w", model.Shape{2, 2},
		[]float64{0.5, 0, 0, 0.5}))

	m.AddSource(model.Func(func(t float64, _ []float64, _ *rand.Rand) []float64 {
		return []float64{math.Sin(2 * math.Pi * t), math.Cos(2 * math.Pi * t)}
	}, nil, u))

	m.AddOperator(model.Reset(h, 0))
	m.AddOperator(model.DotInc(w, u, h))

	m.AddProbe("h", h)
	return m
}

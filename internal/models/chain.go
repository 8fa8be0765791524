package models

import (
	"math"
	"math/rand"

	"github.com/san-kum/simgraph/internal/model"
)

// NewChain builds a copy chain u -> a -> b -> c plus an independent copy
// u -> a2. The two head copies share a merge group; the rest of the chain
// forces strictly ordered groups, which makes this network a good smoke test
// for plan ordering.
func NewChain(dt float64) *model.Model {
	m := model.New(dt)

	u := m.AddSignal(model.NewSignal("u", model.Shape{3}))
	a := m.AddSignal(model.NewSignal("a", model.Shape{3}))
	a2 := m.AddSignal(model.NewSignal("a2", model.Shape{3}))
	b := m.AddSignal(model.NewSignal("b", model.Shape{3}))
	c := m.AddSignal(model.NewSignal("c", model.Shape{3}))

	m.AddSource(model.Func(func(t float64, _ []float64, _ *rand.Rand) []float64 {
		return []float64{math.Sin(t), math.Cos(t), t}
	}, nil, u))

	m.AddOperator(model.Copy(u, a))
	m.AddOperator(model.Copy(u, a2))
	m.AddOperator(model.Copy(a, b))
	m.AddOperator(model.Copy(b, c))

	m.AddProbe("c", c)
	m.AddProbe("a2", a2)
	return m
}

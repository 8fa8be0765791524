// Package model provides the core primitives of a dataflow simulation model.
//
// A model is a graph of small numeric operators that read and write named
// signals (shared, typed, shaped regions of simulation state):
//
//   - [Signal]: named logical region of simulation state
//   - [Operator]: computation node with declared read/write/set/inc signal sets
//   - [Probe]: a signal whose value is captured every timestep
//   - [Model]: container tying operators, signals, sources and probes together
//
// Models are constructed once, before compilation, and are read-only in
// identity thereafter; only signal values mutate during simulation.
//
// # Example
//
//	m := model.New(0.001)
//	x := m.AddSignal(model.NewSignal("x", model.Shape{2}))
//	m.AddOperator(model.Reset(x, 0))
//
// # Thread Safety
//
// Model instances are NOT thread-safe during construction. Once compiled,
// the model is never mutated by the engine.
package model

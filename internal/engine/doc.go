// Package engine compiles a dataflow simulation model into a batched step
// program and wraps it in a simulation loop.
//
// Compilation runs the pipeline: dependency filtering, greedy merge-group
// planning, signal layout optimization, and base-buffer allocation, producing
// an immutable [CompiledGraph]. A [Simulation] created from it owns the
// loop-carried mutable state (buffer contents, step counter, probe buffers)
// and advances it with Run.
//
// The emitted per-step computation is a small node graph with explicit
// happens-before edges: an iteration's advance is ordered after that
// iteration's side-effecting outputs and probe reads, so batched non-copying
// reads of mutable storage cannot be invalidated by the next step's writes.
//
// # Example
//
//	g, err := engine.Compile(m, builder.Default(), engine.Options{StepBlocks: 100})
//	sim, err := g.NewSimulation()
//	res, err := sim.Run(100)
//
// # Thread Safety
//
// CompiledGraph and Simulation are NOT thread-safe.
package engine

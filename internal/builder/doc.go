// Package builder turns merge groups into batched step computations.
//
// Builders are resolved through an explicit [Registry] mapping operator kind
// to a builder factory; the engine never inspects operator internals to
// dispatch. Each builder gets a one-time pre-build phase per group (setup
// independent of the timestep) and a per-step build phase emitting
// computation against the signal-view table.
package builder

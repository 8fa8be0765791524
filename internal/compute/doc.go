// Package compute provides vectorized computation backends for batched
// signal operations.
//
// The package automatically selects the best available backend:
//
//   - parallel: chunks large batched operations across goroutines
//   - cpu: serial fallback, always available
//
// Backends operate on flat float64 slices; callers supply the batch and row
// extents. The engine emits the ordering contract, the backend executes.
package compute

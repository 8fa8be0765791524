// Package layout chooses the memory layout for a compiled plan: a global
// signal ordering that promotes contiguous batched reads, and a packing of
// every signal into a small set of shared base buffers.
package layout

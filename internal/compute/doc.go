// Package compute provides backends for the pairwise force sum that drives
// the particle simulation.
//
//   - serial: single goroutine, each pair visited once
//   - cpu: rows of the O(n²) sum split across worker goroutines
//
// The cpu backend falls back to the serial path for small inputs:
//
//	backend := compute.GetBackend()
//	backend.PairwiseForces(positions, smooth, forces)
package compute

// Package particles is a toy gravity-like N-body system used to produce
// moving points for the viewer.
//
// Every point is pulled toward every other point with a softened
// inverse-square law, then advanced by one explicit Euler step:
//
//	rng := rand.New(rand.NewSource(1234))
//	sys := particles.New(2000, rng)
//	for {
//	    v.RenderVertices(sys.Vertices())
//	    sys.Step(1)
//	}
//
// The pairwise sum is O(n²) and runs on a [compute.Backend].
//
// # Thread Safety
//
// A System is NOT safe for concurrent use. Slices returned by Vertices and
// XYZRGB are only valid until the next Step.
package particles

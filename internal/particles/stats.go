package particles

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// Stats summarizes the current state of a System.
type Stats struct {
	Step          int
	Points        int
	KineticEnergy float64
	Centroid      mgl32.Vec3
	RMSRadius     float64
	MaxSpeed      float64
}

// Stats computes unit-mass kinetic energy, the centroid and the RMS
// distance of points from the centroid.
func (s *System) Stats() Stats {
	st := Stats{Step: s.steps, Points: len(s.points)}
	if len(s.points) == 0 {
		return st
	}

	var cx, cy, cz float64
	for i, p := range s.points {
		cx += float64(p.X)
		cy += float64(p.Y)
		cz += float64(p.Z)

		v := s.velocity[i]
		v2 := float64(v.Dot(v))
		st.KineticEnergy += 0.5 * v2
		st.MaxSpeed = math.Max(st.MaxSpeed, math.Sqrt(v2))
	}
	n := float64(len(s.points))
	cx, cy, cz = cx/n, cy/n, cz/n
	st.Centroid = mgl32.Vec3{float32(cx), float32(cy), float32(cz)}

	var sum float64
	for _, p := range s.points {
		dx := float64(p.X) - cx
		dy := float64(p.Y) - cy
		dz := float64(p.Z) - cz
		sum += dx*dx + dy*dy + dz*dz
	}
	st.RMSRadius = math.Sqrt(sum / n)
	return st
}

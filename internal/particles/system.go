package particles

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/pclview/internal/cloud"
	"github.com/san-kum/pclview/internal/compute"
)

const (
	DefaultGravity = 1.0e-9
	DefaultSmooth  = 1.0e-3
)

type Option func(*System)

// WithBackend selects the pairwise force backend. The package default is
// compute.GetBackend().
func WithBackend(b compute.Backend) Option {
	return func(s *System) { s.backend = b }
}

func WithGravity(g float32) Option {
	return func(s *System) { s.Gravity = g }
}

func WithSmooth(smooth float32) Option {
	return func(s *System) { s.Smooth = smooth }
}

// WithValidation makes Step check every updated point for NaN/Inf.
func WithValidation(on bool) Option {
	return func(s *System) { s.validate = on }
}

type System struct {
	Gravity float32
	Smooth  float32

	points   []cloud.Vertex
	next     []cloud.Vertex
	velocity []mgl32.Vec3
	nextVel  []mgl32.Vec3
	pos      []mgl32.Vec3
	forces   []mgl32.Vec3
	flat     []float32

	backend  compute.Backend
	validate bool
	steps    int
}

// New scatters n points uniformly in the cube [-1, 1)³ at rest. Red and
// green channels are drawn from [127, 255], blue is 0 and alpha is opaque.
func New(n int, rng *rand.Rand, opts ...Option) *System {
	s := newSystem(n, opts...)
	for i := range s.points {
		s.points[i] = cloud.Vertex{
			X: uniform(rng), Y: uniform(rng), Z: uniform(rng),
			R: uint8(127 + rng.Intn(129)),
			G: uint8(127 + rng.Intn(129)),
			B: 0,
			A: 255,
		}
	}
	return s
}

// FromVertices starts a system at rest from existing points.
func FromVertices(vs []cloud.Vertex, opts ...Option) *System {
	s := newSystem(len(vs), opts...)
	copy(s.points, vs)
	return s
}

func newSystem(n int, opts ...Option) *System {
	s := &System{
		Gravity:  DefaultGravity,
		Smooth:   DefaultSmooth,
		points:   make([]cloud.Vertex, n),
		next:     make([]cloud.Vertex, n),
		velocity: make([]mgl32.Vec3, n),
		nextVel:  make([]mgl32.Vec3, n),
		pos:      make([]mgl32.Vec3, n),
		forces:   make([]mgl32.Vec3, n),
		backend:  compute.GetBackend(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func uniform(rng *rand.Rand) float32 {
	return rng.Float32()*2 - 1
}

func (s *System) Len() int                 { return len(s.points) }
func (s *System) Steps() int               { return s.steps }
func (s *System) Backend() compute.Backend { return s.backend }

// Vertices returns the current points. The slice is reused by Step.
func (s *System) Vertices() []cloud.Vertex { return s.points }

// Velocity returns the velocity of point i.
func (s *System) Velocity(i int) mgl32.Vec3 { return s.velocity[i] }

// XYZRGB returns the current points as six floats each, colors in [0, 1].
// The slice is reused by later calls.
func (s *System) XYZRGB() []float32 {
	if cap(s.flat) < len(s.points)*cloud.XYZRGBStride {
		s.flat = make([]float32, len(s.points)*cloud.XYZRGBStride)
	}
	s.flat = s.flat[:len(s.points)*cloud.XYZRGBStride]
	for i, v := range s.points {
		o := s.flat[i*cloud.XYZRGBStride:]
		o[0], o[1], o[2] = v.X, v.Y, v.Z
		o[3] = float32(v.R) / 255
		o[4] = float32(v.G) / 255
		o[5] = float32(v.B) / 255
	}
	return s.flat
}

func (s *System) Validate() error {
	if s.Gravity < 0 || isBad(s.Gravity) {
		return fmt.Errorf("%w: gravity %v", ErrParameterBounds, s.Gravity)
	}
	if s.Smooth < 0 || isBad(s.Smooth) {
		return fmt.Errorf("%w: smooth %v", ErrParameterBounds, s.Smooth)
	}
	if s.backend == nil {
		return fmt.Errorf("%w: no force backend", ErrParameterBounds)
	}
	return nil
}

// Step advances every point by dt. All forces are computed from the
// positions at the start of the step. The new state is committed only once
// every point has been updated, so a failed step leaves the system as it was.
func (s *System) Step(dt float32) error {
	if err := s.Validate(); err != nil {
		return err
	}
	if isBad(dt) {
		return fmt.Errorf("%w: dt %v", ErrParameterBounds, dt)
	}

	for i, p := range s.points {
		s.pos[i] = mgl32.Vec3{p.X, p.Y, p.Z}
	}
	s.backend.PairwiseForces(s.pos, s.Smooth, s.forces)

	half := 0.5 * dt * dt
	for i, p := range s.points {
		accel := s.forces[i].Mul(s.Gravity)
		delta := accel.Mul(half).Add(s.velocity[i].Mul(dt))
		vel := s.velocity[i].Add(accel.Mul(dt))

		n := p
		n.X += delta[0]
		n.Y += delta[1]
		n.Z += delta[2]

		if s.validate && (isBad(n.X) || isBad(n.Y) || isBad(n.Z) || !validVec(vel)) {
			return &StepError{Step: s.steps + 1, Point: i, Wrapped: ErrUnstable}
		}
		s.next[i] = n
		s.nextVel[i] = vel
	}

	s.points, s.next = s.next, s.points
	s.velocity, s.nextVel = s.nextVel, s.velocity
	s.steps++
	return nil
}

func isBad(v float32) bool {
	f := float64(v)
	return math.IsNaN(f) || math.IsInf(f, 0)
}

func validVec(v mgl32.Vec3) bool {
	return !isBad(v[0]) && !isBad(v[1]) && !isBad(v[2])
}

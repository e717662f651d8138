package particles_test

import (
	"errors"
	"math"
	"math/rand"

	"github.com/go-gl/mathgl/mgl32"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pclview/internal/cloud"
	"github.com/san-kum/pclview/internal/compute"
	"github.com/san-kum/pclview/internal/particles"
)

var _ = Describe("System", func() {
	var rng *rand.Rand

	BeforeEach(func() {
		rng = rand.New(rand.NewSource(1234))
	})

	Describe("New", func() {
		It("scatters points in the unit cube with warm colors", func() {
			sys := particles.New(500, rng)
			Expect(sys.Len()).To(Equal(500))

			for _, v := range sys.Vertices() {
				Expect(v.X).To(BeNumerically(">=", -1))
				Expect(v.X).To(BeNumerically("<", 1))
				Expect(v.Y).To(BeNumerically(">=", -1))
				Expect(v.Z).To(BeNumerically("<", 1))
				Expect(v.R).To(BeNumerically(">=", 127))
				Expect(v.G).To(BeNumerically(">=", 127))
				Expect(v.B).To(BeZero())
				Expect(v.A).To(Equal(uint8(255)))
			}
		})

		It("is deterministic for a seed", func() {
			a := particles.New(50, rand.New(rand.NewSource(9)))
			b := particles.New(50, rand.New(rand.NewSource(9)))
			Expect(a.Vertices()).To(Equal(b.Vertices()))
		})

		It("starts at rest", func() {
			sys := particles.New(10, rng)
			Expect(sys.Stats().KineticEnergy).To(BeZero())
		})
	})

	Describe("Step", func() {
		It("moves two points toward each other by the closed-form amount", func() {
			sys := particles.FromVertices([]cloud.Vertex{
				cloud.NewVertex(-1, 0, 0),
				cloud.NewVertex(1, 0, 0),
			}, particles.WithGravity(1e-3), particles.WithBackend(compute.NewSerialBackend()))

			Expect(sys.Step(1)).To(Succeed())

			smooth := float32(particles.DefaultSmooth)
			accel := float32(1e-3) / (4 + smooth*smooth)
			vs := sys.Vertices()
			Expect(vs[0].X).To(BeNumerically("~", -1+0.5*accel, 1e-6))
			Expect(vs[1].X).To(BeNumerically("~", 1-0.5*accel, 1e-6))
			Expect(sys.Velocity(0)[0]).To(BeNumerically("~", accel, 1e-7))
			Expect(sys.Steps()).To(Equal(1))
		})

		It("ignores pairs closer than the softening threshold", func() {
			sys := particles.FromVertices([]cloud.Vertex{
				cloud.NewVertex(0, 0, 0),
				cloud.NewVertex(0.01, 0, 0),
			}, particles.WithGravity(1))

			Expect(sys.Step(1)).To(Succeed())
			Expect(sys.Vertices()[0].X).To(BeZero())
			Expect(sys.Vertices()[1].X).To(BeNumerically("~", 0.01, 1e-7))
		})

		It("carries colors through unchanged", func() {
			sys := particles.New(20, rng)
			before := append([]cloud.Vertex(nil), sys.Vertices()...)

			for i := 0; i < 5; i++ {
				Expect(sys.Step(1)).To(Succeed())
			}

			for i, v := range sys.Vertices() {
				Expect([4]uint8{v.R, v.G, v.B, v.A}).To(Equal([4]uint8{before[i].R, before[i].G, before[i].B, before[i].A}))
			}
		})

		It("gives the same result on every backend", func() {
			a := particles.New(300, rand.New(rand.NewSource(3)), particles.WithBackend(compute.NewSerialBackend()), particles.WithGravity(1e-5))
			b := particles.New(300, rand.New(rand.NewSource(3)), particles.WithBackend(compute.NewCPUBackend(3)), particles.WithGravity(1e-5))

			for i := 0; i < 3; i++ {
				Expect(a.Step(0.5)).To(Succeed())
				Expect(b.Step(0.5)).To(Succeed())
			}

			for i := range a.Vertices() {
				pa, pb := a.Vertices()[i], b.Vertices()[i]
				Expect(pa.X).To(BeNumerically("~", pb.X, 1e-4))
				Expect(pa.Y).To(BeNumerically("~", pb.Y, 1e-4))
				Expect(pa.Z).To(BeNumerically("~", pb.Z, 1e-4))
			}
		})

		It("keeps the centroid fixed", func() {
			sys := particles.New(200, rng, particles.WithGravity(1e-4), particles.WithBackend(compute.NewSerialBackend()))
			c0 := sys.Stats().Centroid

			for i := 0; i < 10; i++ {
				Expect(sys.Step(1)).To(Succeed())
			}

			Expect(sys.Stats().Centroid.ApproxEqualThreshold(c0, 1e-4)).To(BeTrue())
		})

		It("contracts the cloud under attraction", func() {
			sys := particles.New(200, rng, particles.WithGravity(1e-6))
			r0 := sys.Stats().RMSRadius

			for i := 0; i < 20; i++ {
				Expect(sys.Step(1)).To(Succeed())
			}

			st := sys.Stats()
			Expect(st.RMSRadius).To(BeNumerically("<", r0))
			Expect(st.KineticEnergy).To(BeNumerically(">", 0))
		})

		It("rejects invalid parameters", func() {
			sys := particles.New(4, rng, particles.WithGravity(-1))
			err := sys.Step(1)
			Expect(errors.Is(err, particles.ErrParameterBounds)).To(BeTrue())

			sys = particles.New(4, rng)
			Expect(errors.Is(sys.Step(float32(math.NaN())), particles.ErrParameterBounds)).To(BeTrue())
		})

		It("reports divergence when validation is on", func() {
			sys := particles.FromVertices([]cloud.Vertex{
				cloud.NewVertex(0, 0, 0),
				cloud.NewVertex(1, 0, 0),
			}, particles.WithGravity(math.MaxFloat32), particles.WithValidation(true))

			err := sys.Step(1e20)
			var stepErr *particles.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(errors.Is(err, particles.ErrUnstable)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(1))
		})

		It("leaves the state untouched when a step diverges", func() {
			sys := particles.FromVertices([]cloud.Vertex{
				cloud.NewVertex(0, 0, 0),
				cloud.NewVertex(1, 0, 0),
				cloud.NewVertex(0, 1, 0),
			}, particles.WithBackend(poisonBackend{bad: 1, armed: new(bool)}), particles.WithGravity(1), particles.WithValidation(true))

			Expect(sys.Step(1)).To(Succeed())
			before := append([]cloud.Vertex(nil), sys.Vertices()...)
			vel0, vel1 := sys.Velocity(0), sys.Velocity(1)

			sys.Backend().(poisonBackend).arm()
			err := sys.Step(1)
			Expect(errors.Is(err, particles.ErrUnstable)).To(BeTrue())
			var stepErr *particles.StepError
			Expect(errors.As(err, &stepErr)).To(BeTrue())
			Expect(stepErr.Step).To(Equal(2))
			Expect(stepErr.Point).To(Equal(1))

			Expect(sys.Steps()).To(Equal(1))
			Expect(sys.Vertices()).To(Equal(before))
			Expect(sys.Velocity(0)).To(Equal(vel0))
			Expect(sys.Velocity(1)).To(Equal(vel1))
		})
	})

	Describe("XYZRGB", func() {
		It("flattens points with normalized colors", func() {
			sys := particles.FromVertices([]cloud.Vertex{{X: 1, Y: 2, Z: 3, R: 255, G: 0, B: 0, A: 255}})
			Expect(sys.XYZRGB()).To(Equal([]float32{1, 2, 3, 1, 0, 0}))
		})
	})

	Describe("Stats", func() {
		It("handles an empty system", func() {
			sys := particles.New(0, rng)
			Expect(sys.Stats()).To(Equal(particles.Stats{}))
			Expect(sys.Step(1)).To(Succeed())
		})

		It("measures the RMS radius about the centroid", func() {
			sys := particles.FromVertices([]cloud.Vertex{
				cloud.NewVertex(-1, 0, 0),
				cloud.NewVertex(1, 0, 0),
			})
			st := sys.Stats()
			Expect(st.Centroid).To(Equal(mgl32.Vec3{0, 0, 0}))
			Expect(st.RMSRadius).To(BeNumerically("~", 1, 1e-9))
		})
	})
})

// poisonBackend pushes every point along +X and, once armed, gives point bad
// an infinite force.
type poisonBackend struct {
	bad   int
	armed *bool
}

func (b poisonBackend) Name() string    { return "poison" }
func (b poisonBackend) Available() bool { return true }
func (b poisonBackend) Cleanup()        {}

func (b poisonBackend) arm() { *b.armed = true }

func (b poisonBackend) PairwiseForces(pos []mgl32.Vec3, _ float32, out []mgl32.Vec3) {
	for i := range out {
		out[i] = mgl32.Vec3{1, 0, 0}
	}
	if *b.armed {
		out[b.bad] = mgl32.Vec3{float32(math.Inf(1)), 0, 0}
	}
}

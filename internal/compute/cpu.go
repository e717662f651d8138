package compute

import (
	"runtime"
	"sync"

	"github.com/go-gl/mathgl/mgl32"
)

// parallelThreshold is the point count below which the cpu backend stays
// on one goroutine.
const parallelThreshold = 256

type CPUBackend struct {
	workers int
}

func NewCPUBackend(workers int) *CPUBackend {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &CPUBackend{workers: workers}
}

func (c *CPUBackend) Name() string    { return "cpu" }
func (c *CPUBackend) Available() bool { return true }
func (c *CPUBackend) Cleanup()        {}
func (c *CPUBackend) Workers() int    { return c.workers }

func (c *CPUBackend) PairwiseForces(pos []mgl32.Vec3, smooth float32, out []mgl32.Vec3) {
	if len(pos) < parallelThreshold || c.workers <= 1 {
		pairwiseSerial(pos, smooth, out)
		return
	}
	c.pairwiseParallel(pos, smooth, out)
}

// pairwiseParallel gives each worker a contiguous block of rows. Every row
// visits all columns, so workers never write to the same element.
func (c *CPUBackend) pairwiseParallel(pos []mgl32.Vec3, smooth float32, out []mgl32.Vec3) {
	n := len(pos)
	workers := c.workers
	if workers > n {
		workers = n
	}
	chunkSize := (n + workers - 1) / workers

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		start := w * chunkSize
		end := start + chunkSize
		if end > n {
			end = n
		}
		if start >= end {
			break
		}

		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				out[i] = rowForce(pos, i, smooth)
			}
		}(start, end)
	}
	wg.Wait()
}

func rowForce(pos []mgl32.Vec3, i int, smooth float32) mgl32.Vec3 {
	var f mgl32.Vec3
	a := pos[i]
	for j := range pos {
		if i == j {
			continue
		}
		if pull, ok := pairForce(a, pos[j], smooth); ok {
			f = f.Add(pull)
		}
	}
	return f
}

// pairForce is the pull on a toward b. Pairs closer than smooth (in squared
// distance) contribute nothing.
func pairForce(a, b mgl32.Vec3, smooth float32) (mgl32.Vec3, bool) {
	delta := b.Sub(a)
	d2 := delta.Dot(delta)
	if d2 < smooth {
		return mgl32.Vec3{}, false
	}
	return delta.Normalize().Mul(1 / (d2 + smooth*smooth)), true
}

type SerialBackend struct{}

func NewSerialBackend() *SerialBackend { return &SerialBackend{} }

func (s *SerialBackend) Name() string    { return "serial" }
func (s *SerialBackend) Available() bool { return true }
func (s *SerialBackend) Cleanup()        {}

func (s *SerialBackend) PairwiseForces(pos []mgl32.Vec3, smooth float32, out []mgl32.Vec3) {
	pairwiseSerial(pos, smooth, out)
}

// pairwiseSerial visits each unordered pair once and applies equal and
// opposite contributions.
func pairwiseSerial(pos []mgl32.Vec3, smooth float32, out []mgl32.Vec3) {
	for i := range out {
		out[i] = mgl32.Vec3{}
	}
	for i := 0; i < len(pos); i++ {
		for j := i + 1; j < len(pos); j++ {
			pull, ok := pairForce(pos[i], pos[j], smooth)
			if !ok {
				continue
			}
			out[i] = out[i].Add(pull)
			out[j] = out[j].Sub(pull)
		}
	}
}

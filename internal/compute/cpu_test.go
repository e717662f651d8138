package compute

import (
	"math"
	"math/rand"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
)

func randomPositions(n int, seed int64) []mgl32.Vec3 {
	rng := rand.New(rand.NewSource(seed))
	pos := make([]mgl32.Vec3, n)
	for i := range pos {
		pos[i] = mgl32.Vec3{rng.Float32()*2 - 1, rng.Float32()*2 - 1, rng.Float32()*2 - 1}
	}
	return pos
}

func TestPairwise_TwoPoints(t *testing.T) {
	pos := []mgl32.Vec3{{0, 0, 0}, {2, 0, 0}}
	out := make([]mgl32.Vec3, 2)
	smooth := float32(1e-3)

	NewSerialBackend().PairwiseForces(pos, smooth, out)

	want := 1 / (4 + smooth*smooth)
	if !out[0].ApproxEqualThreshold(mgl32.Vec3{want, 0, 0}, 1e-6) {
		t.Errorf("force on 0 = %v, want [%v 0 0]", out[0], want)
	}
	if !out[1].ApproxEqualThreshold(mgl32.Vec3{-want, 0, 0}, 1e-6) {
		t.Errorf("force on 1 = %v, want [%v 0 0]", out[1], -want)
	}
}

func TestPairwise_SkipsClosePairs(t *testing.T) {
	pos := []mgl32.Vec3{{0, 0, 0}, {0.01, 0, 0}}
	out := []mgl32.Vec3{{9, 9, 9}, {9, 9, 9}}

	NewSerialBackend().PairwiseForces(pos, 1e-3, out)

	for i, f := range out {
		if f != (mgl32.Vec3{}) {
			t.Errorf("point %d: expected zero force for d² < smooth, got %v", i, f)
		}
	}
}

// reference64 recomputes the row sums in float64 and also returns the sum
// of term magnitudes per row, which bounds float32 rounding error.
func reference64(pos []mgl32.Vec3, smooth float64) ([][3]float64, []float64) {
	ref := make([][3]float64, len(pos))
	mag := make([]float64, len(pos))
	for i := range pos {
		for j := range pos {
			if i == j {
				continue
			}
			dx := float64(pos[j][0] - pos[i][0])
			dy := float64(pos[j][1] - pos[i][1])
			dz := float64(pos[j][2] - pos[i][2])
			d2 := dx*dx + dy*dy + dz*dz
			if d2 < smooth {
				continue
			}
			inv := 1 / (d2 + smooth*smooth) / math.Sqrt(d2)
			ref[i][0] += dx * inv
			ref[i][1] += dy * inv
			ref[i][2] += dz * inv
			mag[i] += math.Sqrt(d2) * inv
		}
	}
	return ref, mag
}

func TestPairwise_BackendsMatchReference(t *testing.T) {
	pos := randomPositions(600, 42)
	ref, mag := reference64(pos, 1e-3)

	for _, b := range []Backend{NewSerialBackend(), NewCPUBackend(4)} {
		out := make([]mgl32.Vec3, len(pos))
		b.PairwiseForces(pos, 1e-3, out)

		for i := range pos {
			tol := 1e-4*mag[i] + 1e-6
			for k := 0; k < 3; k++ {
				if d := math.Abs(float64(out[i][k]) - ref[i][k]); d > tol {
					t.Fatalf("%s: point %d axis %d off by %g (tol %g)", b.Name(), i, k, d, tol)
				}
			}
		}
	}
}

func TestPairwise_NetForceZero(t *testing.T) {
	pos := randomPositions(64, 7)
	out := make([]mgl32.Vec3, len(pos))
	NewSerialBackend().PairwiseForces(pos, 1e-3, out)

	var sum mgl32.Vec3
	var total float32
	for _, f := range out {
		sum = sum.Add(f)
		total += f.Len()
	}
	if sum.Len() > total*1e-4 {
		t.Errorf("net internal force should vanish, got %v", sum)
	}
}

func TestLookup(t *testing.T) {
	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{"cpu", "cpu", false},
		{"serial", "serial", false},
		{"cuda", "", true},
	}

	for _, tt := range tests {
		b, err := Lookup(tt.name, 2)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Lookup(%q): expected error", tt.name)
			}
			continue
		}
		if err != nil {
			t.Fatalf("Lookup(%q): %v", tt.name, err)
		}
		if b.Name() != tt.want {
			t.Errorf("Lookup(%q).Name() = %q", tt.name, b.Name())
		}
	}
}

func TestSetBackend(t *testing.T) {
	prev := GetBackend()
	defer SetBackend(prev)

	s := NewSerialBackend()
	SetBackend(s)
	if GetBackend().Name() != "serial" {
		t.Errorf("active backend = %s, want serial", GetBackend().Name())
	}
}

func BenchmarkPairwiseSerial(b *testing.B) {
	pos := randomPositions(2000, 1)
	out := make([]mgl32.Vec3, len(pos))
	be := NewSerialBackend()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		be.PairwiseForces(pos, 1e-3, out)
	}
}

func BenchmarkPairwiseCPU(b *testing.B) {
	pos := randomPositions(2000, 1)
	out := make([]mgl32.Vec3, len(pos))
	be := NewCPUBackend(0)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		be.PairwiseForces(pos, 1e-3, out)
	}
}

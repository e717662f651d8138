package compute

import (
	"fmt"
	"sort"

	"github.com/go-gl/mathgl/mgl32"
)

// Backend accumulates, for every point, the softened inverse-square pull of
// all other points. out must have the same length as pos and is overwritten.
type Backend interface {
	Name() string
	Available() bool
	PairwiseForces(pos []mgl32.Vec3, smooth float32, out []mgl32.Vec3)
	Cleanup()
}

var activeBackend Backend

func init() {
	activeBackend = AutoSelectBackend()
}

func SetBackend(b Backend) {
	if activeBackend != nil && activeBackend != b {
		activeBackend.Cleanup()
	}
	activeBackend = b
}

func GetBackend() Backend {
	return activeBackend
}

func AutoSelectBackend() Backend {
	return NewCPUBackend(0)
}

var constructors = map[string]func(workers int) Backend{
	"cpu":    func(w int) Backend { return NewCPUBackend(w) },
	"serial": func(int) Backend { return NewSerialBackend() },
}

// Lookup builds a backend by name. workers <= 0 means one per CPU.
func Lookup(name string, workers int) (Backend, error) {
	ctor, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown backend: %s (available: %v)", name, Names())
	}
	b := ctor(workers)
	if !b.Available() {
		return nil, fmt.Errorf("backend %s not available", name)
	}
	return b, nil
}

func Names() []string {
	names := make([]string, 0, len(constructors))
	for n := range constructors {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

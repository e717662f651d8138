package camera

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

var ErrMatrixSize = errors.New("camera: matrix needs 16 floats")

// FromColumnMajor builds a matrix from 16 floats in column-major order, the
// layout used by GLSL and by mgl32.Mat4 itself.
func FromColumnMajor(m []float32) (mgl32.Mat4, error) {
	var out mgl32.Mat4
	if len(m) != 16 {
		return out, fmt.Errorf("%w, got %d", ErrMatrixSize, len(m))
	}
	copy(out[:], m)
	return out, nil
}

// Perspective builds a projection for a framebuffer of the given size. A
// zero height (minimized window) falls back to a square aspect.
func Perspective(fovy, width, height, near, far float32) mgl32.Mat4 {
	aspect := float32(1)
	if width > 0 && height > 0 {
		aspect = width / height
	}
	return mgl32.Perspective(fovy, aspect, near, far)
}

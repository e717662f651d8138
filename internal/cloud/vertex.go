package cloud

import (
	"errors"
	"fmt"
)

const (
	// VertexSize is the size in bytes of one packed Vertex.
	VertexSize = 16

	// XYZRGBStride is the number of floats per point in an XYZRGB buffer.
	XYZRGBStride = 6
)

var ErrRaggedBuffer = errors.New("cloud: xyzrgb buffer length is not a multiple of 6")

// Vertex is one point: position followed by an RGBA color.
type Vertex struct {
	X, Y, Z    float32
	R, G, B, A uint8
}

// DefaultColor is the color assigned to points that carry none.
var DefaultColor = [4]uint8{192, 192, 192, 255}

func NewVertex(x, y, z float32) Vertex {
	return Vertex{X: x, Y: y, Z: z, R: DefaultColor[0], G: DefaultColor[1], B: DefaultColor[2], A: DefaultColor[3]}
}

// PointCount returns the number of points held in an XYZRGB buffer.
func PointCount(buf []float32) (int, error) {
	if len(buf)%XYZRGBStride != 0 {
		return 0, fmt.Errorf("%w: got %d floats", ErrRaggedBuffer, len(buf))
	}
	return len(buf) / XYZRGBStride, nil
}

// ToXYZRGB expands packed vertices into a flat float buffer. Alpha is dropped.
func ToXYZRGB(vs []Vertex) []float32 {
	out := make([]float32, len(vs)*XYZRGBStride)
	for i, v := range vs {
		o := out[i*XYZRGBStride:]
		o[0], o[1], o[2] = v.X, v.Y, v.Z
		o[3] = float32(v.R) / 255
		o[4] = float32(v.G) / 255
		o[5] = float32(v.B) / 255
	}
	return out
}

// FromXYZRGB packs a flat float buffer into vertices with opaque alpha.
// Color channels are clamped to [0, 1] before quantization.
func FromXYZRGB(buf []float32) ([]Vertex, error) {
	n, err := PointCount(buf)
	if err != nil {
		return nil, err
	}
	out := make([]Vertex, n)
	for i := range out {
		p := buf[i*XYZRGBStride:]
		out[i] = Vertex{
			X: p[0], Y: p[1], Z: p[2],
			R: quantize(p[3]), G: quantize(p[4]), B: quantize(p[5]),
			A: 255,
		}
	}
	return out, nil
}

func quantize(c float32) uint8 {
	if c <= 0 {
		return 0
	}
	if c >= 1 {
		return 255
	}
	return uint8(c*255 + 0.5)
}

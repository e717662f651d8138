package cloud

// ComponentType is the scalar type of a vertex attribute component.
type ComponentType int

const (
	Float32 ComponentType = iota
	Uint8
)

// Attribute describes one vertex attribute slot in an interleaved buffer.
type Attribute struct {
	Location   uint32
	Components int32
	Type       ComponentType
	Normalized bool
	Offset     int
}

// Layout describes how one point format is interleaved in a vertex buffer.
type Layout struct {
	Name       string
	Stride     int32
	Attributes []Attribute
}

// BufferSize returns the byte size needed for n points.
func (l Layout) BufferSize(n int) int {
	return n * int(l.Stride)
}

var (
	// VertexLayout matches Vertex: 12 bytes of position, 4 bytes of color.
	VertexLayout = Layout{
		Name:   "vertex",
		Stride: VertexSize,
		Attributes: []Attribute{
			{Location: 0, Components: 3, Type: Float32, Offset: 0},
			{Location: 1, Components: 4, Type: Uint8, Normalized: true, Offset: 12},
		},
	}

	// XYZRGBLayout matches six float32 values per point.
	XYZRGBLayout = Layout{
		Name:   "xyzrgb",
		Stride: XYZRGBStride * 4,
		Attributes: []Attribute{
			{Location: 0, Components: 3, Type: Float32, Offset: 0},
			{Location: 1, Components: 3, Type: Float32, Offset: 12},
		},
	}
)

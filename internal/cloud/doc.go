// Package cloud defines the in-memory point formats accepted by the viewer.
//
// Two formats are supported:
//
//   - [Vertex]: a packed 16-byte record, three float32 coordinates followed
//     by four normalized RGBA bytes.
//   - XYZRGB: a flat []float32 with six values per point, three coordinates
//     followed by three color channels in [0, 1].
//
// Each format has a matching [Layout] describing how its attributes are laid
// out in a GPU vertex buffer.
package cloud

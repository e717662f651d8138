package gfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/san-kum/pclview/internal/cloud"
)

// VertexArray owns one vertex buffer and the vertex array object that
// describes it according to a cloud.Layout.
type VertexArray struct {
	buffer   uint32
	array    uint32
	layout   cloud.Layout
	capacity int
	bound    bool
}

func NewVertexArray(layout cloud.Layout) (*VertexArray, error) {
	va := &VertexArray{layout: layout}

	gl.GenBuffers(1, &va.buffer)
	gl.GenVertexArrays(1, &va.array)

	gl.BindBuffer(gl.ARRAY_BUFFER, va.buffer)
	gl.BindVertexArray(va.array)

	for _, attr := range layout.Attributes {
		gl.EnableVertexAttribArray(attr.Location)
		gl.VertexAttribPointerWithOffset(attr.Location, attr.Components, glType(attr.Type), attr.Normalized, layout.Stride, uintptr(attr.Offset))
	}

	gl.BindVertexArray(0)
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	if err := checkError("create vertex array " + layout.Name); err != nil {
		va.Delete()
		return nil, err
	}
	return va, nil
}

func (va *VertexArray) Layout() cloud.Layout { return va.layout }

func (va *VertexArray) Bind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, va.buffer)
	gl.BindVertexArray(va.array)
	va.bound = true
}

func (va *VertexArray) Unbind() {
	gl.BindBuffer(gl.ARRAY_BUFFER, 0)
	gl.BindVertexArray(0)
	va.bound = false
}

// Upload replaces the buffer contents with count points read from data.
// The buffer is reallocated only when it grows.
func (va *VertexArray) Upload(data unsafe.Pointer, count int) error {
	if !va.bound {
		return fmt.Errorf("%w: upload on unbound %s array", ErrBadLayout, va.layout.Name)
	}
	size := va.layout.BufferSize(count)
	if size == 0 {
		return nil
	}
	if size > va.capacity {
		gl.BufferData(gl.ARRAY_BUFFER, size, data, gl.DYNAMIC_DRAW)
		va.capacity = size
	} else {
		gl.BufferSubData(gl.ARRAY_BUFFER, 0, size, data)
	}
	return checkError("upload " + va.layout.Name)
}

func (va *VertexArray) Delete() {
	if va.buffer != 0 {
		gl.DeleteBuffers(1, &va.buffer)
		va.buffer = 0
	}
	if va.array != 0 {
		gl.DeleteVertexArrays(1, &va.array)
		va.array = 0
	}
	va.capacity = 0
}

func glType(t cloud.ComponentType) uint32 {
	switch t {
	case cloud.Uint8:
		return gl.UNSIGNED_BYTE
	default:
		return gl.FLOAT
	}
}

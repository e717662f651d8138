package gfx

import (
	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
)

// ClearFrame clears color and depth to bg and resets the viewport to the
// given framebuffer size.
func ClearFrame(bg mgl32.Vec4, width, height int) error {
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT | gl.DEPTH_BUFFER_BIT)
	gl.Viewport(0, 0, int32(width), int32(height))
	return checkError("begin frame")
}

// SetPointSize sets the rasterized size of points, in pixels.
func SetPointSize(size float32) {
	gl.PointSize(size)
}

// RendererInfo reports the GL vendor, renderer and version strings of the
// current context.
func RendererInfo() (vendor, renderer, version string) {
	return gl.GoStr(gl.GetString(gl.VENDOR)), gl.GoStr(gl.GetString(gl.RENDERER)), gl.GoStr(gl.GetString(gl.VERSION))
}

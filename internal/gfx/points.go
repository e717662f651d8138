package gfx

import (
	"fmt"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/pclview/internal/cloud"
	"github.com/san-kum/pclview/internal/gfx/glsl"
)

// PointProgram draws point clouds in either supported format with the fixed
// point shaders.
type PointProgram struct {
	program     *Program
	vertices    *VertexArray
	xyzrgb      *VertexArray
	mvpLocation int32
}

func NewPointProgram() (*PointProgram, error) {
	program, err := NewProgram(glsl.PointVertex, glsl.PointFragment)
	if err != nil {
		return nil, err
	}

	pp := &PointProgram{program: program}
	pp.mvpLocation = program.UniformLocation(glsl.MVPUniform)

	if pp.vertices, err = NewVertexArray(cloud.VertexLayout); err != nil {
		pp.Delete()
		return nil, err
	}
	if pp.xyzrgb, err = NewVertexArray(cloud.XYZRGBLayout); err != nil {
		pp.Delete()
		return nil, err
	}
	return pp, nil
}

// DrawVertices uploads vs and draws them as points.
func (pp *PointProgram) DrawVertices(vs []cloud.Vertex, mvp mgl32.Mat4) error {
	if len(vs) == 0 {
		return nil
	}
	return pp.draw(pp.vertices, unsafe.Pointer(&vs[0]), len(vs), mvp)
}

// DrawXYZRGB uploads a flat six-float-per-point buffer and draws it.
func (pp *PointProgram) DrawXYZRGB(buf []float32, mvp mgl32.Mat4) error {
	n, err := cloud.PointCount(buf)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}
	return pp.draw(pp.xyzrgb, unsafe.Pointer(&buf[0]), n, mvp)
}

func (pp *PointProgram) draw(va *VertexArray, data unsafe.Pointer, count int, mvp mgl32.Mat4) error {
	va.Bind()
	pp.program.Bind()
	defer func() {
		pp.program.Unbind()
		va.Unbind()
	}()

	if err := va.Upload(data, count); err != nil {
		return err
	}

	gl.UniformMatrix4fv(pp.mvpLocation, 1, false, &mvp[0])
	gl.DrawArrays(gl.POINTS, 0, int32(count))

	if err := checkError(fmt.Sprintf("draw %d %s points", count, va.Layout().Name)); err != nil {
		return err
	}
	return nil
}

func (pp *PointProgram) Delete() {
	if pp.vertices != nil {
		pp.vertices.Delete()
	}
	if pp.xyzrgb != nil {
		pp.xyzrgb.Delete()
	}
	if pp.program != nil {
		pp.program.Delete()
	}
}

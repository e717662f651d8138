package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/san-kum/pclview/internal/gfx/glsl"
)

// Shader is one compiled shader stage.
type Shader struct {
	id   uint32
	kind uint32
}

// CompileShader compiles source as a shader of the given kind
// (gl.VERTEX_SHADER or gl.FRAGMENT_SHADER). On failure the returned error
// wraps ErrCompile and carries a numbered listing of the source.
func CompileShader(kind uint32, source string) (*Shader, error) {
	s := &Shader{id: gl.CreateShader(kind), kind: kind}

	csources, free := gl.Strs(source + "\x00")
	gl.ShaderSource(s.id, 1, csources, nil)
	free()
	gl.CompileShader(s.id)

	var status int32
	gl.GetShaderiv(s.id, gl.COMPILE_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetShaderiv(s.id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetShaderInfoLog(s.id, logLength, nil, gl.Str(log))
		s.Delete()
		return nil, fmt.Errorf("%w (%s):\n%s", ErrCompile, stageName(kind), glsl.Annotate(source, log))
	}

	return s, nil
}

func (s *Shader) ID() uint32 { return s.id }

func (s *Shader) Delete() {
	if s.id == 0 {
		return
	}
	gl.DeleteShader(s.id)
	s.id = 0
}

func stageName(kind uint32) string {
	switch kind {
	case gl.VERTEX_SHADER:
		return "vertex"
	case gl.FRAGMENT_SHADER:
		return "fragment"
	default:
		return fmt.Sprintf("stage 0x%x", kind)
	}
}

package gfx

import (
	"fmt"
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Program is a linked vertex + fragment shader pair.
type Program struct {
	id    uint32
	bound bool
}

// NewProgram compiles both stages and links them. The intermediate shader
// objects are released whether or not linking succeeds.
func NewProgram(vertSource, fragSource string) (*Program, error) {
	vert, err := CompileShader(gl.VERTEX_SHADER, vertSource)
	if err != nil {
		return nil, err
	}
	defer vert.Delete()

	frag, err := CompileShader(gl.FRAGMENT_SHADER, fragSource)
	if err != nil {
		return nil, err
	}
	defer frag.Delete()

	p := &Program{id: gl.CreateProgram()}
	gl.AttachShader(p.id, vert.ID())
	gl.AttachShader(p.id, frag.ID())
	gl.LinkProgram(p.id)
	gl.DetachShader(p.id, vert.ID())
	gl.DetachShader(p.id, frag.ID())

	var status int32
	gl.GetProgramiv(p.id, gl.LINK_STATUS, &status)
	if status == gl.FALSE {
		var logLength int32
		gl.GetProgramiv(p.id, gl.INFO_LOG_LENGTH, &logLength)
		log := strings.Repeat("\x00", int(logLength+1))
		gl.GetProgramInfoLog(p.id, logLength, nil, gl.Str(log))
		p.Delete()
		return nil, fmt.Errorf("%w: %s", ErrLink, strings.TrimRight(log, "\x00\n"))
	}

	if err := checkError("link program"); err != nil {
		p.Delete()
		return nil, err
	}
	return p, nil
}

func (p *Program) Bind() {
	gl.UseProgram(p.id)
	p.bound = true
}

func (p *Program) Unbind() {
	gl.UseProgram(0)
	p.bound = false
}

func (p *Program) Bound() bool { return p.bound }

// UniformLocation returns -1 when the uniform does not exist or was
// optimized out by the driver.
func (p *Program) UniformLocation(name string) int32 {
	return gl.GetUniformLocation(p.id, gl.Str(name+"\x00"))
}

func (p *Program) Delete() {
	if p.id == 0 {
		return
	}
	gl.DeleteProgram(p.id)
	p.id = 0
	p.bound = false
}

package gfx

import (
	"errors"
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

var (
	ErrCompile      = errors.New("gfx: shader compilation failed")
	ErrLink         = errors.New("gfx: program link failed")
	ErrNoWindow     = errors.New("gfx: window has been destroyed")
	ErrBadLayout    = errors.New("gfx: vertex array does not match layout")
	ErrGLInit       = errors.New("gfx: failed to load OpenGL functions")
	ErrWindowCreate = errors.New("gfx: failed to create window")
)

// GLError is a non-zero code reported by glGetError.
type GLError struct {
	Op   string
	Code uint32
}

func (e *GLError) Error() string {
	return fmt.Sprintf("gfx: %s: gl error 0x%04x", e.Op, e.Code)
}

// checkError drains the GL error queue and reports the first code found.
func checkError(op string) error {
	var first uint32
	for code := gl.GetError(); code != gl.NO_ERROR; code = gl.GetError() {
		if first == 0 {
			first = code
		}
	}
	if first != 0 {
		return &GLError{Op: op, Code: first}
	}
	return nil
}

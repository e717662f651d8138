package gfx

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// InputListener receives pointer input forwarded by a Window.
type InputListener interface {
	Drag(dx, dy float64)
	Scroll(offset float64)
	Reset()
}

type WindowConfig struct {
	Title     string
	Width     int
	Height    int
	Samples   int
	Maximized bool
	Visible   bool
	VSync     bool
}

// Window owns a GLFW window and its GL context.
type Window struct {
	win      *glfw.Window
	listener InputListener
	dragging bool
	lastX    float64
	lastY    float64
}

// NewWindow creates the window, makes its context current and loads the GL
// function pointers. glfw.Init must have been called.
func NewWindow(cfg WindowConfig) (*Window, error) {
	glfw.DefaultWindowHints()
	glfw.WindowHint(glfw.Maximized, boolHint(cfg.Maximized))
	glfw.WindowHint(glfw.Visible, boolHint(cfg.Visible))
	glfw.WindowHint(glfw.Samples, cfg.Samples)
	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)

	win, err := glfw.CreateWindow(cfg.Width, cfg.Height, cfg.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrWindowCreate, err)
	}

	w := &Window{win: win}
	win.SetKeyCallback(w.onKey)
	win.SetMouseButtonCallback(w.onMouseButton)
	win.SetCursorPosCallback(w.onCursorPos)
	win.SetScrollCallback(w.onScroll)

	win.MakeContextCurrent()
	if err := gl.Init(); err != nil {
		win.Destroy()
		return nil, fmt.Errorf("%w: %v", ErrGLInit, err)
	}
	if cfg.VSync {
		glfw.SwapInterval(1)
	}

	gl.Enable(gl.DEPTH_TEST)
	if cfg.Samples > 0 {
		gl.Enable(gl.MULTISAMPLE)
	}

	return w, nil
}

// SetListener routes drag, scroll and reset input to l. A nil listener
// disables forwarding.
func (w *Window) SetListener(l InputListener) { w.listener = l }

func (w *Window) MakeCurrent() error {
	if w.win == nil {
		return ErrNoWindow
	}
	w.win.MakeContextCurrent()
	return nil
}

func (w *Window) SwapBuffers() {
	if w.win != nil {
		w.win.SwapBuffers()
	}
}

func (w *Window) SetTitle(title string) {
	if w.win != nil {
		w.win.SetTitle(title)
	}
}

func (w *Window) Size() (width, height int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetSize()
}

func (w *Window) FramebufferSize() (width, height int) {
	if w.win == nil {
		return 0, 0
	}
	return w.win.GetFramebufferSize()
}

// ShouldClose reports true once the window is gone.
func (w *Window) ShouldClose() bool {
	if w.win == nil {
		return true
	}
	return w.win.ShouldClose()
}

func (w *Window) SetShouldClose(v bool) {
	if w.win != nil {
		w.win.SetShouldClose(v)
	}
}

func (w *Window) Destroy() {
	if w.win == nil {
		return
	}
	w.win.Destroy()
	w.win = nil
}

func (w *Window) onKey(win *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		win.SetShouldClose(true)
	case glfw.KeyR:
		if w.listener != nil {
			w.listener.Reset()
		}
	}
}

func (w *Window) onMouseButton(win *glfw.Window, button glfw.MouseButton, action glfw.Action, _ glfw.ModifierKey) {
	if button != glfw.MouseButtonLeft {
		return
	}
	w.dragging = action == glfw.Press
	if w.dragging {
		w.lastX, w.lastY = win.GetCursorPos()
	}
}

func (w *Window) onCursorPos(_ *glfw.Window, x, y float64) {
	if !w.dragging {
		return
	}
	dx, dy := x-w.lastX, y-w.lastY
	w.lastX, w.lastY = x, y
	if w.listener != nil {
		w.listener.Drag(dx, dy)
	}
}

func (w *Window) onScroll(_ *glfw.Window, _, yoff float64) {
	if w.listener != nil {
		w.listener.Scroll(yoff)
	}
}

func boolHint(v bool) int {
	if v {
		return glfw.True
	}
	return glfw.False
}

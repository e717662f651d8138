package viewer

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"
	"github.com/san-kum/pclview/internal/camera"
	"github.com/san-kum/pclview/internal/cloud"
	"github.com/san-kum/pclview/internal/gfx"
	"github.com/san-kum/pclview/internal/logging"
)

var ErrDestroyed = errors.New("viewer: used after Destroy")

// Default transforms: a 45° perspective and a camera at (2, 2, 3) looking
// at the origin with +Y up.
var (
	DefaultProjection = mgl32.Perspective(mgl32.DegToRad(45), 1, 0.01, 100)
	DefaultView       = mgl32.LookAtV(mgl32.Vec3{2, 2, 3}, mgl32.Vec3{0, 0, 0}, mgl32.Vec3{0, 1, 0})
)

// GlobalInit initializes GLFW. It must be called once, from the main
// thread, before any Viewer is created.
func GlobalInit() error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("viewer: glfw init: %w", err)
	}
	return nil
}

// GlobalCleanup releases GLFW. All viewers must be destroyed first.
func GlobalCleanup() {
	glfw.Terminate()
}

type Viewer struct {
	window *gfx.Window
	points *gfx.PointProgram
	camera *camera.Controller
	fanout *logging.Fanout
	log    *slog.Logger

	background mgl32.Vec4
	pointSize  float32
	model      mgl32.Mat4
	view       mgl32.Mat4
	projection mgl32.Mat4
}

// New opens a window titled title and prepares the point pipeline.
func New(title string, opts ...Option) (*Viewer, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	fanout := logging.NewFanout()
	for _, h := range o.handlers {
		fanout.Add(h)
	}

	v := &Viewer{
		camera:     camera.NewController(),
		fanout:     fanout,
		log:        slog.New(fanout).With("component", "viewer"),
		background: o.background,
		pointSize:  o.pointSize,
		model:      mgl32.Ident4(),
		view:       DefaultView,
		projection: DefaultProjection,
	}

	win, err := gfx.NewWindow(gfx.WindowConfig{
		Title:     title,
		Width:     o.width,
		Height:    o.height,
		Samples:   o.samples,
		Maximized: o.maximized,
		Visible:   o.visible,
		VSync:     o.vsync,
	})
	if err != nil {
		v.log.Error("window creation failed", "err", err)
		return nil, err
	}
	v.window = win
	win.SetListener(v.camera)

	vendor, renderer, version := gfx.RendererInfo()
	v.log.Info("context created", "vendor", vendor, "renderer", renderer, "version", version)

	points, err := gfx.NewPointProgram()
	if err != nil {
		v.log.Error("point program setup failed", "err", err)
		win.Destroy()
		return nil, err
	}
	v.points = points

	return v, nil
}

// Destroy releases GL objects and closes the window. Calling it more than
// once, or on a nil Viewer, is a no-op.
func (v *Viewer) Destroy() {
	if v == nil || v.window == nil {
		return
	}
	if err := v.window.MakeCurrent(); err == nil && v.points != nil {
		v.points.Delete()
	}
	v.points = nil
	v.window.Destroy()
	v.window = nil
	v.log.Debug("destroyed")
}

// AddLogger attaches another handler. Every message is sent to all of them.
func (v *Viewer) AddLogger(h slog.Handler) {
	v.fanout.Add(h)
}

func (v *Viewer) Logger() *slog.Logger { return v.log }

func (v *Viewer) SetWindowTitle(title string) {
	if v.window != nil {
		v.window.SetTitle(title)
	}
}

// SetCameraControlsEnabled turns mouse orbit and zoom on or off. Controls
// are on by default.
func (v *Viewer) SetCameraControlsEnabled(enabled bool) {
	v.camera.SetEnabled(enabled)
}

func (v *Viewer) Camera() *camera.Controller { return v.camera }

// BeginFrame makes the window context current, clears color and depth to
// the background color and sets the viewport to the framebuffer size.
func (v *Viewer) BeginFrame() error {
	if v.window == nil {
		return ErrDestroyed
	}
	if err := v.window.MakeCurrent(); err != nil {
		return err
	}
	w, h := v.window.FramebufferSize()
	gfx.SetPointSize(v.pointSize)
	if err := gfx.ClearFrame(v.background, w, h); err != nil {
		v.log.Error("begin frame failed", "err", err)
		return err
	}
	return nil
}

// RenderVertices uploads vs and draws them as points.
func (v *Viewer) RenderVertices(vs []cloud.Vertex) error {
	if v.points == nil {
		return ErrDestroyed
	}
	if err := v.points.DrawVertices(vs, v.MVP()); err != nil {
		v.log.Error("render failed", "format", "vertex", "points", len(vs), "err", err)
		return err
	}
	return nil
}

// RenderXYZRGB draws a buffer of six floats per point: xyz then rgb.
func (v *Viewer) RenderXYZRGB(buf []float32) error {
	if v.points == nil {
		return ErrDestroyed
	}
	if err := v.points.DrawXYZRGB(buf, v.MVP()); err != nil {
		v.log.Error("render failed", "format", "xyzrgb", "floats", len(buf), "err", err)
		return err
	}
	return nil
}

// EndFrame swaps buffers, presenting what was drawn since BeginFrame.
func (v *Viewer) EndFrame() {
	if v.window != nil {
		v.window.SwapBuffers()
	}
}

// WindowSize is in screen coordinates, which may differ from pixels on
// high-DPI displays; see FramebufferSize.
func (v *Viewer) WindowSize() (width, height int) {
	if v.window == nil {
		return 0, 0
	}
	return v.window.Size()
}

func (v *Viewer) FramebufferSize() (width, height int) {
	if v.window == nil {
		return 0, 0
	}
	return v.window.FramebufferSize()
}

func (v *Viewer) SetBackground(r, g, b, a float32) {
	v.background = mgl32.Vec4{r, g, b, a}
}

func (v *Viewer) SetPointSize(size float32) {
	v.pointSize = size
}

func (v *Viewer) SetModelTransform(m mgl32.Mat4)      { v.model = m }
func (v *Viewer) SetViewTransform(m mgl32.Mat4)       { v.view = m }
func (v *Viewer) SetProjectionTransform(m mgl32.Mat4) { v.projection = m }

// LookAt sets the view transform from a camera position, a target point
// and an up direction.
func (v *Viewer) LookAt(eye, center, up mgl32.Vec3) {
	v.SetViewTransform(mgl32.LookAtV(eye, center, up))
}

// SetPerspective sets a perspective projection whose aspect ratio follows
// the current framebuffer. Call it every frame to track window resizes.
func (v *Viewer) SetPerspective(fovy, near, far float32) {
	w, h := v.FramebufferSize()
	v.SetProjectionTransform(camera.Perspective(fovy, float32(w), float32(h), near, far))
}

// MVP returns projection × view × camera × model.
func (v *Viewer) MVP() mgl32.Mat4 {
	return v.projection.Mul4(v.view).Mul4(v.camera.Matrix()).Mul4(v.model)
}

// PollInput processes pending window events. It must be called regularly
// for the window to stay responsive.
func (v *Viewer) PollInput() {
	glfw.PollEvents()
}

// ShouldClose reports whether the user asked to close the window, by the
// close button or the Escape key.
func (v *Viewer) ShouldClose() bool {
	if v.window == nil {
		return true
	}
	return v.window.ShouldClose()
}

func (v *Viewer) RequestClose() {
	if v.window != nil {
		v.window.SetShouldClose(true)
	}
}

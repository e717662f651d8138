// Package camera implements the interactive orbit controls applied on top of
// the caller's view transform, plus helpers for matrices given as raw floats.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	// DragSensitivity is radians of rotation per pixel of pointer travel.
	DragSensitivity = 0.005
	// ZoomStep is the scale factor applied per scroll notch.
	ZoomStep = 1.1

	MinZoom = 0.05
	MaxZoom = 50

	maxPitch = math.Pi/2 - 0.01
)

// Controller tracks an orbit rotation and zoom driven by pointer input.
// While disabled it ignores input and its Matrix is the identity.
type Controller struct {
	enabled bool
	yaw     float64
	pitch   float64
	zoom    float64
}

func NewController() *Controller {
	return &Controller{enabled: true, zoom: 1}
}

func (c *Controller) SetEnabled(enabled bool) { c.enabled = enabled }
func (c *Controller) Enabled() bool           { return c.enabled }

func (c *Controller) Yaw() float64   { return c.yaw }
func (c *Controller) Pitch() float64 { return c.pitch }
func (c *Controller) Zoom() float64  { return c.zoom }

// Drag rotates the orbit by a pointer displacement in pixels.
func (c *Controller) Drag(dx, dy float64) {
	if !c.enabled {
		return
	}
	c.yaw = math.Mod(c.yaw+dx*DragSensitivity, 2*math.Pi)
	c.pitch = clamp(c.pitch+dy*DragSensitivity, -maxPitch, maxPitch)
}

// Scroll zooms in for positive offsets and out for negative ones.
func (c *Controller) Scroll(offset float64) {
	if !c.enabled {
		return
	}
	c.zoom = clamp(c.zoom*math.Pow(ZoomStep, offset), MinZoom, MaxZoom)
}

func (c *Controller) Reset() {
	c.yaw, c.pitch, c.zoom = 0, 0, 1
}

// Matrix returns the transform inserted between the view and model
// transforms: a uniform zoom applied after pitch and yaw about the origin.
func (c *Controller) Matrix() mgl32.Mat4 {
	if !c.enabled {
		return mgl32.Ident4()
	}
	rot := mgl32.HomogRotate3DX(float32(c.pitch)).Mul4(mgl32.HomogRotate3DY(float32(c.yaw)))
	z := float32(c.zoom)
	return mgl32.Scale3D(z, z, z).Mul4(rot)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

package viewer

import (
	"log/slog"

	"github.com/go-gl/mathgl/mgl32"
)

const (
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultSamples   = 4
	DefaultPointSize = 1
)

type options struct {
	width      int
	height     int
	samples    int
	maximized  bool
	visible    bool
	vsync      bool
	pointSize  float32
	background mgl32.Vec4
	handlers   []slog.Handler
}

func defaultOptions() options {
	return options{
		width:      DefaultWidth,
		height:     DefaultHeight,
		samples:    DefaultSamples,
		maximized:  true,
		visible:    true,
		vsync:      true,
		pointSize:  DefaultPointSize,
		background: mgl32.Vec4{0, 0, 0, 1},
	}
}

type Option func(*options)

func WithSize(width, height int) Option {
	return func(o *options) { o.width, o.height = width, height }
}

// WithSamples sets the multisample count; 0 disables MSAA.
func WithSamples(n int) Option {
	return func(o *options) { o.samples = n }
}

func WithMaximized(v bool) Option {
	return func(o *options) { o.maximized = v }
}

// WithHidden creates the window without showing it.
func WithHidden() Option {
	return func(o *options) { o.visible = false }
}

func WithVSync(v bool) Option {
	return func(o *options) { o.vsync = v }
}

func WithPointSize(size float32) Option {
	return func(o *options) { o.pointSize = size }
}

func WithBackground(r, g, b, a float32) Option {
	return func(o *options) { o.background = mgl32.Vec4{r, g, b, a} }
}

// WithLogger attaches h before the window is created, so creation
// diagnostics reach it.
func WithLogger(h slog.Handler) Option {
	return func(o *options) { o.handlers = append(o.handlers, h) }
}

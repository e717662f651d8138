package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTitle     = "Example Point Cloud"
	DefaultWidth     = 640
	DefaultHeight    = 480
	DefaultSamples   = 4
	DefaultPointSize = 1.0
	DefaultFovyDeg   = 45.0
	DefaultNear      = 0.01
	DefaultFar       = 10.0
	DefaultPoints    = 2000
	DefaultSeed      = 1234
	DefaultDt        = 1.0
	DefaultGravity   = 1.0e-9
	DefaultSmooth    = 1.0e-3
	DefaultBackend   = "cpu"
)

var ErrInvalid = errors.New("config: invalid value")

type Config struct {
	Window     WindowConfig     `yaml:"window"`
	Camera     CameraConfig     `yaml:"camera"`
	Simulation SimulationConfig `yaml:"simulation"`
	Record     RecordConfig     `yaml:"record"`
}

type WindowConfig struct {
	Title      string     `yaml:"title"`
	Width      int        `yaml:"width"`
	Height     int        `yaml:"height"`
	Samples    int        `yaml:"samples"`
	Maximized  bool       `yaml:"maximized"`
	VSync      bool       `yaml:"vsync"`
	PointSize  float32    `yaml:"point_size"`
	Background [4]float32 `yaml:"background,flow"`
}

type CameraConfig struct {
	Eye      [3]float32 `yaml:"eye,flow"`
	Center   [3]float32 `yaml:"center,flow"`
	Up       [3]float32 `yaml:"up,flow"`
	FovyDeg  float32    `yaml:"fovy_deg"`
	Near     float32    `yaml:"near"`
	Far      float32    `yaml:"far"`
	Controls bool       `yaml:"controls"`
}

type SimulationConfig struct {
	Points  int     `yaml:"points"`
	Seed    int64   `yaml:"seed"`
	Dt      float32 `yaml:"dt"`
	Gravity float32 `yaml:"gravity"`
	Smooth  float32 `yaml:"smooth"`
	Backend string  `yaml:"backend"`
	Workers int     `yaml:"workers"`
	// Steps bounds headless runs; 0 means until interrupted.
	Steps int `yaml:"steps"`
}

// RecordConfig controls frame capture. Every is the step interval between
// saved frames; 0 disables recording.
type RecordConfig struct {
	Dir   string `yaml:"dir"`
	Every int    `yaml:"every"`
}

func DefaultConfig() *Config {
	return &Config{
		Window: WindowConfig{
			Title:      DefaultTitle,
			Width:      DefaultWidth,
			Height:     DefaultHeight,
			Samples:    DefaultSamples,
			Maximized:  true,
			VSync:      true,
			PointSize:  DefaultPointSize,
			Background: [4]float32{0, 0, 0, 1},
		},
		Camera: CameraConfig{
			Eye:      [3]float32{2, 2, 3},
			Center:   [3]float32{0, 0, 0},
			Up:       [3]float32{0, 1, 0},
			FovyDeg:  DefaultFovyDeg,
			Near:     DefaultNear,
			Far:      DefaultFar,
			Controls: true,
		},
		Simulation: SimulationConfig{
			Points:  DefaultPoints,
			Seed:    DefaultSeed,
			Dt:      DefaultDt,
			Gravity: DefaultGravity,
			Smooth:  DefaultSmooth,
			Backend: DefaultBackend,
		},
		Record: RecordConfig{
			Dir: ".pclview",
		},
	}
}

// Load reads a YAML file over the defaults, so omitted keys keep their
// default values.
func Load(path string) (*Config, error) {
	return LoadOver(path, DefaultConfig())
}

// LoadOver reads a YAML file over base, typically a preset. Keys the file
// omits keep base's values. base itself is not modified.
func LoadOver(path string, base *Config) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := *base
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func (c *Config) Validate() error {
	switch {
	case c.Window.Width <= 0 || c.Window.Height <= 0:
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	case c.Window.Samples < 0:
		return fmt.Errorf("%w: samples %d", ErrInvalid, c.Window.Samples)
	case c.Window.PointSize <= 0:
		return fmt.Errorf("%w: point_size %v", ErrInvalid, c.Window.PointSize)
	case c.Camera.FovyDeg <= 0 || c.Camera.FovyDeg >= 180:
		return fmt.Errorf("%w: fovy_deg %v", ErrInvalid, c.Camera.FovyDeg)
	case c.Camera.Near <= 0 || c.Camera.Far <= c.Camera.Near:
		return fmt.Errorf("%w: near %v far %v", ErrInvalid, c.Camera.Near, c.Camera.Far)
	case c.Simulation.Points < 0:
		return fmt.Errorf("%w: points %d", ErrInvalid, c.Simulation.Points)
	case c.Simulation.Dt <= 0:
		return fmt.Errorf("%w: dt %v", ErrInvalid, c.Simulation.Dt)
	case c.Simulation.Gravity < 0:
		return fmt.Errorf("%w: gravity %v", ErrInvalid, c.Simulation.Gravity)
	case c.Simulation.Smooth < 0:
		return fmt.Errorf("%w: smooth %v", ErrInvalid, c.Simulation.Smooth)
	case c.Simulation.Steps < 0:
		return fmt.Errorf("%w: steps %d", ErrInvalid, c.Simulation.Steps)
	case c.Record.Every < 0:
		return fmt.Errorf("%w: record every %d", ErrInvalid, c.Record.Every)
	}
	return nil
}

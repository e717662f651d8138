package config

import "sort"

// Presets are simulation setups that differ from the defaults only in the
// fields they name.
var Presets = map[string]func(*Config){
	"default": func(c *Config) {},
	"small": func(c *Config) {
		c.Simulation.Points = 200
	},
	"collapse": func(c *Config) {
		c.Simulation.Points = 1000
		c.Simulation.Gravity = 1e-6
		c.Camera.Eye = [3]float32{1.5, 1.5, 2.2}
	},
	"dense": func(c *Config) {
		c.Simulation.Points = 5000
		c.Simulation.Gravity = 1e-8
		c.Window.PointSize = 2
	},
	"slow": func(c *Config) {
		c.Simulation.Points = 2000
		c.Simulation.Dt = 0.25
		c.Simulation.Gravity = 1e-6
	},
}

// GetPreset returns a fresh config with the named preset applied, or nil if
// there is no such preset.
func GetPreset(name string) *Config {
	apply, ok := Presets[name]
	if !ok {
		return nil
	}
	cfg := DefaultConfig()
	apply(cfg)
	return cfg
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

package config

import "sort"

func withEmitters(name string, mutate func(*Config), emitters ...EmitterConfig) *Config {
	cfg := DefaultConfig()
	cfg.Name = name
	if mutate != nil {
		mutate(cfg)
	}
	cfg.Emitters = emitters
	return cfg
}

var Presets = map[string]*Config{
	"smoke": withEmitters("smoke", nil,
		EmitterConfig{Kind: "point", X: 64, Y: 16, Density: 4, VY: 4, Stop: 120},
	),
	"ink": withEmitters("ink", func(c *Config) {
		c.Grid.Diffusion = 0
		c.Grid.Fade = 1
	},
		EmitterConfig{Kind: "swirl", X: 64, Y: 64, Density: 4, Speed: 5, Rate: 0.1, Stop: 200},
	),
	"viscous": withEmitters("viscous", func(c *Config) {
		c.Grid.Viscosity = 0.01
	},
		EmitterConfig{Kind: "point", X: 32, Y: 64, Density: 4, VX: 8, Stop: 60},
	),
	"plume": withEmitters("plume", nil,
		EmitterConfig{Kind: "jet", X: 56, Y: 4, Length: 16, Axis: "horizontal", Density: 2, VY: 6},
	),
	"storm": withEmitters("storm", func(c *Config) {
		c.Render.Colormap = "turbo"
	},
		EmitterConfig{Kind: "random", Density: 4, Speed: 10, Every: 5, Seed: 7},
	),
	"collide": withEmitters("collide", func(c *Config) {
		c.Render.Colormap = "inferno"
	},
		EmitterConfig{Kind: "point", X: 20, Y: 64, Density: 4, VX: 6, Stop: 80},
		EmitterConfig{Kind: "point", X: 107, Y: 64, Density: 4, VX: -6, Stop: 80},
	),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

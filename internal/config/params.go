package config

import (
	"fmt"
	"sort"
)

var tunables = map[string]func(c *Config, v float64){
	"size":       func(c *Config, v float64) { c.Resize(int(v)) },
	"dt":         func(c *Config, v float64) { c.Grid.Dt = v },
	"diffusion":  func(c *Config, v float64) { c.Grid.Diffusion = v },
	"viscosity":  func(c *Config, v float64) { c.Grid.Viscosity = v },
	"iterations": func(c *Config, v float64) { c.Grid.Iterations = int(v) },
	"fade":       func(c *Config, v float64) { c.Grid.Fade = v },
	"ticks":      func(c *Config, v float64) { c.Run.Ticks = int(v) },
}

// Set assigns a numeric parameter by name.
func (c *Config) Set(name string, v float64) error {
	fn, ok := tunables[name]
	if !ok {
		return fmt.Errorf("unknown parameter: %s", name)
	}
	fn(c, v)
	return nil
}

// Tunables lists the parameter names accepted by Set.
func Tunables() []string {
	names := make([]string, 0, len(tunables))
	for name := range tunables {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

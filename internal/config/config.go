package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/fluidsim/internal/fluid"
)

const (
	DefaultTicks              = 300
	DefaultSampleEvery        = 1
	DefaultScale              = 6
	DefaultFPS                = 60
	DefaultColormap           = "white"
	DefaultTheme              = "dark"
	DefaultDensityAmount      = 4.0
	DefaultVelocityMultiplier = 0.1
)

type Config struct {
	Name     string          `yaml:"name,omitempty"`
	Grid     GridConfig      `yaml:"grid"`
	Run      RunConfig       `yaml:"run"`
	Render   RenderConfig    `yaml:"render"`
	Input    InputConfig     `yaml:"input"`
	Emitters []EmitterConfig `yaml:"emitters,omitempty"`
}

type GridConfig struct {
	Size        int     `yaml:"size"`
	Dt          float64 `yaml:"dt"`
	Diffusion   float64 `yaml:"diffusion"`
	Viscosity   float64 `yaml:"viscosity"`
	Iterations  int     `yaml:"iterations"`
	Fade        float64 `yaml:"fade"`
	Sweep       string  `yaml:"sweep"`
	Injection   string  `yaml:"injection"`
	Workers     int     `yaml:"workers"`
	CheckHealth bool    `yaml:"check_health"`
}

type RunConfig struct {
	Ticks       int   `yaml:"ticks"`
	Seed        int64 `yaml:"seed"`
	SampleEvery int   `yaml:"sample_every"`
	Fade        bool  `yaml:"fade"`
	Validate    bool  `yaml:"validate"`
}

type RenderConfig struct {
	Colormap string `yaml:"colormap"`
	Scale    int    `yaml:"scale"`
	FPS      int    `yaml:"fps"`
	Theme    string `yaml:"theme"`
}

type InputConfig struct {
	DensityAmount      float64 `yaml:"density_amount"`
	VelocityMultiplier float64 `yaml:"velocity_multiplier"`
}

// EmitterConfig describes one forcing source. Which fields matter
// depends on Kind.
type EmitterConfig struct {
	Kind    string  `yaml:"kind"`
	X       int     `yaml:"x"`
	Y       int     `yaml:"y"`
	Density float64 `yaml:"density"`
	VX      float64 `yaml:"vx"`
	VY      float64 `yaml:"vy"`
	Speed   float64 `yaml:"speed,omitempty"`
	Rate    float64 `yaml:"rate,omitempty"`
	Length  int     `yaml:"length,omitempty"`
	Axis    string  `yaml:"axis,omitempty"`
	Every   int     `yaml:"every,omitempty"`
	Start   int     `yaml:"start,omitempty"`
	Stop    int     `yaml:"stop,omitempty"`
	Seed    int64   `yaml:"seed,omitempty"`
}

func DefaultConfig() *Config {
	return &Config{
		Grid: GridConfig{
			Size:       fluid.DefaultSize,
			Dt:         fluid.DefaultDt,
			Diffusion:  fluid.DefaultDiffusion,
			Viscosity:  fluid.DefaultViscosity,
			Iterations: fluid.DefaultIterations,
			Fade:       fluid.DefaultFadeRate,
			Sweep:      fluid.Lexicographic.String(),
			Injection:  fluid.Staged.String(),
		},
		Run: RunConfig{
			Ticks:       DefaultTicks,
			SampleEvery: DefaultSampleEvery,
			Fade:        true,
		},
		Render: RenderConfig{
			Colormap: DefaultColormap,
			Scale:    DefaultScale,
			FPS:      DefaultFPS,
			Theme:    DefaultTheme,
		},
		Input: InputConfig{
			DensityAmount:      DefaultDensityAmount,
			VelocityMultiplier: DefaultVelocityMultiplier,
		},
		Emitters: DefaultEmitters(fluid.DefaultSize),
	}
}

// DefaultEmitters is a single steady impulse at the centre of a size×size
// grid, the headless stand-in for holding the mouse there.
func DefaultEmitters(size int) []EmitterConfig {
	c := size / 2
	return []EmitterConfig{
		{Kind: "point", X: c, Y: c, Density: DefaultDensityAmount, VY: 1},
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	cfg.Emitters = nil
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if cfg.Emitters == nil {
		cfg.Emitters = DefaultEmitters(cfg.Grid.Size)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// GridSpec converts the grid section into solver parameters.
func (c *Config) GridSpec() (fluid.Grid, error) {
	sweep, err := fluid.ParseOrdering(c.Grid.Sweep)
	if err != nil {
		return fluid.Grid{}, err
	}
	injection, err := fluid.ParseInjection(c.Grid.Injection)
	if err != nil {
		return fluid.Grid{}, err
	}
	g := fluid.Grid{
		N:           c.Grid.Size,
		Dt:          c.Grid.Dt,
		Diffusion:   c.Grid.Diffusion,
		Viscosity:   c.Grid.Viscosity,
		Iterations:  c.Grid.Iterations,
		FadeRate:    c.Grid.Fade,
		Sweep:       sweep,
		Injection:   injection,
		Workers:     c.Grid.Workers,
		CheckHealth: c.Grid.CheckHealth,
	}
	return g, g.Validate()
}

func (c *Config) Validate() error {
	if _, err := c.GridSpec(); err != nil {
		return err
	}
	if c.Run.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", c.Run.Ticks)
	}
	if c.Run.SampleEvery < 1 {
		return fmt.Errorf("sample_every must be at least 1, got %d", c.Run.SampleEvery)
	}
	if c.Render.Scale < 1 {
		return fmt.Errorf("render scale must be at least 1, got %d", c.Render.Scale)
	}
	for i, e := range c.Emitters {
		if e.Kind == "" {
			return fmt.Errorf("emitter %d: missing kind", i)
		}
		if err := e.checkBounds(c.Grid.Size); err != nil {
			return fmt.Errorf("emitter %d: %w", i, err)
		}
	}
	return nil
}

// Resize changes the grid size and moves emitters to the same relative
// position on the new grid.
func (c *Config) Resize(size int) {
	from := c.Grid.Size
	c.Grid.Size = size
	if from == size || from < 3 || size < 3 {
		return
	}
	for i := range c.Emitters {
		c.Emitters[i] = c.Emitters[i].rescale(from, size)
	}
}

func (e EmitterConfig) horizontal() bool {
	return e.Axis == "horizontal" || e.Axis == "x"
}

// checkBounds rejects fixed-position emitters that would write outside an
// n×n grid. Random emitters choose their own cells.
func (e EmitterConfig) checkBounds(n int) error {
	g := fluid.Grid{N: n}
	cells := [][2]int{{e.X, e.Y}}
	switch e.Kind {
	case "point", "swirl":
	case "jet":
		end := [2]int{e.X, e.Y + e.Length - 1}
		if e.horizontal() {
			end = [2]int{e.X + e.Length - 1, e.Y}
		}
		cells = append(cells, end)
	default:
		return nil
	}
	for _, p := range cells {
		if !g.InBounds(p[0], p[1]) {
			return &fluid.CoordError{X: p[0], Y: p[1], N: n}
		}
	}
	return nil
}

func (e EmitterConfig) rescale(from, to int) EmitterConfig {
	interior := func(v int) int {
		return max(1, min(v*to/from, to-2))
	}
	e.X, e.Y = interior(e.X), interior(e.Y)
	if e.Length > 0 {
		e.Length = max(1, e.Length*to/from)
		room := to - 1 - e.Y
		if e.horizontal() {
			room = to - 1 - e.X
		}
		e.Length = min(e.Length, room)
	}
	return e
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.Emitters = append([]EmitterConfig(nil), c.Emitters...)
	return &out
}

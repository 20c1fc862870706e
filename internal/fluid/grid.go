package fluid

import "math"

const (
	DefaultSize       = 128
	DefaultDt         = 0.1
	DefaultDiffusion  = 0.0001
	DefaultViscosity  = 0.0001
	DefaultIterations = 20
	DefaultFadeRate   = 0.99
)

// Ordering selects how a relaxation sweep visits interior cells.
type Ordering int

const (
	// Lexicographic updates cells in place, row by row with x fastest.
	// Later cells see earlier updates from the same sweep. Single-threaded.
	Lexicographic Ordering = iota
	// RedBlack updates a checkerboard colouring in two half-sweeps. Each
	// half-sweep reads only cells of the other colour, so rows fan out.
	RedBlack
)

func (o Ordering) String() string {
	switch o {
	case Lexicographic:
		return "lexicographic"
	case RedBlack:
		return "red-black"
	default:
		return "unknown"
	}
}

// ParseOrdering maps a config name onto an Ordering.
func ParseOrdering(s string) (Ordering, error) {
	switch s {
	case "", "lexicographic", "lex":
		return Lexicographic, nil
	case "red-black", "redblack", "rb":
		return RedBlack, nil
	}
	return 0, &ParamError{Param: "sweep", Value: s}
}

// Injection selects where AddDensity and AddVelocity write.
type Injection int

const (
	// Staged accumulates impulses in staging buffers. The next Step adds
	// dt times the staged amount into the working fields.
	Staged Injection = iota
	// Direct adds impulses straight into the working fields, unscaled.
	Direct
)

func (m Injection) String() string {
	switch m {
	case Staged:
		return "staged"
	case Direct:
		return "direct"
	default:
		return "unknown"
	}
}

// ParseInjection maps a config name onto an Injection mode.
func ParseInjection(s string) (Injection, error) {
	switch s {
	case "", "staged":
		return Staged, nil
	case "direct":
		return Direct, nil
	}
	return 0, &ParamError{Param: "injection", Value: s}
}

// Grid holds the immutable parameters of a solver. N counts the boundary
// ring, so the interior spans 1..N-2 on both axes.
type Grid struct {
	N          int
	Dt         float64
	Diffusion  float64
	Viscosity  float64
	Iterations int
	FadeRate   float64

	Sweep     Ordering
	Injection Injection
	// Workers bounds the row fan-out. Zero means GOMAXPROCS.
	Workers int
	// CheckHealth scans every field for NaN/Inf after each stage.
	CheckHealth bool
}

// DefaultGrid returns the 128×128 configuration.
func DefaultGrid() Grid {
	return Grid{
		N:          DefaultSize,
		Dt:         DefaultDt,
		Diffusion:  DefaultDiffusion,
		Viscosity:  DefaultViscosity,
		Iterations: DefaultIterations,
		FadeRate:   DefaultFadeRate,
	}
}

// Validate reports the first parameter outside its valid range.
func (g Grid) Validate() error {
	switch {
	case g.N < 3:
		return &ParamError{Param: "size", Value: g.N}
	case !(g.Dt > 0) || math.IsInf(g.Dt, 0):
		return &ParamError{Param: "dt", Value: g.Dt}
	case g.Diffusion < 0 || math.IsNaN(g.Diffusion):
		return &ParamError{Param: "diffusion", Value: g.Diffusion}
	case g.Viscosity < 0 || math.IsNaN(g.Viscosity):
		return &ParamError{Param: "viscosity", Value: g.Viscosity}
	case g.Iterations < 1:
		return &ParamError{Param: "iterations", Value: g.Iterations}
	case !(g.FadeRate >= 0 && g.FadeRate <= 1):
		return &ParamError{Param: "fade", Value: g.FadeRate}
	case g.Workers < 0:
		return &ParamError{Param: "workers", Value: g.Workers}
	}
	return nil
}

// Idx maps a cell to its offset in a row-major field.
func (g Grid) Idx(x, y int) int {
	return x + g.N*y
}

// InBounds reports whether (x, y) addresses a cell of the grid.
func (g Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.N && y < g.N
}

// Cells is the field length.
func (g Grid) Cells() int {
	return g.N * g.N
}

// NewField allocates a zeroed field.
func (g Grid) NewField() []float64 {
	return make([]float64, g.Cells())
}

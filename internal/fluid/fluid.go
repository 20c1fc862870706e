package fluid

import (
	"fmt"

	"gonum.org/v1/gonum/floats"
)

// Stage names one of the eight phases of a step.
type Stage int

const (
	StageInject Stage = iota + 1
	StageDiffuseVelocity
	StageProjectDiffused
	StageAdvectVelocity
	StageProjectAdvected
	StageDiffuseDensity
	StageAdvectDensity
	StageClear
)

var stageNames = [...]string{
	StageInject:          "inject",
	StageDiffuseVelocity: "diffuse-velocity",
	StageProjectDiffused: "project-diffused",
	StageAdvectVelocity:  "advect-velocity",
	StageProjectAdvected: "project-advected",
	StageDiffuseDensity:  "diffuse-density",
	StageAdvectDensity:   "advect-density",
	StageClear:           "clear",
}

func (s Stage) String() string {
	if s < StageInject || s > StageClear {
		return fmt.Sprintf("stage(%d)", int(s))
	}
	return stageNames[s]
}

// Solver owns the fields of one simulation.
type Solver struct {
	grid Grid

	density []float64
	vx      []float64
	vy      []float64

	// Staging buffers. They also serve as scratch space during a step.
	density0 []float64
	vx0      []float64
	vy0      []float64

	steps int
	fault error
}

// New allocates a zeroed solver for g.
func New(g Grid) (*Solver, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return &Solver{
		grid:     g,
		density:  g.NewField(),
		vx:       g.NewField(),
		vy:       g.NewField(),
		density0: g.NewField(),
		vx0:      g.NewField(),
		vy0:      g.NewField(),
	}, nil
}

func (s *Solver) Grid() Grid { return s.grid }

// Steps returns the number of completed steps.
func (s *Solver) Steps() int { return s.steps }

// Density returns the density field. Callers must not modify it.
func (s *Solver) Density() []float64 { return s.density }

// VelocityX returns the horizontal velocity field. Callers must not modify it.
func (s *Solver) VelocityX() []float64 { return s.vx }

// VelocityY returns the vertical velocity field. Callers must not modify it.
func (s *Solver) VelocityY() []float64 { return s.vy }

// Fault returns the first health failure, or nil. It stays nil unless
// the grid was created with CheckHealth.
func (s *Solver) Fault() error { return s.fault }

// AddDensity adds amount at cell (x, y). Out-of-range cells are rejected
// with an error wrapping ErrOutOfBounds and nothing is written.
func (s *Solver) AddDensity(x, y int, amount float64) error {
	if !s.grid.InBounds(x, y) {
		return &CoordError{X: x, Y: y, N: s.grid.N}
	}
	i := s.grid.Idx(x, y)
	if s.grid.Injection == Direct {
		s.density[i] += amount
	} else {
		s.density0[i] += amount
	}
	return nil
}

// AddVelocity adds (dx, dy) at cell (x, y) under the same rules as
// AddDensity.
func (s *Solver) AddVelocity(x, y int, dx, dy float64) error {
	if !s.grid.InBounds(x, y) {
		return &CoordError{X: x, Y: y, N: s.grid.N}
	}
	i := s.grid.Idx(x, y)
	if s.grid.Injection == Direct {
		s.vx[i] += dx
		s.vy[i] += dy
	} else {
		s.vx0[i] += dx
		s.vy0[i] += dy
	}
	return nil
}

// Step advances the simulation by one time step.
func (s *Solver) Step() {
	g := s.grid
	s.steps++

	// 1. Fold staged impulses into the working fields.
	dt := g.Dt
	g.cells(func(a, b int) {
		floats.AddScaled(s.vx[a:b], dt, s.vx0[a:b])
		floats.AddScaled(s.vy[a:b], dt, s.vy0[a:b])
		floats.AddScaled(s.density[a:b], dt, s.density0[a:b])
	})
	s.check(StageInject)

	// 2. Diffused velocity lands in the staging buffers.
	Diffuse(g, VelocityX, s.vx0, s.vx, g.Viscosity)
	Diffuse(g, VelocityY, s.vy0, s.vy, g.Viscosity)
	s.check(StageDiffuseVelocity)

	// 3. The working velocity buffers are free and act as p and div.
	Project(g, s.vx0, s.vy0, s.vx, s.vy)
	s.check(StageProjectDiffused)

	// 4.
	Advect(g, VelocityX, s.vx, s.vx0, s.vx0, s.vy0)
	Advect(g, VelocityY, s.vy, s.vy0, s.vx0, s.vy0)
	s.check(StageAdvectVelocity)

	// 5.
	Project(g, s.vx, s.vy, s.vx0, s.vy0)
	s.check(StageProjectAdvected)

	// 6.
	Diffuse(g, Scalar, s.density0, s.density, g.Diffusion)
	s.check(StageDiffuseDensity)

	// 7.
	Advect(g, Scalar, s.density, s.density0, s.vx, s.vy)
	s.check(StageAdvectDensity)

	// 8.
	g.cells(func(a, b int) {
		clear(s.vx0[a:b])
		clear(s.vy0[a:b])
		clear(s.density0[a:b])
	})
}

// Fade scales every density value by the grid's fade rate.
func (s *Solver) Fade() {
	rate := s.grid.FadeRate
	s.grid.cells(func(a, b int) {
		floats.Scale(rate, s.density[a:b])
	})
}

// Tick runs one display frame: Step followed by Fade.
func (s *Solver) Tick() {
	s.Step()
	s.Fade()
}

// Reset zeroes every field and clears the step count and fault.
func (s *Solver) Reset() {
	for _, f := range [][]float64{s.density, s.vx, s.vy, s.density0, s.vx0, s.vy0} {
		clear(f)
	}
	s.steps = 0
	s.fault = nil
}

// Mass returns the total density.
func (s *Solver) Mass() float64 {
	return floats.Sum(s.density)
}

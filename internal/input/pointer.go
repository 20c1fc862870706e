// Package input maps pointer events in window pixels onto solver
// impulses.
package input

import "github.com/san-kum/fluidsim/internal/forcing"

const (
	DefaultDensityAmount      = 4.0
	DefaultVelocityMultiplier = 0.1
)

// Pointer turns press and drag events into density and velocity
// impulses. Window y grows downward; grid y grows upward.
type Pointer struct {
	target forcing.Injector
	n      int
	scale  int
	height int

	DensityAmount      float64
	VelocityMultiplier float64

	lastX, lastY int
	down         bool
}

// NewPointer binds a pointer to target for an n×n grid drawn with
// scale×scale pixel cells in a window of the given height.
func NewPointer(target forcing.Injector, n, scale, height int) *Pointer {
	if scale < 1 {
		scale = 1
	}
	return &Pointer{
		target:             target,
		n:                  n,
		scale:              scale,
		height:             height,
		DensityAmount:      DefaultDensityAmount,
		VelocityMultiplier: DefaultVelocityMultiplier,
	}
}

// Press records the start of a drag.
func (p *Pointer) Press(x, y int) {
	p.lastX, p.lastY = x, y
	p.down = true
}

// Release ends the current drag.
func (p *Pointer) Release() {
	p.down = false
}

func (p *Pointer) Down() bool { return p.down }

// Cell maps a window pixel onto a grid cell, clamped to the grid.
func (p *Pointer) Cell(x, y int) (int, int) {
	i := x / p.scale
	j := (p.height - y) / p.scale
	return clampCell(i, p.n), clampCell(j, p.n)
}

// Drag injects density at the pointer and velocity proportional to the
// motion since the previous event. A drag without a prior Press starts
// from the current position.
func (p *Pointer) Drag(x, y int) error {
	if !p.down {
		p.Press(x, y)
	}
	i, j := p.Cell(x, y)
	vx := float64(x-p.lastX) * p.VelocityMultiplier
	vy := float64(p.lastY-y) * p.VelocityMultiplier
	p.lastX, p.lastY = x, y

	if err := p.target.AddDensity(i, j, p.DensityAmount); err != nil {
		return err
	}
	return p.target.AddVelocity(i, j, vx, vy)
}

// Move is Drag for callers that report the position every frame. A
// pointer that has not moved since the last event injects nothing.
func (p *Pointer) Move(x, y int) error {
	if p.down && x == p.lastX && y == p.lastY {
		return nil
	}
	return p.Drag(x, y)
}

func clampCell(v, n int) int {
	if v < 0 {
		return 0
	}
	if v > n-1 {
		return n - 1
	}
	return v
}

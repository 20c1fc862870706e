// Package forcing provides scripted impulse sources for runs without a
// pointer device.
package forcing

import (
	"fmt"
	"math"
	"math/rand"
)

// Injector accepts density and velocity impulses. *fluid.Solver and
// *fluid.Locked both satisfy it.
type Injector interface {
	AddDensity(x, y int, amount float64) error
	AddVelocity(x, y int, dx, dy float64) error
}

// Source injects impulses on selected ticks.
type Source interface {
	Name() string
	Apply(inj Injector, tick int) error
}

// Window limits a source to ticks in [Start, Stop). Stop <= 0 means no end.
type Window struct {
	Start int
	Stop  int
}

func (w Window) Active(tick int) bool {
	return tick >= w.Start && (w.Stop <= 0 || tick < w.Stop)
}

// Point emits a fixed impulse at one cell.
type Point struct {
	Window
	X, Y    int
	Density float64
	VX, VY  float64
}

func (p *Point) Name() string { return "point" }

func (p *Point) Apply(inj Injector, tick int) error {
	if !p.Active(tick) {
		return nil
	}
	return emit(inj, p.X, p.Y, p.Density, p.VX, p.VY)
}

// Swirl emits at one cell with a velocity direction that turns by Rate
// radians each tick.
type Swirl struct {
	Window
	X, Y    int
	Density float64
	Speed   float64
	Rate    float64
}

func (s *Swirl) Name() string { return "swirl" }

func (s *Swirl) Apply(inj Injector, tick int) error {
	if !s.Active(tick) {
		return nil
	}
	angle := s.Rate * float64(tick-s.Start)
	return emit(inj, s.X, s.Y, s.Density, s.Speed*math.Cos(angle), s.Speed*math.Sin(angle))
}

// Jet emits the same impulse along a line of Length cells starting at
// (X, Y).
type Jet struct {
	Window
	X, Y       int
	Length     int
	Horizontal bool
	Density    float64
	VX, VY     float64
}

func (j *Jet) Name() string { return "jet" }

func (j *Jet) Apply(inj Injector, tick int) error {
	if !j.Active(tick) {
		return nil
	}
	for k := 0; k < j.Length; k++ {
		x, y := j.X, j.Y+k
		if j.Horizontal {
			x, y = j.X+k, j.Y
		}
		if err := emit(inj, x, y, j.Density, j.VX, j.VY); err != nil {
			return err
		}
	}
	return nil
}

// Random drops a puff at a random interior cell every Every ticks with a
// random direction. The sequence depends only on the seed.
type Random struct {
	Window
	N       int
	Density float64
	Speed   float64
	Every   int
	rng     *rand.Rand
}

func NewRandom(n int, density, speed float64, every int, seed int64) *Random {
	if every < 1 {
		every = 1
	}
	return &Random{
		N:       n,
		Density: density,
		Speed:   speed,
		Every:   every,
		rng:     rand.New(rand.NewSource(seed)),
	}
}

func (r *Random) Name() string { return "random" }

func (r *Random) Apply(inj Injector, tick int) error {
	if !r.Active(tick) || (tick-r.Start)%r.Every != 0 {
		return nil
	}
	x := 1 + r.rng.Intn(r.N-2)
	y := 1 + r.rng.Intn(r.N-2)
	angle := r.rng.Float64() * 2 * math.Pi
	return emit(inj, x, y, r.Density, r.Speed*math.Cos(angle), r.Speed*math.Sin(angle))
}

func emit(inj Injector, x, y int, density, vx, vy float64) error {
	if density != 0 {
		if err := inj.AddDensity(x, y, density); err != nil {
			return fmt.Errorf("density at (%d,%d): %w", x, y, err)
		}
	}
	if vx != 0 || vy != 0 {
		if err := inj.AddVelocity(x, y, vx, vy); err != nil {
			return fmt.Errorf("velocity at (%d,%d): %w", x, y, err)
		}
	}
	return nil
}

package fluid

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Stats summarises the fields of a solver at one instant.
type Stats struct {
	Mass          float64 `json:"mass" csv:"mass"`
	MinDensity    float64 `json:"min_density" csv:"min_density"`
	MaxDensity    float64 `json:"max_density" csv:"max_density"`
	KineticEnergy float64 `json:"kinetic_energy" csv:"kinetic_energy"`
	MaxSpeed      float64 `json:"max_speed" csv:"max_speed"`
	MaxDivergence float64 `json:"max_divergence" csv:"max_divergence"`
}

// Measure computes Stats for the given fields. scratch must hold at least
// g.Cells() values; its contents are overwritten.
func Measure(g Grid, density, vx, vy, scratch []float64) Stats {
	st := Stats{
		Mass:          floats.Sum(density),
		MinDensity:    floats.Min(density),
		MaxDensity:    floats.Max(density),
		KineticEnergy: 0.5 * (floats.Dot(vx, vx) + floats.Dot(vy, vy)),
	}

	speed2 := 0.0
	for i := range vx {
		if s := vx[i]*vx[i] + vy[i]*vy[i]; s > speed2 {
			speed2 = s
		}
	}
	st.MaxSpeed = math.Sqrt(speed2)

	div := scratch[:g.Cells()]
	clear(div)
	Divergence(g, vx, vy, div)
	for _, d := range div {
		st.MaxDivergence = math.Max(st.MaxDivergence, math.Abs(d))
	}
	return st
}

// Stats measures the solver's current fields.
func (s *Solver) Stats(scratch []float64) Stats {
	if len(scratch) < s.grid.Cells() {
		scratch = s.grid.NewField()
	}
	return Measure(s.grid, s.density, s.vx, s.vy, scratch)
}

package metrics

import (
	"math"

	"github.com/san-kum/fluidsim/internal/sim"
)

// Mass reports the total density at the last sample.
type Mass struct {
	name string
	last float64
}

func NewMass() *Mass {
	return &Mass{name: "mass"}
}

func (m *Mass) Name() string { return m.name }

func (m *Mass) Observe(s sim.Snapshot) { m.last = s.Stats.Mass }

func (m *Mass) Value() float64 { return m.last }

func (m *Mass) Reset() { m.last = 0 }

// MinDensity reports the lowest cell value seen. Negative values point at
// interpolation undershoot.
type MinDensity struct {
	name    string
	min     float64
	samples int
}

func NewMinDensity() *MinDensity {
	return &MinDensity{name: "min_density"}
}

func (m *MinDensity) Name() string { return m.name }

func (m *MinDensity) Observe(s sim.Snapshot) {
	if m.samples == 0 {
		m.min = s.Stats.MinDensity
	} else {
		m.min = math.Min(m.min, s.Stats.MinDensity)
	}
	m.samples++
}

func (m *MinDensity) Value() float64 { return m.min }

func (m *MinDensity) Reset() {
	m.min = 0
	m.samples = 0
}

// MaxDivergence reports the largest interior divergence seen.
type MaxDivergence struct {
	name string
	peak float64
}

func NewMaxDivergence() *MaxDivergence {
	return &MaxDivergence{name: "max_divergence"}
}

func (d *MaxDivergence) Name() string { return d.name }

func (d *MaxDivergence) Observe(s sim.Snapshot) {
	d.peak = math.Max(d.peak, s.Stats.MaxDivergence)
}

func (d *MaxDivergence) Value() float64 { return d.peak }

func (d *MaxDivergence) Reset() { d.peak = 0 }

package metrics

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/san-kum/fluidsim/internal/sim"
)

// KineticEnergy reports the mean kinetic energy over the sampled ticks.
type KineticEnergy struct {
	name    string
	samples []float64
}

func NewKineticEnergy() *KineticEnergy {
	return &KineticEnergy{name: "kinetic_energy"}
}

func (e *KineticEnergy) Name() string { return e.name }

func (e *KineticEnergy) Observe(s sim.Snapshot) {
	e.samples = append(e.samples, s.Stats.KineticEnergy)
}

func (e *KineticEnergy) Value() float64 {
	if len(e.samples) == 0 {
		return 0
	}
	return stat.Mean(e.samples, nil)
}

// StdDev is the spread of the sampled energies.
func (e *KineticEnergy) StdDev() float64 {
	if len(e.samples) < 2 {
		return 0
	}
	return stat.StdDev(e.samples, nil)
}

func (e *KineticEnergy) Reset() {
	e.samples = e.samples[:0]
}

// PeakSpeed reports the largest velocity magnitude seen.
type PeakSpeed struct {
	name string
	peak float64
}

func NewPeakSpeed() *PeakSpeed {
	return &PeakSpeed{name: "max_speed"}
}

func (p *PeakSpeed) Name() string { return p.name }

func (p *PeakSpeed) Observe(s sim.Snapshot) {
	p.peak = math.Max(p.peak, s.Stats.MaxSpeed)
}

func (p *PeakSpeed) Value() float64 { return p.peak }

func (p *PeakSpeed) Reset() { p.peak = 0 }

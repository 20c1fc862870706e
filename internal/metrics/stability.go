package metrics

import (
	"math"

	"github.com/san-kum/fluidsim/internal/sim"
)

// Stability is the fraction of samples whose fields are finite and whose
// peak speed stays under the threshold.
type Stability struct {
	name       string
	threshold  float64
	violations int
	samples    int
}

func NewStability(threshold float64) *Stability {
	return &Stability{
		name:      "stability",
		threshold: threshold,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(snap sim.Snapshot) {
	s.samples++
	st := snap.Stats
	for _, v := range []float64{st.Mass, st.KineticEnergy, st.MaxSpeed} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			s.violations++
			return
		}
	}
	if st.MaxSpeed > s.threshold {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}

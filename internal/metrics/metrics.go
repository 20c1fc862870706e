// Package metrics provides run-level summaries built from per-tick
// field statistics.
package metrics

import "github.com/san-kum/fluidsim/internal/sim"

// DefaultStabilityThreshold is the speed above which a sample counts as
// unstable.
const DefaultStabilityThreshold = 50.0

// Defaults returns a fresh set of the standard metrics.
func Defaults() []sim.Metric {
	return []sim.Metric{
		NewMass(),
		NewMinDensity(),
		NewKineticEnergy(),
		NewPeakSpeed(),
		NewMaxDivergence(),
		NewStability(DefaultStabilityThreshold),
	}
}

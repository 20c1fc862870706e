package fluid

import "math"

// check records the first non-finite value in the working or staging
// fields when health checks are enabled.
func (s *Solver) check(stage Stage) {
	if !s.grid.CheckHealth || s.fault != nil {
		return
	}
	fields := []struct {
		name string
		data []float64
	}{
		{"density", s.density},
		{"vx", s.vx},
		{"vy", s.vy},
		{"density0", s.density0},
		{"vx0", s.vx0},
		{"vy0", s.vy0},
	}
	for _, f := range fields {
		if i, v, ok := firstNonFinite(f.data); ok {
			s.fault = &HealthError{Step: s.steps, Stage: stage, Field: f.name, Index: i, Value: v}
			Logger().Warn("non-finite field value",
				"step", s.steps,
				"stage", stage.String(),
				"field", f.name,
				"index", i,
			)
			return
		}
	}
}

func firstNonFinite(x []float64) (int, float64, bool) {
	for i, v := range x {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return i, v, true
		}
	}
	return 0, 0, false
}

// IsFinite reports whether every value in x is finite.
func IsFinite(x []float64) bool {
	_, _, bad := firstNonFinite(x)
	return !bad
}

package analysis

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Centroid returns the density-weighted mean cell position of an n×n
// field. Negative values are treated as zero. ok is false for an empty
// field.
func Centroid(density []float64, n int) (x, y float64, ok bool) {
	xs, ys, w := coords(density, n)
	if floats.Sum(w) == 0 {
		return 0, 0, false
	}
	return stat.Mean(xs, w), stat.Mean(ys, w), true
}

// Spread returns the density-weighted radius of gyration about the
// centroid.
func Spread(density []float64, n int) float64 {
	xs, ys, w := coords(density, n)
	total := floats.Sum(w)
	if total == 0 {
		return 0
	}
	cx, cy := stat.Mean(xs, w), stat.Mean(ys, w)

	sum := 0.0
	for i := range w {
		dx, dy := xs[i]-cx, ys[i]-cy
		sum += w[i] * (dx*dx + dy*dy)
	}
	return math.Sqrt(sum / total)
}

func coords(density []float64, n int) (xs, ys, w []float64) {
	xs = make([]float64, len(density))
	ys = make([]float64, len(density))
	w = make([]float64, len(density))
	for idx, d := range density {
		xs[idx] = float64(idx % n)
		ys[idx] = float64(idx / n)
		w[idx] = math.Max(d, 0)
	}
	return xs, ys, w
}

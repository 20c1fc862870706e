package analysis

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// DecayRate fits log(data[i]) = a + rate*i*interval by least squares and
// returns rate per tick. Non-positive samples are skipped.
func DecayRate(data []float64, interval int) (float64, error) {
	if interval < 1 {
		interval = 1
	}
	xs := make([]float64, 0, len(data))
	ys := make([]float64, 0, len(data))
	for i, v := range data {
		if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
			continue
		}
		xs = append(xs, float64(i*interval))
		ys = append(ys, math.Log(v))
	}
	if len(xs) < 2 {
		return 0, ErrShortSeries
	}
	_, rate := stat.LinearRegression(xs, ys, nil, false)
	return rate, nil
}

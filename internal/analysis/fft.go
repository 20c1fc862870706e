package analysis

import (
	"errors"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
	"gonum.org/v1/gonum/stat"
)

var ErrShortSeries = errors.New("analysis: series too short")

// PowerSpectrum returns |X[k]| for k in [0, len(data)/2] after removing
// the mean, so bin 0 is always zero.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := stat.Mean(data, nil)
	centred := make([]float64, len(data))
	for i, v := range data {
		centred[i] = v - mean
	}

	spectrum := fft.FFTReal(centred)
	ps := make([]float64, len(data)/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency with the largest spectral
// magnitude in cycles per tick, and the matching period in ticks.
// interval is the tick spacing between samples.
func DominantFrequency(data []float64, interval int) (freq, period float64, err error) {
	if len(data) < 4 {
		return 0, 0, ErrShortSeries
	}
	if interval < 1 {
		interval = 1
	}

	ps := PowerSpectrum(data)
	best := 1
	for k := 2; k < len(ps); k++ {
		if ps[k] > ps[best] {
			best = k
		}
	}
	if ps[best] == 0 {
		return 0, 0, nil
	}

	freq = float64(best) / float64(len(data)*interval)
	return freq, 1 / freq, nil
}

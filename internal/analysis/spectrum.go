package analysis

import (
	"errors"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

var (
	ErrTooShort = errors.New("analysis: series too short")
	ErrNoSignal = errors.New("analysis: series has no periodic component")
)

const minSamples = 8

// PowerSpectrum returns the magnitude of bins 0..n/2 of the mean-removed,
// Hann-windowed signal.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return make([]float64, n/2+1)
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		w := 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
		windowed[i] = (v - mean) * w
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2+1)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// EstimatePeriod returns the dominant period of data sampled every dt,
// in the units of dt.
func EstimatePeriod(data []float64, dt float64) (float64, error) {
	n := len(data)
	if n < minSamples || dt <= 0 {
		return 0, ErrTooShort
	}
	ps := PowerSpectrum(data)

	// Bin 1 is dominated by window leakage of the mean.
	peak := 0
	for k := 2; k < len(ps); k++ {
		if peak == 0 || ps[k] > ps[peak] {
			peak = k
		}
	}
	if peak == 0 || ps[peak] < 1e-12 {
		return 0, ErrNoSignal
	}

	offset := 0.0
	if peak+1 < len(ps) {
		a, b, c := math.Log(ps[peak-1]+1e-300), math.Log(ps[peak]), math.Log(ps[peak+1]+1e-300)
		if den := a - 2*b + c; den < 0 {
			offset = 0.5 * (a - c) / den
		}
	}
	freq := (float64(peak) + offset) / (float64(n) * dt)
	return 1 / freq, nil
}

package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// PowerSpectrum returns the magnitude of the first half of the discrete
// Fourier transform of data. The mean is removed and a Hann window applied
// first, so a constant trace has an empty spectrum.
func PowerSpectrum(data []float64) []float64 {
	n := len(data)
	if n < 2 {
		return nil
	}

	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(n)

	windowed := make([]float64, n)
	for i, v := range data {
		window := 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
		windowed[i] = (v - mean) * window
	}

	spectrum := fft.FFTReal(windowed)
	ps := make([]float64, n/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the frequency in Hz of the strongest non-zero
// bin, for data sampled at sampleRate. It returns 0 when there is no
// oscillation to find.
func DominantFrequency(data []float64, sampleRate float64) float64 {
	ps := PowerSpectrum(data)
	best, peak := 0, 0.0
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	if best == 0 || peak < 1e-12 {
		return 0
	}
	return float64(best) * sampleRate / float64(len(data))
}

// Column extracts series b from per-sample rows such as sim.Result.Heights.
func Column(rows [][]float64, b int) []float64 {
	out := make([]float64, 0, len(rows))
	for _, r := range rows {
		if b < len(r) {
			out = append(out, r[b])
		}
	}
	return out
}

// Package testutil generates the deterministic signals the package tests
// share. Everything is seeded so failures reproduce.
package testutil

import (
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/mjibson/go-dsp/fft"
)

// DeterministicSine generates a sine wave sampled at sampleRate.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates zero-mean uniform white noise with a fixed
// seed.
func DeterministicNoise(seed int64, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	rng := rand.New(rand.NewSource(seed))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}
	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}
	return out
}

// DC generates a constant-valued signal.
func DC(value float64, length int) []float64 {
	out := make([]float64, length)
	for i := range out {
		out[i] = value
	}
	return out
}

// PowerLawNoise synthesizes a signal whose amplitude spectrum follows
// f^exponent between DC and Nyquist, with random phases drawn from seed.
// exponent 0 is spectrally flat; exponent -1 is the 1/f reference signal.
// The output is normalized to unit RMS.
func PowerLawNoise(seed int64, exponent, sampleRate float64, length int) []float64 {
	rng := rand.New(rand.NewSource(seed))
	spectrum := make([]complex128, length)
	half := length / 2
	for k := 1; k <= half; k++ {
		f := float64(k) * sampleRate / float64(length)
		mag := math.Pow(f, exponent)
		if k == half && length%2 == 0 {
			// Nyquist bin must stay real for a real signal
			spectrum[k] = complex(mag, 0)
			continue
		}
		phase := 2 * math.Pi * rng.Float64()
		spectrum[k] = cmplx.Rect(mag, phase)
		spectrum[length-k] = cmplx.Conj(spectrum[k])
	}

	t := fft.IFFT(spectrum)
	out := make([]float64, length)
	var sumsq float64
	for i, v := range t {
		out[i] = real(v)
		sumsq += out[i] * out[i]
	}
	if rms := math.Sqrt(sumsq / float64(length)); rms > 0 {
		for i := range out {
			out[i] /= rms
		}
	}
	return out
}

// Columns assembles per-channel signals into the sample-major layout used
// by the pipeline input: rows are time points, columns are channels. All
// columns must have equal length.
func Columns(cols ...[]float64) [][]float64 {
	if len(cols) == 0 {
		return nil
	}
	rows := make([][]float64, len(cols[0]))
	for i := range rows {
		row := make([]float64, len(cols))
		for c := range cols {
			row[c] = cols[c][i]
		}
		rows[i] = row
	}
	return rows
}

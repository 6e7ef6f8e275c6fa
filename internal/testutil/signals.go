package testutil

import (
	"math"
	"math/rand"
	"testing"

	"github.com/cwbudde/algo-tsa/ts/series"
)

// DeterministicSine generates a deterministic sine wave.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)
	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out
}

// DeterministicNoise generates white noise with a fixed seed for reproducibility.
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

// NoisySine returns a sine with seeded noise mixed in, a convenient input
// for spectral estimators that divide by auto-spectra.
func NoisySine(freqHz, sampleRate, amplitude float64, seed int64, length int) []float64 {
	sine := DeterministicSine(freqHz, sampleRate, amplitude, length)
	noise := DeterministicNoise(seed, amplitude/10, length)
	for i := range sine {
		sine[i] += noise[i]
	}
	return sine
}

// NewSeries builds a uniformly sampled series from channel rows, failing t
// on construction errors.
func NewSeries(t *testing.T, sampleRate float64, channels ...[]float64) *series.UniformSeries {
	t.Helper()
	ts, err := series.NewUniform(channels, series.Spec{SamplingRate: sampleRate})
	if err != nil {
		t.Fatalf("building test series: %v", err)
	}
	return ts
}

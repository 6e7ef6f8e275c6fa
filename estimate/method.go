package estimate

import (
	"errors"
	"fmt"
)

// Estimation method names accepted in Method.Name.
const (
	// MethodFFT selects the raw, non-normalized discrete Fourier spectrum.
	MethodFFT = "fft"

	// MethodWelch selects the windowed-averaging cross-spectral estimator.
	MethodWelch = "welch"

	// MethodMultitaper selects the sine-taper multitaper estimator.
	MethodMultitaper = "multitaper"
)

var methodNames = []string{MethodFFT, MethodWelch, MethodMultitaper}

// ErrMissingSamplingRate is returned when an estimator runs without Fs.
var ErrMissingSamplingRate = errors.New("estimate: method sampling rate (Fs) must be set")

// Method describes a spectral estimation algorithm and its parameters.
// The zero value selects the Welch estimator with default parameters.
//
// Fields left at their zero value resolve to defaults: NFFT 64, half-segment
// overlap (set Overlap to a negative value for no overlap), Hann window,
// NW 4 with 2*NW-1 tapers. Fs carries the sampling rate in Hz and is
// normally injected by the analyzer that owns the data.
type Method struct {
	Name    string
	NFFT    int
	Overlap int
	Window  string
	NW      float64
	Tapers  int
	Fs      float64

	// NoDensityScaling disables division by Fs and window energy, leaving
	// mean-square spectrum scaling. Density scaling is the default.
	NoDensityScaling bool
}

// WithFs returns a copy of m with the sampling rate injected, unless the
// descriptor already carries one.
func (m Method) WithFs(fs float64) Method {
	if m.Fs == 0 {
		m.Fs = fs
	}

	return m
}

// resolve fills defaults and validates the method name.
func (m Method) resolve() (Method, error) {
	if m.Name == "" {
		m.Name = MethodWelch
	}

	switch m.Name {
	case MethodFFT, MethodWelch, MethodMultitaper:
	default:
		return m, fmt.Errorf("estimate: unsupported spectral estimation method %q, must be one of %v",
			m.Name, methodNames)
	}

	if m.NFFT == 0 {
		m.NFFT = 64
	}

	if m.Overlap == 0 {
		m.Overlap = m.NFFT / 2
	}

	if m.Overlap < 0 {
		m.Overlap = 0
	}

	if m.Window == "" {
		m.Window = "hann"
	}

	if m.NW == 0 {
		m.NW = 4
	}

	if m.Tapers == 0 {
		m.Tapers = int(2*m.NW) - 1
	}

	if m.Fs <= 0 {
		return m, ErrMissingSamplingRate
	}

	return m, nil
}

// Frequencies returns the one-sided frequency grid for a length-n transform
// at sampling rate fs: n/2+1 points from 0 to fs/2.
func Frequencies(fs float64, n int) []float64 {
	bins := n/2 + 1
	out := make([]float64, bins)

	if bins == 1 {
		return out
	}

	step := fs / 2 / float64(bins-1)
	for k := range out {
		out[k] = float64(k) * step
	}

	return out
}

// BandIndices returns the half-open bin range [lo, hi) covering the
// frequency band [lb, ub] on the given grid. An ub of zero means the full
// upper range.
func BandIndices(freqs []float64, lb, ub float64) (lo, hi int) {
	if ub <= 0 {
		ub = freqs[len(freqs)-1]
	}

	lo = 0
	for lo < len(freqs) && freqs[lo] < lb {
		lo++
	}

	hi = len(freqs)
	for hi > lo && freqs[hi-1] > ub {
		hi--
	}

	return lo, hi
}

// Package filter band-limits a series by zeroing Fourier coefficients
// outside a frequency band.
package filter

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
)

// ErrInvalidBand is returned when the requested band is empty or outside
// the representable frequency range.
var ErrInvalidBand = errors.New("filter: invalid frequency band")

// Analyzer produces band-limited versions of the series captured at
// construction. The filtered output keeps the input's sampling geometry.
type Analyzer struct {
	in     *series.UniformSeries
	lb, ub float64
	cache  *lazy.Cache
}

// New captures the series and the pass band [lb, ub] in Hz. An ub of zero
// selects the Nyquist frequency.
func New(ts *series.UniformSeries, lb, ub float64) (*Analyzer, error) {
	nyquist := ts.SamplingRate().Hz() / 2
	if ub == 0 {
		ub = nyquist
	}

	if lb < 0 || ub > nyquist || lb >= ub {
		return nil, fmt.Errorf("%w: [%g, %g] Hz with Nyquist %g Hz", ErrInvalidBand, lb, ub, nyquist)
	}

	return &Analyzer{in: ts, lb: lb, ub: ub, cache: lazy.New()}, nil
}

// Band returns the pass band in Hz.
func (a *Analyzer) Band() (lb, ub float64) { return a.lb, a.ub }

// Reset discards the cached filtered series.
func (a *Analyzer) Reset() {
	a.cache.Reset()
}

// FilteredFourier returns a new series with every Fourier coefficient
// outside the band zeroed, mirrored onto the negative frequencies, and
// transformed back. Residual imaginary parts from round-off are discarded.
func (a *Analyzer) FilteredFourier() (*series.UniformSeries, error) {
	return lazy.Get(a.cache, "filtered_fourier", func() (*series.UniformSeries, error) {
		filtered, err := BandLimit(a.in.Data, a.in.SamplingRate().Hz(), a.lb, a.ub)
		if err != nil {
			return nil, err
		}

		return series.NewUniform(filtered, series.Spec{
			T0:           a.in.T0().Value(),
			SamplingRate: a.in.SamplingRate().Hz(),
			Unit:         a.in.TimeUnit(),
		})
	})
}

// BandLimit zeroes the Fourier coefficients of each row whose frequency
// magnitude falls outside [lb, ub] and transforms back, returning the real
// parts.
func BandLimit(data [][]float64, fs, lb, ub float64) ([][]float64, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, errors.New("filter: empty input")
	}

	n := len(data[0])

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("filter: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	freq := make([]complex128, n)
	time := make([]complex128, n)

	out := make([][]float64, len(data))

	for i, ch := range data {
		for k, v := range ch {
			in[k] = complex(v, 0)
		}

		if err := plan.Forward(freq, in); err != nil {
			return nil, fmt.Errorf("filter: forward FFT failed: %w", err)
		}

		for k := range freq {
			f := binFrequency(k, n, fs)
			if f < lb || f > ub {
				freq[k] = 0
			}
		}

		if err := plan.Inverse(time, freq); err != nil {
			return nil, fmt.Errorf("filter: inverse FFT failed: %w", err)
		}

		row := make([]float64, n)
		for k := range row {
			row[k] = real(time[k])
		}

		out[i] = row
	}

	return out, nil
}

// binFrequency returns the absolute frequency in Hz of DFT bin k, treating
// bins above n/2 as negative frequencies.
func binFrequency(k, n int, fs float64) float64 {
	if 2*k > n {
		k = n - k
	}

	return float64(k) * fs / float64(n)
}

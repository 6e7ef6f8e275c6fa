// Package hilbert derives the analytic signal of each channel of a series
// and exposes its magnitude (envelope), instantaneous phase, and real part.
// The series is band-limited to a frequency band before the transform.
package hilbert

import (
	"errors"
	"fmt"
	"math/cmplx"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tsa/analysis/filter"
	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
)

// Analyzer computes the analytic signal of the band-limited series captured
// at construction. Each output is derived on first access and cached.
type Analyzer struct {
	data   [][]float64
	lb, ub float64
	cache  *lazy.Cache
}

// New captures the series curtailed to the pass band [lb, ub] in Hz. An ub
// of zero selects the Nyquist frequency, so New(ts, 0, 0) keeps the full
// band. Out-of-band Fourier coefficients are zeroed, mirrored onto the
// negative frequencies, and the residual imaginary parts discarded before
// the analytic transform.
func New(ts *series.UniformSeries, lb, ub float64) (*Analyzer, error) {
	fa, err := filter.New(ts, lb, ub)
	if err != nil {
		return nil, err
	}

	limited, err := fa.FilteredFourier()
	if err != nil {
		return nil, err
	}

	lb, ub = fa.Band()

	return &Analyzer{data: limited.Data, lb: lb, ub: ub, cache: lazy.New()}, nil
}

// Band returns the pass band in Hz.
func (a *Analyzer) Band() (lb, ub float64) { return a.lb, a.ub }

// Reset discards the analytic signal and every derived quantity.
func (a *Analyzer) Reset() {
	a.cache.Reset()
}

// Analytic returns the analytic signal of each channel: the inverse
// transform of the spectrum with negative frequencies zeroed and positive
// frequencies doubled. The real part reproduces the input.
func (a *Analyzer) Analytic() ([][]complex128, error) {
	return lazy.Get(a.cache, "analytic", func() ([][]complex128, error) {
		return AnalyticSignal(a.data)
	})
}

// Magnitude returns the envelope |analytic| per channel and sample.
func (a *Analyzer) Magnitude() ([][]float64, error) {
	return lazy.Get(a.cache, "magnitude", func() ([][]float64, error) {
		analytic, err := a.Analytic()
		if err != nil {
			return nil, err
		}

		out := make([][]float64, len(analytic))
		for i, ch := range analytic {
			re := make([]float64, len(ch))
			im := make([]float64, len(ch))
			for k, v := range ch {
				re[k] = real(v)
				im[k] = imag(v)
			}

			row := make([]float64, len(ch))
			vecmath.Magnitude(row, re, im)
			out[i] = row
		}

		return out, nil
	})
}

// Phase returns the instantaneous phase arg(analytic) per channel and
// sample, in radians.
func (a *Analyzer) Phase() ([][]float64, error) {
	return lazy.Get(a.cache, "phase", func() ([][]float64, error) {
		analytic, err := a.Analytic()
		if err != nil {
			return nil, err
		}

		out := make([][]float64, len(analytic))
		for i, ch := range analytic {
			row := make([]float64, len(ch))
			for k, v := range ch {
				row[k] = cmplx.Phase(v)
			}

			out[i] = row
		}

		return out, nil
	})
}

// Real returns the real part of the analytic signal, which matches the
// band-limited input up to round-off.
func (a *Analyzer) Real() ([][]float64, error) {
	return lazy.Get(a.cache, "real", func() ([][]float64, error) {
		analytic, err := a.Analytic()
		if err != nil {
			return nil, err
		}

		out := make([][]float64, len(analytic))
		for i, ch := range analytic {
			row := make([]float64, len(ch))
			for k, v := range ch {
				row[k] = real(v)
			}

			out[i] = row
		}

		return out, nil
	})
}

// AnalyticSignal transforms each row, keeps DC and the Nyquist bin
// unchanged, doubles the positive frequencies, zeroes the negative ones,
// and transforms back.
func AnalyticSignal(data [][]float64) ([][]complex128, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return nil, errors.New("hilbert: empty input")
	}

	n := len(data[0])

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, fmt.Errorf("hilbert: failed to create FFT plan: %w", err)
	}

	in := make([]complex128, n)
	freq := make([]complex128, n)

	out := make([][]complex128, len(data))

	for i, ch := range data {
		for k, v := range ch {
			in[k] = complex(v, 0)
		}

		if err := plan.Forward(freq, in); err != nil {
			return nil, fmt.Errorf("hilbert: forward FFT failed: %w", err)
		}

		for k := 1; k < n; k++ {
			switch {
			case 2*k == n:
				// Nyquist bin stays as is.
			case 2*k < n:
				freq[k] *= 2
			default:
				freq[k] = 0
			}
		}

		row := make([]complex128, n)
		if err := plan.Inverse(row, freq); err != nil {
			return nil, fmt.Errorf("hilbert: inverse FFT failed: %w", err)
		}

		out[i] = row
	}

	return out, nil
}

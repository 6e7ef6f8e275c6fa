// Package spectral derives frequency spectra from a uniformly sampled
// series. Each estimation method is computed independently on first access
// and cached; requesting one never forces computation of another.
package spectral

import (
	"github.com/cwbudde/algo-tsa/estimate"
	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
)

// Spectrum is a per-channel complex spectrum over a one-sided grid.
type Spectrum struct {
	Frequencies []float64
	Values      [][]complex128
}

// CrossSpectrum is a channel x channel x frequency density tensor.
type CrossSpectrum struct {
	Frequencies []float64
	Values      [][][]complex128
}

// Analyzer computes spectra of the series captured at construction.
// The data is treated as immutable for the analyzer's lifetime; mutating it
// before the first access to a derived output changes that output.
type Analyzer struct {
	data   [][]float64
	rate   float64
	method estimate.Method
	cache  *lazy.Cache
}

// New captures the series data, its sampling rate, and the estimation
// method descriptor. The sampling rate is injected into the descriptor
// when absent.
func New(ts *series.UniformSeries, m estimate.Method) *Analyzer {
	rate := ts.SamplingRate().Hz()

	return &Analyzer{
		data:   ts.Data,
		rate:   rate,
		method: m.WithFs(rate),
		cache:  lazy.New(),
	}
}

// SpectrumFourier returns the raw non-normalized Fourier spectrum of each
// channel over non-negative frequencies.
func (a *Analyzer) SpectrumFourier() (*Spectrum, error) {
	return lazy.Get(a.cache, "fourier", func() (*Spectrum, error) {
		freqs, spec, err := estimate.FourierSpectrum(a.data, a.rate)
		if err != nil {
			return nil, err
		}

		return &Spectrum{Frequencies: freqs, Values: spec}, nil
	})
}

// SpectrumWelch returns the cross-spectral density tensor estimated by
// windowed segment averaging.
func (a *Analyzer) SpectrumWelch() (*CrossSpectrum, error) {
	return a.tensor("welch", estimate.MethodWelch)
}

// SpectrumMultitaper returns the cross-spectral density tensor estimated
// with sine tapers.
func (a *Analyzer) SpectrumMultitaper() (*CrossSpectrum, error) {
	return a.tensor("multitaper", estimate.MethodMultitaper)
}

func (a *Analyzer) tensor(key, name string) (*CrossSpectrum, error) {
	return lazy.Get(a.cache, key, func() (*CrossSpectrum, error) {
		m := a.method
		m.Name = name

		freqs, spec, err := estimate.Spectra(a.data, m)
		if err != nil {
			return nil, err
		}

		return &CrossSpectrum{Frequencies: freqs, Values: spec}, nil
	})
}

// Reset discards all cached spectra.
func (a *Analyzer) Reset() {
	a.cache.Reset()
}

package coherence

import (
	"errors"
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-tsa/estimate"
	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
)

// ErrUnsupportedMethod is returned when a sparse analyzer is constructed
// with anything but the windowed-averaging (welch) estimator.
var ErrUnsupportedMethod = errors.New("coherence: sparse analyzer supports only the welch estimation method")

// Pair identifies one requested channel combination (i, j).
type Pair [2]int

// SparseAnalyzer computes coherence statistics only for a requested list of
// channel pairs. Intended for large channel counts where the dense
// n x n tensor is wasteful.
type SparseAnalyzer struct {
	data   [][]float64
	method estimate.Method
	pairs  []Pair

	lb, ub          float64
	speedOverMemory bool

	cache *lazy.Cache
}

// SparseOption configures a SparseAnalyzer.
type SparseOption func(*SparseAnalyzer)

// WithBand restricts results to the frequency band [lb, ub] in Hz.
// An ub of zero means the full upper range.
func WithBand(lb, ub float64) SparseOption {
	return func(a *SparseAnalyzer) {
		a.lb = lb
		a.ub = ub
	}
}

// WithSpeedOverMemory caches conjugated per-channel transforms in addition
// to the transforms themselves, trading memory for less recomputation when
// many pairs share a channel.
func WithSpeedOverMemory() SparseOption {
	return func(a *SparseAnalyzer) {
		a.speedOverMemory = true
	}
}

// NewSparse captures the series data, the requested pairs, and the method.
// Only the welch method (or an empty descriptor, which defaults to it) is
// accepted.
func NewSparse(ts *series.UniformSeries, pairs []Pair, m estimate.Method, opts ...SparseOption) (*SparseAnalyzer, error) {
	if m.Name != "" && m.Name != estimate.MethodWelch {
		return nil, fmt.Errorf("%w: got %q", ErrUnsupportedMethod, m.Name)
	}

	m.Name = estimate.MethodWelch

	if len(pairs) == 0 {
		return nil, errors.New("coherence: sparse analyzer needs at least one channel pair")
	}

	for _, p := range pairs {
		for _, idx := range p {
			if idx < 0 || idx >= ts.Channels() {
				return nil, fmt.Errorf("coherence: pair index %d out of range [0,%d)", idx, ts.Channels())
			}
		}
	}

	a := &SparseAnalyzer{
		data:   ts.Data,
		method: m.WithFs(ts.SamplingRate().Hz()),
		pairs:  append([]Pair(nil), pairs...),
		cache:  lazy.New(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	return a, nil
}

// Pairs returns the requested channel combinations.
func (a *SparseAnalyzer) Pairs() []Pair { return a.pairs }

// Reset discards the FFT cache and every derived quantity.
func (a *SparseAnalyzer) Reset() {
	a.cache.Reset()
}

// fftCache transforms each referenced channel exactly once.
func (a *SparseAnalyzer) fftCache() (*estimate.FFTCache, error) {
	return lazy.Get(a.cache, "fft_cache", func() (*estimate.FFTCache, error) {
		channels := make([]int, 0, 2*len(a.pairs))
		for _, p := range a.pairs {
			channels = append(channels, p[0], p[1])
		}

		return estimate.NewFFTCache(a.data, channels, a.method, a.lb, a.ub, a.speedOverMemory)
	})
}

// Frequencies returns the band-restricted frequency grid.
func (a *SparseAnalyzer) Frequencies() ([]float64, error) {
	c, err := a.fftCache()
	if err != nil {
		return nil, err
	}

	return c.Frequencies(), nil
}

// Spectrum returns the auto-spectral density of every referenced channel.
func (a *SparseAnalyzer) Spectrum() (map[int][]float64, error) {
	return lazy.Get(a.cache, "spectrum", func() (map[int][]float64, error) {
		c, err := a.fftCache()
		if err != nil {
			return nil, err
		}

		out := make(map[int][]float64)
		for _, p := range a.pairs {
			for _, idx := range p {
				if _, ok := out[idx]; ok {
					continue
				}

				psd, err := c.PSD(idx)
				if err != nil {
					return nil, err
				}

				out[idx] = psd
			}
		}

		return out, nil
	})
}

// Coherency returns the complex normalized cross-spectrum per requested
// pair.
func (a *SparseAnalyzer) Coherency() (map[Pair][]complex128, error) {
	return lazy.Get(a.cache, "coherency", func() (map[Pair][]complex128, error) {
		c, err := a.fftCache()
		if err != nil {
			return nil, err
		}

		out := make(map[Pair][]complex128, len(a.pairs))
		for _, p := range a.pairs {
			if _, ok := out[p]; ok {
				continue
			}

			csd, err := c.CSD(p[0], p[1])
			if err != nil {
				return nil, err
			}

			pxx, err := c.CSD(p[0], p[0])
			if err != nil {
				return nil, err
			}

			pyy, err := c.CSD(p[1], p[1])
			if err != nil {
				return nil, err
			}

			coh := make([]complex128, len(csd))
			for k := range csd {
				coh[k] = csd[k] / cmplx.Sqrt(pxx[k]*pyy[k])
			}

			out[p] = coh
		}

		return out, nil
	})
}

// Phases returns the cross-spectrum phase per requested pair.
func (a *SparseAnalyzer) Phases() (map[Pair][]float64, error) {
	return lazy.Get(a.cache, "phases", func() (map[Pair][]float64, error) {
		c, err := a.fftCache()
		if err != nil {
			return nil, err
		}

		out := make(map[Pair][]float64, len(a.pairs))
		for _, p := range a.pairs {
			if _, ok := out[p]; ok {
				continue
			}

			phase, err := c.Phase(p[0], p[1])
			if err != nil {
				return nil, err
			}

			out[p] = phase
		}

		return out, nil
	})
}

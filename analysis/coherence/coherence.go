package coherence

import (
	"math"
	"math/cmplx"

	"github.com/cwbudde/algo-tsa/estimate"
	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
)

// Analyzer computes dense pairwise coherence statistics over every channel
// combination of the series captured at construction.
type Analyzer struct {
	data   [][]float64
	method estimate.Method
	csd    estimate.CrossSpectrumFunc
	cache  *lazy.Cache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCrossSpectrum replaces the pairwise estimator resolved from the
// method descriptor. Tests use this to count estimator invocations.
func WithCrossSpectrum(f estimate.CrossSpectrumFunc) Option {
	return func(a *Analyzer) {
		a.csd = f
	}
}

// New captures the series data and estimation method. The series sampling
// rate is injected into the descriptor when absent. An unknown method name
// fails here, not at first access.
func New(ts *series.UniformSeries, m estimate.Method, opts ...Option) (*Analyzer, error) {
	a := &Analyzer{
		data:   ts.Data,
		method: m.WithFs(ts.SamplingRate().Hz()),
		cache:  lazy.New(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	if a.csd == nil {
		csd, err := estimate.CrossSpectrum(a.method)
		if err != nil {
			return nil, err
		}

		a.csd = csd
	}

	return a, nil
}

// Channels returns the number of channels under analysis.
func (a *Analyzer) Channels() int { return len(a.data) }

// Reset discards every cached derived quantity.
func (a *Analyzer) Reset() {
	a.cache.Reset()
}

type tensor struct {
	freqs []float64
	spec  [][][]complex128
}

func (a *Analyzer) tensor() (*tensor, error) {
	return lazy.Get(a.cache, "spectrum", func() (*tensor, error) {
		freqs, spec, err := estimate.SpectraWith(a.data, a.method, a.csd)
		if err != nil {
			return nil, err
		}

		return &tensor{freqs: freqs, spec: spec}, nil
	})
}

// Frequencies returns the one-sided frequency grid of the estimator.
func (a *Analyzer) Frequencies() ([]float64, error) {
	t, err := a.tensor()
	if err != nil {
		return nil, err
	}

	return t.freqs, nil
}

// Spectrum returns the full channel x channel x frequency cross-spectral
// density tensor.
func (a *Analyzer) Spectrum() ([][][]complex128, error) {
	t, err := a.tensor()
	if err != nil {
		return nil, err
	}

	return t.spec, nil
}

// Coherency returns the complex-valued normalized cross-spectrum
// f[i][j] / sqrt(f[i][i] * f[j][j]) for every pair. Only the upper triangle
// is computed; the lower is its complex conjugate.
func (a *Analyzer) Coherency() ([][][]complex128, error) {
	return lazy.Get(a.cache, "coherency", func() ([][][]complex128, error) {
		t, err := a.tensor()
		if err != nil {
			return nil, err
		}

		n := len(a.data)
		out := newComplexCube(n, len(t.freqs))

		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				for k := range t.freqs {
					out[i][j][k] = coherencyAt(t.spec, i, j, k)
				}

				if i != j {
					out[j][i] = estimate.Conj(out[i][j])
				}
			}
		}

		return out, nil
	})
}

// Coherence returns |f[i][j]|^2 / (f[i][i] * f[j][j]) per pair and
// frequency. Mirrored values are copied from the upper triangle.
func (a *Analyzer) Coherence() ([][][]float64, error) {
	return lazy.Get(a.cache, "coherence", func() ([][][]float64, error) {
		t, err := a.tensor()
		if err != nil {
			return nil, err
		}

		n := len(a.data)
		out := newFloatCube(n, n, len(t.freqs))

		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				for k := range t.freqs {
					num := cmplx.Abs(t.spec[i][j][k])
					den := cmplx.Abs(t.spec[i][i][k]) * cmplx.Abs(t.spec[j][j][k])
					out[i][j][k] = num * num / den
				}

				if i != j {
					copy(out[j][i], out[i][j])
				}
			}
		}

		return out, nil
	})
}

// Phase returns the cross-spectrum phase per pair and frequency. The lower
// triangle is recomputed from the conjugated cross-spectrum rather than
// negated, which tolerates branch-cut differences in the angle primitive.
func (a *Analyzer) Phase() ([][][]float64, error) {
	return lazy.Get(a.cache, "phase", func() ([][][]float64, error) {
		t, err := a.tensor()
		if err != nil {
			return nil, err
		}

		n := len(a.data)
		out := newFloatCube(n, n, len(t.freqs))

		for i := 0; i < n; i++ {
			for j := i; j < n; j++ {
				for k, v := range t.spec[i][j] {
					out[i][j][k] = cmplx.Phase(v)

					if i != j {
						out[j][i][k] = cmplx.Phase(cmplx.Conj(v))
					}
				}
			}
		}

		return out, nil
	})
}

// Delay returns the per-frequency time delay between channel pairs:
// unwrapped phase divided by 2*pi*f. The zero-frequency bin divides by
// zero and propagates Inf/NaN unmasked.
func (a *Analyzer) Delay() ([][][]float64, error) {
	return lazy.Get(a.cache, "delay", func() ([][][]float64, error) {
		phase, err := a.Phase()
		if err != nil {
			return nil, err
		}

		freqs, err := a.Frequencies()
		if err != nil {
			return nil, err
		}

		n := len(a.data)
		out := newFloatCube(n, n, len(freqs))

		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				unwrapped := estimate.UnwrapPhase(phase[i][j])
				for k, f := range freqs {
					out[i][j][k] = unwrapped[k] / (2 * math.Pi * f)
				}
			}
		}

		return out, nil
	})
}

// PartialCoherence returns the coherence between channels i and j after
// controlling for channel k, over the full index cube. Each entry combines
// six cross/auto spectra; no symmetry reduction applies.
func (a *Analyzer) PartialCoherence() ([][][][]float64, error) {
	return lazy.Get(a.cache, "coherence_partial", func() ([][][][]float64, error) {
		t, err := a.tensor()
		if err != nil {
			return nil, err
		}

		n := len(a.data)
		bins := len(t.freqs)

		out := make([][][][]float64, n)
		for i := range out {
			out[i] = make([][][]float64, n)
			for j := range out[i] {
				out[i][j] = make([][]float64, n)
				for k := range out[i][j] {
					row := make([]float64, bins)
					for f := 0; f < bins; f++ {
						rij := coherencyAt(t.spec, i, j, f)
						rik := coherencyAt(t.spec, i, k, f)
						rjk := coherencyAt(t.spec, j, k, f)

						num := cmplx.Abs(rij - rik*cmplx.Conj(rjk))
						aik := cmplx.Abs(rik)
						ajk := cmplx.Abs(rjk)

						row[f] = num * num / ((1 - aik*aik) * (1 - ajk*ajk))
					}

					out[i][j][k] = row
				}
			}
		}

		return out, nil
	})
}

// coherencyAt normalizes one cross-spectrum bin by its auto-spectra.
func coherencyAt(spec [][][]complex128, i, j, k int) complex128 {
	return spec[i][j][k] / cmplx.Sqrt(spec[i][i][k]*spec[j][j][k])
}

func newComplexCube(n, bins int) [][][]complex128 {
	out := make([][][]complex128, n)
	for i := range out {
		out[i] = make([][]complex128, n)
		for j := range out[i] {
			out[i][j] = make([]complex128, bins)
		}
	}

	return out
}

func newFloatCube(n, m, bins int) [][][]float64 {
	out := make([][][]float64, n)
	for i := range out {
		out[i] = make([][]float64, m)
		for j := range out[i] {
			out[i][j] = make([]float64, bins)
		}
	}

	return out
}

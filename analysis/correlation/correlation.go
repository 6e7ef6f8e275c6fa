// Package correlation derives time-domain association measures from a
// multi-channel series: the Pearson correlation matrix and full
// cross-correlation functions over every channel pair.
package correlation

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
	"github.com/cwbudde/algo-tsa/ts/timeaxis"
	"github.com/cwbudde/algo-tsa/ts/unit"
)

// ErrConstantChannel is returned when a channel has zero variance, which
// makes normalized correlation undefined.
var ErrConstantChannel = errors.New("correlation: channel has zero variance")

// XCorrResult holds the full cross-correlation of every channel pair.
// Values is indexed channel x channel x lag; Lags maps each lag index to a
// time offset, with zero lag at time zero.
type XCorrResult struct {
	Values [][][]float64
	Lags   *timeaxis.TimeArray
}

// Analyzer computes correlation statistics of the series captured at
// construction. Each derived quantity is computed on first access and
// cached until Reset.
type Analyzer struct {
	data     [][]float64
	interval int64
	u        unit.Unit
	cache    *lazy.Cache
}

// New captures the series data and its sampling geometry.
func New(ts *series.UniformSeries) *Analyzer {
	return &Analyzer{
		data:     ts.Data,
		interval: ts.SamplingInterval().Ticks(),
		u:        ts.TimeUnit(),
		cache:    lazy.New(),
	}
}

// Reset discards every cached derived quantity.
func (a *Analyzer) Reset() {
	a.cache.Reset()
}

// Correlation returns the Pearson correlation coefficient matrix. The
// diagonal is exactly one.
func (a *Analyzer) Correlation() ([][]float64, error) {
	return lazy.Get(a.cache, "corrcoef", func() ([][]float64, error) {
		centered, std, err := a.centered()
		if err != nil {
			return nil, err
		}

		n := len(centered)
		t := float64(len(centered[0]))

		out := make([][]float64, n)
		for i := range out {
			out[i] = make([]float64, n)
			out[i][i] = 1
		}

		for i := 0; i < n; i++ {
			for j := i + 1; j < n; j++ {
				cov := vecmath.DotProduct(centered[i], centered[j]) / t
				r := cov / (std[i] * std[j])
				out[i][j] = r
				out[j][i] = r
			}
		}

		return out, nil
	})
}

// XCorr returns the full cross-correlation function of every channel pair,
// computed on the raw data without mean removal. Entry [i][j] at lag k is
// the sum over t of data[i][t+k] * data[j][t]; entry [j][i] is its lag
// reversal.
func (a *Analyzer) XCorr() (*XCorrResult, error) {
	return lazy.Get(a.cache, "xcorr", func() (*XCorrResult, error) {
		return a.crossCorrelate(a.data, nil)
	})
}

// XCorrNorm returns the cross-correlation of the mean-removed data,
// rescaled per pair so that the zero-lag value equals the Pearson
// correlation coefficient.
func (a *Analyzer) XCorrNorm() (*XCorrResult, error) {
	return lazy.Get(a.cache, "xcorr_norm", func() (*XCorrResult, error) {
		centered, std, err := a.centered()
		if err != nil {
			return nil, err
		}

		t := float64(len(centered[0]))

		scale := make([][]float64, len(centered))
		for i := range scale {
			scale[i] = make([]float64, len(centered))
			for j := range scale[i] {
				scale[i][j] = 1 / (t * std[i] * std[j])
			}
		}

		return a.crossCorrelate(centered, scale)
	})
}

// crossCorrelate transforms each channel once, forms the pairwise lag
// products in the frequency domain, and mirrors the lower triangle by lag
// reversal. An optional per-pair scale is applied in place.
func (a *Analyzer) crossCorrelate(data [][]float64, scale [][]float64) (*XCorrResult, error) {
	n := len(data)
	t := len(data[0])
	lags := 2*t - 1

	fftSize := nextPowerOf2(lags)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("correlation: failed to create FFT plan: %w", err)
	}

	freq := make([][]complex128, n)
	in := make([]complex128, fftSize)

	for i, ch := range data {
		for k := range in {
			in[k] = 0
		}

		for k, v := range ch {
			in[k] = complex(v, 0)
		}

		freq[i] = make([]complex128, fftSize)
		if err := plan.Forward(freq[i], in); err != nil {
			return nil, fmt.Errorf("correlation: forward FFT failed: %w", err)
		}
	}

	out := make([][][]float64, n)
	for i := range out {
		out[i] = make([][]float64, n)
	}

	prod := make([]complex128, fftSize)
	time := make([]complex128, fftSize)

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			for k := range prod {
				prod[k] = freq[i][k] * complex(real(freq[j][k]), -imag(freq[j][k]))
			}

			if err := plan.Inverse(time, prod); err != nil {
				return nil, fmt.Errorf("correlation: inverse FFT failed: %w", err)
			}

			// Circular correlation holds positive lags at the start of
			// the buffer and negative lags at the end.
			row := make([]float64, lags)
			for k := 0; k < t; k++ {
				row[t-1+k] = real(time[k])
			}

			for k := 0; k < t-1; k++ {
				row[k] = real(time[fftSize-t+1+k])
			}

			if scale != nil {
				vecmath.ScaleBlockInPlace(row, scale[i][j])
			}

			out[i][j] = row

			if i != j {
				out[j][i] = reversed(row)
			}
		}
	}

	axis, err := lagAxis(t, a.interval, a.u)
	if err != nil {
		return nil, err
	}

	return &XCorrResult{Values: out, Lags: axis}, nil
}

// centered returns the mean-removed data and the population standard
// deviation of each channel.
func (a *Analyzer) centered() ([][]float64, []float64, error) {
	return lazyCentered(a.cache, a.data)
}

type centeredData struct {
	rows [][]float64
	std  []float64
}

func lazyCentered(cache *lazy.Cache, data [][]float64) ([][]float64, []float64, error) {
	c, err := lazy.Get(cache, "centered", func() (*centeredData, error) {
		n := len(data)
		t := float64(len(data[0]))

		rows := make([][]float64, n)
		std := make([]float64, n)

		for i, ch := range data {
			mean := vecmath.Sum(ch) / t

			row := make([]float64, len(ch))
			for k, v := range ch {
				row[k] = v - mean
			}

			variance := vecmath.DotProduct(row, row) / t
			if variance == 0 {
				return nil, fmt.Errorf("%w: channel %d", ErrConstantChannel, i)
			}

			rows[i] = row
			std[i] = math.Sqrt(variance)
		}

		return &centeredData{rows: rows, std: std}, nil
	})
	if err != nil {
		return nil, nil, err
	}

	return c.rows, c.std, nil
}

// lagAxis builds the time axis for a full correlation of length 2t-1, with
// the zero-lag bin at time zero.
func lagAxis(t int, interval int64, u unit.Unit) (*timeaxis.TimeArray, error) {
	ticks := make([]int64, 2*t-1)
	for k := range ticks {
		ticks[k] = int64(k-(t-1)) * interval
	}

	return timeaxis.FromTicks(ticks, u)
}

func reversed(x []float64) []float64 {
	out := make([]float64, len(x))
	for i, v := range x {
		out[len(x)-1-i] = v
	}

	return out
}

func nextPowerOf2(n int) int {
	if n <= 1 {
		return 1
	}

	p := 1
	for p < n {
		p *= 2
	}

	return p
}

package estimate

import (
	"fmt"
	"math/cmplx"
	"sort"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// FFTCache holds per-channel windowed segment transforms for sparse
// pairwise estimation. Each referenced channel is transformed exactly once,
// no matter how many pairs share it. The speed-over-memory knob additionally
// stores the conjugated transforms, so pairs reuse them instead of
// conjugating on every cross-spectrum.
//
// Only the Welch estimator is supported: the cache is the factored-out
// middle of that estimator's segment averaging.
type FFTCache struct {
	wp       welchPlan
	freqs    []float64
	lo, hi   int
	segments map[int][][]complex128
	conj     map[int][][]complex128
}

// NewFFTCache transforms the listed channels of data under the given welch
// method, restricted to the frequency band [lb, ub] on read-out (ub 0 means
// the full range).
func NewFFTCache(data [][]float64, channels []int, m Method, lb, ub float64, speedOverMemory bool) (*FFTCache, error) {
	rm, err := m.resolve()
	if err != nil {
		return nil, err
	}

	if rm.Name != MethodWelch {
		return nil, fmt.Errorf("estimate: fft cache supports only the %q method, got %q", MethodWelch, rm.Name)
	}

	if len(data) == 0 || len(data[0]) == 0 {
		return nil, ErrEmptyInput
	}

	wp, err := newWelchPlan(len(data[0]), rm)
	if err != nil {
		return nil, err
	}

	plan, err := algofft.NewPlan64(wp.nfft)
	if err != nil {
		return nil, fmt.Errorf("estimate: fft plan: %w", err)
	}

	c := &FFTCache{
		wp:       wp,
		freqs:    Frequencies(rm.Fs, wp.nfft),
		segments: make(map[int][][]complex128),
	}

	c.lo, c.hi = BandIndices(c.freqs, lb, ub)

	if speedOverMemory {
		c.conj = make(map[int][][]complex128)
	}

	for _, ch := range uniqueSorted(channels) {
		if ch < 0 || ch >= len(data) {
			return nil, fmt.Errorf("estimate: channel index %d out of range [0,%d)", ch, len(data))
		}

		segs, err := segmentSpectra(data[ch], wp, plan)
		if err != nil {
			return nil, err
		}

		c.segments[ch] = segs

		if c.conj != nil {
			conj := make([][]complex128, len(segs))
			for s, seg := range segs {
				conj[s] = Conj(seg)
			}

			c.conj[ch] = conj
		}
	}

	return c, nil
}

// Frequencies returns the band-restricted frequency grid.
func (c *FFTCache) Frequencies() []float64 {
	return c.freqs[c.lo:c.hi]
}

// CSD returns the band-restricted cross-spectral density between cached
// channels i and j.
func (c *FFTCache) CSD(i, j int) ([]complex128, error) {
	ys, ok := c.segments[j]
	if !ok {
		return nil, fmt.Errorf("estimate: channel %d not cached", j)
	}

	var acc []complex128

	if c.conj != nil {
		cxs, ok := c.conj[i]
		if !ok {
			return nil, fmt.Errorf("estimate: channel %d not cached", i)
		}

		acc = make([]complex128, c.wp.bins)
		for s := range cxs {
			cx := cxs[s]
			y := ys[s]
			for k := range acc {
				acc[k] += cx[k] * y[k]
			}
		}

		norm := c.wp.scale / float64(len(cxs))
		for k := range acc {
			acc[k] *= complex(norm*c.wp.oneSided(k), 0)
		}
	} else {
		xs, ok := c.segments[i]
		if !ok {
			return nil, fmt.Errorf("estimate: channel %d not cached", i)
		}

		acc = averageCSD(xs, ys, c.wp)
	}

	return acc[c.lo:c.hi], nil
}

// PSD returns the band-restricted auto-spectral density of channel i.
func (c *FFTCache) PSD(i int) ([]float64, error) {
	csd, err := c.CSD(i, i)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(csd))
	for k, v := range csd {
		out[k] = real(v)
	}

	return out, nil
}

// Phase returns the band-restricted cross-spectrum phase between channels
// i and j in radians.
func (c *FFTCache) Phase(i, j int) ([]float64, error) {
	csd, err := c.CSD(i, j)
	if err != nil {
		return nil, err
	}

	out := make([]float64, len(csd))
	for k, v := range csd {
		out[k] = cmplx.Phase(v)
	}

	return out, nil
}

func uniqueSorted(idx []int) []int {
	out := append([]int(nil), idx...)
	sort.Ints(out)

	n := 0
	for i, v := range out {
		if i == 0 || v != out[n-1] {
			out[n] = v
			n++
		}
	}

	return out[:n]
}

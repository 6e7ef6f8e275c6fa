package estimate

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-tsa/window"
)

// welchPlan fixes the segmentation of a length-n signal for a resolved
// method, so that the dense and sparse paths segment identically.
type welchPlan struct {
	segLen int
	step   int
	nfft   int
	bins   int
	nseg   int
	win    []float64
	scale  float64
	fs     float64
}

func newWelchPlan(n int, m Method) (welchPlan, error) {
	if n == 0 {
		return welchPlan{}, ErrEmptyInput
	}

	winType, err := window.ByName(m.Window)
	if err != nil {
		return welchPlan{}, err
	}

	wp := welchPlan{nfft: m.NFFT, fs: m.Fs}

	wp.segLen = m.NFFT
	if n < wp.segLen {
		// Single zero-padded segment for short signals.
		wp.segLen = n
	}

	wp.step = wp.segLen - m.Overlap
	if wp.step <= 0 {
		wp.step = wp.segLen
	}

	wp.bins = wp.nfft/2 + 1
	wp.win = window.Generate(winType, wp.segLen)
	wp.nseg = 1 + (n-wp.segLen)/wp.step

	if m.NoDensityScaling {
		sum := 0.0
		for _, w := range wp.win {
			sum += w
		}

		wp.scale = 1 / (sum * sum)
	} else {
		wp.scale = 1 / (m.Fs * window.Energy(wp.win))
	}

	return wp, nil
}

// oneSided returns the one-sided weight for absolute bin k: interior bins
// carry the mirrored negative-frequency power.
func (wp welchPlan) oneSided(k int) float64 {
	if k == 0 {
		return 1
	}

	if wp.nfft%2 == 0 && k == wp.bins-1 {
		return 1 // Nyquist bin has no mirror
	}

	return 2
}

// segmentSpectra returns the windowed one-sided transform of every segment.
func segmentSpectra(x []float64, wp welchPlan, plan *algofft.Plan[complex128]) ([][]complex128, error) {
	in := make([]complex128, wp.nfft)
	out := make([]complex128, wp.nfft)
	segs := make([][]complex128, 0, wp.nseg)

	for s := 0; s < wp.nseg; s++ {
		start := s * wp.step
		seg := window.Applied(x[start:start+wp.segLen], wp.win)

		for i := range in {
			if i < len(seg) {
				in[i] = complex(seg[i], 0)
			} else {
				in[i] = 0
			}
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, fmt.Errorf("estimate: forward FFT: %w", err)
		}

		segs = append(segs, append([]complex128(nil), out[:wp.bins]...))
	}

	return segs, nil
}

// averageCSD folds per-segment spectra into a scaled one-sided density:
// mean over segments of conj(X)*Y.
func averageCSD(xs, ys [][]complex128, wp welchPlan) []complex128 {
	acc := make([]complex128, wp.bins)
	for s := range xs {
		xseg := xs[s]
		yseg := ys[s]
		for k := range acc {
			xc := xseg[k]
			acc[k] += complex(real(xc), -imag(xc)) * yseg[k]
		}
	}

	norm := wp.scale / float64(len(xs))
	for k := range acc {
		acc[k] *= complex(norm*wp.oneSided(k), 0)
	}

	return acc
}

// WelchCSD estimates the one-sided cross-spectral density of x and y by
// windowed segment averaging. With density scaling (the default) the result
// is per-Hz; otherwise it is a mean-square spectrum.
func WelchCSD(x, y []float64, m Method) ([]float64, []complex128, error) {
	rm, err := m.resolve()
	if err != nil {
		return nil, nil, err
	}

	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("estimate: signal length mismatch: %d != %d", len(x), len(y))
	}

	wp, err := newWelchPlan(len(x), rm)
	if err != nil {
		return nil, nil, err
	}

	plan, err := algofft.NewPlan64(wp.nfft)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate: fft plan: %w", err)
	}

	xs, err := segmentSpectra(x, wp, plan)
	if err != nil {
		return nil, nil, err
	}

	ys := xs
	if &y[0] != &x[0] {
		ys, err = segmentSpectra(y, wp, plan)
		if err != nil {
			return nil, nil, err
		}
	}

	return Frequencies(rm.Fs, wp.nfft), averageCSD(xs, ys, wp), nil
}

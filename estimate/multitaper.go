package estimate

import (
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"

	"github.com/cwbudde/algo-tsa/window"
)

// MultitaperCSD estimates the one-sided cross-spectral density of x and y by
// averaging over orthonormal sine tapers. The taper count comes from the
// method descriptor (2*NW-1 by default); the transform runs over the full
// signal length.
func MultitaperCSD(x, y []float64, m Method) ([]float64, []complex128, error) {
	rm, err := m.resolve()
	if err != nil {
		return nil, nil, err
	}

	if len(x) == 0 {
		return nil, nil, ErrEmptyInput
	}

	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("estimate: signal length mismatch: %d != %d", len(x), len(y))
	}

	n := len(x)
	bins := n/2 + 1
	tapers := window.SineTapers(n, rm.Tapers)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate: fft plan: %w", err)
	}

	in := make([]complex128, n)
	xk := make([]complex128, n)
	yk := make([]complex128, n)
	acc := make([]complex128, bins)

	same := &x[0] == &y[0]

	for _, taper := range tapers {
		if err := forwardTapered(plan, x, taper, in, xk); err != nil {
			return nil, nil, err
		}

		spec := xk
		if !same {
			if err := forwardTapered(plan, y, taper, in, yk); err != nil {
				return nil, nil, err
			}

			spec = yk
		}

		for k := 0; k < bins; k++ {
			xc := xk[k]
			acc[k] += complex(real(xc), -imag(xc)) * spec[k]
		}
	}

	norm := 1 / float64(len(tapers))
	if !rm.NoDensityScaling {
		norm /= rm.Fs
	}

	for k := range acc {
		w := 2.0
		if k == 0 || (n%2 == 0 && k == bins-1) {
			w = 1
		}

		acc[k] *= complex(norm*w, 0)
	}

	return Frequencies(rm.Fs, n), acc, nil
}

func forwardTapered(plan *algofft.Plan[complex128], x, taper []float64, in, out []complex128) error {
	tapered := window.Applied(x, taper)
	for i := range in {
		in[i] = complex(tapered[i], 0)
	}

	if err := plan.Forward(out, in); err != nil {
		return fmt.Errorf("estimate: forward FFT: %w", err)
	}

	return nil
}

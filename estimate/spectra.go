package estimate

import "fmt"

// CrossSpectrumFunc is the pairwise estimation contract: given two equally
// long signals and a method descriptor it returns the one-sided frequency
// grid and cross-spectral density. Tests inject instrumented
// implementations through this type.
type CrossSpectrumFunc func(x, y []float64, m Method) ([]float64, []complex128, error)

// CrossSpectrum returns the pairwise estimator selected by the method name.
// The raw FFT method has no pairwise form and is rejected here.
func CrossSpectrum(m Method) (CrossSpectrumFunc, error) {
	rm, err := m.resolve()
	if err != nil {
		return nil, err
	}

	switch rm.Name {
	case MethodWelch:
		return WelchCSD, nil
	case MethodMultitaper:
		return MultitaperCSD, nil
	default:
		return nil, fmt.Errorf("estimate: method %q has no pairwise cross-spectrum estimator", rm.Name)
	}
}

// Spectra computes the full channel x channel x frequency cross-spectral
// tensor. The upper triangle (i <= j) is estimated pairwise; the strictly
// lower triangle is the complex conjugate of its mirror, never recomputed.
func Spectra(data [][]float64, m Method) ([]float64, [][][]complex128, error) {
	return SpectraWith(data, m, nil)
}

// SpectraWith is Spectra with an explicit pairwise estimator. A nil csd
// resolves the estimator from the method descriptor.
func SpectraWith(data [][]float64, m Method, csd CrossSpectrumFunc) ([]float64, [][][]complex128, error) {
	if len(data) == 0 {
		return nil, nil, ErrEmptyInput
	}

	if csd == nil {
		var err error

		csd, err = CrossSpectrum(m)
		if err != nil {
			return nil, nil, err
		}
	}

	n := len(data)
	spec := make([][][]complex128, n)
	for i := range spec {
		spec[i] = make([][]complex128, n)
	}

	var freqs []float64

	for i := 0; i < n; i++ {
		for j := i; j < n; j++ {
			f, c, err := csd(data[i], data[j], m)
			if err != nil {
				return nil, nil, fmt.Errorf("estimate: cross-spectrum (%d,%d): %w", i, j, err)
			}

			freqs = f
			spec[i][j] = c

			if i != j {
				spec[j][i] = Conj(c)
			}
		}
	}

	return freqs, spec, nil
}

// Conj returns the elementwise complex conjugate of c as a new slice.
func Conj(c []complex128) []complex128 {
	out := make([]complex128, len(c))
	for i, v := range c {
		out[i] = complex(real(v), -imag(v))
	}

	return out
}

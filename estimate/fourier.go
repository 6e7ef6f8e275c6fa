package estimate

import (
	"errors"
	"fmt"

	algofft "github.com/MeKo-Christian/algo-fft"
)

// ErrEmptyInput is returned when an estimator receives no samples.
var ErrEmptyInput = errors.New("estimate: empty input")

// FourierSpectrum returns the raw, non-normalized discrete Fourier spectrum
// of each channel, restricted to non-negative frequencies.
func FourierSpectrum(data [][]float64, fs float64) ([]float64, [][]complex128, error) {
	if fs <= 0 {
		return nil, nil, ErrMissingSamplingRate
	}

	if len(data) == 0 || len(data[0]) == 0 {
		return nil, nil, ErrEmptyInput
	}

	n := len(data[0])
	freqs := Frequencies(fs, n)

	plan, err := algofft.NewPlan64(n)
	if err != nil {
		return nil, nil, fmt.Errorf("estimate: fft plan: %w", err)
	}

	in := make([]complex128, n)
	out := make([]complex128, n)
	spec := make([][]complex128, len(data))

	for ch, row := range data {
		if len(row) != n {
			return nil, nil, fmt.Errorf("estimate: channel %d has %d samples, want %d", ch, len(row), n)
		}

		for i, v := range row {
			in[i] = complex(v, 0)
		}

		if err := plan.Forward(out, in); err != nil {
			return nil, nil, fmt.Errorf("estimate: forward FFT: %w", err)
		}

		spec[ch] = append([]complex128(nil), out[:len(freqs)]...)
	}

	return freqs, spec, nil
}

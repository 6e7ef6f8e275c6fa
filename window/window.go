// Package window generates the analysis windows used by the spectral
// estimators: cosine-sum tapers for segment averaging and the sine-taper
// family for multitaper estimation.
package window

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies a window function.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeHamming
	TypeBlackman
	TypeFlatTop
)

var cosineCoeffs = map[Type][]float64{
	TypeRectangular: {1},
	TypeHann:        {0.5, -0.5},
	TypeHamming:     {0.54, -0.46},
	TypeBlackman:    {0.42, -0.5, 0.08},
	TypeFlatTop:     {0.21557895, -0.41663158, 0.277263158, -0.083578947, 0.006947368},
}

var namesByType = map[Type]string{
	TypeRectangular: "rectangular",
	TypeHann:        "hann",
	TypeHamming:     "hamming",
	TypeBlackman:    "blackman",
	TypeFlatTop:     "flattop",
}

// ByName resolves a window name as used in method descriptors.
// The empty string resolves to Hann.
func ByName(name string) (Type, error) {
	if name == "" {
		return TypeHann, nil
	}

	for t, n := range namesByType {
		if n == name {
			return t, nil
		}
	}

	return 0, fmt.Errorf("window: unsupported window %q", name)
}

// String returns the descriptor name of the window type.
func (t Type) String() string {
	if n, ok := namesByType[t]; ok {
		return n
	}

	return fmt.Sprintf("window.Type(%d)", int(t))
}

// Option configures window generation.
type Option func(*config)

type config struct {
	periodic bool
}

// WithPeriodic selects the periodic form (FFT framing) instead of the
// symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns window coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	coeffs, ok := cosineCoeffs[t]
	if !ok {
		coeffs = cosineCoeffs[TypeRectangular]
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}

	if length == 1 {
		den = 1
	}

	out := make([]float64, length)
	for i := range out {
		phase := 2 * math.Pi * float64(i) / den

		sum := 0.0
		for k, c := range coeffs {
			sum += c * math.Cos(float64(k)*phase)
		}

		out[i] = sum
	}

	return out
}

// Apply multiplies buf in place by the selected window.
func Apply(t Type, buf []float64, opts ...Option) {
	if len(buf) == 0 {
		return
	}

	coeffs := Generate(t, len(buf), opts...)
	vecmath.MulBlockInPlace(buf, coeffs)
}

// Applied returns samples multiplied by coeffs without touching samples.
func Applied(samples, coeffs []float64) []float64 {
	out := make([]float64, len(samples))
	vecmath.MulBlock(out, samples, coeffs)

	return out
}

// Energy returns the sum of squared coefficients. Spectral-density scaling
// divides by this instead of the squared coherent gain.
func Energy(coeffs []float64) float64 {
	sum := 0.0
	for _, c := range coeffs {
		sum += c * c
	}

	return sum
}

// SineTapers returns k orthonormal sine tapers of the given length
// (Riedel-Sidorenko). Taper j is sqrt(2/(n+1)) * sin(pi*(j+1)*(t+1)/(n+1)).
func SineTapers(length, k int) [][]float64 {
	if length <= 0 || k <= 0 {
		return nil
	}

	norm := math.Sqrt(2 / float64(length+1))
	tapers := make([][]float64, k)

	for j := range tapers {
		w := make([]float64, length)
		for t := range w {
			w[t] = norm * math.Sin(math.Pi*float64(j+1)*float64(t+1)/float64(length+1))
		}

		tapers[j] = w
	}

	return tapers
}

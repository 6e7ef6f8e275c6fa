package estimate

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-tsa/internal/testutil"
)

func TestWelchPSDPeaksAtSineFrequency(t *testing.T) {
	const fs = 64.0
	x := testutil.DeterministicSine(8, fs, 1, 512)

	freqs, psd, err := WelchCSD(x, x, Method{Fs: fs})
	if err != nil {
		t.Fatalf("WelchCSD: %v", err)
	}

	peak := 0
	for k := range psd {
		if real(psd[k]) > real(psd[peak]) {
			peak = k
		}
	}

	if freqs[peak] != 8 {
		t.Fatalf("peak at %v Hz, want 8", freqs[peak])
	}

	// Auto-spectra are real and non-negative.
	for k, v := range psd {
		if math.Abs(imag(v)) > 1e-12 {
			t.Fatalf("bin %d: imaginary auto-spectrum %v", k, v)
		}

		if real(v) < 0 {
			t.Fatalf("bin %d: negative power %v", k, real(v))
		}
	}
}

func TestWelchCSDConjugateSymmetry(t *testing.T) {
	const fs = 32.0
	x := testutil.NoisySine(4, fs, 1, 1, 256)
	y := testutil.NoisySine(4, fs, 1, 2, 256)

	_, xy, err := WelchCSD(x, y, Method{Fs: fs})
	if err != nil {
		t.Fatalf("WelchCSD(x,y): %v", err)
	}

	_, yx, err := WelchCSD(y, x, Method{Fs: fs})
	if err != nil {
		t.Fatalf("WelchCSD(y,x): %v", err)
	}

	testutil.RequireComplexSliceNearlyEqual(t, Conj(xy), yx, 1e-12)
}

func TestWelchScalingModesDifferByConstantFactor(t *testing.T) {
	const fs = 32.0
	x := testutil.NoisySine(4, fs, 1, 3, 256)

	_, density, err := WelchCSD(x, x, Method{Fs: fs})
	if err != nil {
		t.Fatalf("density: %v", err)
	}

	_, meanSquare, err := WelchCSD(x, x, Method{Fs: fs, NoDensityScaling: true})
	if err != nil {
		t.Fatalf("mean square: %v", err)
	}

	// The two scalings differ by a bin-independent constant.
	var ratio float64
	for k := range density {
		d := real(density[k])
		ms := real(meanSquare[k])
		if ms == 0 {
			continue
		}

		r := d / ms
		if ratio == 0 {
			ratio = r

			continue
		}

		if math.Abs(r-ratio)/ratio > 1e-9 {
			t.Fatalf("bin %d: scaling ratio %v differs from %v", k, r, ratio)
		}
	}

	if ratio == 0 {
		t.Fatal("no nonzero bins to compare")
	}
}

func TestWelchShortSignalUsesSinglePaddedSegment(t *testing.T) {
	const fs = 16.0
	x := testutil.DeterministicSine(4, fs, 1, 20) // shorter than the default NFFT of 64

	freqs, psd, err := WelchCSD(x, x, Method{Fs: fs})
	if err != nil {
		t.Fatalf("WelchCSD: %v", err)
	}

	if len(freqs) != 33 || len(psd) != 33 {
		t.Fatalf("bins = %d/%d, want 33 (NFFT 64)", len(freqs), len(psd))
	}
}

func TestWelchLengthMismatch(t *testing.T) {
	if _, _, err := WelchCSD(make([]float64, 8), make([]float64, 9), Method{Fs: 1}); err == nil {
		t.Fatal("expected error for length mismatch")
	}
}

func TestMultitaperPSDPeaksAtSineFrequency(t *testing.T) {
	const fs = 64.0
	x := testutil.DeterministicSine(8, fs, 1, 256)

	freqs, psd, err := MultitaperCSD(x, x, Method{Name: MethodMultitaper, Fs: fs})
	if err != nil {
		t.Fatalf("MultitaperCSD: %v", err)
	}

	peak := 0
	for k := range psd {
		if real(psd[k]) > real(psd[peak]) {
			peak = k
		}
	}

	if math.Abs(freqs[peak]-8) > 1 {
		t.Fatalf("peak at %v Hz, want near 8", freqs[peak])
	}

	for k, v := range psd {
		if real(v) < 0 {
			t.Fatalf("bin %d: negative power %v", k, real(v))
		}
	}
}

func TestFourierSpectrumDCBin(t *testing.T) {
	data := [][]float64{{1, 1, 1, 1, 1, 1, 1, 1}}

	freqs, spec, err := FourierSpectrum(data, 8)
	if err != nil {
		t.Fatalf("FourierSpectrum: %v", err)
	}

	if freqs[0] != 0 {
		t.Fatalf("first frequency = %v, want 0", freqs[0])
	}

	// Raw non-normalized transform: DC bin holds the plain sample sum.
	if cmplx.Abs(spec[0][0]-8) > 1e-12 {
		t.Fatalf("DC bin = %v, want 8", spec[0][0])
	}

	for k := 1; k < len(spec[0]); k++ {
		if cmplx.Abs(spec[0][k]) > 1e-12 {
			t.Fatalf("bin %d = %v, want 0 for constant input", k, spec[0][k])
		}
	}
}

func TestUnwrapPhaseRemovesJumps(t *testing.T) {
	// A linearly increasing phase wrapped into (-pi, pi].
	true_ := make([]float64, 40)
	wrapped := make([]float64, 40)
	for i := range true_ {
		true_[i] = 0.4 * float64(i)
		wrapped[i] = math.Mod(true_[i]+math.Pi, 2*math.Pi) - math.Pi
	}

	got := UnwrapPhase(wrapped)
	testutil.RequireSliceNearlyEqual(t, got, true_, 1e-9)
}

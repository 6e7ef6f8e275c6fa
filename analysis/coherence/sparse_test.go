package coherence

import (
	"errors"
	"math/cmplx"
	"testing"

	"github.com/cwbudde/algo-tsa/estimate"
	"github.com/cwbudde/algo-tsa/internal/testutil"
)

func TestSparseMatchesDense(t *testing.T) {
	ts := threeChannelSeries(t)

	dense, err := New(ts, estimate.Method{})
	if err != nil {
		t.Fatalf("dense: %v", err)
	}

	sparse, err := NewSparse(ts, []Pair{{0, 1}}, estimate.Method{})
	if err != nil {
		t.Fatalf("sparse: %v", err)
	}

	denseCoh, err := dense.Coherency()
	if err != nil {
		t.Fatalf("dense Coherency: %v", err)
	}

	sparseCoh, err := sparse.Coherency()
	if err != nil {
		t.Fatalf("sparse Coherency: %v", err)
	}

	testutil.RequireComplexSliceNearlyEqual(t, sparseCoh[Pair{0, 1}], denseCoh[0][1], 1e-12)

	denseFreqs, err := dense.Frequencies()
	if err != nil {
		t.Fatalf("dense Frequencies: %v", err)
	}

	sparseFreqs, err := sparse.Frequencies()
	if err != nil {
		t.Fatalf("sparse Frequencies: %v", err)
	}

	testutil.RequireSliceNearlyEqual(t, sparseFreqs, denseFreqs, 0)
}

func TestSparseSpectrumCoversReferencedChannels(t *testing.T) {
	ts := threeChannelSeries(t)

	sparse, err := NewSparse(ts, []Pair{{0, 2}, {1, 2}}, estimate.Method{})
	if err != nil {
		t.Fatalf("NewSparse: %v", err)
	}

	psd, err := sparse.Spectrum()
	if err != nil {
		t.Fatalf("Spectrum: %v", err)
	}

	if len(psd) != 3 {
		t.Fatalf("spectrum covers %d channels, want 3", len(psd))
	}

	for ch, row := range psd {
		for k, v := range row {
			if v < 0 {
				t.Fatalf("channel %d bin %d: negative power %v", ch, k, v)
			}
		}
	}
}

func TestSparsePhasesMatchCoherencyAngle(t *testing.T) {
	ts := threeChannelSeries(t)

	sparse, err := NewSparse(ts, []Pair{{0, 1}}, estimate.Method{})
	if err != nil {
		t.Fatalf("NewSparse: %v", err)
	}

	phases, err := sparse.Phases()
	if err != nil {
		t.Fatalf("Phases: %v", err)
	}

	coh, err := sparse.Coherency()
	if err != nil {
		t.Fatalf("Coherency: %v", err)
	}

	p := phases[Pair{0, 1}]
	c := coh[Pair{0, 1}]

	// Normalization by the real auto-spectra does not move the angle.
	for k := range p {
		diff := p[k] - cmplx.Phase(c[k])
		if diff > 1e-9 || diff < -1e-9 {
			t.Fatalf("bin %d: phase %v vs coherency angle %v", k, p[k], cmplx.Phase(c[k]))
		}
	}
}

func TestSparseSpeedOverMemoryIdentical(t *testing.T) {
	ts := threeChannelSeries(t)
	pairs := []Pair{{0, 1}, {1, 2}}

	plain, err := NewSparse(ts, pairs, estimate.Method{})
	if err != nil {
		t.Fatalf("plain: %v", err)
	}

	fast, err := NewSparse(ts, pairs, estimate.Method{}, WithSpeedOverMemory())
	if err != nil {
		t.Fatalf("fast: %v", err)
	}

	a, err := plain.Coherency()
	if err != nil {
		t.Fatalf("plain Coherency: %v", err)
	}

	b, err := fast.Coherency()
	if err != nil {
		t.Fatalf("fast Coherency: %v", err)
	}

	for _, p := range pairs {
		testutil.RequireComplexSliceNearlyEqual(t, a[p], b[p], 1e-12)
	}
}

func TestSparseBandRestriction(t *testing.T) {
	ts := threeChannelSeries(t)

	sparse, err := NewSparse(ts, []Pair{{0, 1}}, estimate.Method{}, WithBand(2, 6))
	if err != nil {
		t.Fatalf("NewSparse: %v", err)
	}

	freqs, err := sparse.Frequencies()
	if err != nil {
		t.Fatalf("Frequencies: %v", err)
	}

	for _, f := range freqs {
		if f < 2 || f > 6 {
			t.Fatalf("frequency %v outside requested band [2, 6]", f)
		}
	}

	coh, err := sparse.Coherency()
	if err != nil {
		t.Fatalf("Coherency: %v", err)
	}

	if len(coh[Pair{0, 1}]) != len(freqs) {
		t.Fatalf("coherency bins %d != frequency bins %d", len(coh[Pair{0, 1}]), len(freqs))
	}
}

func TestSparseRejectsNonWelch(t *testing.T) {
	ts := threeChannelSeries(t)

	_, err := NewSparse(ts, []Pair{{0, 1}}, estimate.Method{Name: estimate.MethodMultitaper})
	if !errors.Is(err, ErrUnsupportedMethod) {
		t.Fatalf("err = %v, want ErrUnsupportedMethod", err)
	}
}

func TestSparseRejectsOutOfRangePair(t *testing.T) {
	ts := threeChannelSeries(t)

	if _, err := NewSparse(ts, []Pair{{0, 7}}, estimate.Method{}); err == nil {
		t.Fatal("expected error for out-of-range channel index")
	}
}

package spectral

import (
	"testing"

	"github.com/cwbudde/algo-tsa/estimate"
	"github.com/cwbudde/algo-tsa/internal/testutil"
)

func newTestAnalyzer(t *testing.T) *Analyzer {
	t.Helper()

	ts := testutil.NewSeries(t, 64,
		testutil.NoisySine(8, 64, 1, 1, 256),
		testutil.NoisySine(8, 64, 1, 2, 256),
	)

	return New(ts, estimate.Method{})
}

func TestSpectrumWelchPeak(t *testing.T) {
	a := newTestAnalyzer(t)

	cs, err := a.SpectrumWelch()
	if err != nil {
		t.Fatalf("SpectrumWelch: %v", err)
	}

	if len(cs.Values) != 2 || len(cs.Values[0]) != 2 {
		t.Fatalf("tensor shape %dx%d, want 2x2", len(cs.Values), len(cs.Values[0]))
	}

	psd := cs.Values[0][0]
	peak := 0
	for k := range psd {
		if real(psd[k]) > real(psd[peak]) {
			peak = k
		}
	}

	if cs.Frequencies[peak] != 8 {
		t.Fatalf("peak at %v Hz, want 8", cs.Frequencies[peak])
	}
}

func TestSpectrumFourierShape(t *testing.T) {
	a := newTestAnalyzer(t)

	s, err := a.SpectrumFourier()
	if err != nil {
		t.Fatalf("SpectrumFourier: %v", err)
	}

	if len(s.Values) != 2 {
		t.Fatalf("channels = %d, want 2", len(s.Values))
	}

	if len(s.Values[0]) != len(s.Frequencies) {
		t.Fatalf("spectrum bins %d != frequency bins %d", len(s.Values[0]), len(s.Frequencies))
	}

	if len(s.Frequencies) != 256/2+1 {
		t.Fatalf("bins = %d, want 129", len(s.Frequencies))
	}
}

func TestMethodsCachedIndependently(t *testing.T) {
	a := newTestAnalyzer(t)

	welch1, err := a.SpectrumWelch()
	if err != nil {
		t.Fatalf("SpectrumWelch: %v", err)
	}

	welch2, err := a.SpectrumWelch()
	if err != nil {
		t.Fatalf("SpectrumWelch: %v", err)
	}

	if welch1 != welch2 {
		t.Fatal("welch spectrum recomputed instead of cached")
	}

	mt, err := a.SpectrumMultitaper()
	if err != nil {
		t.Fatalf("SpectrumMultitaper: %v", err)
	}

	if mt == nil || len(mt.Values) != 2 {
		t.Fatal("multitaper tensor missing")
	}

	// Requesting multitaper must not evict or replace the welch result.
	welch3, err := a.SpectrumWelch()
	if err != nil {
		t.Fatalf("SpectrumWelch: %v", err)
	}

	if welch3 != welch1 {
		t.Fatal("welch cache invalidated by another method")
	}
}

func TestResetForcesRecompute(t *testing.T) {
	a := newTestAnalyzer(t)

	before, err := a.SpectrumWelch()
	if err != nil {
		t.Fatalf("SpectrumWelch: %v", err)
	}

	a.Reset()

	after, err := a.SpectrumWelch()
	if err != nil {
		t.Fatalf("SpectrumWelch: %v", err)
	}

	if before == after {
		t.Fatal("Reset did not discard the cached spectrum")
	}
}

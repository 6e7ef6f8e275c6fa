package window

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tsa/internal/testutil"
)

func TestHannEndpointsAndPeak(t *testing.T) {
	w := Generate(TypeHann, 9)

	if w[0] != 0 || math.Abs(w[8]) > 1e-15 {
		t.Fatalf("symmetric hann endpoints = %v, %v, want 0", w[0], w[8])
	}

	if math.Abs(w[4]-1) > 1e-15 {
		t.Fatalf("hann midpoint = %v, want 1", w[4])
	}
}

func TestSymmetricWindowIsSymmetric(t *testing.T) {
	for _, typ := range []Type{TypeHann, TypeHamming, TypeBlackman, TypeFlatTop} {
		w := Generate(typ, 17)
		for i := range w {
			if math.Abs(w[i]-w[len(w)-1-i]) > 1e-12 {
				t.Fatalf("%s not symmetric at %d: %v vs %v", typ, i, w[i], w[len(w)-1-i])
			}
		}
	}
}

func TestPeriodicHannMatchesLongerSymmetric(t *testing.T) {
	// The periodic window of length n equals the first n points of the
	// symmetric window of length n+1.
	periodic := Generate(TypeHann, 16, WithPeriodic())
	symmetric := Generate(TypeHann, 17)

	testutil.RequireSliceNearlyEqual(t, periodic, symmetric[:16], 1e-12)
}

func TestRectangular(t *testing.T) {
	w := Generate(TypeRectangular, 5)
	for i, v := range w {
		if v != 1 {
			t.Fatalf("rectangular[%d] = %v, want 1", i, v)
		}
	}

	if Energy(w) != 5 {
		t.Fatalf("Energy = %v, want 5", Energy(w))
	}
}

func TestByName(t *testing.T) {
	typ, err := ByName("")
	if err != nil || typ != TypeHann {
		t.Fatalf("ByName(\"\") = %v, %v, want hann", typ, err)
	}

	typ, err = ByName("blackman")
	if err != nil || typ != TypeBlackman {
		t.Fatalf("ByName(blackman) = %v, %v", typ, err)
	}

	if _, err := ByName("kaiser"); err == nil {
		t.Fatal("expected error for unsupported window name")
	}
}

func TestApply(t *testing.T) {
	buf := []float64{1, 1, 1, 1, 1}
	Apply(TypeHann, buf)

	want := Generate(TypeHann, 5)
	testutil.RequireSliceNearlyEqual(t, buf, want, 1e-15)
}

func TestSineTapersOrthonormal(t *testing.T) {
	const n, k = 64, 4

	tapers := SineTapers(n, k)
	if len(tapers) != k {
		t.Fatalf("taper count = %d, want %d", len(tapers), k)
	}

	for i := 0; i < k; i++ {
		for j := 0; j < k; j++ {
			dot := 0.0
			for s := 0; s < n; s++ {
				dot += tapers[i][s] * tapers[j][s]
			}

			want := 0.0
			if i == j {
				want = 1
			}

			if math.Abs(dot-want) > 1e-12 {
				t.Fatalf("tapers %d,%d: dot = %v, want %v", i, j, dot, want)
			}
		}
	}
}

package testutil

import (
	"math"
	"testing"
)

func TestMaxAbsDiff(t *testing.T) {
	a := []float64{1.0, 2.0, 3.0}
	b := []float64{1.0, 2.1, 3.0}

	d := MaxAbsDiff(t, a, b)
	if math.Abs(d-0.1) > 1e-15 {
		t.Fatalf("MaxAbsDiff = %v, want 0.1", d)
	}
}

func TestMaxAbsDiffIdentical(t *testing.T) {
	a := []float64{1, 2, 3}

	d := MaxAbsDiff(t, a, a)
	if d != 0 {
		t.Fatalf("MaxAbsDiff = %v, want 0 for identical slices", d)
	}
}

func TestRequireComplexSliceNearlyEqual(t *testing.T) {
	a := []complex128{1 + 2i, 3 - 4i}
	b := []complex128{1 + 2i, 3 - 4i + 1e-12i}

	RequireComplexSliceNearlyEqual(t, a, b, 1e-9)
}

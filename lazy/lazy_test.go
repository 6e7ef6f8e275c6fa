package lazy

import (
	"errors"
	"testing"
)

func TestGetComputesOnce(t *testing.T) {
	c := New()
	calls := 0

	compute := func() ([]float64, error) {
		calls++

		return []float64{1, 2, 3}, nil
	}

	first, err := Get(c, "attr", compute)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	second, err := Get(c, "attr", compute)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("compute invoked %d times, want 1", calls)
	}

	// Identity, not just equality: the cached object itself comes back.
	if &first[0] != &second[0] {
		t.Fatalf("second read returned a different object")
	}
}

func TestResetForcesRecompute(t *testing.T) {
	c := New()
	calls := 0

	compute := func() (int, error) {
		calls++

		return calls, nil
	}

	if _, err := Get(c, "attr", compute); err != nil {
		t.Fatalf("Get error: %v", err)
	}

	c.Reset()

	v, err := Get(c, "attr", compute)
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}

	if calls != 2 || v != 2 {
		t.Fatalf("after reset: calls=%d v=%d, want 2, 2", calls, v)
	}
}

func TestFailedComputeLeavesKeyUnpopulated(t *testing.T) {
	c := New()
	fail := errors.New("boom")
	attempts := 0

	_, err := Get(c, "attr", func() (int, error) {
		attempts++

		return 0, fail
	})
	if !errors.Is(err, fail) {
		t.Fatalf("expected computation error, got %v", err)
	}

	if c.Computed("attr") {
		t.Fatalf("failed computation must not populate the cache")
	}

	v, err := Get(c, "attr", func() (int, error) {
		attempts++

		return 7, nil
	})
	if err != nil || v != 7 {
		t.Fatalf("retry after failure: v=%d err=%v", v, err)
	}

	if attempts != 2 {
		t.Fatalf("attempts=%d, want 2", attempts)
	}
}

func TestKeysAreIndependent(t *testing.T) {
	c := New()

	a, _ := Get(c, "a", func() (int, error) { return 1, nil })
	b, _ := Get(c, "b", func() (int, error) { return 2, nil })

	if a != 1 || b != 2 {
		t.Fatalf("a=%d b=%d", a, b)
	}

	if !c.Computed("a") || !c.Computed("b") {
		t.Fatalf("both keys should be populated")
	}
}

package timeaxis

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-tsa/ts/unit"
)

func TestNewRoundsToNearestTick(t *testing.T) {
	// 1.5 ps rounds to 2 ticks; display values move with it.
	ta, err := New([]float64{0, 1.4, 1.5}, unit.Picosecond)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	want := []int64{0, 1, 2}
	for i, tk := range ta.Ticks() {
		if tk != want[i] {
			t.Fatalf("tick %d = %d, want %d", i, tk, want[i])
		}
	}
}

func TestUnitRoundTripWithinOneTick(t *testing.T) {
	values := []float64{0.001, 0.25, 1, 3600.5}

	ta, err := New(values, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := ta.ConvertUnit(unit.Millisecond); err != nil {
		t.Fatalf("ConvertUnit: %v", err)
	}

	if err := ta.ConvertUnit(unit.Second); err != nil {
		t.Fatalf("ConvertUnit: %v", err)
	}

	tickInSeconds := 1 / float64(unit.TicksPerSecond)
	for i, got := range ta.Values() {
		if math.Abs(got-values[i]) > tickInSeconds {
			t.Fatalf("value %d = %v, want %v within one tick", i, got, values[i])
		}
	}
}

func TestConvertUnitKeepsTicks(t *testing.T) {
	ta, err := New([]float64{1, 2}, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	before := append([]int64(nil), ta.Ticks()...)

	if err := ta.ConvertUnit(unit.Millisecond); err != nil {
		t.Fatalf("ConvertUnit: %v", err)
	}

	for i, tk := range ta.Ticks() {
		if tk != before[i] {
			t.Fatalf("tick %d changed from %d to %d on unit conversion", i, before[i], tk)
		}
	}

	if got := ta.Values()[0]; got != 1000 {
		t.Fatalf("value in ms = %v, want 1000", got)
	}
}

func TestNewRejectsInvalidUnit(t *testing.T) {
	if _, err := New([]float64{1}, "lightyear"); err == nil {
		t.Fatal("expected error for invalid unit")
	}
}

func TestSetReinterpretsInDisplayUnit(t *testing.T) {
	ta, err := New([]float64{1, 2}, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if err := ta.ConvertUnit(unit.Millisecond); err != nil {
		t.Fatalf("ConvertUnit: %v", err)
	}

	ta.Set(0, 500) // 500 ms
	if got := ta.At(0).Seconds(); got != 0.5 {
		t.Fatalf("At(0) = %v s, want 0.5", got)
	}
}

func TestIndexAtReturnsAllTies(t *testing.T) {
	ta, err := New([]float64{0, 1, 3, 5}, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	// 2 s is equidistant from 1 s and 3 s.
	idx := ta.IndexAt(2)
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 2 {
		t.Fatalf("IndexAt(2) = %v, want [1 2]", idx)
	}

	idx = ta.IndexAt(4.9)
	if len(idx) != 1 || idx[0] != 3 {
		t.Fatalf("IndexAt(4.9) = %v, want [3]", idx)
	}
}

func TestIndexWithin(t *testing.T) {
	ta, err := New([]float64{0, 1, 2, 3}, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	idx := ta.IndexWithin(1.5, 0.6)
	if len(idx) != 2 || idx[0] != 1 || idx[1] != 2 {
		t.Fatalf("IndexWithin(1.5, 0.6) = %v, want [1 2]", idx)
	}
}

func TestComparisonsReturnPlainBools(t *testing.T) {
	ta, err := New([]float64{0, 1, 2}, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	eq := ta.EqualTo(1)
	if !eq[1] || eq[0] || eq[2] {
		t.Fatalf("EqualTo(1) = %v", eq)
	}

	before := ta.Before(1)
	if !before[0] || before[1] || before[2] {
		t.Fatalf("Before(1) = %v", before)
	}

	after := ta.After(1)
	if after[0] || after[1] || !after[2] {
		t.Fatalf("After(1) = %v", after)
	}
}

func TestSliceSharesStorage(t *testing.T) {
	ta, err := New([]float64{0, 1, 2, 3}, unit.Second)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	view := ta.Slice(1, 3)
	view.Set(0, 10)

	if got := ta.At(1).Seconds(); got != 10 {
		t.Fatalf("parent not updated through slice view: %v", got)
	}

	cp := ta.Copy()
	cp.Set(0, 42)
	if ta.At(0).Seconds() == 42 {
		t.Fatal("Copy shares storage with parent")
	}
}

func TestPointString(t *testing.T) {
	p, err := NewPoint(0.5, unit.Second)
	if err != nil {
		t.Fatalf("NewPoint: %v", err)
	}

	if got := p.String(); got != "0.5 s" {
		t.Fatalf("String = %q, want \"0.5 s\"", got)
	}
}

package timeaxis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tsa/ts/unit"
)

// Point is a scalar time value: one tick count tagged with a display unit.
type Point struct {
	tick int64
	u    unit.Unit
}

// NewPoint builds a Point from a value expressed in u.
func NewPoint(value float64, u unit.Unit) (Point, error) {
	factor, err := unit.TicksPerUnit(u)
	if err != nil {
		return Point{}, err
	}

	return Point{tick: roundTicks(value, factor), u: unit.Canonical(u)}, nil
}

// PointFromTicks builds a Point from a base-tick count.
func PointFromTicks(tick int64, u unit.Unit) Point {
	return Point{tick: tick, u: unit.Canonical(u)}
}

// Ticks returns the base-tick count.
func (p Point) Ticks() int64 { return p.tick }

// Unit returns the display unit.
func (p Point) Unit() unit.Unit { return p.u }

// Value returns the time value expressed in the display unit.
func (p Point) Value() float64 {
	factor, _ := unit.TicksPerUnit(p.u)

	return float64(p.tick) / float64(factor)
}

// Seconds returns the time value in seconds.
func (p Point) Seconds() float64 {
	return float64(p.tick) / float64(unit.TicksPerSecond)
}

// In returns the time value expressed in the given unit.
func (p Point) In(u unit.Unit) (float64, error) {
	factor, err := unit.TicksPerUnit(u)
	if err != nil {
		return 0, err
	}

	return float64(p.tick) / float64(factor), nil
}

// String renders the point in its display unit, e.g. "0.5 s".
func (p Point) String() string {
	return fmt.Sprintf("%g %s", p.Value(), string(unit.Canonical(p.u)))
}

// TimeArray is an ordered sequence of base-tick values tagged with a display
// unit. The ticks are always stored at base resolution; the unit only affects
// how values are rendered and how incoming values are interpreted.
type TimeArray struct {
	ticks []int64
	u     unit.Unit
}

// New builds a TimeArray from values expressed in u, rounding each value to
// the nearest base tick.
func New(values []float64, u unit.Unit) (*TimeArray, error) {
	factor, err := unit.TicksPerUnit(u)
	if err != nil {
		return nil, err
	}

	ticks := make([]int64, len(values))
	for i, v := range values {
		ticks[i] = roundTicks(v, factor)
	}

	return &TimeArray{ticks: ticks, u: unit.Canonical(u)}, nil
}

// NewInts builds a TimeArray from integer values expressed in u. Integer
// inputs scale exactly, with no rounding step.
func NewInts(values []int64, u unit.Unit) (*TimeArray, error) {
	factor, err := unit.TicksPerUnit(u)
	if err != nil {
		return nil, err
	}

	ticks := make([]int64, len(values))
	for i, v := range values {
		ticks[i] = v * factor
	}

	return &TimeArray{ticks: ticks, u: unit.Canonical(u)}, nil
}

// FromTicks builds a TimeArray directly from base-tick values. The slice is
// used as-is, not copied.
func FromTicks(ticks []int64, u unit.Unit) (*TimeArray, error) {
	if !unit.IsValid(u) {
		_, err := unit.TicksPerUnit(u)

		return nil, err
	}

	return &TimeArray{ticks: ticks, u: unit.Canonical(u)}, nil
}

// Len returns the number of time points.
func (t *TimeArray) Len() int { return len(t.ticks) }

// Unit returns the display unit.
func (t *TimeArray) Unit() unit.Unit { return t.u }

// Ticks returns the underlying base-tick storage. The slice is shared, not
// copied; callers that mutate it bypass unit reinterpretation.
func (t *TimeArray) Ticks() []int64 { return t.ticks }

// Values returns the time points expressed in the display unit.
func (t *TimeArray) Values() []float64 {
	factor, _ := unit.TicksPerUnit(t.u)
	inv := 1 / float64(factor)

	out := make([]float64, len(t.ticks))
	for i, tk := range t.ticks {
		out[i] = float64(tk) * inv
	}

	return out
}

// At returns the i-th time point as a scalar Point.
func (t *TimeArray) At(i int) Point {
	return Point{tick: t.ticks[i], u: t.u}
}

// Set stores a value at index i, interpreting it in the display unit and
// rescaling to base ticks.
func (t *TimeArray) Set(i int, value float64) {
	factor, _ := unit.TicksPerUnit(t.u)
	t.ticks[i] = roundTicks(value, factor)
}

// ConvertUnit changes the display unit in place. Stored ticks are untouched.
func (t *TimeArray) ConvertUnit(u unit.Unit) error {
	if !unit.IsValid(u) {
		_, err := unit.TicksPerUnit(u)

		return err
	}

	t.u = unit.Canonical(u)

	return nil
}

// Slice returns a view of the half-open index range [lo, hi) carrying the
// same unit tag. The tick storage is shared with the parent.
func (t *TimeArray) Slice(lo, hi int) *TimeArray {
	return &TimeArray{ticks: t.ticks[lo:hi], u: t.u}
}

// Copy returns a deep copy.
func (t *TimeArray) Copy() *TimeArray {
	ticks := make([]int64, len(t.ticks))
	copy(ticks, t.ticks)

	return &TimeArray{ticks: ticks, u: t.u}
}

// IndexAt returns all indices whose tick distance to tv (expressed in the
// display unit) is minimal. Exact ties are all included.
func (t *TimeArray) IndexAt(tv float64) []int {
	if len(t.ticks) == 0 {
		return nil
	}

	factor, _ := unit.TicksPerUnit(t.u)
	target := roundTicks(tv, factor)

	minDist := int64(math.MaxInt64)
	for _, tk := range t.ticks {
		if d := absTicks(tk - target); d < minDist {
			minDist = d
		}
	}

	var idx []int
	for i, tk := range t.ticks {
		if absTicks(tk-target) == minDist {
			idx = append(idx, i)
		}
	}

	return idx
}

// IndexWithin returns all indices whose tick distance to tv is at most tol.
// Both tv and tol are expressed in the display unit.
func (t *TimeArray) IndexWithin(tv, tol float64) []int {
	factor, _ := unit.TicksPerUnit(t.u)
	target := roundTicks(tv, factor)
	tolTicks := roundTicks(tol, factor)

	var idx []int
	for i, tk := range t.ticks {
		if absTicks(tk-target) <= tolTicks {
			idx = append(idx, i)
		}
	}

	return idx
}

// AtTime returns the time points nearest to tv, resolved via IndexAt.
func (t *TimeArray) AtTime(tv float64) *TimeArray {
	return t.pick(t.IndexAt(tv))
}

// AtTimeWithin returns the time points within tol of tv.
func (t *TimeArray) AtTimeWithin(tv, tol float64) *TimeArray {
	return t.pick(t.IndexWithin(tv, tol))
}

// EqualTo compares each element against tv (display unit) and returns a
// plain boolean slice; the unit tag does not survive comparisons.
func (t *TimeArray) EqualTo(tv float64) []bool {
	return t.compare(tv, func(d int64) bool { return d == 0 })
}

// Before reports, per element, whether the element is strictly earlier
// than tv (display unit).
func (t *TimeArray) Before(tv float64) []bool {
	return t.compare(tv, func(d int64) bool { return d < 0 })
}

// After reports, per element, whether the element is strictly later
// than tv (display unit).
func (t *TimeArray) After(tv float64) []bool {
	return t.compare(tv, func(d int64) bool { return d > 0 })
}

func (t *TimeArray) compare(tv float64, keep func(int64) bool) []bool {
	factor, _ := unit.TicksPerUnit(t.u)
	target := roundTicks(tv, factor)

	out := make([]bool, len(t.ticks))
	for i, tk := range t.ticks {
		out[i] = keep(tk - target)
	}

	return out
}

func (t *TimeArray) pick(idx []int) *TimeArray {
	ticks := make([]int64, len(idx))
	for k, i := range idx {
		ticks[k] = t.ticks[i]
	}

	return &TimeArray{ticks: ticks, u: t.u}
}

// String renders the array in its display unit.
func (t *TimeArray) String() string {
	return fmt.Sprintf("TimeArray(%v, unit=%q)", t.Values(), string(t.u))
}

func roundTicks(value float64, factor int64) int64 {
	return int64(math.Round(value * float64(factor)))
}

func absTicks(d int64) int64 {
	if d < 0 {
		return -d
	}

	return d
}

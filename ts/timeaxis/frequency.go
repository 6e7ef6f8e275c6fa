package timeaxis

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-tsa/ts/unit"
)

// Frequency is a rate stored canonically in Hz.
type Frequency float64

// NewFrequency builds a Frequency from a rate expressed per the given unit.
// A rate of 1 per millisecond is 1000 Hz.
func NewFrequency(value float64, u unit.Unit) (Frequency, error) {
	factor, err := unit.TicksPerUnit(u)
	if err != nil {
		return 0, err
	}

	return Frequency(value * float64(unit.TicksPerSecond) / float64(factor)), nil
}

// Hz returns the rate in Hz.
func (f Frequency) Hz() float64 { return float64(f) }

// Period returns the corresponding period as a base-tick count,
// rounded to the nearest tick.
func (f Frequency) Period() int64 {
	return int64(math.Round(1 / float64(f) * float64(unit.TicksPerSecond)))
}

// PeriodPoint returns the period as a Point in the given display unit.
func (f Frequency) PeriodPoint(u unit.Unit) Point {
	return PointFromTicks(f.Period(), u)
}

// String renders the frequency, e.g. "2 Hz".
func (f Frequency) String() string {
	return fmt.Sprintf("%g Hz", float64(f))
}

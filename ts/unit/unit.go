// Package unit defines the closed set of time units and their integer
// conversion factors relative to the base tick resolution.
//
// The base resolution is one picosecond. Every time value in this module is
// stored as a signed 64-bit count of base ticks, so unit conversion is exact
// integer scaling and never accumulates floating-point drift. At picosecond
// resolution an int64 covers roughly +/-106 days, which bounds the usable
// recording length.
package unit

import "fmt"

// Unit is a symbolic time unit. The zero value selects the default (seconds).
type Unit string

// The closed unit enumeration. Day and week use the non-SI symbols D and W
// to keep them distinct from milli-prefixed units.
const (
	Picosecond  Unit = "ps"
	Nanosecond  Unit = "ns"
	Microsecond Unit = "us"
	Millisecond Unit = "ms"
	Second      Unit = "s"
	Minute      Unit = "m"
	Hour        Unit = "h"
	Day         Unit = "D"
	Week        Unit = "W"

	// Default is the unit assumed when none is given.
	Default = Second
)

// TicksPerSecond is the number of base ticks in one second.
const TicksPerSecond int64 = 1e12

var ticksPerUnit = map[Unit]int64{
	Picosecond:  1,
	Nanosecond:  1e3,
	Microsecond: 1e6,
	Millisecond: 1e9,
	Second:      TicksPerSecond,
	Minute:      60 * TicksPerSecond,
	Hour:        3600 * TicksPerSecond,
	Day:         24 * 3600 * TicksPerSecond,
	Week:        7 * 24 * 3600 * TicksPerSecond,
}

// ordered keeps the error message and Valid() output readable.
var ordered = []Unit{
	Picosecond, Nanosecond, Microsecond, Millisecond,
	Second, Minute, Hour, Day, Week,
}

// Canonical maps the zero value to the default unit and returns every other
// unit unchanged. It does not validate.
func Canonical(u Unit) Unit {
	if u == "" {
		return Default
	}

	return u
}

// TicksPerUnit returns the base-tick conversion factor for u.
// The zero-value unit is treated as the default (seconds).
func TicksPerUnit(u Unit) (int64, error) {
	f, ok := ticksPerUnit[Canonical(u)]
	if !ok {
		return 0, fmt.Errorf("unit: invalid time unit %q, must be one of %v", string(u), ordered)
	}

	return f, nil
}

// Valid returns the accepted units in display order.
func Valid() []Unit {
	out := make([]Unit, len(ordered))
	copy(out, ordered)

	return out
}

// IsValid reports whether u (or its canonical form) is in the enumeration.
func IsValid(u Unit) bool {
	_, ok := ticksPerUnit[Canonical(u)]

	return ok
}

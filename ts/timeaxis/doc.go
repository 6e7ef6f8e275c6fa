// Package timeaxis implements tick-indexed time representations.
//
// All time values are stored as signed 64-bit counts of base ticks (see the
// unit package), tagged with a display unit. The stored ticks never change
// when the display unit does; conversion affects presentation and the
// interpretation of incoming values only. Construction from float values
// rounds to the nearest tick once, so arithmetic on stored values is exact.
package timeaxis

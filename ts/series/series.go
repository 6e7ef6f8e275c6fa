// Package series pairs sampled data with a tick-based time representation.
//
// Data is held as a channels x samples matrix; the last axis is time and its
// length must match the time representation. Each series carries an open
// Metadata map reserved for callers: no operation in this module ever reads
// or writes it.
package series

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/timeaxis"
	"github.com/cwbudde/algo-tsa/ts/unit"
)

// Errors shared by series constructors.
var (
	ErrDimensionMismatch = errors.New("series: mismatch of time and data dimensions")
	ErrRaggedData        = errors.New("series: data rows must all have the same length")
	ErrEmptyData         = errors.New("series: data must contain at least one channel and one sample")
)

// Metadata is an open key-value area reserved for callers.
type Metadata map[string]any

// Spec describes uniform sampling for a data matrix whose length is already
// known. Exactly one of these combinations over {SamplingInterval,
// SamplingRate, Duration} must be populated (zero values count as absent):
// interval; interval+duration; rate; rate+duration; duration.
// T0 is always optional. Interval, duration and T0 are expressed in Unit;
// SamplingRate is expressed in Hz.
type Spec struct {
	T0               float64
	SamplingInterval float64
	SamplingRate     float64
	Duration         float64
	Unit             unit.Unit
}

var validSeriesSpecs = [][3]bool{
	{true, false, false},  // interval
	{true, false, true},   // interval, duration
	{false, true, false},  // rate
	{false, true, true},   // rate, duration
	{false, false, true},  // duration
}

func (s Spec) presence() [3]bool {
	return [3]bool{s.SamplingInterval != 0, s.SamplingRate != 0, s.Duration != 0}
}

func invalidSpecError(p [3]bool) error {
	names := [3]string{"sampling_interval", "sampling_rate", "duration"}

	var given []string
	for i, set := range p {
		if set {
			given = append(given, names[i])
		}
	}

	provided := "nothing"
	if len(given) > 0 {
		provided = strings.Join(given, ", ")
	}

	return fmt.Errorf("series: invalid time specification, provided: %s; "+
		"supply sampling_interval or sampling_rate (optionally with duration), or duration alone", provided)
}

// UniformSeries is data collected at uniform intervals. The time axis is
// derived lazily from the sampling parameters on first access.
type UniformSeries struct {
	Data [][]float64
	Meta Metadata

	u        unit.Unit
	t0       int64
	interval int64
	duration int64
	rate     timeaxis.Frequency

	cache *lazy.Cache
}

// NewUniform builds a uniformly sampled series from a channels x samples
// matrix and a sampling Spec.
func NewUniform(data [][]float64, s Spec) (*UniformSeries, error) {
	n, err := validateData(data)
	if err != nil {
		return nil, err
	}

	p := s.presence()
	valid := false
	for _, v := range validSeriesSpecs {
		if p == v {
			valid = true

			break
		}
	}

	if !valid {
		return nil, invalidSpecError(p)
	}

	factor, err := unit.TicksPerUnit(s.Unit)
	if err != nil {
		return nil, err
	}

	u := unit.Canonical(s.Unit)
	t0 := roundTicks(s.T0, factor)

	var interval int64
	var rate timeaxis.Frequency

	switch {
	case s.SamplingInterval != 0:
		interval = roundTicks(s.SamplingInterval, factor)
		rate = timeaxis.Frequency(float64(unit.TicksPerSecond) / float64(interval))
	case s.SamplingRate != 0:
		rate = timeaxis.Frequency(s.SamplingRate)
		interval = rate.Period()
	default: // duration alone
		durTicks := roundTicks(s.Duration, factor)
		interval = roundTicksRatio(durTicks, int64(n))
		rate = timeaxis.Frequency(float64(unit.TicksPerSecond) / float64(interval))
	}

	if interval <= 0 {
		return nil, fmt.Errorf("series: sampling interval must be positive, got %d ticks", interval)
	}

	duration := int64(n) * interval
	if s.Duration != 0 {
		duration = roundTicks(s.Duration, factor)
		if duration > int64(n)*interval || duration <= int64(n-1)*interval {
			return nil, fmt.Errorf("series: inconsistent time specification: duration %g %s conflicts with %d samples at the given rate",
				s.Duration, string(u), n)
		}
	}

	return &UniformSeries{
		Data:     data,
		Meta:     Metadata{},
		u:        u,
		t0:       t0,
		interval: interval,
		duration: duration,
		rate:     rate,
		cache:    lazy.New(),
	}, nil
}

// NewUniformVector wraps a single-channel signal as a one-row series.
func NewUniformVector(data []float64, s Spec) (*UniformSeries, error) {
	return NewUniform([][]float64{data}, s)
}

// NewUniformFromAxis builds a series whose sampling is inherited from an
// existing axis. Fields set in overrides replace the inherited values, but
// only when the result stays consistent with the data length; a conflicting
// sampling rate or length fails with an error naming the conflicting pair.
func NewUniformFromAxis(data [][]float64, axis *timeaxis.UniformTimeAxis, overrides Spec) (*UniformSeries, error) {
	n, err := validateData(data)
	if err != nil {
		return nil, err
	}

	u := overrides.Unit
	if u == "" {
		u = axis.Unit()
	}

	factor, err := unit.TicksPerUnit(u)
	if err != nil {
		return nil, err
	}

	s := Spec{Unit: u}

	s.T0 = overrides.T0
	if s.T0 == 0 {
		s.T0 = float64(axis.T0().Ticks()) / float64(factor)
	}

	switch {
	case overrides.SamplingInterval != 0:
		s.SamplingInterval = overrides.SamplingInterval
	case overrides.SamplingRate != 0:
		s.SamplingRate = overrides.SamplingRate
	default:
		s.SamplingRate = axis.SamplingRate().Hz()
	}

	out, err := NewUniform(data, s)
	if err != nil {
		return nil, err
	}

	// The inherited axis implies both a rate and a length; whichever the
	// override did not change must agree with the data.
	if axis.Len() != n {
		implied := float64(n) / axis.Duration().Seconds()
		if !nearlyEqualRate(out.rate.Hz(), implied) {
			return nil, fmt.Errorf("series: inconsistent derived axis: data length %d conflicts with axis length %d (sampling rate %s)",
				n, axis.Len(), out.rate)
		}
	} else if !nearlyEqualRate(out.rate.Hz(), axis.SamplingRate().Hz()) {
		return nil, fmt.Errorf("series: inconsistent derived axis: sampling rate %s conflicts with axis rate %s",
			out.rate, axis.SamplingRate())
	}

	return out, nil
}

// Len returns the number of samples per channel.
func (s *UniformSeries) Len() int { return len(s.Data[0]) }

// Channels returns the number of data rows.
func (s *UniformSeries) Channels() int { return len(s.Data) }

// TimeUnit returns the display unit.
func (s *UniformSeries) TimeUnit() unit.Unit { return s.u }

// T0 returns the time of the first sample.
func (s *UniformSeries) T0() timeaxis.Point { return timeaxis.PointFromTicks(s.t0, s.u) }

// SamplingInterval returns the spacing between samples.
func (s *UniformSeries) SamplingInterval() timeaxis.Point {
	return timeaxis.PointFromTicks(s.interval, s.u)
}

// SamplingRate returns the sampling rate in Hz.
func (s *UniformSeries) SamplingRate() timeaxis.Frequency { return s.rate }

// Duration returns the represented duration.
func (s *UniformSeries) Duration() timeaxis.Point { return timeaxis.PointFromTicks(s.duration, s.u) }

// Time returns the uniform time axis for the series, derived on first
// access and cached afterwards.
func (s *UniformSeries) Time() (*timeaxis.UniformTimeAxis, error) {
	return lazy.Get(s.cache, "time", func() (*timeaxis.UniformTimeAxis, error) {
		factor, err := unit.TicksPerUnit(s.u)
		if err != nil {
			return nil, err
		}

		return timeaxis.NewUniform(timeaxis.Spec{
			T0:               float64(s.t0) / float64(factor),
			SamplingInterval: float64(s.interval) / float64(factor),
			Length:           s.Len(),
			Unit:             s.u,
		})
	})
}

func validateData(data [][]float64) (int, error) {
	if len(data) == 0 || len(data[0]) == 0 {
		return 0, ErrEmptyData
	}

	n := len(data[0])
	for i, row := range data {
		if len(row) != n {
			return 0, fmt.Errorf("%w: row 0 has %d samples, row %d has %d",
				ErrRaggedData, n, i, len(row))
		}
	}

	return n, nil
}

func nearlyEqualRate(a, b float64) bool {
	diff := math.Abs(a - b)
	if diff <= 1e-9 {
		return true
	}

	largest := math.Max(math.Abs(a), math.Abs(b))

	return diff/largest <= 1e-9
}

func roundTicks(value float64, factor int64) int64 {
	return int64(math.Round(value * float64(factor)))
}

// roundTicksRatio divides a tick count by n, rounding to nearest.
func roundTicksRatio(ticks, n int64) int64 {
	if n == 0 {
		return 0
	}

	half := n / 2
	if ticks < 0 {
		return (ticks - half) / n
	}

	return (ticks + half) / n
}

package timeaxis

import (
	"errors"
	"fmt"
	"strings"

	"github.com/cwbudde/algo-tsa/ts/unit"
)

// ErrDurationTooShort is returned when the requested duration is shorter
// than one sampling interval, which would produce an empty axis.
var ErrDurationTooShort = errors.New("timeaxis: duration shorter than sampling interval")

// Spec describes a uniform axis. Exactly one of the five valid field
// combinations must be populated (zero values count as absent):
//
//	SamplingInterval + Length
//	SamplingInterval + Duration
//	SamplingRate     + Length
//	SamplingRate     + Duration
//	Length           + Duration
//
// T0 is always optional and defaults to zero. SamplingInterval, Duration
// and T0 are expressed in Unit; SamplingRate is expressed in Hz.
type Spec struct {
	T0               float64
	SamplingInterval float64
	SamplingRate     float64
	Length           int
	Duration         float64
	Unit             unit.Unit
}

// tspec is the presence tuple (interval, rate, length, duration).
type tspec [4]bool

var specFieldNames = [4]string{"sampling_interval", "sampling_rate", "length", "duration"}

var validSpecs = []tspec{
	{true, false, true, false},  // interval, length
	{true, false, false, true},  // interval, duration
	{false, true, true, false},  // rate, length
	{false, true, false, true},  // rate, duration
	{false, false, true, true},  // length, duration
}

func (s Spec) presence() tspec {
	return tspec{
		s.SamplingInterval != 0,
		s.SamplingRate != 0,
		s.Length != 0,
		s.Duration != 0,
	}
}

func (ts tspec) provided() string {
	var names []string
	for i, set := range ts {
		if set {
			names = append(names, specFieldNames[i])
		}
	}

	if len(names) == 0 {
		return "nothing"
	}

	return strings.Join(names, ", ")
}

func (ts tspec) validFull() bool {
	for _, v := range validSpecs {
		if ts == v {
			return true
		}
	}

	return false
}

// count returns how many of the four fields are present.
func (ts tspec) count() int {
	n := 0
	for _, set := range ts {
		if set {
			n++
		}
	}

	return n
}

func invalidSpecError(ts tspec) error {
	return fmt.Errorf("timeaxis: invalid time specification, provided: %s; "+
		"valid combinations pair one of sampling_interval/sampling_rate/length with length or duration",
		ts.provided())
}

// UniformTimeAxis is a TimeArray whose points form an arithmetic sequence.
// It carries the mutually derivable quadruple t0, sampling interval,
// sampling rate and duration alongside the generated ticks.
type UniformTimeAxis struct {
	TimeArray

	t0       int64
	interval int64
	duration int64
	rate     Frequency
}

// NewUniform generates a uniform axis from a Spec.
//
// The tick sequence starts at t0 and advances by the sampling interval for
// ceil(duration/interval) terms, or for exactly Length terms when Length
// was given directly.
func NewUniform(s Spec) (*UniformTimeAxis, error) {
	ts := s.presence()
	if !ts.validFull() {
		return nil, invalidSpecError(ts)
	}

	return buildUniform(s)
}

// Derive generates a new axis from an existing one. In addition to the five
// full combinations, a Spec providing at most one of the four fields is
// accepted; the missing pieces are inherited from the receiver. The derived
// combination must be consistent with the axis it is derived from.
func (a *UniformTimeAxis) Derive(s Spec) (*UniformTimeAxis, error) {
	if s.Unit == "" {
		s.Unit = a.u
	}

	factor, err := unit.TicksPerUnit(s.Unit)
	if err != nil {
		return nil, err
	}

	if s.T0 == 0 {
		s.T0 = float64(a.t0) / float64(factor)
	}

	ts := s.presence()
	switch {
	case ts.validFull():
		// Full specification, nothing to inherit.
	case ts.count() == 0:
		s.SamplingRate = a.rate.Hz()
		s.Duration = float64(a.duration) / float64(factor)
	case ts.count() == 1:
		switch {
		case ts[0]: // interval given, inherit duration
			s.Duration = float64(a.duration) / float64(factor)
		case ts[1]: // rate given, inherit duration
			s.Duration = float64(a.duration) / float64(factor)
		case ts[2]: // length given, inherit interval
			s.SamplingInterval = float64(a.interval) / float64(factor)
		case ts[3]: // duration given, inherit rate
			s.SamplingRate = a.rate.Hz()
		}
	default:
		return nil, invalidSpecError(ts)
	}

	out, err := buildUniform(s)
	if err != nil {
		return nil, err
	}

	if s.Length != 0 && out.Len() != s.Length {
		return nil, fmt.Errorf("timeaxis: inconsistent derived axis: length %d conflicts with duration %s",
			s.Length, out.Duration())
	}

	return out, nil
}

func buildUniform(s Spec) (*UniformTimeAxis, error) {
	factor, err := unit.TicksPerUnit(s.Unit)
	if err != nil {
		return nil, err
	}

	u := unit.Canonical(s.Unit)
	t0 := roundTicks(s.T0, factor)

	var interval int64
	var rate Frequency

	switch {
	case s.SamplingInterval != 0:
		interval = roundTicks(s.SamplingInterval, factor)
		rate = Frequency(float64(unit.TicksPerSecond) / float64(interval))
	case s.SamplingRate != 0:
		rate = Frequency(s.SamplingRate)
		interval = rate.Period()
	default: // length + duration
		duration := roundTicks(s.Duration, factor)
		interval = roundTicksInt(duration, int64(s.Length))
		rate = Frequency(float64(unit.TicksPerSecond) / float64(interval))
	}

	if interval <= 0 {
		return nil, fmt.Errorf("timeaxis: sampling interval must be positive, got %d ticks", interval)
	}

	var duration int64
	if s.Duration != 0 {
		duration = roundTicks(s.Duration, factor)
	} else {
		duration = int64(s.Length) * interval
	}

	if duration < interval {
		return nil, fmt.Errorf("%w: duration %d ticks, interval %d ticks",
			ErrDurationTooShort, duration, interval)
	}

	n := int((duration + interval - 1) / interval) // ceil
	if s.Length != 0 && s.Length < n {
		n = s.Length
	}

	ticks := make([]int64, n)
	for i := range ticks {
		ticks[i] = t0 + int64(i)*interval
	}

	return &UniformTimeAxis{
		TimeArray: TimeArray{ticks: ticks, u: u},
		t0:        t0,
		interval:  interval,
		duration:  duration,
		rate:      rate,
	}, nil
}

// T0 returns the first time point.
func (a *UniformTimeAxis) T0() Point { return Point{tick: a.t0, u: a.u} }

// SamplingInterval returns the spacing between consecutive points.
func (a *UniformTimeAxis) SamplingInterval() Point { return Point{tick: a.interval, u: a.u} }

// SamplingRate returns the inverse of the sampling interval.
func (a *UniformTimeAxis) SamplingRate() Frequency { return a.rate }

// Duration returns the represented duration.
func (a *UniformTimeAxis) Duration() Point { return Point{tick: a.duration, u: a.u} }

// roundTicksInt divides a tick count by n, rounding to nearest.
func roundTicksInt(ticks, n int64) int64 {
	if n == 0 {
		return 0
	}

	half := n / 2
	if ticks < 0 {
		return (ticks - half) / n
	}

	return (ticks + half) / n
}

package series

import (
	"errors"
	"fmt"
)

// ErrNotSupported marks documented stubs; callers get an explicit signal
// instead of a silent no-op.
var ErrNotSupported = errors.New("series: not supported")

// ConcatUniform joins uniformly sampled series in time, in list order. All
// inputs must share the same sampling rate and channel count; the result
// inherits t0 and unit from the first series. Joining series with
// heterogeneous sampling rates is not supported.
func ConcatUniform(list []*UniformSeries) (*UniformSeries, error) {
	if len(list) == 0 {
		return nil, ErrEmptyData
	}

	first := list[0]
	total := 0

	for _, s := range list {
		if s.Channels() != first.Channels() {
			return nil, fmt.Errorf("%w: channel count %d != %d",
				ErrDimensionMismatch, s.Channels(), first.Channels())
		}

		if !nearlyEqualRate(s.SamplingRate().Hz(), first.SamplingRate().Hz()) {
			return nil, fmt.Errorf("concatenating heterogeneous sampling rates (%s and %s): %w",
				first.SamplingRate(), s.SamplingRate(), ErrNotSupported)
		}

		total += s.Len()
	}

	data := make([][]float64, first.Channels())
	for ch := range data {
		data[ch] = make([]float64, 0, total)
		for _, s := range list {
			data[ch] = append(data[ch], s.Data[ch]...)
		}
	}

	return NewUniform(data, Spec{
		T0:               first.T0().Value(),
		SamplingInterval: first.SamplingInterval().Value(),
		Unit:             first.TimeUnit(),
	})
}

// WriteVolume would round-trip a series back into a volumetric file through
// an external format adapter. No adapter ships with this module.
func WriteVolume(s *UniformSeries, path string) error {
	return fmt.Errorf("volume round-trip writer: %w", ErrNotSupported)
}

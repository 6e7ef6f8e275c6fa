package series

import (
	"fmt"

	"github.com/cwbudde/algo-tsa/ts/timeaxis"
	"github.com/cwbudde/algo-tsa/ts/unit"
)

// NonUniformSeries is data collected at arbitrary time points. The time
// values are assumed, but not verified, to be monotonically increasing.
type NonUniformSeries struct {
	Data [][]float64
	Meta Metadata
	Time *timeaxis.TimeArray
}

// NewNonUniform pairs a channels x samples matrix with explicit time points.
func NewNonUniform(data [][]float64, t *timeaxis.TimeArray) (*NonUniformSeries, error) {
	n, err := validateData(data)
	if err != nil {
		return nil, err
	}

	if t.Len() != n {
		return nil, fmt.Errorf("%w: %d time points for %d samples",
			ErrDimensionMismatch, t.Len(), n)
	}

	return &NonUniformSeries{
		Data: data,
		Meta: Metadata{},
		Time: t,
	}, nil
}

// Len returns the number of samples per channel.
func (s *NonUniformSeries) Len() int { return len(s.Data[0]) }

// Channels returns the number of data rows.
func (s *NonUniformSeries) Channels() int { return len(s.Data) }

// TimeUnit returns the display unit of the time points.
func (s *NonUniformSeries) TimeUnit() unit.Unit { return s.Time.Unit() }

// Package event derives event-triggered response estimates from a data
// series paired with an event-code series. Codes are positive integers;
// zero marks the absence of an event.
package event

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/cwbudde/algo-vecmath"

	"github.com/cwbudde/algo-tsa/internal/linalg"
	"github.com/cwbudde/algo-tsa/lazy"
	"github.com/cwbudde/algo-tsa/ts/series"
	"github.com/cwbudde/algo-tsa/ts/timeaxis"
	"github.com/cwbudde/algo-tsa/ts/unit"
)

var (
	// ErrNoEvents is returned when the event series contains no non-zero
	// codes.
	ErrNoEvents = errors.New("event: no events found")

	// ErrNotSupported marks documented but unimplemented estimators.
	ErrNotSupported = errors.New("event: not supported")
)

// Result holds one estimate per channel and event code. Values is indexed
// channel x code x window bin; Codes gives the event code of each middle
// index, in ascending order.
type Result struct {
	Values [][][]float64
	Codes  []int
}

// Analyzer estimates event-related responses over a fixed-length window
// following each event onset. Both the data and the event rows are
// zero-padded on each side by the window length plus the offset magnitude,
// so windows near the edges never index out of range.
type Analyzer struct {
	data    [][]float64
	events  [][]int
	codes   []int
	window  int
	offset  int
	zscore  bool
	correct bool

	interval int64
	u        unit.Unit

	cache *lazy.Cache
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithOffset shifts the estimation window by n samples relative to each
// event onset. Negative offsets start the window before the event.
func WithOffset(n int) Option {
	return func(a *Analyzer) {
		a.offset = n
	}
}

// WithZScore standardizes each triggered estimate to zero mean and unit
// variance over its window.
func WithZScore() Option {
	return func(a *Analyzer) {
		a.zscore = true
	}
}

// WithBaselineCorrection subtracts the first window sample from every
// triggered window, so the averaged response starts at exactly zero.
func WithBaselineCorrection() Option {
	return func(a *Analyzer) {
		a.correct = true
	}
}

// New pairs a data series with an event series. The event series must have
// either a single row shared across all data channels or one row per
// channel, and the same number of samples as the data.
func New(data, events *series.UniformSeries, window int, opts ...Option) (*Analyzer, error) {
	if window <= 0 {
		return nil, fmt.Errorf("event: window length must be positive, got %d", window)
	}

	if events.Len() != data.Len() {
		return nil, fmt.Errorf("%w: data has %d samples, events has %d",
			series.ErrDimensionMismatch, data.Len(), events.Len())
	}

	if events.Channels() != 1 && events.Channels() != data.Channels() {
		return nil, fmt.Errorf("%w: data has %d channels, events has %d",
			series.ErrDimensionMismatch, data.Channels(), events.Channels())
	}

	a := &Analyzer{
		window:   window,
		interval: data.SamplingInterval().Ticks(),
		u:        data.TimeUnit(),
		cache:    lazy.New(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}

	pad := window + abs(a.offset)

	a.data = make([][]float64, data.Channels())
	for i, ch := range data.Data {
		a.data[i] = padded(ch, pad)
	}

	a.events = make([][]int, data.Channels())
	codes := map[int]struct{}{}

	for i := range a.events {
		row := events.Data[0]
		if events.Channels() > 1 {
			row = events.Data[i]
		}

		padded := make([]int, len(row)+2*pad)
		for k, v := range row {
			code := int(v)
			padded[pad+k] = code

			if code > 0 {
				codes[code] = struct{}{}
			}
		}

		a.events[i] = padded
	}

	if len(codes) == 0 {
		return nil, ErrNoEvents
	}

	a.codes = make([]int, 0, len(codes))
	for c := range codes {
		a.codes = append(a.codes, c)
	}

	sort.Ints(a.codes)

	return a, nil
}

// Codes returns the distinct non-zero event codes, ascending.
func (a *Analyzer) Codes() []int { return a.codes }

// Window returns the time axis of the estimation window, starting at the
// offset and spanning the window length.
func (a *Analyzer) Window() (*timeaxis.TimeArray, error) {
	ticks := make([]int64, a.window)
	for k := range ticks {
		ticks[k] = int64(a.offset+k) * a.interval
	}

	return timeaxis.FromTicks(ticks, a.u)
}

// Reset discards every cached estimate.
func (a *Analyzer) Reset() {
	a.cache.Reset()
}

// FIR solves for a finite impulse response per channel and event code. All
// codes of a channel enter one lagged design matrix and are solved jointly,
// so overlapping responses are attributed by least squares rather than
// averaged together.
func (a *Analyzer) FIR() (*Result, error) {
	return lazy.Get(a.cache, "fir", func() (*Result, error) {
		w := a.window
		cols := len(a.codes) * w

		values := make([][][]float64, len(a.data))

		for ch, x := range a.data {
			events := a.events[ch]

			design := make([][]float64, len(x))
			for t := range design {
				row := make([]float64, cols)
				for e, code := range a.codes {
					for l := 0; l < w; l++ {
						onset := t - a.offset - l
						if onset >= 0 && onset < len(events) && events[onset] == code {
							row[e*w+l] = 1
						}
					}
				}

				design[t] = row
			}

			h, err := linalg.SolveNormal(design, x)
			if err != nil {
				return nil, fmt.Errorf("event: FIR solve failed for channel %d: %w", ch, err)
			}

			perCode := make([][]float64, len(a.codes))
			for e := range a.codes {
				perCode[e] = append([]float64(nil), h[e*w:(e+1)*w]...)
			}

			values[ch] = perCode
		}

		return &Result{Values: values, Codes: a.codes}, nil
	})
}

// ETA returns the event-triggered average: the arithmetic mean of the data
// windows following each onset of a code. With baseline correction the
// first sample of each window is subtracted before averaging.
func (a *Analyzer) ETA() (*Result, error) {
	return lazy.Get(a.cache, "eta", func() (*Result, error) {
		return a.triggeredMean(a.data, a.offset, a.window, a.correct)
	})
}

// XCorrETA returns the windowed cross-correlation estimate: the triggered
// mean of the mean-removed data, looking one window length backward and
// forward from each onset. The onset sample sits at the center bin. The
// offset and baseline correction do not apply.
func (a *Analyzer) XCorrETA() (*Result, error) {
	return lazy.Get(a.cache, "xcorr_eta", func() (*Result, error) {
		centered := make([][]float64, len(a.data))
		for i, ch := range a.data {
			mean := vecmath.Sum(ch) / float64(len(ch))

			row := make([]float64, len(ch))
			for k, v := range ch {
				row[k] = v - mean
			}

			centered[i] = row
		}

		return a.triggeredMean(centered, -a.window, 2*a.window, false)
	})
}

// XCorrWindow returns the time axis of the cross-correlation estimate,
// spanning one window length backward and forward with the onset at the
// center bin.
func (a *Analyzer) XCorrWindow() (*timeaxis.TimeArray, error) {
	ticks := make([]int64, 2*a.window)
	for k := range ticks {
		ticks[k] = int64(k-a.window) * a.interval
	}

	return timeaxis.FromTicks(ticks, a.u)
}

// FIREstimate is a placeholder for FIR estimation with confidence
// intervals.
func (a *Analyzer) FIREstimate() (*Result, error) {
	return nil, fmt.Errorf("%w: FIR estimation with confidence intervals", ErrNotSupported)
}

// triggeredMean averages the data windows [onset+start, onset+start+width)
// over all onsets of each code.
func (a *Analyzer) triggeredMean(data [][]float64, start, width int, correctBaseline bool) (*Result, error) {
	values := make([][][]float64, len(data))

	for ch, x := range data {
		events := a.events[ch]
		perCode := make([][]float64, len(a.codes))

		for e, code := range a.codes {
			sum := make([]float64, width)
			count := 0

			for onset, v := range events {
				if v != code {
					continue
				}

				lo := onset + start
				base := 0.0
				if correctBaseline {
					base = x[lo]
				}

				for k := 0; k < width; k++ {
					sum[k] += x[lo+k] - base
				}

				count++
			}

			if count > 0 {
				vecmath.ScaleBlockInPlace(sum, 1/float64(count))
			}

			if a.zscore {
				standardize(sum)
			}

			perCode[e] = sum
		}

		values[ch] = perCode
	}

	return &Result{Values: values, Codes: a.codes}, nil
}

// standardize rescales an estimate to zero mean and unit variance over its
// window. A constant estimate is only recentered.
func standardize(x []float64) {
	n := float64(len(x))
	mean := vecmath.Sum(x) / n

	variance := 0.0
	for _, v := range x {
		d := v - mean
		variance += d * d
	}

	variance /= n

	std := 1.0
	if variance > 0 {
		std = math.Sqrt(variance)
	}

	for k := range x {
		x[k] = (x[k] - mean) / std
	}
}

// padded copies x into a buffer zero-padded by pad samples on each side.
func padded(x []float64, pad int) []float64 {
	out := make([]float64, len(x)+2*pad)
	copy(out[pad:], x)

	return out
}

func abs(n int) int {
	if n < 0 {
		return -n
	}

	return n
}

// Package timeseries defines the uniformly sampled multichannel signal
// container consumed by the spectral pipeline.
package timeseries

import (
	"fmt"
	"math"
)

// UnknownChannel is the id assigned to the single column of a series that
// carries no channel labels.
const UnknownChannel = "unknown"

// relative tolerance between the declared sampling rate and the mean
// timestamp spacing
const rateTolerance = 1e-3

// TimeSeries is a uniformly sampled multichannel signal. Data is
// sample-major: Data[i][c] is sample i of channel c, so one row is one
// time point across all channels.
type TimeSeries struct {
	Data         [][]float64 `json:"data"`
	Timestamps   []float64   `json:"timestamps"` // seconds, strictly increasing
	SamplingRate float64     `json:"sampling_rate"`
	Channels     []string    `json:"channels,omitempty"` // one id per column; empty for a single unlabeled column
}

// New builds a validated TimeSeries with timestamps synthesized from the
// sampling rate, starting at zero. channels may be nil for a single-column
// series.
func New(data [][]float64, samplingRate float64, channels []string) (*TimeSeries, error) {
	if samplingRate <= 0 {
		return nil, fmt.Errorf("sampling rate must be positive, got %g", samplingRate)
	}
	timestamps := make([]float64, len(data))
	for i := range timestamps {
		timestamps[i] = float64(i) / samplingRate
	}
	ts := &TimeSeries{
		Data:         data,
		Timestamps:   timestamps,
		SamplingRate: samplingRate,
		Channels:     channels,
	}
	if err := ts.Validate(); err != nil {
		return nil, err
	}
	return ts, nil
}

// Validate checks the structural invariants: rectangular data, one timestamp
// per row, strictly increasing timestamps whose mean spacing agrees with the
// sampling rate, and one channel id per column (or none for a single column).
func (ts *TimeSeries) Validate() error {
	if ts.SamplingRate <= 0 {
		return fmt.Errorf("sampling rate must be positive, got %g", ts.SamplingRate)
	}
	if len(ts.Data) == 0 {
		return fmt.Errorf("series has no samples")
	}
	cols := len(ts.Data[0])
	if cols == 0 {
		return fmt.Errorf("series has no channels")
	}
	for i, row := range ts.Data {
		if len(row) != cols {
			return fmt.Errorf("ragged data: row %d has %d values, want %d", i, len(row), cols)
		}
	}
	if len(ts.Timestamps) != len(ts.Data) {
		return fmt.Errorf("%d timestamps for %d samples", len(ts.Timestamps), len(ts.Data))
	}
	for i := 1; i < len(ts.Timestamps); i++ {
		if ts.Timestamps[i] <= ts.Timestamps[i-1] {
			return fmt.Errorf("timestamps not strictly increasing at index %d", i)
		}
	}
	if n := len(ts.Timestamps); n > 1 {
		meanDt := (ts.Timestamps[n-1] - ts.Timestamps[0]) / float64(n-1)
		if math.Abs(meanDt*ts.SamplingRate-1) > rateTolerance {
			return fmt.Errorf("timestamp spacing %.6gs disagrees with sampling rate %g Hz", meanDt, ts.SamplingRate)
		}
	}
	switch {
	case len(ts.Channels) == 0 && cols != 1:
		return fmt.Errorf("unlabeled series must have exactly one column, got %d", cols)
	case len(ts.Channels) != 0 && len(ts.Channels) != cols:
		return fmt.Errorf("%d channel ids for %d columns", len(ts.Channels), cols)
	}
	return nil
}

// NumSamples returns the number of time points.
func (ts *TimeSeries) NumSamples() int {
	return len(ts.Data)
}

// NumChannels returns the number of columns.
func (ts *TimeSeries) NumChannels() int {
	if len(ts.Data) == 0 {
		return 0
	}
	return len(ts.Data[0])
}

// Duration returns the covered time span in seconds.
func (ts *TimeSeries) Duration() float64 {
	return float64(len(ts.Data)) / ts.SamplingRate
}

// Start returns the first timestamp, or 0 for an empty series.
func (ts *TimeSeries) Start() float64 {
	if len(ts.Timestamps) == 0 {
		return 0
	}
	return ts.Timestamps[0]
}

// ChannelIDs returns one id per column. An unlabeled single-column series
// yields [UnknownChannel], so callers always see as many ids as columns.
func (ts *TimeSeries) ChannelIDs() []string {
	if len(ts.Channels) == 0 {
		return []string{UnknownChannel}
	}
	ids := make([]string, len(ts.Channels))
	copy(ids, ts.Channels)
	return ids
}

// ChannelIndex returns the column index of the channel with the given id.
func (ts *TimeSeries) ChannelIndex(id string) (int, bool) {
	for i, ch := range ts.ChannelIDs() {
		if ch == id {
			return i, true
		}
	}
	return 0, false
}

// Channel returns a copy of column c. The pipeline works on copies so the
// caller's buffers are never windowed in place.
func (ts *TimeSeries) Channel(c int) []float64 {
	out := make([]float64, len(ts.Data))
	for i, row := range ts.Data {
		out[i] = row[c]
	}
	return out
}

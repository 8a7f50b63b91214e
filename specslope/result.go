package specslope

import "github.com/teresajurado/specslope/spectral"

// DetectionParams records the analysis request that produced a SlopeSeries.
// It rides along inside every stored record so consumers can tell what a
// cached result was computed with.
type DetectionParams struct {
	WindowSizeSec float64    `json:"window_size_sec"`
	FreqRange     [2]float64 `json:"freq_range"` // [min, max] Hz
}

// SlopeSeries is the time-resolved power spectrum slope of every selected
// channel. Slope, Intercept and RSquared are Time x Channel matrices; column
// c belongs to Channels[c]. RSquared entries are NaN for windows whose
// log-amplitude spectrum had zero variance.
type SlopeSeries struct {
	Slope        [][]float64            `json:"data"`      // Time x Channel slope matrix
	Intercept    [][]float64            `json:"intercept"` // Time x Channel intercept matrix
	RSquared     [][]float64            `json:"rsq"`       // Time x Channel fit quality matrix
	Timestamps   []float64              `json:"timestamps"` // window centers, seconds, offset by the input start
	SamplingRate float64                `json:"sampling_rate"` // output rate: 1/stepSec
	Params       DetectionParams        `json:"detection_params"`
	Freqs        spectral.FrequencyGrid `json:"freqs"`
	Channels     []string               `json:"channels"`

	// Residuals holds the Time x Frequency residual matrix of the fit.
	// Only single-channel runs keep it; for N channels it would add an
	// N x Time x Frequency block that dominates the record.
	Residuals [][]float64 `json:"residuals,omitempty"`

	// LogAmplitude holds one Frequency x Time log10-magnitude plane per
	// channel, in Channels order.
	LogAmplitude [][][]float64 `json:"log_amplitude"`
}

// NumTimeBins returns the number of analysis windows.
func (s *SlopeSeries) NumTimeBins() int { return len(s.Timestamps) }

// NumChannels returns the number of estimated columns.
func (s *SlopeSeries) NumChannels() int { return len(s.Channels) }

// ChannelIndex returns the column of the channel with the given id.
func (s *SlopeSeries) ChannelIndex(id string) (int, bool) {
	for i, ch := range s.Channels {
		if ch == id {
			return i, true
		}
	}
	return 0, false
}

// ChannelSlopes returns a copy of the slope time series of column c.
func (s *SlopeSeries) ChannelSlopes(c int) []float64 {
	out := make([]float64, len(s.Slope))
	for k, row := range s.Slope {
		out[k] = row[c]
	}
	return out
}

// ParamsMatch reports whether the stored request equals the given one.
func (s *SlopeSeries) ParamsMatch(windowSizeSec float64, freqRange [2]float64) bool {
	return s.Params.WindowSizeSec == windowSizeSec && s.Params.FreqRange == freqRange
}

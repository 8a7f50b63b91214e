// Package specslope estimates the time-resolved slope of the power spectrum
// of multichannel biosignals: each channel is windowed, evaluated on a
// geometric frequency grid, and every window's log-amplitude spectrum is fit
// against log frequency by least squares.
package specslope

import (
	"context"
	"errors"
	"fmt"

	"github.com/teresajurado/specslope/logging"
	"github.com/teresajurado/specslope/slopefit"
	"github.com/teresajurado/specslope/spectral"
	"github.com/teresajurado/specslope/timeseries"
)

var (
	// ErrEmptyChannelSelection reports that none of the requested channel
	// ids exist in the input series.
	ErrEmptyChannelSelection = errors.New("no requested channel is present in the series")

	// ErrChannelMismatch reports per-channel results that disagree on frame
	// or frequency geometry and therefore cannot share one record.
	ErrChannelMismatch = errors.New("channels disagree on spectrogram geometry")
)

// Config holds the estimator parameters.
type Config struct {
	// Analysis geometry
	WindowSizeSec float64    `json:"window_size_sec"`
	StepSec       float64    `json:"step_sec"`
	FreqRange     [2]float64 `json:"freq_range"` // [min, max] Hz

	// Channels restricts the run to these ids; nil runs every channel.
	// Output order always follows input column order, not request order.
	Channels []string `json:"channels,omitempty"`

	// Store caches one SlopeSeries under CacheKey. Loads are keyed by the
	// storage location alone: by default a hit is returned without checking
	// what parameters produced it. ValidateCachedParams recomputes instead
	// of returning a record whose DetectionParams differ from this Config.
	Store                ResultStore `json:"-"`
	CacheKey             string      `json:"cache_key,omitempty"`
	ForceRedetect        bool        `json:"force_redetect"`
	ValidateCachedParams bool        `json:"validate_cached_params"`

	// Progress, when set, receives (channelsDone, channelsTotal) after each
	// channel finishes. Side effect only.
	Progress func(done, total int) `json:"-"`
}

// DefaultConfig returns the estimator defaults: 1 s windows advanced by
// 0.5 s, fit over 4-100 Hz.
func DefaultConfig() *Config {
	return &Config{
		WindowSizeSec: 1.0,
		StepSec:       0.5,
		FreqRange:     [2]float64{4, 100},
	}
}

// Estimator runs the detection pipeline: one spectrogram per channel, one
// log-log fit per window, an optional cache in front.
type Estimator struct {
	config *Config
	engine *spectral.Engine
	grid   spectral.FrequencyGrid
	logger logging.Logger
}

// NewEstimator builds an estimator for cfg. The frequency grid is built
// eagerly so an invalid range fails here rather than on the first Run.
func NewEstimator(cfg *Config) (*Estimator, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	grid, err := spectral.NewFrequencyGrid(cfg.FreqRange[0], cfg.FreqRange[1])
	if err != nil {
		return nil, err
	}
	return &Estimator{
		config: cfg,
		engine: spectral.NewEngine(),
		grid:   grid,
		logger: logging.WithFields(logging.Fields{"component": "specslope"}),
	}, nil
}

// Grid returns the frequency grid the estimator evaluates on.
func (e *Estimator) Grid() spectral.FrequencyGrid {
	return e.grid
}

// Run estimates the slope series for every selected channel of series.
// The numeric pipeline is synchronous; ctx applies to cache I/O only.
func (e *Estimator) Run(ctx context.Context, series *timeseries.TimeSeries) (*SlopeSeries, error) {
	if series == nil {
		return nil, fmt.Errorf("nil input series")
	}
	if err := series.Validate(); err != nil {
		return nil, fmt.Errorf("invalid input series: %w", err)
	}

	logger := e.logger.WithFields(logging.Fields{
		"function": "Run",
		"samples":  series.NumSamples(),
		"channels": series.NumChannels(),
	})

	if cached, ok, err := e.loadCached(ctx, logger); err != nil {
		return nil, err
	} else if ok {
		return cached, nil
	}

	selected, err := e.selectChannels(series)
	if err != nil {
		return nil, err
	}
	logger.Debug("channels selected", logging.Fields{"selected": len(selected)})

	results := make([]*channelResult, len(selected))
	for i, sel := range selected {
		res, err := e.runChannel(series, sel.column)
		if err != nil {
			return nil, fmt.Errorf("channel %q: %w", sel.id, err)
		}
		results[i] = res
		logger.Debug("channel complete", logging.Fields{
			"channel": sel.id,
			"done":    i + 1,
			"total":   len(selected),
		})
		if e.config.Progress != nil {
			e.config.Progress(i+1, len(selected))
		}
	}

	out, err := e.aggregate(series, selected, results)
	if err != nil {
		return nil, err
	}
	logger.Debug("slope series assembled", logging.Fields{
		"time_bins": out.NumTimeBins(),
		"channels":  out.NumChannels(),
	})

	if e.config.Store != nil {
		if err := e.config.Store.Save(ctx, e.config.CacheKey, out); err != nil {
			return nil, fmt.Errorf("saving slope series: %w", err)
		}
		logger.Debug("slope series cached", logging.Fields{"key": e.config.CacheKey})
	}
	return out, nil
}

// loadCached returns (series, true, nil) on a usable cache hit.
func (e *Estimator) loadCached(ctx context.Context, logger logging.Logger) (*SlopeSeries, bool, error) {
	if e.config.Store == nil || e.config.ForceRedetect {
		return nil, false, nil
	}
	cached, err := e.config.Store.Load(ctx, e.config.CacheKey)
	if errors.Is(err, ErrCacheMiss) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("loading cached slope series: %w", err)
	}
	if e.config.ValidateCachedParams && !cached.ParamsMatch(e.config.WindowSizeSec, e.config.FreqRange) {
		logger.Warn("cached record parameters differ from request, recomputing", logging.Fields{
			"cached_window_sec": cached.Params.WindowSizeSec,
			"cached_freq_range": cached.Params.FreqRange,
		})
		return nil, false, nil
	}
	logger.Debug("returning cached slope series", logging.Fields{"key": e.config.CacheKey})
	return cached, true, nil
}

type selectedChannel struct {
	id     string
	column int
}

// selectChannels resolves the configured channel filter against the series.
// Selection preserves input column order regardless of request order.
func (e *Estimator) selectChannels(series *timeseries.TimeSeries) ([]selectedChannel, error) {
	ids := series.ChannelIDs()
	if len(e.config.Channels) == 0 {
		out := make([]selectedChannel, len(ids))
		for i, id := range ids {
			out[i] = selectedChannel{id: id, column: i}
		}
		return out, nil
	}
	requested := make(map[string]bool, len(e.config.Channels))
	for _, id := range e.config.Channels {
		requested[id] = true
	}
	var out []selectedChannel
	for i, id := range ids {
		if requested[id] {
			out = append(out, selectedChannel{id: id, column: i})
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: requested %v", ErrEmptyChannelSelection, e.config.Channels)
	}
	return out, nil
}

type channelResult struct {
	spec *spectral.Spectrogram
	fits []*slopefit.Fit // one per time bin
}

// runChannel is the whole single-channel pipeline. Multi-channel runs call
// it once per column, so column c of a multi-channel result carries the
// same numbers a single-channel run on that column produces.
func (e *Estimator) runChannel(series *timeseries.TimeSeries, column int) (*channelResult, error) {
	signal := series.Channel(column)
	spec, err := e.engine.Compute(signal, series.SamplingRate, e.config.WindowSizeSec, e.config.StepSec, e.grid)
	if err != nil {
		return nil, err
	}

	x := e.grid.Log10()
	fits := make([]*slopefit.Fit, spec.TimeFrames())
	for k := range fits {
		fit, err := slopefit.FitLogLog(x, spec.AmplitudeColumn(k))
		if err != nil {
			return nil, fmt.Errorf("fitting frame %d: %w", k, err)
		}
		fits[k] = fit
	}
	return &channelResult{spec: spec, fits: fits}, nil
}

// aggregate assembles the final record in one pass once every channel is
// done. All channels ran with the same geometry, so their frames must
// agree; a disagreement means the per-channel runs diverged.
func (e *Estimator) aggregate(series *timeseries.TimeSeries, selected []selectedChannel, results []*channelResult) (*SlopeSeries, error) {
	first := results[0].spec
	for i, res := range results[1:] {
		if res.spec.TimeFrames() != first.TimeFrames() || !res.spec.Freqs.Equal(first.Freqs) {
			return nil, fmt.Errorf("%w: channel %q has %d frames on %d bins, channel %q has %d frames on %d bins",
				ErrChannelMismatch,
				selected[i+1].id, res.spec.TimeFrames(), len(res.spec.Freqs),
				selected[0].id, first.TimeFrames(), len(first.Freqs))
		}
	}

	numBins := first.TimeFrames()
	numChannels := len(results)

	slope := make([][]float64, numBins)
	intercept := make([][]float64, numBins)
	rsq := make([][]float64, numBins)
	for k := range numBins {
		slope[k] = make([]float64, numChannels)
		intercept[k] = make([]float64, numChannels)
		rsq[k] = make([]float64, numChannels)
		for c, res := range results {
			slope[k][c] = res.fits[k].Slope
			intercept[k][c] = res.fits[k].Intercept
			rsq[k][c] = res.fits[k].RSquared
		}
	}

	timestamps := make([]float64, numBins)
	start := series.Start()
	for k, center := range first.Times {
		timestamps[k] = start + center
	}

	logAmp := make([][][]float64, numChannels)
	for c, res := range results {
		logAmp[c] = res.spec.LogAmplitude
	}

	channels := make([]string, len(selected))
	for i, sel := range selected {
		channels[i] = sel.id
	}

	out := &SlopeSeries{
		Slope:        slope,
		Intercept:    intercept,
		RSquared:     rsq,
		Timestamps:   timestamps,
		SamplingRate: 1 / e.config.StepSec,
		Params: DetectionParams{
			WindowSizeSec: e.config.WindowSizeSec,
			FreqRange:     e.config.FreqRange,
		},
		Freqs:        first.Freqs,
		Channels:     channels,
		LogAmplitude: logAmp,
	}

	if numChannels == 1 {
		residuals := make([][]float64, numBins)
		for k, fit := range results[0].fits {
			residuals[k] = fit.Residuals
		}
		out.Residuals = residuals
	}
	return out, nil
}

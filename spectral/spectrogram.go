package spectral

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/window"

	"github.com/teresajurado/specslope/logging"
)

var (
	// ErrInvalidWindowParameters reports a window/step geometry the engine
	// rejects before touching the signal.
	ErrInvalidWindowParameters = errors.New("invalid window parameters")

	// ErrInsufficientSignalLength reports a signal shorter than one window.
	ErrInsufficientSignalLength = errors.New("signal shorter than one window")
)

// Spectrogram holds the windowed DTFT of one channel on a frequency grid.
type Spectrogram struct {
	Freqs         FrequencyGrid  `json:"freqs"`
	Times         []float64      `json:"timestamps"`    // window-center times, seconds from signal start
	Complex       [][]complex128 `json:"-"`             // Frequency x Time raw DTFT values (not serialized)
	LogAmplitude  [][]float64    `json:"log_amplitude"` // Frequency x Time log10 magnitude matrix
	WindowSamples int            `json:"window_samples"`
	StepSamples   int            `json:"step_samples"`
	SampleRate    float64        `json:"sample_rate"`
}

// TimeFrames returns the number of complete windows.
func (s *Spectrogram) TimeFrames() int {
	return len(s.Times)
}

// AmplitudeColumn returns a copy of the log-amplitude values of frame k
// across all frequencies, the y vector of one slope fit.
func (s *Spectrogram) AmplitudeColumn(k int) []float64 {
	out := make([]float64, len(s.LogAmplitude))
	for i := range s.LogAmplitude {
		out[i] = s.LogAmplitude[i][k]
	}
	return out
}

// Engine computes log-frequency spectrograms over a sliding window.
// Each window is tapered with a symmetric Hamming window and evaluated at
// every grid frequency with a Goertzel recurrence; values are the unscaled
// windowed DTFT. Computation is synchronous.
type Engine struct {
	logger logging.Logger
}

// NewEngine creates a spectrogram engine.
func NewEngine() *Engine {
	return &Engine{
		logger: logging.WithFields(logging.Fields{"component": "spectral"}),
	}
}

// Compute slides the analysis window along signal and evaluates the DTFT at
// every grid frequency for every complete window. windowSec and stepSec are
// converted to sample counts by rounding; trailing samples that do not fill
// a window are dropped. Frame times mark window centers:
// (k·step + (window-1)/2) / rate.
func (e *Engine) Compute(signal []float64, sampleRate, windowSec, stepSec float64, grid FrequencyGrid) (*Spectrogram, error) {
	if len(grid) == 0 {
		return nil, fmt.Errorf("%w: empty frequency grid", ErrInvalidFrequencyRange)
	}
	if sampleRate <= 0 {
		return nil, fmt.Errorf("%w: sampling rate %g Hz", ErrInvalidWindowParameters, sampleRate)
	}
	if nyquist := sampleRate / 2; grid.High() > nyquist {
		return nil, fmt.Errorf("%w: grid top %g Hz exceeds Nyquist %g Hz", ErrInvalidFrequencyRange, grid.High(), nyquist)
	}
	if windowSec <= 0 || stepSec <= 0 || stepSec > windowSec {
		return nil, fmt.Errorf("%w: window %gs, step %gs", ErrInvalidWindowParameters, windowSec, stepSec)
	}

	windowSamples := int(math.Round(windowSec * sampleRate))
	stepSamples := int(math.Round(stepSec * sampleRate))
	if windowSamples <= 0 || stepSamples <= 0 {
		return nil, fmt.Errorf("%w: window %gs, step %gs rounds to zero samples at %g Hz",
			ErrInvalidWindowParameters, windowSec, stepSec, sampleRate)
	}
	if stepSamples > windowSamples {
		return nil, fmt.Errorf("%w: step %d samples exceeds window %d samples after rounding",
			ErrInvalidWindowParameters, stepSamples, windowSamples)
	}
	if len(signal) < windowSamples {
		return nil, fmt.Errorf("%w: %d samples, need at least %d",
			ErrInsufficientSignalLength, len(signal), windowSamples)
	}

	numFrames := (len(signal)-windowSamples)/stepSamples + 1

	taper := window.Hamming(windowSamples)
	evaluators := make([]*Goertzel, len(grid))
	for i, f := range grid {
		evaluators[i] = NewGoertzel(f, sampleRate)
	}

	times := make([]float64, numFrames)
	complexSpec := make([][]complex128, len(grid))
	logAmp := make([][]float64, len(grid))
	for i := range grid {
		complexSpec[i] = make([]complex128, numFrames)
		logAmp[i] = make([]float64, numFrames)
	}

	frame := make([]float64, windowSamples)
	center := float64(windowSamples-1) / 2
	for k := range numFrames {
		start := k * stepSamples
		copy(frame, signal[start:start+windowSamples])
		for i := range frame {
			frame[i] *= taper[i]
		}
		times[k] = (float64(start) + center) / sampleRate

		for i, ev := range evaluators {
			ev.Reset()
			ev.ProcessBlock(frame)
			v := ev.Value()
			complexSpec[i][k] = v
			logAmp[i][k] = math.Log10(cmplx.Abs(v))
		}
	}

	e.logger.Debug("spectrogram computed", logging.Fields{
		"frames":         numFrames,
		"freq_bins":      len(grid),
		"window_samples": windowSamples,
		"step_samples":   stepSamples,
	})

	return &Spectrogram{
		Freqs:         grid,
		Times:         times,
		Complex:       complexSpec,
		LogAmplitude:  logAmp,
		WindowSamples: windowSamples,
		StepSamples:   stepSamples,
		SampleRate:    sampleRate,
	}, nil
}

package session

import (
	"encoding/binary"
	"fmt"
	"os"

	"github.com/teresajurado/specslope/timeseries"
)

// LoadLFP reads a flat binary of interleaved little-endian int16 samples
// and returns it as a TimeSeries at the session's sampling rate, with the
// session's channel ids and timestamps starting at zero.
//
// The layout is frame-major: sample 0 of every channel, then sample 1, as
// written by common acquisition systems. Trailing bytes that do not fill a
// whole frame are dropped. Values are returned as raw ADC counts.
func LoadLFP(path string, info *Info) (*timeseries.TimeSeries, error) {
	if info == nil {
		return nil, fmt.Errorf("nil session info")
	}
	if info.NumChannels <= 0 {
		return nil, fmt.Errorf("session %q: n_channels must be positive, got %d", info.Name, info.NumChannels)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading lfp file: %w", err)
	}

	frameBytes := 2 * info.NumChannels
	if rem := len(raw) % frameBytes; rem != 0 {
		raw = raw[:len(raw)-rem]
	}
	if len(raw) == 0 {
		return nil, fmt.Errorf("lfp file %s: no complete sample frames", path)
	}

	numFrames := len(raw) / frameBytes
	data := make([][]float64, numFrames)
	for k := range numFrames {
		row := make([]float64, info.NumChannels)
		base := k * frameBytes
		for c := range info.NumChannels {
			row[c] = float64(int16(binary.LittleEndian.Uint16(raw[base+2*c : base+2*c+2])))
		}
		data[k] = row
	}

	return timeseries.New(data, info.SamplingRate, info.Channels)
}

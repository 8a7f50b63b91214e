package session

import (
	"context"
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teresajurado/specslope/internal/testutil"
	"github.com/teresajurado/specslope/specslope"
)

// writeSession lays out <dir>/<name>/<name>.session.yaml and returns the
// session directory.
func writeSession(t *testing.T, name, yaml string) string {
	t.Helper()
	dir := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name+".session.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yaml), 0o644))
	return dir
}

// encodeFrames packs sample frames as interleaved little-endian int16.
func encodeFrames(frames [][]int16) []byte {
	var out []byte
	for _, frame := range frames {
		for _, v := range frame {
			out = binary.LittleEndian.AppendUint16(out, uint16(v))
		}
	}
	return out
}

func TestKey(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{"/data/rat01/day2", "day2"},
		{"/data/rat01/day2/", "day2"},
		{"day2", "day2"},
		{"./rat01/../day2", "day2"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Key(tt.path), "Key(%q)", tt.path)
	}
}

func TestLoadSession(t *testing.T) {
	dir := writeSession(t, "day2", `
name: rat01_day2
sampling_rate: 1250
n_channels: 2
channels:
  - hpc
  - pfc
`)

	info, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "rat01_day2", info.Name)
	assert.Equal(t, 1250.0, info.SamplingRate)
	assert.Equal(t, 2, info.NumChannels)
	assert.Equal(t, []string{"hpc", "pfc"}, info.Channels)
}

func TestLoadSessionDefaults(t *testing.T) {
	dir := writeSession(t, "day3", `
sampling_rate: 200
n_channels: 3
`)

	info, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "day3", info.Name, "name defaults to the session key")
	assert.Equal(t, []string{"ch0", "ch1", "ch2"}, info.Channels)
}

func TestLoadSessionMissingRequired(t *testing.T) {
	dir := writeSession(t, "norate", "n_channels: 2\n")
	_, err := Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sampling_rate")

	dir = writeSession(t, "nochans", "sampling_rate: 1250\n")
	_, err = Load(dir)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "n_channels")
}

func TestLoadSessionRejects(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"zero rate", "sampling_rate: 0\nn_channels: 1\n"},
		{"negative rate", "sampling_rate: -100\nn_channels: 1\n"},
		{"zero channels", "sampling_rate: 200\nn_channels: 0\n"},
		{"channel name count mismatch", "sampling_rate: 200\nn_channels: 2\nchannels: [only]\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := writeSession(t, "bad", tt.yaml)
			_, err := Load(dir)
			assert.Error(t, err)
		})
	}
}

func TestLoadSessionMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nowhere"))
	assert.Error(t, err)
}

func TestLoadLFP(t *testing.T) {
	frames := [][]int16{
		{1, -2},
		{3, 4},
		{-32768, 32767},
	}
	path := filepath.Join(t.TempDir(), "day2.lfp")
	require.NoError(t, os.WriteFile(path, encodeFrames(frames), 0o644))

	info := &Info{Name: "day2", SamplingRate: 1250, NumChannels: 2, Channels: []string{"hpc", "pfc"}}
	series, err := LoadLFP(path, info)
	require.NoError(t, err)

	assert.Equal(t, 3, series.NumSamples())
	assert.Equal(t, 2, series.NumChannels())
	assert.Equal(t, 1250.0, series.SamplingRate)
	assert.Equal(t, []string{"hpc", "pfc"}, series.Channels)
	assert.Equal(t, [][]float64{{1, -2}, {3, 4}, {-32768, 32767}}, series.Data)
	assert.Equal(t, 0.0, series.Timestamps[0])
	assert.InDelta(t, 2.0/1250.0, series.Timestamps[2], 1e-12)
}

func TestLoadLFPDropsPartialFrame(t *testing.T) {
	raw := encodeFrames([][]int16{{10, 20}, {30, 40}})
	raw = append(raw, 0xFF) // torn write: half a sample
	path := filepath.Join(t.TempDir(), "torn.lfp")
	require.NoError(t, os.WriteFile(path, raw, 0o644))

	info := &Info{SamplingRate: 200, NumChannels: 2, Channels: []string{"a", "b"}}
	series, err := LoadLFP(path, info)
	require.NoError(t, err)
	assert.Equal(t, 2, series.NumSamples())
}

func TestLoadLFPRejects(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tiny.lfp")
	require.NoError(t, os.WriteFile(path, []byte{0x01}, 0o644))

	info := &Info{SamplingRate: 200, NumChannels: 1, Channels: []string{"a"}}
	_, err := LoadLFP(path, info)
	assert.Error(t, err, "no complete frame")

	_, err = LoadLFP(path, nil)
	assert.Error(t, err)

	_, err = LoadLFP(filepath.Join(t.TempDir(), "absent.lfp"), info)
	assert.Error(t, err)
}

// TestSessionToEstimate wires the collaborators together: directory name to
// storage key, metadata to loader parameters, loaded signal to estimator.
func TestSessionToEstimate(t *testing.T) {
	dir := writeSession(t, "rat01_day2", `
sampling_rate: 200
n_channels: 1
channels: [hpc]
`)

	noise := testutil.DeterministicNoise(3, 2000, 1000)
	frames := make([][]int16, len(noise))
	for i, v := range noise {
		frames[i] = []int16{int16(math.Round(v))}
	}
	lfpPath := filepath.Join(dir, "rat01_day2.lfp")
	require.NoError(t, os.WriteFile(lfpPath, encodeFrames(frames), 0o644))

	info, err := Load(dir)
	require.NoError(t, err)
	series, err := LoadLFP(lfpPath, info)
	require.NoError(t, err)

	cfg := specslope.DefaultConfig()
	cfg.CacheKey = Key(dir)
	est, err := specslope.NewEstimator(cfg)
	require.NoError(t, err)

	res, err := est.Run(context.Background(), series)
	require.NoError(t, err)

	// 1000 samples at 200 Hz, 1 s window, 0.5 s step: 9 windows.
	assert.Equal(t, 9, res.NumTimeBins())
	assert.Equal(t, []string{"hpc"}, res.Channels)
	assert.Equal(t, "rat01_day2", cfg.CacheKey)
}

// Package session locates recording sessions on disk and loads their
// metadata and raw signals. The estimation pipeline never imports it; it
// exists so callers can go from a session directory to a TimeSeries and a
// storage key without hand-rolling the layout conventions.
package session

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/viper"
)

// Info describes one recording session.
type Info struct {
	Name         string   `json:"name"`
	SamplingRate float64  `json:"sampling_rate"`
	NumChannels  int      `json:"n_channels"`
	Channels     []string `json:"channels"`
}

// Load reads the metadata file of a session directory,
// <base>/<Key(base)>.session.yaml.
//
// sampling_rate and n_channels are required. name defaults to the session
// key; channels defaults to generated ids ch0..chN-1 and must match
// n_channels when given.
func Load(basePath string) (*Info, error) {
	key := Key(basePath)
	path := filepath.Join(basePath, key+".session.yaml")

	v := viper.New()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("reading session metadata: %w", err)
	}

	if !v.IsSet("sampling_rate") {
		return nil, fmt.Errorf("session metadata %s: sampling_rate is required", path)
	}
	if !v.IsSet("n_channels") {
		return nil, fmt.Errorf("session metadata %s: n_channels is required", path)
	}

	info := &Info{
		Name:         v.GetString("name"),
		SamplingRate: v.GetFloat64("sampling_rate"),
		NumChannels:  v.GetInt("n_channels"),
		Channels:     v.GetStringSlice("channels"),
	}
	if info.Name == "" {
		info.Name = key
	}
	if info.SamplingRate <= 0 {
		return nil, fmt.Errorf("session metadata %s: sampling_rate must be positive, got %v", path, info.SamplingRate)
	}
	if info.NumChannels <= 0 {
		return nil, fmt.Errorf("session metadata %s: n_channels must be positive, got %d", path, info.NumChannels)
	}

	if len(info.Channels) == 0 {
		info.Channels = make([]string, info.NumChannels)
		for i := range info.Channels {
			info.Channels[i] = fmt.Sprintf("ch%d", i)
		}
	} else if len(info.Channels) != info.NumChannels {
		return nil, fmt.Errorf("session metadata %s: %d channel names for %d channels",
			path, len(info.Channels), info.NumChannels)
	}

	return info, nil
}

// Package spectral computes log-frequency spectrograms by evaluating the
// windowed discrete-time Fourier transform on a geometric frequency grid.
package spectral

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// GridSize is the fixed number of bins in every frequency grid.
const GridSize = 200

// ErrInvalidFrequencyRange reports a frequency range the grid or engine
// cannot represent.
var ErrInvalidFrequencyRange = errors.New("invalid frequency range")

// FrequencyGrid is the geometric frequency axis shared by every spectrogram
// and slope fit: GridSize bins from the low bound to the high bound
// inclusive, with a constant ratio between adjacent bins. The grid depends
// only on its two bounds, never on the window geometry or sampling rate.
type FrequencyGrid []float64

// NewFrequencyGrid builds the GridSize-point geometric grid over
// [lowHz, highHz].
func NewFrequencyGrid(lowHz, highHz float64) (FrequencyGrid, error) {
	if lowHz <= 0 {
		return nil, fmt.Errorf("%w: low bound %g Hz must be positive", ErrInvalidFrequencyRange, lowHz)
	}
	if highHz <= lowHz {
		return nil, fmt.Errorf("%w: high bound %g Hz must exceed low bound %g Hz", ErrInvalidFrequencyRange, highHz, lowHz)
	}
	grid := make(FrequencyGrid, GridSize)
	floats.LogSpan(grid, lowHz, highHz)
	return grid, nil
}

// Low returns the first bin frequency.
func (g FrequencyGrid) Low() float64 { return g[0] }

// High returns the last bin frequency.
func (g FrequencyGrid) High() float64 { return g[len(g)-1] }

// Log10 returns log10 of every bin, the x axis of the slope fit.
func (g FrequencyGrid) Log10() []float64 {
	out := make([]float64, len(g))
	for i, f := range g {
		out[i] = math.Log10(f)
	}
	return out
}

// Equal reports whether two grids have identical bins.
func (g FrequencyGrid) Equal(other FrequencyGrid) bool {
	if len(g) != len(other) {
		return false
	}
	for i := range g {
		if g[i] != other[i] {
			return false
		}
	}
	return true
}

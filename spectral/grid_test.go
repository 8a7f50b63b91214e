package spectral

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFrequencyGridShape(t *testing.T) {
	grid, err := NewFrequencyGrid(4, 100)
	require.NoError(t, err)

	require.Len(t, grid, GridSize)
	assert.InDelta(t, 4.0, grid.Low(), 1e-9)
	assert.InDelta(t, 100.0, grid.High(), 1e-9)
	for i := 1; i < len(grid); i++ {
		assert.Greater(t, grid[i], grid[i-1], "bin %d", i)
	}
}

func TestFrequencyGridConstantRatio(t *testing.T) {
	grid, err := NewFrequencyGrid(4, 100)
	require.NoError(t, err)

	want := math.Pow(100.0/4.0, 1.0/float64(GridSize-1))
	for i := 1; i < len(grid); i++ {
		assert.InDelta(t, want, grid[i]/grid[i-1], 1e-9, "bin %d", i)
	}
}

func TestFrequencyGridDependsOnlyOnBounds(t *testing.T) {
	a, err := NewFrequencyGrid(4, 100)
	require.NoError(t, err)
	b, err := NewFrequencyGrid(4, 100)
	require.NoError(t, err)
	assert.True(t, a.Equal(b))

	c, err := NewFrequencyGrid(1, 250)
	require.NoError(t, err)
	require.Len(t, c, GridSize)
	assert.False(t, a.Equal(c))
}

func TestFrequencyGridRejectsBadBounds(t *testing.T) {
	for _, tc := range []struct {
		name      string
		low, high float64
	}{
		{"zero low", 0, 100},
		{"negative low", -4, 100},
		{"equal bounds", 50, 50},
		{"inverted bounds", 100, 4},
	} {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewFrequencyGrid(tc.low, tc.high)
			assert.ErrorIs(t, err, ErrInvalidFrequencyRange)
		})
	}
}

func TestFrequencyGridLog10(t *testing.T) {
	grid, err := NewFrequencyGrid(10, 100)
	require.NoError(t, err)

	logs := grid.Log10()
	require.Len(t, logs, GridSize)
	assert.InDelta(t, 1.0, logs[0], 1e-12)
	assert.InDelta(t, 2.0, logs[GridSize-1], 1e-12)

	// geometric bins are uniform on the log10 axis
	step := (logs[GridSize-1] - logs[0]) / float64(GridSize-1)
	for i := 1; i < len(logs); i++ {
		assert.InDelta(t, logs[0]+float64(i)*step, logs[i], 1e-9, "bin %d", i)
	}
}

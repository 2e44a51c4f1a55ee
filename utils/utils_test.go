package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToRawFromRaw(t *testing.T) {
	assert.Equal(t, uint64(1500000000), ToRaw(1.5, 9))
	assert.Equal(t, uint64(2500000), ToRaw(2.5, 6))
	assert.Equal(t, 1.5, FromRaw(1500000000, 9))
}

func TestAmountGridGeometric(t *testing.T) {
	grid := AmountGrid(0.1, 5.0, 4, 9)
	require.Len(t, grid, 4)
	assert.Equal(t, uint64(100000000), grid[0])
	assert.InDelta(t, 5e9, float64(grid[3]), 10)
	for i := 1; i < len(grid); i++ {
		assert.Greater(t, grid[i], grid[i-1])
	}
	// the spacing is geometric, each step grows by the same factor
	first := float64(grid[1]) / float64(grid[0])
	second := float64(grid[2]) / float64(grid[1])
	assert.InDelta(t, first, second, 0.001)
}

func TestAmountGridSingleStep(t *testing.T) {
	grid := AmountGrid(2.0, 100.0, 1, 6)
	require.Len(t, grid, 1)
	assert.Equal(t, uint64(2000000), grid[0])
}

func TestAmountGridInvalid(t *testing.T) {
	assert.Nil(t, AmountGrid(1, 10, 0, 9))
	assert.Nil(t, AmountGrid(0, 10, 3, 9))
	assert.Nil(t, AmountGrid(10, 1, 3, 9))
}

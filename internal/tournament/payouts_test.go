package tournament

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSharePoolSplitsByFraction(t *testing.T) {
	shares := SharePool(900, []float64{0.5, 0.3, 0.2})
	assert.Equal(t, []int{450, 270, 180}, shares)
}

func TestSharePoolRemainderGoesToWinner(t *testing.T) {
	// Each third floors to 33, the leftover chip lands on first place.
	shares := SharePool(100, []float64{1.0 / 3, 1.0 / 3, 1.0 / 3})
	require.Equal(t, []int{34, 33, 33}, shares)

	shares = SharePool(101, []float64{0.5, 0.3, 0.2})
	assert.Equal(t, []int{51, 30, 20}, shares)
}

func TestSharePoolAlwaysPaysOutEverything(t *testing.T) {
	fractions := []float64{0.42, 0.27, 0.17, 0.09, 0.05}
	for _, pool := range []int{1, 7, 99, 810, 12345} {
		shares := SharePool(pool, fractions)
		total := 0
		for _, s := range shares {
			total += s
		}
		assert.Equal(t, pool, total, "pool %d", pool)
	}
}

func TestSharePoolDegenerateInputs(t *testing.T) {
	assert.Nil(t, SharePool(0, []float64{1}))
	assert.Nil(t, SharePool(-5, []float64{1}))
	assert.Nil(t, SharePool(100, nil))
}

func TestTruncateFractionsRenormalizes(t *testing.T) {
	got := truncateFractions([]float64{0.5, 0.3, 0.2}, 2)
	require.Len(t, got, 2)
	assert.InDelta(t, 0.625, got[0], 1e-9)
	assert.InDelta(t, 0.375, got[1], 1e-9)
}

func TestTruncateFractionsKeepsSmallLists(t *testing.T) {
	fractions := []float64{0.5, 0.3, 0.2}
	got := truncateFractions(fractions, 9)
	assert.Equal(t, fractions, got)
}

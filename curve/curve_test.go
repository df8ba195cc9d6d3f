package curve

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClean(t *testing.T) {
	t.Parallel()

	raw := []Point{
		{Days: 90, Rate: 4.10},
		{Days: 30, Rate: 4.00},
		{Days: 30, Rate: 4.20}, // duplicate day, averaged with the one above
		{Days: 0, Rate: 4.00},
		{Days: -7, Rate: 4.00},
		{Days: 60, Rate: math.NaN()}, // missing observation dropped
	}

	clean := Clean(raw)
	require.Len(t, clean, 2)
	assert.Equal(t, Point{Days: 30, Rate: 4.10}, clean[0])
	assert.Equal(t, Point{Days: 90, Rate: 4.10}, clean[1])
}

func TestClean_OrderInvariant(t *testing.T) {
	t.Parallel()

	a := []Point{{Days: 30, Rate: 4.0}, {Days: 90, Rate: 4.5}, {Days: 180, Rate: 4.2}}
	b := []Point{{Days: 180, Rate: 4.2}, {Days: 30, Rate: 4.0}, {Days: 90, Rate: 4.5}}
	assert.Equal(t, Clean(a), Clean(b))
}

func TestInterpolateRate(t *testing.T) {
	t.Parallel()

	points := []Point{
		{Days: 30, Rate: 4.00},
		{Days: 90, Rate: 4.20},
		{Days: 180, Rate: 4.50},
		{Days: 365, Rate: 4.80},
	}

	// Nodes reproduce exactly.
	got, err := InterpolateRate(points, 90)
	require.NoError(t, err)
	assert.InDelta(t, 4.20, got, 1e-9)

	// Interior points land between the bracketing nodes.
	got, err = InterpolateRate(points, 120)
	require.NoError(t, err)
	assert.Greater(t, got, 4.20)
	assert.Less(t, got, 4.50)
}

func TestInterpolateRate_Clamps(t *testing.T) {
	t.Parallel()

	points := []Point{
		{Days: 30, Rate: 4.00},
		{Days: 90, Rate: 4.20},
		{Days: 180, Rate: 4.50},
	}

	got, err := InterpolateRate(points, 7)
	require.NoError(t, err)
	assert.Equal(t, 4.00, got)

	got, err = InterpolateRate(points, 720)
	require.NoError(t, err)
	assert.Equal(t, 4.50, got)
}

func TestInterpolateRate_InsufficientData(t *testing.T) {
	t.Parallel()

	_, err := InterpolateRate([]Point{{Days: 30, Rate: 4.0}}, 60)
	require.ErrorIs(t, err, ErrInsufficientData)

	_, err = InterpolateRate([]Point{{Days: 30, Rate: math.NaN()}, {Days: 90, Rate: math.NaN()}}, 60)
	require.ErrorIs(t, err, ErrInsufficientData)
}

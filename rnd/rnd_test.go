package rnd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gchatrian/stir-macro-analyst/sabr"
	"github.com/gchatrian/stir-macro-analyst/scenario"
)

// testParams pins a mild smile on a 96.00 future half a year out.
func testParams() sabr.Parameters {
	f, tau := 96.0, 0.5
	atmLN := 0.01
	return sabr.Parameters{
		Alpha:        0.098,
		Rho:          0.0,
		Volvol:       0.3,
		Beta:         0.5,
		ATMNormalVol: sabr.LognormalToNormalATM(f, tau, atmLN),
		Tau:          tau,
		RFR:          0.04,
		Forward:      f,
	}
}

func TestGenerate_IntegratesToOne(t *testing.T) {
	t.Parallel()

	c, err := Generate(testParams(), 92, 100, 500)
	require.NoError(t, err)
	require.Len(t, c.Strikes, 500)
	require.Len(t, c.Density, 500)

	mass := scenario.Integrate(c.Strikes, c.Density, 92, 100)
	assert.InDelta(t, 1.0, mass, 0.02)

	// Mass concentrates around the forward.
	core := scenario.Integrate(c.Strikes, c.Density, 94, 98)
	assert.Greater(t, core, 0.95)
}

func TestGenerate_PeaksNearForward(t *testing.T) {
	t.Parallel()

	c, err := Generate(testParams(), 92, 100, 500)
	require.NoError(t, err)

	peak := 0
	for i, d := range c.Density {
		if d > c.Density[peak] {
			peak = i
		}
	}
	assert.InDelta(t, 96.0, c.Strikes[peak], 0.25)
}

func TestGenerate_DefaultGridPoints(t *testing.T) {
	t.Parallel()

	c, err := Generate(testParams(), 92, 100, 0)
	require.NoError(t, err)
	assert.Len(t, c.Strikes, DefaultGridPoints)
}

func TestGenerate_Errors(t *testing.T) {
	t.Parallel()

	_, err := Generate(testParams(), 100, 92, 500)
	require.Error(t, err)

	_, err = Generate(testParams(), 92, 100, 2)
	require.Error(t, err)

	// Missing ATM normal vol cannot anchor the smile.
	p := testParams()
	p.ATMNormalVol = 0
	_, err = Generate(p, 92, 100, 500)
	require.Error(t, err)
}

func TestToRateSpace(t *testing.T) {
	t.Parallel()

	c := Curve{
		Strikes: []float64{94, 96, 98},
		Density: []float64{0.1, 0.5, 0.2},
	}
	r := ToRateSpace(c)

	assert.Equal(t, []float64{2, 4, 6}, r.Strikes)
	assert.Equal(t, []float64{0.2, 0.5, 0.1}, r.Density)
	// Input untouched.
	assert.Equal(t, []float64{94, 96, 98}, c.Strikes)
}

func TestToRateSpace_PreservesMass(t *testing.T) {
	t.Parallel()

	c, err := Generate(testParams(), 92, 100, 500)
	require.NoError(t, err)

	r := ToRateSpace(c)
	priceMass := scenario.Integrate(c.Strikes, c.Density, 92, 100)
	rateMass := scenario.Integrate(r.Strikes, r.Density, 0, 8)
	assert.InDelta(t, priceMass, rateMass, 1e-9)
}

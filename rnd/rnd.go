// Package rnd extracts the risk-neutral density of a STIR future's
// underlying rate from a calibrated SABR smile via the Breeden-Litzenberger
// relation.
package rnd

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/gchatrian/stir-macro-analyst/black"
	"github.com/gchatrian/stir-macro-analyst/sabr"
)

// DefaultGridPoints balances strike resolution against the noise that
// finite-difference differentiation amplifies. Finer grids are not
// automatically better.
const DefaultGridPoints = 500

// Curve is a density sampled on a strike grid. Strikes and Density share
// one ordering; density values are not clamped and can dip below zero at
// the grid edges, a known artifact of differentiating a fitted call curve.
type Curve struct {
	Strikes []float64
	Density []float64
}

// Generate reprices a dense call curve under the calibrated smile across
// [minStrike, maxStrike] in price space and differentiates it twice. The
// second derivative, undiscounted by exp(rfr*tau), is the risk-neutral
// density at each grid strike.
func Generate(params sabr.Parameters, minStrike, maxStrike float64, gridPoints int) (Curve, error) {
	if gridPoints <= 0 {
		gridPoints = DefaultGridPoints
	}
	if gridPoints < 3 {
		return Curve{}, fmt.Errorf("rnd.Generate: need >= 3 grid points, have %d", gridPoints)
	}
	if minStrike >= maxStrike {
		return Curve{}, fmt.Errorf("rnd.Generate: empty strike range [%g, %g]", minStrike, maxStrike)
	}

	alpha, err := params.ATMAlpha()
	if err != nil {
		return Curve{}, fmt.Errorf("rnd.Generate: %w", err)
	}

	strikes := make([]float64, gridPoints)
	floats.Span(strikes, minStrike, maxStrike)

	calls := make([]float64, gridPoints)
	for i, k := range strikes {
		vol := sabr.LognormalVol(k, params.Forward, params.Tau, alpha, params.Beta, params.Rho, params.Volvol)
		calls[i] = black.Price(params.Forward, k, params.Tau, params.RFR, vol, black.Call)
	}

	first := gradient(calls, strikes)
	second := gradient(first, strikes)

	undiscount := math.Exp(params.RFR * params.Tau)
	density := make([]float64, gridPoints)
	for i := range second {
		density[i] = second[i] * undiscount
	}

	return Curve{Strikes: strikes, Density: density}, nil
}

// ToRateSpace flips a price-space curve into strictly increasing rate space
// (rate = 100 - price reverses the ordering). The input curve is untouched.
func ToRateSpace(c Curve) Curve {
	n := len(c.Strikes)
	out := Curve{
		Strikes: make([]float64, n),
		Density: make([]float64, n),
	}
	for i := 0; i < n; i++ {
		out.Strikes[i] = 100 - c.Strikes[n-1-i]
		out.Density[i] = c.Density[n-1-i]
	}
	return out
}

// gradient computes df/dx with central differences in the interior and
// one-sided differences at the edges, matching numpy's gradient.
func gradient(f, x []float64) []float64 {
	n := len(f)
	g := make([]float64, n)
	if n < 2 {
		return g
	}
	g[0] = (f[1] - f[0]) / (x[1] - x[0])
	g[n-1] = (f[n-1] - f[n-2]) / (x[n-1] - x[n-2])
	for i := 1; i < n-1; i++ {
		g[i] = (f[i+1] - f[i-1]) / (x[i+1] - x[i-1])
	}
	return g
}

package black

import "math"

const (
	ivMaxIter   = 100
	ivTolerance = 1e-9
	ivMinSigma  = 1e-6
	ivMaxSigma  = 5.0
	minVega     = 1e-12
)

// ImpliedVol inverts a quoted premium to a Black-76 lognormal implied
// volatility in percent (vol x 100). Newton-Raphson on vega, safeguarded by
// bisection on the [ivMinSigma, ivMaxSigma] bracket: the premium is strictly
// increasing in sigma, so any step that leaves the bracket or hits a flat
// vega falls back to halving it.
//
// ok is false when the premium sits outside arbitrage bounds or the
// iteration fails to converge. Callers filter absent results downstream; a
// hard failure here never aborts an analysis on its own.
func ImpliedVol(price, f, k, tau, r float64, typ OptionType) (vol float64, ok bool) {
	if price <= 0 || f <= 0 || k <= 0 || tau <= 0 {
		return 0, false
	}

	// Arbitrage bounds: premium must exceed discounted intrinsic and stay
	// below the discounted forward (call) / strike (put).
	disc := math.Exp(-r * tau)
	var intrinsic, upper float64
	if typ == Call {
		intrinsic = disc * math.Max(f-k, 0)
		upper = disc * f
	} else {
		intrinsic = disc * math.Max(k-f, 0)
		upper = disc * k
	}
	if price <= intrinsic || price >= upper {
		return 0, false
	}

	lo, hi := ivMinSigma, ivMaxSigma
	sigma := 0.3
	for i := 0; i < ivMaxIter; i++ {
		diff := Price(f, k, tau, r, sigma, typ) - price
		if math.Abs(diff) < ivTolerance || hi-lo < ivTolerance {
			return sigma * 100, true
		}
		if diff > 0 {
			hi = sigma
		} else {
			lo = sigma
		}

		vega := Vega(f, k, tau, r, sigma)
		next := sigma - diff/vega
		if vega < minVega || next <= lo || next >= hi {
			next = 0.5 * (lo + hi)
		}
		sigma = next
	}
	return 0, false
}

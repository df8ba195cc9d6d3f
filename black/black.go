// Package black prices European options on futures under the Black-76 model
// and inverts quoted premiums to implied volatilities.
package black

import "math"

// OptionType distinguishes calls from puts.
type OptionType string

const (
	Call OptionType = "call"
	Put  OptionType = "put"
)

func normCDF(x float64) float64 {
	return 0.5 * (1 + math.Erf(x/math.Sqrt2))
}

func normPDF(x float64) float64 {
	return math.Exp(-0.5*x*x) / math.Sqrt(2*math.Pi)
}

// Price returns the Black-76 premium for a European option on a future.
// f and k share one unit (price points here), tau is in years, r is a
// decimal continuously-compounded rate, sigma a decimal lognormal vol.
// Degenerate inputs (tau, sigma, f or k non-positive) price to intrinsic
// at zero vol for expiring options and zero otherwise.
func Price(f, k, tau, r, sigma float64, typ OptionType) float64 {
	if f <= 0 || k <= 0 {
		return 0
	}
	if tau <= 0 || sigma <= 0 {
		// Discounted intrinsic.
		disc := math.Exp(-r * math.Max(tau, 0))
		if typ == Call {
			return disc * math.Max(f-k, 0)
		}
		return disc * math.Max(k-f, 0)
	}

	sqrtT := math.Sqrt(tau)
	d1 := (math.Log(f/k) + 0.5*sigma*sigma*tau) / (sigma * sqrtT)
	d2 := d1 - sigma*sqrtT
	disc := math.Exp(-r * tau)

	if typ == Call {
		return disc * (f*normCDF(d1) - k*normCDF(d2))
	}
	return disc * (k*normCDF(-d2) - f*normCDF(-d1))
}

// Vega returns dPrice/dSigma, shared by calls and puts.
func Vega(f, k, tau, r, sigma float64) float64 {
	if f <= 0 || k <= 0 || tau <= 0 || sigma <= 0 {
		return 0
	}
	sqrtT := math.Sqrt(tau)
	d1 := (math.Log(f/k) + 0.5*sigma*sigma*tau) / (sigma * sqrtT)
	return f * math.Exp(-r*tau) * sqrtT * normPDF(d1)
}

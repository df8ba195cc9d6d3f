// Package sabr implements the Hagan 2002 lognormal SABR smile and its
// calibration to market implied volatilities.
package sabr

import (
	"fmt"
	"math"
)

// Parameters is an immutable calibrated smile. Forward is the futures
// settlement in price space; ATMNormalVol is the at-the-money basis-point
// vol the smile was pinned to.
type Parameters struct {
	Alpha        float64
	Rho          float64
	Volvol       float64
	Beta         float64
	ATMNormalVol float64
	Tau          float64
	RFR          float64
	Forward      float64
}

// LognormalVol evaluates the Hagan 2002 lognormal volatility approximation
// at strike k for forward f, both positive and in the same unit.
func LognormalVol(k, f, tau, alpha, beta, rho, volvol float64) float64 {
	if k <= 0 || f <= 0 || alpha <= 0 || tau <= 0 {
		return 0
	}

	oneMinusBeta := 1 - beta
	logFK := math.Log(f / k)
	fkPow := math.Pow(f*k, oneMinusBeta/2)

	// Time-dependent correction, shared by the ATM and wing branches.
	corr := 1 + (oneMinusBeta*oneMinusBeta/24*alpha*alpha/(fkPow*fkPow)+
		rho*beta*volvol*alpha/(4*fkPow)+
		(2-3*rho*rho)/24*volvol*volvol)*tau

	if math.Abs(logFK) < 1e-12 {
		return alpha / math.Pow(f, oneMinusBeta) * corr
	}

	z := volvol / alpha * fkPow * logFK
	x := math.Log((math.Sqrt(1-2*rho*z+z*z) + z - rho) / (1 - rho))

	zOverX := 1.0
	if math.Abs(x) > 1e-12 {
		zOverX = z / x
	}

	denom := fkPow * (1 + oneMinusBeta*oneMinusBeta/24*logFK*logFK +
		oneMinusBeta*oneMinusBeta*oneMinusBeta*oneMinusBeta/1920*logFK*logFK*logFK*logFK)

	return alpha / denom * zOverX * corr
}

// LognormalToNormalATM converts an at-the-money lognormal vol to a normal
// (basis-point) vol at zero shift using Hagan's expansion evaluated at k=f.
func LognormalToNormalATM(f, tau, volLN float64) float64 {
	if f <= 0 || volLN <= 0 {
		return 0
	}
	return volLN * f / (1 + volLN*volLN*tau/24 + math.Pow(volLN, 4)*tau*tau/5760)
}

// ATMAlpha recovers the alpha consistent with the stored ATM normal vol
// under the smile's (beta, rho, volvol). The smile is monotone increasing in
// alpha at the money, so a bisection suffices.
func (p Parameters) ATMAlpha() (float64, error) {
	target := p.ATMNormalVol
	if target <= 0 || p.Forward <= 0 || p.Tau <= 0 {
		return 0, fmt.Errorf("sabr.ATMAlpha: degenerate parameters (atm_n=%g, f=%g, tau=%g)", target, p.Forward, p.Tau)
	}

	atmNormal := func(alpha float64) float64 {
		ln := LognormalVol(p.Forward, p.Forward, p.Tau, alpha, p.Beta, p.Rho, p.Volvol)
		return LognormalToNormalATM(p.Forward, p.Tau, ln)
	}

	lo, hi := 1e-8, 10.0
	if atmNormal(hi) < target {
		return 0, fmt.Errorf("sabr.ATMAlpha: ATM normal vol %g out of reach", target)
	}
	for i := 0; i < 200; i++ {
		mid := 0.5 * (lo + hi)
		if atmNormal(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
		if hi-lo < 1e-14 {
			break
		}
	}
	return 0.5 * (lo + hi), nil
}

// SmileVol evaluates the calibrated smile at strike k, re-deriving alpha
// from the ATM normal vol as the pricing grid does.
func (p Parameters) SmileVol(k float64) (float64, error) {
	alpha, err := p.ATMAlpha()
	if err != nil {
		return 0, err
	}
	return LognormalVol(k, p.Forward, p.Tau, alpha, p.Beta, p.Rho, p.Volvol), nil
}

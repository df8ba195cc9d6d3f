package sabr

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/optimize"
)

var (
	// ErrInsufficientStrikes is returned when fewer than three distinct
	// strikes are available; (alpha, rho, volvol) would be underdetermined.
	ErrInsufficientStrikes = errors.New("insufficient distinct strikes")

	// ErrForwardOutsideSmile is returned when the forward falls outside the
	// quoted strike range, where the ATM spline would extrapolate.
	ErrForwardOutsideSmile = errors.New("forward outside quoted strike range")

	// ErrCalibrationFailed is returned when the smile fit does not converge.
	// A partially-fit parameter set is never returned.
	ErrCalibrationFailed = errors.New("sabr calibration failed")
)

const (
	fitMaxIterations = 2000
	fitMaxEvals      = 10000
	fitPenalty       = 1e10
)

// Calibrate fits SABR (alpha, rho, volvol) under a fixed beta to an implied
// volatility smile. forward is the futures settlement in price space,
// strikes are price-space option strikes and volsPct the matching implied
// vols in percent. The same spline that carries the fit also pins the ATM
// vol, stored on the result as a normal (basis-point) vol.
func Calibrate(forward float64, strikes, volsPct []float64, tau, rfr, beta float64) (Parameters, error) {
	if len(strikes) != len(volsPct) {
		return Parameters{}, fmt.Errorf("sabr.Calibrate: %d strikes vs %d vols", len(strikes), len(volsPct))
	}
	if tau <= 0 {
		return Parameters{}, fmt.Errorf("sabr.Calibrate: non-positive tau %g", tau)
	}

	ks, vs := sortedSmile(strikes, volsPct)
	if len(ks) < 3 {
		return Parameters{}, fmt.Errorf("sabr.Calibrate: need >= 3 distinct strikes, have %d: %w", len(ks), ErrInsufficientStrikes)
	}
	if forward < ks[0] || forward > ks[len(ks)-1] {
		return Parameters{}, fmt.Errorf("sabr.Calibrate: forward %g outside [%g, %g]: %w", forward, ks[0], ks[len(ks)-1], ErrForwardOutsideSmile)
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(ks, vs); err != nil {
		return Parameters{}, fmt.Errorf("sabr.Calibrate: ATM spline: %w", err)
	}
	atmLN := spline.Predict(forward) / 100
	if atmLN <= 0 {
		return Parameters{}, fmt.Errorf("sabr.Calibrate: non-positive ATM vol %g: %w", atmLN, ErrCalibrationFailed)
	}
	atmNormal := LognormalToNormalATM(forward, tau, atmLN)

	alpha, rho, volvol, err := fitSmile(forward, ks, vs, tau, beta, atmLN)
	if err != nil {
		return Parameters{}, err
	}

	return Parameters{
		Alpha:        alpha,
		Rho:          rho,
		Volvol:       volvol,
		Beta:         beta,
		ATMNormalVol: atmNormal,
		Tau:          tau,
		RFR:          rfr,
		Forward:      forward,
	}, nil
}

// fitSmile minimizes the mean squared error between Hagan model vols and
// market vols (both decimal) with Nelder-Mead. Parameters are optimized on
// the real line: alpha and volvol through exp, rho through tanh, which keeps
// every candidate inside the admissible region without constraints.
func fitSmile(forward float64, ks, vsPct []float64, tau, beta, atmLN float64) (alpha, rho, volvol float64, err error) {
	market := make([]float64, len(vsPct))
	for i, v := range vsPct {
		market[i] = v / 100
	}

	objective := func(x []float64) float64 {
		a := math.Exp(x[0])
		r := math.Tanh(x[1])
		v := math.Exp(x[2])
		var sum float64
		for i, k := range ks {
			model := LognormalVol(k, forward, tau, a, beta, r, v)
			if model <= 0 || math.IsNaN(model) || math.IsInf(model, 0) {
				return fitPenalty
			}
			d := model - market[i]
			sum += d * d
		}
		return sum / float64(len(ks))
	}

	// Start from the ATM-consistent alpha, a flat skew and a moderate volvol.
	alpha0 := atmLN * math.Pow(forward, 1-beta)
	x0 := []float64{math.Log(alpha0), 0, math.Log(0.5)}

	settings := &optimize.Settings{
		MajorIterations: fitMaxIterations,
		FuncEvaluations: fitMaxEvals,
	}
	result, optErr := optimize.Minimize(optimize.Problem{Func: objective}, x0, settings, &optimize.NelderMead{})
	if optErr != nil {
		return 0, 0, 0, fmt.Errorf("sabr.Calibrate: %v: %w", optErr, ErrCalibrationFailed)
	}
	if result == nil || math.IsNaN(result.F) || result.F >= fitPenalty {
		return 0, 0, 0, fmt.Errorf("sabr.Calibrate: objective did not converge: %w", ErrCalibrationFailed)
	}

	return math.Exp(result.X[0]), math.Tanh(result.X[1]), math.Exp(result.X[2]), nil
}

// sortedSmile orders (strike, vol) pairs by strike and averages exact
// duplicate strikes so the spline sees a strictly increasing grid.
func sortedSmile(strikes, vols []float64) (ks, vs []float64) {
	type pair struct{ k, v float64 }
	pairs := make([]pair, len(strikes))
	for i := range strikes {
		pairs[i] = pair{strikes[i], vols[i]}
	}
	sort.Slice(pairs, func(i, j int) bool { return pairs[i].k < pairs[j].k })

	for i := 0; i < len(pairs); {
		j := i
		sum := 0.0
		for j < len(pairs) && pairs[j].k == pairs[i].k {
			sum += pairs[j].v
			j++
		}
		ks = append(ks, pairs[i].k)
		vs = append(vs, sum/float64(j-i))
		i = j
	}
	return ks, vs
}

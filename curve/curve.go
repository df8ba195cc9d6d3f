// Package curve builds and interpolates discount-rate curves from discrete
// tenor points.
package curve

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/interp"
)

// ErrInsufficientData is returned when fewer than two clean curve points
// survive cleaning.
var ErrInsufficientData = errors.New("insufficient curve data")

// Point is one observed curve node. Rate is in percent. A NaN rate marks a
// missing observation and is dropped during cleaning.
type Point struct {
	Days int     // days to the tenor date, from the valuation date
	Rate float64 // zero rate, percent
}

// Clean normalizes raw curve points for fitting: drops non-finite rates and
// non-positive day counts, aggregates duplicate day counts by mean, and
// sorts ascending by days. The result is deterministic for any input
// ordering of the same rows.
func Clean(points []Point) []Point {
	sums := make(map[int]float64)
	counts := make(map[int]int)
	for _, p := range points {
		if p.Days <= 0 {
			continue
		}
		if math.IsNaN(p.Rate) || math.IsInf(p.Rate, 0) {
			continue
		}
		sums[p.Days] += p.Rate
		counts[p.Days]++
	}

	clean := make([]Point, 0, len(sums))
	for d, s := range sums {
		clean = append(clean, Point{Days: d, Rate: s / float64(counts[d])})
	}
	sort.Slice(clean, func(i, j int) bool { return clean[i].Days < clean[j].Days })
	return clean
}

// InterpolateRate cleans the curve and evaluates a natural cubic spline at
// targetDays. Targets outside the observed day range clamp to the boundary
// rate. Fails with ErrInsufficientData when fewer than two clean points
// remain.
func InterpolateRate(points []Point, targetDays int) (float64, error) {
	clean := Clean(points)
	if len(clean) < 2 {
		return 0, fmt.Errorf("curve.InterpolateRate: need >= 2 clean points, have %d: %w", len(clean), ErrInsufficientData)
	}

	if targetDays <= clean[0].Days {
		return clean[0].Rate, nil
	}
	if targetDays >= clean[len(clean)-1].Days {
		return clean[len(clean)-1].Rate, nil
	}

	xs := make([]float64, len(clean))
	ys := make([]float64, len(clean))
	for i, p := range clean {
		xs[i] = float64(p.Days)
		ys[i] = p.Rate
	}

	var spline interp.NaturalCubic
	if err := spline.Fit(xs, ys); err != nil {
		return 0, fmt.Errorf("curve.InterpolateRate: spline fit: %w", err)
	}
	return spline.Predict(float64(targetDays)), nil
}

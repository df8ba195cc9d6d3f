// Package scenario measures the probability mass a risk-neutral density
// assigns to user-defined rate ranges.
package scenario

import (
	"fmt"
	"sort"

	"gonum.org/v1/gonum/integrate"
)

// Range is a half-open-in-spirit rate interval [Min, Max]; integration
// treats both ends as inclusive. Rates are in percentage points.
type Range struct {
	Min float64
	Max float64
}

// Set maps scenario names to rate ranges. The engine enforces no mutual
// exclusivity or coverage across members; ValidateSet is the opt-in check.
type Set map[string]Range

// Integrate sums the density mass inside [minRate, maxRate] inclusive using
// Simpson's rule over the grid points that fall in range. Fewer than two
// points in range is a defined zero, not an error; exactly two degrade to
// the trapezoid.
func Integrate(strikes, density []float64, minRate, maxRate float64) float64 {
	var xs, fs []float64
	for i, s := range strikes {
		if s >= minRate && s <= maxRate {
			xs = append(xs, s)
			fs = append(fs, density[i])
		}
	}

	switch {
	case len(xs) < 2:
		return 0.0
	case len(xs) == 2:
		return 0.5 * (fs[0] + fs[1]) * (xs[1] - xs[0])
	default:
		return integrate.Simpsons(xs, fs)
	}
}

// Probabilities integrates the density over every scenario in the set.
// Scenarios are independent: overlapping ranges double-count and gaps drop
// mass.
func Probabilities(strikes, density []float64, set Set) map[string]float64 {
	probs := make(map[string]float64, len(set))
	for name, r := range set {
		probs[name] = Integrate(strikes, density, r.Min, r.Max)
	}
	return probs
}

// Shift returns b-a per scenario present in both maps, as signed
// probability changes.
func Shift(a, b map[string]float64) map[string]float64 {
	shifts := make(map[string]float64)
	for name, pa := range a {
		if pb, ok := b[name]; ok {
			shifts[name] = pb - pa
		}
	}
	return shifts
}

// ValidateSet checks the caller discipline the engine itself never
// enforces: every range well-formed (Min < Max), no overlaps, and no gaps
// between consecutive ranges. Zero-width touching at boundaries is fine.
func ValidateSet(set Set) error {
	if len(set) == 0 {
		return fmt.Errorf("scenario.ValidateSet: empty set")
	}

	type named struct {
		name string
		r    Range
	}
	ranges := make([]named, 0, len(set))
	for name, r := range set {
		if r.Min >= r.Max {
			return fmt.Errorf("scenario.ValidateSet: %q has min %g >= max %g", name, r.Min, r.Max)
		}
		ranges = append(ranges, named{name, r})
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].r.Min < ranges[j].r.Min })

	for i := 1; i < len(ranges); i++ {
		prev, cur := ranges[i-1], ranges[i]
		if cur.r.Min < prev.r.Max {
			return fmt.Errorf("scenario.ValidateSet: %q overlaps %q at %g", cur.name, prev.name, cur.r.Min)
		}
		if cur.r.Min > prev.r.Max {
			return fmt.Errorf("scenario.ValidateSet: gap between %q and %q over [%g, %g]", prev.name, cur.name, prev.r.Max, cur.r.Min)
		}
	}
	return nil
}

// Bounds returns the lowest and highest rate across all scenario
// boundaries. The orchestrator sizes the density grid from these so every
// scenario is fully covered.
func Bounds(set Set) (minRate, maxRate float64, err error) {
	if len(set) == 0 {
		return 0, 0, fmt.Errorf("scenario.Bounds: empty set")
	}
	first := true
	for _, r := range set {
		if first {
			minRate, maxRate = r.Min, r.Max
			first = false
			continue
		}
		if r.Min < minRate {
			minRate = r.Min
		}
		if r.Max > maxRate {
			maxRate = r.Max
		}
	}
	return minRate, maxRate, nil
}

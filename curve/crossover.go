package curve

import (
	"fmt"
	"math"
	"slices"
)

// samePrice tolerates the rounding of two sweeps computed independently.
func samePrice(a, b float64) bool {
	return math.Abs(a-b) <= 1e-9*math.Max(1, math.Abs(a))
}

// FindCrossovers returns the prices where curve a crosses curve b, by linear
// interpolation between the samples bracketing each sign change of a-b.
//
// A sample where both curves are equal counts as a crossing but does not
// become the new reference sign, so a touch followed by a crossing is
// reported once. Results are deduplicated and ordered by price.
func FindCrossovers(a, b []Point) ([]float64, error) {
	if len(a) != len(b) {
		return nil, fmt.Errorf("%w: %d and %d points", ErrMismatchedCurves, len(a), len(b))
	}
	for i := range a {
		if !samePrice(a[i].Price, b[i].Price) {
			return nil, fmt.Errorf("%w: sample %d at %v and %v", ErrMismatchedCurves, i, a[i].Price, b[i].Price)
		}
	}
	if len(a) < 2 {
		return nil, nil
	}

	diff := make([]float64, len(a))
	for i := range a {
		diff[i] = a[i].ProfitLoss - b[i].ProfitLoss
	}

	var crossings []float64
	ref := diff[0]
	for i := 1; i < len(diff); i++ {
		d := diff[i]
		if (ref < 0 && d >= 0) || (ref > 0 && d <= 0) {
			crossings = append(crossings, interpolate(a[i-1].Price, a[i].Price, diff[i-1], d))
		}
		if d != 0 {
			ref = d
		}
	}
	return dedup(crossings), nil
}

// interpolate returns the zero of the line through (p0, d0) and (p1, d1),
// or p1 when the line is flat.
func interpolate(p0, p1, d0, d1 float64) float64 {
	den := math.Abs(d1 - d0)
	if den == 0 {
		return p1
	}
	return p0 + (math.Abs(d0)/den)*(p1-p0)
}

func dedup(prices []float64) []float64 {
	var out []float64
	for _, p := range prices {
		if !slices.Contains(out, p) {
			out = append(out, p)
		}
	}
	return out
}

// Breakevens returns the prices where c crosses zero.
func Breakevens(c []Point) []float64 {
	zero := make([]Point, len(c))
	for i, p := range c {
		zero[i] = Point{Price: p.Price}
	}
	prices, _ := FindCrossovers(c, zero)
	return prices
}

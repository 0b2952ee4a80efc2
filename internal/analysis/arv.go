package analysis

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"flipfinder/internal/domain"
)

// ARVMethod selects the central tendency used over comparable sales
type ARVMethod string

const (
	ARVMethodMean   ARVMethod = "mean"
	ARVMethodMedian ARVMethod = "median"
)

// outlierStdDevs is the cutoff for discarding comp observations.
// Observations more than this many standard deviations from the mean
// are dropped before averaging.
const outlierStdDevs = 2.0

// EstimateARV derives the after-repair value of a property from its
// comparable sales. Each comp contributes a price-per-sqft observation;
// outliers are removed and the remaining observations are combined with
// the configured method, then scaled by the subject's square footage.
//
// Returns ErrInsufficientComparables when no usable comps exist. No
// fallback value is fabricated in that case.
func EstimateARV(p domain.Property, method ARVMethod) (float64, error) {
	if len(p.Comps) == 0 {
		return 0, ErrInsufficientComparables
	}

	psf := make([]float64, 0, len(p.Comps))
	for _, comp := range p.Comps {
		if v := comp.PricePerSqft(); v > 0 {
			psf = append(psf, v)
		}
	}
	if len(psf) == 0 {
		return 0, ErrInsufficientComparables
	}

	filtered := filterOutliers(psf)
	if len(filtered) == 0 {
		filtered = psf
	}

	var perSqft float64
	switch method {
	case ARVMethodMedian:
		perSqft = median(filtered)
	default:
		perSqft = stat.Mean(filtered, nil)
	}

	return p.SquareFeet * perSqft, nil
}

// filterOutliers drops observations more than outlierStdDevs standard
// deviations from the mean. A single observation is never an outlier.
func filterOutliers(xs []float64) []float64 {
	if len(xs) < 2 {
		return xs
	}

	mean := stat.Mean(xs, nil)
	sd := stat.StdDev(xs, nil)
	if sd == 0 {
		return xs
	}

	kept := make([]float64, 0, len(xs))
	for _, x := range xs {
		if math.Abs(x-mean) <= outlierStdDevs*sd {
			kept = append(kept, x)
		}
	}
	return kept
}

func median(xs []float64) float64 {
	sorted := make([]float64, len(xs))
	copy(sorted, xs)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}

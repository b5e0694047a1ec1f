package statistics

import (
	"math"
	"sort"
)

// Stats holds descriptive measures for one sample
type Stats struct {
	N      int
	Median float64
	Mean   float64
	StdDev float64 // Population standard deviation
	Min    float64
	Max    float64
	CV     float64 // Coefficient of Variation (%)
	Values []float64
}

// Median calculates the median of a slice of float64 values
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2.0
	}
	return sorted[n/2]
}

// Mean calculates the arithmetic mean. An empty sample has mean 0.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sumSquaredDeviations returns Σ(v - mean)²
func sumSquaredDeviations(values []float64) float64 {
	mean := Mean(values)
	ss := 0.0
	for _, v := range values {
		diff := v - mean
		ss += diff * diff
	}
	return ss
}

// Variance calculates the population variance (divides by n)
func Variance(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sumSquaredDeviations(values) / float64(len(values))
}

// StdDev calculates the population standard deviation (divides by n, not n-1).
// Returns 0 for an empty sample.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// SampleVariance calculates the unbiased variance (divides by n-1).
// Returns 0 when fewer than two values are given.
func SampleVariance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	return sumSquaredDeviations(values) / float64(len(values)-1)
}

// SampleStdDev calculates the sample standard deviation with Bessel's correction
func SampleStdDev(values []float64) float64 {
	return math.Sqrt(SampleVariance(values))
}

// CV calculates the coefficient of variation (stddev/mean * 100)
func CV(values []float64) float64 {
	mean := Mean(values)
	if mean == 0 {
		return 0
	}
	return (StdDev(values) / math.Abs(mean)) * 100
}

// Calculate computes all descriptive measures for a slice of values
func Calculate(values []float64) Stats {
	if len(values) == 0 {
		return Stats{}
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	// Keep a copy so later tests run on the original order
	valuesCopy := make([]float64, len(values))
	copy(valuesCopy, values)

	return Stats{
		N:      len(values),
		Median: Median(values),
		Mean:   Mean(values),
		StdDev: StdDev(values),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		CV:     CV(values),
		Values: valuesCopy,
	}
}

// HasOverlap checks if two value ranges overlap
func HasOverlap(statsA, statsB Stats) bool {
	if statsA.N == 0 || statsB.N == 0 {
		return false
	}
	// No overlap if: Min A > Max B OR Min B > Max A
	return !(statsA.Min > statsB.Max || statsB.Min > statsA.Max)
}

package statistics

import (
	"math"
	"sort"
)

// Minimum observations per sample for the t-tests
const minTTestSize = 2

// TTestResult holds the outcome of a t-test
type TTestResult struct {
	T      float64 // t statistic
	DF     float64 // Degrees of freedom (Welch-Satterthwaite for independent samples)
	PValue float64 // Two-tailed p-value under H0: equal means

	// PValueLowerTail is P(T <= t), i.e. the evidence that the first sample's
	// mean is lower than the second's. Only set by IndependentTTest.
	PValueLowerTail float64
}

// PairedTTest tests whether the mean of the index-aligned differences a[i]-b[i]
// is zero. Inputs must be finite.
//
// Returns ErrMismatchedLengths or ErrSampleSize (n < 2) with a nil result.
// If all differences are identical the result is {T: 0, DF: n-1, PValue: 1}.
func PairedTTest(a, b []float64) (*TTestResult, error) {
	if len(a) != len(b) {
		return nil, ErrMismatchedLengths
	}
	if len(a) < minTTestSize {
		return nil, ErrSampleSize
	}

	n := len(a)
	diffs := make([]float64, n)
	for i := range a {
		diffs[i] = a[i] - b[i]
	}

	meanDiff := Mean(diffs)
	se := SampleStdDev(diffs) / math.Sqrt(float64(n))
	df := float64(n - 1)

	if se == 0 {
		return &TTestResult{T: 0, DF: df, PValue: 1}, nil
	}

	t := meanDiff / se
	return &TTestResult{
		T:      t,
		DF:     df,
		PValue: twoTailedP(t, df),
	}, nil
}

// IndependentTTest performs Welch's two-sample t-test, which does not assume
// equal variances. A negative T means a's mean is below b's; PValueLowerTail
// is the one-sided p-value for that direction. Inputs must be finite.
//
// Returns ErrSampleSize with a nil result when either sample has fewer than
// two observations. Zero combined standard error yields
// {T: 0, PValue: 1, PValueLowerTail: 0.5}.
func IndependentTTest(a, b []float64) (*TTestResult, error) {
	if len(a) < minTTestSize || len(b) < minTTestSize {
		return nil, ErrSampleSize
	}

	n1 := float64(len(a))
	n2 := float64(len(b))

	s1 := SampleVariance(a) / n1
	s2 := SampleVariance(b) / n2
	wvar := s1 + s2

	if wvar == 0 {
		// Welch-Satterthwaite is 0/0 here; fall back to the pooled df
		return &TTestResult{T: 0, DF: n1 + n2 - 2, PValue: 1, PValueLowerTail: 0.5}, nil
	}

	t := (Mean(a) - Mean(b)) / math.Sqrt(wvar)
	df := wvar * wvar / (s1*s1/(n1-1) + s2*s2/(n2-1))

	return &TTestResult{
		T:               t,
		DF:              df,
		PValue:          twoTailedP(t, df),
		PValueLowerTail: TDistCDF(t, df),
	}, nil
}

// MannWhitneyU performs a Mann-Whitney U test on two groups
// Returns the p-value (approximate, using normal approximation)
// H0: The two groups come from the same distribution
func MannWhitneyU(groupA, groupB []float64) float64 {
	if len(groupA) == 0 || len(groupB) == 0 {
		return 1.0
	}

	n1 := len(groupA)
	n2 := len(groupB)

	type rankItem struct {
		value float64
		group int // 0 for A, 1 for B
	}

	combined := make([]rankItem, n1+n2)
	for i, v := range groupA {
		combined[i] = rankItem{v, 0}
	}
	for i, v := range groupB {
		combined[n1+i] = rankItem{v, 1}
	}

	sort.Slice(combined, func(i, j int) bool {
		return combined[i].value < combined[j].value
	})

	// Assign ranks, averaging over ties
	ranks := make([]float64, len(combined))
	for i := 0; i < len(combined); {
		j := i
		for j < len(combined) && combined[j].value == combined[i].value {
			j++
		}
		avgRank := float64(i+j+1) / 2.0
		for k := i; k < j; k++ {
			ranks[k] = avgRank
		}
		i = j
	}

	rankSumA := 0.0
	for i, item := range combined {
		if item.group == 0 {
			rankSumA += ranks[i]
		}
	}

	U1 := rankSumA - float64(n1*(n1+1))/2.0
	U2 := float64(n1*n2) - U1
	U := math.Min(U1, U2)

	meanU := float64(n1*n2) / 2.0
	stdU := math.Sqrt(float64(n1*n2*(n1+n2+1)) / 12.0)

	if stdU == 0 {
		return 1.0
	}

	z := (U - meanU) / stdU
	return clampProbability(2.0 * normalCDF(-math.Abs(z)))
}

// normalCDF approximates the standard normal cumulative distribution function
func normalCDF(z float64) float64 {
	return 0.5 * (1.0 + math.Erf(z/math.Sqrt2))
}

// Comparison summarizes how group B differs from group A
type Comparison struct {
	MeanDiff      float64      // mean(B) - mean(A)
	MedianDiffPct float64      // Percentage difference in medians
	Welch         *TTestResult // nil when either group has fewer than two values
	MannWhitneyP  float64
	HasOverlap    bool // Whether ranges overlap
	Significant   bool // Whether the Welch p-value is below alpha
}

// Compare performs statistical comparison between two groups
func Compare(groupA, groupB []float64, alpha float64) Comparison {
	statsA := Calculate(groupA)
	statsB := Calculate(groupB)

	medianDiff := 0.0
	if statsA.Median != 0 {
		medianDiff = ((statsB.Median - statsA.Median) / math.Abs(statsA.Median)) * 100
	}

	comp := Comparison{
		MeanDiff:      statsB.Mean - statsA.Mean,
		MedianDiffPct: medianDiff,
		MannWhitneyP:  MannWhitneyU(groupA, groupB),
		HasOverlap:    HasOverlap(statsA, statsB),
	}

	// Insufficient data leaves Welch nil
	if welch, err := IndependentTTest(groupB, groupA); err == nil {
		comp.Welch = welch
		comp.Significant = welch.PValue < alpha
	}

	return comp
}

// Significance returns the conventional star notation for a p-value
func Significance(p float64) string {
	switch {
	case p < 0.001:
		return "***"
	case p < 0.01:
		return "**"
	case p < 0.05:
		return "*"
	default:
		return "n.s."
	}
}

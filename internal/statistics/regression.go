package statistics

import "math"

// Two points always fit exactly and leave no residual degrees of freedom
const minRegressionSize = 3

// RegressionResult describes the least-squares fit y ≈ Slope·x + Intercept
type RegressionResult struct {
	Slope     float64
	Intercept float64
	RSquared  float64 // 0 when y is constant
	PValue    float64 // Two-tailed p-value for H0: slope = 0
	N         int
}

// LinearRegression fits y on x by ordinary least squares and tests the slope
// against zero with n-2 degrees of freedom. Inputs must be finite.
//
// Returns ErrMismatchedLengths, ErrSampleSize (n < 3) or
// ErrNoPredictorVariance (constant x) with a nil result.
//
// A fit with zero residual error has an undefined slope standard error and
// reports PValue 1.
func LinearRegression(x, y []float64) (*RegressionResult, error) {
	if len(x) != len(y) {
		return nil, ErrMismatchedLengths
	}
	if len(x) < minRegressionSize {
		return nil, ErrSampleSize
	}

	n := len(x)
	xMean := Mean(x)
	yMean := Mean(y)

	var sumXY, sumXX, sumYY float64
	for i := 0; i < n; i++ {
		xDiff := x[i] - xMean
		yDiff := y[i] - yMean
		sumXY += xDiff * yDiff
		sumXX += xDiff * xDiff
		sumYY += yDiff * yDiff
	}

	if sumXX == 0 {
		return nil, ErrNoPredictorVariance
	}

	slope := sumXY / sumXX
	intercept := yMean - slope*xMean

	rSquared := 0.0
	if sumYY != 0 {
		rSquared = math.Min(1, sumXY*sumXY/(sumXX*sumYY))
	}

	result := &RegressionResult{
		Slope:     slope,
		Intercept: intercept,
		RSquared:  rSquared,
		PValue:    1,
		N:         n,
	}

	// Standard error of the slope from the residuals
	sse := 0.0
	for i := 0; i < n; i++ {
		residual := y[i] - (slope*x[i] + intercept)
		sse += residual * residual
	}
	df := float64(n - 2)
	seSlope := math.Sqrt(sse / df / sumXX)

	if seSlope == 0 {
		return result, nil
	}

	result.PValue = twoTailedP(slope/seSlope, df)
	return result, nil
}

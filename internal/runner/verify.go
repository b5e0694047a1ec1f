package runner

import (
	"math"
	"strconv"

	"github.com/moguls753/suds-study/internal/statistics"
)

// Check is one reference value compared against the engine
type Check struct {
	Group     string
	Name      string
	Got       float64
	Want      float64
	Tolerance float64
	Err       error // set when the engine returned no result
}

// Passed reports whether Got is within Tolerance of Want
func (c Check) Passed() bool {
	return c.Err == nil && math.Abs(c.Got-c.Want) < c.Tolerance
}

type reference[T any] struct {
	name string
	want float64
	tol  float64
	got  func(*T) float64
}

// Verify runs the engine against published reference values
func Verify() []Check {
	sd := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	checks := []Check{
		{Group: "Descriptives", Name: "Mean", Got: statistics.Mean(sd), Want: 5, Tolerance: 1e-12},
		{Group: "Descriptives", Name: "Population SD", Got: statistics.StdDev(sd), Want: 2, Tolerance: 1e-6},
		{Group: "Descriptives", Name: "Sample SD", Got: statistics.SampleStdDev(sd), Want: 2.138089935, Tolerance: 1e-6},
	}

	welch, err := statistics.IndependentTTest([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8})
	checks = append(checks, resultChecks("Independent T-Test (Welch)", welch, err, []reference[statistics.TTestResult]{
		{"t", -1.3587, 1e-4, func(r *statistics.TTestResult) float64 { return r.T }},
		{"df", 4.7494, 1e-4, func(r *statistics.TTestResult) float64 { return r.DF }},
		{"p-value", 0.2352, 1e-3, func(r *statistics.TTestResult) float64 { return r.PValue }},
		{"lower p-value", 0.1176, 1e-3, func(r *statistics.TTestResult) float64 { return r.PValueLowerTail }},
	})...)

	paired, err := statistics.PairedTTest([]float64{1, 2, 3, 4, 5}, []float64{2, 4, 6, 8, 10})
	checks = append(checks, resultChecks("Paired T-Test", paired, err, []reference[statistics.TTestResult]{
		{"t", -4.2426, 1e-4, func(r *statistics.TTestResult) float64 { return r.T }},
		{"df", 4, 1e-4, func(r *statistics.TTestResult) float64 { return r.DF }},
		{"p-value", 0.01324, 1e-4, func(r *statistics.TTestResult) float64 { return r.PValue }},
	})...)

	reg, err := statistics.LinearRegression([]float64{1, 2, 3, 4, 5}, []float64{2.1, 3.9, 6.2, 7.8, 10.1})
	checks = append(checks, resultChecks("Linear Regression", reg, err, []reference[statistics.RegressionResult]{
		{"slope", 1.99, 1e-9, func(r *statistics.RegressionResult) float64 { return r.Slope }},
		{"intercept", 0.05, 1e-9, func(r *statistics.RegressionResult) float64 { return r.Intercept }},
		{"r²", 0.9973053, 1e-6, func(r *statistics.RegressionResult) float64 { return r.RSquared }},
		{"p-value", 5.9415e-5, 1e-8, func(r *statistics.RegressionResult) float64 { return r.PValue }},
	})...)

	for _, df := range []float64{1, 4.7494, 30} {
		checks = append(checks, Check{
			Group:     "t Distribution",
			Name:      "CDF(0) df=" + strconv.FormatFloat(df, 'g', -1, 64),
			Got:       statistics.TDistCDF(0, df),
			Want:      0.5,
			Tolerance: 1e-12,
		})
	}
	// df=1 is the Cauchy distribution
	checks = append(checks, Check{
		Group:     "t Distribution",
		Name:      "CDF(1) df=1",
		Got:       statistics.TDistCDF(1, 1),
		Want:      0.75,
		Tolerance: 1e-9,
	})

	return checks
}

func resultChecks[T any](group string, res *T, err error, refs []reference[T]) []Check {
	checks := make([]Check, 0, len(refs))
	for _, ref := range refs {
		c := Check{Group: group, Name: ref.name, Want: ref.want, Tolerance: ref.tol, Err: err}
		if res != nil {
			c.Got = ref.got(res)
		}
		checks = append(checks, c)
	}
	return checks
}

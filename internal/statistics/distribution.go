package statistics

// TDistCDF returns P(T <= t) for Student's t-distribution with df degrees of
// freedom. df may be fractional (Welch). For t >= 0 this is
// 1 - 0.5 * I_{df/(df+t²)}(df/2, 1/2); negative t uses the symmetry of the
// distribution.
func TDistCDF(t, df float64) float64 {
	if t < 0 {
		return 1 - TDistCDF(-t, df)
	}
	x := df / (df + t*t)
	return clampProbability(1 - 0.5*IncompleteBeta(x, df/2, 0.5))
}

// twoTailedP returns the probability of a |T| at least as large as |t|
func twoTailedP(t, df float64) float64 {
	if t < 0 {
		t = -t
	}
	return clampProbability(2 * (1 - TDistCDF(t, df)))
}

// clampProbability keeps rounding noise from pushing p outside [0, 1]
func clampProbability(p float64) float64 {
	switch {
	case p < 0:
		return 0
	case p > 1:
		return 1
	}
	return p
}

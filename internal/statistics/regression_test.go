package statistics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinearRegression(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5}
	y := []float64{2.1, 3.9, 6.2, 7.8, 10.1}

	r, err := LinearRegression(x, y)
	require.NoError(t, err)

	assert.InDelta(t, 1.99, r.Slope, 1e-12)
	assert.InDelta(t, 0.05, r.Intercept, 1e-12)
	assert.InDelta(t, 0.997305328900977, r.RSquared, 1e-12)
	assert.InDelta(t, 5.9415391117534355e-05, r.PValue, 1e-9)
	assert.Equal(t, 5, r.N)
}

func TestLinearRegressionConditionCode(t *testing.T) {
	// ΔSUDS regressed on a 0/1 condition code: slope is the group mean difference
	x := []float64{0, 0, 0, 1, 1, 1}
	y := []float64{-10, -12, -8, -20, -18, -25}

	r, err := LinearRegression(x, y)
	require.NoError(t, err)

	assert.InDelta(t, -11.0, r.Slope, 1e-12)
	assert.InDelta(t, -10.0, r.Intercept, 1e-12)
	assert.InDelta(t, 0.8422273781902552, r.RSquared, 1e-12)
	assert.InDelta(t, 0.009874238829377324, r.PValue, 1e-9)
}

func TestLinearRegressionInsufficientData(t *testing.T) {
	tests := []struct {
		name string
		x, y []float64
		want error
	}{
		{"two points", []float64{1, 2}, []float64{3, 5}, ErrSampleSize},
		{"mismatched", []float64{1, 2, 3}, []float64{1, 2}, ErrMismatchedLengths},
		{"constant x", []float64{4, 4, 4, 4}, []float64{1, 2, 3, 4}, ErrNoPredictorVariance},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := LinearRegression(tt.x, tt.y)
			assert.Nil(t, r)
			assert.ErrorIs(t, err, tt.want)
			assert.ErrorIs(t, err, ErrInsufficientData)
		})
	}
}

func TestLinearRegressionConstantResponse(t *testing.T) {
	r, err := LinearRegression([]float64{1, 2, 3, 4}, []float64{6, 6, 6, 6})
	require.NoError(t, err)

	assert.Equal(t, 0.0, r.Slope)
	assert.Equal(t, 6.0, r.Intercept)
	assert.Equal(t, 0.0, r.RSquared)
	assert.Equal(t, 1.0, r.PValue)
}

// A perfect fit has zero slope standard error and is reported with
// PValue 1, even though the slope is clearly non-zero.
func TestLinearRegressionPerfectFitReportsPValueOne(t *testing.T) {
	r, err := LinearRegression([]float64{1, 2, 3}, []float64{2, 4, 6})
	require.NoError(t, err)

	assert.Equal(t, 2.0, r.Slope)
	assert.Equal(t, 0.0, r.Intercept)
	assert.Equal(t, 1.0, r.RSquared)
	assert.Equal(t, 1.0, r.PValue)
}

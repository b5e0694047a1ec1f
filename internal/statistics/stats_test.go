package statistics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{"empty", nil, 0},
		{"single", []float64{7}, 7},
		{"textbook", []float64{2, 4, 4, 4, 5, 5, 7, 9}, 5},
		{"negative", []float64{-3, -1, 1}, -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mean(tt.values))
		})
	}
}

func TestStdDevIsPopulation(t *testing.T) {
	data := []float64{2, 4, 4, 4, 5, 5, 7, 9}

	assert.InDelta(t, 2.0, StdDev(data), 1e-12)
	assert.InDelta(t, 4.0, Variance(data), 1e-12)

	// Bessel-corrected counterparts: sqrt(32/7)
	assert.InDelta(t, 2.138089935299395, SampleStdDev(data), 1e-12)
	assert.InDelta(t, 32.0/7.0, SampleVariance(data), 1e-12)
}

func TestStdDevEdgeCases(t *testing.T) {
	assert.Equal(t, 0.0, StdDev(nil))
	assert.Equal(t, 0.0, StdDev([]float64{42}))
	assert.Equal(t, 0.0, SampleStdDev([]float64{42}))
	assert.Equal(t, 0.0, StdDev([]float64{3, 3, 3}))
}

func TestMedian(t *testing.T) {
	assert.Equal(t, 0.0, Median(nil))
	assert.Equal(t, 3.0, Median([]float64{5, 1, 3}))
	assert.Equal(t, 2.5, Median([]float64{4, 1, 3, 2}))

	// Input order is preserved
	values := []float64{3, 1, 2}
	Median(values)
	assert.Equal(t, []float64{3, 1, 2}, values)
}

func TestCalculate(t *testing.T) {
	s := Calculate([]float64{2, 4, 4, 4, 5, 5, 7, 9})

	assert.Equal(t, 8, s.N)
	assert.Equal(t, 5.0, s.Mean)
	assert.Equal(t, 4.5, s.Median)
	assert.InDelta(t, 2.0, s.StdDev, 1e-12)
	assert.Equal(t, 2.0, s.Min)
	assert.Equal(t, 9.0, s.Max)
	assert.InDelta(t, 40.0, s.CV, 1e-10)
	assert.Len(t, s.Values, 8)

	assert.Equal(t, Stats{}, Calculate(nil))
}

func TestHasOverlap(t *testing.T) {
	a := Calculate([]float64{1, 2, 3})
	b := Calculate([]float64{3, 4, 5})
	c := Calculate([]float64{10, 11})

	assert.True(t, HasOverlap(a, b))
	assert.False(t, HasOverlap(a, c))
	assert.False(t, HasOverlap(a, Stats{}))
}

func TestPercentiles(t *testing.T) {
	latencies := make([]time.Duration, 0, 100)
	for i := 100; i >= 1; i-- {
		latencies = append(latencies, time.Duration(i)*time.Millisecond)
	}

	p50, p95, p99 := Percentiles(latencies)
	assert.Equal(t, 51*time.Millisecond, p50)
	assert.Equal(t, 96*time.Millisecond, p95)
	assert.Equal(t, 100*time.Millisecond, p99)

	// Caller's slice stays unsorted
	assert.Equal(t, 100*time.Millisecond, latencies[0])

	p50, p95, p99 = Percentiles(nil)
	assert.Zero(t, p50+p95+p99)
}

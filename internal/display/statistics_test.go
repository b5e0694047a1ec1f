package display

import (
	"bytes"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/oklog/ulid/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moguls753/suds-study/internal/statistics"
	"github.com/moguls753/suds-study/internal/study"
)

func report(t *testing.T) *study.Report {
	t.Helper()

	between, err := statistics.IndependentTTest([]float64{-12, -10, -14}, []float64{-2, -4, -3})
	require.NoError(t, err)
	reg, err := statistics.LinearRegression([]float64{0, 0, 0, 1, 1, 1}, []float64{-10, -12, -8, -20, -18, -25})
	require.NoError(t, err)

	return &study.Report{
		ID:               ulid.Make(),
		GeneratedAt:      time.Date(2026, 1, 10, 9, 0, 0, 0, time.UTC),
		Alpha:            0.05,
		ParticipantCount: 6,
		TotalTrials:      12,
		Control: study.GroupSummary{
			TrialCount: 6, RatedTrials: 6, MeanDeltaSUDS: -3,
			DeltaSUDS: statistics.Calculate([]float64{-1, -3, -4, -4, -2, -4}),
		},
		Experiment: study.GroupSummary{TrialCount: 6},
		Between: study.BetweenTest{
			Result: between, N1: 3, N2: 3,
			Comparison: statistics.Compare([]float64{-2, -4, -3}, []float64{-12, -10, -14}, 0.05),
		},
		Within: map[study.Condition]study.WithinTest{
			study.Control:    {Err: statistics.ErrSampleSize, N: 1},
			study.Experiment: {Err: statistics.ErrMismatchedLengths},
		},
		Regression: study.RegressionTest{Result: reg, N: 6},
		Latency:    study.LatencySummary{N: 2, MeanSec: 2, P50: 1500 * time.Millisecond, P95: 2500 * time.Millisecond, P99: 2500 * time.Millisecond},
	}
}

func TestReport(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, report(t))
	out := buf.String()

	assert.Contains(t, out, "6 participants, 12 trials, alpha=0.05")
	assert.Contains(t, out, "2026-01-10T09:00:00Z")
	assert.Contains(t, out, "CONTROL")
	assert.Contains(t, out, "-3.00")
	assert.Contains(t, out, "3/3")
	assert.Contains(t, out, "-11.000")
	assert.Contains(t, out, "MW p")
	assert.Contains(t, out, "│ 0.0495   │ No      │")
	assert.Contains(t, out, "Mean difference (E - C): -9.00")
	assert.Contains(t, out, "**")
	assert.Contains(t, out, "1.5s")
	assert.Equal(t, 2, strings.Count(out, insufficient))
}

func TestReportTablesAligned(t *testing.T) {
	var buf bytes.Buffer
	Report(&buf, report(t))

	// Every line of one table has the same width
	width := 0
	for _, line := range strings.Split(buf.String(), "\n") {
		if !strings.HasPrefix(line, "┌") && !strings.HasPrefix(line, "│") &&
			!strings.HasPrefix(line, "├") && !strings.HasPrefix(line, "└") {
			width = 0
			continue
		}
		n := utf8.RuneCountInString(line)
		if width == 0 {
			width = n
		}
		assert.Equal(t, width, n, line)
	}
}

func TestLatencyEmpty(t *testing.T) {
	var buf bytes.Buffer
	latencyTable(&buf, study.LatencySummary{})
	assert.Equal(t, "No recording latencies logged\n", buf.String())
}

func TestReason(t *testing.T) {
	assert.Equal(t, insufficient, reason(nil))
	assert.Equal(t, insufficient, reason(statistics.ErrNoPredictorVariance))
	assert.Equal(t, assert.AnError.Error(), reason(assert.AnError))
}

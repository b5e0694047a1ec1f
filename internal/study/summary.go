package study

import (
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid/v2"

	"github.com/moguls753/suds-study/internal/statistics"
)

// GroupSummary holds trial-level descriptives for one condition
type GroupSummary struct {
	TrialCount        int
	RatedTrials       int // trials with both SUDS ratings
	MeanDeltaSUDS     float64
	MeanRerecordCount float64
	DeltaSUDS         statistics.Stats
}

// BetweenTest is the Welch test on per-participant mean ΔSUDS,
// experiment (N1) against control (N2).
type BetweenTest struct {
	Result *statistics.TTestResult // nil when there was not enough data
	Err    error
	N1     int
	N2     int

	// Mann-Whitney U and range overlap of the same per-participant means,
	// control as group A
	Comparison statistics.Comparison
}

// WithinTest is the paired test of mean SUDS-post against mean SUDS-pre per
// participant for one trial condition.
type WithinTest struct {
	Result   *statistics.TTestResult
	Err      error
	N        int
	MeanPre  float64
	MeanPost float64
}

// RegressionTest is ΔSUDS regressed on the condition code over all rated trials
type RegressionTest struct {
	Result *statistics.RegressionResult
	Err    error
	N      int
}

// LatencySummary describes the prompt-to-recording latency
type LatencySummary struct {
	N       int
	MeanSec float64
	P50     time.Duration
	P95     time.Duration
	P99     time.Duration
}

// Report is the dashboard view of a study dataset
type Report struct {
	ID          ulid.ULID
	GeneratedAt time.Time
	Alpha       float64

	ParticipantCount int
	TotalTrials      int

	Control    GroupSummary
	Experiment GroupSummary

	Between    BetweenTest
	Regression RegressionTest
	Within     map[Condition]WithinTest

	Latency LatencySummary
}

// Summarize computes the dashboard report over completed participants.
// Groups with too few observations yield tests with a nil Result and an Err
// wrapping statistics.ErrInsufficientData.
func Summarize(ds Dataset, alpha float64) *Report {
	report := &Report{
		ID:          ulid.Make(),
		GeneratedAt: time.Now().UTC(),
		Alpha:       alpha,
		Within:      make(map[Condition]WithinTest, 2),
	}

	completed := make(map[uuid.UUID]Participant)
	for _, p := range ds.Participants {
		if p.Completed {
			completed[p.ID] = p
		}
	}
	report.ParticipantCount = len(completed)

	var controlTrials, experimentTrials []Trial
	for _, t := range ds.Trials {
		if _, ok := completed[t.ParticipantID]; !ok {
			continue
		}
		switch t.Condition {
		case Control:
			controlTrials = append(controlTrials, t)
		case Experiment:
			experimentTrials = append(experimentTrials, t)
		}
	}
	report.TotalTrials = len(controlTrials) + len(experimentTrials)
	report.Control = summarizeGroup(controlTrials)
	report.Experiment = summarizeGroup(experimentTrials)

	report.Between = betweenSubjects(ds, completed, alpha)
	report.Regression = conditionRegression(controlTrials, experimentTrials)
	for _, c := range []Condition{Control, Experiment} {
		report.Within[c] = withinSubjects(ds, completed, c)
	}

	// Latency covers every logged recording, completed or not
	report.Latency = summarizeLatency(RecordingLatencies(ds.Events))

	return report
}

func summarizeGroup(trials []Trial) GroupSummary {
	deltas := deltaSUDS(trials)
	rerecords := make([]float64, len(trials))
	for i, t := range trials {
		rerecords[i] = float64(t.RerecordCount)
	}

	return GroupSummary{
		TrialCount:        len(trials),
		RatedTrials:       len(deltas),
		MeanDeltaSUDS:     statistics.Mean(deltas),
		MeanRerecordCount: statistics.Mean(rerecords),
		DeltaSUDS:         statistics.Calculate(deltas),
	}
}

func deltaSUDS(trials []Trial) []float64 {
	var deltas []float64
	for _, t := range trials {
		if d, ok := t.DeltaSUDS(); ok {
			deltas = append(deltas, d)
		}
	}
	return deltas
}

// betweenSubjects reduces each participant to one mean ΔSUDS and compares
// the assigned arms
func betweenSubjects(ds Dataset, completed map[uuid.UUID]Participant, alpha float64) BetweenTest {
	var control, experiment []float64
	for _, p := range ds.Participants {
		if _, ok := completed[p.ID]; !ok {
			continue
		}
		deltas := deltaSUDS(ds.TrialsFor(p.ID))
		if len(deltas) == 0 {
			continue
		}

		participantMean := statistics.Mean(deltas)
		if p.AssignedCondition == Control {
			control = append(control, participantMean)
		} else {
			experiment = append(experiment, participantMean)
		}
	}

	result, err := statistics.IndependentTTest(experiment, control)
	return BetweenTest{
		Result:     result,
		Err:        err,
		N1:         len(experiment),
		N2:         len(control),
		Comparison: statistics.Compare(control, experiment, alpha),
	}
}

func conditionRegression(controlTrials, experimentTrials []Trial) RegressionTest {
	var codes, deltas []float64
	for _, t := range append(append([]Trial{}, controlTrials...), experimentTrials...) {
		if d, ok := t.DeltaSUDS(); ok {
			codes = append(codes, t.Condition.Code())
			deltas = append(deltas, d)
		}
	}

	result, err := statistics.LinearRegression(codes, deltas)
	return RegressionTest{Result: result, Err: err, N: len(deltas)}
}

// withinSubjects pairs each participant's mean post rating with their mean
// pre rating over the rated trials of one condition
func withinSubjects(ds Dataset, completed map[uuid.UUID]Participant, c Condition) WithinTest {
	var pre, post []float64
	for _, p := range ds.Participants {
		if _, ok := completed[p.ID]; !ok {
			continue
		}

		var pPre, pPost []float64
		for _, t := range ds.TrialsFor(p.ID) {
			if t.Condition != c || t.SudsPre == nil || t.SudsPost == nil {
				continue
			}
			pPre = append(pPre, float64(*t.SudsPre))
			pPost = append(pPost, float64(*t.SudsPost))
		}
		if len(pPre) == 0 {
			continue
		}
		pre = append(pre, statistics.Mean(pPre))
		post = append(post, statistics.Mean(pPost))
	}

	result, err := statistics.PairedTTest(post, pre)
	return WithinTest{
		Result:   result,
		Err:      err,
		N:        len(pre),
		MeanPre:  statistics.Mean(pre),
		MeanPost: statistics.Mean(post),
	}
}

func summarizeLatency(latencies []time.Duration) LatencySummary {
	seconds := make([]float64, len(latencies))
	for i, l := range latencies {
		seconds[i] = l.Seconds()
	}
	p50, p95, p99 := statistics.Percentiles(latencies)

	return LatencySummary{
		N:       len(latencies),
		MeanSec: statistics.Mean(seconds),
		P50:     p50,
		P95:     p95,
		P99:     p99,
	}
}

// Unavailable names the tests that produced no result
func (r *Report) Unavailable() []string {
	var names []string
	if r.Between.Result == nil {
		names = append(names, "between")
	}
	for _, c := range []Condition{Control, Experiment} {
		if w, ok := r.Within[c]; ok && w.Result == nil {
			names = append(names, "within "+string(c))
		}
	}
	if r.Regression.Result == nil {
		names = append(names, "regression")
	}
	return names
}

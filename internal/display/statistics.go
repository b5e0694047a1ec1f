package display

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/moguls753/suds-study/internal/statistics"
	"github.com/moguls753/suds-study/internal/study"
)

const insufficient = "insufficient data"

// Report prints the dashboard tables for one study report
func Report(w io.Writer, r *study.Report) {
	title(w, fmt.Sprintf("SUDS Study - Statistical Summary (%d participants, %d trials, alpha=%.3g)",
		r.ParticipantCount, r.TotalTrials, r.Alpha))
	fmt.Fprintf(w, "Report %s generated %s\n", r.ID, r.GeneratedAt.Format(time.RFC3339))

	fmt.Fprintln(w, "\nΔSUDS per Trial (post - pre)")
	groupTable(w, r)

	fmt.Fprintln(w, "\nBetween Subjects (Welch t-test, experiment vs control)")
	betweenTable(w, r.Between, r.Alpha)
	if r.Between.Result != nil {
		fmt.Fprintf(w, "Mean difference (E - C): %+.2f, median difference: %+.1f%%\n",
			r.Between.Comparison.MeanDiff, r.Between.Comparison.MedianDiffPct)
	}

	fmt.Fprintln(w, "\nWithin Subjects (paired t-test, post vs pre)")
	withinTable(w, r.Within, r.Alpha)

	fmt.Fprintln(w, "\nRegression (ΔSUDS ~ condition, 0 = control, 1 = experiment)")
	regressionTable(w, r.Regression, r.Alpha)

	fmt.Fprintln(w, "\nRecording Latency (prompt shown to recording started)")
	latencyTable(w, r.Latency)
}

func groupTable(w io.Writer, r *study.Report) {
	t := newTable(w, 11, 6, 5, 8, 8, 8, 8, 8, 9)
	t.header("Condition", "Trials", "Rated", "Mean", "Median", "StdDev", "Min", "Max", "Rerecords")

	groups := []struct {
		name    string
		summary study.GroupSummary
	}{
		{"CONTROL", r.Control},
		{"EXPERIMENT", r.Experiment},
	}
	for _, g := range groups {
		s := g.summary
		if s.RatedTrials == 0 {
			t.row(g.name, fmt.Sprint(s.TrialCount), "0", "-", "-", "-", "-", "-", fmt.Sprintf("%.2f", s.MeanRerecordCount))
			continue
		}
		t.row(g.name,
			fmt.Sprint(s.TrialCount),
			fmt.Sprint(s.RatedTrials),
			fmt.Sprintf("%+.2f", s.MeanDeltaSUDS),
			fmt.Sprintf("%+.2f", s.DeltaSUDS.Median),
			fmt.Sprintf("%.2f", s.DeltaSUDS.StdDev),
			fmt.Sprintf("%+.0f", s.DeltaSUDS.Min),
			fmt.Sprintf("%+.0f", s.DeltaSUDS.Max),
			fmt.Sprintf("%.2f", s.MeanRerecordCount),
		)
	}
	t.bottom()
}

func betweenTable(w io.Writer, b study.BetweenTest, alpha float64) {
	t := newTable(w, 9, 9, 8, 8, 8, 8, 7, 5, 17)
	t.header("N (E/C)", "t", "df", "p", "p (E<C)", "MW p", "Overlap", "Stars", "Significant?")

	n := fmt.Sprintf("%d/%d", b.N1, b.N2)
	if b.Result == nil {
		t.row(unavailable(9, b.Err, n)...)
	} else {
		res := b.Result
		t.row(n,
			fmt.Sprintf("%.3f", res.T),
			fmt.Sprintf("%.2f", res.DF),
			formatP(res.PValue),
			formatP(res.PValueLowerTail),
			formatP(b.Comparison.MannWhitneyP),
			yesNo(b.Comparison.HasOverlap),
			statistics.Significance(res.PValue),
			yesNo(res.PValue < alpha),
		)
	}
	t.bottom()
}

func withinTable(w io.Writer, within map[study.Condition]study.WithinTest, alpha float64) {
	t := newTable(w, 11, 4, 8, 8, 8, 6, 8, 5, 17)
	t.header("Condition", "N", "Pre", "Post", "t", "df", "p", "Stars", "Significant?")

	for _, c := range []study.Condition{study.Control, study.Experiment} {
		test, ok := within[c]
		if !ok {
			continue
		}
		name := strings.ToUpper(string(c))
		if test.Result == nil {
			t.row(unavailable(9, test.Err, name, fmt.Sprint(test.N))...)
			continue
		}
		res := test.Result
		t.row(name,
			fmt.Sprint(test.N),
			fmt.Sprintf("%.2f", test.MeanPre),
			fmt.Sprintf("%.2f", test.MeanPost),
			fmt.Sprintf("%.3f", res.T),
			fmt.Sprintf("%.0f", res.DF),
			formatP(res.PValue),
			statistics.Significance(res.PValue),
			yesNo(res.PValue < alpha),
		)
	}
	t.bottom()
}

func regressionTable(w io.Writer, reg study.RegressionTest, alpha float64) {
	t := newTable(w, 5, 9, 9, 8, 8, 5, 17)
	t.header("N", "Slope", "Intercept", "R²", "p", "Stars", "Significant?")

	if reg.Result == nil {
		t.row(unavailable(7, reg.Err, fmt.Sprint(reg.N))...)
	} else {
		res := reg.Result
		t.row(fmt.Sprint(res.N),
			fmt.Sprintf("%+.3f", res.Slope),
			fmt.Sprintf("%+.3f", res.Intercept),
			fmt.Sprintf("%.4f", res.RSquared),
			formatP(res.PValue),
			statistics.Significance(res.PValue),
			yesNo(res.PValue < alpha),
		)
	}
	t.bottom()
}

func latencyTable(w io.Writer, l study.LatencySummary) {
	if l.N == 0 {
		fmt.Fprintln(w, "No recording latencies logged")
		return
	}

	t := newTable(w, 6, 9, 10, 10, 10)
	t.header("N", "Mean (s)", "p50", "p95", "p99")
	t.row(fmt.Sprint(l.N),
		fmt.Sprintf("%.2f", l.MeanSec),
		l.P50.Round(time.Millisecond).String(),
		l.P95.Round(time.Millisecond).String(),
		l.P99.Round(time.Millisecond).String(),
	)
	t.bottom()
}

// unavailable fills a row for a test without a result: the leading cells,
// dashes, then the reason in the last column
func unavailable(columns int, err error, leading ...string) []string {
	cells := append([]string{}, leading...)
	for len(cells) < columns-1 {
		cells = append(cells, "-")
	}
	return append(cells, reason(err))
}

// reason renders why a test produced no result
func reason(err error) string {
	if err == nil || errors.Is(err, statistics.ErrInsufficientData) {
		return insufficient
	}
	return err.Error()
}

func formatP(p float64) string {
	if p < 0.0001 {
		return "<0.0001"
	}
	return fmt.Sprintf("%.4f", p)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/moguls753/suds-study/internal/statistics"
	"github.com/moguls753/suds-study/internal/study"
)

// SummaryHeader is the header of the long-format summary CSV
var SummaryHeader = []string{"ReportID", "Section", "Group", "Metric", "Value"}

// SummaryToCSV writes the report summary to outputPath for plotting
func SummaryToCSV(r *study.Report, outputPath string) error {
	return toFile(outputPath, func(w io.Writer) error { return WriteSummaryCSV(w, r) })
}

// TrialsToCSV writes the per-trial export of ds to outputPath
func TrialsToCSV(ds study.Dataset, outputPath string) error {
	return toFile(outputPath, func(w io.Writer) error { return study.WriteTrialsCSV(w, ds) })
}

// WriteSummaryCSV writes one row per reported value. Tests without a result
// get a single "status" row reading "insufficient data".
func WriteSummaryCSV(w io.Writer, r *study.Report) error {
	writer := csv.NewWriter(w)
	id := r.ID.String()

	if err := writer.Write(SummaryHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	var rows [][]string
	add := func(section, group, metric, value string) {
		rows = append(rows, []string{id, section, group, metric, value})
	}

	add("overview", "", "participants", strconv.Itoa(r.ParticipantCount))
	add("overview", "", "trials", strconv.Itoa(r.TotalTrials))
	add("overview", "", "alpha", formatFloat(r.Alpha))

	for _, g := range []struct {
		name    string
		summary study.GroupSummary
	}{
		{string(study.Control), r.Control},
		{string(study.Experiment), r.Experiment},
	} {
		s := g.summary
		add("delta_suds", g.name, "trials", strconv.Itoa(s.TrialCount))
		add("delta_suds", g.name, "rated_trials", strconv.Itoa(s.RatedTrials))
		add("delta_suds", g.name, "mean", fmt.Sprintf("%.2f", s.MeanDeltaSUDS))
		add("delta_suds", g.name, "median", fmt.Sprintf("%.2f", s.DeltaSUDS.Median))
		add("delta_suds", g.name, "stddev", fmt.Sprintf("%.2f", s.DeltaSUDS.StdDev))
		add("delta_suds", g.name, "min", fmt.Sprintf("%.2f", s.DeltaSUDS.Min))
		add("delta_suds", g.name, "max", fmt.Sprintf("%.2f", s.DeltaSUDS.Max))
		add("delta_suds", g.name, "mean_rerecords", fmt.Sprintf("%.2f", s.MeanRerecordCount))
	}

	add("between", "", "n_experiment", strconv.Itoa(r.Between.N1))
	add("between", "", "n_control", strconv.Itoa(r.Between.N2))
	if r.Between.N1 > 0 && r.Between.N2 > 0 {
		comparison := r.Between.Comparison
		add("between", "", "mean_diff", formatFloat(comparison.MeanDiff))
		add("between", "", "median_diff_pct", formatFloat(comparison.MedianDiffPct))
		add("between", "", "mann_whitney_p", formatFloat(comparison.MannWhitneyP))
		add("between", "", "ranges_overlap", strconv.FormatBool(comparison.HasOverlap))
	}
	if res := r.Between.Result; res != nil {
		add("between", "", "t", formatFloat(res.T))
		add("between", "", "df", formatFloat(res.DF))
		add("between", "", "p_value", formatFloat(res.PValue))
		add("between", "", "p_value_lower_tail", formatFloat(res.PValueLowerTail))
		add("between", "", "significance", statistics.Significance(res.PValue))
	} else {
		add("between", "", "status", "insufficient data")
	}

	for _, c := range []study.Condition{study.Control, study.Experiment} {
		test, ok := r.Within[c]
		if !ok {
			continue
		}
		group := string(c)
		add("within", group, "n", strconv.Itoa(test.N))
		if res := test.Result; res != nil {
			add("within", group, "mean_pre", fmt.Sprintf("%.2f", test.MeanPre))
			add("within", group, "mean_post", fmt.Sprintf("%.2f", test.MeanPost))
			add("within", group, "t", formatFloat(res.T))
			add("within", group, "df", formatFloat(res.DF))
			add("within", group, "p_value", formatFloat(res.PValue))
			add("within", group, "significance", statistics.Significance(res.PValue))
		} else {
			add("within", group, "status", "insufficient data")
		}
	}

	add("regression", "", "n", strconv.Itoa(r.Regression.N))
	if res := r.Regression.Result; res != nil {
		add("regression", "", "slope", formatFloat(res.Slope))
		add("regression", "", "intercept", formatFloat(res.Intercept))
		add("regression", "", "r_squared", formatFloat(res.RSquared))
		add("regression", "", "p_value", formatFloat(res.PValue))
		add("regression", "", "significance", statistics.Significance(res.PValue))
	} else {
		add("regression", "", "status", "insufficient data")
	}

	add("latency", "", "n", strconv.Itoa(r.Latency.N))
	if r.Latency.N > 0 {
		add("latency", "", "mean_sec", fmt.Sprintf("%.3f", r.Latency.MeanSec))
		add("latency", "", "p50_ms", strconv.FormatInt(r.Latency.P50.Milliseconds(), 10))
		add("latency", "", "p95_ms", strconv.FormatInt(r.Latency.P95.Milliseconds(), 10))
		add("latency", "", "p99_ms", strconv.FormatInt(r.Latency.P99.Milliseconds(), 10))
	}

	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func toFile(outputPath string, write func(io.Writer) error) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create CSV file: %w", err)
	}

	if err := write(file); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

// Full precision so p-values survive the round trip
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

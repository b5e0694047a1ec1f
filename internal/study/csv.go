package study

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// TrialColumns is the header of the per-trial export, one row per trial
var TrialColumns = []string{
	"participant_code",
	"participant_age",
	"participant_gender",
	"participant_education",
	"participant_tech_adaptation",
	"participant_speaking_anxiety",
	"assigned_condition",
	"trial_index",
	"condition",
	"prompt_id",
	"prompt_text",
	"suds_pre",
	"suds_post",
	"delta_suds",
	"recording_duration_sec",
	"rerecord_count",
	"review_time_sec",
	"audio_played",
	"text_only_used",
	"tabs_visited",
	"felt_in_control",
	"helpful",
	"word_count",
	"filler_count",
	"wpm",
	"started_at",
	"finished_at",
	"participant_completed",
}

var requiredColumns = []string{"participant_code", "assigned_condition", "trial_index", "condition"}

// Export timestamps mirror JavaScript's toISOString
const isoTimestamp = "2006-01-02T15:04:05.000Z07:00"

// Namespace for IDs derived from participant codes
var idNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("suds-study"))

// ErrMissingColumn is returned when the CSV header lacks a required column
var ErrMissingColumn = errors.New("missing column")

// ParticipantID derives a stable ID from a participant code
func ParticipantID(code string) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte("participant:"+code))
}

// TrialID derives a stable ID from a participant code and trial index
func TrialID(code string, index int) uuid.UUID {
	return uuid.NewSHA1(idNamespace, []byte(fmt.Sprintf("trial:%s:%d", code, index)))
}

// Optional trailing column; older exports lack it
const completedColumn = "participant_completed"

// ReadTrialsCSV parses a per-trial export. IDs are derived from participant
// codes. Without a participant_completed column every participant is treated
// as completed and CompletionKnown stays false.
func ReadTrialsCSV(r io.Reader) (Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return Dataset{}, fmt.Errorf("read CSV header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(name)] = i
	}
	for _, name := range requiredColumns {
		if _, ok := columns[name]; !ok {
			return Dataset{}, fmt.Errorf("%w: %s", ErrMissingColumn, name)
		}
	}

	var ds Dataset
	_, ds.CompletionKnown = columns[completedColumn]
	seen := make(map[string]int) // participant code -> index in ds.Participants

	for line := 2; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return Dataset{}, fmt.Errorf("read CSV line %d: %w", line, err)
		}

		row := csvRow{record: record, columns: columns}
		code := row.get("participant_code")
		if code == "" {
			return Dataset{}, fmt.Errorf("line %d: empty participant_code", line)
		}

		if _, ok := seen[code]; !ok {
			p, err := row.participant(code)
			if err != nil {
				return Dataset{}, fmt.Errorf("line %d: %w", line, err)
			}
			seen[code] = len(ds.Participants)
			ds.Participants = append(ds.Participants, p)
		}

		trial, err := row.trial(code)
		if err != nil {
			return Dataset{}, fmt.Errorf("line %d: %w", line, err)
		}
		ds.Trials = append(ds.Trials, trial)
	}

	return ds, nil
}

// WriteTrialsCSV writes ds in the per-trial export format, ordered as stored
func WriteTrialsCSV(w io.Writer, ds Dataset) error {
	writer := csv.NewWriter(w)

	if err := writer.Write(TrialColumns); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	participants := make(map[uuid.UUID]Participant, len(ds.Participants))
	for _, p := range ds.Participants {
		participants[p.ID] = p
	}

	for _, t := range ds.Trials {
		p := participants[t.ParticipantID]

		delta := ""
		if d, ok := t.DeltaSUDS(); ok {
			delta = strconv.FormatFloat(d, 'f', -1, 64)
		}

		tabs := t.TabsVisited
		if tabs == nil {
			tabs = []string{}
		}
		tabsJSON, err := json.Marshal(tabs)
		if err != nil {
			return fmt.Errorf("encode tabs_visited: %w", err)
		}

		row := []string{
			p.Code,
			formatInt(p.Age),
			p.Gender,
			p.Education,
			formatInt(p.TechAdaptation),
			formatInt(p.SpeakingAnxiety),
			string(p.AssignedCondition),
			strconv.Itoa(t.Index),
			string(t.Condition),
			t.PromptID,
			t.PromptText,
			formatInt(t.SudsPre),
			formatInt(t.SudsPost),
			delta,
			formatFloat(t.RecordingDurationSec, 2),
			strconv.Itoa(t.RerecordCount),
			formatFloat(t.ReviewTimeSec, 2),
			strconv.FormatBool(t.AudioPlayed),
			strconv.FormatBool(t.TextOnlyUsed),
			string(tabsJSON),
			formatInt(t.FeltInControl),
			formatInt(t.Helpful),
			formatInt(t.WordCount),
			formatInt(t.FillerCount),
			formatFloat(t.WPM, 1),
			formatTime(t.StartedAt),
			formatTime(t.FinishedAt),
			strconv.FormatBool(p.Completed),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

type csvRow struct {
	record  []string
	columns map[string]int
}

func (r csvRow) get(name string) string {
	i, ok := r.columns[name]
	if !ok || i >= len(r.record) {
		return ""
	}
	return strings.TrimSpace(r.record[i])
}

func (r csvRow) participant(code string) (Participant, error) {
	p := Participant{
		ID:                ParticipantID(code),
		Code:              code,
		Gender:            r.get("participant_gender"),
		Education:         r.get("participant_education"),
		AssignedCondition: Condition(r.get("assigned_condition")),
		Completed:         true,
	}
	if !p.AssignedCondition.Valid() {
		return Participant{}, fmt.Errorf("invalid assigned_condition %q", p.AssignedCondition)
	}

	var err error
	if v := r.get(completedColumn); v != "" {
		if p.Completed, err = strconv.ParseBool(v); err != nil {
			return Participant{}, fmt.Errorf("parse %s: %w", completedColumn, err)
		}
	}
	if p.Age, err = r.optionalInt("participant_age"); err != nil {
		return Participant{}, err
	}
	if p.TechAdaptation, err = r.optionalInt("participant_tech_adaptation"); err != nil {
		return Participant{}, err
	}
	if p.SpeakingAnxiety, err = r.optionalInt("participant_speaking_anxiety"); err != nil {
		return Participant{}, err
	}
	return p, nil
}

func (r csvRow) trial(code string) (Trial, error) {
	index, err := strconv.Atoi(r.get("trial_index"))
	if err != nil {
		return Trial{}, fmt.Errorf("parse trial_index: %w", err)
	}

	t := Trial{
		ID:            TrialID(code, index),
		ParticipantID: ParticipantID(code),
		Index:         index,
		Condition:     Condition(r.get("condition")),
		PromptID:      r.get("prompt_id"),
		PromptText:    r.get("prompt_text"),
		TabsVisited:   parseTabs(r.get("tabs_visited")),
	}
	if !t.Condition.Valid() {
		return Trial{}, fmt.Errorf("invalid condition %q", t.Condition)
	}

	ints := []struct {
		column string
		dst    **int
	}{
		{"suds_pre", &t.SudsPre},
		{"suds_post", &t.SudsPost},
		{"felt_in_control", &t.FeltInControl},
		{"helpful", &t.Helpful},
		{"word_count", &t.WordCount},
		{"filler_count", &t.FillerCount},
	}
	for _, f := range ints {
		if *f.dst, err = r.optionalInt(f.column); err != nil {
			return Trial{}, err
		}
	}

	floats := []struct {
		column string
		dst    **float64
	}{
		{"recording_duration_sec", &t.RecordingDurationSec},
		{"review_time_sec", &t.ReviewTimeSec},
		{"wpm", &t.WPM},
	}
	for _, f := range floats {
		if *f.dst, err = r.optionalFloat(f.column); err != nil {
			return Trial{}, err
		}
	}

	if v := r.get("rerecord_count"); v != "" {
		if t.RerecordCount, err = strconv.Atoi(v); err != nil {
			return Trial{}, fmt.Errorf("parse rerecord_count: %w", err)
		}
	}
	if t.AudioPlayed, err = r.optionalBool("audio_played"); err != nil {
		return Trial{}, err
	}
	if t.TextOnlyUsed, err = r.optionalBool("text_only_used"); err != nil {
		return Trial{}, err
	}
	if t.StartedAt, err = r.optionalTime("started_at"); err != nil {
		return Trial{}, err
	}
	if t.FinishedAt, err = r.optionalTime("finished_at"); err != nil {
		return Trial{}, err
	}

	return t, nil
}

func (r csvRow) optionalInt(column string) (*int, error) {
	v := r.get(column)
	if v == "" {
		return nil, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", column, err)
	}
	return &n, nil
}

func (r csvRow) optionalFloat(column string) (*float64, error) {
	v := r.get(column)
	if v == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", column, err)
	}
	return &f, nil
}

func (r csvRow) optionalBool(column string) (bool, error) {
	v := r.get(column)
	if v == "" {
		return false, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("parse %s: %w", column, err)
	}
	return b, nil
}

func (r csvRow) optionalTime(column string) (*time.Time, error) {
	v := r.get(column)
	if v == "" {
		return nil, nil
	}
	ts, err := time.Parse(time.RFC3339, v)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", column, err)
	}
	return &ts, nil
}

// parseTabs decodes the JSON list of visited tabs; anything else is empty
func parseTabs(s string) []string {
	var tabs []string
	if err := json.Unmarshal([]byte(s), &tabs); err != nil || len(tabs) == 0 {
		return nil
	}
	return tabs
}

func formatInt(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}

func formatFloat(v *float64, prec int) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', prec, 64)
}

func formatTime(v *time.Time) string {
	if v == nil {
		return ""
	}
	return v.UTC().Format(isoTimestamp)
}

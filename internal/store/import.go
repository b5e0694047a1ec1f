package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/moguls753/suds-study/internal/study"
)

// ErrUnknownParticipant is returned for a trial whose participant is not in
// the imported dataset
var ErrUnknownParticipant = errors.New("unknown participant")

const upsertParticipant = `
	INSERT INTO participants (id, participant_code, age, gender, education_level,
		tech_adaptation, speaking_anx, assigned_condition, completed)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	ON CONFLICT (participant_code) DO UPDATE SET
		age = EXCLUDED.age,
		gender = EXCLUDED.gender,
		education_level = EXCLUDED.education_level,
		tech_adaptation = EXCLUDED.tech_adaptation,
		speaking_anx = EXCLUDED.speaking_anx,
		assigned_condition = EXCLUDED.assigned_condition,
		completed = CASE WHEN $10 THEN EXCLUDED.completed ELSE participants.completed END
	RETURNING id
`

const upsertTrial = `
	INSERT INTO trials (id, participant_id, trial_index, condition, prompt_id, prompt_text,
		suds_pre, suds_post, recording_duration, rerecord_count, review_time_sec,
		audio_played, text_only_used, tabs_visited, felt_in_control, helpful,
		stats_word_count, stats_filler_count, stats_wpm, started_at, finished_at)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20, $21)
	ON CONFLICT (participant_id, trial_index) DO UPDATE SET
		condition = EXCLUDED.condition,
		suds_pre = EXCLUDED.suds_pre,
		suds_post = EXCLUDED.suds_post,
		recording_duration = EXCLUDED.recording_duration,
		rerecord_count = EXCLUDED.rerecord_count,
		review_time_sec = EXCLUDED.review_time_sec,
		audio_played = EXCLUDED.audio_played,
		text_only_used = EXCLUDED.text_only_used,
		tabs_visited = EXCLUDED.tabs_visited,
		felt_in_control = EXCLUDED.felt_in_control,
		helpful = EXCLUDED.helpful,
		stats_word_count = EXCLUDED.stats_word_count,
		stats_filler_count = EXCLUDED.stats_filler_count,
		stats_wpm = EXCLUDED.stats_wpm,
		started_at = EXCLUDED.started_at,
		finished_at = EXCLUDED.finished_at
`

// ImportDataset upserts participants by code and trials by participant and
// trial index, committing one transaction per batchSize rows. Existing rows
// keep their IDs, and their completed flag unless ds.CompletionKnown. Events
// are not imported.
func (s *Store) ImportDataset(ctx context.Context, ds study.Dataset, batchSize int) error {
	if batchSize < 1 {
		batchSize = 1
	}

	// dataset participant ID -> stored participant ID
	ids := make(map[uuid.UUID]uuid.UUID, len(ds.Participants))

	for _, r := range batchRanges(len(ds.Participants), batchSize) {
		batch := ds.Participants[r[0]:r[1]]
		err := s.inTx(ctx, upsertParticipant, func(stmt *sql.Stmt) error {
			for _, p := range batch {
				var id uuid.UUID
				if err := stmt.QueryRowContext(ctx,
					p.ID, p.Code, p.Age, p.Gender, p.Education,
					p.TechAdaptation, p.SpeakingAnxiety, string(p.AssignedCondition), p.Completed,
					ds.CompletionKnown,
				).Scan(&id); err != nil {
					return fmt.Errorf("insert participant %s: %w", p.Code, err)
				}
				ids[p.ID] = id
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	s.logger.Info("imported participants", "count", len(ds.Participants))

	for _, r := range batchRanges(len(ds.Trials), batchSize) {
		batch := ds.Trials[r[0]:r[1]]
		err := s.inTx(ctx, upsertTrial, func(stmt *sql.Stmt) error {
			for _, t := range batch {
				tabs := t.TabsVisited
				if tabs == nil {
					tabs = []string{}
				}
				participantID, ok := ids[t.ParticipantID]
				if !ok {
					return fmt.Errorf("insert trial %s: %w", t.ID, ErrUnknownParticipant)
				}
				if _, err := stmt.ExecContext(ctx,
					t.ID, participantID, t.Index, string(t.Condition), t.PromptID, t.PromptText,
					t.SudsPre, t.SudsPost, t.RecordingDurationSec, t.RerecordCount, t.ReviewTimeSec,
					t.AudioPlayed, t.TextOnlyUsed, pq.Array(tabs), t.FeltInControl, t.Helpful,
					t.WordCount, t.FillerCount, t.WPM, t.StartedAt, t.FinishedAt,
				); err != nil {
					return fmt.Errorf("insert trial %s: %w", t.ID, err)
				}
			}
			return nil
		})
		if err != nil {
			return err
		}
		s.logger.Debug("imported trial batch", "done", r[1], "total", len(ds.Trials))
	}
	s.logger.Info("imported trials", "count", len(ds.Trials))

	return nil
}

// inTx prepares query in a new transaction, runs fn and commits
func (s *Store) inTx(ctx context.Context, query string, fn func(*sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, query)
	if err != nil {
		return fmt.Errorf("prepare statement: %w", err)
	}
	defer stmt.Close()

	if err := fn(stmt); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// batchRanges splits [0, n) into half-open ranges of at most size elements
func batchRanges(n, size int) [][2]int {
	var ranges [][2]int
	for i := 0; i < n; i += size {
		ranges = append(ranges, [2]int{i, min(i+size, n)})
	}
	return ranges
}

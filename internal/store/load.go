package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/moguls753/suds-study/internal/study"
)

// LoadDataset reads every participant, trial and event log row
func (s *Store) LoadDataset(ctx context.Context) (study.Dataset, error) {
	ds := study.Dataset{CompletionKnown: true}
	var err error

	if ds.Participants, err = s.loadParticipants(ctx); err != nil {
		return study.Dataset{}, err
	}
	if ds.Trials, err = s.loadTrials(ctx); err != nil {
		return study.Dataset{}, err
	}
	if ds.Events, err = s.loadEvents(ctx); err != nil {
		return study.Dataset{}, err
	}

	s.logger.Info("loaded dataset",
		"participants", len(ds.Participants),
		"trials", len(ds.Trials),
		"events", len(ds.Events),
	)
	return ds, nil
}

func (s *Store) loadParticipants(ctx context.Context) ([]study.Participant, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, participant_code, age, gender, education_level, tech_adaptation,
		       speaking_anx, assigned_condition, completed, created_at
		FROM participants
		ORDER BY created_at, participant_code
	`)
	if err != nil {
		return nil, fmt.Errorf("query participants: %w", err)
	}
	defer rows.Close()

	var participants []study.Participant
	for rows.Next() {
		var p study.Participant
		var condition string
		if err := rows.Scan(
			&p.ID, &p.Code, &p.Age, &p.Gender, &p.Education, &p.TechAdaptation,
			&p.SpeakingAnxiety, &condition, &p.Completed, &p.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan participant: %w", err)
		}
		p.AssignedCondition = study.Condition(condition)
		participants = append(participants, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate participants: %w", err)
	}
	return participants, nil
}

func (s *Store) loadTrials(ctx context.Context) ([]study.Trial, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.participant_id, t.trial_index, t.condition, t.prompt_id, t.prompt_text,
		       t.suds_pre, t.suds_post, t.recording_duration, t.rerecord_count, t.review_time_sec,
		       t.audio_played, t.text_only_used, t.tabs_visited, t.felt_in_control, t.helpful,
		       t.stats_word_count, t.stats_filler_count, t.stats_wpm, t.started_at, t.finished_at
		FROM trials t
		JOIN participants p ON p.id = t.participant_id
		ORDER BY p.participant_code, t.trial_index
	`)
	if err != nil {
		return nil, fmt.Errorf("query trials: %w", err)
	}
	defer rows.Close()

	var trials []study.Trial
	for rows.Next() {
		var t study.Trial
		var condition string
		if err := rows.Scan(
			&t.ID, &t.ParticipantID, &t.Index, &condition, &t.PromptID, &t.PromptText,
			&t.SudsPre, &t.SudsPost, &t.RecordingDurationSec, &t.RerecordCount, &t.ReviewTimeSec,
			&t.AudioPlayed, &t.TextOnlyUsed, pq.Array(&t.TabsVisited), &t.FeltInControl, &t.Helpful,
			&t.WordCount, &t.FillerCount, &t.WPM, &t.StartedAt, &t.FinishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan trial: %w", err)
		}
		t.Condition = study.Condition(condition)
		if len(t.TabsVisited) == 0 {
			t.TabsVisited = nil
		}
		trials = append(trials, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate trials: %w", err)
	}
	return trials, nil
}

func (s *Store) loadEvents(ctx context.Context) ([]study.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, participant_id, event_name, metadata, created_at
		FROM event_logs
		ORDER BY created_at
	`)
	if err != nil {
		return nil, fmt.Errorf("query event logs: %w", err)
	}
	defer rows.Close()

	var events []study.Event
	for rows.Next() {
		var e study.Event
		var participantID uuid.NullUUID
		var metadata []byte
		if err := rows.Scan(&e.ID, &participantID, &e.Name, &metadata, &e.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan event log: %w", err)
		}
		if participantID.Valid {
			e.ParticipantID = participantID.UUID
		}
		e.Metadata = json.RawMessage(metadata)
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate event logs: %w", err)
	}
	return events, nil
}

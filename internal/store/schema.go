package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS participants (
		id                 UUID PRIMARY KEY,
		participant_code   TEXT NOT NULL UNIQUE,
		age                INT,
		gender             TEXT NOT NULL DEFAULT '',
		education_level    TEXT NOT NULL DEFAULT '',
		tech_adaptation    INT,
		speaking_anx       INT,
		assigned_condition TEXT NOT NULL,
		completed          BOOLEAN NOT NULL DEFAULT FALSE,
		created_at         TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS trials (
		id                 UUID PRIMARY KEY,
		participant_id     UUID NOT NULL REFERENCES participants(id) ON DELETE CASCADE,
		trial_index        INT NOT NULL,
		condition          TEXT NOT NULL,
		prompt_id          TEXT NOT NULL DEFAULT '',
		prompt_text        TEXT NOT NULL DEFAULT '',
		suds_pre           INT,
		suds_post          INT,
		recording_duration DOUBLE PRECISION,
		rerecord_count     INT NOT NULL DEFAULT 0,
		review_time_sec    DOUBLE PRECISION,
		audio_played       BOOLEAN NOT NULL DEFAULT FALSE,
		text_only_used     BOOLEAN NOT NULL DEFAULT FALSE,
		tabs_visited       TEXT[] NOT NULL DEFAULT '{}',
		felt_in_control    INT,
		helpful            INT,
		stats_word_count   INT,
		stats_filler_count INT,
		stats_wpm          DOUBLE PRECISION,
		started_at         TIMESTAMPTZ,
		finished_at        TIMESTAMPTZ,
		UNIQUE (participant_id, trial_index)
	)`,
	`CREATE TABLE IF NOT EXISTS event_logs (
		id             UUID PRIMARY KEY,
		participant_id UUID REFERENCES participants(id) ON DELETE SET NULL,
		event_name     TEXT NOT NULL,
		metadata       JSONB,
		created_at     TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS event_logs_event_name_idx ON event_logs (event_name)`,
}

// CreateSchema creates the study tables if they do not exist
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

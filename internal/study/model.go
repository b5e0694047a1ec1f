package study

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Condition is the arm a participant or trial belongs to
type Condition string

const (
	Control    Condition = "control"
	Experiment Condition = "experiment"
)

// Valid reports whether c is one of the known conditions
func (c Condition) Valid() bool {
	return c == Control || c == Experiment
}

// Code returns the regression dummy code (0 = control, 1 = experiment)
func (c Condition) Code() float64 {
	if c == Experiment {
		return 1
	}
	return 0
}

// Participant is one enrolled subject
type Participant struct {
	ID                uuid.UUID
	Code              string // Human-facing participant code
	Age               *int
	Gender            string
	Education         string
	TechAdaptation    *int
	SpeakingAnxiety   *int
	AssignedCondition Condition
	Completed         bool
	CreatedAt         time.Time
}

// Trial is one speaking task with its SUDS ratings (0–100)
type Trial struct {
	ID                   uuid.UUID
	ParticipantID        uuid.UUID
	Index                int
	Condition            Condition
	PromptID             string
	PromptText           string
	SudsPre              *int
	SudsPost             *int
	RecordingDurationSec *float64
	RerecordCount        int
	ReviewTimeSec        *float64
	AudioPlayed          bool
	TextOnlyUsed         bool
	TabsVisited          []string
	FeltInControl        *int
	Helpful              *int
	WordCount            *int
	FillerCount          *int
	WPM                  *float64
	StartedAt            *time.Time
	FinishedAt           *time.Time
}

// DeltaSUDS returns post - pre. ok is false unless both ratings exist.
func (t Trial) DeltaSUDS() (delta float64, ok bool) {
	if t.SudsPre == nil || t.SudsPost == nil {
		return 0, false
	}
	return float64(*t.SudsPost - *t.SudsPre), true
}

// Event is a client-side interaction log entry
type Event struct {
	ID            uuid.UUID
	ParticipantID uuid.UUID
	Name          string
	Metadata      json.RawMessage
	CreatedAt     time.Time
}

// Dataset is everything the analysis needs, already loaded in memory
type Dataset struct {
	Participants []Participant
	Trials       []Trial
	Events       []Event

	// CompletionKnown is false when the source carried no completion flag
	// and every participant defaulted to completed
	CompletionKnown bool
}

// TrialsFor returns the trials of one participant ordered as stored
func (ds Dataset) TrialsFor(participantID uuid.UUID) []Trial {
	var trials []Trial
	for _, t := range ds.Trials {
		if t.ParticipantID == participantID {
			trials = append(trials, t)
		}
	}
	return trials
}

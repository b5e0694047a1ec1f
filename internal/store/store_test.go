package store

import (
	"bytes"
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moguls753/suds-study/internal/config"
	"github.com/moguls753/suds-study/internal/logging"
	"github.com/moguls753/suds-study/internal/study"
)

func TestBatchRanges(t *testing.T) {
	assert.Nil(t, batchRanges(0, 10))
	assert.Equal(t, [][2]int{{0, 3}}, batchRanges(3, 10))
	assert.Equal(t, [][2]int{{0, 2}, {2, 4}, {4, 5}}, batchRanges(5, 2))
	assert.Equal(t, [][2]int{{0, 1}, {1, 2}}, batchRanges(2, 1))
}

func TestWaitForReadyTimeout(t *testing.T) {
	// Nothing listens on port 1.
	dsn := "host=127.0.0.1 port=1 user=x dbname=x sslmode=disable connect_timeout=1"
	err := WaitForReady(context.Background(), dsn, 600*time.Millisecond)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timeout waiting for PostgreSQL")
}

// testStore connects to STUDY_TEST_DSN, a throwaway database. The
// integration tests are skipped without it.
func testStore(t *testing.T) *Store {
	t.Helper()
	dsn := os.Getenv("STUDY_TEST_DSN")
	if dsn == "" {
		t.Skip("STUDY_TEST_DSN not set")
	}

	cfg := config.Default().Database
	for _, kv := range strings.Fields(dsn) {
		k, v, _ := strings.Cut(kv, "=")
		switch k {
		case "host":
			cfg.Host = v
		case "user":
			cfg.User = v
		case "password":
			cfg.Password = v
		case "dbname":
			cfg.Name = v
		case "sslmode":
			cfg.SSLMode = v
		}
	}

	ctx := context.Background()
	s, err := Open(ctx, cfg, logging.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })

	for _, stmt := range []string{"DROP TABLE IF EXISTS event_logs", "DROP TABLE IF EXISTS trials", "DROP TABLE IF EXISTS participants"} {
		_, err := s.db.ExecContext(ctx, stmt)
		require.NoError(t, err)
	}
	require.NoError(t, s.CreateSchema(ctx))
	return s
}

func TestImportAndLoad(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	const export = `participant_code,assigned_condition,trial_index,condition,suds_pre,suds_post,tabs_visited
P01,control,0,control,60,55,"[""stats""]"
P01,control,1,control,50,45,[]
P02,experiment,0,experiment,70,40,"[""audio"",""text""]"
`
	ds, err := study.ReadTrialsCSV(strings.NewReader(export))
	require.NoError(t, err)

	require.NoError(t, s.ImportDataset(ctx, ds, 2))
	// Upserts make a second import a no-op.
	require.NoError(t, s.ImportDataset(ctx, ds, 2))

	loaded, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Participants, 2)
	require.Len(t, loaded.Trials, 3)
	assert.Empty(t, loaded.Events)

	assert.Equal(t, "P01", loaded.Participants[0].Code)
	assert.Equal(t, []string{"stats"}, loaded.Trials[0].TabsVisited)
	assert.Nil(t, loaded.Trials[1].TabsVisited)
	assert.Equal(t, []string{"audio", "text"}, loaded.Trials[2].TabsVisited)

	report := study.Summarize(loaded, 0.05)
	assert.Equal(t, 2, report.ParticipantCount)

	usage, err := s.Usage(ctx)
	require.NoError(t, err)
	require.Len(t, usage, 3)
	assert.Equal(t, "trials", usage[1].Table)
	assert.Equal(t, int64(3), usage[1].Rows)
	assert.Positive(t, usage[1].IndexSize)
}

func TestImportMatchesExistingParticipantsByCode(t *testing.T) {
	s := testStore(t)
	ctx := context.Background()

	// A session recorded by the web app: random ID, not finished
	existing := uuid.New()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO participants (id, participant_code, assigned_condition, completed) VALUES ($1, 'P01', 'control', false)`,
		existing)
	require.NoError(t, err)
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO trials (id, participant_id, trial_index, condition, suds_pre) VALUES ($1, $2, 0, 'control', 60)`,
		uuid.New(), existing)
	require.NoError(t, err)

	// No participant_completed column: the stored flag must survive
	ds, err := study.ReadTrialsCSV(strings.NewReader(`participant_code,assigned_condition,trial_index,condition,suds_pre,suds_post
P01,control,0,control,60,55
P01,control,1,control,50,45
`))
	require.NoError(t, err)
	require.NoError(t, s.ImportDataset(ctx, ds, 10))

	loaded, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	require.Len(t, loaded.Participants, 1)
	assert.Equal(t, existing, loaded.Participants[0].ID)
	assert.False(t, loaded.Participants[0].Completed)
	require.Len(t, loaded.Trials, 2)
	for _, tr := range loaded.Trials {
		assert.Equal(t, existing, tr.ParticipantID)
	}
	require.NotNil(t, loaded.Trials[0].SudsPost)
	assert.Equal(t, 55, *loaded.Trials[0].SudsPost)

	// Re-importing our own export is an upsert that keeps the flag as written
	var buf bytes.Buffer
	require.NoError(t, study.WriteTrialsCSV(&buf, loaded))
	again, err := study.ReadTrialsCSV(&buf)
	require.NoError(t, err)
	assert.True(t, again.CompletionKnown)
	require.NoError(t, s.ImportDataset(ctx, again, 10))

	reloaded, err := s.LoadDataset(ctx)
	require.NoError(t, err)
	require.Len(t, reloaded.Participants, 1)
	assert.False(t, reloaded.Participants[0].Completed)
	assert.Len(t, reloaded.Trials, 2)

	// An explicit flag overwrites
	done, err := study.ReadTrialsCSV(strings.NewReader("participant_code,assigned_condition,trial_index,condition,participant_completed\nP01,control,0,control,true\n"))
	require.NoError(t, err)
	require.NoError(t, s.ImportDataset(ctx, done, 10))

	reloaded, err = s.LoadDataset(ctx)
	require.NoError(t, err)
	assert.True(t, reloaded.Participants[0].Completed)
}

func TestImportRejectsOrphanTrials(t *testing.T) {
	s := testStore(t)

	ds := study.Dataset{Trials: []study.Trial{{
		ID: study.TrialID("P09", 0), ParticipantID: study.ParticipantID("P09"), Condition: study.Control,
	}}}
	err := s.ImportDataset(context.Background(), ds, 10)
	assert.ErrorIs(t, err, ErrUnknownParticipant)
}

package runner

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/moguls753/suds-study/internal/config"
	"github.com/moguls753/suds-study/internal/store"
	"github.com/moguls753/suds-study/internal/study"
)

// Runner loads study data from the configured source and analyzes it
type Runner struct {
	cfg    config.Config
	logger *slog.Logger
}

// New returns a runner for cfg. cfg should already be validated.
func New(cfg config.Config, logger *slog.Logger) *Runner {
	return &Runner{cfg: cfg, logger: logger}
}

// Load reads the full dataset from PostgreSQL or from the per-trial CSV export
func (r *Runner) Load(ctx context.Context) (study.Dataset, error) {
	switch r.cfg.Source {
	case config.SourceCSV:
		return r.loadCSV(r.cfg.CSVPath)
	case config.SourcePostgres:
		return r.loadPostgres(ctx)
	default:
		return study.Dataset{}, fmt.Errorf("%w: unknown source %q", config.ErrInvalid, r.cfg.Source)
	}
}

// Report evaluates the intervention on the loaded dataset
//
// The report contains:
//   - ΔSUDS descriptives per trial condition
//   - Welch t-test on per-participant mean ΔSUDS, experiment vs control
//   - Paired t-test of post against pre ratings within each condition
//   - Regression of ΔSUDS on the condition code
//   - Prompt-to-recording latency percentiles
//
// Tests without enough data carry a nil result instead of failing the report.
func (r *Runner) Report(ctx context.Context) (*study.Report, error) {
	ds, err := r.Load(ctx)
	if err != nil {
		return nil, err
	}

	report := study.Summarize(ds, r.cfg.Alpha)
	r.logger.Info("computed report",
		"id", report.ID.String(),
		"participants", report.ParticipantCount,
		"trials", report.TotalTrials,
	)
	for _, skipped := range report.Unavailable() {
		r.logger.Warn("test skipped", "test", skipped)
	}
	return report, nil
}

// Import copies a per-trial CSV export into PostgreSQL, creating the schema
// first if needed, and returns the resulting table usage
func (r *Runner) Import(ctx context.Context, csvPath string, batchSize int) ([]store.TableUsage, error) {
	ds, err := r.loadCSV(csvPath)
	if err != nil {
		return nil, err
	}

	s, err := store.Open(ctx, r.cfg.Database, r.logger)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	defer s.Close()

	if err := s.CreateSchema(ctx); err != nil {
		return nil, err
	}
	if err := s.ImportDataset(ctx, ds, batchSize); err != nil {
		return nil, fmt.Errorf("import %s: %w", csvPath, err)
	}
	return s.Usage(ctx)
}

func (r *Runner) loadCSV(path string) (study.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return study.Dataset{}, fmt.Errorf("open trials CSV: %w", err)
	}
	defer f.Close()

	ds, err := study.ReadTrialsCSV(f)
	if err != nil {
		return study.Dataset{}, fmt.Errorf("read %s: %w", path, err)
	}
	r.logger.Info("loaded trials CSV", "path", path, "participants", len(ds.Participants), "trials", len(ds.Trials))
	return ds, nil
}

func (r *Runner) loadPostgres(ctx context.Context) (study.Dataset, error) {
	s, err := store.Open(ctx, r.cfg.Database, r.logger)
	if err != nil {
		return study.Dataset{}, fmt.Errorf("connect: %w", err)
	}
	defer s.Close()

	return s.LoadDataset(ctx)
}

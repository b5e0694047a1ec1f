package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/moguls753/suds-study/internal/config"
	"github.com/moguls753/suds-study/internal/container"
	"github.com/moguls753/suds-study/internal/display"
	"github.com/moguls753/suds-study/internal/export"
	"github.com/moguls753/suds-study/internal/logging"
	"github.com/moguls753/suds-study/internal/runner"
)

// ErrVerificationFailed is returned by verify when a reference check misses
var ErrVerificationFailed = errors.New("verification failed")

// app holds the state shared by all commands of one invocation
type app struct {
	configPath string
	logLevel   string
	startDB    bool

	// per-command overrides, applied only when the flag was set
	source     string
	csvPath    string
	alpha      float64
	summaryCSV string
	trialsCSV  string
	batchSize  int

	cfg    config.Config
	logger *slog.Logger
	stopDB func()
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:           "studystats",
		Short:         "Analyze the SUDS speaking-anxiety study",
		Long:          "studystats loads the study data from PostgreSQL or a per-trial CSV export\nand reports whether the intervention lowered self-reported distress.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVar(&a.configPath, "config", "", "YAML config file (defaults are used when empty)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	root.PersistentFlags().BoolVar(&a.startDB, "start-db", false, "Start a fresh PostgreSQL container with docker compose")

	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Print the statistical summary of the study",
		Args:  cobra.NoArgs,
		RunE:  a.runReport,
	}
	addSourceFlags(reportCmd, a)
	reportCmd.Flags().Float64Var(&a.alpha, "alpha", 0, "Significance level")
	reportCmd.Flags().StringVar(&a.summaryCSV, "summary-csv", "", "Also write the summary to this CSV file")

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Write the per-trial CSV export",
		Args:  cobra.NoArgs,
		RunE:  a.runExport,
	}
	addSourceFlags(exportCmd, a)
	exportCmd.Flags().StringVarP(&a.trialsCSV, "out", "o", "", "Output file (default: output.trials_csv from config)")

	importCmd := &cobra.Command{
		Use:   "import <trials.csv>",
		Short: "Load a per-trial CSV export into PostgreSQL",
		Args:  cobra.ExactArgs(1),
		RunE:  a.runImport,
	}
	importCmd.Flags().IntVar(&a.batchSize, "batch-size", 500, "Rows per transaction")

	verifyCmd := &cobra.Command{
		Use:   "verify",
		Short: "Check the statistics engine against reference values",
		Args:  cobra.NoArgs,
		RunE:  a.runVerify,
	}

	root.AddCommand(reportCmd, exportCmd, importCmd, verifyCmd)
	return root
}

func addSourceFlags(cmd *cobra.Command, a *app) {
	cmd.Flags().StringVar(&a.source, "source", "", "Data source (postgres or csv)")
	cmd.Flags().StringVar(&a.csvPath, "csv", "", "Per-trial CSV export to read when source is csv")
}

// setup loads the config, applies flag overrides and optionally starts the
// database container
func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("csv") {
		cfg.CSVPath = a.csvPath
		if !flags.Changed("source") {
			cfg.Source = config.SourceCSV
		}
	}
	if flags.Changed("source") {
		cfg.Source = a.source
	}
	if flags.Changed("alpha") {
		cfg.Alpha = a.alpha
	}
	if flags.Changed("summary-csv") {
		cfg.Output.SummaryCSV = a.summaryCSV
	}
	if flags.Changed("out") {
		cfg.Output.TrialsCSV = a.trialsCSV
	}

	if _, err := logging.ParseLevel(cfg.Log.Level); err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalid, err)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	a.cfg = cfg
	a.logger = logging.New(logging.Config{
		Level:   cfg.Log.Level,
		Format:  cfg.Log.Format,
		Service: "studystats",
	})

	if a.startDB {
		pg := container.PostgresConfig(cfg.ComposeFile, cfg.Database.DSN())
		a.stopDB = func() { container.Stop(context.Background(), cfg.ComposeFile, a.logger) }
		if err := container.Start(cmd.Context(), pg, a.logger); err != nil {
			return err
		}
	}
	return nil
}

// shutdown releases whatever setup started
func (a *app) shutdown() {
	if a.stopDB != nil {
		a.stopDB()
		a.stopDB = nil
	}
}

func (a *app) runReport(cmd *cobra.Command, args []string) error {
	report, err := runner.New(a.cfg, a.logger).Report(cmd.Context())
	if err != nil {
		return err
	}

	display.Report(cmd.OutOrStdout(), report)

	if path := a.cfg.Output.SummaryCSV; path != "" {
		if err := export.SummaryToCSV(report, path); err != nil {
			return err
		}
		a.logger.Info("wrote summary CSV", "path", path)
	}
	return nil
}

func (a *app) runExport(cmd *cobra.Command, args []string) error {
	path := a.cfg.Output.TrialsCSV
	if path == "" {
		return fmt.Errorf("%w: no output file, pass --out or set output.trials_csv", config.ErrInvalid)
	}

	ds, err := runner.New(a.cfg, a.logger).Load(cmd.Context())
	if err != nil {
		return err
	}
	if err := export.TrialsToCSV(ds, path); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ Exported %d trials of %d participants to %s\n", len(ds.Trials), len(ds.Participants), path)
	return nil
}

func (a *app) runImport(cmd *cobra.Command, args []string) error {
	usage, err := runner.New(a.cfg, a.logger).Import(cmd.Context(), args[0], a.batchSize)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "✓ Imported %s\n", args[0])
	display.Usage(cmd.OutOrStdout(), usage)
	return nil
}

func (a *app) runVerify(cmd *cobra.Command, args []string) error {
	failed := display.Verification(cmd.OutOrStdout(), runner.Verify())
	if failed > 0 {
		return fmt.Errorf("%w: %d checks", ErrVerificationFailed, failed)
	}
	return nil
}

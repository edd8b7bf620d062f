package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/harrison/covgate/internal/acquire"
	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/display"
	"github.com/harrison/covgate/internal/filelock"
	"github.com/harrison/covgate/internal/history"
	"github.com/harrison/covgate/internal/logger"
	"github.com/harrison/covgate/internal/models"
	"github.com/harrison/covgate/internal/report"
	"github.com/harrison/covgate/internal/validation"
)

// ErrThresholdsNotMet is returned when at least one coverage metric falls
// below its threshold. It drives the non-zero process exit without masking
// the presenter's already-printed verdict.
var ErrThresholdsNotMet = errors.New("coverage thresholds not met")

// NewCheckCommand creates and returns the check subcommand
func NewCheckCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Validate coverage against configured thresholds",
		Long: `Acquire coverage data for the current repository, validate each metric
against its threshold, and write report artifacts to the coverage
output directory (coverage-report.json, coverage-summary.html,
badge.json, coverage-summary.md).

Exit code: 0 if every metric meets its threshold, 1 otherwise`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return checkCurrentDir(cmd)
		},
		SilenceUsage: true,
	}

	return cmd
}

// checkCurrentDir runs the pipeline against the current working directory.
func checkCurrentDir(cmd *cobra.Command) error {
	root, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("failed to resolve working directory: %w", err)
	}

	cfg, err := config.LoadConfigFromDir(root)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.ErrOrStderr(), cfg.LogLevel)
	return runCheck(cmd.Context(), root, cfg, log, cmd.OutOrStdout())
}

// runCheck executes the full validation pipeline: acquire, validate,
// persist artifacts, record history, present.
func runCheck(ctx context.Context, root string, cfg *config.Config, log *logger.ConsoleLogger, out io.Writer) error {
	outputDir := filepath.Join(root, cfg.OutputDir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// Concurrent runs racing on the output directory are unsupported
	lock := filelock.NewRunLock(outputDir)
	acquired, err := lock.TryAcquire()
	if err != nil {
		return err
	}
	if !acquired {
		return fmt.Errorf("another covgate run is already using %s", outputDir)
	}
	defer lock.Release()

	acquirer := acquire.New(root, cfg, log)
	rep, err := acquirer.Acquire(ctx)
	if err != nil {
		return err
	}

	results := validation.Validate(rep, cfg.Thresholds)

	runID := uuid.NewString()
	generator := &report.Generator{OutputDir: outputDir, Logger: log}
	generator.WriteAll(rep, cfg.Thresholds, results, runID)

	if cfg.History.Enabled {
		recordRun(ctx, root, cfg, rep, results, runID, log)
	}

	presenter := display.NewPresenter(out)
	if code := presenter.Present(rep, results); code != 0 {
		return ErrThresholdsNotMet
	}
	return nil
}

// recordRun appends the run to the history database. History failures are
// warnings; they never affect the verdict.
func recordRun(ctx context.Context, root string, cfg *config.Config, rep *models.CoverageReport, results []models.ValidationResult, runID string, log *logger.ConsoleLogger) {
	store, err := history.NewStore(filepath.Join(root, cfg.History.DBPath))
	if err != nil {
		log.LogWarn(fmt.Sprintf("failed to open history database: %v", err))
		return
	}
	defer store.Close()

	run := history.Run{
		ID:         runID,
		CreatedAt:  time.Now().UTC(),
		Provenance: string(rep.Provenance),
		Source:     string(rep.Source),
		Lines:      rep.Metric(models.MetricLines).Percentage,
		Functions:  rep.Metric(models.MetricFunctions).Percentage,
		Branches:   rep.Metric(models.MetricBranches).Percentage,
		Statements: rep.Metric(models.MetricStatements).Percentage,
		Passed:     models.AllPassed(results),
	}
	if err := store.RecordRun(ctx, run); err != nil {
		log.LogWarn(fmt.Sprintf("failed to record run history: %v", err))
	}
}

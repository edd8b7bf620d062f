// Package acquire orchestrates coverage data acquisition. It degrades
// gracefully through four data-source tiers — LCOV file, Go cover profile,
// scraped runner output, file-ratio estimate — and always produces a
// coverage report, never an error for "no coverage available".
package acquire

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/estimation"
	"github.com/harrison/covgate/internal/fileutil"
	"github.com/harrison/covgate/internal/goprofile"
	"github.com/harrison/covgate/internal/lcov"
	"github.com/harrison/covgate/internal/logger"
	"github.com/harrison/covgate/internal/models"
	"github.com/harrison/covgate/internal/runner"
)

// Coverage artifact names looked up under the output directory.
const (
	LCOVFileName      = "lcov.info"
	GoProfileFileName = "coverage.out"
)

// TestRunner runs the external test-with-coverage command.
type TestRunner interface {
	Run(ctx context.Context) *runner.Result
}

// Acquirer produces a coverage report for a repository root.
type Acquirer struct {
	// Root is the repository root directory.
	Root string

	// Config carries the output directory, globs, and runner settings.
	Config *config.Config

	// Logger surfaces tier downgrades so the operator can always tell
	// whether the verdict rests on measured data or an estimate.
	Logger *logger.ConsoleLogger

	// Runner invokes the test command. Replaceable for testing.
	Runner TestRunner
}

// New creates an Acquirer with a command runner built from the config.
func New(root string, cfg *config.Config, log *logger.ConsoleLogger) *Acquirer {
	return &Acquirer{
		Root:   root,
		Config: cfg,
		Logger: log,
		Runner: &runner.Runner{
			Command: cfg.TestCommand,
			Dir:     root,
			Timeout: cfg.TestTimeout,
		},
	}
}

// Acquire obtains a coverage report, walking the data-source tiers in order.
// The only fatal error is being unable to prepare the output directory or
// count repository files; everything else downgrades to the next tier.
func (a *Acquirer) Acquire(ctx context.Context) (*models.CoverageReport, error) {
	outputDir := filepath.Join(a.Root, a.Config.OutputDir)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	counts, err := fileutil.CountFiles(a.Root, fileutil.CountOptions{
		SourceGlobs: a.Config.SourceGlobs,
		TestGlobs:   a.Config.TestGlobs,
		ExcludeDirs: a.Config.ExcludeDirs,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to count repository files: %w", err)
	}
	a.Logger.LogDebug(fmt.Sprintf("found %d test files, %d source files", counts.TestFiles, counts.SourceFiles))

	// Run the external test command only when there are tests to run; the
	// run is best-effort and its output is kept for the scrape tier
	runOutput := ""
	if counts.TestFiles == 0 {
		a.Logger.LogWarn("no test files found, skipping test run")
	} else if a.Runner != nil {
		a.Logger.LogInfo("running test command: " + a.Config.TestCommand)
		result := a.Runner.Run(ctx)
		runOutput = result.Output
		if !result.Ran() {
			a.Logger.LogWarn(fmt.Sprintf("test run did not complete: %v", result.Err))
		}
	}

	// Tier 1: LCOV artifact
	lcovPath := filepath.Join(outputDir, LCOVFileName)
	if fileExists(lcovPath) {
		parsed, err := lcov.ParseFile(lcovPath)
		if err == nil {
			if parsed.SkippedLines > 0 {
				a.Logger.LogWarn(fmt.Sprintf("skipped %d malformed lcov records", parsed.SkippedLines))
			}
			a.Logger.LogInfo("coverage source: lcov file")
			return parsed.Report, nil
		}
		a.Logger.LogDowngrade("lcov file", err.Error())
	} else {
		a.Logger.LogDowngrade("lcov file", "not found")
	}

	// Tier 2: Go cover profile
	profilePath := filepath.Join(outputDir, GoProfileFileName)
	if fileExists(profilePath) {
		report, err := goprofile.ParseFile(profilePath)
		if err == nil {
			a.Logger.LogInfo("coverage source: go cover profile")
			return report, nil
		}
		a.Logger.LogDowngrade("go cover profile", err.Error())
	} else {
		a.Logger.LogDowngrade("go cover profile", "not found")
	}

	// Tier 3: percentages scraped from the runner's console output
	if pct, ok := ScrapePercentage(runOutput); ok {
		a.Logger.LogInfo(fmt.Sprintf("coverage source: test output (%d%%)", pct))
		return consoleReport(pct), nil
	}
	a.Logger.LogDowngrade("test output", "no percentage patterns matched")

	// Tier 4: estimate from file ratios
	a.Logger.LogWarn("no coverage data available, estimating from file counts")
	return estimation.Estimate(counts.TestFiles, counts.SourceFiles), nil
}

// consoleReport maps a single scraped percentage onto all four metrics.
// No covered/total counts exist for this tier; the percentage stands alone.
func consoleReport(pct int) *models.CoverageReport {
	report := models.NewCoverageReport(models.ProvenanceMeasured, models.SourceConsole)
	for _, name := range models.MetricOrder {
		report.Metrics[name] = models.MetricCoverage{Percentage: pct}
	}
	return report
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

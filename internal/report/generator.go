// Package report renders a validated coverage run into persisted artifacts:
// a JSON summary, an HTML page, a shield-compatible badge descriptor, and a
// markdown summary. Artifact writes are best-effort; failures are logged and
// never affect the pass/fail verdict.
package report

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"time"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/filelock"
	"github.com/harrison/covgate/internal/logger"
	"github.com/harrison/covgate/internal/models"
)

// Artifact filenames under the coverage output directory.
const (
	JSONReportName      = "coverage-report.json"
	HTMLReportName      = "coverage-summary.html"
	BadgeName           = "badge.json"
	MarkdownSummaryName = "coverage-summary.md"
)

// Generator persists coverage artifacts to the output directory.
type Generator struct {
	// OutputDir is the coverage artifact directory.
	OutputDir string

	// Logger receives warnings for failed artifact writes. May be nil.
	Logger *logger.ConsoleLogger
}

// Summary is the aggregate verdict embedded in the JSON report.
type Summary struct {
	// Total is the unweighted mean of the four metric percentages.
	// Zero-total metrics still contribute their 0%.
	Total float64 `json:"total"`

	// Passed is true iff every metric meets its threshold.
	Passed bool `json:"passed"`
}

// jsonReport is the schema of coverage-report.json.
type jsonReport struct {
	RunID      string                           `json:"runId"`
	Timestamp  string                           `json:"timestamp"`
	Provenance models.Provenance                `json:"provenance"`
	Source     models.Source                    `json:"source"`
	Coverage   map[string]models.MetricCoverage `json:"coverage"`
	Thresholds config.Thresholds                `json:"thresholds"`
	Results    []models.ValidationResult        `json:"results"`
	Summary    Summary                          `json:"summary"`
}

// WriteAll persists every artifact, logging a warning per failure and
// continuing. The artifacts are independent; one failed write never blocks
// the others.
func (g *Generator) WriteAll(rep *models.CoverageReport, thresholds config.Thresholds, results []models.ValidationResult, runID string) {
	now := time.Now()

	writes := []struct {
		name string
		fn   func() error
	}{
		{JSONReportName, func() error { return g.WriteJSON(rep, thresholds, results, runID, now) }},
		{HTMLReportName, func() error { return g.WriteHTML(rep, thresholds, results, now) }},
		{BadgeName, func() error { return g.WriteBadge(rep) }},
		{MarkdownSummaryName, func() error { return g.WriteMarkdown(rep, thresholds, results, now) }},
	}

	for _, w := range writes {
		if err := w.fn(); err != nil {
			g.warnf("failed to write %s: %v", w.name, err)
		}
	}
}

// WriteJSON persists the machine-readable report.
func (g *Generator) WriteJSON(rep *models.CoverageReport, thresholds config.Thresholds, results []models.ValidationResult, runID string, now time.Time) error {
	doc := jsonReport{
		RunID:      runID,
		Timestamp:  now.UTC().Format(time.RFC3339),
		Provenance: rep.Provenance,
		Source:     rep.Source,
		Coverage:   rep.Metrics,
		Thresholds: thresholds,
		Results:    results,
		Summary: Summary{
			Total:  rep.AveragePercentage(),
			Passed: models.AllPassed(results),
		},
	}

	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal json report: %w", err)
	}
	data = append(data, '\n')

	return filelock.AtomicWrite(filepath.Join(g.OutputDir, JSONReportName), data)
}

// WriteBadge persists the shield-compatible badge descriptor.
func (g *Generator) WriteBadge(rep *models.CoverageReport) error {
	badge := NewBadge(rep.AveragePercentage())

	data, err := json.MarshalIndent(badge, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal badge: %w", err)
	}
	data = append(data, '\n')

	return filelock.AtomicWrite(filepath.Join(g.OutputDir, BadgeName), data)
}

// WriteMarkdown persists the markdown summary.
func (g *Generator) WriteMarkdown(rep *models.CoverageReport, thresholds config.Thresholds, results []models.ValidationResult, now time.Time) error {
	content := BuildMarkdownSummary(rep, thresholds, results, now)
	return filelock.AtomicWrite(filepath.Join(g.OutputDir, MarkdownSummaryName), []byte(content))
}

// warnf logs a formatted warning if a logger is configured.
func (g *Generator) warnf(format string, args ...interface{}) {
	if g.Logger != nil {
		g.Logger.LogWarn(fmt.Sprintf(format, args...))
	}
}

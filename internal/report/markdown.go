package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/covgate/internal/config"
	"github.com/harrison/covgate/internal/models"
)

// BuildMarkdownSummary renders the coverage run as a markdown document with
// a per-metric status table. The same content feeds the details section of
// the HTML report.
func BuildMarkdownSummary(rep *models.CoverageReport, thresholds config.Thresholds, results []models.ValidationResult, now time.Time) string {
	var sb strings.Builder

	sb.WriteString("# Coverage Summary\n\n")
	sb.WriteString(fmt.Sprintf("*Generated: %s*\n\n", now.Format("2006-01-02 15:04:05 MST")))

	sb.WriteString(fmt.Sprintf("**Overall:** %.1f%%\n\n", rep.AveragePercentage()))

	if rep.Provenance == models.ProvenanceEstimated {
		sb.WriteString("> Coverage below is **estimated** from test-to-source file ratios.\n")
		sb.WriteString("> No instrumentation data was available for this run.\n\n")
	}

	sb.WriteString("| Metric | Coverage | Covered/Total | Threshold | Status |\n")
	sb.WriteString("|--------|----------|---------------|-----------|--------|\n")
	for _, r := range results {
		metric := rep.Metric(r.Metric)
		status := "PASS"
		if !r.Passed {
			status = "FAIL"
		}
		sb.WriteString(fmt.Sprintf("| %s | %d%% | %s | %d%% | %s |\n",
			r.Metric, r.Actual, metric.FormatRatio(), r.Threshold, status))
	}
	sb.WriteString("\n")

	passed, total := models.PassCount(results)
	sb.WriteString(fmt.Sprintf("%d/%d metrics meet their thresholds.\n", passed, total))
	sb.WriteString(fmt.Sprintf("\nData source: %s (%s)\n", rep.Source, rep.Provenance))

	return sb.String()
}
